package drafts_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports/mocks"
	"go.trai.ch/scribe/internal/engine/drafts"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func codeDesc(name string) domain.Descriptor {
	return domain.CodeDescriptor(domain.NewPath(domain.KindWidget, name))
}

func TestStore_SetGet_MemoryOnly(t *testing.T) {
	s := drafts.NewStore(nil, nil)

	require.NoError(t, s.Set(domain.DomainCode, codeDesc("x"), domain.DraftValue{Code: "A"}))
	require.NoError(t, s.Set(domain.DomainCode, codeDesc("x"), domain.DraftValue{Code: "B"}))

	var got domain.DraftValue
	src, err := s.Get(context.Background(), domain.DomainCode, codeDesc("x"), &got)
	require.NoError(t, err)
	assert.Equal(t, drafts.SourceLocal, src)
	assert.Equal(t, "B", got.Code)

	// Same descriptor in another domain does not collide.
	src, err = s.Get(context.Background(), domain.DomainIndexerCode, codeDesc("x"), &got)
	require.NoError(t, err)
	assert.Equal(t, drafts.SourceNone, src)
}

func TestStore_WritesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockLocalPersistence(ctrl)
	s := drafts.NewStore(p, mocks.NewMockLogger(ctrl))

	p.EXPECT().Write(gomock.Any()).DoAndReturn(func(e domain.CacheEntry) error {
		assert.Equal(t, domain.DomainCode, e.Domain)
		assert.Equal(t, codeDesc("x"), e.Descriptor)
		assert.JSONEq(t, `{"code":"A"}`, string(e.Value))
		assert.False(t, e.StoredAt.IsZero())
		return nil
	})

	require.NoError(t, s.Set(domain.DomainCode, codeDesc("x"), domain.DraftValue{Code: "A"}))
	assert.False(t, s.Degraded())
}

func TestStore_GetPopulatesFromPersistence(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockLocalPersistence(ctrl)
	s := drafts.NewStore(p, mocks.NewMockLogger(ctrl))

	p.EXPECT().Read(gomock.Any(), domain.DomainCode, codeDesc("x")).Return(&domain.CacheEntry{
		Domain:     domain.DomainCode,
		Descriptor: codeDesc("x"),
		Value:      json.RawMessage(`{"code":"persisted"}`),
	}, nil).Times(1)

	for range 2 {
		var got domain.DraftValue
		src, err := s.Get(context.Background(), domain.DomainCode, codeDesc("x"), &got)
		require.NoError(t, err)
		assert.Equal(t, drafts.SourceLocal, src)
		assert.Equal(t, "persisted", got.Code)
	}
}

func TestStore_FallbackThenDefault(t *testing.T) {
	s := drafts.NewStore(nil, nil)
	s.SetDefault(domain.DomainCode, func(domain.Descriptor) any {
		return domain.DefaultDraft(domain.KindWidget)
	})
	s.SetFallback(domain.DomainCode, func(_ context.Context, desc domain.Descriptor) (any, bool, error) {
		if desc.Path.Name == "remote" {
			return domain.DraftValue{Code: "from remote"}, true, nil
		}
		return nil, false, nil
	})

	var got domain.DraftValue
	src, err := s.Get(context.Background(), domain.DomainCode, codeDesc("remote"), &got)
	require.NoError(t, err)
	assert.Equal(t, drafts.SourceRemote, src)
	assert.Equal(t, "from remote", got.Code)

	got = domain.DraftValue{}
	src, err = s.Get(context.Background(), domain.DomainCode, codeDesc("new"), &got)
	require.NoError(t, err)
	assert.Equal(t, drafts.SourceDefault, src)
	assert.Equal(t, domain.DefaultWidgetCode, got.Code)

	// Fallback values are not cached as drafts.
	_, ok := s.Lookup(context.Background(), domain.DomainCode, codeDesc("remote"))
	assert.False(t, ok)
}

func TestStore_FallbackError(t *testing.T) {
	s := drafts.NewStore(nil, nil)
	s.SetFallback(domain.DomainCode, func(context.Context, domain.Descriptor) (any, bool, error) {
		return nil, false, errors.New("offline")
	})

	var got domain.DraftValue
	_, err := s.Get(context.Background(), domain.DomainCode, codeDesc("x"), &got)
	require.ErrorContains(t, err, "offline")
}

func TestStore_DegradesOnPersistenceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockLocalPersistence(ctrl)
	log := mocks.NewMockLogger(ctrl)
	s := drafts.NewStore(p, log)

	p.EXPECT().Write(gomock.Any()).Return(errors.New("disk full")).Times(1)
	log.EXPECT().Error(gomock.Any()).Times(1)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	require.NoError(t, s.Set(domain.DomainCode, codeDesc("x"), domain.DraftValue{Code: "A"}))
	require.NoError(t, s.Set(domain.DomainCode, codeDesc("x"), domain.DraftValue{Code: "B"}))
	assert.True(t, s.Degraded())

	var got domain.DraftValue
	_, err := s.Get(context.Background(), domain.DomainCode, codeDesc("x"), &got)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Code)
}

func TestStore_CancelledReadIsAMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockLocalPersistence(ctrl)
	s := drafts.NewStore(p, mocks.NewMockLogger(ctrl))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.EXPECT().Read(gomock.Any(), domain.DomainCode, codeDesc("x")).Return(nil, context.Canceled)

	_, ok := s.Lookup(ctx, domain.DomainCode, codeDesc("x"))
	assert.False(t, ok)
	assert.False(t, s.Degraded())

	// The next read still reaches persistence.
	p.EXPECT().Read(gomock.Any(), domain.DomainCode, codeDesc("x")).Return(&domain.CacheEntry{
		Domain:     domain.DomainCode,
		Descriptor: codeDesc("x"),
		Value:      json.RawMessage(`{"code":"persisted"}`),
	}, nil)
	entry, ok := s.Lookup(context.Background(), domain.DomainCode, codeDesc("x"))
	require.True(t, ok)
	assert.JSONEq(t, `{"code":"persisted"}`, string(entry.Value))
}

func TestStore_UndecodableEntryIsAMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockLocalPersistence(ctrl)
	log := mocks.NewMockLogger(ctrl)
	s := drafts.NewStore(p, log)

	p.EXPECT().Read(gomock.Any(), domain.DomainCode, codeDesc("x")).
		Return(nil, zerr.Wrap(errors.New("unexpected end of JSON input"), domain.ErrStoreUnmarshalFailed.Error()))
	log.EXPECT().Warn(gomock.Any()).Times(1)

	var got domain.DraftValue
	src, err := s.Get(context.Background(), domain.DomainCode, codeDesc("x"), &got)
	require.NoError(t, err)
	assert.Equal(t, drafts.SourceNone, src)
	assert.False(t, s.Degraded())

	// A real I/O failure still degrades.
	p.EXPECT().Read(gomock.Any(), domain.DomainCode, codeDesc("y")).Return(nil, errors.New("input/output error"))
	log.EXPECT().Error(gomock.Any()).Times(1)
	log.EXPECT().Warn(gomock.Any()).Times(1)
	_, ok := s.Lookup(context.Background(), domain.DomainCode, codeDesc("y"))
	assert.False(t, ok)
	assert.True(t, s.Degraded())
}

func TestStore_Invalidate(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	ctrl := gomock.NewController(t)
	inv := mocks.NewMockCacheInvalidator(ctrl)
	s := drafts.NewStore(nil, nil).WithClock(clock.now)
	s.AddInvalidator(inv)

	key := domain.RemoteKey{Account: "alice.near", Kind: domain.KindWidget, Name: "x"}
	inv.EXPECT().Invalidate(key).Times(2)

	require.NoError(t, s.Set(domain.DomainCode, codeDesc("x"), domain.DraftValue{Code: "A"}))
	require.NoError(t, s.Set(domain.DomainCode, codeDesc("y"), domain.DraftValue{Code: "Y"}))

	t.Run("drops entries older than the cutoff", func(t *testing.T) {
		s.Invalidate(context.Background(), key, clock.t.Add(time.Millisecond))

		_, ok := s.Lookup(context.Background(), domain.DomainCode, codeDesc("x"))
		assert.False(t, ok)
		_, ok = s.Lookup(context.Background(), domain.DomainCode, codeDesc("y"))
		assert.True(t, ok)
	})

	t.Run("keeps edits made after the cutoff", func(t *testing.T) {
		cutoff := clock.t.Add(time.Millisecond)
		require.NoError(t, s.Set(domain.DomainCode, codeDesc("x"), domain.DraftValue{Code: "B"}))

		s.Invalidate(context.Background(), key, cutoff)

		entry, ok := s.Lookup(context.Background(), domain.DomainCode, codeDesc("x"))
		require.True(t, ok)
		assert.JSONEq(t, `{"code":"B"}`, string(entry.Value))
	})
}

func TestStore_InvalidatePersisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockLocalPersistence(ctrl)
	s := drafts.NewStore(p, mocks.NewMockLogger(ctrl))

	key := domain.RemoteKey{Account: "alice.near", Kind: domain.KindWidget, Name: "x"}
	cutoff := time.Unix(2000, 0)

	p.EXPECT().List(gomock.Any(), domain.DomainCode).Return([]domain.Descriptor{codeDesc("x"), codeDesc("y")}, nil)
	p.EXPECT().Read(gomock.Any(), domain.DomainCode, codeDesc("x")).Return(&domain.CacheEntry{
		Domain:     domain.DomainCode,
		Descriptor: codeDesc("x"),
		Value:      json.RawMessage(`{"code":"old"}`),
		StoredAt:   time.Unix(1000, 0),
	}, nil)
	p.EXPECT().Delete(domain.DomainCode, codeDesc("x")).Return(nil)

	s.Invalidate(context.Background(), key, cutoff)
}
