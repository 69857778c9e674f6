// Package drafts implements the draft store: a timestamped key-value cache
// segmented by domain, kept in memory and mirrored to local persistence.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
)

// Source reports where a value returned by Get came from.
type Source uint8

const (
	// SourceNone means nothing was found and the domain has no default.
	SourceNone Source = iota
	// SourceLocal means the value is a local entry.
	SourceLocal
	// SourceRemote means the value came from the domain fallback.
	SourceRemote
	// SourceDefault means the value is the domain default.
	SourceDefault
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourceRemote:
		return "remote"
	case SourceDefault:
		return "default"
	default:
		return "none"
	}
}

// Fallback resolves a descriptor that has no local entry.
// The boolean is false when the fallback has no value either.
type Fallback func(ctx context.Context, desc domain.Descriptor) (any, bool, error)

// DefaultFunc returns the default value for a descriptor.
type DefaultFunc func(desc domain.Descriptor) any

// Store is the single shared mutable resource of the editor.
// Writes for one (domain, descriptor) are applied in call order, last write wins.
type Store struct {
	persistence ports.LocalPersistence
	logger      ports.Logger
	now         func() time.Time

	mu           sync.Mutex
	entries      map[domain.CacheDomain]map[string]domain.CacheEntry
	fallbacks    map[domain.CacheDomain]Fallback
	defaults     map[domain.CacheDomain]DefaultFunc
	invalidators []ports.CacheInvalidator
	degraded     bool
}

// NewStore creates a store backed by persistence. A nil persistence keeps
// everything in memory.
func NewStore(persistence ports.LocalPersistence, logger ports.Logger) *Store {
	return &Store{
		persistence: persistence,
		logger:      logger,
		now:         time.Now,
		entries:     make(map[domain.CacheDomain]map[string]domain.CacheEntry),
		fallbacks:   make(map[domain.CacheDomain]Fallback),
		defaults:    make(map[domain.CacheDomain]DefaultFunc),
		degraded:    persistence == nil,
	}
}

// WithClock overrides the clock used to timestamp entries.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// SetFallback registers the resolver consulted by Get when d has no local entry.
func (s *Store) SetFallback(d domain.CacheDomain, fn Fallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallbacks[d] = fn
}

// SetDefault registers the value Get resolves to when nothing else is found.
func (s *Store) SetDefault(d domain.CacheDomain, fn DefaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults[d] = fn
}

// AddInvalidator registers a cache that is told about every invalidated key.
func (s *Store) AddInvalidator(inv ports.CacheInvalidator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidators = append(s.invalidators, inv)
}

// Degraded reports whether the store has fallen back to memory-only operation.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Set stores value under (d, desc), replacing any previous value.
// The write is visible to every reader as soon as Set returns. A persistence
// failure is logged and the store continues in memory only.
func (s *Store) Set(d domain.CacheDomain, desc domain.Descriptor, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error()), "descriptor", desc.Key())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.CacheEntry{
		Domain:     d,
		Descriptor: desc,
		Value:      data,
		StoredAt:   s.now(),
	}
	s.domainEntries(d)[desc.Key()] = entry

	if !s.degraded {
		if err := s.persistence.Write(entry); err != nil {
			s.degradeLocked(err)
		}
	}
	return nil
}

// Get decodes the value stored under (d, desc) into dst.
// Lookup order is memory, persistence, the domain fallback, then the domain default.
func (s *Store) Get(ctx context.Context, d domain.CacheDomain, desc domain.Descriptor, dst any) (Source, error) {
	entry, ok := s.lookup(ctx, d, desc)
	if ok {
		return SourceLocal, decode(entry.Value, desc, dst)
	}

	s.mu.Lock()
	fallback := s.fallbacks[d]
	def := s.defaults[d]
	s.mu.Unlock()

	if fallback != nil {
		v, found, err := fallback(ctx, desc)
		if err != nil {
			return SourceNone, err
		}
		if found {
			return SourceRemote, convert(v, desc, dst)
		}
	}

	if def != nil {
		return SourceDefault, convert(def(desc), desc, dst)
	}
	return SourceNone, nil
}

// Lookup returns the local entry under (d, desc) without consulting fallbacks.
func (s *Store) Lookup(ctx context.Context, d domain.CacheDomain, desc domain.Descriptor) (domain.CacheEntry, bool) {
	return s.lookup(ctx, d, desc)
}

func (s *Store) lookup(ctx context.Context, d domain.CacheDomain, desc domain.Descriptor) (domain.CacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.domainEntries(d)[desc.Key()]; ok {
		return entry, true
	}
	if s.degraded {
		return domain.CacheEntry{}, false
	}

	entry, err := s.persistence.Read(ctx, d, desc)
	if err != nil {
		s.readFailedLocked(ctx, err)
		return domain.CacheEntry{}, false
	}
	if entry == nil {
		return domain.CacheEntry{}, false
	}
	s.domainEntries(d)[desc.Key()] = *entry
	return *entry, true
}

// Invalidate drops the code entries of key that were stored before cutoff,
// so the next Get reflects remote ground truth. Entries written after cutoff
// are newer edits and survive. Registered invalidators are told about key.
func (s *Store) Invalidate(ctx context.Context, key domain.RemoteKey, cutoff time.Time) {
	d := domain.CodeDomain(key.Kind)
	match := key.Matcher()

	s.mu.Lock()
	for k, entry := range s.domainEntries(d) {
		if match(entry.Descriptor) && entry.StoredAt.Before(cutoff) {
			delete(s.entries[d], k)
		}
	}
	if !s.degraded {
		s.invalidatePersistedLocked(ctx, d, match, cutoff)
	}
	invalidators := append([]ports.CacheInvalidator(nil), s.invalidators...)
	s.mu.Unlock()

	for _, inv := range invalidators {
		inv.Invalidate(key)
	}
}

func (s *Store) invalidatePersistedLocked(
	ctx context.Context,
	d domain.CacheDomain,
	match domain.DescriptorMatcher,
	cutoff time.Time,
) {
	descs, err := s.persistence.List(ctx, d)
	if err != nil {
		s.degradeLocked(err)
		return
	}
	for _, desc := range descs {
		if !match(desc) {
			continue
		}
		if _, kept := s.entries[d][desc.Key()]; kept {
			continue
		}
		entry, err := s.persistence.Read(ctx, d, desc)
		if err != nil {
			s.readFailedLocked(ctx, err)
			if ctx.Err() != nil || s.degraded {
				return
			}
			continue
		}
		if entry == nil || !entry.StoredAt.Before(cutoff) {
			continue
		}
		if err := s.persistence.Delete(d, desc); err != nil {
			s.degradeLocked(err)
			return
		}
	}
}

func (s *Store) domainEntries(d domain.CacheDomain) map[string]domain.CacheEntry {
	m, ok := s.entries[d]
	if !ok {
		m = make(map[string]domain.CacheEntry)
		s.entries[d] = m
	}
	return m
}

func (s *Store) degradeLocked(err error) {
	s.degraded = true
	if s.logger != nil {
		s.logger.Error(err)
		s.logger.Warn("draft store is running in memory only, drafts will not survive a restart")
	}
}

// readFailedLocked classifies a failed read. Cancelled reads and undecodable
// rows are misses; anything else is an I/O failure and degrades the store.
func (s *Store) readFailedLocked(ctx context.Context, err error) {
	switch {
	case ctx.Err() != nil:
	case undecodable(err):
		if s.logger != nil {
			s.logger.Warn("ignoring unreadable draft entry: " + err.Error())
		}
	default:
		s.degradeLocked(err)
	}
}

// undecodable reports whether err came from a row that exists but does not
// decode. Adapters wrap the sentinel by message, so errors.Is cannot see it.
func undecodable(err error) bool {
	return errors.Is(err, domain.ErrStoreUnmarshalFailed) ||
		strings.Contains(err.Error(), domain.ErrStoreUnmarshalFailed.Error())
}

func decode(data []byte, desc domain.Descriptor, dst any) error {
	if dst == nil {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "descriptor", desc.Key())
	}
	return nil
}

func convert(v any, desc domain.Descriptor, dst any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error()), "descriptor", desc.Key())
	}
	return decode(data, desc, dst)
}
