// Package cas implements a file-per-entry draft store.
package cas

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
)

const entryExt = ".json"

var _ ports.LocalPersistence = (*Store)(nil)

// Store implements ports.LocalPersistence with one JSON file per entry.
// Entries live under <root>/<domain>/<sha256(descriptor key)>.json.
type Store struct {
	root string
	mu   sync.RWMutex
}

// NewStore creates a file store rooted at the given directory.
func NewStore(root string) (*Store, error) {
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", root)
	}
	return &Store{root: root}, nil
}

// Root returns the directory the store writes to.
func (s *Store) Root() string {
	return s.root
}

// Write implements ports.LocalPersistence.
func (s *Store) Write(entry domain.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	path := s.entryPath(entry.Domain, entry.Descriptor)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	// Rename over the old file so readers never observe a partial entry.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	return nil
}

// Read implements ports.LocalPersistence.
func (s *Store) Read(_ context.Context, d domain.CacheDomain, desc domain.Descriptor) (*domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readFile(s.entryPath(d, desc))
}

// Delete implements ports.LocalPersistence.
func (s *Store) Delete(d domain.CacheDomain, desc domain.Descriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.entryPath(d, desc))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, domain.ErrStoreDeleteFailed.Error())
	}
	return nil
}

// List implements ports.LocalPersistence.
func (s *Store) List(ctx context.Context, d domain.CacheDomain) ([]domain.Descriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Join(s.root, string(d))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var out []domain.Descriptor
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), entryExt) {
			continue
		}
		entry, err := s.readFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if entry != nil {
			out = append(out, entry.Descriptor)
		}
	}
	return out, nil
}

func (s *Store) readFile(path string) (*domain.CacheEntry, error) {
	//nolint:gosec // Path is derived from a hash under the store root
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", path)
	}
	return &entry, nil
}

func (s *Store) entryPath(d domain.CacheDomain, desc domain.Descriptor) string {
	sum := sha256.Sum256([]byte(desc.Key()))
	return filepath.Join(s.root, string(d), hex.EncodeToString(sum[:])+entryExt)
}
