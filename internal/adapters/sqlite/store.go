// Package sqlite implements the draft store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite3" driver.
	_ "github.com/mattn/go-sqlite3"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
)

const schema = `
	PRAGMA synchronous = NORMAL;
	PRAGMA busy_timeout = 5000;

	CREATE TABLE IF NOT EXISTS entries (
		domain TEXT NOT NULL,
		key TEXT NOT NULL,
		descriptor TEXT NOT NULL,
		value BLOB NOT NULL,
		stored_at INTEGER NOT NULL,
		PRIMARY KEY (domain, key)
	);
`

var _ ports.LocalPersistence = (*Store)(nil)

// Store implements ports.LocalPersistence on a single SQLite file.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", path)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", path)
	}
	// A single connection serializes writers in-process.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", path)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Write implements ports.LocalPersistence.
func (s *Store) Write(entry domain.CacheEntry) error {
	desc, err := json.Marshal(entry.Descriptor)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	_, err = s.db.Exec(`
		INSERT INTO entries (domain, key, descriptor, value, stored_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (domain, key) DO UPDATE SET
			descriptor = excluded.descriptor,
			value = excluded.value,
			stored_at = excluded.stored_at`,
		string(entry.Domain), entry.Descriptor.Key(), string(desc), []byte(entry.Value), entry.StoredAt.UnixNano(),
	)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", entry.Descriptor.Key())
	}
	return nil
}

// Read implements ports.LocalPersistence.
func (s *Store) Read(ctx context.Context, d domain.CacheDomain, desc domain.Descriptor) (*domain.CacheEntry, error) {
	var (
		rawDesc  string
		value    []byte
		storedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT descriptor, value, stored_at FROM entries WHERE domain = ? AND key = ?`,
		string(d), desc.Key(),
	).Scan(&rawDesc, &value, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "key", desc.Key())
	}

	entry := &domain.CacheEntry{
		Domain:   d,
		Value:    json.RawMessage(value),
		StoredAt: time.Unix(0, storedAt).UTC(),
	}
	if err := json.Unmarshal([]byte(rawDesc), &entry.Descriptor); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "key", desc.Key())
	}
	return entry, nil
}

// Delete implements ports.LocalPersistence.
func (s *Store) Delete(d domain.CacheDomain, desc domain.Descriptor) error {
	if _, err := s.db.Exec(`DELETE FROM entries WHERE domain = ? AND key = ?`, string(d), desc.Key()); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreDeleteFailed.Error()), "key", desc.Key())
	}
	return nil
}

// List implements ports.LocalPersistence.
func (s *Store) List(ctx context.Context, d domain.CacheDomain) ([]domain.Descriptor, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT descriptor FROM entries WHERE domain = ? ORDER BY key`, string(d))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Descriptor
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
		}
		var desc domain.Descriptor
		if err := json.Unmarshal([]byte(raw), &desc); err != nil {
			return nil, zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error())
		}
		out = append(out, desc)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	return out, nil
}
