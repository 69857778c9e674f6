// Package registry tracks the ordered set of open files and the last active one.
package registry

import (
	"context"
	"sync"

	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/engine/drafts"
	"go.trai.ch/zerr"
)

// Registry serializes every change to the open-file set. Each mutation is
// derived from the current snapshot and persisted as one write to the
// files domain of the draft store.
type Registry struct {
	store *drafts.Store

	mu    sync.Mutex
	files domain.OpenFileSet
}

// New creates an empty registry persisting through store.
func New(store *drafts.Store) *Registry {
	return &Registry{store: store, files: domain.OpenFileSet{}.Clone()}
}

// Load restores the open-file set persisted by a previous session.
func (r *Registry) Load(ctx context.Context) error {
	var files domain.OpenFileSet
	if _, err := r.store.Get(ctx, domain.DomainFiles, domain.FilesDescriptor(), &files); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = files.Clone()
	return nil
}

// Snapshot returns a copy of the current open-file set.
func (r *Registry) Snapshot() domain.OpenFileSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.files.Clone()
}

// List returns the open files in order.
func (r *Registry) List() []domain.LogicalPath {
	return r.Snapshot().Files
}

// LastActive returns the last active file, if any.
func (r *Registry) LastActive() (domain.LogicalPath, bool) {
	s := r.Snapshot()
	if s.LastActive == nil {
		return domain.LogicalPath{}, false
	}
	return *s.LastActive, true
}

// Find returns the open file with the given kind and name.
func (r *Registry) Find(kind domain.ArtifactKind, name string) (domain.LogicalPath, bool) {
	return r.Snapshot().Find(kind, name)
}

// FindByName returns the first open file with the given name.
func (r *Registry) FindByName(name string) (domain.LogicalPath, bool) {
	return r.Snapshot().FindByName(name)
}

// Add opens p, or activates it if it is already open.
func (r *Registry) Add(p domain.LogicalPath) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return r.update(func(s domain.OpenFileSet) (domain.OpenFileSet, error) {
		return s.WithFile(p), nil
	})
}

// Remove closes p. Its draft stays in the store.
func (r *Registry) Remove(p domain.LogicalPath) error {
	return r.update(func(s domain.OpenFileSet) (domain.OpenFileSet, error) {
		return s.WithoutFile(p), nil
	})
}

// Rename gives the open file old a new name and returns the resulting path.
// A different file already open under that name is closed.
func (r *Registry) Rename(old domain.LogicalPath, newName string) (domain.LogicalPath, error) {
	if err := domain.ValidateName(newName); err != nil {
		return domain.LogicalPath{}, err
	}

	var renamed domain.LogicalPath
	err := r.update(func(s domain.OpenFileSet) (domain.OpenFileSet, error) {
		next, p, ok := s.Renamed(old, newName)
		if !ok {
			return s, zerr.With(domain.ErrPathNotOpen, "path", old.String())
		}
		renamed = p
		return next, nil
	})
	return renamed, err
}

// GenerateUnusedName returns Draft-<n> for the smallest n not open for kind.
// The name is not reserved; calling it again before opening yields the same name.
func (r *Registry) GenerateUnusedName(kind domain.ArtifactKind) domain.LogicalPath {
	return r.Snapshot().UnusedName(kind)
}

func (r *Registry) update(fn func(domain.OpenFileSet) (domain.OpenFileSet, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := fn(r.files)
	if err != nil {
		return err
	}
	if err := r.store.Set(domain.DomainFiles, domain.FilesDescriptor(), next); err != nil {
		return err
	}
	r.files = next
	return nil
}
