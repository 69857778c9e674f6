// Package app implements the application layer for scribe.
package app

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"

	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/scribe/internal/engine/commit"
	"go.trai.ch/scribe/internal/engine/drafts"
	"go.trai.ch/scribe/internal/engine/registry"
	"go.trai.ch/zerr"
)

// App exposes draft editing and commits to the CLI.
type App struct {
	store    *drafts.Store
	registry *registry.Registry
	executor *commit.Executor
	remote   ports.RemoteReader
	identity ports.IdentityProvider
	watcher  ports.SourceWatcher
	logger   ports.Logger

	startOnce sync.Once
	startErr  error
}

// New creates a new App instance.
func New(
	store *drafts.Store,
	reg *registry.Registry,
	executor *commit.Executor,
	remote ports.RemoteReader,
	identity ports.IdentityProvider,
	watcher ports.SourceWatcher,
	log ports.Logger,
) *App {
	return &App{
		store:    store,
		registry: reg,
		executor: executor,
		remote:   remote,
		identity: identity,
		watcher:  watcher,
		logger:   log,
	}
}

// Start restores the previous session. It registers the code domain
// defaults and remote fallbacks, reloads the open-file set and remembered
// write permissions, and opens a fresh widget draft when nothing is open.
// Calling Start again is a no-op.
func (a *App) Start(ctx context.Context) error {
	a.startOnce.Do(func() {
		a.startErr = a.start(ctx)
	})
	return a.startErr
}

func (a *App) start(ctx context.Context) error {
	for _, kind := range domain.Kinds() {
		d := domain.CodeDomain(kind)
		a.store.SetDefault(d, func(domain.Descriptor) any { return domain.DefaultDraft(kind) })
		a.store.SetFallback(d, a.remoteDraft)
	}
	if inv, ok := a.remote.(ports.CacheInvalidator); ok {
		a.store.AddInvalidator(inv)
	}

	if err := a.registry.Load(ctx); err != nil {
		return err
	}
	if err := a.loadPermissions(ctx); err != nil {
		return err
	}
	a.executor.OnCommitted(func(domain.CommitResult) { a.savePermissions() })

	if len(a.registry.List()) == 0 {
		if _, _, err := a.CreateDraft(ctx, domain.KindWidget); err != nil {
			return err
		}
	}
	return nil
}

// remoteDraft reads the author's committed value of a code draft.
func (a *App) remoteDraft(ctx context.Context, desc domain.Descriptor) (any, bool, error) {
	if desc.Path == nil {
		return nil, false, nil
	}
	account, ok := a.identity.AccountID()
	if !ok {
		return nil, false, nil
	}
	tree, found, err := a.remote.FetchValue(ctx, domain.NewRemoteKey(account, *desc.Path))
	if err != nil {
		// A draft can always be opened; the remote value is a best effort.
		a.logger.Warn("could not read remote value of " + desc.Path.String() + ": " + err.Error())
		return nil, false, nil
	}
	if !found {
		return nil, false, nil
	}
	return domain.DraftFromTree(tree), true, nil
}

// OpenOrCreateDraft opens path and returns its current value. A local draft
// wins; without one, initial is stored as the draft when given, otherwise the
// committed remote value or the kind's default is returned.
func (a *App) OpenOrCreateDraft(ctx context.Context, path domain.LogicalPath, initial *domain.DraftValue) (domain.DraftValue, error) {
	if err := a.registry.Add(path); err != nil {
		return domain.DraftValue{}, err
	}

	if _, ok := a.store.Lookup(ctx, domain.CodeDomain(path.Kind), domain.CodeDescriptor(path)); !ok && initial != nil {
		if err := a.UpdateDraft(path, *initial); err != nil {
			return domain.DraftValue{}, err
		}
		return *initial, nil
	}

	v, _, err := a.Draft(ctx, path)
	return v, err
}

// UpdateDraft stores value as the draft of path.
func (a *App) UpdateDraft(path domain.LogicalPath, value domain.DraftValue) error {
	if err := path.Validate(); err != nil {
		return err
	}
	return a.store.Set(domain.CodeDomain(path.Kind), domain.CodeDescriptor(path), value)
}

// Draft returns the current value of path and where it came from.
func (a *App) Draft(ctx context.Context, path domain.LogicalPath) (domain.DraftValue, drafts.Source, error) {
	var v domain.DraftValue
	src, err := a.store.Get(ctx, domain.CodeDomain(path.Kind), domain.CodeDescriptor(path), &v)
	return v, src, err
}

// ListOpenFiles returns the open files in order.
func (a *App) ListOpenFiles() []domain.LogicalPath {
	return a.registry.List()
}

// ActiveFile returns the last active file.
func (a *App) ActiveFile() (domain.LogicalPath, bool) {
	return a.registry.LastActive()
}

// Find returns the open file called name. An empty kind matches any kind.
func (a *App) Find(name string, kind domain.ArtifactKind) (domain.LogicalPath, bool) {
	if kind == "" {
		return a.registry.FindByName(name)
	}
	return a.registry.Find(kind, name)
}

// CreateDraft opens a new Draft-<n> of kind with the kind's default content.
func (a *App) CreateDraft(ctx context.Context, kind domain.ArtifactKind) (domain.LogicalPath, domain.DraftValue, error) {
	if !kind.Valid() {
		return domain.LogicalPath{}, domain.DraftValue{}, zerr.With(domain.ErrUnknownKind, "kind", string(kind))
	}
	path := a.registry.GenerateUnusedName(kind)
	initial := domain.DefaultDraft(kind)
	v, err := a.OpenOrCreateDraft(ctx, path, &initial)
	return path, v, err
}

// OpenRemote opens a committed artifact as a named draft. src is either
// "account/kind/name" or a bare name resolved against the author account.
// An existing local draft of the same path is kept.
func (a *App) OpenRemote(ctx context.Context, src string, kind domain.ArtifactKind) (domain.LogicalPath, domain.DraftValue, error) {
	key, err := a.resolveSource(src, kind)
	if err != nil {
		return domain.LogicalPath{}, domain.DraftValue{}, err
	}

	tree, found, err := a.remote.FetchValue(ctx, key)
	if err != nil {
		return domain.LogicalPath{}, domain.DraftValue{}, err
	}
	if !found {
		return domain.LogicalPath{}, domain.DraftValue{}, zerr.With(domain.ErrRemoteNotFound, "key", key.String())
	}

	path := domain.PathFromSource(key.Kind, key.String())
	remote := domain.DraftFromTree(tree)
	v, err := a.OpenOrCreateDraft(ctx, path, &remote)
	return path, v, err
}

func (a *App) resolveSource(src string, kind domain.ArtifactKind) (domain.RemoteKey, error) {
	if strings.Contains(src, "/") {
		return domain.ParseRemoteKey(src)
	}
	account, ok := a.identity.AccountID()
	if !ok {
		return domain.RemoteKey{}, domain.ErrNotAuthenticated
	}
	path := domain.NewPath(kind, src)
	if err := path.Validate(); err != nil {
		return domain.RemoteKey{}, err
	}
	return domain.NewRemoteKey(account, path), nil
}

// RenameDraft renames the open file path and copies its draft to the new
// name. The draft under the old name is left in place. When another open
// file already holds the name it is evicted from the file list and its
// stored draft is kept; the renamed file then shows that draft.
func (a *App) RenameDraft(ctx context.Context, path domain.LogicalPath, newName string) (domain.LogicalPath, error) {
	v, _, err := a.Draft(ctx, path)
	if err != nil {
		return domain.LogicalPath{}, err
	}
	_, occupied := a.registry.Snapshot().Find(path.Kind, newName)
	renamed, err := a.registry.Rename(path, newName)
	if err != nil {
		return domain.LogicalPath{}, err
	}
	if renamed.Same(path) || occupied {
		return renamed, nil
	}
	return renamed, a.UpdateDraft(renamed, v)
}

// CloseDraft closes path and returns the file that is active afterwards.
// Closing the active file activates its previous neighbour, else the next
// one, else a fresh widget draft.
func (a *App) CloseDraft(ctx context.Context, path domain.LogicalPath) (domain.LogicalPath, error) {
	before := a.registry.Snapshot()
	if !before.Contains(path) {
		return domain.LogicalPath{}, zerr.With(domain.ErrPathNotOpen, "path", path.String())
	}
	wasActive := before.LastActive == nil || before.LastActive.Same(path)
	neighbour, hasNeighbour := before.Neighbour(path)

	if err := a.registry.Remove(path); err != nil {
		return domain.LogicalPath{}, err
	}

	if !wasActive {
		active, _ := a.registry.LastActive()
		return active, nil
	}
	if hasNeighbour {
		return neighbour, a.registry.Add(neighbour)
	}
	created, _, err := a.CreateDraft(ctx, domain.KindWidget)
	return created, err
}

// RequestCommit starts a commit of value to path.
func (a *App) RequestCommit(
	ctx context.Context,
	path domain.LogicalPath,
	value domain.ArtifactValue,
	opts domain.CommitOptions,
) (*commit.Session, error) {
	return a.executor.RequestCommit(ctx, path, value, opts)
}

// CommitDraft starts a commit of the current draft of path.
func (a *App) CommitDraft(ctx context.Context, path domain.LogicalPath, opts domain.CommitOptions) (*commit.Session, error) {
	draft, _, err := a.Draft(ctx, path)
	if err != nil {
		return nil, err
	}
	value, err := domain.NewArtifactValue(path.Kind, draft)
	if err != nil {
		return nil, err
	}
	return a.RequestCommit(ctx, path, value, opts)
}

// CostPerByte returns the storage price used for deposits.
func (a *App) CostPerByte() *big.Int {
	return a.executor.CostPerByte()
}

// RememberWritePermission lets source commit to the author's target without confirmation.
func (a *App) RememberWritePermission(source string, target domain.LogicalPath) error {
	if strings.TrimSpace(source) == "" {
		return zerr.With(domain.ErrInvalidName, "source", source)
	}
	if err := target.Validate(); err != nil {
		return err
	}
	account, ok := a.identity.AccountID()
	if !ok {
		return domain.ErrNotAuthenticated
	}
	a.executor.RememberWritePermission(source, domain.NewRemoteKey(account, target))
	a.savePermissions()
	return nil
}

// WritePermissions lists the remembered write permissions.
func (a *App) WritePermissions() []domain.WritePermission {
	return a.executor.Permissions().List()
}

// WatchDraft mirrors file into the draft of path until ctx is cancelled.
// The file's current content is stored first.
func (a *App) WatchDraft(ctx context.Context, path domain.LogicalPath, file string, onChange func(domain.DraftValue)) error {
	current, _, err := a.Draft(ctx, path)
	if err != nil {
		return err
	}
	err = a.watcher.Watch(ctx, file, func(content []byte) {
		next := domain.DraftValue{Code: string(content), Metadata: current.Metadata}
		if err := a.UpdateDraft(path, next); err != nil {
			a.logger.Error(err)
			return
		}
		if onChange != nil {
			onChange(next)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) loadPermissions(ctx context.Context) error {
	var perms []domain.WritePermission
	if _, err := a.store.Get(ctx, domain.DomainPermissions, domain.PermissionsDescriptor(), &perms); err != nil {
		return err
	}
	set := a.executor.Permissions()
	for _, p := range perms {
		set.Allow(p.Source, p.Target)
	}
	return nil
}

func (a *App) savePermissions() {
	perms := a.executor.Permissions().List()
	if err := a.store.Set(domain.DomainPermissions, domain.PermissionsDescriptor(), perms); err != nil {
		a.logger.Error(err)
	}
}
