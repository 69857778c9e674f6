package commit

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
)

// Invalidator forgets local state superseded by a commit.
type Invalidator interface {
	// Invalidate drops cached drafts of key stored before cutoff.
	Invalidate(ctx context.Context, key domain.RemoteKey, cutoff time.Time)
}

// CommitListener is notified with every successful commit.
type CommitListener func(domain.CommitResult)

// Executor runs commit sessions and keeps at most one active session per
// target key.
type Executor struct {
	preparer    *Preparer
	submitter   ports.TransactionSubmitter
	identity    ports.IdentityProvider
	invalidator Invalidator
	permissions *PermissionSet
	tracer      ports.Tracer
	metrics     ports.CommitMetrics
	logger      ports.Logger
	extraMenu   []int64
	now         func() time.Time

	mu        sync.Mutex
	sessions  map[string]*Session
	listeners []CommitListener
}

// NewExecutor creates an executor.
func NewExecutor(
	preparer *Preparer,
	submitter ports.TransactionSubmitter,
	identity ports.IdentityProvider,
	invalidator Invalidator,
	permissions *PermissionSet,
	tracer ports.Tracer,
	metrics ports.CommitMetrics,
	logger ports.Logger,
) *Executor {
	return &Executor{
		preparer:    preparer,
		submitter:   submitter,
		identity:    identity,
		invalidator: invalidator,
		permissions: permissions,
		tracer:      tracer,
		metrics:     metrics,
		logger:      logger,
		extraMenu:   domain.DefaultExtraStorageOptions(),
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// WithExtraStorageOptions sets the menu of optional prepaid byte budgets.
func (e *Executor) WithExtraStorageOptions(options []int64) *Executor {
	if len(options) > 0 {
		e.extraMenu = append([]int64(nil), options...)
	}
	return e
}

// WithClock overrides the clock used to stamp commit requests.
func (e *Executor) WithClock(now func() time.Time) *Executor {
	e.now = now
	return e
}

// CostPerByte returns the storage price deposits are computed with.
func (e *Executor) CostPerByte() *big.Int {
	return e.preparer.CostPerByte()
}

// Permissions returns the write permissions consulted by the executor.
func (e *Executor) Permissions() *PermissionSet {
	return e.permissions
}

// OnCommitted registers a listener for successful commits.
func (e *Executor) OnCommitted(fn CommitListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// RememberWritePermission lets source commit to target without confirmation.
func (e *Executor) RememberWritePermission(source string, target domain.RemoteKey) {
	e.permissions.Allow(source, target.String())
}

// Active returns the session currently holding key, if any.
func (e *Executor) Active(key domain.RemoteKey) (*Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.liveLocked(key)
}

// liveLocked returns the session for key unless it has already reached a
// terminal state. A finished session stays registered until its finish
// callback runs, which is after its state listeners.
func (e *Executor) liveLocked(key domain.RemoteKey) (*Session, bool) {
	s, ok := e.sessions[key.String()]
	if !ok || !s.State().Active() {
		return nil, false
	}
	return s, true
}

// RequestCommit starts a commit of value to path under the current author account.
//
// A request carrying the same value as the active session for the target
// joins that session. A different value replaces a session that is still
// preparing or awaiting confirmation, and is rejected with
// ErrConcurrentCommit once the active session is submitting.
func (e *Executor) RequestCommit(
	ctx context.Context,
	path domain.LogicalPath,
	value domain.ArtifactValue,
	opts domain.CommitOptions,
) (*Session, error) {
	if value == nil {
		return nil, domain.ErrEmptyCommit
	}
	account, ok := e.identity.AccountID()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	if err := path.Validate(); err != nil {
		return nil, err
	}
	if value.Kind() != path.Kind {
		return nil, zerr.With(domain.ErrUnknownKind, "kind", string(value.Kind()))
	}

	key := domain.NewRemoteKey(account, path)
	fp, err := domain.Fingerprint(value.Tree())
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	superseded := func() {}
	if active, ok := e.liveLocked(key); ok {
		if active.Fingerprint() == fp {
			e.mu.Unlock()
			return active, nil
		}
		complete, ok := active.trySupersede()
		if !ok {
			e.mu.Unlock()
			return nil, domain.ErrConcurrentCommit
		}
		superseded = complete
	}

	runCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	s := &Session{
		id:          ulid.Make().String(),
		key:         key,
		value:       value,
		fingerprint: fp,
		source:      opts.SourceComponent,
		requestedAt: e.now(),
		extraMenu:   e.extraMenu,
		checkExtra:  e.checkExtra,
		decisions:   make(chan domain.ConfirmDecision, 1),
		ready:       make(chan struct{}),
		done:        make(chan struct{}),
		stop:        stop,
		state:       domain.StatePreparing,
	}
	s.onFinish = e.finished(s)
	e.sessions[key.String()] = s
	e.mu.Unlock()

	superseded()
	e.metrics.SessionStarted()
	go e.run(runCtx, s, opts.Force)
	return s, nil
}

func (e *Executor) checkExtra(extra int64) error {
	_, err := domain.ExtraDeposit(extra, e.extraMenu, e.preparer.CostPerByte())
	return err
}

func (e *Executor) run(ctx context.Context, s *Session, force bool) {
	ctx, span := e.tracer.Start(ctx, "commit",
		ports.WithAttribute("commit.key", s.key.String()),
		ports.WithAttribute("commit.session", s.id),
	)
	started := e.now()
	s.OnStateChange(func(state domain.CommitState) {
		span.SetAttribute("commit.state", state.String())
	})
	defer func() {
		res, _ := s.Result()
		span.SetAttribute("commit.outcome", string(res.Outcome))
		if err := s.Err(); err != nil {
			span.RecordError(err)
		}
		span.End()
		e.metrics.SessionFinished(res.Outcome, e.now().Sub(started))
	}()

	prepared, err := e.preparer.Prepare(ctx, s.key, s.value, force)
	if err != nil {
		s.finish(domain.StateIdle, domain.OutcomePreparationFailed, errors.Join(domain.ErrPreparationFailed, err))
		return
	}
	if prepared.IsNoop {
		s.finish(domain.StateIdle, domain.OutcomeNothingToSave, nil)
		return
	}
	s.setPrepared(prepared)
	e.metrics.PayloadPrepared(prepared.PayloadBytes)

	decision, ok := e.awaitDecision(ctx, s)
	if !ok {
		return
	}

	extra, err := domain.ExtraDeposit(decision.ExtraStorageBytes, e.extraMenu, e.preparer.CostPerByte())
	if err != nil {
		s.finish(domain.StateFailed, domain.OutcomeSubmissionFailed, errors.Join(domain.ErrSubmissionFailed, err))
		return
	}
	deposit := new(big.Int).Add(prepared.RequiredDeposit, extra)
	span.SetAttribute("commit.deposit", deposit.String())
	span.SetAttribute("commit.bytes", prepared.PayloadBytes)
	e.metrics.DepositSubmitted(deposit)

	// Submission cannot be cancelled, so it outlives the session context.
	tx, err := e.submitter.Submit(context.WithoutCancel(ctx), prepared.Payload, deposit)
	if err != nil {
		e.preparer.Forget(s.key)
		s.finish(domain.StateFailed, domain.OutcomeSubmissionFailed, errors.Join(domain.ErrSubmissionFailed, err))
		return
	}

	s.advance(domain.StateSettling)
	if decision.RememberPermission {
		e.permissions.Allow(s.source, s.key.String())
	}
	e.invalidator.Invalidate(context.WithoutCancel(ctx), s.key, s.requestedAt)
	e.preparer.Forget(s.key)

	s.finishWith(domain.StateIdle, domain.CommitResult{
		Outcome:     domain.OutcomeCommitted,
		Payload:     prepared.Payload,
		Deposit:     deposit,
		Transaction: tx,
	}, nil)
}

// awaitDecision returns the confirmation for a prepared session, taking the
// fast path when a write permission exists. It reports false when the
// session ended while waiting.
func (e *Executor) awaitDecision(ctx context.Context, s *Session) (domain.ConfirmDecision, bool) {
	if e.permissions.Allowed(s.source, s.key.String()) {
		return domain.ConfirmDecision{}, s.advance(domain.StateSubmitting)
	}
	if !s.advance(domain.StateReadyToConfirm) {
		return domain.ConfirmDecision{}, false
	}
	select {
	case d := <-s.decisions:
		return d, true
	case <-ctx.Done():
		return domain.ConfirmDecision{}, false
	}
}

func (e *Executor) finished(s *Session) func(domain.CommitResult, error) {
	return func(res domain.CommitResult, err error) {
		e.mu.Lock()
		if e.sessions[s.key.String()] == s {
			delete(e.sessions, s.key.String())
		}
		listeners := append([]CommitListener(nil), e.listeners...)
		e.mu.Unlock()

		switch {
		case err != nil:
			e.logger.Warn("commit " + s.key.String() + " ended: " + string(res.Outcome))
		case res.Outcome == domain.OutcomeCommitted:
			for _, fn := range listeners {
				fn(res)
			}
		}
	}
}
