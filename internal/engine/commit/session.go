package commit

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/scribe/internal/core/domain"
)

// StateListener observes session state changes.
type StateListener func(domain.CommitState)

// Session is one commit attempt for one target. Its transitions are driven
// only by the executor, Confirm, Cancel and the remote collaborators.
type Session struct {
	id          string
	key         domain.RemoteKey
	value       domain.ArtifactValue
	fingerprint uint64
	source      string
	requestedAt time.Time
	extraMenu   []int64
	checkExtra  func(extra int64) error

	decisions chan domain.ConfirmDecision
	ready     chan struct{}
	done      chan struct{}
	stop      context.CancelFunc
	onFinish  func(domain.CommitResult, error)

	mu        sync.Mutex
	state     domain.CommitState
	prepared  *domain.PreparedCommit
	result    domain.CommitResult
	err       error
	finished  bool
	listeners []StateListener
}

// ID returns the unique session identifier.
func (s *Session) ID() string { return s.id }

// Key returns the remote key the session writes to.
func (s *Session) Key() domain.RemoteKey { return s.key }

// Source returns the component that requested the commit.
func (s *Session) Source() string { return s.source }

// Fingerprint identifies the value the session commits.
func (s *Session) Fingerprint() uint64 { return s.fingerprint }

// ExtraStorageOptions returns the menu of optional prepaid byte budgets.
func (s *Session) ExtraStorageOptions() []int64 {
	return append([]int64(nil), s.extraMenu...)
}

// State returns the current state.
func (s *Session) State() domain.CommitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Prepared returns the prepared commit once preparation has succeeded.
func (s *Session) Prepared() (domain.PreparedCommit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prepared == nil {
		return domain.PreparedCommit{}, false
	}
	return *s.prepared, true
}

// Ready is closed when the session waits for Confirm.
func (s *Session) Ready() <-chan struct{} { return s.ready }

// Done is closed when the session has finished.
func (s *Session) Done() <-chan struct{} { return s.done }

// OnStateChange registers a listener for subsequent transitions.
func (s *Session) OnStateChange(fn StateListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Result returns the outcome of a finished session.
// The boolean is false while the session is still running.
func (s *Session) Result() (domain.CommitResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.finished
}

// Err returns the error a finished session ended with, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the session finishes or ctx is done.
func (s *Session) Wait(ctx context.Context) (domain.CommitResult, error) {
	select {
	case <-s.done:
		res, _ := s.Result()
		return res, s.Err()
	case <-ctx.Done():
		return domain.CommitResult{}, ctx.Err()
	}
}

// Confirm approves the prepared commit and starts submission.
func (s *Session) Confirm(d domain.ConfirmDecision) error {
	if err := s.checkExtra(d.ExtraStorageBytes); err != nil {
		return err
	}

	s.mu.Lock()
	switch {
	case !s.finished && (s.state == domain.StateSubmitting || s.state == domain.StateSettling):
		s.mu.Unlock()
		return domain.ErrAlreadyConfirmed
	case s.finished || s.state != domain.StateReadyToConfirm:
		s.mu.Unlock()
		return domain.ErrNotReadyToConfirm
	}
	listeners := s.setStateLocked(domain.StateSubmitting)
	s.mu.Unlock()

	notify(listeners, domain.StateSubmitting)
	s.decisions <- d
	return nil
}

// Cancel discards the session. It is only possible before submission.
func (s *Session) Cancel() error {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return nil
	}
	if s.state != domain.StatePreparing && s.state != domain.StateReadyToConfirm {
		s.mu.Unlock()
		return domain.ErrCancelNotAllowed
	}
	complete := s.markFinishedLocked(domain.StateIdle, domain.CommitResult{Outcome: domain.OutcomeCancelled}, nil)
	s.mu.Unlock()

	complete()
	return nil
}

// trySupersede ends a session that has not started submitting in favour of
// a newer request. It returns the completion to run once the caller has
// released its own locks, or false when the session is already submitting.
func (s *Session) trySupersede() (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return func() {}, true
	}
	if s.state != domain.StatePreparing && s.state != domain.StateReadyToConfirm {
		return nil, false
	}
	return s.markFinishedLocked(domain.StateIdle, domain.CommitResult{Outcome: domain.OutcomeSuperseded}, nil), true
}

// advance moves a running session to state. It reports false when the
// session finished in the meantime, e.g. because it was cancelled.
func (s *Session) advance(state domain.CommitState) bool {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return false
	}
	listeners := s.setStateLocked(state)
	if state == domain.StateReadyToConfirm {
		close(s.ready)
	}
	s.mu.Unlock()

	notify(listeners, state)
	return true
}

func (s *Session) setPrepared(p domain.PreparedCommit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prepared = &p
}

// finish records the outcome once; later calls are ignored.
func (s *Session) finish(state domain.CommitState, outcome domain.CommitOutcome, err error) {
	s.finishWith(state, domain.CommitResult{Outcome: outcome}, err)
}

func (s *Session) finishWith(state domain.CommitState, res domain.CommitResult, err error) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	complete := s.markFinishedLocked(state, res, err)
	s.mu.Unlock()

	complete()
}

func (s *Session) markFinishedLocked(state domain.CommitState, res domain.CommitResult, err error) func() {
	res.SessionID = s.id
	res.Key = s.key
	s.finished = true
	s.result = res
	s.err = err
	listeners := s.setStateLocked(state)

	return func() {
		s.stop()
		notify(listeners, state)
		if s.onFinish != nil {
			s.onFinish(res, err)
		}
		close(s.done)
	}
}

func (s *Session) setStateLocked(state domain.CommitState) []StateListener {
	s.state = state
	return append([]StateListener(nil), s.listeners...)
}

func notify(listeners []StateListener, state domain.CommitState) {
	for _, fn := range listeners {
		fn(state)
	}
}
