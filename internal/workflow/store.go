// Package workflow manages resumable career workflow sessions: an
// in-memory store with TTL expiry and an orchestrator driving the
// analysis, career path and completion steps.
package workflow

import (
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sgrishin/recruit-pilot/internal/apperr"
	"go.uber.org/zap"
)

// Workflow steps, in their only legal order.
const (
	StepInit             = "init"
	StepAnalysisComplete = "analysis_complete"
	StepGuidanceComplete = "guidance_complete"
	StepCompleted        = "completed"
	StepError            = "error"
)

// Session is the accumulated state of one career workflow run.
type Session struct {
	ID             string
	RecordID       string
	JobDescription string
	CreatedAt      time.Time
	CurrentStep    string
	Data           map[string]any
	Completed      bool
	Err            string
}

func (s *Session) snapshot() Session {
	out := *s
	out.Data = maps.Clone(s.Data)
	return out
}

// Store keeps workflow sessions in memory. Sessions expire ttl after
// creation; expired sessions are dropped lazily on access and by Sweep.
// All methods return snapshots, so callers never share mutable state.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
	logger   *zap.Logger

	now func() time.Time
}

func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		logger:   logger,
		now:      time.Now,
	}
}

// Create registers a new session at the init step and returns it.
func (st *Store) Create(recordID, jobDescription string) Session {
	sess := &Session{
		ID:             uuid.NewString(),
		RecordID:       recordID,
		JobDescription: jobDescription,
		CreatedAt:      st.now(),
		CurrentStep:    StepInit,
		Data:           make(map[string]any),
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	st.logger.Info("workflow created",
		zap.String("workflow_id", sess.ID),
		zap.String("record_id", recordID),
	)
	return sess.snapshot()
}

func (st *Store) expired(sess *Session) bool {
	return st.now().After(sess.CreatedAt.Add(st.ttl))
}

// Get returns the session, or apperr.ErrNotFound for unknown and expired
// ids. Expired sessions are removed on the way out.
func (st *Store) Get(id string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return Session{}, apperr.ErrNotFound
	}
	if st.expired(sess) {
		delete(st.sessions, id)
		st.logger.Info("workflow expired", zap.String("workflow_id", id))
		return Session{}, apperr.ErrNotFound
	}
	return sess.snapshot(), nil
}

// Advance moves the session from the expected step to the next one and
// merges patch into its data. The step check and the update happen under
// one lock, so concurrent submissions for the same transition cannot both
// succeed: the loser gets an InvalidStepError.
func (st *Store) Advance(id, expected, next string, patch map[string]any) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return Session{}, apperr.ErrNotFound
	}
	if st.expired(sess) {
		delete(st.sessions, id)
		return Session{}, apperr.ErrNotFound
	}
	if sess.CurrentStep != expected {
		return Session{}, &apperr.InvalidStepError{Expected: expected, Actual: sess.CurrentStep}
	}

	sess.CurrentStep = next
	if next == StepCompleted {
		sess.Completed = true
	}
	for k, v := range patch {
		sess.Data[k] = v
	}

	st.logger.Info("workflow advanced",
		zap.String("workflow_id", id),
		zap.String("step", next),
	)
	return sess.snapshot(), nil
}

// Fail marks the session errored. Unknown ids are ignored.
func (st *Store) Fail(id, errMsg string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return
	}
	sess.CurrentStep = StepError
	sess.Err = errMsg
	st.logger.Warn("workflow failed",
		zap.String("workflow_id", id),
		zap.String("error", errMsg),
	)
}

// Delete removes the session. Deleting an unknown id is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Sweep removes all expired sessions and reports how many were dropped.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		if st.expired(sess) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
