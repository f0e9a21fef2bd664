// Package interview runs AI-led candidate interviews: a generated yes/no
// screening round, a follow-up open-ended round and a summary persisted to
// the CRM. Sessions live in an in-memory store with TTL expiry.
package interview

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sgrishin/recruit-pilot/internal/apperr"
	"go.uber.org/zap"
)

// Interview steps, in their only legal order.
const (
	StepYesNo     = "yes_no_questions"
	StepOpenEnded = "open_ended_questions"
	StepCompleted = "completed"
)

// Session is the accumulated state of one interview.
type Session struct {
	ID                 string
	RecordID           string
	PositionTitle      string
	ResumeText         string
	YesNoQuestions     []string
	YesNoAnswers       []bool
	OpenEndedQuestions []string
	OpenEndedAnswers   []string
	Summary            string
	Step               string
	CreatedAt          time.Time
}

func (s *Session) snapshot() Session {
	out := *s
	out.YesNoQuestions = slices.Clone(s.YesNoQuestions)
	out.YesNoAnswers = slices.Clone(s.YesNoAnswers)
	out.OpenEndedQuestions = slices.Clone(s.OpenEndedQuestions)
	out.OpenEndedAnswers = slices.Clone(s.OpenEndedAnswers)
	return out
}

// Store keeps interview sessions in memory with the same TTL discipline as
// workflow sessions. Methods return snapshots.
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

// Create opens a session at the yes/no step.
func (st *Store) Create(recordID, positionTitle, resumeText string, yesNoQuestions []string) Session {
	sess := &Session{
		ID:             uuid.NewString(),
		RecordID:       recordID,
		PositionTitle:  positionTitle,
		ResumeText:     resumeText,
		YesNoQuestions: slices.Clone(yesNoQuestions),
		Step:           StepYesNo,
		CreatedAt:      st.now(),
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	st.logger.Info("interview created",
		zap.String("interview_id", sess.ID),
		zap.String("record_id", recordID),
		zap.String("position", positionTitle),
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
		st.logger.Info("interview expired", zap.String("interview_id", id))
		return Session{}, apperr.ErrNotFound
	}
	return sess.snapshot(), nil
}

// Advance moves the session from the expected step to the next one,
// applying mutate while the lock is held. Concurrent submissions for the
// same transition cannot both succeed.
func (st *Store) Advance(id, expected, next string, mutate func(*Session)) (Session, error) {
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
	if sess.Step != expected {
		return Session{}, &apperr.InvalidStepError{Expected: expected, Actual: sess.Step}
	}

	if mutate != nil {
		mutate(sess)
	}
	sess.Step = next

	st.logger.Info("interview advanced",
		zap.String("interview_id", id),
		zap.String("step", next),
	)
	return sess.snapshot(), nil
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
