package interview

import (
	"context"
	"slices"

	"github.com/sgrishin/recruit-pilot/internal/apperr"
	"github.com/sgrishin/recruit-pilot/internal/crm"
	"go.uber.org/zap"
)

// RecordFetcher loads candidate records from the CRM.
type RecordFetcher interface {
	FetchRecord(ctx context.Context, id string) (*crm.Record, error)
}

// SummaryPersister writes the finished interview summary back to the CRM.
type SummaryPersister interface {
	UpsertInterviewSummary(ctx context.Context, recordID, summary string) error
}

// StartResult is returned when an interview opens.
type StartResult struct {
	InterviewID    string   `json:"interview_id"`
	RecordID       string   `json:"record_id"`
	PositionTitle  string   `json:"position_title"`
	YesNoQuestions []string `json:"yes_no_questions"`
	Message        string   `json:"message"`
}

// AnswersResult is returned after the yes/no round.
type AnswersResult struct {
	InterviewID        string   `json:"interview_id"`
	YesNoAnswers       []bool   `json:"yes_no_answers"`
	OpenEndedQuestions []string `json:"open_ended_questions"`
	Message            string   `json:"message"`
}

// CompleteResult is returned once the summary is persisted.
type CompleteResult struct {
	InterviewID string `json:"interview_id"`
	RecordID    string `json:"record_id"`
	Summary     string `json:"summary"`
	Message     string `json:"message"`
}

// Status reports the interview's current step and which artifacts exist.
type Status struct {
	InterviewID           string `json:"interview_id"`
	RecordID              string `json:"record_id"`
	PositionTitle         string `json:"position_title"`
	CurrentStep           string `json:"current_step"`
	Completed             bool   `json:"completed"`
	HasYesNoAnswers       bool   `json:"has_yes_no_answers"`
	HasOpenEndedQuestions bool   `json:"has_open_ended_questions"`
	HasSummary            bool   `json:"has_summary"`
}

// Orchestrator drives the interview flow. Generation failures degrade to
// fallback content; only a failed summary write to the CRM is fatal, and
// it leaves the session retryable.
type Orchestrator struct {
	records   RecordFetcher
	generator *Generator
	persister SummaryPersister
	store     *Store
	logger    *zap.Logger
}

func NewOrchestrator(
	records RecordFetcher,
	generator *Generator,
	persister SummaryPersister,
	store *Store,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		records:   records,
		generator: generator,
		persister: persister,
		store:     store,
		logger:    logger,
	}
}

// Start fetches the record, generates the screening round from its resume
// and opens a session. A record without resume text cannot be interviewed
// and no session is created for it.
func (o *Orchestrator) Start(ctx context.Context, recordID string) (*StartResult, error) {
	record, err := o.records.FetchRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	resumeText := record.ResumeText()
	if resumeText == "" {
		return nil, apperr.Validation("candidate resume text not found")
	}

	title, questions := o.generator.Screening(ctx, resumeText)
	sess := o.store.Create(recordID, title, resumeText, questions)

	return &StartResult{
		InterviewID:    sess.ID,
		RecordID:       recordID,
		PositionTitle:  title,
		YesNoQuestions: questions,
		Message:        "Interview started. Please answer the yes/no questions.",
	}, nil
}

// SubmitYesNoAnswers records the screening answers and generates the
// open-ended round.
func (o *Orchestrator) SubmitYesNoAnswers(ctx context.Context, interviewID string, answers []bool) (*AnswersResult, error) {
	sess, err := o.store.Get(interviewID)
	if err != nil {
		return nil, err
	}
	if sess.Step != StepYesNo {
		return nil, &apperr.InvalidStepError{Expected: StepYesNo, Actual: sess.Step}
	}
	if len(answers) != len(sess.YesNoQuestions) {
		return nil, apperr.Validation("expected %d answers, got %d", len(sess.YesNoQuestions), len(answers))
	}

	questions := o.generator.FollowUp(ctx, sess.ResumeText, sess.PositionTitle, sess.YesNoQuestions, answers)

	sess, err = o.store.Advance(interviewID, StepYesNo, StepOpenEnded, func(s *Session) {
		s.YesNoAnswers = slices.Clone(answers)
		s.OpenEndedQuestions = questions
	})
	if err != nil {
		return nil, err
	}

	return &AnswersResult{
		InterviewID:        interviewID,
		YesNoAnswers:       sess.YesNoAnswers,
		OpenEndedQuestions: sess.OpenEndedQuestions,
		Message:            "Please answer the open-ended questions.",
	}, nil
}

// Complete records the open-ended answers, generates the summary and
// persists it to the CRM before the session advances. A persistence
// failure surfaces to the caller and keeps the session at the open-ended
// step so completion can be retried.
func (o *Orchestrator) Complete(ctx context.Context, interviewID string, answers []string) (*CompleteResult, error) {
	sess, err := o.store.Get(interviewID)
	if err != nil {
		return nil, err
	}
	if sess.Step != StepOpenEnded {
		return nil, &apperr.InvalidStepError{Expected: StepOpenEnded, Actual: sess.Step}
	}
	if len(answers) != len(sess.OpenEndedQuestions) {
		return nil, apperr.Validation("expected %d answers, got %d", len(sess.OpenEndedQuestions), len(answers))
	}

	sess.OpenEndedAnswers = slices.Clone(answers)
	summary := o.generator.Summary(ctx, sess)

	if err := o.persister.UpsertInterviewSummary(ctx, sess.RecordID, summary); err != nil {
		o.logger.Error("interview summary persistence failed",
			zap.String("interview_id", interviewID),
			zap.String("record_id", sess.RecordID),
			zap.Error(err),
		)
		return nil, err
	}

	if _, err := o.store.Advance(interviewID, StepOpenEnded, StepCompleted, func(s *Session) {
		s.OpenEndedAnswers = slices.Clone(answers)
		s.Summary = summary
	}); err != nil {
		return nil, err
	}

	o.logger.Info("interview completed",
		zap.String("interview_id", interviewID),
		zap.String("record_id", sess.RecordID),
	)
	return &CompleteResult{
		InterviewID: interviewID,
		RecordID:    sess.RecordID,
		Summary:     summary,
		Message:     "Interview completed and saved.",
	}, nil
}

// GetStatus reports the current step without modifying the session.
func (o *Orchestrator) GetStatus(interviewID string) (*Status, error) {
	sess, err := o.store.Get(interviewID)
	if err != nil {
		return nil, err
	}

	return &Status{
		InterviewID:           sess.ID,
		RecordID:              sess.RecordID,
		PositionTitle:         sess.PositionTitle,
		CurrentStep:           sess.Step,
		Completed:             sess.Step == StepCompleted,
		HasYesNoAnswers:       sess.YesNoAnswers != nil,
		HasOpenEndedQuestions: sess.OpenEndedQuestions != nil,
		HasSummary:            sess.Summary != "",
	}, nil
}
