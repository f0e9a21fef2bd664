// Package api provides the HTTP surface of the service: candidate record
// access, one-shot analysis, job search, the career workflow, interviews
// and the job analyzer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sgrishin/recruit-pilot/internal/apperr"
	"github.com/sgrishin/recruit-pilot/internal/crm"
	"github.com/sgrishin/recruit-pilot/internal/interview"
	"github.com/sgrishin/recruit-pilot/internal/jobsearch"
	"github.com/sgrishin/recruit-pilot/internal/workflow"
	"go.uber.org/zap"
)

// RecordFetcher loads candidate records from the CRM.
type RecordFetcher interface {
	FetchRecord(ctx context.Context, id string) (*crm.Record, error)
}

// RecordAnalyzer produces the one-shot candidate assessment.
type RecordAnalyzer interface {
	Analyze(ctx context.Context, record *crm.Record, jobDescription string) (string, error)
}

// FitAssessor produces the one-shot fit and gaps review.
type FitAssessor interface {
	Assess(ctx context.Context, record *crm.Record, jobDescription string) (string, error)
}

// QuestionService generates interview questions from a job description.
type QuestionService interface {
	Questions(ctx context.Context, jobDescription string) []string
}

// JobSearcher finds job postings for a record.
type JobSearcher interface {
	Search(ctx context.Context, record *crm.Record, override *jobsearch.Override) ([]jobsearch.Posting, error)
}

// WorkflowService drives the resumable career workflow.
type WorkflowService interface {
	Start(ctx context.Context, recordID, jobDescription string) (*workflow.StartResult, error)
	SubmitCareerPath(ctx context.Context, workflowID, careerPath string) (*workflow.StepResult, error)
	Complete(ctx context.Context, workflowID string) (*workflow.FinalResult, error)
	Status(workflowID string) (*workflow.StepResult, error)
}

// InterviewService drives the AI interview flow.
type InterviewService interface {
	Start(ctx context.Context, recordID string) (*interview.StartResult, error)
	SubmitYesNoAnswers(ctx context.Context, interviewID string, answers []bool) (*interview.AnswersResult, error)
	Complete(ctx context.Context, interviewID string, answers []string) (*interview.CompleteResult, error)
	GetStatus(interviewID string) (*interview.Status, error)
}

// Handler holds the service dependencies shared by all endpoints.
type Handler struct {
	records    RecordFetcher
	analyzer   RecordAnalyzer
	fit        FitAssessor
	questions  QuestionService
	jobs       JobSearcher
	workflows  WorkflowService
	interviews InterviewService
	logger     *zap.Logger
}

func NewHandler(
	records RecordFetcher,
	analyzer RecordAnalyzer,
	fit FitAssessor,
	questions QuestionService,
	jobs JobSearcher,
	workflows WorkflowService,
	interviews InterviewService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		records:    records,
		analyzer:   analyzer,
		fit:        fit,
		questions:  questions,
		jobs:       jobs,
		workflows:  workflows,
		interviews: interviews,
		logger:     logger,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"detail": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error maps service errors to client-visible statuses: unknown ids to
// 404, bad input and out-of-order steps to 400, upstream outages to 502,
// everything else to 500.
func (h *Handler) Error(w http.ResponseWriter, err error) {
	var (
		valErr  *apperr.ValidationError
		stepErr *apperr.InvalidStepError
		gwErr   *apperr.GatewayError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &valErr), errors.As(err, &stepErr):
		status = http.StatusBadRequest
	case errors.As(err, &gwErr):
		status = http.StatusBadGateway
	}

	detail := err.Error()
	if status >= http.StatusInternalServerError {
		// Unexpected errors are logged in full but never echoed to the
		// client, since wrapped messages can carry upstream internals.
		h.logger.Error("request failed", zap.Error(err))
		detail = "internal server error"
	}
	JSON(w, status, map[string]string{"detail": detail})
}

// decode reads the JSON body into v. An empty body leaves v zeroed, so
// endpoints with fully optional payloads accept bodyless requests;
// handlers validate required fields afterwards.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		JSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return false
	}
	return true
}
