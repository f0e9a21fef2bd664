package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/sgrishin/recruit-pilot/internal/analysis"
	"github.com/sgrishin/recruit-pilot/internal/apperr"
	"github.com/sgrishin/recruit-pilot/internal/crm"
	"github.com/sgrishin/recruit-pilot/internal/jobsearch"
	"go.uber.org/zap"
)

const completionJobLimit = 3

// RecordFetcher loads candidate records from the CRM.
type RecordFetcher interface {
	FetchRecord(ctx context.Context, id string) (*crm.Record, error)
}

// JobSearcher finds job postings relevant to a record.
type JobSearcher interface {
	Search(ctx context.Context, record *crm.Record, override *jobsearch.Override) ([]jobsearch.Posting, error)
}

// StartResult is returned after the analysis step.
type StartResult struct {
	WorkflowID string `json:"workflow_id"`
	RecordID   string `json:"record_id"`
	Analysis   string `json:"analysis"`
	FitAndGaps string `json:"fit_and_gaps"`
	NextStep   string `json:"next_step"`
	Message    string `json:"message"`
}

// StepResult is returned after the career path step and by Status.
type StepResult struct {
	WorkflowID   string                 `json:"workflow_id"`
	CurrentStep  string                 `json:"current_step"`
	Completed    bool                   `json:"completed"`
	Data         map[string]any         `json:"data,omitempty"`
	NextStep     string                 `json:"next_step,omitempty"`
	Message      string                 `json:"message,omitempty"`
	FitnessScore *analysis.FitnessScore `json:"fitness_score,omitempty"`
}

// FinalResult carries everything the workflow accumulated.
type FinalResult struct {
	WorkflowID      string              `json:"workflow_id"`
	RecordID        string              `json:"record_id"`
	Analysis        string              `json:"analysis"`
	FitAndGaps      string              `json:"fit_and_gaps"`
	CareerPath      string              `json:"career_path"`
	CareerGuidance  string              `json:"career_guidance"`
	RecommendedJobs []jobsearch.Posting `json:"recommended_jobs"`
	Completed       bool                `json:"completed"`
}

// Orchestrator drives the career workflow: start generates the analysis
// pair, career path adds guidance and a fitness score, complete attaches
// job recommendations and retires the session.
type Orchestrator struct {
	records  RecordFetcher
	analyzer *analysis.Analyzer
	fit      *analysis.FitAssessor
	advisor  *analysis.Advisor
	scorer   *analysis.Scorer
	jobs     JobSearcher
	store    *Store
	logger   *zap.Logger
}

func NewOrchestrator(
	records RecordFetcher,
	analyzer *analysis.Analyzer,
	fit *analysis.FitAssessor,
	advisor *analysis.Advisor,
	scorer *analysis.Scorer,
	jobs JobSearcher,
	store *Store,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		records:  records,
		analyzer: analyzer,
		fit:      fit,
		advisor:  advisor,
		scorer:   scorer,
		jobs:     jobs,
		store:    store,
		logger:   logger,
	}
}

// Start fetches the record, runs the assessment and fit generations
// concurrently and opens a session at the analysis_complete step. The
// session is only created once both generations succeed.
func (o *Orchestrator) Start(ctx context.Context, recordID, jobDescription string) (*StartResult, error) {
	record, err := o.records.FetchRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	var (
		wg                  sync.WaitGroup
		analysisText        string
		fitText             string
		analysisErr, fitErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		analysisText, analysisErr = o.analyzer.Analyze(ctx, record, jobDescription)
	}()
	go func() {
		defer wg.Done()
		fitText, fitErr = o.fit.Assess(ctx, record, jobDescription)
	}()
	wg.Wait()

	if analysisErr != nil {
		return nil, analysisErr
	}
	if fitErr != nil {
		return nil, fitErr
	}

	sess := o.store.Create(recordID, jobDescription)
	sess, err = o.store.Advance(sess.ID, StepInit, StepAnalysisComplete, map[string]any{
		"analysis":     analysisText,
		"fit_and_gaps": fitText,
	})
	if err != nil {
		return nil, err
	}

	return &StartResult{
		WorkflowID: sess.ID,
		RecordID:   recordID,
		Analysis:   analysisText,
		FitAndGaps: fitText,
		NextStep:   "career_path",
		Message:    "Analysis complete. Please provide your desired career path.",
	}, nil
}

// SubmitCareerPath generates guidance and a fitness score for the stated
// goal and advances the session to guidance_complete. A failed guidance
// generation leaves the session at analysis_complete so the step can be
// retried; the fitness score never fails.
func (o *Orchestrator) SubmitCareerPath(ctx context.Context, workflowID, careerPath string) (*StepResult, error) {
	if careerPath == "" {
		return nil, apperr.Validation("career_path must not be empty")
	}

	sess, err := o.store.Get(workflowID)
	if err != nil {
		return nil, err
	}
	if sess.CurrentStep != StepAnalysisComplete {
		return nil, &apperr.InvalidStepError{Expected: StepAnalysisComplete, Actual: sess.CurrentStep}
	}

	analysisText := stringField(sess.Data, "analysis")
	fitText := stringField(sess.Data, "fit_and_gaps")

	guidance, err := o.advisor.Guide(ctx, analysisText, fitText, careerPath)
	if err != nil {
		return nil, err
	}

	score := o.scorer.Score(ctx, analysisText, fitText, careerPath)

	sess, err = o.store.Advance(workflowID, StepAnalysisComplete, StepGuidanceComplete, map[string]any{
		"career_path":     careerPath,
		"career_guidance": guidance,
	})
	if err != nil {
		return nil, err
	}

	return &StepResult{
		WorkflowID:   workflowID,
		CurrentStep:  sess.CurrentStep,
		Completed:    false,
		Data:         map[string]any{"career_guidance": guidance},
		NextStep:     "jobs",
		Message:      "Career guidance generated. Fetching relevant job recommendations...",
		FitnessScore: &score,
	}, nil
}

// Complete fetches job recommendations, marks the session completed and
// deletes it. Job search failures degrade to an empty list; a missing
// record keeps the session at guidance_complete, while a CRM outage marks
// it errored.
func (o *Orchestrator) Complete(ctx context.Context, workflowID string) (*FinalResult, error) {
	sess, err := o.store.Get(workflowID)
	if err != nil {
		return nil, err
	}
	if sess.CurrentStep != StepGuidanceComplete {
		return nil, &apperr.InvalidStepError{Expected: StepGuidanceComplete, Actual: sess.CurrentStep}
	}

	record, err := o.records.FetchRecord(ctx, sess.RecordID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			o.store.Fail(workflowID, err.Error())
		}
		return nil, err
	}

	jobs, err := o.jobs.Search(ctx, record, &jobsearch.Override{ResultsWanted: completionJobLimit})
	if err != nil {
		o.logger.Warn("job search failed, continuing with empty list",
			zap.String("workflow_id", workflowID),
			zap.Error(err),
		)
		jobs = nil
	}
	if jobs == nil {
		jobs = []jobsearch.Posting{}
	}

	sess, err = o.store.Advance(workflowID, StepGuidanceComplete, StepCompleted, map[string]any{
		"jobs": jobs,
	})
	if err != nil {
		return nil, err
	}

	result := &FinalResult{
		WorkflowID:      workflowID,
		RecordID:        sess.RecordID,
		Analysis:        stringField(sess.Data, "analysis"),
		FitAndGaps:      stringField(sess.Data, "fit_and_gaps"),
		CareerPath:      stringField(sess.Data, "career_path"),
		CareerGuidance:  stringField(sess.Data, "career_guidance"),
		RecommendedJobs: jobs,
		Completed:       true,
	}

	o.store.Delete(workflowID)
	o.logger.Info("workflow completed",
		zap.String("workflow_id", workflowID),
		zap.Int("jobs", len(jobs)),
	)
	return result, nil
}

// Status reports the current step without modifying the session.
func (o *Orchestrator) Status(workflowID string) (*StepResult, error) {
	sess, err := o.store.Get(workflowID)
	if err != nil {
		return nil, err
	}

	var nextStep, message string
	switch {
	case sess.CurrentStep == StepAnalysisComplete:
		nextStep = "career_path"
		message = "Ready for career path submission"
	case sess.CurrentStep == StepGuidanceComplete:
		nextStep = "complete"
		message = "Ready to fetch jobs and complete workflow"
	case sess.Completed:
		message = "Workflow completed successfully"
	}

	return &StepResult{
		WorkflowID:  workflowID,
		CurrentStep: sess.CurrentStep,
		Completed:   sess.Completed,
		Data:        sess.Data,
		NextStep:    nextStep,
		Message:     message,
	}, nil
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}
