package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sgrishin/recruit-pilot/internal/apperr"
	"github.com/sgrishin/recruit-pilot/internal/crm"
	"github.com/sgrishin/recruit-pilot/internal/interview"
	"github.com/sgrishin/recruit-pilot/internal/jobsearch"
	"github.com/sgrishin/recruit-pilot/internal/workflow"
	"go.uber.org/zap"
)

const testRecordID = "a0N1234567890ABcd"

type stubFetcher struct {
	record *crm.Record
	err    error
}

func (f *stubFetcher) FetchRecord(_ context.Context, _ string) (*crm.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

type stubAnalyzer struct{ err error }

func (a *stubAnalyzer) Analyze(_ context.Context, _ *crm.Record, _ string) (string, error) {
	return "analysis text", a.err
}

type stubFit struct{}

func (stubFit) Assess(_ context.Context, _ *crm.Record, _ string) (string, error) {
	return "fit text", nil
}

type stubQuestions struct{ got string }

func (q *stubQuestions) Questions(_ context.Context, jobDescription string) []string {
	q.got = jobDescription
	return []string{"q1", "q2", "q3"}
}

type stubJobs struct {
	override *jobsearch.Override
	err      error
}

func (j *stubJobs) Search(_ context.Context, _ *crm.Record, override *jobsearch.Override) ([]jobsearch.Posting, error) {
	j.override = override
	if j.err != nil {
		return nil, j.err
	}
	return []jobsearch.Posting{{Title: "Platform Engineer"}}, nil
}

type stubWorkflows struct {
	startErr error
	stepErr  error
}

func (s *stubWorkflows) Start(_ context.Context, recordID, _ string) (*workflow.StartResult, error) {
	if s.startErr != nil {
		return nil, s.startErr
	}
	return &workflow.StartResult{WorkflowID: "wf-1", RecordID: recordID, NextStep: "career_path"}, nil
}

func (s *stubWorkflows) SubmitCareerPath(_ context.Context, workflowID, _ string) (*workflow.StepResult, error) {
	if s.stepErr != nil {
		return nil, s.stepErr
	}
	return &workflow.StepResult{WorkflowID: workflowID, CurrentStep: workflow.StepGuidanceComplete}, nil
}

func (s *stubWorkflows) Complete(_ context.Context, workflowID string) (*workflow.FinalResult, error) {
	if s.stepErr != nil {
		return nil, s.stepErr
	}
	return &workflow.FinalResult{WorkflowID: workflowID, Completed: true}, nil
}

func (s *stubWorkflows) Status(workflowID string) (*workflow.StepResult, error) {
	if s.stepErr != nil {
		return nil, s.stepErr
	}
	return &workflow.StepResult{WorkflowID: workflowID, CurrentStep: workflow.StepAnalysisComplete}, nil
}

type stubInterviews struct {
	err     error
	answers []bool
}

func (s *stubInterviews) Start(_ context.Context, recordID string) (*interview.StartResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &interview.StartResult{InterviewID: "iv-1", RecordID: recordID}, nil
}

func (s *stubInterviews) SubmitYesNoAnswers(_ context.Context, interviewID string, answers []bool) (*interview.AnswersResult, error) {
	s.answers = answers
	if s.err != nil {
		return nil, s.err
	}
	return &interview.AnswersResult{InterviewID: interviewID, YesNoAnswers: answers}, nil
}

func (s *stubInterviews) Complete(_ context.Context, interviewID string, _ []string) (*interview.CompleteResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &interview.CompleteResult{InterviewID: interviewID, Summary: "summary"}, nil
}

func (s *stubInterviews) GetStatus(interviewID string) (*interview.Status, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &interview.Status{InterviewID: interviewID, CurrentStep: interview.StepYesNo}, nil
}

type testServer struct {
	fetcher    *stubFetcher
	jobs       *stubJobs
	questions  *stubQuestions
	workflows  *stubWorkflows
	interviews *stubInterviews
	srv        *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		fetcher:    &stubFetcher{record: &crm.Record{ID: testRecordID, Name: "Jane Doe"}},
		jobs:       &stubJobs{},
		questions:  &stubQuestions{},
		workflows:  &stubWorkflows{},
		interviews: &stubInterviews{},
	}
	h := NewHandler(ts.fetcher, &stubAnalyzer{}, stubFit{}, ts.questions, ts.jobs, ts.workflows, ts.interviews, zap.NewNop())
	ts.srv = httptest.NewServer(NewRouter(h, zap.NewNop()))
	t.Cleanup(ts.srv.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, ts.srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected health response: %d %v", resp.StatusCode, body)
	}
}

func TestGetRecord(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, ts.srv.URL+"/records/"+testRecordID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if body["id"] != testRecordID {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestGetRecordNotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.fetcher.err = apperr.ErrNotFound

	resp, _ := doJSON(t, http.MethodGet, ts.srv.URL+"/records/"+testRecordID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetRecordMalformedID(t *testing.T) {
	ts := newTestServer(t)
	ts.fetcher.err = apperr.Validation("record id must be 15-18 alphanumeric characters")

	resp, _ := doJSON(t, http.MethodGet, ts.srv.URL+"/records/short", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAnalyzeRecord(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, http.MethodPost, ts.srv.URL+"/records/"+testRecordID+"/analysis",
		`{"job_description": "a role"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if body["analysis"] != "analysis text" || body["fit_and_gaps"] != "fit text" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestAnalyzeRecordAcceptsEmptyBody(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, ts.srv.URL+"/records/"+testRecordID+"/analysis", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected empty body to be accepted, got %d", resp.StatusCode)
	}
}

func TestSearchJobsOverrides(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.srv.URL + "/records/" + testRecordID + "/jobs?search_term=SRE&results_wanted=5")
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	// The endpoint responds with a bare array of postings.
	var postings []jobsearch.Posting
	if err := json.NewDecoder(resp.Body).Decode(&postings); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(postings) != 1 || postings[0].Title != "Platform Engineer" {
		t.Fatalf("unexpected postings: %+v", postings)
	}
	if ts.jobs.override.SearchTerm != "SRE" || ts.jobs.override.ResultsWanted != 5 {
		t.Fatalf("overrides not passed through: %+v", ts.jobs.override)
	}
}

func TestSearchJobsRejectsBadOverride(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet,
		ts.srv.URL+"/records/"+testRecordID+"/jobs?results_wanted=zero", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSearchJobsUpstreamFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.jobs.err = errors.New("scraper down")

	resp, _ := doJSON(t, http.MethodGet, ts.srv.URL+"/records/"+testRecordID+"/jobs", "")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestWorkflowRoutes(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.srv.URL+"/records/"+testRecordID+"/workflow/start", "{}")
	if resp.StatusCode != http.StatusOK || body["workflow_id"] != "wf-1" {
		t.Fatalf("start: %d %v", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, http.MethodPost, ts.srv.URL+"/workflow/wf-1/career-path",
		`{"career_path": "Staff Engineer"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("career-path: %d", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodPost, ts.srv.URL+"/workflow/wf-1/complete", "")
	if resp.StatusCode != http.StatusOK || body["completed"] != true {
		t.Fatalf("complete: %d %v", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.srv.URL+"/workflow/wf-1/status", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
}

func TestWorkflowInvalidStepMapsTo400(t *testing.T) {
	ts := newTestServer(t)
	ts.workflows.stepErr = &apperr.InvalidStepError{
		Expected: workflow.StepGuidanceComplete,
		Actual:   workflow.StepAnalysisComplete,
	}

	resp, body := doJSON(t, http.MethodPost, ts.srv.URL+"/workflow/wf-1/complete", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if detail, _ := body["detail"].(string); !strings.Contains(detail, "invalid step") {
		t.Fatalf("unexpected detail: %v", body)
	}
}

func TestUnexpectedErrorHidesDetail(t *testing.T) {
	ts := newTestServer(t)
	ts.workflows.startErr = errors.New("resume analysis: generate content: token sk-secret expired")

	resp, body := doJSON(t, http.MethodPost, ts.srv.URL+"/records/"+testRecordID+"/workflow/start", "{}")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if body["detail"] != "internal server error" {
		t.Fatalf("internal error leaked to client: %v", body)
	}
}

func TestInterviewRoutes(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.srv.URL+"/records/"+testRecordID+"/interview/start", "")
	if resp.StatusCode != http.StatusOK || body["interview_id"] != "iv-1" {
		t.Fatalf("start: %d %v", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, http.MethodPost, ts.srv.URL+"/interview/iv-1/answers",
		`{"answers": [true, false, true]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("answers: %d", resp.StatusCode)
	}
	if len(ts.interviews.answers) != 3 {
		t.Fatalf("answers not passed through: %v", ts.interviews.answers)
	}

	resp, _ = doJSON(t, http.MethodPost, ts.srv.URL+"/interview/iv-1/complete",
		`{"open_ended_answers": ["a", "b"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete: %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.srv.URL+"/interview/iv-1/status", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
}

func TestInterviewPersistenceFailureMapsTo502(t *testing.T) {
	ts := newTestServer(t)
	ts.interviews.err = apperr.Gateway("crm upsert", errors.New("service down"))

	resp, _ := doJSON(t, http.MethodPost, ts.srv.URL+"/interview/iv-1/complete",
		`{"open_ended_answers": ["a", "b"]}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestGenerateQuestions(t *testing.T) {
	ts := newTestServer(t)
	description := strings.Repeat("Senior Go engineer role. ", 4)

	resp, body := doJSON(t, http.MethodPost, ts.srv.URL+"/job-analyzer/questions",
		`{"job_description": "`+description+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if questions, _ := body["questions"].([]any); len(questions) != 3 {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestGenerateQuestionsValidation(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.srv.URL+"/job-analyzer/questions",
		`{"job_description": ""}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty description: expected 400, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, ts.srv.URL+"/job-analyzer/questions",
		`{"job_description": "too short"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short description: expected 400, got %d", resp.StatusCode)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, ts.srv.URL+"/workflow/wf-1/career-path", "{not json")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
