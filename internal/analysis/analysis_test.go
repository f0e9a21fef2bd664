package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sgrishin/recruit-pilot/internal/ai"
	"github.com/sgrishin/recruit-pilot/internal/crm"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	requests []ai.CompletionRequest
	output   string
	err      error
}

func (f *fakeCompleter) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func testRecord() *crm.Record {
	return &crm.Record{
		ID:   "a0N1234567890ABcd",
		Name: "Jane Doe",
		Candidate: &crm.Candidate{
			Name:       "Jane Doe",
			ResumeText: "Senior Go developer with 8 years of experience.",
		},
	}
}

func TestAnalyzerIncludesRecordAndJobDescription(t *testing.T) {
	fake := &fakeCompleter{output: "honest assessment"}
	analyzer := NewAnalyzer(fake, zap.NewNop())

	out, err := analyzer.Analyze(context.Background(), testRecord(), "Platform engineer role")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "honest assessment" {
		t.Fatalf("unexpected output %q", out)
	}

	if len(fake.requests) != 1 {
		t.Fatalf("expected 1 completion call, got %d", len(fake.requests))
	}
	req := fake.requests[0]
	if req.Temperature != 0.4 {
		t.Fatalf("unexpected temperature %v", req.Temperature)
	}
	if !strings.Contains(req.Prompt, "Jane Doe") {
		t.Fatalf("prompt missing record context:\n%s", req.Prompt)
	}
	if !strings.Contains(req.Prompt, "Platform engineer role") {
		t.Fatalf("prompt missing job description:\n%s", req.Prompt)
	}
}

func TestAnalyzerPropagatesFailure(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("model unavailable")}
	analyzer := NewAnalyzer(fake, zap.NewNop())

	if _, err := analyzer.Analyze(context.Background(), testRecord(), ""); err == nil {
		t.Fatalf("expected error from completer")
	}
}

func TestFitAssessorWithoutJobDescription(t *testing.T) {
	fake := &fakeCompleter{output: "fit verdict"}
	assessor := NewFitAssessor(fake, zap.NewNop())

	if _, err := assessor.Assess(context.Background(), testRecord(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := fake.requests[0]
	if req.Temperature != 0.3 {
		t.Fatalf("unexpected temperature %v", req.Temperature)
	}
	if !strings.Contains(req.Prompt, "No job description provided") {
		t.Fatalf("prompt missing general-fit fallback:\n%s", req.Prompt)
	}
}

func TestAdvisorThreadsInputs(t *testing.T) {
	fake := &fakeCompleter{output: "guidance"}
	advisor := NewAdvisor(fake, zap.NewNop())

	out, err := advisor.Guide(context.Background(), "the analysis", "the gaps", "Staff Engineer at a platform company")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "guidance" {
		t.Fatalf("unexpected output %q", out)
	}

	prompt := fake.requests[0].Prompt
	for _, want := range []string{"the analysis", "the gaps", "Staff Engineer at a platform company"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
