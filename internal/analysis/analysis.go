// Package analysis implements the AI generation steps behind the career
// flows: candidate assessment, fit and gap review, career guidance,
// fitness scoring and interview question generation. Each generator
// wraps a shared completion gateway with its own prompt and temperature.
package analysis

import (
	"context"
	"fmt"

	"github.com/sgrishin/recruit-pilot/internal/ai"
	"github.com/sgrishin/recruit-pilot/internal/crm"
	"go.uber.org/zap"
)

const (
	assessmentSystem = "You are a precise, structured recruiting analyst."
	fitSystem        = "You produce precise, actionable job fit and gap analyses."
	guidanceSystem   = "You are a precise, actionable career advisor."

	assessmentTemperature = 0.4
	fitTemperature        = 0.3
	guidanceTemperature   = 0.4
)

// Analyzer produces the honest recruiter assessment of a candidate record.
type Analyzer struct {
	completer ai.Completer
	logger    *zap.Logger
}

func NewAnalyzer(completer ai.Completer, logger *zap.Logger) *Analyzer {
	return &Analyzer{completer: completer, logger: logger}
}

// Analyze renders the record as JSON context and asks for a market-reality
// assessment. An optional job description narrows the evaluation.
func (a *Analyzer) Analyze(ctx context.Context, record *crm.Record, jobDescription string) (string, error) {
	prompt, err := assessmentPrompt(record, jobDescription)
	if err != nil {
		return "", err
	}

	a.logger.Debug("generating candidate assessment", zap.String("record_id", record.ID))

	out, err := a.completer.Complete(ctx, ai.CompletionRequest{
		System:      assessmentSystem,
		Prompt:      prompt,
		Temperature: assessmentTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("candidate assessment: %w", err)
	}
	return out, nil
}

// FitAssessor evaluates a candidate against a job description, or against
// the general market when no description is given.
type FitAssessor struct {
	completer ai.Completer
	logger    *zap.Logger
}

func NewFitAssessor(completer ai.Completer, logger *zap.Logger) *FitAssessor {
	return &FitAssessor{completer: completer, logger: logger}
}

func (f *FitAssessor) Assess(ctx context.Context, record *crm.Record, jobDescription string) (string, error) {
	prompt, err := fitPrompt(record, jobDescription)
	if err != nil {
		return "", err
	}

	f.logger.Debug("generating fit assessment", zap.String("record_id", record.ID))

	out, err := f.completer.Complete(ctx, ai.CompletionRequest{
		System:      fitSystem,
		Prompt:      prompt,
		Temperature: fitTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("fit assessment: %w", err)
	}
	return out, nil
}

// Advisor turns an assessment, fit gaps and a stated career goal into
// actionable guidance.
type Advisor struct {
	completer ai.Completer
	logger    *zap.Logger
}

func NewAdvisor(completer ai.Completer, logger *zap.Logger) *Advisor {
	return &Advisor{completer: completer, logger: logger}
}

func (a *Advisor) Guide(ctx context.Context, analysis, fitGaps, careerPath string) (string, error) {
	a.logger.Debug("generating career guidance")

	out, err := a.completer.Complete(ctx, ai.CompletionRequest{
		System:      guidanceSystem,
		Prompt:      guidancePrompt(analysis, fitGaps, careerPath),
		Temperature: guidanceTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("career guidance: %w", err)
	}
	return out, nil
}
