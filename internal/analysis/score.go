package analysis

import (
	"context"
	"strconv"
	"strings"

	"github.com/sgrishin/recruit-pilot/internal/ai"
	"go.uber.org/zap"
)

const (
	scoreSystem      = "You provide precise numerical assessments with clear reasoning."
	scoreTemperature = 0.3

	defaultScore     = 50
	defaultReasoning = "Assessment could not be completed"
	failureReasoning = "Unable to assess fitness due to technical issue"
)

// FitnessScore rates how achievable a career goal is on a 0-100 scale.
type FitnessScore struct {
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// Scorer produces fitness scores. Generation failures never propagate; a
// neutral score with an explanatory reasoning is returned instead.
type Scorer struct {
	completer ai.Completer
	logger    *zap.Logger
}

func NewScorer(completer ai.Completer, logger *zap.Logger) *Scorer {
	return &Scorer{completer: completer, logger: logger}
}

func (s *Scorer) Score(ctx context.Context, analysis, fitGaps, careerPath string) FitnessScore {
	out, err := s.completer.Complete(ctx, ai.CompletionRequest{
		System:      scoreSystem,
		Prompt:      scorePrompt(analysis, fitGaps, careerPath),
		Temperature: scoreTemperature,
	})
	if err != nil {
		s.logger.Warn("fitness score generation failed", zap.Error(err))
		return FitnessScore{Score: defaultScore, Reasoning: failureReasoning}
	}
	return parseFitnessScore(out)
}

// parseFitnessScore extracts SCORE and REASONING lines. Missing or
// malformed markers fall back to a neutral score, and parsed scores are
// clamped into [0, 100].
func parseFitnessScore(content string) FitnessScore {
	result := FitnessScore{Score: defaultScore, Reasoning: defaultReasoning}

	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(line, "SCORE:"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				result.Score = clampScore(n)
			}
		} else if value, ok := strings.CutPrefix(line, "REASONING:"); ok {
			if value = strings.TrimSpace(value); value != "" {
				result.Reasoning = value
			}
		}
	}

	return result
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
