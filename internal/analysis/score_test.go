package analysis

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestParseFitnessScore(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		wantScore     int
		wantReasoning string
	}{
		{
			name:          "well formed",
			content:       "SCORE: 85\nREASONING: Strong background, one promotion away.",
			wantScore:     85,
			wantReasoning: "Strong background, one promotion away.",
		},
		{
			name:          "clamped above range",
			content:       "SCORE: 140\nREASONING: Overly enthusiastic model.",
			wantScore:     100,
			wantReasoning: "Overly enthusiastic model.",
		},
		{
			name:          "clamped below range",
			content:       "SCORE: -5\nREASONING: Harsh.",
			wantScore:     0,
			wantReasoning: "Harsh.",
		},
		{
			name:          "non numeric score keeps default",
			content:       "SCORE: eighty\nREASONING: Words are not numbers.",
			wantScore:     50,
			wantReasoning: "Words are not numbers.",
		},
		{
			name:          "missing markers",
			content:       "The candidate seems fine.",
			wantScore:     50,
			wantReasoning: "Assessment could not be completed",
		},
		{
			name:          "markers with surrounding whitespace",
			content:       "  SCORE: 72  \n  REASONING: Achievable with focused effort.  ",
			wantScore:     72,
			wantReasoning: "Achievable with focused effort.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseFitnessScore(tc.content)
			if got.Score != tc.wantScore {
				t.Errorf("score: got %d, want %d", got.Score, tc.wantScore)
			}
			if got.Reasoning != tc.wantReasoning {
				t.Errorf("reasoning: got %q, want %q", got.Reasoning, tc.wantReasoning)
			}
		})
	}
}

func TestScorerMasksGenerationFailure(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("model unavailable")}
	scorer := NewScorer(fake, zap.NewNop())

	got := scorer.Score(context.Background(), "analysis", "gaps", "goal")
	if got.Score != 50 {
		t.Fatalf("expected neutral score, got %d", got.Score)
	}
	if got.Reasoning != "Unable to assess fitness due to technical issue" {
		t.Fatalf("unexpected reasoning %q", got.Reasoning)
	}
}

func TestScorerUsesLowTemperature(t *testing.T) {
	fake := &fakeCompleter{output: "SCORE: 60\nREASONING: Plausible."}
	scorer := NewScorer(fake, zap.NewNop())

	scorer.Score(context.Background(), "analysis", "gaps", "goal")
	if temp := fake.requests[0].Temperature; temp != 0.3 {
		t.Fatalf("unexpected temperature %v", temp)
	}
}
