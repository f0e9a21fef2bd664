package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/sgrishin/recruit-pilot/internal/ai"
	"go.uber.org/zap"
)

const (
	questionsSystem      = "You are an expert interviewer who creates insightful, role-specific interview questions."
	questionsTemperature = 0.7

	questionCount  = 3
	minQuestionLen = 10
)

var fallbackQuestions = []string{
	"Can you walk me through a challenging project you've worked on and how you approached solving the key technical problems?",
	"How do you stay current with industry trends and technologies, and can you give me an example of how you've applied something new you learned?",
	"Describe a time when you had to collaborate with team members who had different perspectives or working styles. How did you handle it?",
}

// QuestionGenerator derives open-ended interview questions from a raw job
// description. It always returns exactly three questions; generation or
// parsing shortfalls are padded from a fixed fallback set.
type QuestionGenerator struct {
	completer ai.Completer
	logger    *zap.Logger
}

func NewQuestionGenerator(completer ai.Completer, logger *zap.Logger) *QuestionGenerator {
	return &QuestionGenerator{completer: completer, logger: logger}
}

func (g *QuestionGenerator) Questions(ctx context.Context, jobDescription string) []string {
	out, err := g.completer.Complete(ctx, ai.CompletionRequest{
		System:      questionsSystem,
		Prompt:      questionsPrompt(jobDescription),
		Temperature: questionsTemperature,
	})
	if err != nil {
		g.logger.Warn("interview question generation failed", zap.Error(err))
		return append([]string(nil), fallbackQuestions...)
	}

	questions := parseNumberedQuestions(out)
	if len(questions) < questionCount {
		g.logger.Warn("generated fewer questions than expected",
			zap.Int("got", len(questions)),
			zap.Int("want", questionCount),
		)
		questions = append(questions, fallbackQuestions[len(questions):questionCount]...)
	}
	return questions[:questionCount]
}

// parseNumberedQuestions pulls lines of the form "1. question" or
// "1: question" out of a response, dropping entries too short to be real
// questions.
func parseNumberedQuestions(content string) []string {
	var questions []string
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		for i := 1; i < 10; i++ {
			dotted := fmt.Sprintf("%d.", i)
			coloned := fmt.Sprintf("%d:", i)
			var question string
			if strings.HasPrefix(line, dotted) {
				question = strings.TrimSpace(line[len(dotted):])
			} else if strings.HasPrefix(line, coloned) {
				question = strings.TrimSpace(line[len(coloned):])
			} else {
				continue
			}
			if len(question) > minQuestionLen {
				questions = append(questions, question)
			}
			break
		}
	}
	return questions
}
