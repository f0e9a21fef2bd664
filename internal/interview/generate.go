package interview

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sgrishin/recruit-pilot/internal/ai"
	"go.uber.org/zap"
)

const (
	screeningSystem = "You are a precise recruiter who generates relevant interview questions."
	followUpSystem  = "You are a skilled interviewer who asks insightful follow-up questions."
	summarySystem   = "You are a professional recruiter who writes clear, objective interview summaries."

	screeningTemperature = 0.3
	followUpTemperature  = 0.4
	summaryTemperature   = 0.3

	yesNoCount     = 3
	openEndedCount = 2

	defaultPositionTitle = "Software Developer"

	// Resume excerpts keep follow-up and summary prompts bounded.
	followUpResumeLimit = 500
	summaryResumeLimit  = 300
)

var padYesNoQuestions = []string{
	"Do you have experience with modern development practices?",
	"Are you comfortable working in a team environment?",
	"Can you handle multiple priorities effectively?",
}

var fallbackYesNoQuestions = []string{
	"Do you have relevant experience for this position?",
	"Are you available to start within the next month?",
	"Can you work in the specified location?",
}

var fallbackOpenEndedQuestions = []string{
	"Can you describe a challenging project you've worked on and how you overcame obstacles?",
	"What motivates you in your work and how do you stay current with industry trends?",
}

const fallbackSummary = "Interview summary could not be generated due to technical issues."

// Generator produces interview content from candidate resumes. Every
// method masks generation failures behind fixed fallbacks, so an AI outage
// degrades interview quality but never blocks the flow.
type Generator struct {
	completer ai.Completer
	logger    *zap.Logger
}

func NewGenerator(completer ai.Completer, logger *zap.Logger) *Generator {
	return &Generator{completer: completer, logger: logger}
}

// Screening derives a position title and exactly three yes/no questions
// from the resume.
func (g *Generator) Screening(ctx context.Context, resumeText string) (string, []string) {
	var b strings.Builder
	b.WriteString("You are an AI recruiter analyzing a candidate's resume. ")
	b.WriteString("Based on the resume text below, generate:\n\n")
	b.WriteString("1. A realistic job position title that this candidate could apply for\n")
	b.WriteString("2. Three yes/no questions that would help assess their fit for this position\n\n")
	b.WriteString("The questions should be specific and relevant to the position requirements.\n\n")
	fmt.Fprintf(&b, "Resume Text:\n%s\n\n", resumeText)
	b.WriteString("Respond in this exact format:\n")
	b.WriteString("POSITION: [Job Title]\n")
	b.WriteString("QUESTION 1: [First yes/no question]\n")
	b.WriteString("QUESTION 2: [Second yes/no question]\n")
	b.WriteString("QUESTION 3: [Third yes/no question]")

	out, err := g.completer.Complete(ctx, ai.CompletionRequest{
		System:      screeningSystem,
		Prompt:      b.String(),
		Temperature: screeningTemperature,
	})
	if err != nil {
		g.logger.Warn("screening generation failed", zap.Error(err))
		return defaultPositionTitle, slices.Clone(fallbackYesNoQuestions)
	}

	title, questions := parsePositionAndQuestions(out)
	if len(questions) < yesNoCount {
		questions = append(questions, padYesNoQuestions[len(questions):yesNoCount]...)
	}
	return title, questions[:yesNoCount]
}

// FollowUp derives exactly two open-ended questions from the resume and
// the screening answers.
func (g *Generator) FollowUp(ctx context.Context, resumeText, positionTitle string, questions []string, answers []bool) []string {
	var b strings.Builder
	b.WriteString("You are an AI recruiter conducting a follow-up interview. ")
	b.WriteString("Based on the candidate's resume and their answers to initial screening questions, ")
	b.WriteString("generate two thoughtful, open-ended questions that will help assess their fit for the position.\n\n")
	fmt.Fprintf(&b, "Position: %s\n\n", positionTitle)
	fmt.Fprintf(&b, "Resume Summary: %s...\n\n", clip(resumeText, followUpResumeLimit))
	b.WriteString("Initial Screening Answers:\n")
	b.WriteString(yesNoContext(questions, answers))
	b.WriteString("\n\n")
	b.WriteString("Generate two open-ended questions that:\n")
	b.WriteString("1. Are specific to the position and candidate's background\n")
	b.WriteString("2. Require detailed, thoughtful responses\n")
	b.WriteString("3. Help assess technical skills, experience, or cultural fit\n\n")
	b.WriteString("Respond in this exact format:\n")
	b.WriteString("QUESTION 1: [First open-ended question]\n")
	b.WriteString("QUESTION 2: [Second open-ended question]")

	out, err := g.completer.Complete(ctx, ai.CompletionRequest{
		System:      followUpSystem,
		Prompt:      b.String(),
		Temperature: followUpTemperature,
	})
	if err != nil {
		g.logger.Warn("follow-up generation failed", zap.Error(err))
		return slices.Clone(fallbackOpenEndedQuestions)
	}

	_, parsed := parsePositionAndQuestions(out)
	if len(parsed) < openEndedCount {
		parsed = append(parsed, fallbackOpenEndedQuestions[len(parsed):openEndedCount]...)
	}
	return parsed[:openEndedCount]
}

// Summary renders the whole interview into a recruiter-facing summary.
func (g *Generator) Summary(ctx context.Context, sess Session) string {
	var openEnded []string
	for i := range sess.OpenEndedQuestions {
		answer := ""
		if i < len(sess.OpenEndedAnswers) {
			answer = sess.OpenEndedAnswers[i]
		}
		openEnded = append(openEnded, fmt.Sprintf("Q%d: %s\nAnswer: %s", i+1, sess.OpenEndedQuestions[i], answer))
	}

	var b strings.Builder
	b.WriteString("You are an AI recruiter summarizing an interview. ")
	b.WriteString("Create a comprehensive summary of the candidate's responses and overall assessment.\n\n")
	fmt.Fprintf(&b, "Position: %s\n\n", sess.PositionTitle)
	fmt.Fprintf(&b, "Resume Summary: %s...\n\n", clip(sess.ResumeText, summaryResumeLimit))
	b.WriteString("Yes/No Screening Questions and Answers:\n")
	b.WriteString(yesNoContext(sess.YesNoQuestions, sess.YesNoAnswers))
	b.WriteString("\n\n")
	b.WriteString("Open-Ended Questions and Answers:\n")
	b.WriteString(strings.Join(openEnded, "\n"))
	b.WriteString("\n\n")
	b.WriteString("Provide a professional summary that includes:\n")
	b.WriteString("1. Key insights from their responses\n")
	b.WriteString("2. Assessment of their fit for the position\n")
	b.WriteString("3. Any concerns or strengths identified\n")
	b.WriteString("4. Overall recommendation\n\n")
	b.WriteString("Keep the summary concise but comprehensive (2-3 paragraphs).")

	out, err := g.completer.Complete(ctx, ai.CompletionRequest{
		System:      summarySystem,
		Prompt:      b.String(),
		Temperature: summaryTemperature,
	})
	if err != nil {
		g.logger.Warn("summary generation failed", zap.Error(err))
		return fallbackSummary
	}
	return strings.TrimSpace(out)
}

// parsePositionAndQuestions reads "POSITION:" and "QUESTION n:" marker
// lines. The position defaults when the marker is absent or empty.
func parsePositionAndQuestions(content string) (string, []string) {
	title := defaultPositionTitle
	var questions []string

	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(line, "POSITION:"); ok {
			if value = strings.TrimSpace(value); value != "" {
				title = value
			}
		} else if strings.HasPrefix(line, "QUESTION") {
			if _, after, found := strings.Cut(line, ":"); found {
				if q := strings.TrimSpace(after); q != "" {
					questions = append(questions, q)
				}
			}
		}
	}
	return title, questions
}

func yesNoContext(questions []string, answers []bool) string {
	lines := make([]string, 0, len(questions))
	for i, q := range questions {
		answer := "No"
		if i < len(answers) && answers[i] {
			answer = "Yes"
		}
		lines = append(lines, fmt.Sprintf("Q%d: %s - Answer: %s", i+1, q, answer))
	}
	return strings.Join(lines, "\n")
}

func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
