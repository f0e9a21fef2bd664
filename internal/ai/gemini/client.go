// Package gemini implements the text-completion gateway on top of the Google
// GenAI API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sgrishin/recruit-pilot/internal/ai"
	"github.com/sgrishin/recruit-pilot/internal/logger"
	"github.com/sgrishin/recruit-pilot/internal/util"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultMaxLogLen  = 200
	retryBaseInterval = 500 * time.Millisecond
)

// contentCaller is the narrow slice of the genai client used by the
// completer; tests substitute a stub.
type contentCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Completer wraps the Google GenAI client behind the ai.Completer contract.
type Completer struct {
	models     contentCaller
	modelName  string
	maxRetries int
	maxLogLen  int
	logger     *zap.Logger
}

// NewCompleter creates a Completer configured for the Gemini API backend.
// Model, retry count and log truncation are supplied once at startup.
func NewCompleter(ctx context.Context, apiKey, model string, maxRetries, maxLogLength int, log *zap.Logger) (*Completer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxRetries < 0 {
		maxRetries = 0
	}

	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLen
	}

	return &Completer{
		models:     client.Models,
		modelName:  model,
		maxRetries: maxRetries,
		maxLogLen:  maxLogLength,
		logger:     logger.WithFields(log, logger.CommonFields("gemini", model)...),
	}, nil
}

// Complete sends the prompt to Gemini and returns the joined textual response.
// Attempts are bounded by the configured retry count with backoff between
// tries.
func (c *Completer) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	if c == nil || c.models == nil {
		return "", errors.New("gemini completer is not initialized")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	config := &genai.GenerateContentConfig{}
	if system := strings.TrimSpace(req.System); system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(req.Temperature)
	}

	c.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, c.maxLogLen)),
	)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryBaseInterval * time.Duration(1<<(attempt-1))
			c.logger.Debug("retrying gemini request",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr),
			)
			if err := util.WaitFor(ctx, backoff); err != nil {
				return "", err
			}
		}

		resp, err := c.models.GenerateContent(ctx, c.modelName, genai.Text(prompt), config)
		if err != nil {
			lastErr = fmt.Errorf("generate content: %w", err)
			continue
		}

		output := joinCandidates(resp)
		if output == "" {
			lastErr = errors.New("gemini api returned empty response")
			continue
		}

		c.logger.Debug("gemini generate content response",
			zap.Int("response_length", utf8.RuneCountInString(output)),
			zap.String("response_preview", util.TruncateForLog(output, c.maxLogLen)),
		)

		return output, nil
	}

	return "", lastErr
}

func (c *Completer) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

func joinCandidates(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}
