package intent

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// Config holds the OpenAI extractor configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.openai.com/v1",
		APIKey:     "",
		Model:      "gpt-4o-mini",
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	}
}

// OpenAIExtractor extracts scheduling candidates with a chat completion model.
type OpenAIExtractor struct {
	client *openai.Client
	config *Config
}

// NewOpenAIExtractor creates a new OpenAI-backed extractor.
func NewOpenAIExtractor(cfg *Config) (*OpenAIExtractor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Apply defaults for unset values
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.APIKey == "" {
		return nil, errors.New("API key is required, set AGENDA_AI_API_KEY environment variable")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIExtractor{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Extract sends the request text to the model and parses the structured
// candidate from its response. All failures, including timeouts, map to
// ErrExtractionFailed.
func (e *OpenAIExtractor) Extract(ctx context.Context, text string, referenceDate time.Time) (*Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:     e.config.Model,
		MaxTokens: 200,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(referenceDate),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: extractionPrompt(text, referenceDate),
			},
		},
	}

	var content string
	err := e.doWithRetry(ctx, func() error {
		resp, err := e.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("empty chat response")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(ErrExtractionFailed, "chat completion: %v", err)
	}

	candidate, err := parseCandidate(content)
	if err != nil {
		slog.Debug("failed to parse extraction response", "error", err, "content", content)
		return nil, errors.Wrapf(ErrExtractionFailed, "parse response: %v", err)
	}

	return candidate, nil
}

// doWithRetry executes a function with exponential backoff retry.
func (e *OpenAIExtractor) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < e.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < e.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("extraction request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}

// systemPrompt anchors the assistant to the reference date and restricts it
// to appointment booking.
func systemPrompt(referenceDate time.Time) string {
	return fmt.Sprintf(
		"Today's date is %s. You are a medical appointment booking assistant; restrict the conversation to scheduling consultations.",
		referenceDate.Format("2006-01-02"))
}

// extractionPrompt asks for pure JSON. The reference date is repeated so the
// model resolves relative expressions against it instead of inventing a year.
func extractionPrompt(text string, referenceDate time.Time) string {
	today := referenceDate.Format("2006-01-02")
	return fmt.Sprintf(`You interpret medical appointment booking requests.
Today's date is %s. Use THAT date as the absolute reference to resolve expressions like "tomorrow" or "the day after tomorrow".
Do not invent the year. Use exactly the year in %s.
Extract the following information from the text below and return only the pure JSON in the format below, without extra explanations:
{
    "name": "Patient name",
    "date": "YYYY-MM-DD",
    "time": "HH:MM"
}
Text: %q`, today, today, text)
}

// Ensure OpenAIExtractor implements Extractor
var _ Extractor = (*OpenAIExtractor)(nil)
