package generativeAI

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"github.com/wanderplan/wanderplan/app/observability/metrics"
)

const (
	defaultModel       = "gemini-2.0-flash"
	defaultTemperature = 0.5
	// Collaborator calls must never block a turn indefinitely.
	defaultTimeout = 10 * time.Second
)

// Completer is the single contract the rest of the application has with the
// LLM collaborator: one prompt in, free text out.
type Completer interface {
	CompleteText(ctx context.Context, systemPrompt, userPrompt string, maxTokens int32) (string, error)
}

// AIClient wraps the Gemini client behind the Completer contract.
type AIClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

var _ Completer = (*AIClient)(nil)

// NewAIClient builds a Gemini-backed Completer. The API key comes from
// GOOGLE_GEMINI_API_KEY; model and timeout fall back to package defaults when
// zero-valued.
func NewAIClient(ctx context.Context, model string, timeout time.Duration, logger *slog.Logger) (*AIClient, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewAIClient")
	defer span.End()

	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		err := fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, err
	}

	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &AIClient{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// CompleteText runs a single completion with a bounded deadline.
func (ai *AIClient) CompleteText(ctx context.Context, systemPrompt, userPrompt string, maxTokens int32) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "CompleteText")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](defaultTemperature),
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = maxTokens
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(userPrompt), config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		ai.logger.WarnContext(ctx, "LLM completion failed", slog.Any("error", err))
		if m := metrics.TryGet(); m != nil {
			m.LLMCallErrorsTotal.Add(ctx, 1)
		}
		return "", fmt.Errorf("generate content: %w", err)
	}
	return result.Text(), nil
}
