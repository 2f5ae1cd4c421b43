package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/interview-coach/internal/logger"
)

// TextGenerator turns a prompt into text. maxTokens <= 0 selects the backend default.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error)
}

// Embedder turns text into a vector for retrieval.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type GeminiService interface {
	TextGenerator
	Embedder
	GenerateWithRetry(ctx context.Context, prompt string, temperature float32, maxTokens int32, maxRetries int) (string, error)
}

type GeminiOptions struct {
	APIKey     string
	Model      string
	EmbedModel string
	MaxTokens  int32
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	maxTokens  int32
	log        *zap.Logger
}

func NewGeminiService(opts GeminiOptions, log *zap.Logger) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	if opts.EmbedModel == "" {
		opts.EmbedModel = "text-embedding-004"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2048
	}

	return &geminiService{
		client:     client,
		modelName:  opts.Model,
		embedModel: opts.EmbedModel,
		maxTokens:  opts.MaxTokens,
		log:        logger.Named(log, "gemini"),
	}, nil
}

// GenerateEmbedding implements Embedder.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// ~10k tokens is the embedding input ceiling
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// Generate implements TextGenerator.
func (g *geminiService) Generate(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}

	config := generateConfig(temperature, maxTokens)

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		g.log.Warn("gemini request failed", zap.Error(err))
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response (finish reason %q)", finishReason(resp))
	}

	g.log.Debug("gemini response received",
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("response_chars", len(text)),
		zap.String("preview", logger.TruncateForLog(text, 120)),
	)

	return text, nil
}

// generateConfig disables thinking so maxTokens bounds the visible output only.
func generateConfig(temperature float32, maxTokens int32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: maxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](0),
		},
	}
}

func finishReason(resp *genai.GenerateContentResponse) genai.FinishReason {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return ""
	}
	return resp.Candidates[0].FinishReason
}

// GenerateWithRetry repeats Generate up to maxRetries times, stopping early when ctx is done.
func (g *geminiService) GenerateWithRetry(ctx context.Context, prompt string, temperature float32, maxTokens int32, maxRetries int) (string, error) {
	return generateWithRetry(ctx, g, prompt, temperature, maxTokens, maxRetries, g.log)
}

func generateWithRetry(ctx context.Context, gen TextGenerator, prompt string, temperature float32, maxTokens int32, maxRetries int, log *zap.Logger) (string, error) {
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := gen.Generate(ctx, prompt, temperature, maxTokens)
		if err == nil {
			return result, nil
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < maxRetries {
			logger.WithFields(log).Warn("generation attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

// retryingGenerator adapts any TextGenerator to retry each call.
type retryingGenerator struct {
	next     TextGenerator
	attempts int
	log      *zap.Logger
}

// WithRetry wraps gen so every Generate call is retried up to attempts times.
func WithRetry(gen TextGenerator, attempts int, log *zap.Logger) TextGenerator {
	if attempts <= 1 {
		return gen
	}
	return &retryingGenerator{next: gen, attempts: attempts, log: log}
}

func (r *retryingGenerator) Generate(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	return generateWithRetry(ctx, r.next, prompt, temperature, maxTokens, r.attempts, r.log)
}
