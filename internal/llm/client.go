package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jonathan/cv-tailor/internal/logger"
)

// Client is the language-model collaborator consumed by the pipeline.
// Structured exchanges are JSON embedded in free text; callers extract it with ExtractJSONObject.
type Client interface {
	// GenerateText sends prompt with an optional system prompt and returns the raw response text.
	GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error)
	// RewriteText rewrites original under the given instruction and returns only the new text.
	RewriteText(ctx context.Context, original, instruction string) (string, error)
	// IsConfigured reports whether calls can reach a real model.
	IsConfigured() bool
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a client for the configured provider. An empty API key
// yields an unconfigured client rather than an error, so heuristic paths keep working.
func NewClient(ctx context.Context, config *Config, apiKey string, log *zap.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if strings.TrimSpace(apiKey) == "" {
		return Unconfigured(), nil
	}

	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey, log)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client  *genai.Client
	config  *Config
	breaker *breaker
	logger  *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string, log *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		config:  config,
		breaker: newBreaker(string(ProviderGemini), config.Breaker, log),
		logger:  log,
	}, nil
}

// rewriteRequest frames the original text; the contract travels as the system instruction.
const rewriteRequest = "Rewrite the following text. Respond with the rewritten text only, no quotes or commentary.\n\nTEXT:\n%s"

// GenerateText generates free-form text with the standard tier.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return c.generate(ctx, "generate_text", TierStandard, prompt, systemPrompt)
}

// RewriteText rewrites original with the advanced tier, using instruction as the system prompt.
func (c *GeminiClient) RewriteText(ctx context.Context, original, instruction string) (string, error) {
	return c.generate(ctx, "rewrite_text", TierAdvanced, fmt.Sprintf(rewriteRequest, original), instruction)
}

// IsConfigured always reports true; a GeminiClient only exists with an API key.
func (c *GeminiClient) IsConfigured() bool {
	return true
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *GeminiClient) generate(ctx context.Context, op string, tier ModelTier, prompt, systemPrompt string) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", &ConfigurationError{Component: fmt.Sprintf("%s (no model for tier %s)", op, tier)}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	}

	c.logger.Debug("llm request",
		zap.String("operation", op),
		zap.String("model", modelName),
		zap.String("prompt", logger.TruncateForLog(prompt, 300)))

	start := time.Now()
	text, err := c.breaker.execute(func() (string, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", err
		}
		return extractTextFromResponse(resp)
	})
	if err != nil {
		c.logger.Warn("llm request failed",
			zap.String("operation", op),
			zap.String("model", modelName),
			zap.String("breaker", c.breaker.state()),
			zap.Error(err))
		return "", &APICallError{Operation: op, Model: modelName, Cause: err}
	}

	c.logger.Debug("llm response",
		zap.String("operation", op),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("response", logger.TruncateForLog(text, 300)))
	return text, nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
