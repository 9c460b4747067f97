package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/CodexForgeBR/llm-planner/internal/credentials"
	"github.com/CodexForgeBR/llm-planner/internal/ratelimit"
)

const (
	// DefaultModel is used when OpenAIConfig.Model is empty.
	DefaultModel = "gpt-4"
	// SystemPrompt opens every chat-mode request.
	SystemPrompt = "You are a helpful assistant."
	// CompletionTokens caps the answer length in completion mode.
	CompletionTokens = 1024
	// DefaultRatePerSec paces requests when RequestsPerSecond is unset.
	DefaultRatePerSec = 1.0
)

// generator is the slice of llms.Model the client needs.
type generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// OpenAIConfig configures an OpenAIClient.
type OpenAIConfig struct {
	Model   string
	BaseURL string

	// CompletionMode sends the bare prompt without a system message and caps
	// the answer at CompletionTokens.
	CompletionMode bool

	// RequestsPerSecond paces outgoing calls; zero disables pacing.
	RequestsPerSecond float64
}

// OpenAIClient implements Client on top of langchaingo's OpenAI model. Every
// call takes the next key from the ring.
type OpenAIClient struct {
	cfg     OpenAIConfig
	keys    *credentials.KeyRing
	limiter *rate.Limiter
	now     func() time.Time

	newModel func(token string) (generator, error)
}

// NewOpenAIClient builds a client that rotates through keys.
func NewOpenAIClient(cfg OpenAIConfig, keys *credentials.KeyRing) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	c := &OpenAIClient{
		cfg:     cfg,
		keys:    keys,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
	c.newModel = c.openaiModel
	return c
}

func (c *OpenAIClient) openaiModel(token string) (generator, error) {
	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(c.cfg.Model),
	}
	if c.cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(c.cfg.BaseURL))
	}
	return openai.New(opts...)
}

// Complete sends prompt and returns the first choice's text.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	model, err := c.newModel(c.keys.Next())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	callOpts := []llms.CallOption{
		llms.WithTemperature(0),
		llms.WithTopP(1),
		llms.WithFrequencyPenalty(0),
		llms.WithPresencePenalty(0),
	}
	var messages []llms.MessageContent
	if c.cfg.CompletionMode {
		callOpts = append(callOpts, llms.WithMaxTokens(CompletionTokens))
	} else {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, SystemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	resp, err := model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", c.translate(ctx, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return resp.Choices[0].Content, nil
}

// translate maps a provider error onto RateLimitError or ErrUnavailable.
// Cancellation is passed through untouched.
func (c *OpenAIClient) translate(ctx context.Context, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return ctx.Err()
	}
	if info := ratelimit.CheckRateLimit(err.Error(), c.now()); info != nil {
		return &RateLimitError{Info: info, UnderlyingErr: err}
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
