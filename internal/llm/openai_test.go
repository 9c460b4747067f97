package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/CodexForgeBR/llm-planner/internal/credentials"
)

// fakeGenerator records each call and replies with reply or err.
type fakeGenerator struct {
	token    string
	reply    *llms.ContentResponse
	err      error
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (f *fakeGenerator) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, o := range options {
		o(&f.opts)
	}
	return f.reply, f.err
}

func textReply(s string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: s}}}
}

func newTestClient(t *testing.T, cfg OpenAIConfig, keys []string, build func(token string) *fakeGenerator) (*OpenAIClient, *[]*fakeGenerator) {
	t.Helper()
	ring, err := credentials.NewKeyRing(keys)
	require.NoError(t, err)

	c := NewOpenAIClient(cfg, ring)
	var made []*fakeGenerator
	c.newModel = func(token string) (generator, error) {
		g := build(token)
		g.token = token
		made = append(made, g)
		return g, nil
	}
	return c, &made
}

func TestOpenAIClient_ChatMode(t *testing.T) {
	c, made := newTestClient(t, OpenAIConfig{}, []string{"k1"}, func(string) *fakeGenerator {
		return &fakeGenerator{reply: textReply("pick a")}
	})

	got, err := c.Complete(context.Background(), "solve it")
	require.NoError(t, err)
	assert.Equal(t, "pick a", got)

	g := (*made)[0]
	require.Len(t, g.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, g.messages[0].Role)
	assert.Equal(t, llms.TextContent{Text: SystemPrompt}, g.messages[0].Parts[0])
	assert.Equal(t, llms.ChatMessageTypeHuman, g.messages[1].Role)
	assert.Equal(t, llms.TextContent{Text: "solve it"}, g.messages[1].Parts[0])
	assert.Equal(t, 0.0, g.opts.Temperature)
	assert.Equal(t, 1.0, g.opts.TopP)
	assert.Equal(t, 0, g.opts.MaxTokens)
	assert.Equal(t, DefaultModel, c.cfg.Model)
}

func TestOpenAIClient_CompletionMode(t *testing.T) {
	c, made := newTestClient(t, OpenAIConfig{CompletionMode: true}, []string{"k1"}, func(string) *fakeGenerator {
		return &fakeGenerator{reply: textReply("ok")}
	})

	_, err := c.Complete(context.Background(), "p")
	require.NoError(t, err)

	g := (*made)[0]
	require.Len(t, g.messages, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, g.messages[0].Role)
	assert.Equal(t, CompletionTokens, g.opts.MaxTokens)
}

func TestOpenAIClient_RotatesKeysPerCall(t *testing.T) {
	c, made := newTestClient(t, OpenAIConfig{}, []string{"k1", "k2"}, func(string) *fakeGenerator {
		return &fakeGenerator{reply: textReply("ok")}
	})

	for i := 0; i < 3; i++ {
		_, err := c.Complete(context.Background(), "p")
		require.NoError(t, err)
	}

	var tokens []string
	for _, g := range *made {
		tokens = append(tokens, g.token)
	}
	assert.Equal(t, []string{"k1", "k2", "k1"}, tokens)
}

func TestOpenAIClient_ErrorTranslation(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		cause := errors.New("API returned unexpected status code: 429: Rate limit reached for gpt-4. Please try again in 20ms.")
		c, _ := newTestClient(t, OpenAIConfig{}, []string{"k"}, func(string) *fakeGenerator {
			return &fakeGenerator{err: cause}
		})
		c.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

		_, err := c.Complete(context.Background(), "p")

		var rl *RateLimitError
		require.ErrorAs(t, err, &rl)
		assert.True(t, rl.Info.Parseable)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, ErrUnavailable)
	})

	t.Run("other failure", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		c, _ := newTestClient(t, OpenAIConfig{}, []string{"k"}, func(string) *fakeGenerator {
			return &fakeGenerator{err: cause}
		})

		_, err := c.Complete(context.Background(), "p")
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("empty response", func(t *testing.T) {
		c, _ := newTestClient(t, OpenAIConfig{}, []string{"k"}, func(string) *fakeGenerator {
			return &fakeGenerator{reply: &llms.ContentResponse{}}
		})

		_, err := c.Complete(context.Background(), "p")
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		c, _ := newTestClient(t, OpenAIConfig{}, []string{"k"}, func(string) *fakeGenerator {
			cancel()
			return &fakeGenerator{err: context.Canceled}
		})

		_, err := c.Complete(ctx, "p")
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrUnavailable)
	})
}

func TestRateLimitError_Message(t *testing.T) {
	err := &RateLimitError{}
	assert.Equal(t, "rate limit detected (retry time unknown)", err.Error())
}
