// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/wordscore/pkg/types"
)

// AnthropicScorer scores batches directly against the Anthropic Messages
// API. The prompt is sent as the system prompt and the batch as a single
// user message, one word per line.
type AnthropicScorer struct {
	client    anthropic.Client
	model     string
	maxTokens int
	logger    *slog.Logger
	debug     bool
}

// NewAnthropicScorer builds a scorer from the AI configuration. Extra
// request options are appended after the configured ones; tests use them
// to point the client at a local server.
func NewAnthropicScorer(cfg types.AIConfig, logger *slog.Logger, opts ...option.RequestOption) *AnthropicScorer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.RateLimitRetries > 0 {
		reqOpts = append(reqOpts, option.WithMaxRetries(cfg.RateLimitRetries))
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &AnthropicScorer{
		client:    anthropic.NewClient(reqOpts...),
		model:     cfg.Model,
		maxTokens: maxTokens,
		logger:    logger,
		debug:     cfg.Debug,
	}
}

// Score sends one batch and returns the concatenated text blocks of the reply.
func (a *AnthropicScorer) Score(ctx context.Context, words []string, prompt string) (string, error) {
	userText := strings.Join(words, "\n")
	if a.debug {
		a.logger.Debug("Anthropic request", "model", a.model, "system", prompt, "user", userText)
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(a.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: prompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userText)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling Anthropic API: %w", err)
	}

	var b strings.Builder
	found := false
	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		found = true
		b.WriteString(block.Text)
	}
	if !found {
		return "", fmt.Errorf("%w: no text content in Anthropic response", ErrMalformedReply)
	}

	if a.debug {
		a.logger.Debug("Anthropic response", "text", b.String())
	}
	return b.String(), nil
}
