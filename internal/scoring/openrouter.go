// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pdiddy/wordscore/internal/httputil"
	"github.com/pdiddy/wordscore/pkg/types"
)

// openRouterURL is the chat completions endpoint. Package-level var for test substitution.
var openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

const (
	defaultMaxTokens = 1024
	defaultReferer   = "http://localhost"
	defaultTitle     = "LLM Wordlist Filter"
)

// OpenRouterScorer scores batches through the OpenRouter chat completions
// API. The prompt goes in a system message marked for prompt caching and
// the batch goes in the user message, one word per line.
type OpenRouterScorer struct {
	// URL is the chat completions endpoint. Empty uses OpenRouter's.
	URL string

	APIKey    string
	Model     string
	MaxTokens int
	Referer   string
	Title     string
	Client    *http.Client
	Logger    *slog.Logger

	// RateLimitRetries bounds retries on 429 and gateway errors (default 5).
	RateLimitRetries int

	// Debug logs request payloads and full responses.
	Debug bool
}

// NewOpenRouterScorer builds a scorer from the AI configuration.
func NewOpenRouterScorer(cfg types.AIConfig, logger *slog.Logger) *OpenRouterScorer {
	return &OpenRouterScorer{
		URL:       cfg.BaseURL,
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Referer:   cfg.Referer,
		Title:     cfg.Title,
		Client:    &http.Client{Timeout: cfg.Timeout},
		Logger:    logger,
		Debug:     cfg.Debug,

		RateLimitRetries: cfg.RateLimitRetries,
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string     `json:"role"`
	Content []chatPart `json:"content"`
}

type chatPart struct {
	Type         string        `json:"type"`
	Text         string        `json:"text"`
	CacheControl *cacheControl `json:"cache_control,omitempty"`
}

type cacheControl struct {
	Type string `json:"type"`
}

// chatCompletion is the part of the response we read. Pointers tell a
// missing field apart from an empty one.
type chatCompletion struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Score sends one batch and returns the text of the first choice.
func (o *OpenRouterScorer) Score(ctx context.Context, words []string, prompt string) (string, error) {
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	body, err := json.Marshal(o.buildRequest(words, prompt))
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}
	if o.Debug {
		logger.Debug("OpenRouter request", "body", string(body))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, orDefault(o.URL, openRouterURL), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", orDefault(o.Referer, defaultReferer))
	req.Header.Set("X-Title", orDefault(o.Title, defaultTitle))

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, o.RateLimitRetries, logger)
	if err != nil {
		return "", fmt.Errorf("calling OpenRouter API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading OpenRouter response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenRouter API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if o.Debug {
		logger.Debug("OpenRouter response", "body", string(data))
	}

	return decodeChatCompletion(data)
}

func (o *OpenRouterScorer) buildRequest(words []string, prompt string) chatRequest {
	maxTokens := o.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return chatRequest{
		Model:     o.Model,
		MaxTokens: maxTokens,
		Messages: []chatMessage{
			{
				Role: "system",
				Content: []chatPart{{
					Type:         "text",
					Text:         prompt,
					CacheControl: &cacheControl{Type: "ephemeral"},
				}},
			},
			{
				Role:    "user",
				Content: []chatPart{{Type: "text", Text: strings.Join(words, "\n")}},
			},
		},
	}
}

// decodeChatCompletion extracts choices[0].message.content. A body that is
// not JSON is a plain error; a JSON envelope without the field wraps
// ErrMalformedReply.
func decodeChatCompletion(data []byte) (string, error) {
	var cc chatCompletion
	if err := json.Unmarshal(data, &cc); err != nil {
		return "", fmt.Errorf("decoding OpenRouter response: %w", err)
	}
	if len(cc.Choices) == 0 || cc.Choices[0].Message == nil || cc.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("%w: missing choices[0].message.content", ErrMalformedReply)
	}
	return *cc.Choices[0].Message.Content, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
