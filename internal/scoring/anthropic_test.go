// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wordscore/pkg/types"
)

func anthropicServer(t *testing.T, content string, capture *map[string]any) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, capture)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"m",`+
			`"content":`+content+`,"stop_reason":"end_turn","stop_sequence":null,`+
			`"usage":{"input_tokens":1,"output_tokens":1}}`)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestAnthropicScorer(ts *httptest.Server) *AnthropicScorer {
	return NewAnthropicScorer(
		types.AIConfig{APIKey: "sk-ant-test", Model: "claude-test", MaxTokens: 256},
		nil,
		option.WithBaseURL(ts.URL),
		option.WithMaxRetries(0),
	)
}

func TestAnthropicScorer(t *testing.T) {
	var body map[string]any
	ts := anthropicServer(t, `[{"type":"text","text":"elma:90\n"},{"type":"text","text":"armut:40"}]`, &body)

	text, err := newTestAnthropicScorer(ts).Score(context.Background(), []string{"elma", "armut"}, "Score each word.")
	require.NoError(t, err)
	assert.Equal(t, "elma:90\narmut:40", text)

	assert.Equal(t, "claude-test", body["model"])
	assert.EqualValues(t, 256, body["max_tokens"])

	system, ok := body["system"].([]any)
	require.True(t, ok, "system prompt must be a block list")
	require.Len(t, system, 1)
	assert.Equal(t, "Score each word.", system[0].(map[string]any)["text"])

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	blocks := msg["content"].([]any)
	require.Len(t, blocks, 1)
	assert.Equal(t, "elma\narmut", blocks[0].(map[string]any)["text"])
}

func TestAnthropicScorerNoTextContent(t *testing.T) {
	ts := anthropicServer(t, `[]`, nil)

	_, err := newTestAnthropicScorer(ts).Score(context.Background(), []string{"elma"}, "p")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedReply))
}

func TestAnthropicScorerAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer ts.Close()

	_, err := newTestAnthropicScorer(ts).Score(context.Background(), []string{"elma"}, "p")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedReply))
	assert.Contains(t, err.Error(), "calling Anthropic API")
}
