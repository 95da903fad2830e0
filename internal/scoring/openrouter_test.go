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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wordscore/internal/httputil"
	"github.com/pdiddy/wordscore/pkg/types"
)

func withOpenRouterURL(t *testing.T, url string) {
	t.Helper()
	old := openRouterURL
	openRouterURL = url
	t.Cleanup(func() { openRouterURL = old })
}

func TestOpenRouterScorerRequest(t *testing.T) {
	var gotBody chatRequest
	var gotHeader http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"elma:95\narmut:40"}}]}`)
	}))
	defer ts.Close()
	withOpenRouterURL(t, ts.URL)

	scorer := NewOpenRouterScorer(types.AIConfig{APIKey: "sk-test", Model: "test/model"}, nil)
	scorer.Client = ts.Client()

	text, err := scorer.Score(context.Background(), []string{"elma", "armut"}, "Score each word.")
	require.NoError(t, err)
	assert.Equal(t, "elma:95\narmut:40", text)

	assert.Equal(t, "Bearer sk-test", gotHeader.Get("Authorization"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, defaultReferer, gotHeader.Get("HTTP-Referer"))
	assert.Equal(t, defaultTitle, gotHeader.Get("X-Title"))

	assert.Equal(t, "test/model", gotBody.Model)
	assert.Equal(t, defaultMaxTokens, gotBody.MaxTokens)
	require.Len(t, gotBody.Messages, 2)

	system := gotBody.Messages[0]
	assert.Equal(t, "system", system.Role)
	require.Len(t, system.Content, 1)
	assert.Equal(t, "Score each word.", system.Content[0].Text)
	require.NotNil(t, system.Content[0].CacheControl)
	assert.Equal(t, "ephemeral", system.Content[0].CacheControl.Type)

	user := gotBody.Messages[1]
	assert.Equal(t, "user", user.Role)
	require.Len(t, user.Content, 1)
	assert.Equal(t, "elma\narmut", user.Content[0].Text)
	assert.Nil(t, user.Content[0].CacheControl)
}

func TestOpenRouterScorerCustomHeaders(t *testing.T) {
	var gotHeader http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":""}}]}`)
	}))
	defer ts.Close()
	withOpenRouterURL(t, ts.URL)

	scorer := NewOpenRouterScorer(types.AIConfig{
		HTTPConfig: types.HTTPConfig{Referer: "https://example.org", Title: "wordscore"},
		APIKey:     "k",
		Model:      "m",
	}, nil)
	scorer.Client = ts.Client()

	text, err := scorer.Score(context.Background(), []string{"elma"}, "p")
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, "https://example.org", gotHeader.Get("HTTP-Referer"))
	assert.Equal(t, "wordscore", gotHeader.Get("X-Title"))
}

func TestOpenRouterScorerErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantMalformed bool
		wantContains  string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"bad key"}`, wantContains: "returned 401"},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantContains: "returned 500: boom"},
		{name: "not json", status: http.StatusOK, body: "<html>gateway page</html>", wantContains: "decoding OpenRouter response"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantMalformed: true},
		{name: "no message", status: http.StatusOK, body: `{"choices":[{}]}`, wantMalformed: true},
		{name: "no content", status: http.StatusOK, body: `{"choices":[{"message":{"role":"assistant"}}]}`, wantMalformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer ts.Close()
			withOpenRouterURL(t, ts.URL)

			scorer := NewOpenRouterScorer(types.AIConfig{APIKey: "k", Model: "m"}, nil)
			scorer.Client = ts.Client()

			_, err := scorer.Score(context.Background(), []string{"elma"}, "p")
			require.Error(t, err)
			assert.Equal(t, tt.wantMalformed, errors.Is(err, ErrMalformedReply))
			if tt.wantContains != "" {
				assert.Contains(t, err.Error(), tt.wantContains)
			}
		})
	}
}

func TestDecodeChatCompletion(t *testing.T) {
	text, err := decodeChatCompletion([]byte(`{"choices":[{"message":{"content":"çay:88"}},{"message":{"content":"ignored"}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "çay:88", text)

	_, err = decodeChatCompletion([]byte("<html>gateway page</html>"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedReply))
}

func TestRunAbortsOnNonJSONReply(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>gateway page</html>")
	}))
	defer ts.Close()

	scorer := NewOpenRouterScorer(types.AIConfig{
		HTTPConfig: types.HTTPConfig{BaseURL: ts.URL},
		APIKey:     "k",
		Model:      "m",
	}, nil)
	scorer.Client = ts.Client()

	st, summary, err := Run(context.Background(), scorer, []string{"a", "b", "c"}, "p", Options{BatchSize: 1})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedReply))
	assert.Contains(t, err.Error(), "scoring batch 1/3")
	assert.Equal(t, 1, calls, "the run stops at the first batch")
	assert.Zero(t, st.Len())
	assert.Zero(t, summary.EmptyBatches)
}

func TestOpenRouterScorerRateLimitRetries(t *testing.T) {
	old := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	t.Cleanup(func() { httputil.RetryBaseDelay = old })

	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	scorer := NewOpenRouterScorer(types.AIConfig{
		HTTPConfig: types.HTTPConfig{BaseURL: ts.URL, RateLimitRetries: 1},
		APIKey:     "k",
		Model:      "m",
	}, nil)
	scorer.Client = ts.Client()
	assert.Equal(t, 1, scorer.RateLimitRetries)

	_, err := scorer.Score(context.Background(), []string{"elma"}, "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned 429")
	assert.Equal(t, 2, calls)
}
