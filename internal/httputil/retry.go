// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for the scoring backends.
package httputil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// retryable responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 5 * time.Second

// maxRetryAfter caps how long a Retry-After header may make us wait.
const maxRetryAfter = 2 * time.Minute

const defaultMaxRetries = 5

// Retryable reports whether a response status is worth repeating: rate
// limiting and transient gateway failures.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// DoWithRetry executes an HTTP request and retries retryable statuses with
// exponential backoff: RetryBaseDelay, then doubling each attempt. A
// Retry-After header given in seconds replaces the computed delay.
//
// When maxRetries is 0 the default (5) is used. The request body is
// re-created from req.GetBody for every attempt, so POST requests built
// with http.NewRequestWithContext over a bytes.Reader can be repeated. If
// the context is cancelled during a wait the function returns ctx.Err().
// After exhausting retries the last response is returned so the caller can
// inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, logger *slog.Logger) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for attempt := 0; ; attempt++ {
		attemptReq, err := cloneRequest(ctx, req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		delay := retryDelay(resp, attempt)

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.Warn("backend busy, retrying",
			"status", resp.StatusCode, "delay", delay, "attempt", attempt+1, "max", maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func cloneRequest(ctx context.Context, req *http.Request, attempt int) (*http.Request, error) {
	r := req.Clone(ctx)
	if attempt == 0 || req.Body == nil || req.GetBody == nil {
		return r, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("rewinding request body: %w", err)
	}
	r.Body = body
	return r, nil
}

func retryDelay(resp *http.Response, attempt int) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return min(time.Duration(secs)*time.Second, maxRetryAfter)
		}
	}
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}
