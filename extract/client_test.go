package extract_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semdoc/extract"
)

// fastRetry keeps test retries from sleeping.
func fastRetry(attempts int) extract.RetryConfig {
	return extract.RetryConfig{
		MaxAttempts:       attempts,
		BackoffBase:       time.Millisecond,
		BackoffMultiplier: 1.0,
		MaxBackoff:        time.Millisecond,
	}
}

func TestClient_Extract_Success(t *testing.T) {
	content := "Raft is a consensus algorithm."

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/extract", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Text      string   `json:"text"`
			Labels    []string `json:"labels"`
			Threshold float64  `json:"threshold"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, content, req.Text)
		assert.Equal(t, []string{"algorithm"}, req.Labels)
		assert.Equal(t, 0.42, req.Threshold)

		resp := map[string]any{
			"entities": []map[string]any{
				{"text": "Raft", "label": "algorithm", "start": 0, "end": 4, "score": 0.9},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := extract.NewClient(server.URL,
		extract.WithLabels([]string{"algorithm"}),
		extract.WithThreshold(0.42),
		extract.WithContextWindow(5))

	res, err := client.Extract(context.Background(), content)
	require.NoError(t, err)

	require.Len(t, res.Spans, 1)
	span := res.Spans[0]
	assert.Equal(t, "Raft", span.Text)
	assert.Equal(t, "algorithm", span.Label)
	assert.Equal(t, 0, span.Start)
	assert.Equal(t, 4, span.End)
	assert.Equal(t, 0.9, span.Confidence)
	assert.Equal(t, "Raft is a", span.Context)

	assert.Equal(t, content, res.Content)
	assert.Equal(t, 0, res.Dropped)
	assert.Equal(t, 1, res.Stats.TotalSpans)
	assert.Equal(t, 1, res.Stats.UniqueLabels)
	assert.Equal(t, 0.9, res.Stats.AvgConfidence)
	assert.Equal(t, len(content), res.Stats.ContentLength)
}

func TestClient_Extract_DropsMalformedSpans(t *testing.T) {
	content := "Raft and Paxos are consensus algorithms."

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"entities": []map[string]any{
				{"text": "Raft", "label": "algorithm", "start": 0, "end": 4, "score": 0.9},
				{"text": "bad", "label": "algorithm", "start": 20, "end": 10, "score": 0.8},
				{"text": "bad", "label": "algorithm", "start": -1, "end": 4, "score": 0.8},
				{"text": "bad", "label": "algorithm", "start": 0, "end": 9999, "score": 0.8},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := extract.NewClient(server.URL)

	res, err := client.Extract(context.Background(), content)
	require.NoError(t, err)

	assert.Len(t, res.Spans, 1)
	assert.Equal(t, 3, res.Dropped)
	assert.Equal(t, "Raft", res.Spans[0].Text)
}

func TestClient_Extract_EmptyContent(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{"entities": []any{}})
	}))
	defer server.Close()

	client := extract.NewClient(server.URL)

	// Whitespace and pure code blocks preprocess to nothing; the
	// service is never called.
	for _, content := range []string{"", "   \n\t  ", "```\nonly code\n```"} {
		res, err := client.Extract(context.Background(), content)
		require.NoError(t, err)
		assert.Empty(t, res.Spans)
		assert.Equal(t, "", res.Content)
	}
	assert.Equal(t, int64(0), calls.Load())
}

func TestClient_Extract_RetriesTransient(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"entities": []any{}})
	}))
	defer server.Close()

	client := extract.NewClient(server.URL, extract.WithRetryConfig(fastRetry(3)))

	_, err := client.Extract(context.Background(), "some content")
	require.NoError(t, err)
	assert.Equal(t, int64(3), calls.Load())
}

func TestClient_Extract_RateLimitIsTransient(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"entities": []any{}})
	}))
	defer server.Close()

	client := extract.NewClient(server.URL, extract.WithRetryConfig(fastRetry(3)))

	_, err := client.Extract(context.Background(), "some content")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestClient_Extract_FatalNotRetried(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := extract.NewClient(server.URL, extract.WithRetryConfig(fastRetry(3)))

	_, err := client.Extract(context.Background(), "some content")
	require.Error(t, err)
	assert.True(t, extract.IsFatal(err))
	assert.Equal(t, int64(1), calls.Load())
}

func TestClient_Extract_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := extract.NewClient(server.URL, extract.WithRetryConfig(fastRetry(2)))

	_, err := client.Extract(context.Background(), "some content")
	require.Error(t, err)
	assert.True(t, extract.IsTransient(err))
	assert.Equal(t, int64(2), calls.Load())
}

func TestErrorClassification(t *testing.T) {
	transient := extract.NewTransientError(errors.New("socket closed"))
	fatal := extract.NewFatalError(errors.New("bad payload"))

	assert.True(t, extract.IsTransient(transient))
	assert.False(t, extract.IsFatal(transient))
	assert.True(t, extract.IsFatal(fatal))
	assert.False(t, extract.IsTransient(fatal))

	// Classification survives wrapping
	wrapped := fmt.Errorf("extract spans: %w", transient)
	assert.True(t, extract.IsTransient(wrapped))
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text unchanged", "Raft is a consensus algorithm.", "Raft is a consensus algorithm."},
		{"bold unwrapped", "**Raft** is robust", "Raft is robust"},
		{"italic unwrapped", "quite *subtle* indeed", "quite subtle indeed"},
		{"inline code unwrapped", "run `go build` first", "run go build first"},
		{"code blocks removed", "before\n```go\nfunc main() {}\n```\nafter", "before after"},
		{"whitespace collapsed", "a\n\nb\t\tc   d", "a b c d"},
		{"trimmed", "  padded  ", "padded"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extract.Preprocess(tt.in))
		})
	}
}

func TestContextExcerpt(t *testing.T) {
	content := "0123456789abcdefghij"

	assert.Equal(t, "456789abcdef", extract.ContextExcerpt(content, 8, 12, 4))
	assert.Equal(t, "0123456789ab", extract.ContextExcerpt(content, 0, 2, 10))
	assert.Equal(t, content, extract.ContextExcerpt(content, 0, len(content), 100))
}

func TestContextExcerptRuneAligned(t *testing.T) {
	// Offsets landing inside a multi-byte rune widen to its boundaries.
	content := "xxéxx"
	got := extract.ContextExcerpt(content, 3, 3, 0)
	assert.Equal(t, "é", got)
}
