package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/c360studio/semdoc/vocabulary/semdoc"
)

// maxResponseSize limits the extraction response body to prevent memory
// exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// defaultThreshold is the minimum confidence the service is asked to
// report spans at.
const defaultThreshold = 0.3

// defaultContextWindow is how many bytes of surrounding text each span's
// context excerpt carries on each side.
const defaultContextWindow = 50

// Extractor is the boundary the pipeline depends on for span extraction.
type Extractor interface {
	Extract(ctx context.Context, content string) (*Result, error)
}

// Client calls the span-extraction service over HTTP with retry support.
type Client struct {
	endpoint      string
	labels        []string
	threshold     float64
	contextWindow int
	httpClient    *http.Client
	retryConfig   RetryConfig
	logger        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(client *Client) {
		client.retryConfig = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) {
		client.logger = logger
	}
}

// WithLabels sets the label vocabulary sent to the service.
func WithLabels(labels []string) Option {
	return func(client *Client) {
		client.labels = labels
	}
}

// WithThreshold sets the confidence threshold sent to the service.
func WithThreshold(threshold float64) Option {
	return func(client *Client) {
		client.threshold = threshold
	}
}

// WithContextWindow sets the context excerpt padding in bytes.
func WithContextWindow(window int) Option {
	return func(client *Client) {
		client.contextWindow = window
	}
}

// NewClient creates an extraction client for the given service endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:      endpoint,
		labels:        semdoc.ExtractionLabels,
		threshold:     defaultThreshold,
		contextWindow: defaultContextWindow,
		retryConfig:   DefaultRetryConfig(),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// extractRequest is the wire format sent to the service.
type extractRequest struct {
	Text      string   `json:"text"`
	Labels    []string `json:"labels"`
	Threshold float64  `json:"threshold"`
}

// wireSpan is one entity in the service response.
type wireSpan struct {
	Text  string  `json:"text"`
	Label string  `json:"label"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
}

// extractResponse is the wire format returned by the service.
type extractResponse struct {
	Entities []wireSpan `json:"entities"`
}

// Extract preprocesses the content, requests spans from the service, drops
// malformed spans, and attaches context excerpts. The returned spans index
// into Result.Content, the preprocessed text.
func (c *Client) Extract(ctx context.Context, content string) (*Result, error) {
	cleaned := Preprocess(content)
	if cleaned == "" {
		return &Result{Content: cleaned}, nil
	}

	entities, err := c.request(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("extract spans: %w", err)
	}

	spans := make([]Span, 0, len(entities))
	for _, e := range entities {
		spans = append(spans, Span{
			Text:       e.Text,
			Label:      e.Label,
			Start:      e.Start,
			End:        e.End,
			Confidence: e.Score,
		})
	}

	valid, dropped := sanitize(spans, len(cleaned), c.logger)
	for i := range valid {
		valid[i].Context = ContextExcerpt(cleaned, valid[i].Start, valid[i].End, c.contextWindow)
	}

	return &Result{
		Spans:   valid,
		Content: cleaned,
		Dropped: dropped,
		Stats:   computeStats(valid, len(cleaned)),
	}, nil
}

// request performs the HTTP call with retry and backoff.
func (c *Client) request(ctx context.Context, text string) ([]wireSpan, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retryConfig.MaxAttempts; attempt++ {
		entities, err := c.doRequest(ctx, text)
		if err == nil {
			return entities, nil
		}

		lastErr = err
		if IsFatal(err) {
			return nil, err
		}

		if attempt < c.retryConfig.MaxAttempts {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debug("extraction request failed, retrying",
				"attempt", attempt,
				"max_attempts", c.retryConfig.MaxAttempts,
				"backoff", backoff,
				"error", err)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, lastErr
}

// calculateBackoff computes exponential backoff duration with jitter.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	multiplier := 1.0
	for i := 1; i < attempt; i++ {
		multiplier *= c.retryConfig.BackoffMultiplier
	}

	backoff := time.Duration(float64(c.retryConfig.BackoffBase) * multiplier)
	if backoff > c.retryConfig.MaxBackoff {
		backoff = c.retryConfig.MaxBackoff
	}

	jitter := float64(backoff) * 0.25 * (rand.Float64()*2 - 1)
	return backoff + time.Duration(jitter)
}

// doRequest executes a single HTTP request against the service.
func (c *Client) doRequest(ctx context.Context, text string) ([]wireSpan, error) {
	body, err := json.Marshal(extractRequest{
		Text:      text,
		Labels:    c.labels,
		Threshold: c.threshold,
	})
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("marshal request: %w", err))
	}

	url := c.endpoint + "/extract"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create HTTP request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(httpResp.StatusCode, respBody)
	}

	var resp extractResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, NewFatalError(fmt.Errorf("decode response: %w", err))
	}

	return resp.Entities, nil
}

// classifyHTTPError determines if an HTTP error is transient or fatal.
func classifyHTTPError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("extraction service error (status %d): %s", statusCode, bodyStr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		return NewTransientError(err)
	case statusCode >= 500:
		return NewTransientError(err)
	default:
		return NewFatalError(err)
	}
}
