// Package oracle calls an OpenAI-compatible chat-completions endpoint to
// answer free-form questions about a dataset.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/csv-analyst/backend/internal/models"
)

type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

// Options configures a Client; zero values fall back to defaults.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 4 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		baseURL:     opts.BaseURL,
		apiKey:      opts.APIKey,
		model:       opts.Model,
		maxAttempts: opts.MaxAttempts,
		baseDelay:   opts.BaseDelay,
		maxDelay:    opts.MaxDelay,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt as a single user message and returns the first
// choice's content. Every failure mode wraps models.ErrOracle so callers can
// translate it into an error payload rather than a transport error.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: api key is not configured", models.ErrOracle)
	}
	if c.model == "" {
		return "", fmt.Errorf("%w: model is not configured", models.ErrOracle)
	}

	payload, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", models.ErrOracle, err)
	}
	endpoint := c.baseURL + "/chat/completions"

	backoff := c.baseDelay
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", models.ErrOracle, ctx.Err())
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("%w: build request: %v", models.ErrOracle, err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		answer, retryable, err := c.attempt(req)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		if !retryable || attempt == c.maxAttempts {
			break
		}
		sleep := backoff
		if sleep > c.maxDelay {
			sleep = c.maxDelay
		}
		time.Sleep(sleep)
		backoff *= 2
	}
	return "", lastErr
}

func (c *Client) attempt(req *http.Request) (answer string, retryable bool, err error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", isRetryableNetErr(err), fmt.Errorf("%w: http request: %v", models.ErrOracle, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		msg := extractErrorMessage(body)
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if msg != "" {
			return "", retry, fmt.Errorf("%w: status %d: %s", models.ErrOracle, resp.StatusCode, msg)
		}
		return "", retry, fmt.Errorf("%w: status %d", models.ErrOracle, resp.StatusCode)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, fmt.Errorf("%w: decode response: %v", models.ErrOracle, err)
	}
	if len(out.Choices) == 0 {
		return "", false, fmt.Errorf("%w: response holds no choices", models.ErrOracle)
	}
	return out.Choices[0].Message.Content, false, nil
}

// extractErrorMessage digs the provider's message out of either the nested
// {"error": {"message": ...}} shape or a flat {"message": ...} body.
func extractErrorMessage(body []byte) string {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}
	if v, ok := raw["error"].(map[string]any); ok {
		if msg, ok := v["message"].(string); ok {
			return msg
		}
	}
	if msg, ok := raw["message"].(string); ok {
		return msg
	}
	return ""
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF)
}
