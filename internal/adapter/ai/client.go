// Package ai implements a model client backed by an OpenAI-compatible
// chat completions endpoint.
package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/rakeshbhasyam/RecruitIQ/internal/adapter/ai/tokencount"
	"github.com/rakeshbhasyam/RecruitIQ/internal/adapter/observability"
	"github.com/rakeshbhasyam/RecruitIQ/internal/config"
	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

// Client implements domain.ModelClient against {base}/chat/completions.
// Rate limits and 5xx responses are retried with exponential backoff;
// other 4xx responses fail the call immediately.
type Client struct {
	cfg     config.Config
	hc      *http.Client
	counter *tokencount.Counter
}

// New constructs a Client with the configured request timeout.
func New(cfg config.Config) *Client {
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.ModelTimeout},
		counter: tokencount.NewCounter(),
	}
}

func (c *Client) backoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	maxElapsed, initial, maxInterval, multiplier := c.cfg.ModelBackoff()
	expo.MaxElapsedTime = maxElapsed
	expo.InitialInterval = initial
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return expo
}

// Generate sends prompt as a single user message and returns the model's
// text response.
func (c *Client) Generate(ctx domain.Context, prompt string, maxTokens int) (string, error) {
	if c.cfg.ModelAPIKey == "" {
		return "", fmt.Errorf("%w: MODEL_API_KEY missing", domain.ErrInvalidArgument)
	}

	body := map[string]any{
		"model":       c.cfg.ModelName,
		"temperature": 0.2,
		"max_tokens":  maxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("op=ai.generate: %w", err)
	}

	var out struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	op := func() error {
		start := time.Now()
		// Recreate the request each attempt to avoid reusing a consumed body.
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ModelBaseURL+"/chat/completions", bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		r.Header.Set("Authorization", "Bearer "+c.cfg.ModelAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		observability.ModelRequestDuration.WithLabelValues("chat").Observe(time.Since(start).Seconds())
		if err != nil {
			observability.ModelRequestsTotal.WithLabelValues("chat", "transport_error").Inc()
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			observability.ModelRequestsTotal.WithLabelValues("chat", "rate_limited").Inc()
			slog.Warn("model provider rate limited",
				slog.String("model", c.cfg.ModelName),
				slog.Int("status", resp.StatusCode))
			return fmt.Errorf("rate limited: 429")
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			observability.ModelRequestsTotal.WithLabelValues("chat", "client_error").Inc()
			snippet := string(bodyBytes)
			if len(snippet) > 512 {
				snippet = snippet[:512]
			}
			slog.Warn("model provider 4xx",
				slog.String("model", c.cfg.ModelName),
				slog.Int("status", resp.StatusCode),
				slog.String("body", snippet))
			return backoff.Permanent(fmt.Errorf("chat status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			observability.ModelRequestsTotal.WithLabelValues("chat", "server_error").Inc()
			slog.Error("model provider non-2xx",
				slog.String("model", c.cfg.ModelName),
				slog.Int("status", resp.StatusCode))
			return fmt.Errorf("chat status %d", resp.StatusCode)
		}
		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			observability.ModelRequestsTotal.WithLabelValues("chat", "decode_error").Inc()
			return err
		}
		observability.ModelRequestsTotal.WithLabelValues("chat", "ok").Inc()
		return nil
	}

	bo := backoff.WithContext(c.backoffConfig(), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrModelCall, err)
	}

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices in response", domain.ErrModelCall)
	}
	content := out.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: empty message content", domain.ErrModelCall)
	}

	usage := c.counter.CountUsage(prompt, content, c.cfg.ModelName)
	observability.ModelPromptTokens.WithLabelValues("chat").Observe(float64(usage.PromptTokens))
	slog.Debug("model call ok",
		slog.String("model", c.cfg.ModelName),
		slog.Int("prompt_tokens", usage.PromptTokens),
		slog.Int("completion_tokens", usage.CompletionTokens))
	return content, nil
}

// Ping verifies the endpoint is reachable. Any HTTP response counts as
// reachable; readiness only cares about connectivity, not auth.
func (c *Client) Ping(ctx domain.Context) error {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ModelBaseURL+"/models", nil)
	if err != nil {
		return err
	}
	r.Header.Set("Authorization", "Bearer "+c.cfg.ModelAPIKey)
	resp, err := c.hc.Do(r)
	if err != nil {
		var ne interface{ Timeout() bool }
		if errors.As(err, &ne) && ne.Timeout() {
			return fmt.Errorf("%w: ping timeout", domain.ErrModelCall)
		}
		return fmt.Errorf("%w: %v", domain.ErrModelCall, err)
	}
	_ = resp.Body.Close()
	return nil
}
