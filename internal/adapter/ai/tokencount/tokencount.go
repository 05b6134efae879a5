// Package tokencount counts prompt and completion tokens for model calls.
//
// It uses tiktoken-go, a Go port of OpenAI's tiktoken library. Counts feed
// the prompt-token metrics and the per-stage token budgets.
package tokencount

import (
	"log/slog"
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Usage holds token counts for one model call.
type Usage struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
}

// Counter is a thread-safe token counter with a per-model encoding cache.
type Counter struct {
	encodingCache map[string]*tiktoken.Tiktoken
	mu            sync.RWMutex
}

// NewCounter creates a token counter.
func NewCounter() *Counter {
	return &Counter{encodingCache: make(map[string]*tiktoken.Tiktoken)}
}

// DefaultCounter is a shared counter instance.
var DefaultCounter = NewCounter()

func (c *Counter) encodingForModel(model string) (*tiktoken.Tiktoken, error) {
	normalized := normalizeModelName(model)

	c.mu.RLock()
	if enc, ok := c.encodingCache[normalized]; ok {
		c.mu.RUnlock()
		return enc, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if enc, ok := c.encodingCache[normalized]; ok {
		return enc, nil
	}

	enc, err := tiktoken.EncodingForModel(normalized)
	if err != nil {
		// cl100k_base is a reasonable approximation for modern chat models.
		slog.Debug("falling back to cl100k_base encoding",
			slog.String("model", model),
			slog.Any("error", err))
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}

	c.encodingCache[normalized] = enc
	return enc, nil
}

// normalizeModelName maps provider-prefixed model ids to tiktoken names.
func normalizeModelName(model string) string {
	model = strings.ToLower(model)
	if strings.Contains(model, "/") {
		parts := strings.Split(model, "/")
		model = parts[len(parts)-1]
	}
	model = strings.TrimSuffix(model, ":free")
	switch {
	case strings.Contains(model, "gpt-4"):
		return "gpt-4"
	case strings.Contains(model, "gpt-3.5"):
		return "gpt-3.5-turbo"
	default:
		return "gpt-4"
	}
}

// CountTokens returns the token count of text under the model's encoding.
// On encoding errors it estimates at four characters per token.
func (c *Counter) CountTokens(text, model string) int {
	if text == "" {
		return 0
	}
	enc, err := c.encodingForModel(model)
	if err != nil {
		slog.Debug("token encoding unavailable, estimating",
			slog.String("model", model),
			slog.Any("error", err))
		return (len(text) + 3) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// CountUsage returns token usage for a prompt and its completion.
func (c *Counter) CountUsage(prompt, completion, model string) Usage {
	p := c.CountTokens(prompt, model)
	cm := c.CountTokens(completion, model)
	return Usage{
		PromptTokens:     p,
		CompletionTokens: cm,
		TotalTokens:      p + cm,
		Model:            model,
	}
}
