// Package llm defines the provider-agnostic contract for the external
// language model.
package llm

import (
	"context"
	"fmt"
)

// Message is a chat message in a provider-agnostic format.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Usage reports token consumption of a completion when the provider exposes it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is a completed chat turn.
type Result struct {
	Content string
	Usage   *Usage
}

// Option allows optional parameters like Temperature or a model override.
type Option func(*Options)

type Options struct {
	Temperature float32
	MaxTokens   int
	Model       string
}

func WithTemperature(temp float32) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider is the contract for any LLM backend. A single attempt per call;
// failures surface as errors, upstream HTTP failures as *UpstreamError.
type Provider interface {
	Chat(ctx context.Context, history []Message, options ...Option) (*Result, error)
}

// UpstreamError wraps a non-2xx or otherwise failed upstream model call so
// the transport layer can map it to a 502.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream model error (status %d): %s", e.StatusCode, e.Message)
}
