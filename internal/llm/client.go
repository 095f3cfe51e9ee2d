// Package llm provides the language-model completion client used by the
// response synthesizer and the reasoning-loop agent.
package llm

import (
	"context"
	"time"
)

// Message is one turn of a chat transcript.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// CompletionRequest asks for one chat completion.
type CompletionRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// TokenUsage reports token accounting for a completion call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionResponse is the completion text plus usage metadata.
type CompletionResponse struct {
	Content string
	Usage   TokenUsage
}

// Client is the synchronous completion contract. Implementations must honor
// ctx cancellation and bound each call with their own timeout.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Config holds client settings for the OpenAI-compatible API.
type Config struct {
	APIKey  string
	BaseURL string        // defaults to https://api.openai.com/v1
	Model   string        // defaults to gpt-4o
	Timeout time.Duration // per-call bound, defaults to 120s
}
