// Package completion talks to OpenAI-compatible chat completion endpoints.
package completion

import (
	"context"

	"github.com/jmcdice/irssai/pkg/transcript"
)

// Client generates a reply for a full conversation.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Sampling holds the fixed sampling parameters sent with every request.
type Sampling struct {
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// DefaultSampling is a friendly, moderately creative setting.
var DefaultSampling = Sampling{
	Temperature:      0.7,
	TopP:             1,
	FrequencyPenalty: 0,
	PresencePenalty:  0,
}

// Request is a single completion call.
type Request struct {
	Model    string
	Messages []transcript.Message
	Sampling Sampling
}

// Response is the first choice of a completion.
type Response struct {
	Content      string
	FinishReason string
	Usage        Usage
}

// Usage contains token usage reported by the endpoint.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (*Response, error)

func (f ClientFunc) Complete(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
