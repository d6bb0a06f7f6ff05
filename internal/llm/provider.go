package llm

import "context"

// ChatRequest is one prompt for one model. JSONMode callers get a
// system message pinning the model to JSON output.
type ChatRequest struct {
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	JSONMode     bool
}

// ChatProvider is a single-model text completion capability. Complete
// returns the raw content string; any transport error, non-success
// status or empty content body surfaces as an error, never as an empty
// success.
type ChatProvider interface {
	Name() string
	Complete(ctx context.Context, req ChatRequest) (string, error)
}
