package llm

import (
	"net/http"
	"time"
)

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model specifies the model to use. If empty, the client's default model is used.
	Model string

	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, no limit is applied.
	MaxTokens int

	// Temperature controls the randomness of the output.
	// Extraction runs at 0 so repeated runs over the same document agree.
	Temperature float32
}

// newHTTPClient returns an HTTP client bounded by timeout.
// A zero timeout leaves the client unbounded; callers still cancel through ctx.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
