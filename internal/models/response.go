package models

import "fmt"

// Usage reports token counts returned by the backend, when available
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// String formats usage for verbose output
func (u Usage) String() string {
	return fmt.Sprintf("%d in, %d out", u.InputTokens, u.OutputTokens)
}

// ChatResponse is the parsed success body of the chat endpoint
type ChatResponse struct {
	Answer  string
	Sources []string
	Usage   *Usage // nil when the backend did not report usage
	Raw     string // Raw response body, kept for debug logging
}

// HealthStatus is the parsed body of the health endpoint.
// The body is arbitrary JSON; Status and Message are read when present.
type HealthStatus struct {
	Status     string
	Message    string
	StatusCode int
	Raw        string
}

// Ready reports whether the backend declared itself ready.
// A 2xx body without a status field counts as ready.
func (h HealthStatus) Ready() bool {
	if h.StatusCode < 200 || h.StatusCode > 299 {
		return false
	}
	switch h.Status {
	case "", "ready", "ok", "success", "healthy":
		return true
	default:
		return false
	}
}
