// Package api provides the HTTP client for the sierrachat backend.
package api

// GJSON paths for extracting values from backend responses
const (
	// Chat success body: {"answer": "...", "sources": ["https://..."], "usage": {...}}
	PathAnswer       = "answer"
	PathSources      = "sources"
	PathUsage        = "usage"
	PathInputTokens  = "input_tokens"
	PathOutputTokens = "output_tokens"

	// Failure body: {"error": "..."}
	PathError = "error"

	// Health body: {"status": "ready", "message": "..."}
	PathHealthStatus  = "status"
	PathHealthMessage = "message"

	// PathPretty pretty-prints the whole document (gjson modifier)
	PathPretty = "@pretty"
)

// Response body limits
const (
	maxResponseBytes = 4 << 20
	maxErrorBody     = 4096
	maxLoggedBody    = 2048
)
