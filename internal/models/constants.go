// Package models contains data types and constants for the sierrachat client.
package models

// Default backend endpoints, relative to the configured base URL
const (
	DefaultBaseURL    = "http://localhost:3000"
	EndpointChat      = "/api/ping"
	EndpointHealth    = "/api/health"
	HeaderMessage     = "Message"
	HeaderRequestID   = "X-Request-ID"
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Transport selects how the user's text travels to the chat endpoint
type Transport string

const (
	// TransportHeader sends a GET with the text in the Message header
	TransportHeader Transport = "header"
	// TransportBody sends a POST with a JSON body {"message": text}
	TransportBody Transport = "body"
)

// ParseTransport converts a config value to a Transport
func ParseTransport(s string) (Transport, bool) {
	switch Transport(s) {
	case TransportHeader:
		return TransportHeader, true
	case TransportBody:
		return TransportBody, true
	default:
		return "", false
	}
}

// User-facing fallback texts
const (
	// FallbackErrorMessage is used when a failed response is JSON without an error field
	FallbackErrorMessage = "Failed to send message"
	// UnparsableErrorMessage is used when a failed response body is not JSON
	UnparsableErrorMessage = "Unknown error"
	// ErrorReplyPrefix prefixes the assistant message synthesized from a failure
	ErrorReplyPrefix = "Sorry, I encountered an error: "
	// FallbackSourceLabel labels a source whose URL has no path
	FallbackSourceLabel = "Link"
)

// DefaultHeaders returns headers sent with every request
func DefaultHeaders() map[string]string {
	return map[string]string{
		HeaderContentType: ContentTypeJSON,
		"Accept":          ContentTypeJSON,
		"User-Agent":      "sierrachat",
	}
}

// DefaultSuggestions are the questions offered on the welcome screen
func DefaultSuggestions() []string {
	return []string{
		"What is Sierra AI?",
		"Who founded Sierra?",
		"What does Sierra's product do?",
		"Tell me about Sierra's mission",
	}
}
