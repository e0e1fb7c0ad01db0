package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/diogo/sierrachat/internal/models"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "/api/ping", "bad")

	expected := "API error [400] at /api/ping: bad"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "/api/ping", "bad")
	if noStatus.Error() != "API error at /api/ping: bad" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestNetworkErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("send chat message", "/api/ping", cause)

	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}

	expected := "network error during send chat message at /api/ping: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
}

func TestTimeoutErrorMatchesDeadline(t *testing.T) {
	err := NewTimeoutError("")
	if err.Error() != "request timed out" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("TimeoutError should match context.DeadlineExceeded")
	}
}

func TestParseErrorIsInvalidResponse(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewParseError("missing field", "answer"))
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("ParseError should match ErrInvalidResponse")
	}
	if !IsParseError(err) {
		t.Error("IsParseError should see through wrapping")
	}
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"canceled", context.Canceled, func(e error) bool { return errors.Is(e, ErrCancelled) }},
		{"deadline", fmt.Errorf("do: %w", context.DeadlineExceeded), IsTimeoutError},
		{"other", errors.New("boom"), func(e error) bool { return e == nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromContext(tt.err); !tt.check(got) {
				t.Errorf("FromContext(%v) = %v", tt.err, got)
			}
		})
	}
}

func TestGetters(t *testing.T) {
	apiErr := fmt.Errorf("send: %w", NewAPIErrorWithBody(502, "/api/ping", "bad gateway", "<html>"))

	if got := GetHTTPStatus(apiErr); got != 502 {
		t.Errorf("GetHTTPStatus() = %d, want 502", got)
	}
	if got := GetEndpoint(apiErr); got != "/api/ping" {
		t.Errorf("GetEndpoint() = %q", got)
	}
	if got := GetResponseBody(apiErr); got != "<html>" {
		t.Errorf("GetResponseBody() = %q", got)
	}

	netErr := NewNetworkError("check health", "/api/health", errors.New("eof"))
	if got := GetEndpoint(netErr); got != "/api/health" {
		t.Errorf("GetEndpoint(network) = %q", got)
	}
	if GetHTTPStatus(netErr) != 0 {
		t.Error("network errors carry no HTTP status")
	}
	if !IsNetworkError(netErr) || IsAPIError(netErr) {
		t.Error("classification of NetworkError is wrong")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"server message", NewAPIError(500, "/api/ping", "bad"), "bad"},
		{"empty server message", NewAPIError(500, "/api/ping", ""), models.FallbackErrorMessage},
		{"cancelled", context.Canceled, "request cancelled"},
		{"sentinel cancelled", ErrCancelled, "request cancelled"},
		{"timeout", NewTimeoutError(""), "request timed out"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
