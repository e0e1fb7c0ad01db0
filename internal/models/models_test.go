package models

import (
	"testing"
)

func TestNewAssistantMessageCopiesSources(t *testing.T) {
	sources := []string{"https://a/b", "https://c/d"}
	msg := NewAssistantMessage("answer", sources)

	sources[0] = "mutated"

	if msg.Sources[0] != "https://a/b" {
		t.Errorf("message sources changed with caller slice: %v", msg.Sources)
	}
	if msg.Role != RoleAssistant {
		t.Errorf("Role = %q, want %q", msg.Role, RoleAssistant)
	}
}

func TestNewAssistantMessageNilSources(t *testing.T) {
	msg := NewAssistantMessage("answer", nil)
	if msg.Sources != nil {
		t.Errorf("expected nil sources, got %v", msg.Sources)
	}
	if msg.HasSources() {
		t.Error("HasSources() should be false without sources")
	}
}

func TestMessageHasSources(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{"assistant with sources", Message{Role: RoleAssistant, Sources: []string{"https://x"}}, true},
		{"assistant without sources", Message{Role: RoleAssistant}, false},
		{"user never shows sources", Message{Role: RoleUser, Sources: []string{"https://x"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.HasSources(); got != tt.want {
				t.Errorf("HasSources() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTransport(t *testing.T) {
	tests := []struct {
		in     string
		want   Transport
		wantOK bool
	}{
		{"header", TransportHeader, true},
		{"body", TransportBody, true},
		{"", "", false},
		{"grpc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTransport(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseTransport(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDefaultHeaders(t *testing.T) {
	headers := DefaultHeaders()
	if headers[HeaderContentType] != ContentTypeJSON {
		t.Errorf("Content-Type = %q, want %q", headers[HeaderContentType], ContentTypeJSON)
	}
}
