package models

// Role identifies who authored a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single entry in the conversation.
// Messages are immutable once appended to a conversation.
type Message struct {
	Role    Role
	Content string
	Sources []string // Only set on assistant messages
}

// IsUser reports whether the message was written by the user
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// HasSources reports whether the message carries source links to render
func (m Message) HasSources() bool {
	return m.Role == RoleAssistant && len(m.Sources) > 0
}

// NewUserMessage creates a user message
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message with optional sources.
// The sources slice is copied so later changes by the caller do not leak in.
func NewAssistantMessage(content string, sources []string) Message {
	var copied []string
	if len(sources) > 0 {
		copied = make([]string, len(sources))
		copy(copied, sources)
	}
	return Message{Role: RoleAssistant, Content: content, Sources: copied}
}
