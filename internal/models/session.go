package models

import "time"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one stored turn of a conversation. The store keeps messages
// as-is and never interprets them.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Valid reports whether the message has a known role and some content.
func (m ChatMessage) Valid() bool {
	return (m.Role == ChatRoleUser || m.Role == ChatRoleAssistant) && m.Content != ""
}

type ChatHistory struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
}

type Favorites struct {
	UserID      string   `json:"user_id"`
	PropertyIDs []string `json:"property_ids"`
}
