package domain

import "time"

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry in a user's conversation transcript.
// Transcripts are append-only and keyed by user, never shared.
type ChatMessage struct {
	// UserID identifies the transcript owner.
	UserID string

	// Role is RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string

	// CreatedAt is when the message was appended.
	CreatedAt time.Time
}
