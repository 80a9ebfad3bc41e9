package session

import (
	"context"
	"time"
)

// Role tags a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Key identifies one conversation transcript.
type Key struct {
	UserID    string
	ChatTitle string
}

// Message is one transcript entry. URLs carries the listing links surfaced
// alongside an assistant reply.
type Message struct {
	ID      string    `json:"id"`
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	URLs    []string  `json:"urls,omitempty"`
	At      time.Time `json:"at"`
}

// Chat is a titled transcript belonging to one user.
type Chat struct {
	Title   string    `json:"title"`
	History []Message `json:"history"`
}

// Store keeps ordered per-(user, chat title) transcripts. Appends for the
// same key never interleave within a single call; History on an unknown key
// returns an empty transcript, never an error.
type Store interface {
	// Append adds messages to the end of the key's transcript, creating it
	// on first write.
	Append(ctx context.Context, key Key, msgs ...Message) error

	// History returns the key's transcript in arrival order.
	History(ctx context.Context, key Key) ([]Message, error)

	// Chats returns all of a user's transcripts.
	Chats(ctx context.Context, userID string) ([]Chat, error)

	// Clear removes one transcript.
	Clear(ctx context.Context, key Key) error

	// ClearAll removes every transcript.
	ClearAll(ctx context.Context) error
}
