// Package session persists chat sessions between an author and the
// assistant. The conversation context provider reads session history from
// here; the surrounding chat layer writes to it.
package session

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn within a session.
type Message struct {
	Role             string    `json:"role"`
	Content          string    `json:"content"`
	Mode             string    `json:"mode,omitempty"` // generation mode in effect
	ContentGenerated bool      `json:"contentGenerated,omitempty"`
	GeneratedTitle   string    `json:"generatedTitle,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Session is a chat session with its metadata and messages.
type Session struct {
	ID           string    `json:"id"`
	UserID       int       `json:"userId"`
	Title        string    `json:"title,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	MessageCount int       `json:"messageCount"`
	Active       bool      `json:"active"`
	Messages     []Message `json:"messages"`
}

// Store is the conversation history collaborator.
type Store interface {
	// Active returns the user's active session, or nil when none exists.
	Active(userID int) (*Session, error)

	// Create starts a new active session for the user, closing any
	// previously active one.
	Create(userID int) (*Session, error)

	// Append adds a message to the session.
	Append(sessionID string, msg Message) error

	// Messages returns the session's messages in order.
	Messages(sessionID string) ([]Message, error)

	// List returns the user's sessions, most recently updated first.
	List(userID int, limit int) ([]*Session, error)

	// Close marks the session inactive.
	Close(sessionID string) error
}
