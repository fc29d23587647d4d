package domain

import (
	"context"
	"time"
)

// Chat represents a conversation thread owned by one user
type Chat struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     *string   `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LastMessage is the newest message preview attached to a chat summary
type LastMessage struct {
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatSummary is the list-view shape of a chat: the chat row plus its
// message count and newest message preview
type ChatSummary struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"user_id"`
	Title        *string      `json:"title"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	MessageCount int64        `json:"message_count"`
	LastMessage  *LastMessage `json:"last_message"`
}

// ChatRepository defines the interface for chat storage.
// Every read and mutation that acts on behalf of a user takes the owner id
// explicitly, so ownership scoping cannot be omitted by accident.
type ChatRepository interface {
	Create(ctx context.Context, chat *Chat) error

	// GetOwnedBy returns ErrNotFound both when the chat does not exist and
	// when it belongs to a different user.
	GetOwnedBy(ctx context.Context, id, userID int64) (*Chat, error)

	// ListSummariesByOwner returns the user's chats ordered by most recent
	// activity first.
	ListSummariesByOwner(ctx context.Context, userID int64) ([]ChatSummary, error)

	Update(ctx context.Context, chat *Chat) error

	// Touch bumps the chat's updated_at timestamp.
	Touch(ctx context.Context, id int64, at time.Time) error

	Delete(ctx context.Context, id int64) error
}
