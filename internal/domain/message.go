package domain

import (
	"context"
	"time"
)

// Sender identifies who authored a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

const (
	// DefaultPageLimit is the page size used when the caller does not ask
	// for one.
	DefaultPageLimit = 50
	// MaxPageLimit is the hard upper bound on page size.
	MaxPageLimit = 100
)

// Message represents one turn in a chat. UserID is nil for bot messages.
type Message struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	UserID    *int64    `json:"user_id,omitempty"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pagination describes the window applied to a message page
type Pagination struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// HistoryPage is one page of a chat's message history
type HistoryPage struct {
	ChatID     int64      `json:"chat_id"`
	Messages   []Message  `json:"messages"`
	Pagination Pagination `json:"pagination"`
}

// NormalizePage clamps limit to [1, MaxPageLimit], defaulting to
// DefaultPageLimit when unset, and clamps offset to >= 0.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// MessageRepository defines the interface for message storage
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error

	// ListByChat returns every message of a chat ordered by creation
	// ascending, ties broken by id.
	ListByChat(ctx context.Context, chatID int64) ([]Message, error)

	// ListPage returns one window of a chat's messages in the same order.
	ListPage(ctx context.Context, chatID int64, limit, offset int) ([]Message, error)

	CountByChat(ctx context.Context, chatID int64) (int64, error)

	DeleteByChat(ctx context.Context, chatID int64) error
}
