package postgres

import (
	"context"
	"fmt"

	"github.com/jejomarc/askjejo/internal/domain"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	q querier
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(q querier) *MessageRepository {
	return &MessageRepository{q: q}
}

// Create inserts a new message and fills in its server-assigned id
func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (chat_id, user_id, sender, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.q.QueryRow(ctx, query,
		message.ChatID,
		message.UserID,
		string(message.Sender),
		message.Content,
		message.CreatedAt,
		message.UpdatedAt,
	).Scan(&message.ID)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

const messageColumns = `id, chat_id, user_id, sender, content, created_at, updated_at`

// ListByChat retrieves all messages for a chat in chronological order
func (r *MessageRepository) ListByChat(ctx context.Context, chatID int64) ([]domain.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.q.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// ListPage retrieves one window of a chat's messages in chronological order
func (r *MessageRepository) ListPage(ctx context.Context, chatID int64, limit, offset int) ([]domain.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.q.Query(ctx, query, chatID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// CountByChat returns the total number of messages in a chat
func (r *MessageRepository) CountByChat(ctx context.Context, chatID int64) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE chat_id = $1`, chatID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// DeleteByChat removes every message belonging to a chat
func (r *MessageRepository) DeleteByChat(ctx context.Context, chatID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM messages WHERE chat_id = $1`, chatID)
	if err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}

type messageRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanMessages(rows messageRows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var sender string
		if err := rows.Scan(
			&m.ID,
			&m.ChatID,
			&m.UserID,
			&sender,
			&m.Content,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Sender = domain.Sender(sender)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
