package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jejomarc/askjejo/internal/domain"
)

// ChatRepository implements domain.ChatRepository
type ChatRepository struct {
	q querier
}

// NewChatRepository creates a new chat repository
func NewChatRepository(q querier) *ChatRepository {
	return &ChatRepository{q: q}
}

// Create inserts a new chat and fills in its server-assigned id
func (r *ChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	query := `
		INSERT INTO chats (user_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.q.QueryRow(ctx, query,
		chat.UserID,
		chat.Title,
		chat.CreatedAt,
		chat.UpdatedAt,
	).Scan(&chat.ID)
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	return nil
}

// GetOwnedBy looks up a chat scoped to its owner. A chat that exists but
// belongs to someone else is reported as domain.ErrNotFound.
func (r *ChatRepository) GetOwnedBy(ctx context.Context, id, userID int64) (*domain.Chat, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM chats
		WHERE id = $1 AND user_id = $2
	`
	var c domain.Chat
	err := r.q.QueryRow(ctx, query, id, userID).Scan(
		&c.ID,
		&c.UserID,
		&c.Title,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &c, nil
}

// ListSummariesByOwner returns the user's chats, most recent activity
// first, each with its message count and newest message preview.
func (r *ChatRepository) ListSummariesByOwner(ctx context.Context, userID int64) ([]domain.ChatSummary, error) {
	query := `
		SELECT c.id, c.user_id, c.title, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM messages m WHERE m.chat_id = c.id),
		       lm.content, lm.sender, lm.created_at
		FROM chats c
		LEFT JOIN LATERAL (
			SELECT content, sender, created_at
			FROM messages
			WHERE chat_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON true
		WHERE c.user_id = $1
		ORDER BY c.updated_at DESC, c.id DESC
	`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	var summaries []domain.ChatSummary
	for rows.Next() {
		var s domain.ChatSummary
		var lmContent, lmSender *string
		var lmCreatedAt *time.Time
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Title,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.MessageCount,
			&lmContent,
			&lmSender,
			&lmCreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat summary: %w", err)
		}
		if lmContent != nil && lmSender != nil && lmCreatedAt != nil {
			s.LastMessage = &domain.LastMessage{
				Content:   *lmContent,
				Sender:    domain.Sender(*lmSender),
				CreatedAt: *lmCreatedAt,
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Update persists the chat's title and updated_at
func (r *ChatRepository) Update(ctx context.Context, chat *domain.Chat) error {
	query := `
		UPDATE chats
		SET title = $1, updated_at = $2
		WHERE id = $3
	`
	_, err := r.q.Exec(ctx, query, chat.Title, chat.UpdatedAt, chat.ID)
	if err != nil {
		return fmt.Errorf("failed to update chat: %w", err)
	}
	return nil
}

// Touch bumps the chat's updated_at timestamp
func (r *ChatRepository) Touch(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE chats SET updated_at = $1 WHERE id = $2`
	_, err := r.q.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to touch chat: %w", err)
	}
	return nil
}

// Delete removes the chat row. Child messages are removed by the caller
// (service layer) inside the same transaction.
func (r *ChatRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM chats WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	return nil
}
