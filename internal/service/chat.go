package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jejomarc/askjejo/internal/domain"
)

// ChatService serves chat access: listing, reading, renaming and deleting
// chats, always scoped to the requesting owner.
type ChatService struct {
	store domain.TxStore
}

// NewChatService creates a new chat service
func NewChatService(store domain.TxStore) *ChatService {
	return &ChatService{store: store}
}

// ChatDetail is a chat together with its full ordered message history.
type ChatDetail struct {
	Chat     domain.Chat      `json:"chat"`
	Messages []domain.Message `json:"messages"`
}

// ListChats returns the user's chats, most recently active first, each
// with its last message preview and message count.
func (s *ChatService) ListChats(ctx context.Context, userID int64) ([]domain.ChatSummary, error) {
	summaries, err := s.store.Chats().ListSummariesByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return summaries, nil
}

// GetChat returns one owned chat with its complete message history in
// chronological order.
func (s *ChatService) GetChat(ctx context.Context, chatID, userID int64) (*ChatDetail, error) {
	chat, err := s.store.Chats().GetOwnedBy(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.Messages().ListByChat(ctx, chat.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	return &ChatDetail{Chat: *chat, Messages: messages}, nil
}

// PaginateHistory returns one page of an owned chat's messages. Limit and
// offset are clamped to sane bounds before querying.
func (s *ChatService) PaginateHistory(ctx context.Context, chatID, userID int64, limit, offset int) (*domain.HistoryPage, error) {
	chat, err := s.store.Chats().GetOwnedBy(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	limit, offset = domain.NormalizePage(limit, offset)

	messages, err := s.store.Messages().ListPage(ctx, chat.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load message page: %w", err)
	}

	total, err := s.store.Messages().CountByChat(ctx, chat.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	return &domain.HistoryPage{
		ChatID:   chat.ID,
		Messages: messages,
		Pagination: domain.Pagination{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}, nil
}

// UpdateTitle renames an owned chat. The title must be non-empty after
// trimming and at most 255 characters.
func (s *ChatService) UpdateTitle(ctx context.Context, chatID, userID int64, title string) (*domain.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title must not be empty")
	}
	if len([]rune(title)) > 255 {
		return nil, fmt.Errorf("title must be at most 255 characters")
	}

	var updated *domain.Chat
	err := s.store.WithTx(ctx, func(tx domain.Store) error {
		chat, err := tx.Chats().GetOwnedBy(ctx, chatID, userID)
		if err != nil {
			return err
		}
		chat.Title = &title
		chat.UpdatedAt = time.Now().UTC()
		if err := tx.Chats().Update(ctx, chat); err != nil {
			return fmt.Errorf("failed to update chat: %w", err)
		}
		updated = chat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteChat removes an owned chat and all of its messages in one
// transaction.
func (s *ChatService) DeleteChat(ctx context.Context, chatID, userID int64) error {
	return s.store.WithTx(ctx, func(tx domain.Store) error {
		chat, err := tx.Chats().GetOwnedBy(ctx, chatID, userID)
		if err != nil {
			return err
		}
		if err := tx.Messages().DeleteByChat(ctx, chat.ID); err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		if err := tx.Chats().Delete(ctx, chat.ID); err != nil {
			return fmt.Errorf("failed to delete chat: %w", err)
		}
		return nil
	})
}
