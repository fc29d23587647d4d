package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jejomarc/askjejo/internal/ai"
	"github.com/jejomarc/askjejo/internal/domain"
	"github.com/rs/zerolog/log"
)

// fallbackReply is persisted as the bot turn whenever the gateway call
// fails or returns unusable content. The conversation always completes.
const fallbackReply = "Sorry, I couldn't come up with a response. Please try again in a moment."

// autoTitlePrefix is how much of the first message survives into an
// auto-generated title before the ellipsis marker.
const autoTitlePrefix = 57

// AskService executes the ask-and-respond exchange: resolve or create the
// chat, persist the user turn, call the completion gateway, persist the
// bot turn. All of it happens in one database transaction, so a failure
// at any step leaves no partial conversation state.
type AskService struct {
	store domain.TxStore
	ai    ai.Completer
}

// NewAskService creates a new ask service
func NewAskService(store domain.TxStore, completer ai.Completer) *AskService {
	return &AskService{store: store, ai: completer}
}

// Ask runs one conversation turn for the given user
func (s *AskService) Ask(ctx context.Context, userID int64, req domain.AskRequest) (*domain.AskResult, error) {
	var result domain.AskResult

	err := s.store.WithTx(ctx, func(tx domain.Store) error {
		now := time.Now().UTC()

		chat, err := s.resolveChat(ctx, tx, userID, req, now)
		if err != nil {
			return err
		}

		userMsg := &domain.Message{
			ChatID:    chat.ID,
			UserID:    &userID,
			Sender:    domain.SenderUser,
			Content:   req.Message,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Messages().Create(ctx, userMsg); err != nil {
			return fmt.Errorf("failed to save user message: %w", err)
		}

		// The gateway call is made inside the transaction so the bot turn
		// commits together with the user turn. The transaction therefore
		// stays open for the duration of the remote call.
		content := s.complete(ctx, req.Message)

		botAt := time.Now().UTC()
		botMsg := &domain.Message{
			ChatID:    chat.ID,
			Sender:    domain.SenderBot,
			Content:   content,
			CreatedAt: botAt,
			UpdatedAt: botAt,
		}
		if err := tx.Messages().Create(ctx, botMsg); err != nil {
			return fmt.Errorf("failed to save bot message: %w", err)
		}

		if err := tx.Chats().Touch(ctx, chat.ID, botAt); err != nil {
			return fmt.Errorf("failed to touch chat: %w", err)
		}

		result = domain.AskResult{
			ChatID:      chat.ID,
			UserMessage: *userMsg,
			BotMessage:  *botMsg,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// resolveChat looks up the target chat scoped to its owner, or creates a
// new one when no chat id was supplied.
func (s *AskService) resolveChat(ctx context.Context, tx domain.Store, userID int64, req domain.AskRequest, now time.Time) (*domain.Chat, error) {
	if req.ChatID != 0 {
		return tx.Chats().GetOwnedBy(ctx, req.ChatID, userID)
	}

	title := req.Title
	if title == "" {
		title = autoTitle(req.Message)
	}
	chat := &domain.Chat{
		UserID:    userID,
		Title:     &title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Chats().Create(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return chat, nil
}

// complete asks the gateway for a reply, masking any gateway error with
// the fixed fallback text. A panic inside the gateway is not masked; it
// unwinds through WithTx and rolls the transaction back.
func (s *AskService) complete(ctx context.Context, prompt string) string {
	reply, err := s.ai.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("completion gateway failed, using fallback reply")
		return fallbackReply
	}
	return reply
}

// autoTitle derives a chat title from the first message: messages longer
// than 57 runes are cut to a 60-rune title ending in "...".
func autoTitle(message string) string {
	message = strings.TrimSpace(message)
	runes := []rune(message)
	if len(runes) <= autoTitlePrefix {
		return message
	}
	return string(runes[:autoTitlePrefix]) + "..."
}
