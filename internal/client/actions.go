package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/jejomarc/askjejo/internal/domain"
)

// Action is one state transition input. The concrete types below are the
// only transitions the client state machine knows.
type Action interface {
	isAction()
}

// ChatListLoaded replaces the chat list with server data
type ChatListLoaded struct {
	Chats []domain.ChatSummary
}

// NewChatStarted opens an empty, not-yet-created chat view
type NewChatStarted struct{}

// ChatOpened replaces the timeline with server-confirmed history for one
// chat. Any pending state of the chat being left is discarded.
type ChatOpened struct {
	Chat     domain.Chat
	Messages []domain.Message
}

// MessageSubmitted optimistically appends a pending user message. The
// caller issues the network request after dispatching this.
type MessageSubmitted struct {
	LocalID uuid.UUID
	Content string
	At      time.Time
}

// AskSucceeded confirms a submitted message with the server result
type AskSucceeded struct {
	LocalID uuid.UUID
	Result  domain.AskResult
}

// AskFailed marks a submitted message as failed. The pending user message
// stays visible so the user can see what was not answered.
type AskFailed struct {
	LocalID uuid.UUID
	ChatID  int64
}

// ChatDeleted removes a chat from the list
type ChatDeleted struct {
	ChatID int64
}

// TitleUpdated applies a server-confirmed rename
type TitleUpdated struct {
	Chat domain.Chat
}

func (ChatListLoaded) isAction()   {}
func (NewChatStarted) isAction()   {}
func (ChatOpened) isAction()       {}
func (MessageSubmitted) isAction() {}
func (AskSucceeded) isAction()     {}
func (AskFailed) isAction()        {}
func (ChatDeleted) isAction()      {}
func (TitleUpdated) isAction()     {}

// Reduce applies one action and returns the next state. It is pure: the
// input state is never mutated, and unknown actions are a no-op.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case ChatListLoaded:
		next := s
		next.Chats = make([]domain.ChatSummary, len(a.Chats))
		copy(next.Chats, a.Chats)
		return next

	case NewChatStarted:
		next := s
		next.Active = ChatRef{Open: true}
		next.Timeline = nil
		// Pending state of the chat being left goes with its timeline.
		next.InFlight = s.cloneInFlight()
		delete(next.InFlight, s.Active.ID)
		return next

	case ChatOpened:
		next := s
		next.Active = ChatRef{Open: true, ID: a.Chat.ID}
		next.Timeline = confirmedTimeline(a.Messages)
		// Pending state of the chat we were on is discarded with its
		// timeline; its in-flight marker goes too.
		next.InFlight = s.cloneInFlight()
		delete(next.InFlight, s.Active.ID)
		return next

	case MessageSubmitted:
		if !s.CanSubmit() {
			return s
		}
		next := s
		next.Timeline = append(s.cloneTimeline(), TimelineMessage{
			LocalID:   a.LocalID,
			Sender:    domain.SenderUser,
			Content:   a.Content,
			Pending:   true,
			CreatedAt: a.At,
		})
		next.InFlight = s.cloneInFlight()
		next.InFlight[s.Active.ID] = true
		return next

	case AskSucceeded:
		idx := -1
		for i := range s.Timeline {
			if s.Timeline[i].LocalID == a.LocalID {
				idx = i
				break
			}
		}
		if idx < 0 {
			// The submission's chat was left before the reply landed, so
			// the timeline on screen belongs to another chat. Settle the
			// chat list and the originating chat's in-flight marker and
			// leave the rest alone.
			next := s
			next.InFlight = s.cloneInFlight()
			delete(next.InFlight, a.Result.ChatID)
			next.Chats = upsertSummary(s.cloneChats(), a.Result)
			return next
		}

		next := s
		next.Timeline = s.cloneTimeline()
		next.Timeline[idx].ServerID = a.Result.UserMessage.ID
		next.Timeline[idx].Pending = false
		next.Timeline = append(next.Timeline, TimelineMessage{
			LocalID:   uuid.New(),
			ServerID:  a.Result.BotMessage.ID,
			Sender:    domain.SenderBot,
			Content:   a.Result.BotMessage.Content,
			CreatedAt: a.Result.BotMessage.CreatedAt,
		})

		next.InFlight = s.cloneInFlight()
		delete(next.InFlight, s.Active.ID)

		if s.Active.Open && !s.Active.Bound() {
			// The exchange created the chat; bind it and put a settled
			// summary at the front of the list.
			next.Active = ChatRef{Open: true, ID: a.Result.ChatID}
			next.Chats = append([]domain.ChatSummary{summaryFromResult(a.Result)}, s.cloneChats()...)
		} else {
			next.Chats = refreshSummary(s.cloneChats(), a.Result)
		}
		return next

	case AskFailed:
		next := s
		next.Timeline = s.cloneTimeline()
		for i := range next.Timeline {
			if next.Timeline[i].LocalID == a.LocalID {
				next.Timeline[i].Pending = false
				next.Timeline[i].Failed = true
				break
			}
		}
		next.InFlight = s.cloneInFlight()
		delete(next.InFlight, a.ChatID)
		return next

	case ChatDeleted:
		next := s
		next.Chats = nil
		for _, c := range s.Chats {
			if c.ID != a.ChatID {
				next.Chats = append(next.Chats, c)
			}
		}
		if s.Active.Open && s.Active.ID == a.ChatID {
			next.Active = ChatRef{}
			next.Timeline = nil
		}
		next.InFlight = s.cloneInFlight()
		delete(next.InFlight, a.ChatID)
		return next

	case TitleUpdated:
		next := s
		next.Chats = s.cloneChats()
		for i := range next.Chats {
			if next.Chats[i].ID == a.Chat.ID {
				next.Chats[i].Title = a.Chat.Title
				next.Chats[i].UpdatedAt = a.Chat.UpdatedAt
				break
			}
		}
		return next
	}

	return s
}

func confirmedTimeline(messages []domain.Message) []TimelineMessage {
	timeline := make([]TimelineMessage, 0, len(messages))
	for _, m := range messages {
		timeline = append(timeline, TimelineMessage{
			LocalID:   uuid.New(),
			ServerID:  m.ID,
			Sender:    m.Sender,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return timeline
}

func summaryFromResult(result domain.AskResult) domain.ChatSummary {
	title := autoSummaryTitle(result.UserMessage.Content)
	return domain.ChatSummary{
		ID:           result.ChatID,
		UserID:       derefUserID(result.UserMessage.UserID),
		Title:        &title,
		CreatedAt:    result.UserMessage.CreatedAt,
		UpdatedAt:    result.BotMessage.CreatedAt,
		MessageCount: 2,
		LastMessage: &domain.LastMessage{
			Content:   result.BotMessage.Content,
			Sender:    domain.SenderBot,
			CreatedAt: result.BotMessage.CreatedAt,
		},
	}
}

// upsertSummary settles an exchange into the chat list whether or not the
// chat is already known locally
func upsertSummary(chats []domain.ChatSummary, result domain.AskResult) []domain.ChatSummary {
	for i := range chats {
		if chats[i].ID == result.ChatID {
			return refreshSummary(chats, result)
		}
	}
	return append([]domain.ChatSummary{summaryFromResult(result)}, chats...)
}

func refreshSummary(chats []domain.ChatSummary, result domain.AskResult) []domain.ChatSummary {
	for i := range chats {
		if chats[i].ID != result.ChatID {
			continue
		}
		updated := chats[i]
		updated.MessageCount += 2
		updated.UpdatedAt = result.BotMessage.CreatedAt
		updated.LastMessage = &domain.LastMessage{
			Content:   result.BotMessage.Content,
			Sender:    domain.SenderBot,
			CreatedAt: result.BotMessage.CreatedAt,
		}
		// Most recent activity moves to the front.
		out := append([]domain.ChatSummary{updated}, chats[:i]...)
		return append(out, chats[i+1:]...)
	}
	return chats
}

// autoSummaryTitle mirrors the server's auto title so a brand-new chat
// shows a sensible name before the list is refetched.
func autoSummaryTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= 57 {
		return message
	}
	return string(runes[:57]) + "..."
}

func derefUserID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
