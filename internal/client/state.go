package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/jejomarc/askjejo/internal/domain"
)

// ChatRef identifies the chat a timeline belongs to. Open is false when no
// chat view is active at all; ID zero means an active but not-yet-created
// chat (the first ask will create it server-side).
type ChatRef struct {
	Open bool
	ID   int64
}

// Bound reports whether the active chat exists on the server
func (r ChatRef) Bound() bool {
	return r.Open && r.ID != 0
}

// TimelineMessage is one timeline entry. LocalID is a client-generated
// token that never collides with server ids; ServerID is zero until the
// server confirms the message.
type TimelineMessage struct {
	LocalID   uuid.UUID
	ServerID  int64
	Sender    domain.Sender
	Content   string
	Pending   bool
	Failed    bool
	CreatedAt time.Time
}

// State is the full client view of the conversation system. It is a plain
// value: every transition goes through Reduce, which returns a new State
// and never mutates the old one.
type State struct {
	Chats    []domain.ChatSummary
	Active   ChatRef
	Timeline []TimelineMessage
	// InFlight tracks chats with an outstanding ask, keyed by chat id.
	// Key zero stands for the unbound new-chat view.
	InFlight map[int64]bool
}

// NewState returns an empty client state
func NewState() State {
	return State{InFlight: map[int64]bool{}}
}

// CanSubmit reports whether the active chat may send another ask. A chat
// with an outstanding request refuses a second submission.
func (s State) CanSubmit() bool {
	if !s.Active.Open {
		return false
	}
	return !s.InFlight[s.Active.ID]
}

func (s State) cloneTimeline() []TimelineMessage {
	out := make([]TimelineMessage, len(s.Timeline))
	copy(out, s.Timeline)
	return out
}

func (s State) cloneChats() []domain.ChatSummary {
	out := make([]domain.ChatSummary, len(s.Chats))
	copy(out, s.Chats)
	return out
}

func (s State) cloneInFlight() map[int64]bool {
	out := make(map[int64]bool, len(s.InFlight))
	for k, v := range s.InFlight {
		out[k] = v
	}
	return out
}
