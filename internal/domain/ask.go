package domain

// AskRequest is one conversation turn submitted by a user. ChatID zero
// means "start a new chat"; Title is only honored when a chat is created.
type AskRequest struct {
	Message string `json:"message" validate:"required"`
	ChatID  int64  `json:"chat_id" validate:"omitempty,min=1"`
	Title   string `json:"title" validate:"omitempty,max=255"`
}

// AskResult carries both persisted turns of a completed exchange
type AskResult struct {
	ChatID      int64   `json:"chat_id"`
	UserMessage Message `json:"user"`
	BotMessage  Message `json:"bot"`
}
