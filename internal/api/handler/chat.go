package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jejomarc/askjejo/internal/api/middleware"
	"github.com/jejomarc/askjejo/internal/api/response"
	"github.com/jejomarc/askjejo/internal/domain"
	"github.com/jejomarc/askjejo/internal/service"
	"github.com/rs/zerolog/log"
)

// ChatHandler handles chat listing, reading, renaming and deletion
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// History returns all of the user's chats, newest activity first
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	summaries, err := h.chatService.ListChats(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list chats")
		response.InternalError(w, "Failed to load chat history.")
		return
	}

	response.OK(w, map[string]any{"data": summaries})
}

// Messages returns one chat with its full message history
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input struct {
		ID int64 `json:"id" validate:"required,min=1"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		if errs := fieldErrors(err); errs != nil {
			response.ValidationFailed(w, errs)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	detail, err := h.chatService.GetChat(r.Context(), input.ID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, chatNotFoundMessage)
			return
		}
		log.Error().Err(err).Int64("chat_id", input.ID).Msg("failed to load chat")
		response.InternalError(w, "Failed to load chat.")
		return
	}

	response.OK(w, map[string]any{
		"chat":     detail.Chat,
		"messages": detail.Messages,
	})
}

// Paginated returns one window of a chat's message history
func (h *ChatHandler) Paginated(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input struct {
		ID     int64 `json:"id" validate:"required,min=1"`
		Limit  int   `json:"limit"`
		Offset int   `json:"offset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		if errs := fieldErrors(err); errs != nil {
			response.ValidationFailed(w, errs)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	page, err := h.chatService.PaginateHistory(r.Context(), input.ID, userID, input.Limit, input.Offset)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, chatNotFoundMessage)
			return
		}
		log.Error().Err(err).Int64("chat_id", input.ID).Msg("failed to paginate messages")
		response.InternalError(w, "Failed to load messages.")
		return
	}

	response.OK(w, map[string]any{
		"messages":   page.Messages,
		"pagination": page.Pagination,
	})
}

// Update renames a chat
func (h *ChatHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	chatID, err := chatIDParam(r)
	if err != nil {
		response.BadRequest(w, "invalid chat id")
		return
	}

	var input struct {
		Title string `json:"title" validate:"required,max=255"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		if errs := fieldErrors(err); errs != nil {
			response.ValidationFailed(w, errs)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	chat, err := h.chatService.UpdateTitle(r.Context(), chatID, userID, input.Title)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, chatNotFoundMessage)
			return
		}
		response.Unprocessable(w, "Unable to update chat.")
		return
	}

	response.OK(w, map[string]any{"chat": chat})
}

// Destroy deletes a chat and its messages
func (h *ChatHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	chatID, err := chatIDParam(r)
	if err != nil {
		response.BadRequest(w, "invalid chat id")
		return
	}

	if err := h.chatService.DeleteChat(r.Context(), chatID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, chatNotFoundMessage)
			return
		}
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to delete chat")
		response.InternalError(w, "Failed to delete chat.")
		return
	}

	response.OK(w, map[string]any{"message": "Chat deleted."})
}

func chatIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
