package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jejomarc/askjejo/internal/api/middleware"
	"github.com/jejomarc/askjejo/internal/api/response"
	"github.com/jejomarc/askjejo/internal/domain"
	"github.com/jejomarc/askjejo/internal/service"
	"github.com/rs/zerolog/log"
)

const chatNotFoundMessage = "Chat not found or access denied."

// AskHandler handles the conversation turn endpoint
type AskHandler struct {
	askService *service.AskService
	debug      bool
}

// NewAskHandler creates a new ask handler
func NewAskHandler(askService *service.AskService, debug bool) *AskHandler {
	return &AskHandler{askService: askService, debug: debug}
}

// Ask runs one ask-and-respond exchange
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	// Whitespace-only input must fail the required check.
	input.Message = strings.TrimSpace(input.Message)
	input.Title = strings.TrimSpace(input.Title)

	if err := validate.Struct(input); err != nil {
		if errs := fieldErrors(err); errs != nil {
			response.ValidationFailed(w, errs)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.askService.Ask(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, chatNotFoundMessage)
			return
		}

		log.Error().Err(err).Int64("user_id", userID).Msg("ask failed")
		if h.debug {
			response.ErrorWithDetail(w, http.StatusUnprocessableEntity, "Unable to process your message.", err.Error())
			return
		}
		response.Unprocessable(w, "Unable to process your message.")
		return
	}

	response.Created(w, map[string]any{
		"chat_id": result.ChatID,
		"messages": map[string]any{
			"user": result.UserMessage,
			"bot":  result.BotMessage,
		},
	})
}
