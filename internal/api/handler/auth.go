package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jejomarc/askjejo/internal/api/middleware"
	"github.com/jejomarc/askjejo/internal/api/response"
	"github.com/jejomarc/askjejo/internal/domain"
	"github.com/jejomarc/askjejo/internal/service"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles signup, login and session probes
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup handles user registration
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input domain.UserCreate
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

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.ValidationFailed(w, map[string]string{"Email": "email already taken"})
			return
		}
		log.Error().Err(err).Msg("signup failed")
		response.InternalError(w, "Failed to create account.")
		return
	}

	response.Created(w, map[string]any{"user": user})
}

// Login verifies credentials and returns the user with a bearer token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.UserLogin
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

	user, token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid email or password.")
			return
		}
		log.Error().Err(err).Msg("login failed")
		response.InternalError(w, "Failed to log in.")
		return
	}

	response.OK(w, map[string]any{
		"user":  user,
		"token": token,
	})
}

// UpdateProfile edits the authenticated account's name and email, and
// changes the password when the current one checks out
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.UserUpdate
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

	user, err := h.authService.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.ValidationFailed(w, map[string]string{"Email": "email already taken"})
		case errors.Is(err, service.ErrInvalidCredentials):
			response.ValidationFailed(w, map[string]string{"CurrentPassword": "current password is incorrect"})
		case errors.Is(err, domain.ErrNotFound):
			response.Unauthorized(w, "user not found")
		default:
			log.Error().Err(err).Int64("user_id", userID).Msg("profile update failed")
			response.InternalError(w, "Failed to update profile.")
		}
		return
	}

	response.OK(w, map[string]any{
		"message": "Profile updated.",
		"user":    user,
	})
}

// Logout acknowledges a logout. Tokens are stateless, so the server has
// nothing to revoke; clients drop their stored credentials.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{"message": "Logged out."})
}

// Authorized reports whether the caller's token is valid and returns the
// account it belongs to
func (h *AuthHandler) Authorized(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.Unauthorized(w, "user not found")
			return
		}
		response.InternalError(w, "Failed to load account.")
		return
	}

	response.OK(w, map[string]any{"user": user})
}
