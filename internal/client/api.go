package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jejomarc/askjejo/internal/domain"
)

// APIError is a non-success response from the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// API is the HTTP client for the conversation service
type API struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewAPI creates a client against baseURL (e.g. http://localhost:8080)
func NewAPI(baseURL string) *API {
	return &API{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 150 * time.Second},
	}
}

// SetToken sets the bearer token used for authenticated calls. An empty
// token clears it.
func (a *API) SetToken(token string) {
	a.token = token
}

func (a *API) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Message == "" {
			envelope.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: envelope.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Signup registers a new account
func (a *API) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	err := a.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login exchanges credentials for the account and a bearer token. The
// token is installed on the client for subsequent calls.
func (a *API) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	var out struct {
		User  domain.User `json:"user"`
		Token string      `json:"token"`
	}
	err := a.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, "", err
	}
	a.token = out.Token
	return &out.User, out.Token, nil
}

// Logout tells the server the session ended and drops the local token.
// The token is dropped even when the remote call fails.
func (a *API) Logout(ctx context.Context) error {
	err := a.do(ctx, http.MethodPost, "/api/logout", nil, nil)
	a.token = ""
	return err
}

// UpdateProfile edits the account's name and email, and optionally its
// password when both password fields are set
func (a *API) UpdateProfile(ctx context.Context, req domain.UserUpdate) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := a.do(ctx, http.MethodPut, "/api/profile/update", req, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Authorized checks the stored token and returns the account it belongs to
func (a *API) Authorized(ctx context.Context) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/authorized", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Ask submits one conversation turn
func (a *API) Ask(ctx context.Context, req domain.AskRequest) (*domain.AskResult, error) {
	var out struct {
		ChatID   int64 `json:"chat_id"`
		Messages struct {
			User domain.Message `json:"user"`
			Bot  domain.Message `json:"bot"`
		} `json:"messages"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/ask", req, &out); err != nil {
		return nil, err
	}
	return &domain.AskResult{
		ChatID:      out.ChatID,
		UserMessage: out.Messages.User,
		BotMessage:  out.Messages.Bot,
	}, nil
}

// History fetches all chat summaries
func (a *API) History(ctx context.Context) ([]domain.ChatSummary, error) {
	var out struct {
		Data []domain.ChatSummary `json:"data"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/chat/history", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Messages fetches one chat with its full history
func (a *API) Messages(ctx context.Context, chatID int64) (*domain.Chat, []domain.Message, error) {
	var out struct {
		Chat     domain.Chat      `json:"chat"`
		Messages []domain.Message `json:"messages"`
	}
	err := a.do(ctx, http.MethodPost, "/api/chat/messages/all", map[string]int64{"id": chatID}, &out)
	if err != nil {
		return nil, nil, err
	}
	return &out.Chat, out.Messages, nil
}

// Paginated fetches one window of a chat's history
func (a *API) Paginated(ctx context.Context, chatID int64, limit, offset int) (*domain.HistoryPage, error) {
	var out struct {
		Messages   []domain.Message  `json:"messages"`
		Pagination domain.Pagination `json:"pagination"`
	}
	err := a.do(ctx, http.MethodPost, "/api/chat/messages/paginated", map[string]any{
		"id": chatID, "limit": limit, "offset": offset,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &domain.HistoryPage{
		ChatID:     chatID,
		Messages:   out.Messages,
		Pagination: out.Pagination,
	}, nil
}

// UpdateTitle renames a chat
func (a *API) UpdateTitle(ctx context.Context, chatID int64, title string) (*domain.Chat, error) {
	var out struct {
		Chat domain.Chat `json:"chat"`
	}
	err := a.do(ctx, http.MethodPost, fmt.Sprintf("/api/chat/update/%d", chatID), map[string]string{
		"title": title,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Chat, nil
}

// DeleteChat removes a chat and its messages
func (a *API) DeleteChat(ctx context.Context, chatID int64) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/api/chat/delete/%d", chatID), nil, nil)
}
