package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jejomarc/askjejo/internal/api/handler"
	"github.com/jejomarc/askjejo/internal/security"
	"github.com/jejomarc/askjejo/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthHandler(store *memStore) *handler.AuthHandler {
	jwtManager := security.NewJWTManager("test-secret", time.Hour)
	return handler.NewAuthHandler(service.NewAuthService(store, jwtManager))
}

func TestAuthHandler_SignupThenLogin(t *testing.T) {
	store := newMemStore()
	h := newAuthHandler(store)

	rec := httptest.NewRecorder()
	h.Signup(rec, makeJSONRequest(http.MethodPost, "/api/auth/signup", map[string]any{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "hunter2secret",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "jane@example.com", user["email"])
	assert.NotContains(t, user, "password")

	rec = httptest.NewRecorder()
	h.Login(rec, makeJSONRequest(http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "jane@example.com",
		"password": "hunter2secret",
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "jane@example.com", body["user"].(map[string]any)["email"])
}

func TestAuthHandler_SignupDuplicateEmail(t *testing.T) {
	store := newMemStore()
	h := newAuthHandler(store)

	signup := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.Signup(rec, makeJSONRequest(http.MethodPost, "/api/auth/signup", map[string]any{
			"name":     "Jane",
			"email":    "jane@example.com",
			"password": "hunter2secret",
		}))
		return rec
	}

	require.Equal(t, http.StatusCreated, signup().Code)

	rec := signup()
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["errors"].(map[string]any), "Email")
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	store := newMemStore()
	h := newAuthHandler(store)

	rec := httptest.NewRecorder()
	h.Signup(rec, makeJSONRequest(http.MethodPost, "/api/auth/signup", map[string]any{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "hunter2secret",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Login(rec, makeJSONRequest(http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "jane@example.com",
		"password": "wrong-password",
	}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	store := newMemStore()
	h := newAuthHandler(store)

	rec := httptest.NewRecorder()
	h.Signup(rec, makeJSONRequest(http.MethodPost, "/api/auth/signup", map[string]any{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "hunter2secret",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.UpdateProfile(rec, asUser(makeJSONRequest(http.MethodPut, "/api/profile/update", map[string]any{
		"name":             "Jane Doe",
		"email":            "jane.doe@example.com",
		"current_password": "hunter2secret",
		"new_password":     "evenmoresecret",
	}), 1))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Jane Doe", user["name"])
	assert.Equal(t, "jane.doe@example.com", user["email"])

	// Only the new credentials log in.
	rec = httptest.NewRecorder()
	h.Login(rec, makeJSONRequest(http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "jane.doe@example.com",
		"password": "evenmoresecret",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Login(rec, makeJSONRequest(http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "jane.doe@example.com",
		"password": "hunter2secret",
	}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_UpdateProfile_WrongCurrentPassword(t *testing.T) {
	store := newMemStore()
	h := newAuthHandler(store)

	rec := httptest.NewRecorder()
	h.Signup(rec, makeJSONRequest(http.MethodPost, "/api/auth/signup", map[string]any{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "hunter2secret",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.UpdateProfile(rec, asUser(makeJSONRequest(http.MethodPut, "/api/profile/update", map[string]any{
		"name":             "Jane",
		"email":            "jane@example.com",
		"current_password": "not-it",
		"new_password":     "evenmoresecret",
	}), 1))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["errors"].(map[string]any), "CurrentPassword")
}

func TestAuthHandler_Logout(t *testing.T) {
	h := newAuthHandler(newMemStore())

	rec := httptest.NewRecorder()
	h.Logout(rec, asUser(makeJSONRequest(http.MethodPost, "/api/logout", nil), 7))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
}

func TestAuthHandler_Authorized(t *testing.T) {
	store := newMemStore()
	h := newAuthHandler(store)

	rec := httptest.NewRecorder()
	h.Signup(rec, makeJSONRequest(http.MethodPost, "/api/auth/signup", map[string]any{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "hunter2secret",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Authorized(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/authorized", nil), 1))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jane@example.com", decodeBody(t, rec)["user"].(map[string]any)["email"])

	rec = httptest.NewRecorder()
	h.Authorized(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/authorized", nil), 99))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
