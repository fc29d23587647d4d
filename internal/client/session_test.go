package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, handler http.Handler) *Session {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := OpenCredentialStore(filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewSession(NewAPI(srv.URL), store)
}

func TestSession_LogoutWhileLoggedOut(t *testing.T) {
	s := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No token, so the server rejects the remote logout.
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "unauthorized"})
	}))

	require.NoError(t, s.Logout(context.Background()))
	require.NoError(t, s.Logout(context.Background()))

	creds, err := s.Creds.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestSession_LogoutClearsCredentialsOnServerError(t *testing.T) {
	s := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	require.NoError(t, s.Creds.Save(Credentials{Token: "tok", UserID: 1, UserName: "n", UserEmail: "e"}))
	s.API.SetToken("tok")

	require.NoError(t, s.Logout(context.Background()))

	creds, err := s.Creds.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestSession_RestoreWithValidToken(t *testing.T) {
	s := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user":    map[string]any{"id": 7, "name": "Jane", "email": "jane@example.com"},
		})
	}))

	require.NoError(t, s.Creds.Save(Credentials{Token: "tok", UserID: 7, UserName: "Jane", UserEmail: "jane@example.com"}))

	creds, err := s.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "tok", creds.Token)
}

func TestSession_RestoreClearsStaleToken(t *testing.T) {
	s := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "invalid or expired token"})
	}))

	require.NoError(t, s.Creds.Save(Credentials{Token: "stale", UserID: 7, UserName: "Jane", UserEmail: "jane@example.com"}))

	creds, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, creds)

	stored, err := s.Creds.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)
}
