package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCredentialStore(t *testing.T) *CredentialStore {
	t.Helper()
	store, err := OpenCredentialStore(filepath.Join(t.TempDir(), "state", "credentials.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCredentialStore_SaveLoadClear(t *testing.T) {
	store := newTestCredentialStore(t)

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)

	require.NoError(t, store.Save(Credentials{
		Token:     "tok-1",
		UserID:    7,
		UserName:  "Jane",
		UserEmail: "jane@example.com",
	}))

	creds, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "tok-1", creds.Token)
	assert.EqualValues(t, 7, creds.UserID)
	assert.Equal(t, "jane@example.com", creds.UserEmail)
	assert.False(t, creds.SavedAt.IsZero())

	require.NoError(t, store.Clear())
	creds, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestCredentialStore_SaveReplaces(t *testing.T) {
	store := newTestCredentialStore(t)

	require.NoError(t, store.Save(Credentials{Token: "tok-1", UserID: 7, UserName: "Jane", UserEmail: "jane@example.com"}))
	require.NoError(t, store.Save(Credentials{Token: "tok-2", UserID: 8, UserName: "Joe", UserEmail: "joe@example.com"}))

	creds, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "tok-2", creds.Token)
	assert.EqualValues(t, 8, creds.UserID)
}

func TestCredentialStore_ClearIsIdempotent(t *testing.T) {
	store := newTestCredentialStore(t)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	require.NoError(t, store.Save(Credentials{Token: "tok", UserID: 1, UserName: "n", UserEmail: "e"}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}
