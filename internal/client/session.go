package client

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Session ties the API client to the local credential store
type Session struct {
	API   *API
	Creds *CredentialStore
}

// NewSession creates a session over an API client and credential store
func NewSession(api *API, creds *CredentialStore) *Session {
	return &Session{API: api, Creds: creds}
}

// Restore loads stored credentials, installs the token and verifies it
// against the server. Stale credentials are cleared.
func (s *Session) Restore(ctx context.Context) (*Credentials, error) {
	creds, err := s.Creds.Load()
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, nil
	}

	s.API.SetToken(creds.Token)
	if _, err := s.API.Authorized(ctx); err != nil {
		s.API.SetToken("")
		if clearErr := s.Creds.Clear(); clearErr != nil {
			log.Warn().Err(clearErr).Msg("failed to clear stale credentials")
		}
		return nil, nil
	}
	return creds, nil
}

// Login authenticates and persists the resulting credentials
func (s *Session) Login(ctx context.Context, email, password string) (*Credentials, error) {
	user, token, err := s.API.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	creds := Credentials{
		Token:     token,
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
	}
	if err := s.Creds.Save(creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Logout clears local credentials no matter what the server says. Calling
// it while already logged out is fine.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.API.Logout(ctx); err != nil {
		log.Warn().Err(err).Msg("remote logout failed, clearing local credentials anyway")
	}
	return s.Creds.Clear()
}
