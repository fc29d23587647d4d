package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jejomarc/askjejo/internal/domain"
	"github.com/jejomarc/askjejo/internal/security"
	"golang.org/x/crypto/bcrypt"
)

// ErrEmailTaken is returned on signup when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials is returned on login when the email is unknown or
// the password does not match. Callers must not distinguish the two.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles signup, login and token issuance
type AuthService struct {
	store domain.TxStore
	jwt   *security.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(store domain.TxStore, jwtManager *security.JWTManager) *AuthService {
	return &AuthService{store: store, jwt: jwtManager}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req domain.UserCreate) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.store.Users().EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and returns the user with a signed token
func (s *AuthService) Login(ctx context.Context, req domain.UserLogin) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// UpdateProfile applies name and email edits and, when a new password is
// supplied, rotates the password hash after verifying the current one.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req domain.UserUpdate) (*domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != user.Email {
		exists, err := s.store.Users().EmailExists(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return nil, ErrEmailTaken
		}
	}

	if req.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return nil, ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = email
	user.UpdatedAt = time.Now().UTC()
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// GetUserByID loads a user by id, returning domain.ErrNotFound when absent
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}
