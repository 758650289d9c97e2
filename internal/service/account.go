package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

const minPasswordLength = 6

// CreateAccount validates a signup and stores the account with a bcrypt
// digest of the password.
func (s *Service) CreateAccount(ctx context.Context, req domain.SignupRequest) (*domain.Account, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("username, email and password are required: %w", domain.ErrInvalidAccount)
	}
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match: %w", domain.ErrInvalidAccount)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, domain.ErrInvalidAccount)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.passwordCost())
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("password is too long: %w", domain.ErrInvalidAccount)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		ID:           "usr_" + uuid.New().String()[:8],
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

func (s *Service) passwordCost() int {
	if s.config == nil || s.config.PasswordCost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return s.config.PasswordCost
}

// Authenticate returns the account whose password matches.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	account, err := s.store.GetAccountByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}

// Login authenticates and opens a new session.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	account, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	token, _ := s.sessions.Create(account)
	return &domain.LoginResponse{Token: token, Account: account}, nil
}

// Logout drops the session and disconnects its subscribers. Generation still
// in flight finishes against the detached context and is discarded.
func (s *Service) Logout(token string) error {
	if !s.sessions.Delete(token) {
		return domain.ErrSessionNotFound
	}
	if s.notifier != nil {
		s.notifier.CloseSession(token)
	}
	return nil
}
