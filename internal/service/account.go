// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER SHAPE:
//
//	Handler (HTTP)      → parses requests, writes responses
//	Service (rules)     → validates, enforces rules, orchestrates
//	Repository (data)   → reads/writes the store
//
// Services take repository interfaces, never concrete database types, so
// tests swap in mocks and the service never imports the sqlite package.
//
// THE SESSION IS NOT A CACHE:
// AccountService never holds a *model.User between requests. The token
// carries only the user ID, and each operation re-fetches the account from
// the repository. A cached copy goes stale the moment another write lands;
// re-reading makes a profile edit visible on the very next request.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prasetya/safestate/internal/apperror"
	"github.com/prasetya/safestate/internal/auth"
	"github.com/prasetya/safestate/internal/model"
	"github.com/prasetya/safestate/internal/repository"
)

// Validation constants for account fields.
const (
	MinPasswordLength = 6
	MaxUsernameLength = 50
	MinAge            = 18
)

// AccountService handles registration, login and profile management.
type AccountService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAccountService creates an AccountService with all required dependencies.
func NewAccountService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler can
// set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and signs the user in.
//
// Validation happens here, not in the handler: the rules hold no matter
// where the call comes from. The password is bcrypt-hashed before it goes
// anywhere near the repository.
func (s *AccountService) Register(ctx context.Context, username, email, password string, age int, city string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username", fmt.Sprintf("username must be %d characters or fewer", MaxUsernameLength))
	}
	if !looksLikeEmail(email) {
		return nil, apperror.ValidationFailed("email", "a valid email address is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if age < MinAge {
		return nil, apperror.ValidationFailed("age", fmt.Sprintf("you must be at least %d years old", MinAge))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Age:          age,
		City:         strings.TrimSpace(city),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// EmailConflict passes through untouched so the handler maps it to 409.
		return nil, err
	}

	s.logger.Info("account registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/account: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies email + password and issues a session token.
//
// Any failure, unknown email or wrong password, collapses into the same
// InvalidCredentials error. Distinguishing the two would tell an attacker
// which emails have accounts.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InvalidCredentials()
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/account: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the full account record for the given internal ID.
// The /api/me handler calls this after the middleware extracts the userID
// from the token.
func (s *AccountService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/account: user ID must not be empty")
	}
	return s.users.GetByID(ctx, id)
}

// UpdateProfile changes the mutable profile fields. Email and password are
// deliberately not updatable here; each would need its own verified flow.
func (s *AccountService) UpdateProfile(ctx context.Context, id, username string, age int, city string) (*model.User, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username", fmt.Sprintf("username must be %d characters or fewer", MaxUsernameLength))
	}
	if age < MinAge {
		return nil, apperror.ValidationFailed("age", fmt.Sprintf("age must be at least %d", MinAge))
	}

	if err := s.users.UpdateProfile(ctx, id, username, age, strings.TrimSpace(city)); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("userID", id))

	// Re-read so the caller gets the record as stored, sets included.
	return s.users.GetByID(ctx, id)
}

// ValidateToken is a thin delegation to TokenService.Validate, so callers
// only need the service package.
func (s *AccountService) ValidateToken(tokenStr string) (string, error) {
	userID, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return "", fmt.Errorf("service/account: %w", err)
	}
	return userID, nil
}

// looksLikeEmail is a sanity check, not RFC 5322. The real verification of
// an address is sending mail to it.
func looksLikeEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.Contains(domain, "@")
}
