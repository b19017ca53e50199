package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/retrogamecloud/scoreboard/internal/auth"
	"github.com/retrogamecloud/scoreboard/internal/domain"
)

// AuthService provides registration, login and profile management
type AuthService struct {
	store  UserStore
	tokens *auth.TokenService
	hasher *auth.PasswordHasher
	logger *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store UserStore, tokens *auth.TokenService, hasher *auth.PasswordHasher, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		hasher: hasher,
		logger: logger,
	}
}

// Register creates a new account and returns it with a fresh token.
// Email defaults from the username when absent.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	if !domain.ValidateUsername(req.Username) {
		return nil, domain.ErrInvalidUsername
	}
	if !domain.ValidatePassword(req.Password) {
		return nil, domain.ErrInvalidPassword
	}
	email := req.Email
	if email == "" {
		email = domain.DefaultEmail(req.Username)
	} else if !domain.ValidateEmail(email) {
		return nil, domain.ErrInvalidEmail
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, req.Username, email, passwordHash, req.DisplayName, req.AvatarURL, req.Bio)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return &domain.AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials against an active account. A missing user
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	if req.Username == "" || req.Password == "" {
		return nil, domain.ErrInvalidRequest
	}

	user, err := s.store.UserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Compare(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return &domain.AuthResult{Token: token, User: user}, nil
}

// VerifyToken resolves a bearer token to the authenticated principal
func (s *AuthService) VerifyToken(token string) (*auth.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// Profile retrieves the authenticated user's account
func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.store.UserByID(ctx, userID)
}

// UpdateProfile updates the display fields of the authenticated user
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, update domain.ProfileUpdate) (*domain.User, error) {
	return s.store.UpdateProfile(ctx, userID, update)
}

// Deactivate soft-deletes the authenticated user's account
func (s *AuthService) Deactivate(ctx context.Context, userID int64) error {
	if err := s.store.DeactivateUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deactivated", "user_id", userID)
	return nil
}

// UserByUsername retrieves a public user profile
func (s *AuthService) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.store.UserByUsername(ctx, username)
}
