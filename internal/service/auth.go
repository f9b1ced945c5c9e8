package service

import (
	"context"
	"fmt"

	"farsiflash/internal/domain"
	"farsiflash/internal/repository"
)

// AuthService handles authentication and learner settings
type AuthService struct {
	userRepo     repository.UserRepository
	botPassword  string
	defaultLevel int
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, botPassword string) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		botPassword:  botPassword,
		defaultLevel: domain.MinLevel,
	}
}

// WithDefaultLevel sets the level newly authorized users start at
func (s *AuthService) WithDefaultLevel(level int) *AuthService {
	if domain.ValidLevel(level) {
		s.defaultLevel = level
	}
	return s
}

// CheckPassword verifies if provided password matches
func (s *AuthService) CheckPassword(password string) bool {
	return password == s.botPassword
}

// IsAuthorized checks if user is authorized
func (s *AuthService) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	return s.userRepo.IsAuthorized(ctx, userID)
}

// AuthorizeUser authorizes a user
func (s *AuthService) AuthorizeUser(ctx context.Context, userID int64) error {
	if err := s.userRepo.AuthorizeUser(ctx, userID); err != nil {
		return err
	}
	if s.defaultLevel == domain.MinLevel {
		return nil
	}
	return s.userRepo.SetLevel(ctx, userID, s.defaultLevel)
}

// EnsureUserExists creates user record if doesn't exist
func (s *AuthService) EnsureUserExists(ctx context.Context, userID int64) error {
	return s.userRepo.EnsureUserExists(ctx, userID)
}

// GetLevel returns the learner's current level
func (s *AuthService) GetLevel(ctx context.Context, userID int64) (int, error) {
	return s.userRepo.GetLevel(ctx, userID)
}

// SetLevel changes the learner's current level
func (s *AuthService) SetLevel(ctx context.Context, userID int64, level int) error {
	if !domain.ValidLevel(level) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}
	return s.userRepo.SetLevel(ctx, userID, level)
}

// ListAuthorized returns ids of all authorized users
func (s *AuthService) ListAuthorized(ctx context.Context) ([]int64, error) {
	return s.userRepo.ListAuthorized(ctx)
}
