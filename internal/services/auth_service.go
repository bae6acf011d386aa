package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aptihub/aptitude-service/internal/auth"
	"github.com/aptihub/aptitude-service/internal/models"
	"github.com/aptihub/aptitude-service/internal/repositories"
	"github.com/aptihub/aptitude-service/internal/utils"
	"github.com/aptihub/aptitude-service/internal/validator"
)

// DefaultAuthService implements signup, role-scoped login and token
// authentication over the local user store.
type DefaultAuthService struct {
	repo      repositories.Repository
	tokens    *auth.TokenManager
	validator *validator.Validator
	logger    utils.Logger
}

func NewAuthService(repo repositories.Repository, tokens *auth.TokenManager, v *validator.Validator, logger utils.Logger) *DefaultAuthService {
	return &DefaultAuthService{
		repo:      repo,
		tokens:    tokens,
		validator: v,
		logger:    logger,
	}
}

// Signup registers a new account. The requested role is normalized through
// ParseRole; a duplicate email is a conflict.
func (s *DefaultAuthService) Signup(ctx context.Context, req *validator.SignupRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         models.ParseRole(req.Role),
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("An account with this email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return &AuthResponse{Token: token, User: user.Info()}, nil
}

// Login authenticates by email and password, scoped to a role: a valid
// credential presented against the wrong portal is rejected with a
// forbidden, not an unauthenticated, error.
func (s *DefaultAuthService) Login(ctx context.Context, req *validator.LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewAuthenticationError("Invalid email or password")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, NewAuthenticationError("Invalid email or password")
	}

	if models.ParseRole(req.Role) != user.Role {
		return nil, NewAuthorizationError("Access denied for this role")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return &AuthResponse{Token: token, User: user.Info()}, nil
}

// Authenticate verifies a bearer token and resolves the live user record,
// so a deleted account's tokens stop working immediately.
func (s *DefaultAuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, NewAuthenticationError("Invalid or expired token")
	}

	user, err := s.repo.User().GetByID(ctx, claims.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewAuthenticationError("Invalid or expired token")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
