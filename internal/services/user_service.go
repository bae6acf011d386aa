package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aptihub/aptitude-service/internal/auth"
	"github.com/aptihub/aptitude-service/internal/models"
	"github.com/aptihub/aptitude-service/internal/repositories"
	"github.com/aptihub/aptitude-service/internal/utils"
	"github.com/aptihub/aptitude-service/internal/validator"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

// DefaultUserService handles user listing and profile updates.
type DefaultUserService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

func NewUserService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) *DefaultUserService {
	return &DefaultUserService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

func (s *DefaultUserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// ListUsers returns one page of user profiles plus the unpaginated total.
func (s *DefaultUserService) ListUsers(ctx context.Context, page, limit int) ([]models.UserInfo, int64, error) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = defaultUserPageSize
	}
	if limit > maxUserPageSize {
		limit = maxUserPageSize
	}

	users, total, err := s.repo.User().List(ctx, repositories.UserFilters{
		Limit:  limit,
		Offset: page * limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	infos := make([]models.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, u.Info())
	}
	return infos, total, nil
}

// CountStudents returns the number of registered student accounts. The count
// is public; it backs the landing page counter.
func (s *DefaultUserService) CountStudents(ctx context.Context) (int64, error) {
	count, err := s.repo.User().CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// UpdateProfile applies the non-empty fields of req to the user's own
// profile. A changed email must stay unique.
func (s *DefaultUserService) UpdateProfile(ctx context.Context, userID string, req *validator.UpdateMeRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Email != "" {
		user.Email = normalizeEmail(req.Email)
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("An account with this email already exists")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("Profile updated", "user_id", user.ID)
	return user, nil
}
