package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/aptihub/aptitude-service/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey)
}

// ===== FILTERS =====

type UserFilters struct {
	Limit  int
	Offset int
	Role   *models.UserRole
}

type QuestionFilters struct {
	Limit    int
	Offset   int
	Category *string
}

type ResultFilters struct {
	Limit  int
	Offset int
}

// ===== AGGREGATES =====

// UserScoreAggregate is one row of the per-user result aggregation used by
// ranking and the leaderboard: best single attempt, total score, attempts.
type UserScoreAggregate struct {
	UserID     string `gorm:"column:user_id"`
	MaxScore   int    `gorm:"column:max_score"`
	TotalScore int64  `gorm:"column:total_score"`
	Attempts   int64  `gorm:"column:attempts"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	// CreateBatch inserts all questions in one transaction; a single failure
	// rolls back the whole batch.
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error)
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
}

type ResultRepository interface {
	Create(ctx context.Context, result *models.Result) error
	// GetByUser returns a user's results newest-first with the filter's
	// offset/limit applied, plus the unpaginated total.
	GetByUser(ctx context.Context, userID string, filters ResultFilters) ([]*models.Result, int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	// DistinctActiveDays counts distinct UTC calendar dates with at least one
	// result for the user.
	DistinctActiveDays(ctx context.Context, userID string) (int64, error)
	// ScoreTotals returns the sum of scores and the attempt count for a user.
	ScoreTotals(ctx context.Context, userID string) (total int64, count int64, err error)
	// AggregateByUser groups all results by user. Row order is the database's
	// stable aggregation order; callers sort as needed.
	AggregateByUser(ctx context.Context) ([]UserScoreAggregate, error)
}

type Repository interface {
	User() UserRepository
	Question() QuestionRepository
	Result() ResultRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}
