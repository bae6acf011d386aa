package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/aptihub/aptitude-service/internal/models"
	"github.com/aptihub/aptitude-service/internal/repositories"
)

// RepositoryConfig carries the shared infrastructure handles.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// RepositoryManager owns schema migration and hands out the Repository.
type RepositoryManager struct {
	config RepositoryConfig
	repo   *repository
}

func NewRepositoryManager(config RepositoryConfig) *RepositoryManager {
	return &RepositoryManager{
		config: config,
		repo:   newRepository(config.DB),
	}
}

// Initialize migrates the schema.
func (rm *RepositoryManager) Initialize() error {
	if err := rm.config.DB.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Result{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// repository implements repositories.Repository over one *gorm.DB, which is
// either the root connection or a transaction handle.
type repository struct {
	db       *gorm.DB
	user     *userRepository
	question *questionRepository
	result   *resultRepository
}

func newRepository(db *gorm.DB) *repository {
	return &repository{
		db:       db,
		user:     &userRepository{db: db},
		question: &questionRepository{db: db},
		result:   &resultRepository{db: db},
	}
}

func (r *repository) User() repositories.UserRepository         { return r.user }
func (r *repository) Question() repositories.QuestionRepository { return r.question }
func (r *repository) Result() repositories.ResultRepository     { return r.result }

func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepository(tx))
	})
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translateError maps GORM errors onto the repository error set.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case err == gorm.ErrRecordNotFound:
		return repositories.ErrNotFound
	case err == gorm.ErrDuplicatedKey:
		return repositories.ErrDuplicate
	default:
		return err
	}
}
