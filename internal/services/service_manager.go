package services

import (
	"context"
	"encoding/json"

	"github.com/aptihub/aptitude-service/internal/auth"
	"github.com/aptihub/aptitude-service/internal/cache"
	"github.com/aptihub/aptitude-service/internal/events"
	"github.com/aptihub/aptitude-service/internal/repositories"
	"github.com/aptihub/aptitude-service/internal/utils"
	"github.com/aptihub/aptitude-service/internal/validator"
)

// DefaultServiceManager owns every service plus the shared event bus and
// cache.
type DefaultServiceManager struct {
	repo   repositories.Repository
	cache  *cache.Helper
	bus    *events.Bus
	logger utils.Logger

	authService     *DefaultAuthService
	userService     *DefaultUserService
	questionService *DefaultQuestionService
	examService     *DefaultExamService
	resultService   *DefaultResultService
}

func NewServiceManager(
	repo repositories.Repository,
	cacheHelper *cache.Helper,
	bus *events.Bus,
	tokens *auth.TokenManager,
	logger utils.Logger,
) *DefaultServiceManager {
	v := validator.New()

	return &DefaultServiceManager{
		repo:   repo,
		cache:  cacheHelper,
		bus:    bus,
		logger: logger,

		authService:     NewAuthService(repo, tokens, v, logger),
		userService:     NewUserService(repo, v, logger),
		questionService: NewQuestionService(repo, v, logger),
		examService:     NewExamService(repo, logger),
		resultService:   NewResultService(repo, cacheHelper, bus, v, logger),
	}
}

func (m *DefaultServiceManager) Auth() AuthService         { return m.authService }
func (m *DefaultServiceManager) User() UserService         { return m.userService }
func (m *DefaultServiceManager) Question() QuestionService { return m.questionService }
func (m *DefaultServiceManager) Exam() ExamService         { return m.examService }
func (m *DefaultServiceManager) Result() ResultService     { return m.resultService }

// Initialize starts the event subscriber that keeps cached statistics
// consistent with new submissions.
func (m *DefaultServiceManager) Initialize(ctx context.Context) error {
	if m.bus == nil {
		return nil
	}
	return m.bus.SubscribeResults(ctx, func(envelope events.Envelope) {
		if envelope.Type != events.EventResultSubmitted {
			return
		}
		var event events.ResultSubmittedEvent
		if err := json.Unmarshal(envelope.Data, &event); err != nil {
			m.logger.Warn("Malformed result event", "error", err, "event_id", envelope.ID)
			return
		}
		m.resultService.InvalidateStatsCaches(ctx, event.UserID)
	})
}

// Shutdown closes the event bus; repository and cache connections are owned
// by main.
func (m *DefaultServiceManager) Shutdown(ctx context.Context) error {
	if m.bus == nil {
		return nil
	}
	return m.bus.Close()
}

// HealthCheck verifies the database connection. The cache is optional and
// does not fail the check.
func (m *DefaultServiceManager) HealthCheck(ctx context.Context) error {
	return m.repo.Ping(ctx)
}
