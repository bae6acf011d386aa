package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aptihub/aptitude-service/internal/cache"
	"github.com/aptihub/aptitude-service/internal/events"
	"github.com/aptihub/aptitude-service/internal/models"
	"github.com/aptihub/aptitude-service/internal/repositories"
	"github.com/aptihub/aptitude-service/internal/utils"
	"github.com/aptihub/aptitude-service/internal/validator"
)

const (
	defaultHistoryLimit = 5
	maxHistoryLimit     = 50
	leaderboardSize     = 5

	historyDateFormat = "01/02/2006"

	leaderboardCacheKey  = "leaderboard"
	statsCacheKeyPrefix  = "stats:"
	statsCacheKeyPattern = "stats:*"
)

// DefaultResultService grades submissions and serves statistics, history and
// the leaderboard.
type DefaultResultService struct {
	repo      repositories.Repository
	cache     *cache.Helper
	bus       *events.Bus
	validator *validator.Validator
	logger    utils.Logger
}

func NewResultService(repo repositories.Repository, cacheHelper *cache.Helper, bus *events.Bus, v *validator.Validator, logger utils.Logger) *DefaultResultService {
	return &DefaultResultService{
		repo:      repo,
		cache:     cacheHelper,
		bus:       bus,
		validator: v,
		logger:    logger,
	}
}

// SubmitResult grades the submitted answers against the question bank and
// persists the attempt. The score is always computed server-side.
func (s *DefaultResultService) SubmitResult(ctx context.Context, userID string, req *validator.SubmitResultRequest) (*ResultResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if len(req.Answers) == 0 {
		return nil, NewValidationError("At least one answer is required")
	}

	answers := make([]models.SubmittedAnswer, 0, len(req.Answers))
	ids := make([]uint, 0, len(req.Answers))
	for _, a := range req.Answers {
		answer := models.SubmittedAnswer{QuestionID: a.QuestionID}
		if a.Answer != nil {
			answer.Answer = *a.Answer
		}
		answers = append(answers, answer)
		ids = append(ids, a.QuestionID)
	}

	questions, err := s.repo.Question().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	byID := make(map[uint]*models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	score, breakdown := GradeExam(answers, byID)

	result := &models.Result{
		UserID: &userID,
		Score:  score,
		Date:   time.Now().UTC(),
	}
	if err := result.SetAnswers(answers); err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}
	if err := s.repo.Result().Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}

	if s.bus != nil {
		if err := s.bus.PublishResultSubmitted(events.ResultSubmittedEvent{
			ResultID:    result.ID,
			UserID:      result.UserID,
			Score:       result.Score,
			SubmittedAt: result.Date,
		}); err != nil {
			s.logger.Warn("Failed to publish result event", "error", err, "result_id", result.ID)
		}
	}

	s.logger.Info("Result submitted", "result_id", result.ID, "user_id", userID, "score", score)
	return &ResultResponse{
		ResultID:  result.ID,
		Score:     score,
		Total:     len(answers),
		Breakdown: breakdown,
	}, nil
}

// GetMyStats computes a user's aggregate performance: attempt count,
// distinct active days, average percentage over a fixed 30-question paper,
// and rank among all users by best single attempt.
func (s *DefaultResultService) GetMyStats(ctx context.Context, userID string) (*StatsResponse, error) {
	cacheKey := statsCacheKeyPrefix + userID
	var cached StatsResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	total, attempts, err := s.repo.Result().ScoreTotals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate scores: %w", err)
	}

	daysActive, err := s.repo.Result().DistinctActiveDays(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active days: %w", err)
	}

	aggregates, err := s.repo.Result().AggregateByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate results: %w", err)
	}

	stats := &StatsResponse{
		Attempts:   attempts,
		DaysActive: daysActive,
		TotalUsers: int64(len(aggregates)),
	}
	if attempts > 0 {
		stats.AverageScore = math.Round(float64(total*100) / float64(attempts*ExamSize))
		if position := rankByBestScore(aggregates, userID); position > 0 {
			stats.Position = &position
		}
	}

	if err := s.cache.Set(ctx, cacheKey, stats, cache.StatsTTL); err != nil {
		s.logger.Warn("Failed to cache stats", "error", err, "user_id", userID)
	}
	return stats, nil
}

// GetHistory returns one page of a user's attempts, newest first.
func (s *DefaultResultService) GetHistory(ctx context.Context, userID string, page, limit int) (*HistoryResponse, error) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	results, total, err := s.repo.Result().GetByUser(ctx, userID, repositories.ResultFilters{
		Limit:  limit,
		Offset: page * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, HistoryEntry{
			ID:    r.ID,
			Score: r.Score,
			Date:  r.Date.UTC().Format(historyDateFormat),
		})
	}

	return &HistoryResponse{
		Results: entries,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

// GetLeaderboard returns the top five users by average percentage across
// their attempts, with names joined in.
func (s *DefaultResultService) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var cached []LeaderboardEntry
	if err := s.cache.Get(ctx, leaderboardCacheKey, &cached); err == nil {
		return cached, nil
	}

	aggregates, err := s.repo.Result().AggregateByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate results: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.Attempts == 0 {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			UserID:     agg.UserID,
			BestScore:  agg.MaxScore,
			AveragePct: roundFloat(float64(agg.TotalScore*100)/float64(agg.Attempts*ExamSize), 1),
			Attempts:   agg.Attempts,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AveragePct > entries[j].AveragePct
	})
	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}

	if err := s.joinUserNames(ctx, entries); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, leaderboardCacheKey, entries, cache.StatsTTL); err != nil {
		s.logger.Warn("Failed to cache leaderboard", "error", err)
	}
	return entries, nil
}

// InvalidateStatsCaches drops the cached leaderboard and the submitting
// user's cached stats. Driven by result.submitted events.
func (s *DefaultResultService) InvalidateStatsCaches(ctx context.Context, userID *string) {
	keys := []string{leaderboardCacheKey}
	if userID != nil {
		keys = append(keys, statsCacheKeyPrefix+*userID)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("Failed to invalidate stats cache", "error", err)
	}
}

func (s *DefaultResultService) joinUserNames(ctx context.Context, entries []LeaderboardEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	users, err := s.repo.User().GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard users: %w", err)
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	for i := range entries {
		entries[i].Name = names[entries[i].UserID]
	}
	return nil
}

// rankByBestScore returns the 1-based position of userID when all users are
// ordered by their best single attempt, descending. Ties keep the
// aggregation order. Returns 0 when the user has no attempts.
func rankByBestScore(aggregates []repositories.UserScoreAggregate, userID string) int {
	sorted := make([]repositories.UserScoreAggregate, len(aggregates))
	copy(sorted, aggregates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MaxScore > sorted[j].MaxScore
	})

	for i, agg := range sorted {
		if agg.UserID == userID {
			return i + 1
		}
	}
	return 0
}

func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
