package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/aptihub/aptitude-service/internal/models"
	"github.com/aptihub/aptitude-service/internal/repositories"
)

type resultRepository struct {
	db *gorm.DB
}

func (r *resultRepository) Create(ctx context.Context, result *models.Result) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *resultRepository) GetByUser(ctx context.Context, userID string, filters repositories.ResultFilters) ([]*models.Result, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Result{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count results: %w", err)
	}

	var results []*models.Result
	paged := query.Order("date DESC")
	if filters.Limit > 0 {
		paged = paged.Limit(filters.Limit).Offset(filters.Offset)
	}
	if err := paged.Find(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get results: %w", err)
	}

	return results, total, nil
}

func (r *resultRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Result{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return count, nil
}

func (r *resultRepository) DistinctActiveDays(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Result{}).
		Where("user_id = ?", userID).
		Select("COUNT(DISTINCT to_char(date AT TIME ZONE 'UTC', 'YYYY-MM-DD'))").
		Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count active days: %w", err)
	}
	return count, nil
}

func (r *resultRepository) ScoreTotals(ctx context.Context, userID string) (int64, int64, error) {
	var row struct {
		Total int64 `gorm:"column:total"`
		Count int64 `gorm:"column:count"`
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Result{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(score), 0) AS total, COUNT(*) AS count").
		Scan(&row).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to sum scores: %w", err)
	}
	return row.Total, row.Count, nil
}

func (r *resultRepository) AggregateByUser(ctx context.Context) ([]repositories.UserScoreAggregate, error) {
	var aggregates []repositories.UserScoreAggregate
	if err := r.db.WithContext(ctx).
		Model(&models.Result{}).
		Where("user_id IS NOT NULL").
		Select("user_id, MAX(score) AS max_score, SUM(score) AS total_score, COUNT(*) AS attempts").
		Group("user_id").
		Scan(&aggregates).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate results: %w", err)
	}
	return aggregates, nil
}
