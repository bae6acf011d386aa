package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/aptihub/aptitude-service/internal/models"
	"github.com/aptihub/aptitude-service/internal/repositories"
	"github.com/aptihub/aptitude-service/internal/utils"
)

// ExamSize is the number of questions in one exam paper and the scoring
// denominator for statistics.
const ExamSize = 30

// QuestionsPerCategory is the per-bucket quota of an exam paper.
const QuestionsPerCategory = 10

// examPoolLimit bounds how many questions are loaded for assembly.
const examPoolLimit = 1000

// DefaultExamService assembles exam papers from the question bank.
type DefaultExamService struct {
	repo   repositories.Repository
	logger utils.Logger
	// rng source; seeded per service so tests can inject a fixed seed.
	rng *rand.Rand
}

func NewExamService(repo repositories.Repository, logger utils.Logger) *DefaultExamService {
	return &DefaultExamService{
		repo:   repo,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateExam loads the question pool and assembles a 30-question paper:
// up to ten per category bucket, backfilled from the remaining pool, with
// repetition only when the bank itself is too small.
func (s *DefaultExamService) GenerateExam(ctx context.Context) (*ExamResponse, error) {
	pool, err := s.repo.Question().List(ctx, repositories.QuestionFilters{Limit: examPoolLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to load question pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, NewNotFoundError("No questions available")
	}

	selected := AssembleExam(pool, s.rng)

	questions := make([]ExamQuestion, 0, len(selected))
	for _, q := range selected {
		questions = append(questions, ExamQuestion{
			ID:            q.ID,
			Text:          q.Text,
			Options:       q.OptionList(),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Category:      q.Category,
		})
	}

	return &ExamResponse{Questions: questions}, nil
}

// categoryBuckets are the keywords used to bucket questions. Matching is a
// case-insensitive substring test, so "Logical Reasoning" buckets as
// reasoning.
var categoryBuckets = []string{"reason", "quant", "verb"}

// AssembleExam picks ExamSize questions from pool: QuestionsPerCategory from
// each category bucket, then unique backfill from the whole pool, then
// with-replacement fallback when the pool is smaller than ExamSize. The
// returned paper is shuffled.
func AssembleExam(pool []*models.Question, rng *rand.Rand) []*models.Question {
	buckets := make([][]*models.Question, len(categoryBuckets))
	for _, q := range pool {
		category := strings.ToLower(q.Category)
		for i, keyword := range categoryBuckets {
			if strings.Contains(category, keyword) {
				buckets[i] = append(buckets[i], q)
				break
			}
		}
	}

	picked := make([]*models.Question, 0, ExamSize)
	used := make(map[uint]bool, ExamSize)

	for _, bucket := range buckets {
		for _, q := range pickN(bucket, QuestionsPerCategory, rng) {
			picked = append(picked, q)
			used[q.ID] = true
		}
	}

	// Backfill from the rest of the pool without repeating questions.
	if len(picked) < ExamSize {
		remaining := make([]*models.Question, 0, len(pool))
		for _, q := range pool {
			if !used[q.ID] {
				remaining = append(remaining, q)
			}
		}
		for _, q := range pickN(remaining, ExamSize-len(picked), rng) {
			picked = append(picked, q)
			used[q.ID] = true
		}
	}

	// The bank is smaller than one paper; repeat random questions rather
	// than serve a short exam.
	for len(picked) < ExamSize {
		picked = append(picked, pool[rng.Intn(len(pool))])
	}

	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked
}

// pickN returns up to n distinct random elements of pool.
func pickN(pool []*models.Question, n int, rng *rand.Rand) []*models.Question {
	if len(pool) <= n {
		out := make([]*models.Question, len(pool))
		copy(out, pool)
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}

	indices := rng.Perm(len(pool))[:n]
	out := make([]*models.Question, 0, n)
	for _, i := range indices {
		out = append(out, pool[i])
	}
	return out
}
