package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/aptihub/aptitude-service/internal/models"
	"github.com/aptihub/aptitude-service/internal/repositories"
	"github.com/aptihub/aptitude-service/internal/utils"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.DiscardHandler))
}

// fakeRepository backs the service tests with in-memory maps.
type fakeRepository struct {
	users     *fakeUserRepo
	questions *fakeQuestionRepo
	results   *fakeResultRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:     &fakeUserRepo{byID: make(map[string]*models.User)},
		questions: &fakeQuestionRepo{byID: make(map[uint]*models.Question)},
		results:   &fakeResultRepo{},
	}
}

func (f *fakeRepository) User() repositories.UserRepository         { return f.users }
func (f *fakeRepository) Question() repositories.QuestionRepository { return f.questions }
func (f *fakeRepository) Result() repositories.ResultRepository     { return f.results }

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

// ===== USERS =====

type fakeUserRepo struct {
	byID map[string]*models.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range f.byID {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	clone := *user
	f.byID[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []string) ([]*models.User, error) {
	var out []*models.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	for id, u := range f.byID {
		if id != user.ID && u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	clone := *user
	f.byID[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	ids := make([]string, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*models.User
	for _, id := range ids {
		clone := *f.byID[id]
		out = append(out, &clone)
	}
	total := int64(len(out))

	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			out = nil
		} else {
			out = out[filters.Offset:]
		}
	}
	if filters.Limit > 0 && filters.Limit < len(out) {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, role models.UserRole) (int64, error) {
	var n int64
	for _, u := range f.byID {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ===== QUESTIONS =====

type fakeQuestionRepo struct {
	byID   map[uint]*models.Question
	nextID uint
}

func (f *fakeQuestionRepo) Create(_ context.Context, question *models.Question) error {
	f.nextID++
	question.ID = f.nextID
	clone := *question
	f.byID[question.ID] = &clone
	return nil
}

func (f *fakeQuestionRepo) CreateBatch(ctx context.Context, questions []*models.Question) error {
	for _, q := range questions {
		if err := f.Create(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeQuestionRepo) GetByID(_ context.Context, id uint) (*models.Question, error) {
	q, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *q
	return &clone, nil
}

func (f *fakeQuestionRepo) GetByIDs(_ context.Context, ids []uint) ([]*models.Question, error) {
	var out []*models.Question
	for _, id := range ids {
		if q, ok := f.byID[id]; ok {
			clone := *q
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) List(_ context.Context, filters repositories.QuestionFilters) ([]*models.Question, error) {
	ids := make([]uint, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*models.Question
	for _, id := range ids {
		q := f.byID[id]
		if filters.Category != nil && q.Category != *filters.Category {
			continue
		}
		clone := *q
		out = append(out, &clone)
	}

	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			out = nil
		} else {
			out = out[filters.Offset:]
		}
	}
	if filters.Limit > 0 && filters.Limit < len(out) {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (f *fakeQuestionRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

func (f *fakeQuestionRepo) Update(_ context.Context, question *models.Question) error {
	if _, ok := f.byID[question.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *question
	f.byID[question.ID] = &clone
	return nil
}

func (f *fakeQuestionRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// ===== RESULTS =====

type fakeResultRepo struct {
	results []*models.Result
	nextID  uint
}

func (f *fakeResultRepo) Create(_ context.Context, result *models.Result) error {
	f.nextID++
	result.ID = f.nextID
	clone := *result
	f.results = append(f.results, &clone)
	return nil
}

func (f *fakeResultRepo) GetByUser(_ context.Context, userID string, filters repositories.ResultFilters) ([]*models.Result, int64, error) {
	var mine []*models.Result
	for _, r := range f.results {
		if r.UserID != nil && *r.UserID == userID {
			clone := *r
			mine = append(mine, &clone)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].Date.After(mine[j].Date) })
	total := int64(len(mine))

	if filters.Offset > 0 {
		if filters.Offset >= len(mine) {
			mine = nil
		} else {
			mine = mine[filters.Offset:]
		}
	}
	if filters.Limit > 0 && filters.Limit < len(mine) {
		mine = mine[:filters.Limit]
	}
	return mine, total, nil
}

func (f *fakeResultRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, r := range f.results {
		if r.UserID != nil && *r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeResultRepo) DistinctActiveDays(_ context.Context, userID string) (int64, error) {
	days := make(map[string]bool)
	for _, r := range f.results {
		if r.UserID != nil && *r.UserID == userID {
			days[r.Date.UTC().Format("2006-01-02")] = true
		}
	}
	return int64(len(days)), nil
}

func (f *fakeResultRepo) ScoreTotals(_ context.Context, userID string) (int64, int64, error) {
	var total, count int64
	for _, r := range f.results {
		if r.UserID != nil && *r.UserID == userID {
			total += int64(r.Score)
			count++
		}
	}
	return total, count, nil
}

func (f *fakeResultRepo) AggregateByUser(_ context.Context) ([]repositories.UserScoreAggregate, error) {
	byUser := make(map[string]*repositories.UserScoreAggregate)
	var order []string
	for _, r := range f.results {
		if r.UserID == nil {
			continue
		}
		agg, ok := byUser[*r.UserID]
		if !ok {
			agg = &repositories.UserScoreAggregate{UserID: *r.UserID}
			byUser[*r.UserID] = agg
			order = append(order, *r.UserID)
		}
		if r.Score > agg.MaxScore {
			agg.MaxScore = r.Score
		}
		agg.TotalScore += int64(r.Score)
		agg.Attempts++
	}

	out := make([]repositories.UserScoreAggregate, 0, len(byUser))
	for _, id := range order {
		out = append(out, *byUser[id])
	}
	return out, nil
}

// ===== HELPERS =====

func listAllFilters() repositories.QuestionFilters {
	return repositories.QuestionFilters{Limit: examPoolLimit}
}

func mustQuestion(f *fakeQuestionRepo, text, correct, category string, options []string) *models.Question {
	q := &models.Question{
		Text:          text,
		CorrectAnswer: correct,
		Category:      category,
		Difficulty:    models.DifficultyMedium,
	}
	if err := q.SetOptions(options); err != nil {
		panic(err)
	}
	if err := f.Create(context.Background(), q); err != nil {
		panic(err)
	}
	return q
}
