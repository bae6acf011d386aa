package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aptihub/aptitude-service/internal/models"
	"github.com/aptihub/aptitude-service/internal/repositories"
	"github.com/aptihub/aptitude-service/internal/utils"
	"github.com/aptihub/aptitude-service/internal/validator"
)

// Plain list reads serve whole banks to exam clients, so the default page
// matches the cap.
const (
	defaultQuestionPageSize = 100
	maxQuestionPageSize     = 100
)

// DefaultQuestionService implements question-bank management.
type DefaultQuestionService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

func NewQuestionService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) *DefaultQuestionService {
	return &DefaultQuestionService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

// CreateQuestion validates and inserts a single question.
func (s *DefaultQuestionService) CreateQuestion(ctx context.Context, creatorID string, req *validator.CreateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.buildQuestion(creatorID, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created", "question_id", question.ID, "category", question.Category)
	return question, nil
}

// CreateQuestions inserts a batch atomically: one invalid entry rejects the
// whole request, and a storage failure rolls back every row.
func (s *DefaultQuestionService) CreateQuestions(ctx context.Context, creatorID string, req *validator.BulkCreateQuestionsRequest) ([]*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	questions := make([]*models.Question, 0, len(req.Questions))
	for i := range req.Questions {
		question, err := s.buildQuestion(creatorID, &req.Questions[i])
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("Question %d: %s", i+1, MessageOf(err)))
		}
		questions = append(questions, question)
	}

	if err := s.repo.Question().CreateBatch(ctx, questions); err != nil {
		return nil, fmt.Errorf("failed to create questions: %w", err)
	}

	s.logger.Info("Questions created in bulk", "count", len(questions))
	return questions, nil
}

func (s *DefaultQuestionService) GetQuestion(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("Question not found")
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	return question, nil
}

func (s *DefaultQuestionService) ListQuestions(ctx context.Context, category string, page, limit int) ([]*models.Question, error) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = defaultQuestionPageSize
	}
	if limit > maxQuestionPageSize {
		limit = maxQuestionPageSize
	}

	filters := repositories.QuestionFilters{
		Limit:  limit,
		Offset: page * limit,
	}
	if category != "" {
		filters.Category = &category
	}

	questions, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (s *DefaultQuestionService) CountQuestions(ctx context.Context) (int64, error) {
	count, err := s.repo.Question().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// UpdateQuestion replaces the editable fields of a question. The edit form
// always sends the full document.
func (s *DefaultQuestionService) UpdateQuestion(ctx context.Context, id uint, req *validator.UpdateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if errs := s.validator.GetBusinessValidator().ValidateQuestionFields(req.Text, req.Options, req.CorrectAnswer); len(errs) > 0 {
		return nil, errs
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("Question not found")
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}

	question.Text = strings.TrimSpace(req.Text)
	if err := question.SetOptions(req.Options); err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}
	question.CorrectAnswer = req.CorrectAnswer
	if req.Category != "" {
		question.Category = req.Category
	}
	if req.Explanation != nil {
		question.Explanation = req.Explanation
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.logger.Info("Question updated", "question_id", question.ID)
	return question, nil
}

func (s *DefaultQuestionService) DeleteQuestion(ctx context.Context, id uint) error {
	if err := s.repo.Question().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("Question not found")
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.logger.Info("Question deleted", "question_id", id)
	return nil
}

// The sheet layout is question, four options, correct answer, then optional
// category, difficulty and explanation columns.
const importMinColumns = 6

// ImportWorkbook reads the first sheet of an xlsx file and inserts the valid
// rows. Row one is treated as a header. Invalid rows are skipped and
// reported; valid rows are inserted atomically.
func (s *DefaultQuestionService) ImportWorkbook(ctx context.Context, creatorID string, r io.Reader) (*ImportSummary, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, NewValidationError("File is not a valid xlsx workbook")
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("Workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	summary := &ImportSummary{}
	questions := make([]*models.Question, 0, len(rows))
	business := s.validator.GetBusinessValidator()

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if isBlankRow(row) {
			continue
		}
		if len(row) < importMinColumns {
			summary.SkippedCount++
			summary.Errors = append(summary.Errors, fmt.Sprintf("Row %d: expected at least %d columns", i+1, importMinColumns))
			continue
		}

		text := strings.TrimSpace(row[0])
		options := []string{
			strings.TrimSpace(row[1]),
			strings.TrimSpace(row[2]),
			strings.TrimSpace(row[3]),
			strings.TrimSpace(row[4]),
		}
		correct := strings.TrimSpace(row[5])

		if errs := business.ValidateQuestionFields(text, options, correct); len(errs) > 0 {
			summary.SkippedCount++
			summary.Errors = append(summary.Errors, fmt.Sprintf("Row %d: %s", i+1, errs.First()))
			continue
		}

		question := &models.Question{
			Text:          text,
			CorrectAnswer: correct,
			Category:      models.CategoryGeneral,
			Difficulty:    models.DifficultyMedium,
			CreatedBy:     creatorID,
		}
		if err := question.SetOptions(options); err != nil {
			return nil, fmt.Errorf("failed to encode options: %w", err)
		}
		if len(row) > 6 && strings.TrimSpace(row[6]) != "" {
			question.Category = strings.TrimSpace(row[6])
		}
		if len(row) > 7 && strings.TrimSpace(row[7]) != "" {
			question.Difficulty = strings.TrimSpace(row[7])
		}
		if len(row) > 8 && strings.TrimSpace(row[8]) != "" {
			explanation := strings.TrimSpace(row[8])
			question.Explanation = &explanation
		}
		questions = append(questions, question)
	}

	if len(questions) > 0 {
		if err := s.repo.Question().CreateBatch(ctx, questions); err != nil {
			return nil, fmt.Errorf("failed to import questions: %w", err)
		}
	}
	summary.InsertedCount = len(questions)
	summary.Inserted = questions

	s.logger.Info("Workbook imported", "inserted", summary.InsertedCount, "skipped", summary.SkippedCount)
	return summary, nil
}

func (s *DefaultQuestionService) buildQuestion(creatorID string, req *validator.CreateQuestionRequest) (*models.Question, error) {
	if errs := s.validator.GetBusinessValidator().ValidateQuestionFields(req.Question, req.Options, req.Correct); len(errs) > 0 {
		return nil, errs
	}

	question := &models.Question{
		Text:          strings.TrimSpace(req.Question),
		CorrectAnswer: req.Correct,
		Category:      models.CategoryGeneral,
		Difficulty:    models.DifficultyMedium,
		CreatedBy:     creatorID,
	}
	if err := question.SetOptions(req.Options); err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}
	if req.Category != "" {
		question.Category = req.Category
	}
	if req.Difficulty != "" {
		question.Difficulty = req.Difficulty
	}
	if req.Explanation != "" {
		explanation := req.Explanation
		question.Explanation = &explanation
	}
	return question, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
