package services

import (
	"context"
	"io"

	"github.com/aptihub/aptitude-service/internal/models"
	"github.com/aptihub/aptitude-service/internal/validator"
)

// ===== RESPONSE DTOS =====

// AuthResponse is returned by signup and login: a bearer token plus the
// user's public profile.
type AuthResponse struct {
	Token string          `json:"token"`
	User  models.UserInfo `json:"user"`
}

// ExamQuestion is one item of an assembled exam paper. The correct answer
// and explanation ride along for the client's review screen; grading is
// still done server-side on submission.
type ExamQuestion struct {
	ID            uint     `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   *string  `json:"explanation,omitempty"`
	Category      string   `json:"category"`
}

// ExamResponse is one assembled exam paper.
type ExamResponse struct {
	Questions []ExamQuestion `json:"questions"`
}

// AnswerBreakdown reports the grading of one submitted answer.
type AnswerBreakdown struct {
	QuestionID    uint    `json:"questionId"`
	Selected      string  `json:"selected"`
	CorrectAnswer string  `json:"correctAnswer"`
	IsCorrect     bool    `json:"isCorrect"`
	Explanation   *string `json:"explanation,omitempty"`
	Category      string  `json:"category"`
}

// ResultResponse is returned by result submission: the computed score plus a
// per-question breakdown.
type ResultResponse struct {
	ResultID  uint              `json:"resultId"`
	Score     int               `json:"score"`
	Total     int               `json:"total"`
	Breakdown []AnswerBreakdown `json:"breakdown"`
}

// StatsResponse is a student's aggregate performance. Position is nil until
// the user has at least one attempt.
type StatsResponse struct {
	Attempts     int64   `json:"attempts"`
	DaysActive   int64   `json:"daysActive"`
	Position     *int    `json:"position"`
	TotalUsers   int64   `json:"totalUsers"`
	AverageScore float64 `json:"averageScore"`
}

// HistoryEntry is one past attempt in a user's history. Date is formatted
// MM/DD/YYYY for direct display.
type HistoryEntry struct {
	ID    uint   `json:"id"`
	Score int    `json:"score"`
	Date  string `json:"date"`
}

// HistoryResponse is one page of a user's attempt history, newest first.
type HistoryResponse struct {
	Results []HistoryEntry `json:"results"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}

// LeaderboardEntry is one ranked row: a user with their best score and
// average percentage across attempts.
type LeaderboardEntry struct {
	UserID     string  `json:"userId"`
	Name       string  `json:"name"`
	BestScore  int     `json:"bestScore"`
	AveragePct float64 `json:"averagePct"`
	Attempts   int64   `json:"attempts"`
}

// ImportSummary reports the outcome of an xlsx bulk import: the inserted
// questions plus the rows skipped for validation failures.
type ImportSummary struct {
	InsertedCount int                `json:"insertedCount"`
	SkippedCount  int                `json:"skippedCount"`
	Errors        []string           `json:"errors,omitempty"`
	Inserted      []*models.Question `json:"inserted"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Signup(ctx context.Context, req *validator.SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *validator.LoginRequest) (*AuthResponse, error)
	// Authenticate resolves a bearer token to the live user record.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type UserService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]models.UserInfo, int64, error)
	CountStudents(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, userID string, req *validator.UpdateMeRequest) (*models.User, error)
}

type QuestionService interface {
	CreateQuestion(ctx context.Context, creatorID string, req *validator.CreateQuestionRequest) (*models.Question, error)
	CreateQuestions(ctx context.Context, creatorID string, req *validator.BulkCreateQuestionsRequest) ([]*models.Question, error)
	GetQuestion(ctx context.Context, id uint) (*models.Question, error)
	ListQuestions(ctx context.Context, category string, page, limit int) ([]*models.Question, error)
	CountQuestions(ctx context.Context) (int64, error)
	UpdateQuestion(ctx context.Context, id uint, req *validator.UpdateQuestionRequest) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id uint) error
	// ImportWorkbook parses an xlsx upload and inserts the valid rows.
	ImportWorkbook(ctx context.Context, creatorID string, r io.Reader) (*ImportSummary, error)
}

type ExamService interface {
	// GenerateExam assembles a category-balanced random exam paper.
	GenerateExam(ctx context.Context) (*ExamResponse, error)
}

type ResultService interface {
	// SubmitResult grades the submitted answers server-side and persists the
	// attempt.
	SubmitResult(ctx context.Context, userID string, req *validator.SubmitResultRequest) (*ResultResponse, error)
	GetMyStats(ctx context.Context, userID string) (*StatsResponse, error)
	GetHistory(ctx context.Context, userID string, page, limit int) (*HistoryResponse, error)
	GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}

// ServiceManager wires the services together and owns their shared
// lifecycle.
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Question() QuestionService
	Exam() ExamService
	Result() ResultService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
	HealthCheck(ctx context.Context) error
}
