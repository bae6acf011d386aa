package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// SubmittedAnswer is one (question, answer) pair as submitted by the client.
// Answer is empty for unanswered questions.
type SubmittedAnswer struct {
	QuestionID uint   `json:"questionId"`
	Answer     string `json:"answer"`
}

// Result is the persisted record of one completed exam attempt. Results are
// immutable once created; there is no update or delete path.
type Result struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	UserID *string `json:"userId" gorm:"index;size:36"`
	Score  int     `json:"score" gorm:"not null"`

	// Answers holds the ordered raw (questionId, answer) pairs as JSONB.
	// The grading breakdown is not persisted.
	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"`

	Date time.Time `json:"date" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (Result) TableName() string {
	return "results"
}

func (r *Result) AnswerList() []SubmittedAnswer {
	var answers []SubmittedAnswer
	if len(r.Answers) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Answers, &answers); err != nil {
		return nil
	}
	return answers
}

func (r *Result) SetAnswers(answers []SubmittedAnswer) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	r.Answers = data
	return nil
}
