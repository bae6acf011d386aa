package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Conventional categories. Category stays free text in storage; the exam
// assembler buckets by substring match, so variants like "Logical Reasoning"
// still land in the right bucket.
const (
	CategoryReasoning    = "Reasoning"
	CategoryQuantitative = "Quantitative"
	CategoryVerbal       = "Verbal"
	CategoryGeneral      = "General"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

type Question struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Text string `json:"text" gorm:"type:text;not null"`

	// Options holds exactly four strings as JSONB. CorrectAnswer must equal
	// one of them; the business validator enforces both on every write path.
	Options       datatypes.JSON `json:"options" gorm:"type:jsonb;not null"`
	CorrectAnswer string         `json:"correctAnswer" gorm:"not null;size:500"`

	Category    string  `json:"category" gorm:"size:100;default:General;index"`
	Difficulty  string  `json:"difficulty" gorm:"size:50;default:Medium"`
	Explanation *string `json:"explanation" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"index;size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Creator *User `json:"-" gorm:"foreignKey:CreatedBy"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionList decodes the stored options. A malformed column yields an empty
// slice rather than an error; writes go through SetOptions so this only
// happens on hand-edited data.
func (q *Question) OptionList() []string {
	var opts []string
	if len(q.Options) == 0 {
		return nil
	}
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}

func (q *Question) SetOptions(opts []string) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.Options = data
	return nil
}
