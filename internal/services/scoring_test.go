package services

import (
	"testing"

	"github.com/aptihub/aptitude-service/internal/models"
)

func TestCanonicalCorrectOption(t *testing.T) {
	options := []string{"Paris", "London", "Berlin", "Madrid"}

	tests := []struct {
		name    string
		correct string
		want    string
	}{
		{name: "literal", correct: "Paris", want: "Paris"},
		{name: "upper letter", correct: "B", want: "London"},
		{name: "lower letter", correct: "d", want: "Madrid"},
		{name: "index", correct: "2", want: "Berlin"},
		{name: "padded letter", correct: " C ", want: "Berlin"},
		{name: "out of range index", correct: "7", want: "7"},
		{name: "padded literal", correct: "  Madrid", want: "Madrid"},
		{name: "empty", correct: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalCorrectOption(tt.correct, options); got != tt.want {
				t.Errorf("CanonicalCorrectOption(%q) = %q, want %q", tt.correct, got, tt.want)
			}
		})
	}
}

func TestCanonicalCorrectOptionTrimsResolvedOption(t *testing.T) {
	// Option text with stray whitespace still grades against the trimmed
	// selection when the key addresses it by letter or index.
	options := []string{" Paris ", "London", "Berlin", "Madrid"}
	if got := CanonicalCorrectOption("A", options); got != "Paris" {
		t.Errorf("CanonicalCorrectOption(%q) = %q, want %q", "A", got, "Paris")
	}
	if got := CanonicalCorrectOption("0", options); got != "Paris" {
		t.Errorf("CanonicalCorrectOption(%q) = %q, want %q", "0", got, "Paris")
	}
}

func TestCanonicalCorrectOptionShortOptions(t *testing.T) {
	// A letter addressing a missing option falls through to the literal.
	if got := CanonicalCorrectOption("D", []string{"yes", "no"}); got != "D" {
		t.Errorf("CanonicalCorrectOption = %q, want %q", got, "D")
	}
}

func TestGradeExam(t *testing.T) {
	q1 := &models.Question{ID: 1, CorrectAnswer: "Paris"}
	_ = q1.SetOptions([]string{"Paris", "London", "Berlin", "Madrid"})
	q2 := &models.Question{ID: 2, CorrectAnswer: "B"}
	_ = q2.SetOptions([]string{"3", "4", "5", "6"})
	q3 := &models.Question{ID: 3, CorrectAnswer: "1"}
	_ = q3.SetOptions([]string{"red", "green", "blue", "white"})
	questions := map[uint]*models.Question{1: q1, 2: q2, 3: q3}

	answers := []models.SubmittedAnswer{
		{QuestionID: 1, Answer: "Paris"},  // literal match
		{QuestionID: 2, Answer: "4"},      // letter key resolves to "4"
		{QuestionID: 3, Answer: "blue"},   // index key resolves to "green"
		{QuestionID: 99, Answer: "Paris"}, // unknown question
		{QuestionID: 1, Answer: ""},       // unanswered
	}

	score, breakdown := GradeExam(answers, questions)
	if score != 2 {
		t.Errorf("score = %d, want 2", score)
	}
	if len(breakdown) != len(answers) {
		t.Fatalf("breakdown length = %d, want %d", len(breakdown), len(answers))
	}

	wantCorrect := []bool{true, true, false, false, false}
	for i, want := range wantCorrect {
		if breakdown[i].IsCorrect != want {
			t.Errorf("breakdown[%d].IsCorrect = %v, want %v", i, breakdown[i].IsCorrect, want)
		}
	}

	// The breakdown reports the canonical correct option for review.
	if breakdown[1].CorrectAnswer != "4" {
		t.Errorf("breakdown[1].CorrectAnswer = %q, want %q", breakdown[1].CorrectAnswer, "4")
	}
	if breakdown[3].CorrectAnswer != "" {
		t.Errorf("breakdown[3].CorrectAnswer = %q, want empty for an unknown question", breakdown[3].CorrectAnswer)
	}
}

func TestGradeExamTrimsAnswers(t *testing.T) {
	q := &models.Question{ID: 1, CorrectAnswer: "Paris"}
	_ = q.SetOptions([]string{"Paris", "London", "Berlin", "Madrid"})

	score, _ := GradeExam(
		[]models.SubmittedAnswer{{QuestionID: 1, Answer: "  Paris  "}},
		map[uint]*models.Question{1: q},
	)
	if score != 1 {
		t.Errorf("score = %d, want 1", score)
	}
}

func TestGradeExamTrimsStoredOptions(t *testing.T) {
	// A letter key addressing a padded option grades a clean selection as
	// correct.
	q := &models.Question{ID: 1, CorrectAnswer: "A"}
	_ = q.SetOptions([]string{" Paris ", "London", "Berlin", "Madrid"})

	score, breakdown := GradeExam(
		[]models.SubmittedAnswer{{QuestionID: 1, Answer: "Paris"}},
		map[uint]*models.Question{1: q},
	)
	if score != 1 {
		t.Errorf("score = %d, want 1", score)
	}
	if !breakdown[0].IsCorrect {
		t.Error("breakdown[0].IsCorrect = false, want true")
	}
}
