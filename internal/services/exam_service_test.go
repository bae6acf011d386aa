package services

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/aptihub/aptitude-service/internal/models"
)

func seedQuestions(f *fakeQuestionRepo, category string, n int) {
	for i := 0; i < n; i++ {
		mustQuestion(f,
			fmt.Sprintf("%s question %d", category, i),
			"A",
			category,
			[]string{"a", "b", "c", "d"},
		)
	}
}

func TestAssembleExamBalancedPool(t *testing.T) {
	repo := newFakeRepository()
	seedQuestions(repo.questions, models.CategoryReasoning, 20)
	seedQuestions(repo.questions, models.CategoryQuantitative, 20)
	seedQuestions(repo.questions, models.CategoryVerbal, 20)

	pool, err := repo.questions.List(context.Background(), listAllFilters())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	picked := AssembleExam(pool, rng)

	if len(picked) != ExamSize {
		t.Fatalf("exam size = %d, want %d", len(picked), ExamSize)
	}

	seen := make(map[uint]bool)
	perCategory := make(map[string]int)
	for _, q := range picked {
		if seen[q.ID] {
			t.Errorf("question %d picked twice despite a large pool", q.ID)
		}
		seen[q.ID] = true
		perCategory[q.Category]++
	}

	for _, category := range []string{models.CategoryReasoning, models.CategoryQuantitative, models.CategoryVerbal} {
		if perCategory[category] != QuestionsPerCategory {
			t.Errorf("category %s count = %d, want %d", category, perCategory[category], QuestionsPerCategory)
		}
	}
}

func TestAssembleExamSubstringCategories(t *testing.T) {
	repo := newFakeRepository()
	seedQuestions(repo.questions, "Logical Reasoning", 15)
	seedQuestions(repo.questions, "quantitative aptitude", 15)
	seedQuestions(repo.questions, "VERBAL ABILITY", 15)

	pool, _ := repo.questions.List(context.Background(), listAllFilters())
	picked := AssembleExam(pool, rand.New(rand.NewSource(7)))

	if len(picked) != ExamSize {
		t.Fatalf("exam size = %d, want %d", len(picked), ExamSize)
	}
	perCategory := make(map[string]int)
	for _, q := range picked {
		perCategory[q.Category]++
	}
	if perCategory["Logical Reasoning"] != QuestionsPerCategory {
		t.Errorf("reasoning bucket = %d, want %d", perCategory["Logical Reasoning"], QuestionsPerCategory)
	}
}

func TestAssembleExamBackfillsFromUncategorized(t *testing.T) {
	repo := newFakeRepository()
	seedQuestions(repo.questions, models.CategoryReasoning, 5)
	seedQuestions(repo.questions, models.CategoryGeneral, 40)

	pool, _ := repo.questions.List(context.Background(), listAllFilters())
	picked := AssembleExam(pool, rand.New(rand.NewSource(1)))

	if len(picked) != ExamSize {
		t.Fatalf("exam size = %d, want %d", len(picked), ExamSize)
	}
	seen := make(map[uint]bool)
	for _, q := range picked {
		if seen[q.ID] {
			t.Errorf("question %d picked twice despite a sufficient pool", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestAssembleExamSmallPoolRepeats(t *testing.T) {
	repo := newFakeRepository()
	seedQuestions(repo.questions, models.CategoryGeneral, 4)

	pool, _ := repo.questions.List(context.Background(), listAllFilters())
	picked := AssembleExam(pool, rand.New(rand.NewSource(3)))

	// A 4-question bank still yields a full paper, with repeats.
	if len(picked) != ExamSize {
		t.Fatalf("exam size = %d, want %d", len(picked), ExamSize)
	}
}

func TestGenerateExamResponseShape(t *testing.T) {
	repo := newFakeRepository()
	seedQuestions(repo.questions, models.CategoryReasoning, 40)

	svc := NewExamService(repo, testLogger())
	response, err := svc.GenerateExam(context.Background())
	if err != nil {
		t.Fatalf("GenerateExam: %v", err)
	}
	if len(response.Questions) != ExamSize {
		t.Fatalf("exam size = %d, want %d", len(response.Questions), ExamSize)
	}
	for _, q := range response.Questions {
		if len(q.Options) != models.OptionCount {
			t.Errorf("question %d has %d options, want %d", q.ID, len(q.Options), models.OptionCount)
		}
		if q.CorrectAnswer == "" {
			t.Errorf("question %d is missing its correct answer", q.ID)
		}
		if q.Category == "" {
			t.Errorf("question %d is missing its category", q.ID)
		}
	}
}

func TestGenerateExamEmptyBank(t *testing.T) {
	svc := NewExamService(newFakeRepository(), testLogger())
	if _, err := svc.GenerateExam(context.Background()); err == nil {
		t.Fatal("expected an error for an empty question bank")
	}
}
