package services

import (
	"strings"

	"github.com/aptihub/aptitude-service/internal/models"
)

// CanonicalCorrectOption resolves a stored correct answer to the literal
// option text, trimmed. Three encodings appear in the bank: the option text
// itself, a single letter A-D addressing the option by position, and a bare
// index 0-3. Out-of-range letters and indices fall through to a literal
// comparison.
func CanonicalCorrectOption(correct string, options []string) string {
	trimmed := strings.TrimSpace(correct)
	if len(trimmed) == 1 {
		c := trimmed[0]
		if c >= 'A' && c <= 'D' {
			if i := int(c - 'A'); i < len(options) {
				return strings.TrimSpace(options[i])
			}
		}
		if c >= 'a' && c <= 'd' {
			if i := int(c - 'a'); i < len(options) {
				return strings.TrimSpace(options[i])
			}
		}
		if c >= '0' && c <= '9' {
			if i := int(c - '0'); i < len(options) {
				return strings.TrimSpace(options[i])
			}
		}
	}
	return trimmed
}

// GradeExam scores submitted answers against the question bank. An answer is
// correct when it matches the question's canonical correct option after
// trimming; unanswered questions and unknown question ids grade incorrect.
func GradeExam(answers []models.SubmittedAnswer, questions map[uint]*models.Question) (int, []AnswerBreakdown) {
	score := 0
	breakdown := make([]AnswerBreakdown, 0, len(answers))

	for _, answer := range answers {
		entry := AnswerBreakdown{
			QuestionID: answer.QuestionID,
			Selected:   answer.Answer,
		}
		if q, ok := questions[answer.QuestionID]; ok {
			canonical := CanonicalCorrectOption(q.CorrectAnswer, q.OptionList())
			entry.CorrectAnswer = canonical
			entry.Explanation = q.Explanation
			entry.Category = q.Category
			if answer.Answer != "" {
				entry.IsCorrect = strings.TrimSpace(answer.Answer) == canonical
			}
		}
		if entry.IsCorrect {
			score++
		}
		breakdown = append(breakdown, entry)
	}

	return score, breakdown
}
