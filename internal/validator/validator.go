package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aptihub/aptitude-service/internal/models"
)

// Validator wraps struct validation and the business rules that plain tags
// cannot express.
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

func New() *Validator {
	return &Validator{
		validate: validator.New(),
		business: NewBusinessValidator(),
	}
}

// Validate runs tag validation on any request struct.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// BusinessValidator handles question-bank business rules.
type BusinessValidator struct{}

func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{}
}

// ValidateQuestionFields checks the invariants shared by create, update,
// bulk and import: non-empty text, exactly four options, correct answer
// present among the options. Messages are surfaced verbatim to clients.
func (bv *BusinessValidator) ValidateQuestionFields(text string, options []string, correct string) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(text) == "" {
		errs = append(errs, ValidationError{
			Field:   "text",
			Message: "Question text is required",
			Rule:    "required",
		})
	}

	if len(options) != models.OptionCount {
		errs = append(errs, ValidationError{
			Field:   "options",
			Message: "Four options are required",
			Value:   len(options),
			Rule:    "option_count",
		})
	} else {
		for _, opt := range options {
			if strings.TrimSpace(opt) == "" {
				errs = append(errs, ValidationError{
					Field:   "options",
					Message: "Options cannot be empty",
					Rule:    "option_text",
				})
				break
			}
		}
	}

	if strings.TrimSpace(correct) == "" {
		errs = append(errs, ValidationError{
			Field:   "correctAnswer",
			Message: "Correct answer is required",
			Rule:    "required",
		})
		return errs
	}

	if len(options) == models.OptionCount && !containsOption(options, correct) {
		errs = append(errs, ValidationError{
			Field:   "correctAnswer",
			Message: "Correct answer must be one of the options",
			Value:   correct,
			Rule:    "correct_in_options",
		})
	}

	return errs
}

// containsOption accepts the literal option text as well as the letter and
// index encodings the scoring engine normalizes.
func containsOption(options []string, correct string) bool {
	for _, opt := range options {
		if opt == correct {
			return true
		}
	}
	trimmed := strings.TrimSpace(correct)
	if len(trimmed) == 1 {
		c := trimmed[0]
		if (c >= 'A' && c <= 'D') || (c >= 'a' && c <= 'd') {
			return true
		}
		if c >= '0' && c <= '3' {
			return true
		}
	}
	return false
}
