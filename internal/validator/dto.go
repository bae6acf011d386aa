package validator

// SignupRequest is the POST /auth/signup body. Role is optional free text;
// it is mapped through models.ParseRole, never compared raw.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}

// LoginRequest is the POST /auth/login body. Role is required: login is
// role-scoped and rejected when the stored role differs.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// UpdateMeRequest is the PUT /users/me body. All fields optional; empty
// strings leave the stored value untouched.
type UpdateMeRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// CreateQuestionRequest is the POST /questions body. Field names follow the
// wire format of the admin question form ("question"/"correct").
type CreateQuestionRequest struct {
	Question    string   `json:"question" validate:"required"`
	Options     []string `json:"options" validate:"required"`
	Correct     string   `json:"correct" validate:"required"`
	Category    string   `json:"category"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// UpdateQuestionRequest is the PUT /questions/:id body. The edit form sends
// the full document under different names than the create form.
type UpdateQuestionRequest struct {
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Category      string   `json:"category"`
	Explanation   *string  `json:"explanation"`
}

// BulkCreateQuestionsRequest is the POST /questions/bulk body.
type BulkCreateQuestionsRequest struct {
	Questions []CreateQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// SubmitResultRequest is the POST /results body. The score is computed
// server-side from the answers; a client-supplied score is ignored.
type SubmitResultRequest struct {
	Answers []SubmittedAnswerRequest `json:"answers" validate:"required"`
}

type SubmittedAnswerRequest struct {
	QuestionID uint    `json:"questionId" validate:"required"`
	Answer     *string `json:"answer"`
}
