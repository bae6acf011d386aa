package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aptihub/aptitude-service/internal/services"
	"github.com/aptihub/aptitude-service/internal/utils"
)

type ExamHandler struct {
	BaseHandler
	service services.ExamService
}

func NewExamHandler(service services.ExamService, logger utils.Logger) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GenerateExam assembles a fresh exam paper
// @Summary Generate an exam paper
// @Tags exams
// @Produce json
// @Success 200 {object} services.ExamResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Question bank is empty"
// @Router /exams [get]
func (h *ExamHandler) GenerateExam(c *gin.Context) {
	response, err := h.service.GenerateExam(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
