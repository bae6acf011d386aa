package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aptihub/aptitude-service/internal/services"
	"github.com/aptihub/aptitude-service/internal/utils"
	"github.com/aptihub/aptitude-service/internal/validator"
)

// BaseHandler carries the shared handler dependencies and error mapping.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// LogError logs an error with the request-scoped logger.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	utils.FromContext(c, h.logger).Error(msg, "error", err, "path", c.Request.URL.Path)
}

// handleServiceError maps service errors to HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: validationErrs.First(),
			Details: validationErrs.Error(),
		})
		return
	}

	switch services.CodeOf(err) {
	case services.ErrCodeValidation:
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: services.MessageOf(err)})
	case services.ErrCodeUnauthenticated:
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: services.MessageOf(err)})
	case services.ErrCodeForbidden:
		c.JSON(http.StatusForbidden, ErrorResponse{Message: services.MessageOf(err)})
	case services.ErrCodeNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{Message: services.MessageOf(err)})
	case services.ErrCodeConflict:
		c.JSON(http.StatusConflict, ErrorResponse{Message: services.MessageOf(err)})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// parsePagination reads page/limit query parameters, zero-based page.
func parsePagination(c *gin.Context, defaultLimit int) (page, limit int) {
	limit = defaultLimit
	if p, err := parseQueryInt(c, "page"); err == nil && p >= 0 {
		page = p
	}
	if l, err := parseQueryInt(c, "limit"); err == nil && l > 0 {
		limit = l
	}
	return page, limit
}

func parseQueryInt(c *gin.Context, key string) (int, error) {
	value := c.Query(key)
	if value == "" {
		return 0, errors.New("missing query parameter")
	}
	return strconv.Atoi(value)
}
