package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aptihub/aptitude-service/internal/services"
	"github.com/aptihub/aptitude-service/internal/utils"
	"github.com/aptihub/aptitude-service/internal/validator"
)

type UserHandler struct {
	BaseHandler
	service services.UserService
}

func NewUserHandler(service services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListUsers lists registered users
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number (default: 0)"
// @Param limit query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden - admin only"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c, 20)

	users, total, err := h.service.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// CountStudents returns the number of registered students
// @Summary Count registered students
// @Tags users
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /users/count/students [get]
func (h *UserHandler) CountStudents(c *gin.Context) {
	count, err := h.service.CountStudents(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// UpdateMe updates the authenticated user's own profile
// @Summary Update my profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body validator.UpdateMeRequest true "Profile update request"
// @Success 200 {object} map[string]models.UserInfo
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Conflict - email already registered"
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req validator.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, exists := GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Info()})
}
