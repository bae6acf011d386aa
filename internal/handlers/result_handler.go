package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aptihub/aptitude-service/internal/services"
	"github.com/aptihub/aptitude-service/internal/utils"
	"github.com/aptihub/aptitude-service/internal/validator"
)

type ResultHandler struct {
	BaseHandler
	service services.ResultService
}

func NewResultHandler(service services.ResultService, logger utils.Logger) *ResultHandler {
	return &ResultHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// SubmitResult grades and records an exam attempt
// @Summary Submit exam answers
// @Tags results
// @Accept json
// @Produce json
// @Param request body validator.SubmitResultRequest true "Submitted answers"
// @Success 201 {object} services.ResultResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /results [post]
func (h *ResultHandler) SubmitResult(c *gin.Context) {
	var req validator.SubmitResultRequest
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

	response, err := h.service.SubmitResult(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetMyStats returns the authenticated user's statistics
// @Summary Get my statistics
// @Tags results
// @Produce json
// @Success 200 {object} services.StatsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /results/me/stats [get]
func (h *ResultHandler) GetMyStats(c *gin.Context) {
	userID, exists := GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	stats, err := h.service.GetMyStats(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetMyHistory returns one page of the user's attempt history
// @Summary Get my attempt history
// @Tags results
// @Produce json
// @Param page query int false "Page number (default: 0)"
// @Param limit query int false "Page size (default: 5)"
// @Success 200 {object} services.HistoryResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /results/me/history [get]
func (h *ResultHandler) GetMyHistory(c *gin.Context) {
	userID, exists := GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	page, limit := parsePagination(c, 5)
	history, err := h.service.GetHistory(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetLeaderboard returns the top performers
// @Summary Get the leaderboard
// @Tags results
// @Produce json
// @Success 200 {array} services.LeaderboardEntry
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /results/leaderboard [get]
func (h *ResultHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.service.GetLeaderboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
