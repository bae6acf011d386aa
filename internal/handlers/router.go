package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aptihub/aptitude-service/internal/models"
	"github.com/aptihub/aptitude-service/internal/services"
	"github.com/aptihub/aptitude-service/internal/utils"
)

type HandlerManager struct {
	serviceManager  services.ServiceManager
	authHandler     *AuthHandler
	questionHandler *QuestionHandler
	examHandler     *ExamHandler
	resultHandler   *ResultHandler
	userHandler     *UserHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		serviceManager:  serviceManager,
		authHandler:     NewAuthHandler(serviceManager.Auth(), logger),
		questionHandler: NewQuestionHandler(serviceManager.Question(), logger),
		examHandler:     NewExamHandler(serviceManager.Exam(), logger),
		resultHandler:   NewResultHandler(serviceManager.Result(), logger),
		userHandler:     NewUserHandler(serviceManager.User(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	authenticated := AuthMiddleware(hm.serviceManager.Auth())
	adminOnly := RequireRoleMiddleware(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", hm.authHandler.Signup)
			auth.POST("/login", hm.authHandler.Login)
			auth.GET("/me", authenticated, hm.authHandler.Me)
		}

		// Question routes - the list and count back the free-test page and
		// stay public, writes are admin only
		questions := v1.Group("/questions")
		{
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.GET("/count", hm.questionHandler.CountQuestions)
			questions.GET("/:id", authenticated, hm.questionHandler.GetQuestion)

			questions.POST("", authenticated, adminOnly, hm.questionHandler.CreateQuestion)
			questions.POST("/bulk", authenticated, adminOnly, hm.questionHandler.CreateQuestionsBulk)
			questions.POST("/import", authenticated, adminOnly, hm.questionHandler.ImportQuestions)
			questions.PUT("/:id", authenticated, adminOnly, hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", authenticated, adminOnly, hm.questionHandler.DeleteQuestion)
		}

		// Exam assembly
		v1.GET("/exams", authenticated, hm.examHandler.GenerateExam)

		// Result routes
		results := v1.Group("/results")
		results.Use(authenticated)
		{
			results.POST("", hm.resultHandler.SubmitResult)
			results.GET("/me/stats", hm.resultHandler.GetMyStats)
			results.GET("/me/history", hm.resultHandler.GetMyHistory)
			results.GET("/leaderboard", hm.resultHandler.GetLeaderboard)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("", authenticated, adminOnly, hm.userHandler.ListUsers)
			// Public: backs the landing page counter.
			users.GET("/count/students", hm.userHandler.CountStudents)
			users.PUT("/me", authenticated, hm.userHandler.UpdateMe)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": "aptitude-service",
		})
	})
}
