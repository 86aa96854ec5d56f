package router

import (
	"github.com/gin-gonic/gin"

	"bmgrades.app/tracker/internal/http/handler"
	"bmgrades.app/tracker/internal/service"
)

type RouterConfig struct {
	// ScanBodyLimit caps the scan request body in bytes.
	ScanBodyLimit int64
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		curriculumHandler := handler.NewCurriculumHandler(services.Catalog())
		CurriculumRouter(v1.Group("/curricula"), curriculumHandler)

		users := v1.Group("/users")
		userHandler := handler.NewUserHandler(services.Users())
		UserRouter(users, userHandler)

		gradebookHandler := handler.NewGradebookHandler(services.Gradebook())
		GradebookRouter(users.Group("/:user_id"), gradebookHandler)

		scanHandler := handler.NewScanHandler(services.Scans())
		ScanRouter(users.Group("/:user_id"), scanHandler, cfg.ScanBodyLimit)
	}
}
