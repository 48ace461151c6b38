package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/taskbank-backend/internal/handlers"
	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/middleware"
)

type RouterConfig struct {
	TaskHandler      *handlers.TaskHandler
	WorkHandler      *handlers.WorkHandler
	DocumentHandler  *handlers.DocumentHandler
	MathCacheHandler *handlers.MathCacheHandler
	Log              *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Tasks and groups
		api.POST("/tasks", cfg.TaskHandler.Create)
		api.POST("/tasks/check-math", cfg.TaskHandler.CheckMath)
		api.POST("/tasks/:id/images", cfg.TaskHandler.AddImage)
		api.POST("/groups", cfg.TaskHandler.CreateGroup)
		api.POST("/groups/:id/tasks/:task_id", cfg.TaskHandler.AddToGroup)

		// Works and variants
		api.POST("/works", cfg.WorkHandler.Create)
		api.POST("/works/:id/groups", cfg.WorkHandler.AddGroup)
		api.POST("/works/:id/variants", cfg.WorkHandler.GenerateVariants)
		api.GET("/works/:id/variants", cfg.WorkHandler.ListVariants)

		// Documents
		api.POST("/works/:id/documents", cfg.DocumentHandler.Generate)

		// Math status cache
		if cfg.MathCacheHandler != nil {
			api.GET("/math-cache/stats", cfg.MathCacheHandler.Stats)
			api.POST("/math-cache/refresh/:task_id", cfg.MathCacheHandler.Refresh)
			api.POST("/math-cache/warmup", cfg.MathCacheHandler.Warmup)
			api.POST("/math-cache/clear", cfg.MathCacheHandler.Clear)
		}
	}

	return router
}
