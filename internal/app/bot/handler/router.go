package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gigmatch/pkg/logger"
	"gigmatch/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	profileHandler *ProfileHandler,
	catalogHandler *CatalogHandler,
	matchingHandler *MatchingHandler,
	reviewHandler *ReviewHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("bot-backend"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "bot-backend",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Профили фрилансеров: чтение открыто, мутации требуют сервисный токен
	users := router.Group("/users")
	{
		users.GET("/:chat_id", profileHandler.GetProfile)

		protected := users.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("", profileHandler.RegisterUser)
			protected.POST("/:chat_id/availability", profileHandler.ToggleAvailability)
			protected.POST("/:chat_id/categories/:category_id", profileHandler.ToggleCategory)
		}
	}

	// Каталог категорий - только чтение
	categories := router.Group("/categories")
	{
		categories.GET("", catalogHandler.GetCategories)
		categories.GET("/:title", catalogHandler.GetCategory)
	}

	// Заказы и подбор кандидатов - только чтение
	jobs := router.Group("/jobs")
	{
		jobs.GET("/:job_id", matchingHandler.GetJob)
		jobs.GET("/:job_id/freelancers", matchingHandler.GetFreelancersForJob)
	}

	// Отзывы
	reviews := router.Group("/reviews")
	{
		reviews.GET("/:review_id", reviewHandler.GetReview)

		protected := reviews.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("", reviewHandler.CreateReview)
		}
	}

	return router
}
