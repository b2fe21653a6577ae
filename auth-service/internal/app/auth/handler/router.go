package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dentalcare/auth-service/internal/app/auth/entity"
	"dentalcare/pkg/logger"
	"dentalcare/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(authHandler *AuthHandler, userHandler *UserHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("auth-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "auth-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Публичные эндпоинты (без аутентификации)
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.GET("/verify", authHandler.VerifyEmail)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)

		// Logout работает по refresh токену и доступен без access токена:
		// клиент с истекшим access токеном должен мочь завершить сессию
		auth.POST("/logout", authHandler.Logout)

		// Защищенные эндпоинты (требуют аутентификации)
		protected := auth.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.GET("/me", authHandler.GetMe)
		}
	}

	// Управление пользователями - только для администраторов
	users := router.Group("/api/users")
	users.Use(authMiddleware.Authenticate())
	users.Use(authMiddleware.RequireRole(entity.RoleAdmin))
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.GetByID)
		users.PATCH("/:id", userHandler.Update)
		users.PATCH("/:id/role", userHandler.ChangeRole)
		users.DELETE("/:id", userHandler.Delete)
	}

	// Внутренние эндпоинты для clinic-service: вызываются с токеном
	// сотрудника, инициировавшего операцию
	internal := router.Group("/internal/users")
	internal.Use(authMiddleware.Authenticate())
	internal.Use(authMiddleware.RequireRole(entity.RoleAdmin, entity.RoleReceptionist, entity.RoleDentist))
	{
		internal.GET("/:username", userHandler.GetByUsername)
		internal.POST("/:username/promote-patient", userHandler.PromoteToPatient)
	}

	return router
}
