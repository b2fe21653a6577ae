package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dentalcare/clinic-service/internal/app/clinic/entity"
	"dentalcare/pkg/logger"
	"dentalcare/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	appointmentHandler *AppointmentHandler,
	catalogHandler *CatalogHandler,
	recordHandler *RecordHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("clinic-service"))

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
			"service": "clinic-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Записи на прием - все маршруты требуют аутентификации
	appointments := router.Group("/api/appointments")
	appointments.Use(authMiddleware.Authenticate())
	{
		appointments.POST("", authMiddleware.RequireRole(entity.RoleReceptionist, entity.RoleAdmin), appointmentHandler.Create)
		appointments.GET("/my", appointmentHandler.ListMy)
		appointments.GET("/all", authMiddleware.RequireRole(entity.RoleReceptionist, entity.RoleAdmin), appointmentHandler.ListAll)
		appointments.GET("/:id", appointmentHandler.GetByID)
		appointments.PUT("/:id", appointmentHandler.Update)
		appointments.DELETE("/:id", appointmentHandler.Cancel)
		appointments.POST("/:id/confirm", authMiddleware.RequireRole(entity.RoleReceptionist, entity.RoleAdmin), appointmentHandler.Confirm)
		appointments.POST("/:id/complete", authMiddleware.RequireRole(entity.RoleDentist, entity.RoleAdmin), appointmentHandler.Complete)
	}

	// Справочник врачей: чтение публичное, мутации только для админа
	dentists := router.Group("/api/dentists")
	{
		dentists.GET("", catalogHandler.ListDentists)
		dentists.GET("/:id", catalogHandler.GetDentist)

		adminDentists := dentists.Group("")
		adminDentists.Use(authMiddleware.Authenticate())
		adminDentists.Use(authMiddleware.RequireRole(entity.RoleAdmin))
		{
			adminDentists.POST("", catalogHandler.CreateDentist)
			adminDentists.PUT("/:id", catalogHandler.UpdateDentist)
			adminDentists.DELETE("/:id", catalogHandler.DeleteDentist)
		}
	}

	// Прейскурант услуг: чтение публичное, мутации только для админа
	services := router.Group("/api/services")
	{
		services.GET("", catalogHandler.ListServices)
		services.GET("/:id", catalogHandler.GetService)

		adminServices := services.Group("")
		adminServices.Use(authMiddleware.Authenticate())
		adminServices.Use(authMiddleware.RequireRole(entity.RoleAdmin))
		{
			adminServices.POST("", catalogHandler.CreateService)
			adminServices.PUT("/:id", catalogHandler.UpdateService)
			adminServices.DELETE("/:id", catalogHandler.DeleteService)
		}
	}

	// Медицинские карты - все маршруты требуют аутентификации
	records := router.Group("/api/records")
	records.Use(authMiddleware.Authenticate())
	{
		records.POST("", authMiddleware.RequireRole(entity.RoleDentist, entity.RoleAdmin), recordHandler.Create)
		records.GET("/patient/:username", recordHandler.GetByPatient)
		records.PUT("/:id", authMiddleware.RequireRole(entity.RoleDentist, entity.RoleAdmin), recordHandler.Update)
		records.DELETE("/:id", authMiddleware.RequireRole(entity.RoleAdmin), recordHandler.Delete)
	}

	return router
}
