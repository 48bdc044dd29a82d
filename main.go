package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/controllers"
	"github.com/stitchly-app/stitchly-api/middleware"
	"github.com/stitchly-app/stitchly-api/models"
	"github.com/stitchly-app/stitchly-api/services"
)

func main() {
	log.Println("Starting Stitchly API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	config.SetConfig(cfg)

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Tailor{},
		&models.Client{},
		&models.Category{},
		&models.Service{},
		&models.Order{},
		&models.OrderService{},
		&models.Invoice{},
		&models.Payment{},
		&models.Availability{},
		&models.Review{},
		&models.Message{},
		&models.Notification{},
		&models.Advertisement{},
		&models.Measurement{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.PrometheusMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Public surface
		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)
		v1.GET("/tailors", controllers.ListTailors)
		v1.GET("/tailors/:id", controllers.GetTailorPublicProfile)
		v1.GET("/categories", controllers.ListCategories)
		v1.GET("/advertisements", controllers.ListActiveAdvertisements)
	}

	client := v1.Group("/client")
	client.Use(middleware.Authenticate(cfg), middleware.RequireRole(models.RoleClient))
	{
		client.GET("/orders", controllers.ListClientOrders)
		client.POST("/orders", controllers.CreateOrder)
		client.GET("/orders/:id", controllers.GetClientOrder)
		client.POST("/orders/:id/images", controllers.AttachOrderImages)
		client.POST("/orders/:id/cancel", controllers.CancelClientOrder)
		client.GET("/orders/:id/invoice", controllers.GetClientInvoice)
		client.POST("/orders/:id/payment", controllers.PayClientOrder)
		client.GET("/orders/:id/track", controllers.TrackClientOrder)
		client.POST("/tailors/:id/slots", controllers.GetTimeSlots)

		client.GET("/reviews", controllers.ListClientReviews)
		client.POST("/reviews", controllers.CreateReview)
		client.PUT("/reviews/:id", controllers.UpdateReview)
		client.DELETE("/reviews/:id", controllers.DeleteReview)

		client.GET("/profile", controllers.GetClientProfile)
		client.PUT("/profile", controllers.UpdateClientProfile)
		client.PUT("/password", controllers.ChangePassword)

		client.GET("/measurements", controllers.ListMeasurements)
		client.POST("/measurements", controllers.CreateMeasurement)
		client.PUT("/measurements/:id", controllers.UpdateMeasurement)
		client.DELETE("/measurements/:id", controllers.DeleteMeasurement)

		client.GET("/notifications", controllers.ClientListNotifications)
		client.GET("/notifications/unread-count", controllers.ClientUnreadNotificationCount)
		client.PUT("/notifications/read-all", controllers.ClientMarkAllNotificationsRead)
		client.PUT("/notifications/:id/read", controllers.ClientMarkNotificationRead)

		client.GET("/messages", controllers.ClientListConversations)
		client.POST("/messages", controllers.ClientSendMessage)
		client.GET("/messages/unread-count", controllers.ClientUnreadMessageCount)
		client.GET("/messages/:id", controllers.ClientGetThread)
	}

	tailor := v1.Group("/tailor")
	tailor.Use(middleware.Authenticate(cfg), middleware.RequireRole(models.RoleTailor))
	{
		tailor.GET("/orders", controllers.ListTailorOrders)
		tailor.GET("/orders/stats", controllers.GetTailorOrderStats)
		tailor.GET("/orders/:id", controllers.GetTailorOrder)
		tailor.POST("/orders/:id/accept", controllers.AcceptTailorOrder)
		tailor.POST("/orders/:id/decline", controllers.DeclineTailorOrder)
		tailor.PUT("/orders/:id/status", controllers.UpdateTailorOrderStatus)

		tailor.GET("/availabilities", controllers.ListAvailabilities)
		tailor.POST("/availabilities", controllers.CreateAvailability)
		tailor.PUT("/availabilities", controllers.BulkSetAvailabilities)
		tailor.PUT("/availabilities/:id", controllers.UpdateAvailability)
		tailor.DELETE("/availabilities/:id", controllers.DeleteAvailability)

		tailor.GET("/services", controllers.ListTailorServices)
		tailor.POST("/services", controllers.CreateTailorService)
		tailor.PUT("/services/:id", controllers.UpdateTailorService)
		tailor.PUT("/services/:id/toggle", controllers.ToggleTailorService)
		tailor.DELETE("/services/:id", controllers.DeleteTailorService)

		tailor.GET("/profile", controllers.GetTailorProfile)
		tailor.PUT("/profile", controllers.UpdateTailorProfile)
		tailor.PUT("/password", controllers.ChangePassword)

		tailor.GET("/notifications", controllers.TailorListNotifications)
		tailor.GET("/notifications/unread-count", controllers.TailorUnreadNotificationCount)
		tailor.PUT("/notifications/read-all", controllers.TailorMarkAllNotificationsRead)
		tailor.PUT("/notifications/:id/read", controllers.TailorMarkNotificationRead)

		tailor.GET("/messages", controllers.TailorListConversations)
		tailor.POST("/messages", controllers.TailorSendMessage)
		tailor.GET("/messages/unread-count", controllers.TailorUnreadMessageCount)
		tailor.GET("/messages/:id", controllers.TailorGetThread)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.Authenticate(cfg), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", controllers.AdminListUsers)
		admin.PUT("/users/bulk-status", controllers.AdminBulkSetUserStatus)
		admin.PUT("/users/:id/block", controllers.AdminBlockUser)
		admin.PUT("/users/:id/unblock", controllers.AdminUnblockUser)

		admin.GET("/tailors/pending", controllers.AdminListPendingTailors)
		admin.PUT("/tailors/:id/approve", controllers.AdminApproveTailor)
		admin.PUT("/tailors/:id/reject", controllers.AdminRejectTailor)

		admin.GET("/advertisements", controllers.AdminListAdvertisements)
		admin.POST("/advertisements", controllers.AdminCreateAdvertisement)
		admin.PUT("/advertisements/:id", controllers.AdminUpdateAdvertisement)
		admin.DELETE("/advertisements/:id", controllers.AdminDeleteAdvertisement)

		admin.POST("/categories", controllers.AdminCreateCategory)
		admin.PUT("/categories/:id", controllers.AdminUpdateCategory)
		admin.DELETE("/categories/:id", controllers.AdminDeleteCategory)

		admin.GET("/reviews", controllers.AdminListReviews)
		admin.DELETE("/reviews/:id", controllers.AdminDeleteReview)

		admin.GET("/reports/revenue", controllers.AdminRevenueReport)
		admin.GET("/reports/users", controllers.AdminUsersReport)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stitchly API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
