package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fixhub/repair-shop-api/config"
	"github.com/fixhub/repair-shop-api/controllers"
	"github.com/fixhub/repair-shop-api/middleware"
	"github.com/fixhub/repair-shop-api/models"
	"github.com/fixhub/repair-shop-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Repair Shop API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	if err := db.AutoMigrate(
		&models.User{},
		&models.Technician{},
		&models.RepairRequest{},
		&models.Inventory{},
		&models.Payment{},
		&models.Session{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize the photo storage services
	s3Service, err := services.NewS3Service(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	images := services.NewImageService(s3Service)

	// Initialize Gin router
	router := setupRouter(db, cfg, images)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires the controllers and middleware onto a gin engine
func setupRouter(db *gorm.DB, cfg *config.Config, images services.ImageService) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	authController := controllers.NewAuthController(db, cfg)
	requestController := controllers.NewRequestController(db, images)
	paymentController := controllers.NewPaymentController(db)
	technicianController := controllers.NewTechnicianController(db)
	inventoryController := controllers.NewInventoryController(db)
	uploadController := controllers.NewUploadController(db, images)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus(db))

		// Public auth endpoints
		v1.POST("/auth/register", authController.Register)
		v1.POST("/auth/login", authController.Login)

		// Authenticated endpoints
		authed := v1.Group("", middleware.SessionAuth(db))
		{
			authed.POST("/auth/logout", authController.Logout)
			authed.GET("/auth/me", authController.Me)

			authed.POST("/requests", requestController.CreateRequest)
			authed.GET("/requests", requestController.ListMyRequests)
			authed.GET("/requests/:id", requestController.TrackStatus)
			authed.POST("/requests/:id/payments", paymentController.RecordPayment)
			authed.GET("/requests/:id/payments", paymentController.ListPayments)
			authed.POST("/requests/:id/photo", uploadController.UploadRequestPhoto)
		}

		// Admin-only endpoints
		admin := v1.Group("/admin", middleware.SessionAuth(db), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/requests", requestController.ListAllRequests)
			admin.PUT("/requests/:id/technician", requestController.AssignTechnician)

			admin.POST("/technicians", technicianController.CreateTechnician)
			admin.GET("/technicians", technicianController.ListTechnicians)

			admin.POST("/inventory", inventoryController.AddPart)
			admin.GET("/inventory", inventoryController.ListParts)
			admin.DELETE("/inventory/:id", inventoryController.DeletePart)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Repair Shop API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the underlying SQL database to check connection
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

		// Ping the database to verify connection
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
}
