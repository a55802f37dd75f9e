package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Gelou69/Food-OrderomgHub/config"
	"github.com/Gelou69/Food-OrderomgHub/controllers"
	"github.com/Gelou69/Food-OrderomgHub/middleware"
	"github.com/Gelou69/Food-OrderomgHub/models"
	"github.com/Gelou69/Food-OrderomgHub/services"
)

func main() {
	// Basic logging
	log.Println("Starting Food-OrderomgHub API server...")

	// Load and validate configuration before touching any backend
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Connect to database
	db, err := config.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Restaurant{},
		&models.FoodItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Preference{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Object storage for product images
	storage, err := services.NewS3StorageService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Services
	auth := services.NewAuthService(cfg)
	registration := services.NewRegistrationService(db)
	watcher := services.NewRestaurantWatcher(db)
	queue := services.NewOrderQueueService(db)
	resolver := services.NewImageResolver(storage)
	history := services.NewHistoryService(db, resolver)

	// Controllers
	authController := controllers.NewAuthController(db, auth)
	restaurantController := controllers.NewRestaurantController(db, registration, watcher)
	productController := controllers.NewProductController(db, storage)
	orderController := controllers.NewOrderController(db, queue)
	historyController := controllers.NewHistoryController(db, history)
	preferenceController := controllers.NewPreferenceController(db)

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	requireAuth := middleware.EnsureValidToken(cfg)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus(db))

		// Auth relay
		v1.POST("/auth/signup", authController.SignUp)
		v1.POST("/auth/login", authController.Login)
		v1.POST("/auth/logout", authController.Logout)
		v1.GET("/auth/session", authController.GetSession)

		// Public restaurant reads
		v1.GET("/restaurants/:id", restaurantController.GetRestaurant)

		// Owner surface
		owner := v1.Group("/owner", requireAuth)
		{
			owner.POST("/register", restaurantController.RegisterOwner)
			owner.GET("/restaurant", restaurantController.GetOwnRestaurant)
			owner.PUT("/restaurant", restaurantController.UpdateOwnRestaurant)

			owner.GET("/products", productController.ListProducts)
			owner.POST("/products", productController.CreateProduct)
			owner.PUT("/products/:id", productController.UpdateProduct)
			owner.DELETE("/products/:id", productController.DeleteProduct)
			owner.POST("/products/:id/image", productController.UploadProductImage)

			owner.GET("/orders", orderController.GetOwnerOrders)
		}

		// Authenticated shared surface
		authed := v1.Group("", requireAuth)
		{
			authed.PATCH("/orders/:id/status", orderController.UpdateOrderStatus)
			authed.GET("/orders/history", historyController.GetOrderHistory)
			authed.GET("/preferences/status-filter", preferenceController.GetStatusFilter)
			authed.PUT("/preferences/status-filter", preferenceController.SetStatusFilter)
		}
	}

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Food-OrderomgHub API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		var tables []string
		if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_QUERY_ERROR",
					"message": "Failed to query tables",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
			"tables":  tables,
		})
	}
}
