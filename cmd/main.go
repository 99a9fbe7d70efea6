package main

import (
	"fmt"
	"net/http"
	"time"

	_ "gin-accounts-api/docs" // Import generated docs
	"gin-accounts-api/internal/config"
	"gin-accounts-api/internal/controllers"
	"gin-accounts-api/internal/database"
	"gin-accounts-api/internal/middleware"
	"gin-accounts-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var (
	db                *gorm.DB
	userService       services.UserService
	roleService       services.RoleService
	accountService    services.AccountService
	userController    controllers.UserController
	roleController    controllers.RoleController
	profileController controllers.ProfileController
	authController    *controllers.AuthController
	configuration     *config.Config
)

// @title Accounts API
// @version 1.0
// @description User and role administration API
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize services and controllers
	userService = services.NewUserService(db)
	roleService = services.NewRoleService(db)
	accountService = services.NewAccountService(userService, roleService)
	userController = controllers.NewUserController(accountService)
	roleController = controllers.NewRoleController(accountService)
	profileController = controllers.NewProfileController(accountService)
	authController = controllers.NewAuthController(accountService, userService, configuration.JWTSecret)

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase initializes the database connection, migrates the schema and
// runs the idempotent seed bootstrap
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.DBPath,
	})
	checkPanicErr(err)

	checkPanicErr(database.Migrate(db))

	checkPanicErr(database.Seed(db, database.SeedConfig{
		AdminName:     conf.AdminName,
		AdminEmail:    conf.AdminEmail,
		AdminPassword: conf.AdminPassword,
	}))
	return db
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.RequestID())

	// Define routes
	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
		}

		// Protected routes (requires JWT authentication). The admin gate is
		// not a route concern: the account service consults the
		// authorization policy on every call.
		protected := v1.Group("")
		protected.Use(middleware.Auth([]byte(configuration.JWTSecret), userService))
		{
			profile := protected.Group("/profile")
			{
				profile.GET("", profileController.Show)
				profile.PUT("", profileController.Update)
				profile.DELETE("", profileController.Delete)
			}

			admin := protected.Group("/admin")
			{
				admin.GET("/users", userController.GetAllUsers)
				admin.POST("/users", userController.CreateUser)
				admin.GET("/users/:id", userController.GetUserByID)
				admin.PUT("/users/:id", userController.UpdateUser)
				admin.DELETE("/users/:id", userController.DeleteUser)

				admin.GET("/roles", roleController.GetAllRoles)
				admin.POST("/roles", roleController.CreateRole)
				admin.GET("/roles/:id", roleController.GetRoleByID)
				admin.PUT("/roles/:id", roleController.UpdateRole)
				admin.DELETE("/roles/:id", roleController.DeleteRole)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-accounts-api",
	})
}
