package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/blognest/blognest-backend/internal/config"
	"github.com/blognest/blognest-backend/internal/crosspost"
	"github.com/blognest/blognest-backend/internal/handler"
	"github.com/blognest/blognest-backend/internal/middleware"
	"github.com/blognest/blognest-backend/internal/migration"
	"github.com/blognest/blognest-backend/internal/repository"
	"github.com/blognest/blognest-backend/internal/routes"
	"github.com/blognest/blognest-backend/internal/service"
	pkgcache "github.com/blognest/blognest-backend/pkg/cache"
	"github.com/blognest/blognest-backend/pkg/jwt"
	pkglogger "github.com/blognest/blognest-backend/pkg/logger"
	pkgredis "github.com/blognest/blognest-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Blognest Backend API
// @version         1.0
// @description     Blog platform backend with crossposting to social platforms
//
// @license.name    MIT
//
// @host            localhost:8082
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Info("Warning: Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	// Cache degrades to pass-through when Redis is down
	cacheService := pkgcache.NewService(redisClient)

	vault, err := crosspost.NewVault(cfg.Crosspost.VaultSecret)
	if err != nil {
		log.Fatalf("Failed to initialize credential vault: %v", err)
	}

	publishers := crosspost.NewRegistry(&http.Client{Timeout: cfg.Crosspost.PublishTimeout})

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	// Repositories
	postRepo := repository.NewPostRepository(db)
	targetRepo := repository.NewTargetRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)

	// Services
	postService := service.NewPostService(postRepo, cacheService)
	targetService := service.NewTargetService(targetRepo, postRepo)
	credentialService := service.NewCredentialService(credentialRepo, vault, cacheService)
	crosspostService := service.NewCrosspostService(
		postRepo, targetRepo, credentialRepo, deliveryRepo,
		vault, publishers, cacheService,
		service.CrosspostConfig{
			PublishTimeout: cfg.Crosspost.PublishTimeout,
			Workers:        cfg.Crosspost.Workers,
			MaxRetries:     cfg.Crosspost.MaxRetries,
		},
	)

	// Handlers
	postHandler := handler.NewPostHandler(postService)
	crosspostHandler := handler.NewCrosspostHandler(crosspostService, targetService)
	credentialHandler := handler.NewCredentialHandler(credentialService)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     splitAndTrim(cfg.CORS.AllowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	if redisClient != nil && !cfg.IsDevelopment() {
		router.Use(middleware.RateLimit(redisClient, middleware.DefaultRateLimitConfig()))
	}

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "blognest-backend",
			"time":    time.Now().Unix(),
		})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, postHandler, crosspostHandler, credentialHandler, jwtManager, redisClient)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.Info("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDB opens the MySQL connection
func initDB(cfg *config.Config) (*gorm.DB, error) {
	logMode := gormlogger.Warn
	if cfg.IsDevelopment() {
		logMode = gormlogger.Info
	}
	return gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
}

// splitAndTrim splits a string by delimiter and trims spaces
func splitAndTrim(s string, delimiter string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, delimiter) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
