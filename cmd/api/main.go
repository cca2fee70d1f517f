package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"go-procurement-backend/config"
	_ "go-procurement-backend/docs" // Important for Swagger
	v1 "go-procurement-backend/internal/delivery/http/v1"
	"go-procurement-backend/internal/repository/postgres"
	"go-procurement-backend/internal/usecase"
	"go-procurement-backend/pkg/database"
	"go-procurement-backend/pkg/hash"
	"go-procurement-backend/pkg/logger"
	"go-procurement-backend/pkg/redis"
	"go-procurement-backend/pkg/storage"
	"go-procurement-backend/pkg/token"
)

// @title           Procurement Portal API
// @version         1.0
// @description     Backend for the public procurement portal using Clean Architecture.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting procurement backend", "port", cfg.Port, "env", cfg.Environment)

	// 3. Run Migrations
	if err := database.Migrate(cfg.DBUrl); err != nil {
		logger.Log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 4. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 5. Setup Redis (optional)
	rdb, err := redis.Connect(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	if err != nil {
		logger.Log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	if rdb == nil {
		logger.Log.Warn("Redis not configured - login rate limiting uses in-memory counters")
	} else {
		defer rdb.Close()
	}

	// 6. Setup Document Storage
	var store storage.Store
	if cfg.S3Configured() {
		s3Store, err := storage.NewS3Store(context.Background(), storage.S3Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			logger.Log.Error("Failed to set up S3 storage", "error", err)
			os.Exit(1)
		}
		store = s3Store
		logger.Log.Info("Document storage: S3", "bucket", cfg.S3Bucket)
	} else {
		diskStore, err := storage.NewDiskStore(cfg.UploadDir)
		if err != nil {
			logger.Log.Error("Failed to set up upload directory", "error", err)
			os.Exit(1)
		}
		store = diskStore
		logger.Log.Info("Document storage: local disk", "dir", cfg.UploadDir)
	}

	// 7. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	offerRepo := postgres.NewOfferRepository(dbPool)
	candidatureRepo := postgres.NewCandidatureRepository(dbPool)
	dashboardRepo := postgres.NewDashboardRepository(dbPool)

	// 8. Setup UseCases
	validate := validator.New()
	hasher := hash.NewHasher(cfg.BcryptCost)
	tokens := token.NewManager(cfg.SecretKey, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	authUC := usecase.NewAuthUsecase(userRepo, hasher, tokens, validate)
	offerUC := usecase.NewOfferUsecase(offerRepo)
	candidatureUC := usecase.NewCandidatureUsecase(candidatureRepo, offerRepo)
	dashboardUC := usecase.NewDashboardUsecase(dashboardRepo, offerRepo, candidatureRepo)
	userUC := usecase.NewUserUsecase(userRepo)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		OfferUC:       offerUC,
		CandidatureUC: candidatureUC,
		DashboardUC:   dashboardUC,
		UserUC:        userUC,
		UserRepo:      userRepo,
		Tokens:        tokens,
		Store:         store,
		Redis:         rdb,
		Config:        cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
