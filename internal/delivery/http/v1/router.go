package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"go-procurement-backend/config"
	"go-procurement-backend/internal/delivery/http/middleware"
	"go-procurement-backend/internal/delivery/http/response"
	"go-procurement-backend/internal/domain"
	"go-procurement-backend/pkg/storage"
	"go-procurement-backend/pkg/token"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	OfferUC       domain.OfferUsecase
	CandidatureUC domain.CandidatureUsecase
	DashboardUC   domain.DashboardUsecase
	UserUC        domain.UserUsecase
	UserRepo      domain.UserRepository
	Tokens        *token.Manager
	Store         storage.Store
	Redis         *goredis.Client
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(!deps.Config.IsProduction()))

	// Uploaded documents are served as-is when local disk storage is in use.
	if !deps.Config.S3Configured() {
		r.Static("/uploads", deps.Config.UploadDir)
	}

	api := r.Group("/api")

	// Health Check
	api.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	loginLimiter := middleware.RateLimit(deps.Redis, middleware.RateLimitConfig{
		Limit:     deps.Config.RateLimitLoginThreshold,
		Window:    time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second,
		KeyPrefix: "ratelimit:login",
	})

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.UserRepo))
	{
		NewAuthHandler(api, protected, deps.AuthUC, loginLimiter)
		NewOfferHandler(api, protected, deps.OfferUC)
		NewCandidatureHandler(protected, deps.CandidatureUC, deps.Store)
		NewDashboardHandler(protected, deps.DashboardUC)
		NewUserHandler(protected, deps.UserUC)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, fmt.Sprintf("route %s not found", c.Request.URL.Path), nil)
	})

	return r
}
