package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identitykit/account-api/internal/api/handler"
	"github.com/identitykit/account-api/internal/api/middleware"
	"github.com/identitykit/account-api/internal/core/domain"
	"github.com/identitykit/account-api/internal/core/service"
	"github.com/identitykit/account-api/internal/infrastructure/auth"
	"github.com/identitykit/account-api/internal/infrastructure/config"
	mongodb "github.com/identitykit/account-api/internal/infrastructure/db/mongo"
	redisdb "github.com/identitykit/account-api/internal/infrastructure/db/redis"
	"github.com/identitykit/account-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	// The guard hits FindByID on every protected request; serve it through
	// the Redis identity cache.
	cachedRepo := redisdb.NewIdentityCache(rdb, userRepo, log)

	hasher := auth.NewBcryptHasher()
	tokens := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL())
	accounts := service.NewAccountService(cachedRepo, hasher, tokens, log)

	userHandler := handler.NewUserHandler(accounts)
	authenticate := middleware.Authenticate(tokens, cachedRepo)
	adminOnly := middleware.Authorize(domain.RoleAdmin)

	// --- Public routes ---
	e.POST("/register", userHandler.Register)
	e.POST("/login", userHandler.Login)

	// --- Protected routes ---
	e.GET("/profile", userHandler.Profile, authenticate)
	e.PUT("/profile", userHandler.UpdateProfile, authenticate)
	e.DELETE("/profile", userHandler.DeleteProfile, authenticate)

	e.GET("/users", userHandler.ListUsers, authenticate, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
