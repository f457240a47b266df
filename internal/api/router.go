package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rentport/accounts-api/internal/api/handler"
	"github.com/rentport/accounts-api/internal/api/middleware"
	"github.com/rentport/accounts-api/internal/core/access"
	"github.com/rentport/accounts-api/internal/core/service"
	"github.com/rentport/accounts-api/internal/infrastructure/config"
	mongostore "github.com/rentport/accounts-api/internal/infrastructure/db/mongo"
	redisstore "github.com/rentport/accounts-api/internal/infrastructure/db/redis"
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
	userRepo := mongostore.NewUserRepository(db)
	profileCache := redisstore.NewProfileCache(rdb)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	policy := service.NewPasswordPolicy()
	authService := service.NewAuthService(userRepo, tokenService, policy, profileCache, cfg.BcryptCost)

	authHandler := handler.NewAuthHandler(authService, tokenService)
	meHandler := handler.NewMeHandler(authService, access.SelfOnly{})
	authRequired := middleware.Auth(tokenService, userRepo)

	// --- Public routes ---
	e.POST("/register/", authHandler.Register)
	e.POST("/login/", authHandler.Login)
	e.POST("/refresh/", authHandler.Refresh)

	// --- Authenticated routes ---
	e.GET("/me/", meHandler.GetSelf, authRequired)
	e.PATCH("/me/", meHandler.UpdateSelf, authRequired)
	e.POST("/change-password/", meHandler.ChangePassword, authRequired)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
