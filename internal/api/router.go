package api

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/agendafacil/auth-service/internal/api/handler"
	"github.com/agendafacil/auth-service/internal/api/middleware"
	"github.com/agendafacil/auth-service/internal/core/domain"
	"github.com/agendafacil/auth-service/internal/core/hasher"
	"github.com/agendafacil/auth-service/internal/core/service"
	"github.com/agendafacil/auth-service/internal/infrastructure/db/postgres"
	redisdb "github.com/agendafacil/auth-service/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Required-role sets are declared here, per route, and enforced by the RBAC
// middleware.
func NewRouter(pool *pgxpool.Pool, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(pool)
	revocations := redisdb.NewRevocationList(rdb)
	passwordHasher := hasher.New()
	authService := service.NewAuthService(userRepo, passwordHasher, revocations, jwtSecret, tokenTTL, log)
	userService := service.NewUserService(userRepo, passwordHasher, log)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	authRequired := middleware.Auth(jwtSecret, revocations)
	authOptional := middleware.AuthOptional(jwtSecret, revocations)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authOptional)
	e.GET("/auth/me", authHandler.Me, authOptional)
	e.GET("/auth/health", authHandler.Health)

	// --- User administration (admin only, except self password change) ---
	users := e.Group("/users", authRequired)
	users.GET("", userHandler.List, middleware.RBAC(log, domain.RoleAdmin))
	users.PATCH("/:id", userHandler.Update, middleware.RBAC(log, domain.RoleAdmin))
	users.PUT("/:id/password", userHandler.ChangePassword, middleware.RBAC(log, domain.RoleAdmin, domain.RoleProfessional, domain.RoleClient))
	users.DELETE("/:id", userHandler.Deactivate, middleware.RBAC(log, domain.RoleAdmin))

	// --- Health probes and metrics (no auth required) ---
	readiness := handler.NewReadinessHandler(pool, rdb)
	e.GET("/health", authHandler.Health)           // liveness  – is the process alive?
	e.GET("/health/ready", readiness.Readiness)    // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
