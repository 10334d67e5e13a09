package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/clearport/clearance-system/docs"
	"github.com/clearport/clearance-system/internal/api/handler"
	"github.com/clearport/clearance-system/internal/api/middleware"
	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/service"
	mongodb "github.com/clearport/clearance-system/internal/infrastructure/db/mongo"
	redisdb "github.com/clearport/clearance-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// activity may be nil to disable audit logging (tests do this).
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration, activity handler.ActivityRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("clearance"))

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	owners := mongodb.NewCargoOwnerRepository(db)
	agents := mongodb.NewAgentRepository(db)
	requests := mongodb.NewRequestRepository(db)
	ratings := mongodb.NewRatingRepository(db)
	verifications := mongodb.NewVerificationRepository(db)

	// --- Services ---
	authService := service.NewAuthService(users, owners, agents, jwtSecret, tokenTTL)
	requestService := service.NewRequestService(requests, owners, agents, log)
	ratingService := service.NewRatingService(ratings, agents, redisdb.NewRatingReservation(rdb), log)
	verificationService := service.NewVerificationService(verifications, agents, users, log)
	agentService := service.NewAgentService(agents, users, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, activity)
	requestHandler := handler.NewRequestHandler(requestService, activity)
	ratingHandler := handler.NewRatingHandler(ratingService, activity)
	agentHandler := handler.NewAgentHandler(agentService, activity)
	verificationHandler := handler.NewVerificationHandler(verificationService, activity)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(jwtSecret))

	ownerOnly := middleware.RBAC(domain.RoleCargoOwner)
	agentOnly := middleware.RBAC(domain.RoleAgent)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	ownerOrAgent := middleware.RBAC(domain.RoleCargoOwner, domain.RoleAgent)

	v1.POST("/requests", requestHandler.Create, ownerOnly)
	v1.GET("/requests", requestHandler.List)
	v1.GET("/requests/:id", requestHandler.Get)
	v1.PATCH("/requests/:id", requestHandler.Update, ownerOnly)
	v1.DELETE("/requests/:id", requestHandler.Delete, ownerOnly)
	v1.POST("/requests/:id/assign", requestHandler.AssignAgent, ownerOnly)
	v1.PATCH("/requests/:id/status", requestHandler.UpdateStatus, ownerOrAgent)

	v1.GET("/agents", agentHandler.List)
	v1.GET("/agents/:id", agentHandler.Get)
	v1.GET("/agents/:id/ratings", ratingHandler.Summary)

	v1.POST("/ratings", ratingHandler.Create, ownerOnly)
	v1.PATCH("/ratings/:id", ratingHandler.Update, ownerOnly)
	v1.DELETE("/ratings/:id", ratingHandler.Delete, ownerOnly)

	v1.POST("/verifications", verificationHandler.Submit, agentOnly)

	admin := v1.Group("/admin", adminOnly)
	admin.GET("/verifications", verificationHandler.List)
	admin.POST("/verifications/:id/approve", verificationHandler.Approve)
	admin.POST("/verifications/:id/reject", verificationHandler.Reject)
	admin.PATCH("/users/:id/verified", agentHandler.VerifyUser)

	return e
}
