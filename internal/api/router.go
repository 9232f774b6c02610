package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/weyoung/user-center/docs"
	"github.com/weyoung/user-center/internal/api/handler"
	"github.com/weyoung/user-center/internal/api/middleware"
	"github.com/weyoung/user-center/internal/core/credential"
	"github.com/weyoung/user-center/internal/core/domain"
	"github.com/weyoung/user-center/internal/core/service"
	"github.com/weyoung/user-center/internal/infrastructure/config"
	mongodb "github.com/weyoung/user-center/internal/infrastructure/db/mongo"
	redisdb "github.com/weyoung/user-center/internal/infrastructure/db/redis"
	"github.com/weyoung/user-center/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all routes registered and returns
// it along with the revocation dispatcher, which the caller must Start.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("usercenter"))

	// --- Dependencies ---
	codec := credential.NewCodec(cfg.CredentialSalt)
	userRepo := mongodb.NewUserRepository(db)
	sessionStore := redisdb.NewSessionStore(rdb)

	userService := service.NewUserService(userRepo, codec, log)
	sessionService := service.NewSessionService(userRepo, sessionStore, codec, cfg.JWTSecret, cfg.SessionTTL, log)
	dispatcher := queue.NewDispatcher(cfg.RevokeWorkers, sessionService, log)

	authHandler := handler.NewAuthHandler(userService, sessionService, cfg.SessionTTL)
	userHandler := handler.NewUserHandler(userService, dispatcher)

	authed := middleware.Auth(sessionService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, authed, middleware.RequireRole(domain.RoleUser))
	e.PUT("/auth/password", authHandler.ChangePassword, authed, middleware.RequireRole(domain.RoleUser))

	// --- Public profile projections ---
	// Anonymous access is allowed; a valid session still resolves the caller
	// into context for request-scoped use.
	optional := middleware.OptionalAuth(sessionService)
	e.GET("/users/profiles", userHandler.ListProfiles, optional)
	e.GET("/users/:id/profile", userHandler.GetProfile, optional)

	// --- Admin user management ---
	admin := e.Group("/users", authed, middleware.RequireRole(domain.RoleAdmin))
	admin.POST("", userHandler.Create)
	admin.GET("", userHandler.List)
	admin.GET("/:id", userHandler.Get)
	admin.PUT("/:id", userHandler.Update)
	admin.DELETE("/:id", userHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Ops surfaces ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, dispatcher
}
