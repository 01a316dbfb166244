package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/soclink/account-service/internal/infra/config"
	"github.com/soclink/account-service/internal/transport/http/handlers"
	"github.com/soclink/account-service/internal/transport/http/middleware"
	"github.com/soclink/account-service/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Registration  *usecase.RegistrationService
	Users         *usecase.UserService
	PasswordReset *usecase.PasswordResetService
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	Metrics     *middleware.HTTPMetrics
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if !deps.Config.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authRequired := middleware.RequireAuth(deps.Services.Auth)

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("postgres", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	isDev := deps.Config.App.IsDevelopment()
	dispatcher := handlers.NewLoggingNotificationDispatcher(deps.Logger)

	cookie := handlers.CookieSettings{
		Secure: !isDev,
		MaxAge: int(deps.Config.Token.TTL / time.Second),
	}

	users := r.Group("/users")
	{
		userHandler := handlers.NewUserHandler(
			deps.Services.Registration,
			deps.Services.Auth,
			deps.Services.Users,
			dispatcher,
			cookie,
			isDev,
		)
		userHandler.RegisterRoutes(users, authRequired,
			limitMiddleware(deps, "signup_ip", deps.Config.RateLimit.SignupMaxAttempts),
			limitMiddleware(deps, "login_ip", deps.Config.RateLimit.LoginMaxAttempts),
		)

		passwordHandler := handlers.NewPasswordHandler(deps.Services.PasswordReset, dispatcher, isDev)
		passwordHandler.RegisterRoutes(users,
			limitMiddleware(deps, "password_reset_ip", deps.Config.RateLimit.PasswordResetMaxAttempts))

		profileHandler := handlers.NewProfileHandler(deps.Services.Users)
		authed := users.Group("")
		authed.Use(authRequired)
		profileHandler.RegisterRoutes(authed)
	}

	return r
}

func limitMiddleware(deps Dependencies, name string, limit int) []gin.HandlerFunc {
	if deps.RateLimiter == nil || limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	return []gin.HandlerFunc{deps.RateLimiter.Limit(middleware.RateLimitRule{
		Name:   name,
		Limit:  limit,
		Window: window,
	})}
}
