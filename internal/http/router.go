package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/http/handlers"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter wires the users API, probes, metrics and the optional UI onto one engine.
// prom may be nil, which disables the request metrics and /metrics.
func NewRouter(log *slog.Logger, store user.Store, cfg config.Config, prom *observability.Prom) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// emails may carry escaped characters such as %40 or %2F
	r.UseRawPath = true

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	// health
	h := handlers.NewHealthHandler(store.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if prom != nil {
		r.GET("/metrics", gin.WrapH(prom.Handler()))
	}

	r.GET("/swagger", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	api := r.Group("/api")
	api.Use(middlewares.RequireJSON())

	if cfg.RateLimitPerMinute > 0 {
		rl := middlewares.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		api.Use(rl.RateLimiterMiddleware(middlewares.KeyByIP))
	}

	usersHandler := handlers.NewUsersHandler(store)

	api.GET("/users", usersHandler.ListUsers)
	api.POST("/users", usersHandler.CreateUser)
	api.GET("/users/:email", usersHandler.GetUser)
	api.PUT("/users/:email", usersHandler.UpdateUser)
	api.DELETE("/users/:email", usersHandler.DeleteUser)

	// UI
	static := handlers.NewStaticHandler(cfg.StaticDir)
	r.NoRoute(static.NoRoute)

	return r
}
