package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yuwenzhijiao/showcase/internal/auth"
	"github.com/yuwenzhijiao/showcase/internal/config"
	"github.com/yuwenzhijiao/showcase/internal/domain/user"
	"github.com/yuwenzhijiao/showcase/internal/http/handlers"
	"github.com/yuwenzhijiao/showcase/internal/http/middlewares"
	"github.com/yuwenzhijiao/showcase/internal/llm"
	"github.com/yuwenzhijiao/showcase/internal/observability"
	"github.com/yuwenzhijiao/showcase/internal/ratelimit"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "yuwen-showcase"

type UserStore interface {
	handlers.UserReader
	handlers.UserWriter
}

// Deps is everything the router wires into handlers.
type Deps struct {
	Users     UserStore
	Resources handlers.ResourceStore
	Stats     handlers.StatsStore
	Chat      llm.Generator

	// ChatLimiter may be nil to disable chat rate limiting.
	ChatLimiter ratelimit.Store

	JWT      *auth.Manager
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	// Ping reports store readiness; nil means always ready.
	Ping func() error
	// ShuttingDown flips /readyz to 503 while the server drains.
	ShuttingDown func() bool
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	r := gin.New()

	r.HandleMethodNotAllowed = true
	r.NoMethod(handlers.RespondMethodNotAllowed)
	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondNotFound(ctx, "Route not found")
	})

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders(cfg.IsProd()))
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	// health
	h := handlers.NewHealthHandler(deps.Ping, deps.ShuttingDown)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// Wire up handlers
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Users, deps.JWT, cfg, log)
	resourcesHandler := handlers.NewResourcesHandler(deps.Resources, cfg.ResourceCacheTTL, cfg.IsProd())
	statsHandler := handlers.NewStatsHandler(deps.Stats, deps.Prom, cfg.IsProd())
	chatHandler := handlers.NewChatHandler(deps.Chat, deps.Prom, cfg.IsProd())

	api := r.Group("/api")
	api.Use(middlewares.RequireJSON())

	api.POST("/auth", authHandler.Handle)

	api.GET("/resources", resourcesHandler.ListResources)

	am := middlewares.NewAuthMiddleware(deps.JWT)

	if cfg.RequireWriteAuth {
		api.POST("/resources", am.RequireAuth(), resourcesHandler.CreateResource)
		api.PUT("/resources", am.RequireAuth(), am.RequireRole(user.RoleAdmin), resourcesHandler.UpdateResource)
		api.DELETE("/resources", am.RequireAuth(), am.RequireRole(user.RoleAdmin), resourcesHandler.DeleteResource)
	} else {
		api.POST("/resources", resourcesHandler.CreateResource)
		api.PUT("/resources", resourcesHandler.UpdateResource)
		api.DELETE("/resources", resourcesHandler.DeleteResource)
	}

	api.GET("/stats", statsHandler.GetVisitorCount)
	api.POST("/stats", statsHandler.IncrementVisitorCount)

	switch {
	case deps.ChatLimiter == nil:
		api.POST("/chat", chatHandler.Chat)
	case cfg.RequireWriteAuth:
		// signed-in users get their own bucket instead of sharing their IP's
		api.POST("/chat", am.IdentifyIfPresent(), middlewares.RateLimit(deps.ChatLimiter, middlewares.KeyByUserOrIP, log), chatHandler.Chat)
	default:
		api.POST("/chat", middlewares.RateLimit(deps.ChatLimiter, middlewares.KeyByIP, log), chatHandler.Chat)
	}

	return r
}
