package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	metricsprom "github.com/jwalitptl/hospital-api/internal/handler/prometheus"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
)

const apiVersion = "1.0"

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers groups the resource handlers by the access they require.
type Handlers struct {
	Health Handler
	Auth   Handler

	Patient       Handler
	Doctor        Handler
	Nurse         Handler
	Department    Handler
	Room          Handler
	Appointment   Handler
	Invoice       Handler
	LabResult     Handler
	MedicalRecord Handler
	Prescription  Handler

	User Handler
	Role Handler
	// Clock is nil unless the simulated clock is enabled.
	Clock Handler
}

type RouterConfig struct {
	Mode             string
	RequestTimeout   time.Duration
	MaxBodyBytes     int64
	RateLimitEnabled bool
	RateLimit        middleware.RateLimiterConfig
	CORSConfig       middleware.CORSConfig
	Security         middleware.SecurityConfig
	MetricsPrefix    string
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	registry *prometheus.Registry
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, registry *prometheus.Registry, config RouterConfig) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	prefix := config.MetricsPrefix
	if prefix == "" {
		prefix = "hospital"
	}
	httpMetrics := middleware.NewHTTPMetrics(registry, prefix)

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		httpMetrics.Middleware(),
		middleware.SecurityHeaders(config.Security),
		middleware.CORS(config.CORSConfig),
		middleware.SizeLimit(config.MaxBodyBytes),
	)

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(config.RateLimit)
		engine.Use(rateLimiter.RateLimit())
	}

	engine.Use(middleware.Timeout(config.RequestTimeout))

	return &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		registry: registry,
	}
}

func (r *Router) Setup() *Router {
	metricsprom.New(r.registry).RegisterRoutes(r.engine)

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", apiVersion)
		c.Next()
	})

	register(api, r.handlers.Health, r.handlers.Auth)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	register(protected,
		r.handlers.Patient,
		r.handlers.Doctor,
		r.handlers.Nurse,
		r.handlers.Department,
		r.handlers.Room,
		r.handlers.Appointment,
		r.handlers.Invoice,
		r.handlers.LabResult,
		r.handlers.MedicalRecord,
		r.handlers.Prescription,
	)

	admin := protected.Group("")
	admin.Use(r.auth.RequireRole(model.UserRoleAdmin))
	register(admin, r.handlers.User, r.handlers.Role, r.handlers.Clock)

	return r
}

func register(rg *gin.RouterGroup, handlers ...Handler) {
	for _, h := range handlers {
		if h != nil {
			h.RegisterRoutes(rg)
		}
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
