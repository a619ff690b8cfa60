package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinical-dashboard/internal/middleware"
	"github.com/jwalitptl/clinical-dashboard/pkg/logger"
	"github.com/jwalitptl/clinical-dashboard/pkg/metrics"
)

// Handler registers its routes under the versioned API group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// RootHandler registers routes on the engine root, e.g. health probes.
type RootHandler interface {
	RegisterRoutes(gin.IRoutes)
}

// MetricsHandler serves the Prometheus scrape endpoint.
type MetricsHandler interface {
	RegisterRoutes(r gin.IRoutes, path string)
}

type RouterConfig struct {
	Mode             string
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORSConfig       middleware.CORSConfig
	RequestTimeout   time.Duration
	MetricsEnabled   bool
	MetricsPath      string
}

type Router struct {
	engine  *gin.Engine
	log     *logger.Logger
	metrics *metrics.Metrics
	config  RouterConfig
	api     []Handler
	health  RootHandler
	scrape  MetricsHandler
}

func NewRouter(
	log *logger.Logger,
	m *metrics.Metrics,
	health RootHandler,
	scrape MetricsHandler,
	config RouterConfig,
	api ...Handler,
) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	if m == nil {
		m = metrics.NewNop()
	}

	engine := gin.New() // Use New() instead of Default() for more control

	r := &Router{
		engine:  engine,
		log:     log,
		metrics: m,
		config:  config,
		api:     api,
		health:  health,
		scrape:  scrape,
	}

	// Add core middlewares
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		r.metricsMiddleware(),
		middleware.Recovery(log),
		middleware.ErrorHandler(log),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORSConfig),
	)

	return r
}

func (r *Router) Setup() {
	if r.health != nil {
		r.health.RegisterRoutes(r.engine)
	}
	if r.config.MetricsEnabled && r.scrape != nil {
		r.scrape.RegisterRoutes(r.engine, r.config.MetricsPath)
	}

	api := r.engine.Group("/api/v1")

	// Add version header
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	if r.config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  r.config.RateLimit,
			Burst: r.config.RateBurst,
		})
		api.Use(rateLimiter.RateLimit())
	}
	api.Use(middleware.Timeout(r.config.RequestTimeout))

	for _, h := range r.api {
		h.RegisterRoutes(api)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		switch {
		case c.Writer.Status() >= 500:
			r.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path, "server").Inc()
		case c.Writer.Status() >= 400:
			r.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path, "client").Inc()
		}
	}
}
