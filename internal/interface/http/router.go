package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faqfilter/internal/infra/config"
)

// FilterPath is where rendered widgets post their category fetches.
const FilterPath = "/api/v1/faq/filter"

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Healthz)
	router.GET("/metrics", handler.Metrics)
	router.GET("/faq", handler.Page)
	router.StaticFS("/static", http.FS(staticFS()))

	api := router.Group("/api/v1")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	{
		api.POST("/faq/filter", handler.Filter)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
