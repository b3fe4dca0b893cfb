package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/utxo-ledger/indexer/internal/ledger"
	"github.com/utxo-ledger/indexer/pkg/logging"
)

// Router sets up API routes.
type Router struct {
	engine *ledger.Engine
	logger *zap.Logger
}

// NewRouter creates a new API router over engine.
func NewRouter(engine *ledger.Engine) *Router {
	return &Router{
		engine: engine,
		logger: logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes.
func (r *Router) SetupRoutes(g *gin.Engine) {
	g.Use(requestIDMiddleware)
	g.Use(requestLoggingMiddleware)

	// Health check endpoints
	g.GET("/health", r.healthHandler)
	g.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Prometheus scrape endpoint
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))

	g.POST("/blocks", r.submitBlockHandler)
	g.GET("/balance/:address", r.balanceHandler)
	g.POST("/rollback", r.rollbackHandler)
}

// healthHandler handles health check requests.
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "ledger-indexer",
	})
}
