package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/utxo-ledger/indexer/pkg/logging"
)

const requestIDHeader = "X-Request-Id"

// requestIDMiddleware stamps every request with a request id, reusing one
// supplied by the caller if present, stores it on the context, and echoes it
// in the response header. loggerFromContext turns it into a request-scoped
// logger via logging.WithTraceID.
func requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.New().String()
	}
	c.Set("request_id", id)
	c.Writer.Header().Set(requestIDHeader, id)
	c.Next()
}

// requestLoggingMiddleware emits one zap line per request with the method,
// path, status, and latency, carrying the request id set upstream.
func requestLoggingMiddleware(c *gin.Context) {
	started := time.Now()
	path := c.Request.URL.Path
	c.Next()

	loggerFromContext(c).Info("request handled",
		zap.String("method", c.Request.Method),
		zap.String("path", path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(started)))
}

func loggerFromContext(c *gin.Context) *zap.Logger {
	id, _ := c.Get("request_id")
	requestID, _ := id.(string)
	return logging.WithTraceID(requestID)
}
