package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/taskhub-server/internal/logger"
)

// Logging logs HTTP requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, duration and status for each request.
func (l *Logging) Handle(c *gin.Context) {
	start := time.Now()
	reqLogger := l.logger.With(
		"method", c.Request.Method,
		"path", c.Request.URL.Path)

	reqLogger.Debug("HTTP request started")

	c.Next()

	status := c.Writer.Status()
	reqLogger.Info("HTTP request completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"status", status)

	if status >= http.StatusInternalServerError {
		reqLogger.Error("HTTP request failed",
			"error", c.Errors.String(),
			"status", status)
	}
}
