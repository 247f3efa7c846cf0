package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"vocalab-users/pkg/logger"
)

// RequestIDHeaderName is the canonical HTTP form of logger.RequestIDHeader.
const RequestIDHeaderName = "X-Request-ID"

// Logger assigns a request id and writes one access log line per request.
// A well-formed incoming X-Request-ID is reused and a traceparent header
// contributes the trace id.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := logger.RequestID(c.GetHeader(RequestIDHeaderName))
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		if traceID := logger.TraceID(propagation.HeaderCarrier(c.Request.Header)); traceID != "" {
			ctx = logger.WithTraceID(ctx, traceID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeaderName, requestID)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		l := logger.WithContext(c.Request.Context(), log)
		switch {
		case status >= 500:
			l.Error("http request", fields...)
		case status >= 400:
			l.Warn("http request", fields...)
		default:
			l.Info("http request", fields...)
		}
	}
}
