package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/logger"
	"messenger-service/internal/observability"
)

// RequestLogger logs one line per request after it completes.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("action", c.GetString(observability.ActionKey)),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("request_id", c.GetString(RequestIDKey)),
			slog.String("ip", observability.IPFromRequest(c.Request)),
		}
		if userID := c.GetInt(UserIDKey); userID != 0 {
			attrs = append(attrs, slog.Int("user_id", userID))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}
		attrs = append(attrs, logger.AttrsFromCtx(c.Request.Context())...)

		log.LogAttrs(c.Request.Context(), level, "http request", attrs...)
	}
}
