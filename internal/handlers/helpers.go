package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/apperr"
	"messenger-service/internal/middleware"
	"messenger-service/internal/observability"
)

func requestIDFromContext(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// setAction records the dispatched action for metrics and request logs.
func setAction(c *gin.Context, action string) {
	c.Set(observability.ActionKey, action)
}

// respondError writes {"error", "kind"} with the status of the error kind.
// Store failures are logged with their cause; clients only see the kind.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("request_id", requestIDFromContext(c)),
			slog.String("action", c.GetString(observability.ActionKey)),
			slog.Any("error", err),
		)
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err), "kind": apperr.KindOf(err)})
}
