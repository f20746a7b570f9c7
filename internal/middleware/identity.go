package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/apperr"
)

const (
	// UserIDHeader carries the authenticated caller id set by the auth edge.
	UserIDHeader = "X-User-Id"
	// UserIDKey is the gin context key holding the caller id as an int.
	UserIDKey = "userID"
)

// Identity rejects requests without a positive numeric X-User-Id.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if raw == "" {
			abortUnauthorized(c, "missing user id")
			return
		}
		userID, err := strconv.Atoi(raw)
		if err != nil || userID <= 0 {
			abortUnauthorized(c, "invalid user id")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "kind": apperr.ErrUnauthorized.Error()})
}
