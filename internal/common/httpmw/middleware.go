// Package httpmw provides shared gin middleware and response helpers.
package httpmw

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/auth/token"
	"github.com/taskdeck/taskdeck/internal/common/errors"
	"github.com/taskdeck/taskdeck/internal/common/logger"
)

// UserIDKey is the gin context key under which RequireAuth stores the
// authenticated user's ID.
const UserIDKey = "userID"

// UserID returns the authenticated user's ID from the gin context, or an
// empty string when the request is unauthenticated.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// RequireAuth verifies the bearer token and stores the user ID in the
// context. Requests without a valid token are rejected with 401.
func RequireAuth(tokens *token.Manager, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			RespondError(c, log, errors.Unauthorized("missing authorization header"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			RespondError(c, log, errors.Unauthorized("invalid authorization header"))
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			RespondError(c, log, errors.Unauthorized("invalid or expired token"))
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// RequestLogger logs each request with method, path, status, and latency.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Recovery converts panics into 500 responses with the panic value logged.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				RespondError(c, log, errors.InternalError("internal server error", nil))
			}
		}()
		c.Next()
	}
}
