package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/flowtask/flowtask-api/internal/auth"
	"github.com/flowtask/flowtask-api/internal/constants"
	apierrors "github.com/flowtask/flowtask-api/internal/errors"
	"github.com/flowtask/flowtask-api/internal/services"
)

// RequireAuth validates the bearer token on the request and resolves its
// subject to a live user. Any failure short-circuits with 401; the
// wrapped handler is never invoked.
func RequireAuth(tokens *auth.TokenService, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			apierrors.Unauthorized(c, "Missing or malformed Authorization header")
			c.Abort()
			return
		}

		subject, err := tokens.Validate(tokenStr)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// A token may outlive its user; the subject must still resolve.
		user, err := users.GetByEmail(subject)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUserEmail, user.Email)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUserEmail retrieves the current user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(constants.ContextKeyUserEmail)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}
