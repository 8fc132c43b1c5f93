package middleware

import (
	"net/http"
	"strings"

	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "user_id"

// TokenParser validates a bearer token and returns the canonical user id.
type TokenParser interface {
	Parse(token string) (string, error)
}

// BearerAuth requires a valid HS256 bearer token. A nil parser disables the
// check.
func BearerAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.Next()
			return
		}

		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		userID, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		c.Set(ContextUserID, userID)
		log := logger.WithContext(c.Request.Context()).With("auth_user_id", userID)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), log))
		c.Next()
	}
}
