package middleware

import (
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/identity"

	"github.com/gin-gonic/gin"
)

// NormalizeIDs rewrites every route parameter to its canonical identifier so
// handlers only ever see canonical ids. Malformed ids are rejected with 400.
func NormalizeIDs() gin.HandlerFunc {
	return func(c *gin.Context) {
		for i, p := range c.Params {
			id, err := identity.ParseID(p.Value)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": domain.ErrInvalidIdentifierFormat.Message})
				return
			}
			c.Params[i].Value = id
		}
		c.Next()
	}
}
