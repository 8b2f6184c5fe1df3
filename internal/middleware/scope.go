package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

// GuardianScope allows the request only when the token's guardian id matches
// the :id path parameter. It must run after JWT.
func GuardianScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		target, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || target != claims.GuardianID {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Chain returns handlers as-is when enabled and nothing otherwise,
// so optional middleware can be spliced into a route group.
func Chain(enabled bool, handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	if !enabled {
		return nil
	}
	return handlers
}
