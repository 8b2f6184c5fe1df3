package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

// ContextGuardianKey is the gin context key storing guardian claims.
const ContextGuardianKey = "currentGuardian"

type tokenValidator interface {
	ValidateToken(token string) (*models.GuardianClaims, error)
}

// JWT protects routes by requiring a valid guardian access token.
func JWT(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			message := "invalid authorization header"
			if c.GetHeader("Authorization") == "" {
				message = ""
			}
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, message))
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextGuardianKey, claims)
		c.Next()
	}
}

// Claims returns the guardian claims stored by JWT, if any.
func Claims(c *gin.Context) (*models.GuardianClaims, bool) {
	value, exists := c.Get(ContextGuardianKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.GuardianClaims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
