package middleware

import (
	"strings"

	"github.com/aonuma/project-management-api/internal/authz"
	"github.com/aonuma/project-management-api/internal/constants"
	apierrors "github.com/aonuma/project-management-api/internal/errors"
	"github.com/aonuma/project-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

// RequireAuth verifies the bearer token and stores the principal in the
// request context.
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		principal, err := tokens.Verify(raw)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyPrincipal, principal)
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(c *gin.Context) (authz.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return authz.Principal{}, false
	}

	principal, ok := value.(authz.Principal)
	if !ok {
		return authz.Principal{}, false
	}
	return principal, true
}
