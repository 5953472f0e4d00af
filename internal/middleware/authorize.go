package middleware

import (
	"strconv"

	"github.com/aonuma/project-management-api/internal/authz"
	apierrors "github.com/aonuma/project-management-api/internal/errors"
	"github.com/gin-gonic/gin"
)

// Authorize evaluates an operation's policy descriptor before the handler
// runs. A Deny from either strategy rejects the request with 403 before any
// side effect; a failed membership lookup rejects with 503 rather than
// letting the operation through.
func Authorize(evaluator *authz.Evaluator, desc authz.Descriptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var resourceID uint64
		if desc.IDParam != "" {
			id, err := strconv.ParseUint(c.Param(desc.IDParam), 10, 64)
			if err != nil {
				apierrors.BadRequest(c, "Invalid id parameter")
				c.Abort()
				return
			}
			resourceID = id
		}

		if len(desc.AllowedRoles) > 0 {
			if evaluator.DecideGlobal(principal, desc.AllowedRoles, resourceID) != authz.Allow {
				apierrors.Forbidden(c, "")
				c.Abort()
				return
			}
		}

		if desc.Resource != "" {
			decision, err := evaluator.DecideResource(principal, desc, resourceID)
			if err != nil {
				apierrors.ServiceUnavailable(c, "Authorization check failed")
				c.Abort()
				return
			}
			if decision != authz.Allow {
				apierrors.Forbidden(c, "")
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
