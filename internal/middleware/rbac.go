package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ehs-honor/honor-site-api/internal/models"
	"github.com/ehs-honor/honor-site-api/internal/service"
	appErrors "github.com/ehs-honor/honor-site-api/pkg/errors"
	"github.com/ehs-honor/honor-site-api/pkg/response"
)

// RequireRoles enforces role-based access control. The effective role comes
// from the resolver, not from the token, so a demotion takes effect without
// waiting for the access token to expire. Unresolvable roles are rejected.
func RequireRoles(resolver *service.RoleResolver, roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		role := resolver.Resolve(c.Request.Context(), claims.UserID)
		if role == models.RoleNone {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		// With no explicit role list, any triage-capable role passes.
		if len(allowed) == 0 {
			if !role.Privileged() {
				response.Error(c, appErrors.ErrForbidden)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if _, ok := allowed[role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
