package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/model"
)

// RequireRole returns a middleware that enforces that the
// authenticated caller holds one of the given roles. The allowed set
// is expanded once, at registration time, with the role hierarchy:
// lieutenants hold every permission admins do, so any admin-gated
// route automatically admits lieutenants. It assumes JWTAuth already
// stored the role under "role".
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles)+1)
	for _, r := range roles {
		allowed[r] = true
	}
	if allowed[model.RoleAdmin] {
		allowed[model.RoleLieutenant] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
			}
			return next(c)
		}
	}
}
