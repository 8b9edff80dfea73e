package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/handler"
	"github.com/iliyamo/takedown-tracker/internal/middleware"
	"github.com/iliyamo/takedown-tracker/internal/model"
)

// RegisterAdmin registers account administration and tool management
// under /v1. Gated on the admin role, which the role hierarchy expands
// to admit lieutenants as well.
func RegisterAdmin(e *echo.Echo, u *handler.UserHandler, t *handler.ToolHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/users", u.List)
	g.PATCH("/users/:id", u.Update)
	g.DELETE("/users/:id", u.Delete)

	g.POST("/tools", t.Create)
	g.POST("/tools/upload", t.Upload)
	g.DELETE("/tools/:id", t.Delete)
}
