// Package router wires the HTTP surface: which handler answers which
// path, and which middleware guards each group. Fine-grained rules
// (assignee checks, staff gates on individual operations) live in the
// service layer; the router only draws the coarse role boundaries.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/handler"
	"github.com/iliyamo/takedown-tracker/internal/middleware"
)

// RegisterPublic registers the health endpoint and the auth flow.
// Everything here is reachable without a token except /auth/me, which
// identifies the caller and therefore needs one.
func RegisterPublic(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}
