package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/handler"
	"github.com/iliyamo/takedown-tracker/internal/middleware"
	"github.com/iliyamo/takedown-tracker/internal/model"
)

// RegisterCommunity registers the read-heavy community surfaces:
// scoreboard, badge catalogue, dashboard stats and the tool library.
// The cacheMW middleware (Redis response cache, possibly a
// passthrough) wraps the GET endpoints whose answers tolerate a few
// seconds of staleness.
func RegisterCommunity(e *echo.Echo, u *handler.UserHandler, b *handler.BadgeHandler,
	s *handler.StatsHandler, t *handler.ToolHandler, sc *handler.SiteCheckHandler,
	jwtSecret string, cacheMW echo.MiddlewareFunc) {

	auth := middleware.JWTAuth(jwtSecret)

	g := e.Group("/v1", auth)
	g.GET("/ranking", u.Ranking, cacheMW)
	g.GET("/badges", b.Table, cacheMW)
	g.GET("/badges/user/:id", b.ForUser, cacheMW)
	g.GET("/stats", s.Overview, cacheMW)
	g.GET("/stats/categories", s.Categories, cacheMW)
	g.POST("/site-check", sc.Check)

	// The tool library stays inside the crew.
	m := e.Group(
		"/v1",
		auth,
		middleware.RequireRole(model.RoleAdmin, model.RoleElite, model.RoleSoldier),
	)
	m.GET("/tools", t.List)
	m.GET("/tools/:id/download", t.Download)
}
