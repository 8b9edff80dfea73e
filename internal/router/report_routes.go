package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/handler"
	"github.com/iliyamo/takedown-tracker/internal/middleware"
)

// RegisterReports registers the report intake and review under /v1.
// Submission and listing are open to every authenticated role —
// external informants exist precisely to file reports, and the service
// narrows their listing to their own submissions. Review (accept,
// reject) is staff-only; the service enforces that gate.
func RegisterReports(e *echo.Echo, h *handler.ReportHandler, jwtSecret string) {
	g := e.Group("/v1/reports", middleware.JWTAuth(jwtSecret))
	g.POST("", h.Submit)
	g.GET("", h.List)
	g.POST("/:id/accept", h.Accept)
	g.POST("/:id/reject", h.Reject)
}
