package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/takedown-tracker/internal/probe"
)

// SiteCheckHandler runs one-off liveness probes on demand, outside any
// mission.
type SiteCheckHandler struct {
	Probe *probe.Checker
}

func NewSiteCheckHandler(p *probe.Checker) *SiteCheckHandler {
	return &SiteCheckHandler{Probe: p}
}

type siteCheckReq struct {
	URL string `json:"url"`
}

// Check probes the given URL and reports the observed status. The URL
// comes from the query string or, failing that, the JSON body.
func (h *SiteCheckHandler) Check(c echo.Context) error {
	url := strings.TrimSpace(c.QueryParam("url"))
	if url == "" {
		var req siteCheckReq
		if err := c.Bind(&req); err == nil {
			url = strings.TrimSpace(req.URL)
		}
	}
	if url == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url required"})
	}
	return c.JSON(http.StatusOK, h.Probe.CheckURL(c.Request().Context(), url))
}
