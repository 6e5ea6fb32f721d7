package httpserver

import (
	"github.com/labstack/echo/v4"
)

const (
	vizTypeStatechart = "statechart"
	vizTypeInstance   = "instance"
)

type vizPage struct {
	Type       string
	Name       string
	InstanceID string
	APIBase    string
}

// registerVizRoutes serves the visualisation assets from STATIC_DIR. Nothing is
// registered when no directory is configured.
func (s *Server) registerVizRoutes() {
	if s.config.StaticDir == "" {
		return
	}

	s.echo.Static("/", s.config.StaticDir)
	s.echo.GET("/_viz", s.handleStatechartViz)
	s.echo.GET("/:InstanceId/_viz", s.handleInstanceViz)
}

func (s *Server) handleStatechartViz(c echo.Context) error {
	return s.renderTemplate(c, "viz.html", vizPage{
		Type:    vizTypeStatechart,
		Name:    s.name,
		APIBase: s.doc.BasePath,
	})
}

func (s *Server) handleInstanceViz(c echo.Context) error {
	return s.renderTemplate(c, "viz.html", vizPage{
		Type:       vizTypeInstance,
		Name:       s.name,
		InstanceID: c.Param("InstanceId"),
		APIBase:    s.doc.BasePath,
	})
}
