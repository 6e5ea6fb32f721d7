package httpserver

import (
	"log/slog"
)

// registerChangeRoutes exposes the model file as a text/event-stream when a
// notifier is attached.
func (s *Server) registerChangeRoutes() {
	if s.notifier == nil {
		return
	}

	path := s.config.LiveReloadPath
	s.echo.GET(path, s.notifier.Handler(s.config.ModelPath))
	slog.Info("Live reload enabled", "path", path, "model", s.config.ModelPath)
}
