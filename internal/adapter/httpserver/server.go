package httpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/smaas/internal/adapter/metrics"
	"github.com/pscheid92/smaas/internal/contract"
	"github.com/pscheid92/smaas/internal/notify"
	"github.com/pscheid92/smaas/internal/platform/config"
	"github.com/pscheid92/smaas/web"
)

// Options carries the optional collaborators of a Server.
type Options struct {
	// Name is the statechart name shown on the visualisation pages.
	Name string
	// Metrics enables /metrics and request instrumentation when set.
	Metrics *metrics.Metrics
	// Notifier enables the change stream when set.
	Notifier     *notify.Notifier
	HealthChecks []HealthCheck
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	doc      *contract.Document
	handlers contract.Handlers
	routes   []contract.Route

	name         string
	metrics      *metrics.Metrics
	notifier     *notify.Notifier
	templates    *template.Template
	healthChecks []HealthCheck
	startTime    time.Time
}

// NewServer builds the echo instance and binds doc against handlers. It fails
// without registering any contract route when the binding is incomplete.
func NewServer(cfg *config.Config, doc *contract.Document, handlers contract.Handlers, opts Options) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		doc:          doc,
		handlers:     handlers,
		name:         opts.Name,
		metrics:      opts.Metrics,
		notifier:     opts.Notifier,
		templates:    templates,
		healthChecks: opts.HealthChecks,
		startTime:    time.Now(),
	}

	if err := srv.registerRoutes(); err != nil {
		return nil, err
	}

	return srv, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Routes lists the contract routes bound at construction.
func (s *Server) Routes() []contract.Route {
	return s.routes
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown ends open change streams, then stops the HTTP server. The HTTP
// server does not cancel running requests on its own.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.notifier != nil {
		if err := s.notifier.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close change streams: %w", err))
		}
	}
	if err := s.echo.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown server: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(c.Request().Context(), "Template execution failed", "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}
