package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pscheid92/smaas/internal/adapter/httpserver"
	"github.com/pscheid92/smaas/internal/adapter/metrics"
	"github.com/pscheid92/smaas/internal/contract"
	"github.com/pscheid92/smaas/internal/model"
	"github.com/pscheid92/smaas/internal/notify"
	"github.com/pscheid92/smaas/internal/platform/config"
)

// InitAPI builds the handler table for a loaded model. source is the raw model
// document and name the resolved statechart name.
type InitAPI func(m *model.Model, source, name string) contract.Handlers

type options struct {
	metrics      *metrics.Metrics
	notifyOpts   []notify.Option
	healthChecks []httpserver.HealthCheck
}

type Option func(*options)

// WithMetrics instruments the server and the change stream on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithNotifyOptions tunes the change stream, for example its debounce window.
func WithNotifyOptions(opts ...notify.Option) Option {
	return func(o *options) { o.notifyOpts = append(o.notifyOpts, opts...) }
}

// WithHealthChecks adds readiness checks on top of the model file check.
func WithHealthChecks(checks ...httpserver.HealthCheck) Option {
	return func(o *options) { o.healthChecks = append(o.healthChecks, checks...) }
}

// App is a fully bound server together with the model it serves.
type App struct {
	Server *httpserver.Server
	Model  *model.Model
	Name   string
}

// New loads the model named by cfg, builds its handlers with initAPI and binds
// them against doc. Every failure is returned before any route is served.
func New(cfg *config.Config, doc *contract.Document, initAPI InitAPI, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	m, err := model.Load(cfg.ModelPath)
	if err != nil {
		return nil, err
	}

	name := m.Name
	if cfg.AppName != "" {
		name = cfg.AppName
	}
	slog.Info("Model loaded", "path", m.Path, "format", m.Format, "name", name)

	handlers := initAPI(m, m.Source, name)

	srvOpts := httpserver.Options{
		Name:         name,
		Metrics:      o.metrics,
		HealthChecks: append([]httpserver.HealthCheck{httpserver.FileCheck("model", m.Path)}, o.healthChecks...),
	}

	if cfg.LiveReload {
		var recorder notify.Recorder
		notifyOpts := o.notifyOpts
		if o.metrics != nil {
			recorder = o.metrics.Notifier
			notifyOpts = append([]notify.Option{notify.WithRecorder(recorder)}, notifyOpts...)
		}
		srvOpts.Notifier = notify.NewNotifier(notify.NewRegistry(recorder), notifyOpts...)
	}

	srv, err := httpserver.NewServer(cfg, doc, handlers, srvOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &App{Server: srv, Model: m, Name: name}, nil
}

// LoadContract reads a contract document from path.
func LoadContract(path string) (*contract.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract: %w", err)
	}

	doc, err := contract.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract %s: %w", path, err)
	}
	return doc, nil
}
