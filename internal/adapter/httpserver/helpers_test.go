package httpserver

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/smaas/internal/contract"
	"github.com/pscheid92/smaas/internal/platform/config"
	"github.com/stretchr/testify/require"
)

const testContract = `{
  "swagger": "2.0",
  "info": {"title": "test", "version": "1"},
  "host": "example.invalid",
  "basePath": "/api/v3",
  "schemes": ["http", "https"],
  "paths": {
    "/": {
      "get": {"operationId": "getStatechartName"}
    },
    "/{InstanceId}": {
      "parameters": [{"name": "InstanceId", "in": "path", "required": true, "type": "string"}],
      "post": {"operationId": "sendEvent", "consumes": ["application/json"]},
      "delete": {"operationId": "deleteInstance"}
    }
  }
}`

type serverOption func(*config.Config, *contract.Handlers, *Options)

func withHealthChecks(checks ...HealthCheck) serverOption {
	return func(_ *config.Config, _ *contract.Handlers, o *Options) {
		o.HealthChecks = checks
	}
}

func withConfig(fn func(*config.Config)) serverOption {
	return func(cfg *config.Config, _ *contract.Handlers, _ *Options) {
		fn(cfg)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:         "test",
		Port:           "0",
		Host:           "localhost:8002",
		ModelPath:      "model.scxml",
		LiveReloadPath: "/_changes",
	}
}

func testHandlers() contract.Handlers {
	return contract.Handlers{
		"getStatechartName": func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]string{"name": "door"})
		},
		"sendEvent": func(c echo.Context) error {
			body, _ := contract.Body(c)
			return c.JSON(http.StatusOK, map[string]any{
				"instance": c.Param("InstanceId"),
				"event":    body,
			})
		},
		"deleteInstance": func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		},
	}
}

func testDocument(t *testing.T) *contract.Document {
	t.Helper()
	doc, err := contract.Parse([]byte(testContract))
	require.NoError(t, err)
	return doc
}

func newTestServer(t *testing.T, opts ...serverOption) *Server {
	t.Helper()

	cfg := testConfig()
	handlers := testHandlers()
	options := Options{Name: "door"}
	for _, opt := range opts {
		opt(cfg, &handlers, &options)
	}

	srv, err := NewServer(cfg, testDocument(t), handlers, options)
	require.NoError(t, err)
	return srv
}
