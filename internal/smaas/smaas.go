// Package smaas provides the default SCXML-as-a-service contract and the
// handler table the server ships with.
package smaas

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/smaas/internal/contract"
	"github.com/pscheid92/smaas/internal/model"
	apperrors "github.com/pscheid92/smaas/internal/platform/errors"
)

//go:embed smaas.json
var contractJSON []byte

// Contract parses the embedded contract document.
func Contract() (*contract.Document, error) {
	doc, err := contract.Parse(contractJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded contract: %w", err)
	}
	return doc, nil
}

// instanceOperations need an interpreter to execute the statechart; none is
// linked into this server.
var instanceOperations = []string{
	"createInstance",
	"getInstances",
	"getInstance",
	"createNamedInstance",
	"sendEvent",
	"deleteInstance",
	"instanceChanges",
	"getEventLog",
}

// NewHandlers builds the handler table for the embedded contract. It has the
// shape of app.InitAPI.
func NewHandlers(m *model.Model, source, name string) contract.Handlers {
	h := contract.Handlers{
		"getStatechartName": func(c echo.Context) error {
			if err := c.JSON(http.StatusOK, map[string]string{"name": name}); err != nil {
				return fmt.Errorf("failed to send JSON response: %w", err)
			}
			return nil
		},
		"getStatechartDefinition": func(c echo.Context) error {
			if err := c.Blob(http.StatusOK, contentType(m), []byte(source)); err != nil {
				return fmt.Errorf("failed to send definition: %w", err)
			}
			return nil
		},
	}

	for _, id := range instanceOperations {
		h[id] = notImplemented(id)
	}
	return h
}

func notImplemented(operationID string) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := apperrors.NotImplementedError("operation requires a statechart interpreter").
			WithField("operation_id", operationID)
		if id := c.Param("InstanceId"); id != "" {
			err = err.WithField("instance_id", id)
		}
		return err
	}
}

func contentType(m *model.Model) string {
	if m.Format == model.FormatSCJSON {
		return echo.MIMEApplicationJSON
	}
	return "application/scxml+xml"
}
