package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const documentName = "/smaas.json"

func (s *Server) registerContractRoutes() {
	s.echo.GET(documentPath(s.doc.BasePath), s.handleDocument)
}

func documentPath(basePath string) string {
	return strings.TrimSuffix(basePath, "/") + documentName
}

// handleDocument serves the contract with host and schemes rewritten to the
// address clients should use.
func (s *Server) handleDocument(c echo.Context) error {
	host, scheme := s.config.AdvertisedHost()
	if err := c.JSON(http.StatusOK, s.doc.Advertised(host, scheme)); err != nil {
		return fmt.Errorf("failed to send contract document: %w", err)
	}
	return nil
}
