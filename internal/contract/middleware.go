package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apperrors "github.com/pscheid92/smaas/internal/platform/errors"
)

const (
	mimeJSON = "application/json"

	bodyKey      = "contract.body"
	maxBodyBytes = 1 << 20
)

// ErrUnsupportedContentType is the reason RequireJSON reports to clients.
var ErrUnsupportedContentType = errors.New("Request must be of type application/json")

// UnsupportedContentTypeResponse is the body of a RequireJSON rejection.
type UnsupportedContentTypeResponse struct {
	Name string `json:"name"`
}

// IsJSON reports whether a Content-Type header value names JSON, either
// application/json or a structured +json type.
func IsJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == mimeJSON || strings.HasSuffix(mediaType, "+json")
}

// RequireJSON answers 400 for requests whose Content-Type is not JSON. The
// next handler is not called for those requests.
func RequireJSON(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		contentType := req.Header.Get(echo.HeaderContentType)
		if IsJSON(contentType) {
			return next(c)
		}

		slog.InfoContext(req.Context(), "Rejected non-JSON request",
			"path", req.URL.Path,
			"method", req.Method,
			"content_type", contentType,
		)
		if err := c.JSON(http.StatusBadRequest, UnsupportedContentTypeResponse{Name: ErrUnsupportedContentType.Error()}); err != nil {
			return fmt.Errorf("failed to write content type rejection: %w", err)
		}
		return nil
	}
}

// ParseJSONBody decodes the request body and makes it available through Body.
// The raw bytes are put back on the request so handlers may decode again into
// their own types. An empty body passes through with no parsed value.
func ParseJSONBody(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if req.Body == nil || req.Body == http.NoBody {
			return next(c)
		}

		data, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes+1))
		_ = req.Body.Close()
		if err != nil {
			return apperrors.ValidationError("failed to read request body").WithField("cause", err.Error())
		}
		if len(data) > maxBodyBytes {
			return apperrors.ValidationError("request body too large").WithField("limit_bytes", maxBodyBytes)
		}
		req.Body = io.NopCloser(bytes.NewReader(data))

		if len(bytes.TrimSpace(data)) == 0 {
			return next(c)
		}

		var body any
		if err := json.Unmarshal(data, &body); err != nil {
			return apperrors.ValidationError("request body is not valid JSON").WithField("cause", err.Error())
		}
		c.Set(bodyKey, body)

		return next(c)
	}
}

// Body returns the JSON body decoded by ParseJSONBody.
func Body(c echo.Context) (any, bool) {
	body := c.Get(bodyKey)
	return body, body != nil
}
