package contract

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	apperrors "github.com/pscheid92/smaas/internal/platform/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsJSON(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"APPLICATION/JSON", true},
		{"application/vnd.api+json", true},
		{"text/plain", false},
		{"text/json-ish", false},
		{"", false},
		{";;;", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, IsJSON(tt.contentType))
		})
	}
}

func TestParseJSONBody_KeepsRawBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"event":"open"}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var raw string
	var parsed any
	handler := ParseJSONBody(func(c echo.Context) error {
		parsed, _ = Body(c)
		data, err := io.ReadAll(c.Request().Body)
		raw = string(data)
		return err
	})

	require.NoError(t, handler(c))
	assert.Equal(t, map[string]any{"event": "open"}, parsed)
	assert.Equal(t, `{"event":"open"}`, raw)
}

func TestParseJSONBody_EmptyBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("  \n"))
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	handler := ParseJSONBody(func(c echo.Context) error {
		called = true
		_, ok := Body(c)
		assert.False(t, ok)
		return nil
	})

	require.NoError(t, handler(c))
	assert.True(t, called)
}

func TestParseJSONBody_Malformed(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"event":`))
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := ParseJSONBody(func(echo.Context) error {
		called = true
		return nil
	})(c)

	require.Error(t, err)
	assert.False(t, called)
	structured := apperrors.AsStructuredError(err)
	assert.Equal(t, apperrors.TypeValidation, structured.Type)
	assert.Equal(t, http.StatusBadRequest, structured.HTTPStatus())
}

func TestParseJSONBody_TooLarge(t *testing.T) {
	e := echo.New()
	body := `"` + strings.Repeat("x", maxBodyBytes) + `"`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c := e.NewContext(req, httptest.NewRecorder())

	err := ParseJSONBody(func(echo.Context) error { return nil })(c)

	require.Error(t, err)
	assert.Equal(t, "request body too large", apperrors.AsStructuredError(err).Message)
}

func TestRequireJSON_DoesNotCallNext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello"))
	req.Header.Set(echo.HeaderContentType, "text/plain")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := RequireJSON(func(echo.Context) error {
		called = true
		return nil
	})(c)

	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"name":"Request must be of type application/json"}`, rec.Body.String())
}
