package contract

import (
	"log/slog"
	"maps"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/smaas/internal/platform/logging"
)

// Handlers maps an operationId to the handler serving it.
type Handlers map[string]echo.HandlerFunc

// Router is the registration surface shared by *echo.Echo and *echo.Group.
type Router interface {
	Add(method, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) *echo.Route
}

// Route is one resolved contract entry. It is built once by Plan and never
// changes afterwards.
type Route struct {
	Method      string
	Path        string
	Template    string
	OperationID string
	JSONOnly    bool

	handler echo.HandlerFunc
}

// Middleware returns the chain that runs ahead of the handler.
func (r Route) Middleware() []echo.MiddlewareFunc {
	if r.JSONOnly {
		return []echo.MiddlewareFunc{RequireJSON, ParseJSONBody}
	}
	return nil
}

var placeholder = regexp.MustCompile(`\{([^{}/]+)\}`)

// TranslatePath rewrites {name} placeholders into echo's :name syntax and
// leaves every other character untouched.
func TranslatePath(template string) string {
	return placeholder.ReplaceAllString(template, ":$1")
}

// supportedMethods maps contract method names to HTTP methods.
var supportedMethods = map[string]string{
	"get":    http.MethodGet,
	"post":   http.MethodPost,
	"put":    http.MethodPut,
	"delete": http.MethodDelete,
}

// Plan resolves every (path, method) entry of doc against handlers. It has no
// side effects. Routes come back sorted by template, then method name.
func Plan(doc *Document, handlers Handlers) ([]Route, error) {
	var routes []Route

	for _, template := range slices.Sorted(maps.Keys(doc.Paths)) {
		item := doc.Paths[template]
		path := joinPath(doc.BasePath, TranslatePath(template))

		for _, name := range slices.Sorted(maps.Keys(item)) {
			op := item[name]

			method, ok := supportedMethods[name]
			if !ok {
				return nil, &BindError{Kind: ErrUnsupportedMethod, Path: template, Method: name, OperationID: op.OperationID}
			}

			handler := handlers[op.OperationID]
			if handler == nil {
				return nil, &BindError{Kind: ErrMissingHandler, Path: template, Method: name, OperationID: op.OperationID}
			}

			routes = append(routes, Route{
				Method:      method,
				Path:        path,
				Template:    template,
				OperationID: op.OperationID,
				JSONOnly:    (method == http.MethodPost || method == http.MethodPut) && op.ConsumesJSON(),
				handler:     handler,
			})
		}
	}

	return routes, nil
}

// Bind plans doc and registers the result on router. Nothing is registered
// when planning fails. Calling Bind twice on the same router duplicates routes.
func Bind(router Router, doc *Document, handlers Handlers) ([]Route, error) {
	routes, err := Plan(doc, handlers)
	if err != nil {
		return nil, err
	}

	used := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		router.Add(r.Method, r.Path, r.handler, r.Middleware()...)
		used[r.OperationID] = struct{}{}
		logging.WithOperation(r.OperationID).Debug("Route bound", "method", r.Method, "path", r.Path, "json_only", r.JSONOnly)
	}

	for _, id := range slices.Sorted(maps.Keys(handlers)) {
		if _, ok := used[id]; !ok {
			logging.WithOperation(id).Warn("Handler not referenced by contract")
		}
	}

	slog.Info("Contract bound", "routes", len(routes), "base_path", doc.BasePath)
	return routes, nil
}

func joinPath(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
