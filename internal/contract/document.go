package contract

import (
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// pathParametersKey is the Swagger path-item field holding shared parameters.
// It sits next to the method keys but is not a method.
const pathParametersKey = "parameters"

type Info struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

type Operation struct {
	OperationID string   `yaml:"operationId"`
	Summary     string   `yaml:"summary"`
	Consumes    []string `yaml:"consumes"`
}

// ConsumesJSON reports whether the operation declares application/json input.
func (o Operation) ConsumesJSON() bool {
	return slices.Contains(o.Consumes, mimeJSON)
}

type Document struct {
	Swagger  string
	Info     Info
	Host     string
	BasePath string
	Schemes  []string

	// Paths maps a path template to lower-case method names to operations.
	Paths map[string]map[string]Operation

	raw map[string]any
}

type wireDocument struct {
	Swagger  string                          `yaml:"swagger"`
	Info     Info                            `yaml:"info"`
	Host     string                          `yaml:"host"`
	BasePath string                          `yaml:"basePath"`
	Schemes  []string                        `yaml:"schemes"`
	Paths    map[string]map[string]yaml.Node `yaml:"paths"`
}

// Parse decodes a JSON or YAML contract document. Every operation must carry
// an operationId that is unique across the document.
func Parse(data []byte) (*Document, error) {
	var wire wireDocument
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode contract: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode contract: %w", err)
	}

	if raw == nil {
		raw = make(map[string]any)
	}

	doc := &Document{
		Swagger:  wire.Swagger,
		Info:     wire.Info,
		Host:     wire.Host,
		BasePath: wire.BasePath,
		Schemes:  wire.Schemes,
		Paths:    make(map[string]map[string]Operation, len(wire.Paths)),
		raw:      normalize(raw).(map[string]any),
	}

	owners := make(map[string]string)
	for _, path := range slices.Sorted(maps.Keys(wire.Paths)) {
		item := wire.Paths[path]
		ops := make(map[string]Operation, len(item))

		for _, method := range slices.Sorted(maps.Keys(item)) {
			if method == pathParametersKey {
				continue
			}

			node := item[method]
			var op Operation
			if err := node.Decode(&op); err != nil {
				return nil, fmt.Errorf("failed to decode operation %s %s: %w", method, path, err)
			}

			if op.OperationID == "" {
				return nil, &BindError{Kind: ErrMissingOperationID, Path: path, Method: method}
			}
			if prev, ok := owners[op.OperationID]; ok {
				dup := &BindError{Kind: ErrDuplicateOperationID, Path: path, Method: method, OperationID: op.OperationID}
				return nil, fmt.Errorf("%w, first declared on %s", dup, prev)
			}
			owners[op.OperationID] = method + " " + path

			ops[method] = op
		}

		doc.Paths[path] = ops
	}

	return doc, nil
}

// OperationIDs lists every operationId in the document, sorted.
func (d *Document) OperationIDs() []string {
	var ids []string
	for _, item := range d.Paths {
		for _, op := range item {
			ids = append(ids, op.OperationID)
		}
	}
	slices.Sort(ids)
	return ids
}

// Advertised returns the document as served to clients, with host replaced
// and, when scheme is non-empty, schemes narrowed to that scheme. The parsed
// document is not modified.
func (d *Document) Advertised(host, scheme string) map[string]any {
	out := maps.Clone(d.raw)
	if out == nil {
		out = make(map[string]any)
	}
	if host != "" {
		out["host"] = host
	}
	if scheme != "" {
		out["schemes"] = []string{scheme}
	}
	return out
}

// normalize turns the map[any]any values yaml produces for non-string keys
// (for example unquoted response codes) into JSON-encodable maps.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return t
	}
}
