// Package model loads the state-machine document the API is served for.
//
// Only enough of the document is read to identify it: the root element (or
// object) and its name. Executing the machine is left to the handlers.
package model

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

type Format string

const (
	FormatSCXML  Format = "scxml"
	FormatSCJSON Format = "scjson"
)

var (
	ErrNotSCXML  = errors.New("root element is not <scxml>")
	ErrNotSCJSON = errors.New("document is not a JSON object")
)

var scjsonName = jp.MustParseString("$.name")

// Model is a loaded state-machine document.
type Model struct {
	Path   string
	Format Format
	Name   string
	Source string
}

// LoadError reports a model that could not be read or identified.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load model %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads the model at path. The format follows the extension: .json and
// .scjson are SCJSON, anything else is SCXML. A document without a name is
// named after its file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	m := &Model{
		Path:   path,
		Format: formatOf(path),
		Source: string(data),
	}

	if m.Format == FormatSCJSON {
		m.Name, err = scjsonDocumentName(data)
	} else {
		m.Name, err = scxmlDocumentName(data)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".scjson":
		return FormatSCJSON
	default:
		return FormatSCXML
	}
}

func scxmlDocumentName(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return "", ErrNotSCXML
		}
		if err != nil {
			return "", fmt.Errorf("invalid XML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "scxml" {
			return "", fmt.Errorf("%w: found <%s>", ErrNotSCXML, start.Name.Local)
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "name" && attr.Name.Space == "" {
				return attr.Value, nil
			}
		}
		return "", nil
	}
}

func scjsonDocumentName(data []byte) (string, error) {
	doc, err := oj.Parse(data)
	if err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return "", ErrNotSCJSON
	}

	name, _ := scjsonName.First(doc).(string)
	return name, nil
}
