package contract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetsContract = `{
  "swagger": "2.0",
  "info": {"title": "Widgets", "version": "1.0.0"},
  "host": "placeholder",
  "basePath": "/api/v1",
  "schemes": ["http", "https"],
  "paths": {
    "/widgets": {
      "get": {"operationId": "listWidgets"},
      "post": {"operationId": "createWidget", "consumes": ["application/json"]}
    },
    "/widgets/{id}": {
      "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
      "get": {"operationId": "getWidget"},
      "put": {"operationId": "replaceWidget", "consumes": ["application/json", "text/plain"]},
      "delete": {"operationId": "deleteWidget"}
    },
    "/widgets/{id}/parts/{part}": {
      "post": {"operationId": "uploadPart", "consumes": ["application/octet-stream"]}
    }
  }
}`

func TestParse_JSON(t *testing.T) {
	doc, err := Parse([]byte(widgetsContract))
	require.NoError(t, err)

	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "Widgets", doc.Info.Title)
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Len(t, doc.Paths, 3)

	item := doc.Paths["/widgets/{id}"]
	assert.Len(t, item, 3, "path-level parameters are not a method")
	assert.Equal(t, "replaceWidget", item["put"].OperationID)
	assert.True(t, item["put"].ConsumesJSON())
	assert.False(t, item["get"].ConsumesJSON())

	assert.Equal(t, []string{
		"createWidget", "deleteWidget", "getWidget", "listWidgets", "replaceWidget", "uploadPart",
	}, doc.OperationIDs())
}

func TestParse_YAML(t *testing.T) {
	src := `
swagger: "2.0"
basePath: /api
paths:
  /things/{thing}:
    get:
      operationId: getThing
      responses:
        200:
          description: ok
`
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "getThing", doc.Paths["/things/{thing}"]["get"].OperationID)

	// Unquoted YAML response codes must still serve as JSON.
	_, err = json.Marshal(doc.Advertised("h", ""))
	require.NoError(t, err)
}

func TestParse_MissingOperationID(t *testing.T) {
	_, err := Parse([]byte(`{"paths": {"/a": {"get": {"summary": "no id"}}}}`))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingOperationID)

	var bindErr *BindError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, "/a", bindErr.Path)
	assert.Equal(t, "get", bindErr.Method)
}

func TestParse_DuplicateOperationID(t *testing.T) {
	_, err := Parse([]byte(`{"paths": {
		"/a": {"get": {"operationId": "same"}},
		"/b": {"get": {"operationId": "same"}}
	}}`))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateOperationID)
	assert.Contains(t, err.Error(), `"same"`)
	assert.Contains(t, err.Error(), "first declared on get /a")
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`{"paths": [`))
	assert.Error(t, err)
}

func TestAdvertised(t *testing.T) {
	doc, err := Parse([]byte(widgetsContract))
	require.NoError(t, err)

	served := doc.Advertised("api.example.com", "")
	assert.Equal(t, "api.example.com", served["host"])
	assert.Equal(t, []any{"http", "https"}, served["schemes"])

	served = doc.Advertised("api.example.com", "https")
	assert.Equal(t, []string{"https"}, served["schemes"])

	again := doc.Advertised("", "")
	assert.Equal(t, "placeholder", again["host"], "advertising must not mutate the parsed document")
}
