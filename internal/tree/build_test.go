package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSpec = `
openapi: 3.0.0
info:
  title: Workflow API
  version: "1.1.1"
servers:
  - url: /api/v1
paths:
  /workflows:
    get:
      operationId: getWorkflows
      summary: List workflows
      tags: [Workflow]
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
        - name: tags
          in: query
          schema:
            type: array
            items:
              type: string
    post:
      operationId: createWorkflow
      tags: [Workflow]
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Workflow'
  /workflows/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: string
    get:
      operationId: getWorkflow
      tags: [Workflow]
    delete:
      operationId: deleteWorkflow
      tags: [Workflow]
  /users:
    get:
      summary: List users
components:
  schemas:
    Workflow:
      type: object
      required: [name]
      properties:
        name:
          type: string
        active:
          type: boolean
        nodeIds:
          type: array
          items:
            type: integer
`

func buildSample(t *testing.T) *CommandTree {
	t.Helper()
	doc := docFromYAML(t, sampleSpec)
	tr, err := Build(doc, nil)
	require.NoError(t, err)
	return tr
}

func TestBuildBasics(t *testing.T) {
	tr := buildSample(t)

	assert.Equal(t, "1.1.1", tr.Version)
	assert.Equal(t, "/api/v1", tr.BasePath)

	require.Len(t, tr.Resources, 2)
	// Resources come out sorted by name.
	assert.Equal(t, "default", tr.Resources[0].Name)
	assert.Equal(t, "workflow", tr.Resources[1].Name)

	wf := tr.Resources[1]
	names := make([]string, 0, len(wf.Ops))
	for _, op := range wf.Ops {
		names = append(names, op.Name)
	}
	assert.Equal(t, []string{"create-workflow", "delete-workflow", "get-workflow", "get-workflows"}, names)
}

func TestBuildDefaults(t *testing.T) {
	doc := docFromYAML(t, `
openapi: 3.0.0
paths:
  /ping:
    get:
      summary: Ping
`)
	tr, err := Build(doc, nil)
	require.NoError(t, err)

	assert.Equal(t, "0", tr.Version)
	assert.Equal(t, "/api/v1", tr.BasePath)
	require.Len(t, tr.Resources, 1)
	assert.Equal(t, "default", tr.Resources[0].Name)
	require.Len(t, tr.Resources[0].Ops, 1)
	// Missing operationId falls back to "call".
	assert.Equal(t, "call", tr.Resources[0].Ops[0].Name)
}

func TestBuildMissingPaths(t *testing.T) {
	_, err := Build(map[string]any{"openapi": "3.0.0"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paths missing")
}

func TestBuildPathParamsMergedAndOverridden(t *testing.T) {
	doc := docFromYAML(t, `
openapi: 3.0.0
paths:
  /things/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: string
      - name: verbose
        in: query
        schema:
          type: boolean
    get:
      operationId: getThing
      parameters:
        - name: id
          in: path
          required: false
          schema:
            type: string
`)
	tr, err := Build(doc, nil)
	require.NoError(t, err)

	op := tr.FindOp("default", "get-thing")
	require.NotNil(t, op)
	require.Len(t, op.Params, 2)

	// Sorted by (location, name): path:id then query:verbose.
	assert.Equal(t, "id", op.Params[0].Name)
	assert.Equal(t, InPath, op.Params[0].Location)
	// Operation-level entry replaced the shared one wholesale.
	assert.False(t, op.Params[0].Required)

	assert.Equal(t, "verbose", op.Params[1].Name)
	assert.Equal(t, InQuery, op.Params[1].Location)
}

func TestBuildRequestBodyFields(t *testing.T) {
	tr := buildSample(t)

	op := tr.FindOp("workflow", "create-workflow")
	require.NotNil(t, op)
	require.NotNil(t, op.Body)

	body := op.Body
	assert.True(t, body.Required)
	assert.Equal(t, "application/json", body.ContentType)
	assert.Equal(t, KindObject, body.Schema.Kind)

	require.Len(t, body.InputFields, 3)
	// Fields sorted by property name.
	assert.Equal(t, "active", body.InputFields[0].Name)
	assert.Equal(t, "input-active", body.InputFields[0].Flag)
	assert.False(t, body.InputFields[0].Required)

	assert.Equal(t, "name", body.InputFields[1].Name)
	assert.True(t, body.InputFields[1].Required)

	assert.Equal(t, "nodeIds", body.InputFields[2].Name)
	assert.Equal(t, "input-node-ids", body.InputFields[2].Flag)
	require.Equal(t, KindArray, body.InputFields[2].Schema.Kind)
	assert.Equal(t, KindInteger, body.InputFields[2].Schema.Item.Kind)
}

func TestBuildNonObjectBodyHasNoFields(t *testing.T) {
	doc := docFromYAML(t, `
openapi: 3.0.0
paths:
  /upload:
    post:
      operationId: upload
      requestBody:
        content:
          text/plain:
            schema:
              type: string
`)
	tr, err := Build(doc, nil)
	require.NoError(t, err)

	op := tr.FindOp("default", "upload")
	require.NotNil(t, op)
	require.NotNil(t, op.Body)
	assert.Equal(t, "text/plain", op.Body.ContentType)
	assert.Equal(t, KindString, op.Body.Schema.Kind)
	assert.Empty(t, op.Body.InputFields)
}

func TestBuildDeterministic(t *testing.T) {
	first, err := buildSample(t).Encode()
	require.NoError(t, err)
	second, err := buildSample(t).Encode()
	require.NoError(t, err)
	assert.Equal(t, first, second, "compiling the same document twice must be byte-identical")
}

func TestEncodeLoadRoundTrip(t *testing.T) {
	tr := buildSample(t)
	data, err := tr.Encode()
	require.NoError(t, err)

	loaded, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, tr, loaded)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed command tree")
}
