package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Command tree definitions shared by the compiler and the runtime interpreter.
// The JSON layout below is the persisted artifact format and must stay stable
// across compiler runs so trees diff cleanly.

// Schema kinds produced by the resolver.
const (
	KindString  = "string"
	KindInteger = "integer"
	KindNumber  = "number"
	KindBoolean = "boolean"
	KindObject  = "object"
	KindArray   = "array"
	KindUnknown = "unknown"
)

// CommandTree is the compiled, immutable description of an API's command
// surface: resources, operations, parameters, and body shapes.
type CommandTree struct {
	Version   string     `json:"version"`
	BasePath  string     `json:"base_path"`
	Resources []Resource `json:"resources"`
}

// Resource groups operations sharing a category tag.
type Resource struct {
	Name string      `json:"name"`
	Ops  []Operation `json:"ops"`
}

// Operation is one HTTP method + path endpoint.
type Operation struct {
	Name        string     `json:"name"`
	Method      string     `json:"method"`
	Path        string     `json:"path"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Params      []ParamDef `json:"params"`
	Body        *BodyDef   `json:"body,omitempty"`
}

// ParamDef describes one path or query parameter. Uniqueness within an
// operation is keyed by (Location, Name).
type ParamDef struct {
	Name     string    `json:"name"`
	Flag     string    `json:"flag"`
	Location string    `json:"location"`
	Required bool      `json:"required"`
	Schema   SchemaDef `json:"schema"`
}

// BodyDef is present only when an operation declares a request payload.
type BodyDef struct {
	Required    bool         `json:"required"`
	ContentType string       `json:"content_type"`
	Schema      SchemaDef    `json:"schema"`
	InputFields []InputField `json:"input_fields"`
}

// InputField is one property of an object-shaped body, flattened into an
// individual flag.
type InputField struct {
	Name     string    `json:"name"`
	Flag     string    `json:"flag"`
	Required bool      `json:"required"`
	Schema   SchemaDef `json:"schema"`
}

// SchemaDef is the normalized type shape used both for flag generation at
// compile time and value coercion at runtime. Item is set only for arrays.
type SchemaDef struct {
	Kind string     `json:"kind"`
	Item *SchemaDef `json:"item,omitempty"`
}

// Parameter locations.
const (
	InPath  = "path"
	InQuery = "query"
)

// Encode renders the tree as indented JSON with a trailing newline. Output is
// deterministic: field order is fixed by the struct tags and all slices are
// sorted by the builder.
func (t *CommandTree) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("encode command tree: %w", err)
	}
	return buf.Bytes(), nil
}

// Load parses a compiled command tree. A malformed document is fatal to the
// caller; there is no partial recovery.
func Load(data []byte) (*CommandTree, error) {
	var t CommandTree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("malformed command tree: %w", err)
	}
	return &t, nil
}

// FindOp selects one operation by resource and operation name, or nil when
// either name is unknown.
func (t *CommandTree) FindOp(resource, op string) *Operation {
	for i := range t.Resources {
		if t.Resources[i].Name != resource {
			continue
		}
		for j := range t.Resources[i].Ops {
			if t.Resources[i].Ops[j].Name == op {
				return &t.Resources[i].Ops[j]
			}
		}
	}
	return nil
}

// Label returns a short human-readable form of a schema for flag help text,
// e.g. "integer" or "array<string>".
func (s SchemaDef) Label() string {
	if s.Kind == KindArray {
		item := KindUnknown
		if s.Item != nil {
			item = s.Item.Kind
		}
		return fmt.Sprintf("array<%s>", item)
	}
	return s.Kind
}
