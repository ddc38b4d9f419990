package runtime

import (
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/swagger2cli/internal/tree"
)

// bodySource is the tagged choice of where a request body comes from. The
// precedence is fixed: raw JSON text, then a body file, then individual input
// fields, then nothing. Raw text and file are mutually exclusive rather than
// ordered.
type bodySource int

const (
	sourceNone bodySource = iota
	sourceRaw
	sourceFile
	sourceFields
)

func pickBodySource(op *tree.Operation, inv *Invocation) (bodySource, error) {
	if op.Body == nil {
		if inv.RawBody != nil || inv.BodyFile != nil {
			return sourceNone, errors.New("request does not accept a body")
		}
		return sourceNone, nil
	}
	if inv.RawBody != nil && inv.BodyFile != nil {
		return sourceNone, errors.New("use only one of --body or --body-file")
	}
	switch {
	case inv.RawBody != nil:
		return sourceRaw, nil
	case inv.BodyFile != nil:
		return sourceFile, nil
	case op.Body.Schema.Kind == tree.KindObject && len(op.Body.InputFields) > 0:
		return sourceFields, nil
	default:
		return sourceNone, nil
	}
}

// BuildBody resolves the request body for an operation. The second return
// value reports whether a body is present at all; a required body that no
// channel produced is an error.
func BuildBody(op *tree.Operation, inv *Invocation) (any, bool, error) {
	source, err := pickBodySource(op, inv)
	if err != nil {
		return nil, false, err
	}

	switch source {
	case sourceRaw:
		v, err := decodeJSON(*inv.RawBody)
		if err != nil {
			return nil, false, fmt.Errorf("invalid JSON body: %v", err)
		}
		return v, true, nil
	case sourceFile:
		contents, err := os.ReadFile(*inv.BodyFile)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read body file %s: %w", *inv.BodyFile, err)
		}
		v, err := decodeJSON(string(contents))
		if err != nil {
			return nil, false, fmt.Errorf("invalid JSON body file: %v", err)
		}
		return v, true, nil
	case sourceFields:
		obj, err := fieldsObject(op.Body, inv)
		if err != nil {
			return nil, false, err
		}
		if obj != nil {
			return obj, true, nil
		}
		// No field was actually bound: fall through to the required check.
	}

	if op.Body != nil && op.Body.Required {
		return nil, false, errors.New("request body required")
	}
	return nil, false, nil
}

// fieldsObject assembles a JSON object from bound input-field flags, coercing
// each value against its field schema. Unbound optional fields are omitted.
// Returns nil when no field was bound.
func fieldsObject(body *tree.BodyDef, inv *Invocation) (map[string]any, error) {
	obj := make(map[string]any)
	for _, field := range body.InputFields {
		tokens := inv.Fields[field.Name]
		if len(tokens) == 0 {
			continue
		}
		if field.Schema.Kind == tree.KindArray {
			v, err := CoerceList(field.Schema, tokens)
			if err != nil {
				return nil, fmt.Errorf("field --%s: %w", field.Flag, err)
			}
			obj[field.Name] = v
			continue
		}
		v, err := CoerceScalar(field.Schema, tokens[0])
		if err != nil {
			return nil, fmt.Errorf("field --%s: %w", field.Flag, err)
		}
		obj[field.Name] = v
	}
	if len(obj) == 0 {
		return nil, nil
	}
	return obj, nil
}
