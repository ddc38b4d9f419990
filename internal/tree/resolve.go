package tree

import "strings"

// maxSchemaDepth bounds schema recursion for pathologically nested documents
// that recurse without going through a $ref.
const maxSchemaDepth = 32

// Resolver normalizes raw schema nodes from a specification document into
// SchemaDef descriptors. The document is the in-memory YAML/JSON tree; only
// local ("#/...") references are followed. Anything unresolvable degrades to
// treating the original node as the schema rather than failing.
type Resolver struct {
	doc map[string]any
}

func NewResolver(doc map[string]any) *Resolver {
	return &Resolver{doc: doc}
}

// Schema resolves an arbitrary schema node into its normalized descriptor.
func (r *Resolver) Schema(node any) SchemaDef {
	return r.schema(node, make(map[string]struct{}), 0)
}

// Deref follows a chain of local $ref pointers starting at node. It returns
// the original node when the reference is non-local, points nowhere, or
// closes a cycle.
func (r *Resolver) Deref(node any) any {
	return r.deref(node, make(map[string]struct{}))
}

func (r *Resolver) schema(node any, seen map[string]struct{}, depth int) SchemaDef {
	if depth > maxSchemaDepth {
		return SchemaDef{Kind: KindUnknown}
	}

	node = r.deref(node, seen)
	m, ok := node.(map[string]any)
	if !ok {
		return SchemaDef{Kind: KindUnknown}
	}

	// Composite schemas collapse to their first listed branch. This is a
	// deliberate, lossy simplification: the command surface needs a single
	// representative shape per slot, not full union semantics.
	for _, key := range []string{"allOf", "oneOf", "anyOf"} {
		if branches, ok := m[key].([]any); ok && len(branches) > 0 {
			return r.schema(branches[0], seen, depth+1)
		}
	}

	typ, _ := m["type"].(string)
	switch typ {
	case "object":
		return SchemaDef{Kind: KindObject}
	case "array":
		return SchemaDef{Kind: KindArray, Item: r.itemSchema(m, seen, depth)}
	case "":
		// No explicit type: infer from shape, else opaque passthrough.
		if _, ok := m["properties"]; ok {
			return SchemaDef{Kind: KindObject}
		}
		if _, ok := m["items"]; ok {
			return SchemaDef{Kind: KindArray, Item: r.itemSchema(m, seen, depth)}
		}
		return SchemaDef{Kind: KindUnknown}
	case "string", "integer", "number", "boolean":
		return SchemaDef{Kind: typ}
	default:
		return SchemaDef{Kind: KindUnknown}
	}
}

func (r *Resolver) itemSchema(m map[string]any, seen map[string]struct{}, depth int) *SchemaDef {
	items, ok := m["items"]
	if !ok {
		return nil
	}
	item := r.schema(items, seen, depth+1)
	return &item
}

func (r *Resolver) deref(node any, seen map[string]struct{}) any {
	for {
		m, ok := node.(map[string]any)
		if !ok {
			return node
		}
		ref, ok := m["$ref"].(string)
		if !ok {
			return node
		}
		if !strings.HasPrefix(ref, "#/") {
			return node
		}
		if _, cyclic := seen[ref]; cyclic {
			return node
		}
		seen[ref] = struct{}{}

		target, ok := r.lookup(ref)
		if !ok {
			return node
		}
		node = target
	}
}

// lookup walks the document tree segment by segment following a local JSON
// pointer like "#/components/schemas/Pet".
func (r *Resolver) lookup(ref string) (any, bool) {
	var current any = r.doc
	for _, part := range strings.Split(strings.TrimPrefix(ref, "#/"), "/") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := m[part]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}
