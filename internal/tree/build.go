package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// httpMethods are the path-item verbs scanned by the builder, in the order
// they are probed. The resulting operations are sorted by name afterwards, so
// this order never leaks into the artifact.
var httpMethods = []string{"get", "post", "put", "patch", "delete", "head", "options"}

// Builder compiles a raw specification document into a CommandTree.
type Builder struct {
	doc map[string]any
	res *Resolver
	log *logrus.Logger
}

func NewBuilder(doc map[string]any, log *logrus.Logger) *Builder {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	return &Builder{doc: doc, res: NewResolver(doc), log: log}
}

// Build produces the normalized command tree. Output is deterministic: paths,
// resources, operations, parameters, and input fields all materialize in
// sorted order, so compiling the same document twice yields identical bytes.
func Build(doc map[string]any, log *logrus.Logger) (*CommandTree, error) {
	return NewBuilder(doc, log).Build()
}

func (b *Builder) Build() (*CommandTree, error) {
	tree := &CommandTree{
		Version:  stringAt(b.doc, "info", "version"),
		BasePath: b.basePath(),
	}
	if tree.Version == "" {
		tree.Version = "0"
	}

	paths, ok := b.doc["paths"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("paths missing")
	}

	grouped := make(map[string][]Operation)
	for _, path := range sortedKeys(paths) {
		item, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		pathParams, _ := item["parameters"].([]any)

		for _, method := range httpMethods {
			raw, ok := item[method]
			if !ok {
				continue
			}
			opNode, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("operation %s %s: not an object", strings.ToUpper(method), path)
			}

			op, resource, err := b.buildOperation(method, path, opNode, pathParams)
			if err != nil {
				return nil, err
			}
			b.log.Debugf("compiled %s %s as %s %s", op.Method, op.Path, resource, op.Name)
			grouped[resource] = append(grouped[resource], op)
		}
	}

	for _, name := range sortedKeys(grouped) {
		ops := grouped[name]
		sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
		for i := 1; i < len(ops); i++ {
			if ops[i].Name == ops[i-1].Name {
				b.log.Warnf("resource %s: duplicate operation name %s", name, ops[i].Name)
			}
		}
		tree.Resources = append(tree.Resources, Resource{Name: name, Ops: ops})
	}

	return tree, nil
}

func (b *Builder) buildOperation(method, path string, opNode map[string]any, pathParams []any) (Operation, string, error) {
	tag := "default"
	if tags, ok := opNode["tags"].([]any); ok && len(tags) > 0 {
		if s, ok := tags[0].(string); ok && s != "" {
			tag = s
		}
	}

	opID, _ := opNode["operationId"].(string)
	if opID == "" {
		opID, _ = opNode["x-eov-operation-id"].(string)
	}
	if opID == "" {
		opID = "call"
	}

	opParams, _ := opNode["parameters"].([]any)
	params := b.mergeParams(pathParams, opParams)

	body, err := b.buildRequestBody(opNode["requestBody"])
	if err != nil {
		return Operation{}, "", fmt.Errorf("operation %s %s: %w", strings.ToUpper(method), path, err)
	}

	op := Operation{
		Name:        Kebab(opID),
		Method:      strings.ToUpper(method),
		Path:        path,
		Summary:     stringAt(opNode, "summary"),
		Description: stringAt(opNode, "description"),
		Params:      params,
		Body:        body,
	}
	return op, Kebab(tag), nil
}

// mergeParams combines shared path-level parameters with operation-level
// ones. Both lists fill a map keyed by (location, name); operation entries
// replace shared entries wholesale. Values come back in sorted key order.
func (b *Builder) mergeParams(pathParams, opParams []any) []ParamDef {
	merged := make(map[string]ParamDef)
	for _, raw := range pathParams {
		if def, ok := b.parseParam(raw); ok {
			merged[def.Location+":"+def.Name] = def
		}
	}
	for _, raw := range opParams {
		if def, ok := b.parseParam(raw); ok {
			merged[def.Location+":"+def.Name] = def
		}
	}

	out := make([]ParamDef, 0, len(merged))
	for _, key := range sortedKeys(merged) {
		out = append(out, merged[key])
	}
	return out
}

func (b *Builder) parseParam(raw any) (ParamDef, bool) {
	node, ok := b.res.Deref(raw).(map[string]any)
	if !ok {
		return ParamDef{}, false
	}
	name, _ := node["name"].(string)
	if name == "" {
		return ParamDef{}, false
	}

	location, _ := node["in"].(string)
	if location == "" {
		location = InQuery
	}
	required, _ := node["required"].(bool)

	return ParamDef{
		Name:     name,
		Flag:     Kebab(name),
		Location: location,
		Required: required,
		Schema:   b.res.Schema(node["schema"]),
	}, true
}

func (b *Builder) buildRequestBody(raw any) (*BodyDef, error) {
	if raw == nil {
		return nil, nil
	}
	node, ok := b.res.Deref(raw).(map[string]any)
	if !ok {
		return nil, nil
	}
	required, _ := node["required"].(bool)

	content, ok := node["content"].(map[string]any)
	if !ok || len(content) == 0 {
		return nil, nil
	}

	contentType := "application/json"
	media, ok := content[contentType]
	if !ok {
		// No JSON variant declared: take the first content type.
		contentType = sortedKeys(content)[0]
		media = content[contentType]
	}

	var schemaNode any
	if m, ok := media.(map[string]any); ok {
		schemaNode = m["schema"]
	}

	def := &BodyDef{
		Required:    required,
		ContentType: contentType,
		Schema:      b.res.Schema(schemaNode),
		InputFields: []InputField{},
	}
	if def.Schema.Kind == KindObject {
		def.InputFields = b.inputFields(schemaNode)
	}
	return def, nil
}

// inputFields flattens an object body's declared properties into one flag
// definition per property, sorted by property name.
func (b *Builder) inputFields(schemaNode any) []InputField {
	node, ok := b.res.Deref(schemaNode).(map[string]any)
	if !ok {
		return []InputField{}
	}
	props, ok := node["properties"].(map[string]any)
	if !ok {
		return []InputField{}
	}

	requiredSet := make(map[string]struct{})
	if list, ok := node["required"].([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				requiredSet[s] = struct{}{}
			}
		}
	}

	fields := make([]InputField, 0, len(props))
	for _, name := range sortedKeys(props) {
		_, req := requiredSet[name]
		fields = append(fields, InputField{
			Name:     name,
			Flag:     "input-" + Kebab(name),
			Required: req,
			Schema:   b.res.Schema(props[name]),
		})
	}
	return fields
}

func (b *Builder) basePath() string {
	servers, ok := b.doc["servers"].([]any)
	if ok && len(servers) > 0 {
		if first, ok := servers[0].(map[string]any); ok {
			if u, ok := first["url"].(string); ok && u != "" {
				return u
			}
		}
	}
	return "/api/v1"
}

func stringAt(m map[string]any, keys ...string) string {
	var current any = m
	for _, key := range keys {
		node, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = node[key]
	}
	s, _ := current.(string)
	return strings.TrimSpace(s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
