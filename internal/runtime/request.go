package runtime

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mark3labs/swagger2cli/internal/tree"
)

// Invocation carries the raw string arguments bound to one operation: path
// and query parameter tokens keyed by parameter name, body field tokens keyed
// by property name, and the two whole-body override channels. Nil pointers
// mean the flag was not supplied.
type Invocation struct {
	Params   map[string][]string
	Fields   map[string][]string
	RawBody  *string
	BodyFile *string
}

// BuildURL assembles the concrete request URL for an operation: joins the
// base URL and base path without duplicating the path segment, substitutes
// percent-encoded path parameters, and appends the query string.
func BuildURL(baseURL, basePath string, op *tree.Operation, inv *Invocation) (*url.URL, error) {
	base := strings.TrimRight(baseURL, "/")
	basePath = strings.TrimSpace(basePath)
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	apiBase := base
	if !strings.HasSuffix(base, basePath) {
		apiBase = base + basePath
	}

	path := op.Path
	for _, param := range op.Params {
		if param.Location != tree.InPath {
			continue
		}
		tokens := inv.Params[param.Name]
		if len(tokens) == 0 {
			return nil, fmt.Errorf("missing required param --%s", param.Flag)
		}
		path = strings.ReplaceAll(path, "{"+param.Name+"}", url.PathEscape(tokens[0]))
	}

	u, err := url.Parse(apiBase + path)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	query := url.Values{}
	for _, param := range op.Params {
		if param.Location != tree.InQuery {
			continue
		}
		tokens := inv.Params[param.Name]
		if len(tokens) == 0 {
			continue
		}
		if param.Schema.Kind == tree.KindArray {
			values, err := QueryValues(param.Schema, tokens)
			if err != nil {
				return nil, fmt.Errorf("param --%s: %w", param.Flag, err)
			}
			for _, v := range values {
				query.Add(param.Name, v)
			}
			continue
		}
		// Scalar query values keep the raw token text.
		query.Add(param.Name, tokens[0])
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	return u, nil
}
