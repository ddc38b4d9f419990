package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/swagger2cli/internal/tree"
)

func strptr(s string) *string { return &s }

func emptyInvocation() *Invocation {
	return &Invocation{
		Params: make(map[string][]string),
		Fields: make(map[string][]string),
	}
}

func getOp() *tree.Operation {
	return &tree.Operation{
		Name:   "get",
		Method: "GET",
		Path:   "/workflows/{id}",
		Params: []tree.ParamDef{
			{Name: "id", Flag: "id", Location: tree.InPath, Required: true, Schema: tree.SchemaDef{Kind: tree.KindString}},
		},
	}
}

func TestBuildURLPathSubstitution(t *testing.T) {
	inv := emptyInvocation()
	inv.Params["id"] = []string{"42"}

	u, err := BuildURL("https://h", "/api/v1", getOp(), inv)
	require.NoError(t, err)
	assert.Equal(t, "https://h/api/v1/workflows/42", u.String())
}

func TestBuildURLEscapesPathValues(t *testing.T) {
	inv := emptyInvocation()
	inv.Params["id"] = []string{"a b"}

	u, err := BuildURL("https://h", "/api/v1", getOp(), inv)
	require.NoError(t, err)
	assert.Equal(t, "https://h/api/v1/workflows/a%20b", u.String())
}

func TestBuildURLNoBasePathDuplication(t *testing.T) {
	inv := emptyInvocation()
	inv.Params["id"] = []string{"42"}

	u, err := BuildURL("https://h/api/v1", "/api/v1", getOp(), inv)
	require.NoError(t, err)
	assert.Equal(t, "https://h/api/v1/workflows/42", u.String())

	// Trailing slash on the base URL is stripped first.
	u, err = BuildURL("https://h/api/v1/", "/api/v1", getOp(), inv)
	require.NoError(t, err)
	assert.Equal(t, "https://h/api/v1/workflows/42", u.String())

	// Base path without a leading slash gets one.
	u, err = BuildURL("https://h", "api/v1", getOp(), inv)
	require.NoError(t, err)
	assert.Equal(t, "https://h/api/v1/workflows/42", u.String())
}

func TestBuildURLMissingPathParam(t *testing.T) {
	_, err := BuildURL("https://h", "/api/v1", getOp(), emptyInvocation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required param --id")
}

func TestBuildURLQueryParams(t *testing.T) {
	op := &tree.Operation{
		Name:   "list",
		Method: "GET",
		Path:   "/workflows",
		Params: []tree.ParamDef{
			{Name: "active", Flag: "active", Location: tree.InQuery, Schema: tree.SchemaDef{Kind: tree.KindBoolean}},
			{Name: "tags", Flag: "tags", Location: tree.InQuery, Schema: tree.SchemaDef{Kind: tree.KindArray, Item: &tree.SchemaDef{Kind: tree.KindString}}},
		},
	}

	inv := emptyInvocation()
	inv.Params["active"] = []string{"true"}
	inv.Params["tags"] = []string{"a", "b"}

	u, err := BuildURL("https://h", "/api/v1", op, inv)
	require.NoError(t, err)
	assert.Equal(t, "https://h/api/v1/workflows", u.Scheme+"://"+u.Host+u.Path)

	q := u.Query()
	assert.Equal(t, []string{"true"}, q["active"])
	// Arrays contribute one pair per element, in argument order.
	assert.Equal(t, []string{"a", "b"}, q["tags"])
}

func TestBuildURLQueryOmitsUnbound(t *testing.T) {
	op := &tree.Operation{
		Name:   "list",
		Method: "GET",
		Path:   "/workflows",
		Params: []tree.ParamDef{
			{Name: "limit", Flag: "limit", Location: tree.InQuery, Schema: tree.SchemaDef{Kind: tree.KindInteger}},
		},
	}
	u, err := BuildURL("https://h", "/api/v1", op, emptyInvocation())
	require.NoError(t, err)
	assert.Empty(t, u.RawQuery)
}

func TestBuildURLQueryArrayLiteral(t *testing.T) {
	op := &tree.Operation{
		Name:   "list",
		Method: "GET",
		Path:   "/items",
		Params: []tree.ParamDef{
			{Name: "ids", Flag: "ids", Location: tree.InQuery, Schema: tree.SchemaDef{Kind: tree.KindArray, Item: &tree.SchemaDef{Kind: tree.KindInteger}}},
		},
	}
	inv := emptyInvocation()
	inv.Params["ids"] = []string{"[1,2,3]"}

	u, err := BuildURL("https://h", "/v1", op, inv)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, u.Query()["ids"])
}
