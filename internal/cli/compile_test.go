package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/swagger2cli/internal/tree"
)

const compileSpecYAML = `
openapi: 3.0.0
info:
  title: Workflow API
  version: 2.1.0
servers:
  - url: /api/v1
paths:
  /workflows/{id}:
    get:
      operationId: getWorkflow
      tags: [Workflow]
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        '200':
          description: OK
`

func runCompiler(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	var err error
	out := captureStdout(func() {
		err = root.Execute()
	})
	return out, err
}

func stubCompileRunner(t *testing.T) *CompileConfig {
	t.Helper()
	orig := compileRunner
	t.Cleanup(func() { compileRunner = orig })
	captured := &CompileConfig{}
	compileRunner = func(ctx context.Context, cfg *CompileConfig) error {
		*captured = *cfg
		return nil
	}
	return captured
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompileWritesCommandTree(t *testing.T) {
	specPath := writeFile(t, "openapi.yaml", compileSpecYAML)
	outPath := filepath.Join(t.TempDir(), "out", "command_tree.json")

	out, err := runCompiler(t, "compile", "--in", specPath, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote ")
	assert.Contains(t, out, "(1 resources, 1 operations)")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	built, err := tree.Load(data)
	require.NoError(t, err)

	assert.Equal(t, "2.1.0", built.Version)
	assert.Equal(t, "/api/v1", built.BasePath)
	require.Len(t, built.Resources, 1)
	assert.Equal(t, "workflow", built.Resources[0].Name)
	require.Len(t, built.Resources[0].Ops, 1)
	assert.Equal(t, "get-workflow", built.Resources[0].Ops[0].Name)
}

func TestCompileDefaults(t *testing.T) {
	captured := stubCompileRunner(t)

	_, err := runCompiler(t, "compile")
	require.NoError(t, err)
	assert.Equal(t, "openapi.yaml", captured.In)
	assert.Equal(t, "command_tree.json", captured.Out)
	assert.False(t, captured.SkipValidation)
	assert.False(t, captured.Verbose)
}

func TestCompileConfigFileMerge(t *testing.T) {
	captured := stubCompileRunner(t)
	cfgPath := writeFile(t, "config.yaml", `
in: specs/openapi.yaml
out: dist/tree.json
skipValidation: true
verbose: yes
`)

	_, err := runCompiler(t, "--config", cfgPath, "compile")
	require.NoError(t, err)
	assert.Equal(t, "specs/openapi.yaml", captured.In)
	assert.Equal(t, "dist/tree.json", captured.Out)
	assert.True(t, captured.SkipValidation)
	assert.True(t, captured.Verbose)
	assert.Equal(t, cfgPath, captured.ConfigPath)
}

func TestCompileFlagsOverrideConfigFile(t *testing.T) {
	captured := stubCompileRunner(t)
	cfgPath := writeFile(t, "config.yaml", `
input: specs/openapi.yaml
output: dist/tree.json
`)

	_, err := runCompiler(t, "--config", cfgPath, "compile", "--out", "other.json")
	require.NoError(t, err)
	assert.Equal(t, "specs/openapi.yaml", captured.In)
	assert.Equal(t, "other.json", captured.Out)
}

func TestCompileConfigUnknownField(t *testing.T) {
	stubCompileRunner(t)
	cfgPath := writeFile(t, "config.yaml", "bogus: value\n")

	_, err := runCompiler(t, "--config", cfgPath, "compile")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))
	assert.Contains(t, err.Error(), `unknown field "bogus"`)
}

func TestCompileConfigMissingFile(t *testing.T) {
	stubCompileRunner(t)

	_, err := runCompiler(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "compile")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))
}

func TestCompileEmptyInputRejected(t *testing.T) {
	stubCompileRunner(t)
	cfgPath := writeFile(t, "config.yaml", "in:\n")

	_, err := runCompiler(t, "--config", cfgPath, "compile")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))
	assert.Contains(t, err.Error(), "--in is required")
}

func TestCompileBadSpecIsUsageError(t *testing.T) {
	specPath := writeFile(t, "openapi.yaml", "swagger: '2.0'\ninfo: {title: Old, version: '1'}\npaths: {}\n")
	outPath := filepath.Join(t.TempDir(), "tree.json")

	_, err := runCompiler(t, "compile", "--in", specPath, "--out", outPath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))
	assert.Contains(t, err.Error(), "spec:")
}

func TestCompileUnknownFlag(t *testing.T) {
	_, err := runCompiler(t, "compile", "--nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))
	assert.Contains(t, err.Error(), "unknown flag")
}
