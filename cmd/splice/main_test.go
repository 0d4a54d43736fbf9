package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// run executes the app and returns its output and exit code.
func run(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp(&out, &errOut)
	app.ExitErrHandler = func(_ *cli.Context, err error) {
		if exit, ok := err.(cli.ExitCoder); ok {
			code = exit.ExitCode()
		}
	}
	if err := app.Run(append([]string{"splice"}, args...)); err != nil && code == 0 {
		code = 1
	}
	return out.String(), errOut.String(), code
}

func TestBuildCommand(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/common/format.ts": "export const format = 1;\n",
		"src/server/util.ts":   "export const answer = 42;\n",
	})
	config := filepath.Join(root, "splice.toml")

	stdout, _, code := run(t, "--config", config, "build")
	require.Zero(t, code)
	assert.Contains(t, stdout, "Build Completed Successfully!")
	assert.FileExists(t, filepath.Join(root, ".splice", "client", "src", "common", "format.ts"))
	assert.FileExists(t, filepath.Join(root, ".splice", "server", "src", "server", "util.ts"))

	stdout, _, code = run(t, "--config", config, "--quiet", "clean")
	require.Zero(t, code)
	assert.Empty(t, stdout)
	assert.NoDirExists(t, filepath.Join(root, ".splice"))
}

func TestBuildCommand_Failure(t *testing.T) {
	root := writeProject(t, map[string]string{"src/common/broken.ts": "const = ;\n"})

	_, stderr, code := run(t, "--config", filepath.Join(root, "splice.toml"), "--quiet", "build")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Type: Syntax Error")
}

func TestBuildCommand_InvalidConfig(t *testing.T) {
	root := writeProject(t, map[string]string{"splice.toml": "version = \"2.0.0\"\n"})

	_, stderr, code := run(t, "--config", filepath.Join(root, "splice.toml"), "build")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Type: Configuration Error")
	assert.Contains(t, stderr, "not supported")
}

func TestBuildCommand_LogJSON(t *testing.T) {
	root := writeProject(t, map[string]string{"src/common/format.ts": "export {};\n"})

	_, stderr, code := run(t, "--config", filepath.Join(root, "splice.toml"), "--quiet", "--log-json", "build")
	require.Zero(t, code)
	assert.Contains(t, stderr, `"message":"build finished"`)
}
