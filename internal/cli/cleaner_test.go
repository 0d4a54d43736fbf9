package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splice/internal/utils"
)

func TestCleaner_Clean(t *testing.T) {
	cfg := testProject(t, project)
	files := utils.NewFileProcessor()
	c, err := NewCompiler(cfg, files, Options{})
	require.NoError(t, err)
	_, err = c.Build(context.Background())
	require.NoError(t, err)
	require.DirExists(t, cfg.GeneratedDir())

	removed, err := NewCleaner(files).Clean(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(cfg.OutputDir(), "client"),
		filepath.Join(cfg.OutputDir(), "server"),
		cfg.GeneratedDir(),
	}, removed)
	assert.NoDirExists(t, cfg.OutputDir(), "an emptied output directory is removed")
	assert.FileExists(t, filepath.Join(cfg.Root, "src", "server", "routes", "users.ts"))
}

func TestCleaner_KeepsForeignFiles(t *testing.T) {
	cfg := testProject(t, map[string]string{
		".splice/server/src/a.ts": "export {};\n",
		".splice/cache/state":     "keep",
	})

	removed, err := NewCleaner(utils.NewFileProcessor()).Clean(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(cfg.OutputDir(), "server")}, removed)
	assert.FileExists(t, filepath.Join(cfg.OutputDir(), "cache", "state"))
}

func TestCleaner_NothingToClean(t *testing.T) {
	cfg := testProject(t, nil)

	removed, err := NewCleaner(utils.NewFileProcessor()).Clean(cfg)
	require.NoError(t, err)
	assert.Empty(t, removed)
}
