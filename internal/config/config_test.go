package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splice/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, FileName))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, "@app", cfg.Services.AppSource)
	assert.Equal(t, []string{"Environment", "Identity"}, cfg.Services.Container)
	assert.Equal(t, filepath.Join(dir, "src", "client", "pages"), cfg.PagesDir())
	assert.Equal(t, filepath.Join(dir, ".splice", "generated"), cfg.GeneratedDir())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
version = "1.2.0"
out_dir = "build"

[services]
container = ["Environment", "Identity", "Cache"]
instance_param = "application"

[routes]
preload = ["main", "landing"]

[injection.request_scoped]
Session = "session"

[aliases]
"@lib/" = "lib"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Dir(path), cfg.Root)
	assert.Equal(t, filepath.Join(cfg.Root, "build"), cfg.OutputDir())
	assert.True(t, cfg.IsContainerService("Cache"))
	assert.False(t, cfg.IsContainerService("Users"))
	assert.Equal(t, "application", cfg.Services.InstanceParam)
	assert.Equal(t, "context", cfg.Services.ContextParam, "untouched fields keep defaults")
	assert.Equal(t, []string{"main", "landing"}, cfg.Routes.Preload)
	assert.Equal(t, "session", cfg.Injection.RequestScoped["Session"])
	assert.Equal(t, "user", cfg.Injection.RequestScoped["User"])

	resolved, ok := cfg.ResolveAlias("@lib/x/*.ts")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(cfg.Root, "lib", "x", "*.ts"), resolved)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		subject string
	}{
		{"bad version", `version = "banana"`, "version"},
		{"unsupported major", `version = "2.0.0"`, "version"},
		{"empty instance param", "[services]\ninstance_param = \"\"", "services.instance_param"},
		{"no source dirs", `source_dirs = []`, "source_dirs"},
		{"unknown field", `colour = "blue"`, "splice.toml"},
		{"invalid toml", `version = `, "splice.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)

			var cerr *errors.ConfigurationError
			require.True(t, errors.As(err, &cerr), "got %T", err)
			assert.Equal(t, tt.subject, cerr.Subject)
			assert.Equal(t, errors.ConfigurationErrorCode, cerr.ErrorCode())
		})
	}
}

func TestAliases_Resolve(t *testing.T) {
	aliases := Aliases{
		"@/":       "src",
		"@server/": "src/server",
		"@config":  "src/config/index.ts",
	}

	tests := []struct {
		source string
		want   string
		ok     bool
	}{
		{"@/client/pages/**/*.tsx", "src/client/pages/**/*.tsx", true},
		{"@server/services/*.ts", "src/server/services/*.ts", true},
		{"@config", "src/config/index.ts", true},
		{"@configuration", "", false},
		{"./local/*.ts", "", false},
		{"@/", "src", true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, ok := aliases.Resolve(tt.source)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAliases_Import(t *testing.T) {
	aliases := Aliases{
		"@/":       "src",
		"@server/": "src/server",
		"@config":  "src/config",
	}

	tests := []struct {
		dir  string
		want string
		ok   bool
	}{
		{"src/server/services", "@server/services", true},
		{"src/client/pages", "@/client/pages", true},
		{"src", "@/", true},
		{"src/config", "@/config", true},
		{"lib/services", "", false},
		{"srcx/services", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			got, ok := aliases.Import(tt.dir)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_VirtualSources(t *testing.T) {
	assert.Equal(t, []string{"@app", "@models", "@request"}, Default().VirtualSources())
}
