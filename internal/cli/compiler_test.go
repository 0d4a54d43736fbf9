package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/toyz/splice/internal/composition"
	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/models"
	"github.com/toyz/splice/internal/pipeline"
	"github.com/toyz/splice/internal/utils"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	pageSource = `import { Router } from "@app";
Router.page("/", () => <Button icon="solid/home" />);
`
	routeSource = `import { Router } from "@app";
import Database from "@/server/services/database";
Router.get("/users", async (db: Database, user: User) => {
  return db.list(user);
});
`
)

// project is the fixture shared by the compiler tests.
var project = map[string]string{
	"src/client/pages/index.tsx":              pageSource,
	"src/server/routes/users.ts":              routeSource,
	"src/server/services/database/index.ts":   "export default class Database {}\n",
	"src/server/services/logger/service.json": `{"id": "Logging", "name": "Logger"}`,
	"src/server/services.yaml":                "logging:\n  id: Logging\n",
	"src/common/format.ts":                    "export const format = (s: string) => s.trim();\n",
	"src/server/util.ts":                      "export const answer = 42;\n",
	"src/client/node_modules/lib/index.ts":    "export default 1;\n",
	"src/server/services/database/types.d.ts": "declare const x: number;\n",
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func testProject(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Root = t.TempDir()
	writeTree(t, cfg.Root, files)
	return cfg
}

func newTestCompiler(t *testing.T, cfg *config.Config) *Compiler {
	t.Helper()
	c, err := NewCompiler(cfg, utils.NewFileProcessor(), Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	return c
}

func readOutput(t *testing.T, cfg *config.Config, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(append([]string{cfg.OutputDir()}, parts...)...))
	require.NoError(t, err)
	return string(data)
}

func TestCompiler_Build(t *testing.T) {
	cfg := testProject(t, project)
	c := newTestCompiler(t, cfg)

	summary, err := c.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Sources)
	assert.Equal(t, 1, summary.Services)
	require.Len(t, summary.Passes, 2)

	client, server := summary.Passes[0], summary.Passes[1]
	assert.Equal(t, models.Client, client.Side)
	assert.Equal(t, models.Server, server.Side)
	assert.NotEqual(t, client.Session, server.Session)
	assert.Equal(t, 2, client.Files, "the page and the shared module")
	assert.Equal(t, 5, server.Files)
	assert.Equal(t, 1, client.Counts["routes"])

	page := readOutput(t, cfg, "client", "src", "client", "pages", "index.tsx")
	assert.Contains(t, page, `icon="solid-home"`)

	route := readOutput(t, cfg, "server", "src", "server", "routes", "users.ts")
	assert.Contains(t, route, "export const __register = ")
	assert.Contains(t, route, "new Database(args[0])")

	assert.NoFileExists(t, filepath.Join(cfg.OutputDir(), "client", "src", "server", "routes", "users.ts"))
	assert.Contains(t, readOutput(t, cfg, "generated", "client", pipeline.DefaultIconsArtifact), `| "solid/home"`)

	assert.Equal(t, []string{
		filepath.Join(cfg.GeneratedDir(), composition.AppArtifact),
		filepath.Join(cfg.GeneratedDir(), composition.TypesArtifact),
	}, summary.Generated)
	app := readOutput(t, cfg, "generated", composition.AppArtifact)
	assert.Contains(t, app, `import Logger from "@server/services/logger";`)
	assert.Contains(t, app, "public logging = new Logger(this, {}, () => ({}), this);")
}

func TestCompiler_RebuildSkipsUnchangedOutput(t *testing.T) {
	cfg := testProject(t, project)
	c := newTestCompiler(t, cfg)

	first, err := c.Build(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, first.Passes[0].Written)

	second, err := c.Build(context.Background())
	require.NoError(t, err)
	for _, pass := range second.Passes {
		assert.Empty(t, pass.Written, pass.Side.String())
		assert.Equal(t, len(first.Passes[pass.Side].Written), pass.Unchanged, pass.Side.String())
	}
	assert.Empty(t, second.Generated)

	writeTree(t, cfg.Root, map[string]string{"src/common/format.ts": "export const format = 1;\n"})
	third, err := c.Build(context.Background())
	require.NoError(t, err)
	for _, pass := range third.Passes {
		assert.Equal(t, []string{
			filepath.Join(cfg.OutputDir(), pass.Side.String(), "src", "common", "format.ts"),
		}, pass.Written)
	}
}

func TestCompiler_RebuildPicksUpNewGlobMatches(t *testing.T) {
	cfg := testProject(t, map[string]string{
		"src/server/util.ts":       "import all from \"./handlers/*.ts\";\nexport default all;\n",
		"src/server/handlers/a.ts": "export default 1;\n",
	})
	c := newTestCompiler(t, cfg)

	tests := []struct {
		name    string
		add     map[string]string
		want    []string
		missing []string
	}{
		{
			name:    "initial build",
			want:    []string{`import all_a from "./handlers/a.ts";`, `const all = { "a": all_a };`},
			missing: []string{"all_b"},
		},
		{
			name: "file added between builds",
			add:  map[string]string{"src/server/handlers/b.ts": "export default 2;\n"},
			want: []string{`import all_b from "./handlers/b.ts";`, `const all = { "a": all_a, "b": all_b };`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeTree(t, cfg.Root, tt.add)
			_, err := c.Build(context.Background())
			require.NoError(t, err)

			out := readOutput(t, cfg, "server", "src", "server", "util.ts")
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
			for _, missing := range tt.missing {
				assert.NotContains(t, out, missing)
			}
		})
	}
}

func TestCompiler_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		code  errors.ErrorCode
	}{
		{
			name: "route cardinality aborts",
			files: map[string]string{
				"src/client/pages/a.tsx": "import { Router } from \"@app\";\nRouter.page(\"/a\", () => 1);\nRouter.page(\"/b\", () => 2);\n",
			},
			code: errors.CardinalityErrorCode,
		},
		{
			name:  "syntax errors are collected",
			files: map[string]string{"src/common/broken.ts": "const = ;\n"},
			code:  errors.SyntaxErrorCode,
		},
		{
			name: "unregistered service in composition",
			files: map[string]string{
				"src/server/services.yaml": "mailer:\n  id: Mailer\n",
			},
			code: errors.ConfigurationErrorCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testProject(t, tt.files)
			_, err := newTestCompiler(t, cfg).Build(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.NoDirExists(t, cfg.GeneratedDir(), "a failed build flushes nothing")
		})
	}
}

func TestCompiler_CollectsEveryFileError(t *testing.T) {
	cfg := testProject(t, map[string]string{
		"src/server/a.ts": "const = ;\n",
		"src/server/b.ts": "let = ;\n",
	})

	_, err := newTestCompiler(t, cfg).Build(context.Background())
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.True(t, errors.As(err, &multi))
	assert.Equal(t, 2, multi.Count())
	assert.True(t, multi.HasCode(errors.SyntaxErrorCode))
}

func TestCompiler_Cancelled(t *testing.T) {
	cfg := testProject(t, project)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestCompiler(t, cfg).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, filepath.Join(cfg.GeneratedDir(), "client"))
}
