package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
	"github.com/toyz/splice/internal/parser"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const projectRoot = "/project"

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Root = projectRoot
	return cfg
}

func sourceFile(t *testing.T, rel string, role models.Role, side models.Side, src string) *models.SourceFile {
	t.Helper()
	path := filepath.Join(projectRoot, filepath.FromSlash(rel))
	prog, err := parser.Parse(path, []byte(src))
	require.NoError(t, err)
	f := models.NewSourceFile(projectRoot, path, role, side, []byte(src))
	f.Program = prog
	return f
}

type memorySink map[string]string

func (m memorySink) WriteArtifact(_ context.Context, name string, data []byte) error {
	m[name] = string(data)
	return nil
}

// stub is a stage with declared conditions and no effect.
type stub struct {
	name     string
	requires []Condition
	provides []Condition
	run      func(*models.SourceFile) error
}

func (s stub) Name() string                    { return s.name }
func (s stub) Requires() []Condition           { return s.requires }
func (s stub) Provides() []Condition           { return s.provides }
func (s stub) Applies(*models.SourceFile) bool { return true }
func (s stub) Run(_ context.Context, _ *Session, f *models.SourceFile) error {
	if s.run != nil {
		return s.run(f)
	}
	return nil
}

func TestNew_OrderValidation(t *testing.T) {
	a := stub{name: "a", provides: []Condition{GlobsExpanded}}
	b := stub{name: "b", requires: []Condition{GlobsExpanded}, provides: []Condition{RoutesWrapped}}
	c := stub{name: "c", requires: []Condition{RoutesWrapped, GlobsExpanded}}

	tests := []struct {
		name    string
		stages  []Stage
		failing string
	}{
		{"valid order", []Stage{a, b, c}, ""},
		{"no stages", nil, ""},
		{"requirement after its user", []Stage{b, a}, "b"},
		{"missing provider", []Stage{a, c}, "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.stages...)
			if tt.failing == "" {
				require.NoError(t, err)
				assert.Len(t, p.Stages(), len(tt.stages))
				return
			}
			require.Error(t, err)
			assert.Equal(t, errors.PipelineErrorCode, errors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.failing)
		})
	}
}

func TestDefault_StageOrder(t *testing.T) {
	p, err := Default(testConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"globs", "routes", "injection", "services", "icons"}, p.Stages())

	cfg := testConfig()
	cfg.Icons.Enabled = false
	p, err = Default(cfg)
	require.NoError(t, err)
	assert.NotContains(t, p.Stages(), "icons")
}

func TestStages_Applies(t *testing.T) {
	p, err := Default(testConfig())
	require.NoError(t, err)

	tests := []struct {
		name string
		role models.Role
		side models.Side
		want []string
	}{
		{"server service", models.Service, models.Server, []string{"globs", "injection", "services", "icons"}},
		{"server route", models.RouteBack, models.Server, []string{"globs", "routes", "injection", "services", "icons"}},
		{"server config", models.Config, models.Server, []string{"globs", "services", "icons"}},
		{"server model", models.Model, models.Server, []string{"globs", "icons"}},
		{"server plain", models.Plain, models.Server, []string{"globs", "icons"}},
		{"client page", models.RouteFront, models.Client, []string{"globs", "routes", "icons"}},
		{"client plain", models.Plain, models.Client, []string{"globs", "icons"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &models.SourceFile{Role: tt.role, Side: tt.side}
			var got []string
			for _, stage := range p.stages {
				if stage.Applies(f) {
					got = append(got, stage.Name())
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcess_LeavesVirtualImportsOutsideServerModules(t *testing.T) {
	p, err := Default(testConfig())
	require.NoError(t, err)

	tests := []struct {
		name string
		rel  string
		role models.Role
		side models.Side
		src  string
		want string
	}{
		{
			name: "client component",
			rel:  "src/client/components/Header.tsx",
			role: models.Plain,
			side: models.Client,
			src:  "import { Users } from \"@app\";\nexport const Header = () => Users.current();\n",
			want: "=> Users.current()",
		},
		{
			name: "shared component on the server pass",
			rel:  "src/client/components/Header.tsx",
			role: models.Plain,
			side: models.Server,
			src:  "import { Users } from \"@app\";\nexport const Header = () => Users.current();\n",
			want: "=> Users.current()",
		},
		{
			name: "model",
			rel:  "src/server/models/user.ts",
			role: models.Model,
			side: models.Server,
			src:  "import { Environment } from \"@app\";\nexport const env = () => Environment.name;\n",
			want: "=> Environment.name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(tt.side, SessionOptions{Logger: zerolog.Nop()})
			f := sourceFile(t, tt.rel, tt.role, tt.side, tt.src)
			require.NoError(t, p.Process(context.Background(), s, f))

			out := jsast.Print(f.Program)
			assert.Contains(t, out, `from "@app"`)
			assert.Contains(t, out, tt.want)
			assert.NotContains(t, out, "container")
			assert.Zero(t, s.Counts()["services"])
		})
	}
}

func TestProcess_StopsAtFirstError(t *testing.T) {
	var ran []string
	failing := stub{name: "failing", run: func(*models.SourceFile) error {
		ran = append(ran, "failing")
		return errors.NewConfigurationError("x", "boom")
	}}
	after := stub{name: "after", run: func(*models.SourceFile) error {
		ran = append(ran, "after")
		return nil
	}}

	p, err := New(failing, after)
	require.NoError(t, err)

	s := NewSession(models.Server, SessionOptions{Logger: zerolog.Nop()})
	f := sourceFile(t, "src/a.ts", models.Plain, models.Server, "const a = 1;\n")
	require.Error(t, p.Process(context.Background(), s, f))
	assert.Equal(t, []string{"failing"}, ran)
	assert.Zero(t, s.Files())
}

func TestProcess_Cancelled(t *testing.T) {
	p, err := Default(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(models.Client, SessionOptions{Logger: zerolog.Nop()})
	f := sourceFile(t, "src/a.ts", models.Plain, models.Client, "const a = 1;\n")
	assert.ErrorIs(t, p.Process(ctx, s, f), context.Canceled)
}

func TestProcess_ServerPass(t *testing.T) {
	p, err := Default(testConfig())
	require.NoError(t, err)
	s := NewSession(models.Server, SessionOptions{Logger: zerolog.Nop(), CollectIcons: true})
	ctx := context.Background()

	route := sourceFile(t, "src/server/routes/users.ts", models.RouteBack, models.Server, `import { Router } from "@app";
import Database from "@/server/services/database";
Router.get("/users", async (db: Database, user: User) => {
  return db.list(user);
});
`)
	require.NoError(t, p.Process(ctx, s, route))

	out := jsast.Print(route.Program)
	assert.Contains(t, out, "export const __register = ")
	assert.Contains(t, out, "new Database(args[0])")
	assert.Contains(t, out, "args[0].user")
	assert.NotContains(t, out, `"@app"`)

	service := sourceFile(t, "src/server/services/users/index.ts", models.Service, models.Server, `import Database from "@/server/services/database";
import Mailer from "../mailer";
export default class Users {
  constructor(mailer: Mailer, db: Database, user: User) {
    this.db = db;
  }
}
`)
	require.NoError(t, p.Process(ctx, s, service))

	assert.Equal(t, 2, s.Files())
	counts := s.Counts()
	assert.Equal(t, 1, counts["routes"])
	assert.Equal(t, 2, counts["injection"])

	sink := memorySink{}
	written, err := s.Flush(ctx, sink)
	require.NoError(t, err)
	assert.Equal(t, []string{DependenciesArtifact}, written, "no icons were referenced")
	assert.Equal(t, "{\n  \"Users\": [\n    \"Database\",\n    \"Mailer\"\n  ]\n}\n", sink[DependenciesArtifact])

	written, err = s.Flush(ctx, sink)
	require.NoError(t, err)
	assert.Empty(t, written, "a second flush without changes writes nothing")
}

func TestProcess_ClientPassCollectsIcons(t *testing.T) {
	p, err := Default(testConfig())
	require.NoError(t, err)
	s := NewSession(models.Client, SessionOptions{Logger: zerolog.Nop(), CollectIcons: true})

	page := sourceFile(t, "src/client/pages/index.tsx", models.RouteFront, models.Client, `import { Router } from "@app";
Router.page("/", () => <Button icon="solid/home" />);
`)
	require.NoError(t, p.Process(context.Background(), s, page))

	out := jsast.Print(page.Program)
	assert.Contains(t, out, `id: "main"`)
	assert.Contains(t, out, `icon="solid-home"`)

	sink := memorySink{}
	written, err := s.Flush(context.Background(), sink)
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultIconsArtifact}, written)
	assert.Contains(t, sink[DefaultIconsArtifact], `| "solid/home"`)
}

func TestSession(t *testing.T) {
	a := NewSession(models.Client, SessionOptions{Logger: zerolog.Nop()})
	b := NewSession(models.Client, SessionOptions{Logger: zerolog.Nop()})
	assert.NotEqual(t, a.ID, b.ID)
	assert.Nil(t, a.Icons)
	assert.Len(t, a.Flushers(), 1)

	c := NewSession(models.Server, SessionOptions{Logger: zerolog.Nop(), CollectIcons: true, IconsArtifact: "glyphs.d.ts"})
	require.NotNil(t, c.Icons)
	assert.Equal(t, "glyphs.d.ts", c.Icons.Name())

	a.Count("x", 0)
	a.Count("y", 2)
	a.Count("y", 1)
	assert.Equal(t, map[string]int{"y": 3}, a.Counts())
}
