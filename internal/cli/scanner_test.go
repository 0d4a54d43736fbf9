package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splice/internal/models"
	"github.com/toyz/splice/internal/utils"
)

func TestRoleOf(t *testing.T) {
	tests := []struct {
		rel  string
		want models.Role
	}{
		{"src/client/pages/index.tsx", models.RouteFront},
		{"src/client/pages/users/[id].tsx", models.RouteFront},
		{"src/server/routes/users.ts", models.RouteBack},
		{"src/server/services/mailer/index.ts", models.Service},
		{"src/server/models/user.ts", models.Model},
		{"src/server/config/app.ts", models.Config},
		{"src/client/components/Button.tsx", models.Plain},
		{"src/common/format.ts", models.Plain},
		{"client/pages/index.tsx", models.RouteFront},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleOf(tt.rel))
		})
	}
}

func TestSource_OnSide(t *testing.T) {
	tests := []struct {
		rel    string
		client bool
	}{
		{"src/client/pages/index.tsx", true},
		{"src/client/components/Button.tsx", true},
		{"src/common/format.ts", true},
		{"src/server/routes/users.ts", false},
		{"src/server/services/mailer/index.ts", false},
		{"src/server/util.ts", false},
		{"src/index.ts", false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			src := Source{Rel: tt.rel, Role: RoleOf(tt.rel)}
			assert.Equal(t, tt.client, src.OnSide(models.Client))
			assert.True(t, src.OnSide(models.Server))
		})
	}
}

func TestScanner_Scan(t *testing.T) {
	cfg := testProject(t, map[string]string{
		"src/client/pages/index.tsx":           pageSource,
		"src/client/pages/.draft/index.tsx":    pageSource,
		"src/client/node_modules/lib/index.js": "module.exports = 1;\n",
		"src/server/routes/users.ts":           routeSource,
		"src/server/types.d.ts":                "declare const x: number;\n",
		"src/server/services.yaml":             "",
		"src/common/format.jsx":                "export default 1;\n",
		"lib/extra.ts":                         "export {};\n",
		".splice/server/src/server/util.ts":    "export {};\n",
	})
	cfg.SourceDirs = []string{"src", "lib", "src/common"}

	sources, err := NewScanner(cfg, utils.NewFileProcessor()).Scan()
	require.NoError(t, err)

	var got []string
	for _, s := range sources {
		assert.Equal(t, filepath.Join(cfg.Root, filepath.FromSlash(s.Rel)), s.Path)
		got = append(got, s.Rel)
	}
	assert.Equal(t, []string{
		"src/client/pages/index.tsx",
		"src/common/format.jsx",
		"src/server/routes/users.ts",
		"lib/extra.ts",
	}, got)
	assert.Equal(t, models.RouteFront, sources[0].Role)
	assert.Equal(t, models.RouteBack, sources[2].Role)
}

func TestScanner_MissingSourceDir(t *testing.T) {
	cfg := testProject(t, nil)
	cfg.SourceDirs = []string{"nowhere"}

	sources, err := NewScanner(cfg, utils.NewFileProcessor()).Scan()
	require.NoError(t, err)
	assert.Empty(t, sources)
}
