package globimport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
	"github.com/toyz/splice/internal/registry"
)

// writeTree creates empty files at the given slash separated paths.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("export default 1;\n"), 0o644))
	}
}

func rels(files []models.FileMatch) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Rel
	}
	return out
}

func TestExpander_NaturalOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "emails/file10.hbs", "emails/file2.hbs", "emails/file1.hbs", "emails/notes.txt")

	e := NewExpander(nil, nil)
	req := &models.GlobRequest{Source: "./emails/*.hbs", From: filepath.Join(root, "index.ts")}
	exp, err := e.Expand(req)
	require.NoError(t, err)

	assert.Equal(t, []string{"file1.hbs", "file2.hbs", "file10.hbs"}, rels(exp.Files))
	assert.Equal(t, []string{"file1"}, exp.Files[0].Captures)
	assert.Equal(t, filepath.Join(root, "emails", "file1.hbs"), exp.Files[0].Path)
	assert.Equal(t, filepath.Join(root, "emails"), req.Root)
	assert.Equal(t, exp.Files, req.Matches)
	assert.Nil(t, exp.Replace)
}

func TestExpander_ExcludesImportingFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "services/a.ts", "services/b.ts", "services/index.ts")

	e := NewExpander(nil, nil)
	exp, err := e.Expand(&models.GlobRequest{
		Source: "./*.ts",
		From:   filepath.Join(root, "services", "index.ts"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts", "b.ts"}, rels(exp.Files))
}

func TestExpander_Recursive(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "pages/index.tsx", "pages/users/profile.tsx", "pages/users/index.tsx", "pages/about.tsx")

	e := NewExpander(nil, func(source string) (string, bool) {
		if source == "@/pages/**/*.tsx" {
			return filepath.Join(root, "pages") + "/**/*.tsx", true
		}
		return "", false
	})
	exp, err := e.Expand(&models.GlobRequest{Source: "@/pages/**/*.tsx", From: filepath.Join(root, "client.ts")})
	require.NoError(t, err)

	assert.Equal(t, []string{"about.tsx", "index.tsx", "users/index.tsx", "users/profile.tsx"}, rels(exp.Files))
	assert.Equal(t, []string{"users", "profile"}, exp.Files[3].Captures)
}

func TestExpander_EmptyAndIneligible(t *testing.T) {
	root := t.TempDir()
	e := NewExpander(nil, nil)

	exp, err := e.Expand(&models.GlobRequest{Source: "./missing/*.ts", From: filepath.Join(root, "a.ts")})
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.Empty(t, exp.Files)

	exp, err = e.Expand(&models.GlobRequest{Source: "./plain.ts", From: filepath.Join(root, "a.ts")})
	require.NoError(t, err)
	assert.Nil(t, exp)

	req := &models.GlobRequest{Source: "lodash/*", From: filepath.Join(root, "a.ts")}
	exp, err = e.Expand(req)
	require.NoError(t, err)
	require.NotNil(t, exp, "a source no alias resolves expands to nothing")
	assert.Empty(t, exp.Files)
	assert.Empty(t, req.Root)
}

func TestExpander_StableAcrossCalls(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "x/b.ts", "x/a.ts", "x/c.ts")

	from := filepath.Join(root, "main.ts")
	first, err := NewExpander(nil, nil).Expand(&models.GlobRequest{Source: "./x/*.ts", From: from})
	require.NoError(t, err)

	// a second expander lists the directory again and must agree
	second, err := NewExpander(nil, nil).Expand(&models.GlobRequest{Source: "./x/*.ts", From: from})
	require.NoError(t, err)
	assert.Equal(t, first.Files, second.Files)

	seen := map[string]bool{}
	for _, f := range first.Files {
		assert.False(t, seen[f.Path], "duplicate match %s", f.Path)
		seen[f.Path] = true
	}
}

func TestExpander_RuleSelection(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "x/a.ts")

	rules := registry.NewRuleRegistry().MustRegister(&registry.Rule{
		Name: "custom",
		Test: func(req *models.GlobRequest) bool { return req.Kind == models.GlobRequire },
		Replace: func(*models.GlobRequest, []models.FileMatch) ([]jsast.Stmt, error) {
			return nil, nil
		},
	})
	e := NewExpander(rules, nil)

	exp, err := e.Expand(&models.GlobRequest{Source: "./x/*.ts", From: filepath.Join(root, "m.ts"), Kind: models.GlobRequire})
	require.NoError(t, err)
	assert.Equal(t, "custom", exp.Rule)
	assert.NotNil(t, exp.Replace)

	exp, err = e.Expand(&models.GlobRequest{Source: "./x/*.ts", From: filepath.Join(root, "m.ts")})
	require.NoError(t, err)
	assert.Empty(t, exp.Rule)
}
