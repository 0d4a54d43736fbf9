package globimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
)

func printStmts(stmts []jsast.Stmt) string {
	return jsast.Print(&jsast.Program{Body: stmts})
}

func match(rel string, captures ...string) models.FileMatch {
	return models.FileMatch{Path: "/app/emails/" + rel, Rel: rel, Captures: captures}
}

func byRel(m models.FileMatch) string { return "./emails/" + m.Rel }

func TestDefaultImports(t *testing.T) {
	files := []models.FileMatch{
		match("inscription.hbs", "inscription"),
		match("notifications.hbs", "notifications"),
	}

	tests := []struct {
		name string
		req  *models.GlobRequest
		want string
	}{
		{
			name: "bare",
			req:  &models.GlobRequest{},
			want: "import \"./emails/inscription.hbs\";\nimport \"./emails/notifications.hbs\";\n",
		},
		{
			name: "named",
			req: &models.GlobRequest{Named: []models.NamedSpecifier{
				{Imported: "notifications", Local: "notif"},
				{Imported: "missing", Local: "missing"},
			}},
			want: "import notif from \"./emails/notifications.hbs\";\n",
		},
		{
			name: "default",
			req:  &models.GlobRequest{Default: "templates"},
			want: "import templates_inscription from \"./emails/inscription.hbs\";\n" +
				"import templates_notifications from \"./emails/notifications.hbs\";\n" +
				"const templates = { \"inscription\": templates_inscription, \"notifications\": templates_notifications };\n",
		},
		{
			name: "namespace",
			req:  &models.GlobRequest{Namespace: "all"},
			want: "import * as all_inscription from \"./emails/inscription.hbs\";\n" +
				"import * as all_notifications from \"./emails/notifications.hbs\";\n" +
				"const all = { \"inscription\": all_inscription, \"notifications\": all_notifications };\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := DefaultImports(tt.req, files, byRel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, printStmts(stmts))
		})
	}
}

func TestDefaultImports_NestedCaptures(t *testing.T) {
	files := []models.FileMatch{
		{Path: "/p/index.tsx", Rel: "index.tsx", Captures: []string{"", "index"}},
		{Path: "/p/users/profile.tsx", Rel: "users/profile.tsx", Captures: []string{"users", "profile"}},
	}
	stmts, err := DefaultImports(&models.GlobRequest{Default: "pages"}, files, func(m models.FileMatch) string { return "./" + m.Rel })
	require.NoError(t, err)

	out := printStmts(stmts)
	assert.Contains(t, out, "import pages_index from \"./index.tsx\";")
	assert.Contains(t, out, "import pages_users_profile from \"./users/profile.tsx\";")
	assert.Contains(t, out, "\"users/profile\": pages_users_profile")
}

func TestDefaultImports_Collision(t *testing.T) {
	files := []models.FileMatch{
		match("a-b.hbs", "a-b"),
		match("a_b.hbs", "a_b"),
	}
	_, err := DefaultImports(&models.GlobRequest{Default: "t", From: "/app/index.ts", Source: "./emails/*.hbs"}, files, byRel)
	require.Error(t, err)

	var collision *errors.GlobCollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, "t_a_b", collision.Identifier)
	assert.Equal(t, "/app/emails/a-b.hbs", collision.First)
	assert.Equal(t, "/app/emails/a_b.hbs", collision.Second)
	assert.Equal(t, "/app/index.ts", collision.Location().File)
}

func TestDefaultImports_UniqueIdentifiers(t *testing.T) {
	var files []models.FileMatch
	for _, name := range []string{"a", "b", "c", "d"} {
		files = append(files, match(name+".hbs", name))
	}
	stmts, err := DefaultImports(&models.GlobRequest{Default: "x"}, files, byRel)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, s := range stmts[:len(stmts)-1] {
		name := s.(*jsast.ImportDecl).Default.Name
		assert.False(t, seen[name])
		seen[name] = true
	}
	assert.Len(t, seen, 4)
}

func TestDefaultRequire(t *testing.T) {
	files := []models.FileMatch{match("a.hbs", "a"), match("b.hbs", "b")}
	got := jsast.Print(DefaultRequire(files, byRel))
	assert.Equal(t, "[require(\"./emails/a.hbs\"), require(\"./emails/b.hbs\")]", got)
	assert.Equal(t, "[]", jsast.Print(DefaultRequire(nil, nil)))
}

func TestCaptureKey(t *testing.T) {
	assert.Equal(t, "users_profile", CaptureKey(models.FileMatch{Captures: []string{"users", "profile"}}))
	assert.Equal(t, "index", CaptureKey(models.FileMatch{Captures: []string{"", "index"}}))
	assert.Equal(t, "", CaptureKey(models.FileMatch{}))
	assert.True(t, strings.HasPrefix(baseName("a/b.test.ts"), "b.test"))
}
