package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
)

func sourceIs(source string) func(*models.GlobRequest) bool {
	return func(req *models.GlobRequest) bool { return req.Source == source }
}

func TestRuleRegistry_Register(t *testing.T) {
	tests := []struct {
		name     string
		rules    []*Rule
		errorMsg string
	}{
		{
			name:  "single rule",
			rules: []*Rule{{Name: "pages", Test: sourceIs("a")}},
		},
		{
			name:     "empty name",
			rules:    []*Rule{{Test: sourceIs("a")}},
			errorMsg: "glob rule registry: rule name cannot be empty",
		},
		{
			name:     "nil rule",
			rules:    []*Rule{nil},
			errorMsg: "glob rule registry: rule name cannot be empty",
		},
		{
			name:     "duplicate",
			rules:    []*Rule{{Name: "pages"}, {Name: "pages"}},
			errorMsg: "glob rule registry: rule name 'pages' is already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRuleRegistry()
			var err error
			for _, rule := range tt.rules {
				if err = r.Register(rule); err != nil {
					break
				}
			}
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.errorMsg)
		})
	}
}

func TestRuleRegistry_FirstMatchWins(t *testing.T) {
	stmt := func(name string) Transformer {
		return func(*models.GlobRequest, []models.FileMatch) ([]jsast.Stmt, error) {
			return []jsast.Stmt{jsast.Statement(jsast.Ident(name))}, nil
		}
	}

	r := NewRuleRegistry().MustRegister(
		&Rule{Name: "exact", Test: sourceIs("@/pages/*.tsx"), Replace: stmt("exact")},
		&Rule{Name: "catch-all", Replace: stmt("fallback")},
		&Rule{Name: "never", Test: sourceIs("@/pages/*.tsx"), Replace: stmt("never")},
	)
	assert.Equal(t, []string{"exact", "catch-all", "never"}, r.Names())
	assert.Equal(t, 3, r.Len())

	rule, ok := r.Match(&models.GlobRequest{Source: "@/pages/*.tsx"})
	require.True(t, ok)
	assert.Equal(t, "exact", rule.Name)

	rule, ok = r.Match(&models.GlobRequest{Source: "./other/*.ts"})
	require.True(t, ok)
	assert.Equal(t, "catch-all", rule.Name)

	out, err := rule.Replace(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "fallback;", jsast.Print(out[0]))
}

func TestRuleRegistry_NoMatch(t *testing.T) {
	r := NewRuleRegistry().MustRegister(&Rule{Name: "exact", Test: sourceIs("x")})
	_, ok := r.Match(&models.GlobRequest{Source: "y"})
	assert.False(t, ok)
}

func TestRuleRegistry_MustRegisterPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewRuleRegistry().MustRegister(&Rule{Name: "a"}, &Rule{Name: "a"})
	})
}
