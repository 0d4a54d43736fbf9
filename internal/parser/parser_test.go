package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
)

func mustParse(t *testing.T, path, src string) *jsast.Program {
	t.Helper()
	prog, err := Parse(path, []byte(src))
	require.NoError(t, err)
	return prog
}

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		path string
		src  string
	}{
		{"default import", "a.ts", "import Router from \"@app\";\n"},
		{"named imports", "a.ts", "import { Users, Posts as P } from \"@app\";\n"},
		{"object literal", "a.ts", "const x = { a: 1, b, \"c-d\": \"e\" };\n"},
		{"async arrow", "a.ts", "const f = async ({ a, b: c }, d = 1) => a + c;\n"},
		{"template", "a.ts", "const s = `a${b}c`;\n"},
		{"comment statement", "a.ts", "// header\nconst a = 1;\n"},
		{"chunk comment", "a.ts", "import(/* webpackChunkName: \"a\" */ \"./a\");\n"},
		{"jsx", "page.tsx", "const view = <div class=\"x\">{context.user}</div>;\n"},
		{"optional member", "a.js", "const n = a?.b;\n"},
		{
			"class",
			"a.ts",
			"export default class Foo extends Bar {\n  constructor(a, b) {\n    super(a);\n    this.b = b;\n  }\n}\n",
		},
		{
			"control flow",
			"a.ts",
			"function f(a) {\n  if (a) {\n    return;\n  } else {\n    throw new Error(\"x\");\n  }\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.path, tt.src)
			assert.Equal(t, tt.src, jsast.Print(prog))
		})
	}
}

func TestParse_Structure(t *testing.T) {
	src := `import db from "@/server/services/Database";

export class Users {
  constructor(private db: Database, name) {}

  @Route("/users")
  async list(req) {
    return { Users };
  }
}
`
	prog := mustParse(t, "users.ts", src)
	require.Len(t, prog.Body, 2)

	imp, ok := prog.Body[0].(*jsast.ImportDecl)
	require.True(t, ok)
	assert.Equal(t, "db", imp.Default.Name)
	assert.Equal(t, "@/server/services/Database", imp.Source.Value)

	export, ok := prog.Body[1].(*jsast.ExportNamedDecl)
	require.True(t, ok)
	cls := export.Decl.(*jsast.ClassDecl).Class
	assert.Equal(t, "Users", cls.Name.Name)
	require.Len(t, cls.Members, 2)

	ctor := cls.Members[0].(*jsast.ClassMethod)
	assert.Equal(t, "constructor", ctor.MethodKind)
	require.Len(t, ctor.Params, 2)
	assert.Equal(t, []string{"private"}, ctor.Params[0].Modifiers)
	assert.Equal(t, "Database", ctor.Params[0].Type.Name)
	assert.Nil(t, ctor.Params[1].Type)

	list := cls.Members[1].(*jsast.ClassMethod)
	assert.True(t, list.Async)
	require.Len(t, list.Decorators, 1)
	assert.Equal(t, `Route("/users")`, jsast.Print(list.Decorators[0].Expr))

	var shorthand *jsast.Property
	jsast.Inspect(list, func(n jsast.Node) bool {
		if p, ok := n.(*jsast.Property); ok {
			shorthand = p
		}
		return true
	})
	require.NotNil(t, shorthand)
	assert.True(t, shorthand.Shorthand)
	assert.NotSame(t, shorthand.Key, shorthand.Value, "key and value are distinct nodes")
}

func TestParse_Positions(t *testing.T) {
	prog := mustParse(t, "a.ts", "const a = 1;\nfoo(bar);\n")

	stmt := prog.Body[1].(*jsast.ExprStmt)
	assert.Equal(t, 2, stmt.Pos().Line)
	assert.Equal(t, 1, stmt.Pos().Column)

	arg := stmt.Expr.(*jsast.CallExpr).Args[0]
	assert.Equal(t, 2, arg.Pos().Line)
	assert.Equal(t, 5, arg.Pos().Column)
}

func TestParse_StringEscapes(t *testing.T) {
	prog := mustParse(t, "a.ts", `const s = 'it\'s A\x42 \u{1F600} \n';`)

	decl := prog.Body[0].(*jsast.VarDecl)
	lit := decl.Decls[0].Init.(*jsast.StringLit)
	assert.Equal(t, "it's AB \U0001F600 \n", lit.Value)
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse("broken.ts", []byte("const = ;\n"))
	require.Error(t, err)
	assert.Equal(t, errors.SyntaxErrorCode, errors.CodeOf(err))

	var se *errors.SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "broken.ts", se.Location().File)
	assert.Equal(t, 1, se.Location().Line)
}

func TestParserSet(t *testing.T) {
	set := NewSet()
	defer set.Close()

	for _, path := range []string{"a.ts", "b.tsx", "c.js", "d.ts"} {
		_, err := set.Parse(path, []byte("export const x = 1;\n"))
		require.NoError(t, err, path)
	}
	assert.Len(t, set.parsers, 3)
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, TypeScript, DialectFor("a.ts"))
	assert.Equal(t, TSX, DialectFor("a.tsx"))
	assert.Equal(t, JavaScript, DialectFor("a.jsx"))
	assert.Equal(t, JavaScript, DialectFor("a.mjs"))
}

func TestUnescape(t *testing.T) {
	tests := map[string]string{
		`plain`:            "plain",
		`a\nb`:             "a\nb",
		`\uD83D\uDE00`:     "\U0001F600",
		`line\` + "\ncont": "linecont",
		`\q`:               "q",
		`\x4`:              `\x4`,
	}
	for in, want := range tests {
		assert.Equal(t, want, unescape(in), in)
	}
}
