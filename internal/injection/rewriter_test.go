package injection

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
	"github.com/toyz/splice/internal/parser"
)

const projectRoot = "/project"

func newRewriter() *Rewriter {
	cfg := config.Default()
	cfg.Root = projectRoot
	return NewRewriter(OptionsFrom(cfg))
}

func sourceFile(t *testing.T, rel string, role models.Role, src string) *models.SourceFile {
	t.Helper()
	path := filepath.Join(projectRoot, filepath.FromSlash(rel))
	prog, err := parser.Parse(path, []byte(src))
	require.NoError(t, err)
	f := models.NewSourceFile(projectRoot, path, role, models.Server, []byte(src))
	f.Program = prog
	return f
}

const userService = `import Database from "@/server/services/database";
import Mailer from "../services/mailer";
export default class UserService {
  constructor(user: User, db: Database, mailer: Mailer, limit = 10) {
    this.user = user;
  }
}
`

func TestRewrite_Constructor(t *testing.T) {
	f := sourceFile(t, "src/server/services/user.ts", models.Service, userService)

	res, err := newRewriter().Rewrite(f)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Constructors)
	assert.Equal(t, []ClassDependencies{{Class: "UserService", Types: []string{"Database", "Mailer"}}}, res.Dependencies)
	assert.Equal(t, `import Database from "@/server/services/database";
import Mailer from "../services/mailer";
export default class UserService {
  constructor(...args) {
    let user, db, mailer, limit;
    if (args[0] !== undefined && args[0] !== null && typeof args[0] === "object" && args[0].type === "request-context") {
      user = args[0].user;
      db = new Database(args[0]);
      mailer = new Mailer(args[0]);
    } else {
      user = args[0];
      db = args[1];
      mailer = args[2];
      limit = args[3] === undefined ? 10 : args[3];
    }
    this.user = user;
  }
}
`, jsast.Print(f.Program))
}

// The rewritten prologue is run for both call conventions.
func TestRewrite_ConstructorBehaviour(t *testing.T) {
	f := sourceFile(t, "src/server/services/user.ts", models.Service, userService)
	_, err := newRewriter().Rewrite(f)
	require.NoError(t, err)
	ctor := findConstructor(t, f.Program)

	ctx := map[string]any{"type": RequestContextType, "user": "alice"}
	tests := []struct {
		name string
		args []any
		want map[string]any
	}{
		{
			name: "request context",
			args: []any{ctx},
			want: map[string]any{
				"user":   "alice",
				"db":     instance{Type: "Database", Arg: ctx},
				"mailer": instance{Type: "Mailer", Arg: ctx},
				"limit":  undefined,
			},
		},
		{
			name: "positional",
			args: []any{"bob", "db", "mailer", 3},
			want: map[string]any{"user": "bob", "db": "db", "mailer": "mailer", "limit": 3},
		},
		{
			name: "positional with default",
			args: []any{"bob", "db", "mailer"},
			want: map[string]any{"user": "bob", "db": "db", "mailer": "mailer", "limit": 10},
		},
		{
			name: "null first argument",
			args: []any{nil},
			want: map[string]any{"user": nil, "db": undefined, "mailer": undefined, "limit": 10},
		},
		{
			name: "object without discriminator",
			args: []any{map[string]any{"type": "other"}},
			want: map[string]any{"db": undefined, "mailer": undefined, "limit": 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := run(t, ctor.Body.Body[:2], tt.args)
			for name, want := range tt.want {
				assert.Equal(t, want, env[name], name)
			}
		})
	}
}

func TestRewrite_RouteHandlers(t *testing.T) {
	f := sourceFile(t, "src/server/routes/users.ts", models.RouteBack, `import Database from "@server/services/database";
R.get("/users", async (user: User, db: Database) => {
  return db.list(user);
});
R.post("/users", auth, async (res: Response) => {
  res.send();
}, async (plain) => {
  return plain;
});
R.get(path, async (db: Database) => {
  return db;
});
`)

	res, err := newRewriter().Rewrite(f)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Handlers)
	assert.Empty(t, res.Dependencies)

	out := jsast.Print(f.Program)
	assert.Contains(t, out, `R.get("/users", async (...args) => {
  let user, db;
  if (args[0] !== undefined`)
	assert.Contains(t, out, "    res = args[0].res;\n")
	assert.Contains(t, out, "async (plain) => {")
	assert.Contains(t, out, "R.get(path, async (db: Database) => {")
}

func TestRewrite_Skipped(t *testing.T) {
	tests := []struct {
		name string
		role models.Role
		src  string
	}{
		{
			name: "untyped parameters",
			role: models.Service,
			src:  "export default class A {\n  constructor(a, b) {}\n}\n",
		},
		{
			name: "predefined types",
			role: models.Service,
			src:  "export default class A {\n  constructor(name: string, n: number) {}\n}\n",
		},
		{
			name: "single rest parameter",
			role: models.Service,
			src:  "export default class A {\n  constructor(...args) {}\n}\n",
		},
		{
			name: "expression body handler",
			role: models.RouteBack,
			src:  "R.get(\"/\", async (user: User) => user);\n",
		},
		{
			name: "synchronous handler",
			role: models.RouteBack,
			src:  "R.get(\"/\", (user: User) => {\n  return user;\n});\n",
		},
		{
			name: "qualified types",
			role: models.Service,
			src:  "export default class A {\n  constructor(req: Express.Request, opts: Config.Options<A>) {}\n}\n",
		},
		{
			name: "client role",
			role: models.RouteFront,
			src:  "export default class A {\n  constructor(user: User) {}\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sourceFile(t, "src/server/services/a.ts", tt.role, tt.src)
			before := jsast.Print(f.Program)

			res, err := newRewriter().Rewrite(f)
			require.NoError(t, err)
			assert.Zero(t, res.Constructors+res.Handlers)
			assert.Equal(t, before, jsast.Print(f.Program))
		})
	}
}

func TestRewrite_QualifiedTypeIsPositional(t *testing.T) {
	f := sourceFile(t, "src/server/services/a.ts", models.Service, `import Database from "@/server/services/database";
export default class A {
  constructor(req: Express.Request, db: Database) {}
}
`)

	res, err := newRewriter().Rewrite(f)
	require.NoError(t, err)
	assert.Equal(t, []ClassDependencies{{Class: "A", Types: []string{"Database"}}}, res.Dependencies)

	out := jsast.Print(f.Program)
	assert.Contains(t, out, "db = new Database(args[0]);")
	assert.Contains(t, out, "req = args[0];")
	assert.NotContains(t, out, "new Express.Request")
}

func TestRewrite_SecondPassIsNoop(t *testing.T) {
	f := sourceFile(t, "src/server/services/user.ts", models.Service, userService)
	r := newRewriter()

	_, err := r.Rewrite(f)
	require.NoError(t, err)
	once := jsast.Print(f.Program)

	res, err := r.Rewrite(f)
	require.NoError(t, err)
	assert.Zero(t, res.Constructors)
	assert.Equal(t, once, jsast.Print(f.Program))
}

func TestRewrite_UnresolvedType(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"not imported", "export default class A {\n  constructor(q: Queue) {}\n}\n"},
		{"imported outside the service glob", "import Queue from \"@/lib/queue\";\nexport default class A {\n  constructor(q: Queue) {}\n}\n"},
		{"named import", "import { Queue } from \"@/server/services/queue\";\nexport default class A {\n  constructor(q: Queue) {}\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sourceFile(t, "src/server/services/a.ts", models.Service, tt.src)

			_, err := newRewriter().Rewrite(f)
			require.Error(t, err)
			assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))
			assert.Contains(t, err.Error(), "Queue")
		})
	}
}

func TestIsServiceSource(t *testing.T) {
	r := newRewriter()
	dir := filepath.Join(projectRoot, "src", "server", "routes")

	tests := []struct {
		source string
		want   bool
	}{
		{"@/server/services/db", true},
		{"@/server/services/nested/db", true},
		{"@server/services/db", true},
		{"../services/db", true},
		{"./db", false},
		{"@/client/db", false},
		{"lodash", false},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, r.isServiceSource(tt.source, dir))
		})
	}
}

func findConstructor(t *testing.T, prog *jsast.Program) *jsast.ClassMethod {
	t.Helper()
	var ctor *jsast.ClassMethod
	jsast.Inspect(prog, func(n jsast.Node) bool {
		if m, ok := n.(*jsast.ClassMethod); ok && m.MethodKind == "constructor" {
			ctor = m
		}
		return ctor == nil
	})
	require.NotNil(t, ctor)
	return ctor
}

// A small evaluator for the statements the rewriter emits.

type undefinedValue struct{}

var undefined = undefinedValue{}

type instance struct {
	Type string
	Arg  any
}

type env map[string]any

func run(t *testing.T, stmts []jsast.Stmt, args []any) env {
	t.Helper()
	e := env{ArgsName: args}
	for _, s := range stmts {
		e.exec(t, s)
	}
	return e
}

func (e env) exec(t *testing.T, s jsast.Stmt) {
	switch s := s.(type) {
	case *jsast.VarDecl:
		for _, d := range s.Decls {
			id := d.Target.(*jsast.Identifier)
			e[id.Name] = undefined
			if d.Init != nil {
				e[id.Name] = e.eval(t, d.Init)
			}
		}
	case *jsast.IfStmt:
		if truthy(e.eval(t, s.Test)) {
			e.exec(t, s.Cons)
		} else if s.Alt != nil {
			e.exec(t, s.Alt)
		}
	case *jsast.BlockStmt:
		for _, st := range s.Body {
			e.exec(t, st)
		}
	case *jsast.ExprStmt:
		e.eval(t, s.Expr)
	default:
		t.Fatalf("unsupported statement %T", s)
	}
}

func (e env) eval(t *testing.T, x jsast.Expr) any {
	switch x := x.(type) {
	case *jsast.Identifier:
		if x.Name == "undefined" {
			return undefined
		}
		v, ok := e[x.Name]
		if !ok {
			t.Fatalf("unbound identifier %s", x.Name)
		}
		return v
	case *jsast.NumberLit:
		n, err := strconv.Atoi(x.Raw)
		require.NoError(t, err)
		return n
	case *jsast.StringLit:
		return x.Value
	case *jsast.NullLit:
		return nil
	case *jsast.MemberExpr:
		obj := e.eval(t, x.Object)
		if x.Computed {
			return index(obj, e.eval(t, x.Property))
		}
		return index(obj, x.Property.(*jsast.Identifier).Name)
	case *jsast.CallExpr:
		m := x.Callee.(*jsast.MemberExpr)
		require.True(t, jsast.IsIdent(m.Property, "slice"), "only slice calls are supported")
		list := e.eval(t, m.Object).([]any)
		from := e.eval(t, x.Args[0]).(int)
		if from > len(list) {
			return []any{}
		}
		return list[from:]
	case *jsast.NewExpr:
		return instance{Type: x.Callee.(*jsast.Identifier).Name, Arg: e.eval(t, x.Args[0])}
	case *jsast.AssignExpr:
		v := e.eval(t, x.Right)
		e[x.Left.(*jsast.Identifier).Name] = v
		return v
	case *jsast.ConditionalExpr:
		if truthy(e.eval(t, x.Test)) {
			return e.eval(t, x.Cons)
		}
		return e.eval(t, x.Alt)
	case *jsast.UnaryExpr:
		require.Equal(t, "typeof", x.Op)
		return typeOf(e.eval(t, x.Arg))
	case *jsast.BinaryExpr:
		switch x.Op {
		case "&&":
			left := e.eval(t, x.Left)
			if !truthy(left) {
				return left
			}
			return e.eval(t, x.Right)
		case "===":
			return strictEqual(e.eval(t, x.Left), e.eval(t, x.Right))
		case "!==":
			return !strictEqual(e.eval(t, x.Left), e.eval(t, x.Right))
		}
	}
	t.Fatalf("unsupported expression %T", x)
	return nil
}

func index(obj, key any) any {
	switch o := obj.(type) {
	case []any:
		if i, ok := key.(int); ok && i < len(o) {
			return o[i]
		}
	case map[string]any:
		if v, ok := o[key.(string)]; ok {
			return v
		}
	}
	return undefined
}

func typeOf(v any) string {
	switch v.(type) {
	case undefinedValue:
		return "undefined"
	case string:
		return "string"
	case int:
		return "number"
	case bool:
		return "boolean"
	}
	return "object"
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil, undefinedValue:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case string:
		return v != ""
	}
	return true
}

func strictEqual(a, b any) bool {
	for _, v := range []any{a, b} {
		switch v.(type) {
		case map[string]any, []any, instance:
			return false
		}
	}
	return a == b
}
