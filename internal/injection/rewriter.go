// Package injection rewrites typed constructor and route handler
// parameters into code that either builds the dependencies from a request
// context or takes them positionally.
//
//	constructor(user: User, db: Database) { ... }
//
// becomes
//
//	constructor(...args) {
//	  let user, db;
//	  if (args[0] !== undefined && args[0] !== null && typeof args[0] === "object" && args[0].type === "request-context") {
//	    user = args[0].user;
//	    db = new Database(args[0]);
//	  } else {
//	    user = args[0];
//	    db = args[1];
//	  }
//	  ...
//	}
package injection

import (
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
)

// RequestContextType is the discriminator carried by request contexts.
const RequestContextType = "request-context"

// ArgsName is the rest parameter rewritten functions receive.
const ArgsName = "args"

// AliasResolver maps an aliased import source to an absolute path.
type AliasResolver func(source string) (string, bool)

// Options configures a Rewriter.
type Options struct {
	RequestScoped map[string]string // type name -> request context property
	ServiceGlob   string            // import sources providing service types
	RouteMethods  []string          // route calls whose handlers are rewritten
	Aliases       AliasResolver
}

// OptionsFrom reads the rewriter options off the project configuration.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		RequestScoped: cfg.Injection.RequestScoped,
		ServiceGlob:   cfg.Injection.ServiceGlob,
		RouteMethods:  []string{"get", "post", "put", "delete", "patch"},
		Aliases:       cfg.ResolveAlias,
	}
}

// Rewriter rewrites the injectable functions of one file at a time.
type Rewriter struct {
	opts    Options
	methods map[string]bool
}

// NewRewriter creates a rewriter.
func NewRewriter(opts Options) *Rewriter {
	r := &Rewriter{opts: opts, methods: make(map[string]bool, len(opts.RouteMethods))}
	for _, m := range opts.RouteMethods {
		r.methods[m] = true
	}
	return r
}

// ClassDependencies lists the service types a class constructor receives.
type ClassDependencies struct {
	Class string
	Types []string // sorted, request-scoped types excluded
}

// Result reports what a rewrite changed.
type Result struct {
	Constructors int
	Handlers     int
	Dependencies []ClassDependencies
}

// Rewrite processes the constructors of service modules and the route
// handlers of back route modules. Other roles are left alone.
func (r *Rewriter) Rewrite(file *models.SourceFile) (*Result, error) {
	res := &Result{}
	if file.Role != models.Service && file.Role != models.RouteBack {
		return res, nil
	}
	services := r.serviceImports(file)

	var failure error
	jsast.Apply(file.Program, func(c *jsast.Cursor) bool {
		switch n := c.Node().(type) {
		case *jsast.Class:
			if file.Role != models.Service {
				return true
			}
			ctor := constructor(n)
			if ctor == nil || len(ctor.Params) == 0 {
				return true
			}
			deps, changed, err := r.rewrite(&ctor.Params, ctor.Body, services, file.Path)
			if err != nil {
				failure = err
				return false
			}
			if changed {
				res.Constructors++
				if n.Name != nil && len(deps) > 0 {
					res.Dependencies = append(res.Dependencies, ClassDependencies{Class: n.Name.Name, Types: deps})
				}
			}

		case *jsast.CallExpr:
			if file.Role != models.RouteBack || !r.isRouteCall(n) {
				return true
			}
			for _, arg := range n.Args {
				fn, ok := arg.(*jsast.ArrowFunc)
				if !ok || !fn.Async || len(fn.Params) == 0 {
					continue
				}
				body, ok := fn.Body.(*jsast.BlockStmt)
				if !ok {
					continue
				}
				_, changed, err := r.rewrite(&fn.Params, body, services, file.Path)
				if err != nil {
					failure = err
					return false
				}
				if changed {
					res.Handlers++
				}
			}
		}
		return true
	}, func(*jsast.Cursor) bool { return failure == nil })

	if failure != nil {
		return nil, failure
	}
	return res, nil
}

func constructor(cls *jsast.Class) *jsast.ClassMethod {
	for _, m := range cls.Members {
		if method, ok := m.(*jsast.ClassMethod); ok && method.MethodKind == "constructor" && method.Body != nil {
			return method
		}
	}
	return nil
}

// isRouteCall matches `x.get("/path", ...handlers)`.
func (r *Rewriter) isRouteCall(call *jsast.CallExpr) bool {
	callee, ok := call.Callee.(*jsast.MemberExpr)
	if !ok || callee.Computed || len(call.Args) < 2 {
		return false
	}
	method, ok := callee.Property.(*jsast.Identifier)
	if !ok || !r.methods[method.Name] {
		return false
	}
	_, ok = call.Args[0].(*jsast.StringLit)
	return ok
}

// serviceImports returns the default imports of file whose source matches
// the service glob, by local name.
func (r *Rewriter) serviceImports(file *models.SourceFile) map[string]string {
	out := make(map[string]string)
	for _, stmt := range file.Program.Body {
		decl, ok := stmt.(*jsast.ImportDecl)
		if !ok || decl.Default == nil {
			continue
		}
		if r.isServiceSource(decl.Source.Value, file.Dir()) {
			out[decl.Default.Name] = decl.Source.Value
		}
	}
	return out
}

func (r *Rewriter) isServiceSource(source, dir string) bool {
	if r.opts.ServiceGlob == "" {
		return false
	}
	if ok, _ := doublestar.Match(r.opts.ServiceGlob, source); ok {
		return true
	}

	glob, ok := r.absolute(r.opts.ServiceGlob, "")
	if !ok {
		return false
	}
	abs, ok := r.absolute(source, dir)
	if !ok {
		return false
	}
	matched, _ := doublestar.Match(glob, abs)
	return matched
}

func (r *Rewriter) absolute(source, dir string) (string, bool) {
	if strings.HasPrefix(source, ".") && dir != "" {
		return path.Join(filepath.ToSlash(dir), source), true
	}
	if r.opts.Aliases != nil {
		if resolved, ok := r.opts.Aliases(source); ok {
			return filepath.ToSlash(resolved), true
		}
	}
	return "", false
}

// rewrite replaces params with a single rest parameter and prepends the
// dependency prologue to body. It reports the service types injected and
// whether anything changed.
func (r *Rewriter) rewrite(params *[]*jsast.Param, body *jsast.BlockStmt, services map[string]string, file string) ([]string, bool, error) {
	list := *params
	if alreadyRewritten(list) {
		return nil, false, nil
	}

	var (
		names       []string
		instantiate []jsast.Stmt
		extract     []jsast.Stmt
		deps        []string
	)
	for i, p := range list {
		names = append(names, patternNames(p.Pattern)...)
		extract = append(extract, extraction(p, i))

		id, ok := p.Pattern.(*jsast.Identifier)
		if !ok || p.Type == nil || p.Type.Name == "" {
			continue
		}
		typeName := p.Type.Name
		if strings.Contains(typeName, ".") {
			// qualified names like Express.Request are never injected
			continue
		}
		if key, ok := r.opts.RequestScoped[typeName]; ok {
			instantiate = append(instantiate, jsast.Statement(jsast.Assign(jsast.Ident(id.Name), jsast.Member(arg(0), key))))
			continue
		}
		if _, ok := services[typeName]; ok {
			instantiate = append(instantiate, jsast.Statement(jsast.Assign(jsast.Ident(id.Name), jsast.New(jsast.Ident(typeName), arg(0)))))
			deps = append(deps, typeName)
			continue
		}
		return nil, false, errors.NewUnresolvedTypeError(typeName, file)
	}
	if len(instantiate) == 0 {
		return nil, false, nil
	}

	prologue := []jsast.Stmt{
		jsast.Let(names...),
		jsast.If(RequestContextTest(), jsast.Block(instantiate...), jsast.Block(extract...)),
	}
	body.Body = append(prologue, body.Body...)
	*params = []*jsast.Param{jsast.RestParam(ArgsName)}

	sort.Strings(deps)
	return deps, true, nil
}

func alreadyRewritten(params []*jsast.Param) bool {
	if len(params) != 1 {
		return false
	}
	_, ok := params[0].Pattern.(*jsast.RestElement)
	return ok
}

func arg(i int) jsast.Expr {
	return jsast.ComputedMember(jsast.Ident(ArgsName), jsast.Num(strconv.Itoa(i)))
}

// RequestContextTest is the condition telling a request context apart from
// positional arguments.
func RequestContextTest() jsast.Expr {
	return jsast.And(
		jsast.Binary("!==", arg(0), jsast.Ident("undefined")),
		jsast.Binary("!==", arg(0), &jsast.NullLit{}),
		jsast.Binary("===", jsast.Unary("typeof", arg(0)), jsast.Str("object")),
		jsast.Binary("===", jsast.Member(arg(0), "type"), jsast.Str(RequestContextType)),
	)
}

// extraction assigns parameter i from the positional arguments, keeping its
// default value and rest semantics.
func extraction(p *jsast.Param, i int) jsast.Stmt {
	var value jsast.Expr = arg(i)
	target := p.Pattern
	if rest, ok := target.(*jsast.RestElement); ok {
		target = rest.Arg
		value = jsast.Call(jsast.Member(jsast.Ident(ArgsName), "slice"), jsast.Num(strconv.Itoa(i)))
	}
	if p.Default != nil {
		value = &jsast.ConditionalExpr{
			Test: jsast.Binary("===", arg(i), jsast.Ident("undefined")),
			Cons: p.Default,
			Alt:  arg(i),
		}
	}
	return jsast.Statement(jsast.Assign(target, value))
}

// patternNames lists the names a parameter pattern binds.
func patternNames(p jsast.Pattern) []string {
	switch p := p.(type) {
	case *jsast.Identifier:
		return []string{p.Name}
	case *jsast.ObjectPattern:
		var out []string
		for _, prop := range p.Props {
			out = append(out, patternNames(prop.Value)...)
		}
		if p.Rest != nil {
			out = append(out, patternNames(p.Rest)...)
		}
		return out
	case *jsast.ArrayPattern:
		var out []string
		for _, e := range p.Elems {
			if e != nil {
				out = append(out, patternNames(e)...)
			}
		}
		return out
	case *jsast.AssignPattern:
		return patternNames(p.Left)
	case *jsast.RestElement:
		return patternNames(p.Arg)
	}
	return nil
}
