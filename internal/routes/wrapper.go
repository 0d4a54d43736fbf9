// Package routes wraps the top-level route definitions of route modules
// into a single exported registration function.
//
//	import { Router, Users } from "@app";
//	Router.page("/users", ({ api }) => { ... });
//
// becomes
//
//	export const __register = ({ app, Router }) => {
//	  const { Users } = app;
//	  return Router.page("/users", { id: "users", filepath: "src/client/pages/users.tsx" }, ({ api }) => { ... });
//	};
package routes

import (
	"github.com/toyz/splice/internal/bindings"
	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
)

// State is the progress of the wrapper through one file.
type State int

const (
	Scanning State = iota
	Collecting
	Wrapped
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Wrapped:
		return "wrapped"
	}
	return "scanning"
}

// Status is the outcome of wrapping one file.
type Status int

const (
	// Untouched files do not import the routing module.
	Untouched Status = iota
	// Processed files had their definitions wrapped.
	Processed
	// AlreadyProcessed files carry a chunk id from an earlier pass and were
	// left exactly as they were.
	AlreadyProcessed
)

func (s Status) String() string {
	switch s {
	case Processed:
		return "processed"
	case AlreadyProcessed:
		return "already-processed"
	}
	return "untouched"
}

// ContextKey is the renderer argument property holding the request context.
const ContextKey = "context"

// Options configures a Wrapper.
type Options struct {
	AppSource      string   // routing module, "@app"
	RouterServices []string // names passed to __register as they are
	Methods        []string // router methods that define a route
	APIPrefix      string   // prefix of client side service calls
	PagesRoot      string   // absolute directory chunk ids are computed from
}

// OptionsFrom reads the wrapper options off the project configuration.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		AppSource:      cfg.Services.AppSource,
		RouterServices: cfg.Routes.RouterServices,
		Methods:        cfg.Routes.Methods,
		APIPrefix:      cfg.Routes.APIPrefix,
		PagesRoot:      cfg.PagesDir(),
	}
}

// Wrapper rewrites route modules. It keeps no per file state and is safe
// to share between passes.
type Wrapper struct {
	opts    Options
	routers map[string]bool
	methods map[string]bool
}

// NewWrapper creates a wrapper.
func NewWrapper(opts Options) *Wrapper {
	w := &Wrapper{
		opts:    opts,
		routers: make(map[string]bool, len(opts.RouterServices)),
		methods: make(map[string]bool, len(opts.Methods)),
	}
	for _, name := range opts.RouterServices {
		w.routers[name] = true
	}
	for _, m := range opts.Methods {
		w.methods[m] = true
	}
	return w
}

// Result describes what Wrap did to a file.
type Result struct {
	Status       Status
	State        State
	Definitions  []*models.RouteDefinition
	ChunkID      string // front modules only
	ServiceCalls int    // client service calls turned into api.post
}

type importedName struct {
	local    string
	imported string
}

// routeFile is the state of one Wrap call.
type routeFile struct {
	w     *Wrapper
	file  *models.SourceFile
	state State

	imports  map[*jsast.ImportDecl]bool
	routers  []importedName
	services []importedName
	defs     []*models.RouteDefinition
	defStmts map[jsast.Stmt]bool
}

// Wrap processes a route module in place. Files of other roles and files
// that do not import the routing module are returned Untouched.
func (w *Wrapper) Wrap(file *models.SourceFile) (*Result, error) {
	if file.Role != models.RouteFront && file.Role != models.RouteBack {
		return &Result{Status: Untouched, State: Scanning}, nil
	}

	rf := &routeFile{
		w:        w,
		file:     file,
		imports:  make(map[*jsast.ImportDecl]bool),
		defStmts: make(map[jsast.Stmt]bool),
	}
	rf.scan()
	if len(rf.imports) == 0 {
		return &Result{Status: Untouched, State: rf.state}, nil
	}
	if rf.front() && rf.alreadyProcessed() {
		return &Result{Status: AlreadyProcessed, State: rf.state, Definitions: rf.defs}, nil
	}

	calls := rf.collect()
	res := &Result{Status: Processed, Definitions: rf.defs, ServiceCalls: calls}
	if err := rf.wrap(res); err != nil {
		return nil, err
	}
	res.State = rf.state
	return res, nil
}

func (rf *routeFile) front() bool {
	return rf.file.Role == models.RouteFront
}

// scan records the routing imports and the route definitions without
// touching the tree.
func (rf *routeFile) scan() {
	prog := rf.file.Program
	routerLocals := make(map[string]bool)

	for _, stmt := range prog.Body {
		decl, ok := stmt.(*jsast.ImportDecl)
		if !ok || decl.TypeOnly || decl.Source.Value != rf.w.opts.AppSource {
			continue
		}
		rf.imports[decl] = true
		for _, spec := range decl.Specifiers {
			if spec.TypeOnly {
				continue
			}
			name := importedName{local: spec.Local.Name, imported: spec.Imported}
			if rf.w.routers[spec.Imported] {
				rf.routers = append(rf.routers, name)
				routerLocals[name.local] = true
			} else {
				rf.services = append(rf.services, name)
			}
		}
	}

	for _, stmt := range prog.Body {
		es, ok := stmt.(*jsast.ExprStmt)
		if !ok {
			continue
		}
		call, ok := jsast.Unparen(es.Expr).(*jsast.CallExpr)
		if !ok {
			continue
		}
		callee, ok := call.Callee.(*jsast.MemberExpr)
		if !ok || callee.Computed {
			continue
		}
		router, ok := callee.Object.(*jsast.Identifier)
		if !ok || !routerLocals[router.Name] {
			continue
		}
		method, ok := callee.Property.(*jsast.Identifier)
		if !ok || !rf.w.methods[method.Name] {
			continue
		}
		rf.defs = append(rf.defs, &models.RouteDefinition{Call: call, Router: router.Name, Method: method.Name})
		rf.defStmts[stmt] = true
	}
}

// alreadyProcessed reports whether a definition's options carry an id.
func (rf *routeFile) alreadyProcessed() bool {
	for _, def := range rf.defs {
		arg, _ := optionsArg(def.Call)
		opts, ok := arg.(*jsast.ObjectExpr)
		if !ok {
			continue
		}
		for _, m := range opts.Props {
			if p, ok := m.(*jsast.Property); ok {
				if name, ok := jsast.PropertyName(p.Key, p.Computed); ok && name == "id" {
					return true
				}
			}
		}
	}
	return false
}

// collect rewrites client service calls, hoists data fetchers and takes the
// routing imports and definition statements out of the program body.
func (rf *routeFile) collect() int {
	rf.state = Collecting

	calls := 0
	if rf.front() && rf.file.Side == models.Client {
		calls = rf.rewriteServiceCalls()
	}
	if rf.front() {
		for _, def := range rf.defs {
			rf.hoistFetchers(def)
		}
	}

	prog := rf.file.Program
	body := make([]jsast.Stmt, 0, len(prog.Body))
	for _, stmt := range prog.Body {
		if decl, ok := stmt.(*jsast.ImportDecl); ok && rf.imports[decl] {
			continue
		}
		if rf.defStmts[stmt] {
			continue
		}
		body = append(body, stmt)
	}
	prog.Body = body
	return calls
}

// wrap appends the __register export.
func (rf *routeFile) wrap(res *Result) error {
	var stmts []jsast.Stmt
	if destructure := rf.appDestructure(); destructure != nil {
		stmts = append(stmts, destructure)
	}

	if rf.front() {
		if len(rf.routers) == 0 && len(rf.defs) == 0 {
			rf.state = Wrapped
			return nil
		}
		if len(rf.defs) != 1 {
			return errors.NewRouteCardinalityError(rf.file.Path, len(rf.defs))
		}
		def := rf.defs[0]
		res.ChunkID = models.ChunkID(rf.w.opts.PagesRoot, rf.file.Path)
		rf.enrichOptions(def, res.ChunkID)
		stmts = append(stmts, jsast.Return(def.Call))
	} else {
		for _, def := range rf.defs {
			stmts = append(stmts, jsast.Statement(def.Call))
		}
	}

	register := jsast.ExportConst(models.RegisterExport, jsast.Arrow(
		[]*jsast.Param{jsast.ParamOf(rf.registerParam())},
		jsast.Block(stmts...),
	))
	rf.file.Program.Body = append(rf.file.Program.Body, register)
	rf.state = Wrapped
	return nil
}

// registerParam is `{ app, Router }`, with router services aliased to
// their local names.
func (rf *routeFile) registerParam() *jsast.ObjectPattern {
	pattern := &jsast.ObjectPattern{Props: []*jsast.PatternProp{
		{Key: jsast.Ident("app"), Value: jsast.Ident("app"), Shorthand: true},
	}}
	for _, r := range rf.routers {
		pattern.Props = append(pattern.Props, &jsast.PatternProp{
			Key:       jsast.Ident(r.imported),
			Value:     jsast.Ident(r.local),
			Shorthand: r.local == r.imported,
		})
	}
	return pattern
}

// appDestructure is `const { Users } = app;`, or nil without services.
func (rf *routeFile) appDestructure() jsast.Stmt {
	if len(rf.services) == 0 {
		return nil
	}
	pattern := &jsast.ObjectPattern{}
	for _, s := range rf.services {
		pattern.Props = append(pattern.Props, &jsast.PatternProp{
			Key:       jsast.Ident(s.imported),
			Value:     jsast.Ident(s.local),
			Shorthand: s.local == s.imported,
		})
	}
	return jsast.Const(pattern, jsast.Ident("app"))
}

// serviceScope resolves the application services imported by the file.
func (rf *routeFile) serviceScope() *bindings.Scope {
	resolver := bindings.NewResolver([]string{rf.w.opts.AppSource}, func(_, imported string) (bindings.Class, bool) {
		if imported == "default" || imported == "*" || rf.w.routers[imported] {
			return 0, false
		}
		return bindings.ApplicationService, true
	})
	return resolver.Resolve(rf.file.Program)
}
