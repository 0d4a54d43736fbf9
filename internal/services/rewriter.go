// Package services rewrites references to the @app, @models and @request
// virtual modules into property accesses on the runtime objects that
// provide them.
//
//	import { Users, Environment } from "@app";
//	import { Article } from "@models";
//	...
//	Users.list(); Environment.name; Article.find();
//
// becomes, inside a class method:
//
//	import container from "@server/app/container";
//	...
//	this.app.Users.list(); container.Environment.name; this.app.Models.client.Article.find();
package services

import (
	"github.com/toyz/splice/internal/bindings"
	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/jsast"
)

// ContainerLocal is the name the container module is imported under.
const ContainerLocal = "container"

// Rewriter rewrites virtual imports of one file at a time. It holds no per
// file state and can be shared by concurrent passes.
type Rewriter struct {
	cfg       config.Services
	container map[string]bool
	resolver  *bindings.Resolver
}

// Result reports what a rewrite changed.
type Result struct {
	Rewritten       int      // references replaced
	ContainerRefs   int      // of which resolved through the container
	RemovedImports  int      // virtual import declarations deleted
	ContainerImport bool     // whether the container module import was inserted
	RouteMethods    []string // @Route methods whose parameters were normalised
}

// NewRewriter creates a rewriter for the configured virtual sources.
func NewRewriter(cfg config.Services) *Rewriter {
	r := &Rewriter{cfg: cfg, container: make(map[string]bool, len(cfg.Container))}
	for _, name := range cfg.Container {
		r.container[name] = true
	}
	r.resolver = bindings.NewResolver([]string{cfg.AppSource, cfg.ModelsSource, cfg.RequestSource}, r.Classify)
	return r
}

// Classify sorts a named import of a virtual source into its class.
// Default and namespace imports of virtual sources are not rewritten.
func (r *Rewriter) Classify(source, imported string) (bindings.Class, bool) {
	if imported == "default" || imported == "*" {
		return 0, false
	}
	switch source {
	case r.cfg.AppSource:
		if r.container[imported] {
			return bindings.Container, true
		}
		return bindings.ApplicationService, true
	case r.cfg.ModelsSource:
		return bindings.Model, true
	case r.cfg.RequestSource:
		return bindings.RequestContext, true
	}
	return 0, false
}

// Resolver returns the binding resolver configured for the virtual sources.
func (r *Rewriter) Resolver() *bindings.Resolver {
	return r.resolver
}

// Rewrite replaces every reference to a virtual import of prog, deletes the
// virtual import declarations and inserts the container import where the
// first declaration holding a container reference used to be.
func (r *Rewriter) Rewrite(prog *jsast.Program) *Result {
	res := &Result{RouteMethods: r.exposeRouteContext(prog)}

	scope := r.resolver.Resolve(prog)
	withContainer := make(map[*jsast.ImportDecl]bool)

	jsast.Apply(prog, func(c *jsast.Cursor) bool {
		ident, ok := c.Node().(*jsast.Identifier)
		if !ok {
			return true
		}
		ref, ok := scope.ReferenceAt(ident)
		if !ok || !scope.MarkRewritten(ref) {
			return true
		}

		c.Replace(r.access(scope, ref))
		if prop, ok := c.Parent().(*jsast.Property); ok && c.Name() == "Value" {
			prop.Shorthand = false
		}
		res.Rewritten++
		if ref.Binding.Class == bindings.Container {
			res.ContainerRefs++
			withContainer[ref.Binding.Decl] = true
		}
		return false
	}, nil)

	virtual := make(map[*jsast.ImportDecl]*bindings.Declaration, len(scope.Declarations()))
	for _, d := range scope.Declarations() {
		virtual[d.Decl] = d
	}
	if len(virtual) == 0 {
		return res
	}

	body := make([]jsast.Stmt, 0, len(prog.Body))
	for _, stmt := range prog.Body {
		decl, ok := stmt.(*jsast.ImportDecl)
		if !ok || virtual[decl] == nil {
			body = append(body, stmt)
			continue
		}
		if withContainer[decl] && !res.ContainerImport {
			body = append(body, jsast.ImportDefault(ContainerLocal, r.cfg.ContainerModule))
			res.ContainerImport = true
		}
		if keepOpaque(virtual[decl]) {
			body = append(body, decl)
			continue
		}
		res.RemovedImports++
	}
	prog.Body = body
	return res
}

// keepOpaque trims d down to the bindings that are still used where no
// rewrite reaches and reports whether any are left. Those keep resolving
// through the virtual module at bundle time.
func keepOpaque(d *bindings.Declaration) bool {
	locals := make(map[string]bool)
	for _, b := range d.Bindings {
		if b.Opaque > 0 {
			locals[b.Local] = true
		}
	}
	if len(locals) == 0 {
		return false
	}

	specs := d.Decl.Specifiers[:0]
	for _, spec := range d.Decl.Specifiers {
		if locals[spec.Local.Name] {
			specs = append(specs, spec)
		}
	}
	d.Decl.Specifiers = specs
	d.Decl.Default = nil
	d.Decl.Namespace = nil
	return true
}

func (r *Rewriter) access(scope *bindings.Scope, ref *bindings.Reference) jsast.Expr {
	name := ref.Binding.Imported
	switch ref.Binding.Class {
	case bindings.Container:
		return jsast.MemberPath(ContainerLocal, name)
	case bindings.RequestContext:
		return jsast.MemberPath(r.cfg.ContextParam, name)
	}

	app := r.application(scope.Index().Ancestors(ref.Ident))
	if ref.Binding.Class == bindings.Model {
		return jsast.Member(jsast.Member(jsast.Member(app, "Models"), "client"), name)
	}
	return jsast.Member(app, name)
}

// application returns the expression holding the application instance at
// the position described by ancestors, nearest first.
func (r *Rewriter) application(ancestors []jsast.Node) jsast.Expr {
	var outermost jsast.Expr
	for _, n := range ancestors {
		switch fn := n.(type) {
		case *jsast.ClassMethod, *jsast.ClassField:
			// arrows inside a method share its this
			return jsast.MemberPath("this", "app")
		case *jsast.Function:
			if app, ok := applicationParam(fn.Params); ok {
				return app
			}
		case *jsast.ArrowFunc:
			if app, ok := applicationParam(fn.Params); ok {
				outermost = app
			}
		}
	}
	if outermost != nil {
		return outermost
	}
	return jsast.Ident(r.cfg.InstanceParam)
}

// applicationParam reads the application off a first parameter: `p` gives
// p.app, `{ app }` gives app itself.
func applicationParam(params []*jsast.Param) (jsast.Expr, bool) {
	if len(params) == 0 {
		return nil, false
	}
	switch p := params[0].Pattern.(type) {
	case *jsast.Identifier:
		return jsast.MemberPath(p.Name, "app"), true
	case *jsast.AssignPattern:
		if id, ok := p.Left.(*jsast.Identifier); ok {
			return jsast.MemberPath(id.Name, "app"), true
		}
	case *jsast.ObjectPattern:
		for _, prop := range p.Props {
			if name, ok := jsast.PropertyName(prop.Key, prop.Computed); !ok || name != "app" {
				continue
			}
			switch v := prop.Value.(type) {
			case *jsast.Identifier:
				return jsast.Ident(v.Name), true
			case *jsast.AssignPattern:
				if id, ok := v.Left.(*jsast.Identifier); ok {
					return jsast.Ident(id.Name), true
				}
			}
		}
	}
	return nil, false
}
