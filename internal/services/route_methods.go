package services

import (
	"github.com/toyz/splice/internal/jsast"
)

// RouteDecorator marks service methods exposed as API routes.
const RouteDecorator = "Route"

// exposeRouteContext gives every @Route method taking fewer than two
// parameters the signature (<first or {}>, context) so request-context
// references inside it bind to the router's context argument.
func (r *Rewriter) exposeRouteContext(prog *jsast.Program) []string {
	var names []string
	jsast.Inspect(prog, func(n jsast.Node) bool {
		m, ok := n.(*jsast.ClassMethod)
		if !ok {
			return true
		}
		name, ok := jsast.PropertyName(m.Key, m.Computed)
		if !ok || !hasRouteDecorator(m.Decorators) {
			return true
		}
		if len(m.Params) < 2 {
			first := jsast.ParamOf(&jsast.ObjectPattern{})
			if len(m.Params) == 1 {
				first = m.Params[0]
			}
			m.Params = []*jsast.Param{first, jsast.NamedParam(r.cfg.ContextParam)}
			names = append(names, name)
		}
		return true
	})
	return names
}

func hasRouteDecorator(decorators []*jsast.Decorator) bool {
	for _, d := range decorators {
		switch e := d.Expr.(type) {
		case *jsast.Identifier:
			if e.Name == RouteDecorator {
				return true
			}
		case *jsast.CallExpr:
			if jsast.IsIdent(e.Callee, RouteDecorator) {
				return true
			}
		}
	}
	return false
}
