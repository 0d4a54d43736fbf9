package routes

import (
	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
)

// renderer returns the function rendering a page definition: the last
// argument after the path, when it is a function.
func renderer(call *jsast.CallExpr) (params *[]*jsast.Param, ok bool) {
	if len(call.Args) < 2 {
		return nil, false
	}
	switch fn := call.Args[len(call.Args)-1].(type) {
	case *jsast.ArrowFunc:
		return &fn.Params, true
	case *jsast.FuncExpr:
		return &fn.Func.Params, true
	}
	return nil, false
}

// contextName finds the name the renderer receives the request context
// under. expose is false when the name is already bound by the renderer.
func contextName(params []*jsast.Param) (name string, expose bool) {
	if len(params) == 0 {
		return ContextKey, true
	}
	switch p := params[0].Pattern.(type) {
	case *jsast.Identifier:
		return p.Name, false
	case *jsast.ObjectPattern:
		for _, prop := range p.Props {
			if key, ok := jsast.PropertyName(prop.Key, prop.Computed); !ok || key != ContextKey {
				continue
			}
			switch v := prop.Value.(type) {
			case *jsast.Identifier:
				return v.Name, false
			case *jsast.AssignPattern:
				if id, ok := v.Left.(*jsast.Identifier); ok {
					return id.Name, false
				}
			}
		}
		return ContextKey, true
	}
	return ContextKey, false
}

// hoistFetchers replaces every api.fetch({...}) call inside a page
// definition with <context>.data and moves the properties of its argument
// into def.Fetchers.
func (rf *routeFile) hoistFetchers(def *models.RouteDefinition) {
	params, hasRenderer := renderer(def.Call)
	name, expose := ContextKey, false
	if hasRenderer {
		name, expose = contextName(*params)
	}

	jsast.Apply(def.Call, func(c *jsast.Cursor) bool {
		call, ok := c.Node().(*jsast.CallExpr)
		if !ok || !isAPIFetch(call) {
			return true
		}
		arg, ok := call.Args[0].(*jsast.ObjectExpr)
		if !ok {
			return true
		}
		for _, m := range arg.Props {
			switch p := m.(type) {
			case *jsast.Property:
				key, ok := jsast.PropertyName(p.Key, p.Computed)
				if !ok {
					continue
				}
				def.Fetchers = append(def.Fetchers, models.DataFetcher{Key: key, Value: p.Value})
			case *jsast.SpreadElement:
				def.Fetchers = append(def.Fetchers, models.DataFetcher{Value: p.Arg})
			}
		}
		c.Replace(jsast.MemberPath(name, "data"))
		return false
	}, nil)

	if len(def.Fetchers) == 0 {
		return
	}
	def.ContextName = name
	if expose && hasRenderer {
		exposeContext(params, name)
	}
}

func isAPIFetch(call *jsast.CallExpr) bool {
	m, ok := call.Callee.(*jsast.MemberExpr)
	if !ok || m.Computed || !jsast.IsIdent(m.Object, "api") || !jsast.IsIdent(m.Property, "fetch") {
		return false
	}
	return len(call.Args) > 0
}

// exposeContext binds the context key in the renderer's first parameter.
func exposeContext(params *[]*jsast.Param, name string) {
	if len(*params) == 0 {
		pattern := &jsast.ObjectPattern{Props: []*jsast.PatternProp{
			{Key: jsast.Ident(ContextKey), Value: jsast.Ident(name), Shorthand: true},
		}}
		*params = append(*params, jsast.ParamOf(pattern))
		return
	}
	if pattern, ok := (*params)[0].Pattern.(*jsast.ObjectPattern); ok {
		pattern.Props = append(pattern.Props, &jsast.PatternProp{
			Key: jsast.Ident(ContextKey), Value: jsast.Ident(name), Shorthand: name == ContextKey,
		})
	}
}

// enrichOptions adds the chunk id, the file path and the data loader to the
// options argument of a page definition, inserting the argument when the
// call only had a renderer.
func (rf *routeFile) enrichOptions(def *models.RouteDefinition, chunkID string) {
	call := def.Call
	props := []jsast.ObjectMember{
		jsast.Prop("id", jsast.Str(chunkID)),
		jsast.Prop("filepath", jsast.Str(rf.file.RelPath)),
	}
	if len(def.Fetchers) > 0 {
		var params []*jsast.Param
		if rp, ok := renderer(call); ok {
			params = jsast.CloneParams(*rp)
		}
		fetchers := make([]jsast.ObjectMember, len(def.Fetchers))
		for i, f := range def.Fetchers {
			if f.Key == "" {
				fetchers[i] = &jsast.SpreadElement{Arg: f.Value}
			} else {
				fetchers[i] = jsast.Prop(f.Key, f.Value)
			}
		}
		props = append(props, jsast.Prop("data", jsast.Arrow(params, jsast.Obj(fetchers...))))
	}

	if len(call.Args) == 0 {
		return
	}
	existing, ok := optionsArg(call)
	if !ok {
		args := []jsast.Expr{call.Args[0], jsast.Obj(props...)}
		call.Args = append(args, call.Args[1:]...)
		return
	}

	switch opts := existing.(type) {
	case *jsast.ObjectExpr:
		opts.Props = append(opts.Props, props...)
	default:
		call.Args[1] = jsast.Obj(append([]jsast.ObjectMember{&jsast.SpreadElement{Arg: opts}}, props...)...)
	}
}

// optionsArg returns the options argument of a definition: the second
// argument when a renderer follows it or when it is an object literal.
func optionsArg(call *jsast.CallExpr) (jsast.Expr, bool) {
	switch {
	case len(call.Args) >= 3:
		return call.Args[1], true
	case len(call.Args) == 2:
		if _, ok := call.Args[1].(*jsast.ObjectExpr); ok {
			return call.Args[1], true
		}
	}
	return nil, false
}
