package routes

import (
	"strings"
	"unicode"

	"github.com/toyz/splice/internal/jsast"
)

// rewriteServiceCalls turns calls to application services in client page
// modules into API requests:
//
//	Users.admin.create(form.data)  ->  api.post("/api/Users/admin/create", form.data)
//
// Only the first argument is sent, and only when it is the sole argument.
func (rf *routeFile) rewriteServiceCalls() int {
	if len(rf.services) == 0 {
		return 0
	}
	scope := rf.serviceScope()
	prefix := strings.TrimSuffix(rf.w.opts.APIPrefix, "/")

	count := 0
	jsast.Apply(rf.file.Program, func(c *jsast.Cursor) bool {
		call, ok := c.Node().(*jsast.CallExpr)
		if !ok {
			return true
		}
		root, path, ok := calleePath(call.Callee)
		if !ok || !exported(root.Name) {
			return true
		}
		ref, ok := scope.ReferenceAt(root)
		if !ok || !scope.MarkRewritten(ref) {
			return true
		}

		segments := append([]string{ref.Binding.Imported}, path...)
		args := []jsast.Expr{jsast.Str(prefix + "/" + strings.Join(segments, "/"))}
		if len(call.Args) == 1 {
			args = append(args, call.Args[0])
		}
		c.Replace(jsast.Call(jsast.MemberPath("api", "post"), args...))
		count++
		return true
	}, nil)
	return count
}

// calleePath splits `a.b.c` into the root identifier and the property
// names after it. Computed accesses do not form a path.
func calleePath(callee jsast.Expr) (*jsast.Identifier, []string, bool) {
	var path []string
	expr := callee
	for {
		switch e := expr.(type) {
		case *jsast.MemberExpr:
			prop, ok := e.Property.(*jsast.Identifier)
			if e.Computed || !ok {
				return nil, nil, false
			}
			path = append([]string{prop.Name}, path...)
			expr = e.Object
		case *jsast.Identifier:
			if len(path) == 0 {
				return nil, nil, false
			}
			return e, path, true
		default:
			return nil, nil, false
		}
	}
}

// exported reports whether name starts with an uppercase letter, the
// convention for service names.
func exported(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
