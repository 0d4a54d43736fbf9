package bindings

import (
	"strings"

	"github.com/toyz/splice/internal/jsast"
)

// Resolver finds virtual imports and their references.
type Resolver struct {
	sources  map[string]bool
	classify Classifier
}

// NewResolver creates a resolver for imports whose source is one of
// sources.
func NewResolver(sources []string, classify Classifier) *Resolver {
	set := make(map[string]bool, len(sources))
	for _, s := range sources {
		set[s] = true
	}
	return &Resolver{sources: set, classify: classify}
}

// Resolve collects the virtual bindings of prog and every identifier that
// refers to them. Identifiers in declaration position and identifiers
// shadowed by a nested declaration are not references.
func (r *Resolver) Resolve(prog *jsast.Program) *Scope {
	s := &Scope{
		index:     jsast.NewIndex(prog),
		byLocal:   make(map[string]*Binding),
		refs:      make(map[*jsast.Identifier]*Reference),
		rewritten: make(map[jsast.NodeID]bool),
	}

	for _, stmt := range prog.Body {
		decl, ok := stmt.(*jsast.ImportDecl)
		if !ok || !r.sources[decl.Source.Value] {
			continue
		}
		group := &Declaration{Decl: decl, Source: decl.Source.Value}
		if decl.Default != nil {
			r.declare(s, group, decl.Default.Name, "default", decl.TypeOnly)
		}
		if decl.Namespace != nil {
			r.declare(s, group, decl.Namespace.Name, "*", decl.TypeOnly)
		}
		for _, spec := range decl.Specifiers {
			r.declare(s, group, spec.Local.Name, spec.Imported, decl.TypeOnly || spec.TypeOnly)
		}
		s.decls = append(s.decls, group)
	}
	if len(s.byLocal) == 0 {
		return s
	}

	w := &walker{scope: s}
	jsast.Apply(prog, w.pre, w.post)
	return s
}

func (r *Resolver) declare(s *Scope, group *Declaration, local, imported string, typeOnly bool) {
	if typeOnly {
		return
	}
	class, ok := r.classify(group.Source, imported)
	if !ok {
		return
	}
	b := &Binding{Local: local, Imported: imported, Source: group.Source, Class: class, Decl: group.Decl}
	group.Bindings = append(group.Bindings, b)
	s.all = append(s.all, b)
	s.byLocal[local] = b
}

type frame struct {
	owner jsast.Node
	names map[string]bool
}

type walker struct {
	scope  *Scope
	frames []frame
}

func (w *walker) shadowed(name string) bool {
	for i := len(w.frames) - 1; i >= 0; i-- {
		if w.frames[i].names[name] {
			return true
		}
	}
	return false
}

func (w *walker) push(owner jsast.Node, names map[string]bool) {
	w.frames = append(w.frames, frame{owner: owner, names: names})
}

func (w *walker) pre(c *jsast.Cursor) bool {
	switch n := c.Node().(type) {
	case *jsast.Function:
		names := paramNames(n.Params)
		if n.Name != nil && isFuncExpr(c.Parent()) {
			names[n.Name.Name] = true
		}
		hoistVars(n.Body, names)
		w.push(n, names)
	case *jsast.ArrowFunc:
		names := paramNames(n.Params)
		if body, ok := n.Body.(*jsast.BlockStmt); ok {
			hoistVars(body, names)
		}
		w.push(n, names)
	case *jsast.ClassMethod:
		names := paramNames(n.Params)
		hoistVars(n.Body, names)
		w.push(n, names)
	case *jsast.BlockStmt:
		names := lexicalNames(n.Body)
		if try, ok := c.Parent().(*jsast.TryStmt); ok && c.Name() == "Handler" && try.Param != nil {
			patternNames(try.Param, names)
		}
		w.push(n, names)
	case *jsast.ForStmt:
		names := map[string]bool{}
		if decl, ok := n.Init.(*jsast.VarDecl); ok && decl.Keyword != "var" {
			declNames(decl, names)
		}
		w.push(n, names)
	case *jsast.ForInStmt:
		names := map[string]bool{}
		if decl, ok := n.Left.(*jsast.VarDecl); ok && decl.Keyword != "var" {
			declNames(decl, names)
		}
		w.push(n, names)
	case *jsast.SwitchStmt:
		names := map[string]bool{}
		for _, sc := range n.Cases {
			for k := range lexicalNames(sc.Body) {
				names[k] = true
			}
		}
		w.push(n, names)
	case *jsast.Identifier:
		w.visitIdent(c, n)
	case *jsast.ExportSpecifier:
		if decl, ok := c.Parent().(*jsast.ExportNamedDecl); ok && decl.Source == nil {
			if b, ok := w.scope.byLocal[n.Local]; ok {
				b.Opaque++
			}
		}
	case *jsast.RawExpr:
		w.visitText(n.Text)
	case *jsast.RawStmt:
		w.visitText(n.Text)
	case *jsast.RawMember:
		w.visitText(n.Text)
	}
	return true
}

func (w *walker) visitText(text string) {
	if isComment(text) {
		return
	}
	for _, b := range w.scope.all {
		if !w.shadowed(b.Local) && mentions(text, b.Local) {
			b.Opaque++
		}
	}
}

func isComment(text string) bool {
	return strings.HasPrefix(text, "//") || strings.HasPrefix(text, "/*") || strings.HasPrefix(text, "#!")
}

// mentions reports whether text reads name as a variable. Occurrences
// inside longer identifiers or after a dot do not count.
func mentions(text, name string) bool {
	for i := 0; i < len(text); {
		j := strings.Index(text[i:], name)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(name)
		if (start == 0 || !identByte(text[start-1]) && text[start-1] != '.') &&
			(end == len(text) || !identByte(text[end])) {
			return true
		}
		i = start + 1
	}
	return false
}

func identByte(b byte) bool {
	return b == '_' || b == '$' || b >= 0x80 ||
		'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9'
}

func (w *walker) post(c *jsast.Cursor) bool {
	if len(w.frames) > 0 && w.frames[len(w.frames)-1].owner == c.Node() {
		w.frames = w.frames[:len(w.frames)-1]
	}
	return true
}

func (w *walker) visitIdent(c *jsast.Cursor, id *jsast.Identifier) {
	b, ok := w.scope.byLocal[id.Name]
	if !ok || !isReference(c) || w.shadowed(id.Name) {
		return
	}
	ref := &Reference{Ident: id, ID: w.scope.index.ID(id), Binding: b}
	b.References = append(b.References, ref)
	w.scope.refs[id] = ref
	w.scope.order = append(w.scope.order, ref)
}

// isReference reports whether the identifier under c reads a variable as
// opposed to naming a property, a key or a declaration.
func isReference(c *jsast.Cursor) bool {
	switch p := c.Parent().(type) {
	case *jsast.ImportDecl, *jsast.ImportSpecifier:
		return false
	case *jsast.MemberExpr:
		return c.Name() != "Property" || p.Computed
	case *jsast.Property:
		return c.Name() != "Key" || p.Computed
	case *jsast.PatternProp:
		return c.Name() == "Default" || (c.Name() == "Key" && p.Computed)
	case *jsast.ClassMethod:
		return c.Name() == "Key" && p.Computed
	case *jsast.ClassField:
		return c.Name() != "Key" || p.Computed
	case *jsast.VarDeclarator:
		return c.Name() != "Target"
	case *jsast.Param:
		return c.Name() != "Pattern"
	case *jsast.Function, *jsast.Class:
		return c.Name() != "Name"
	case *jsast.AssignPattern:
		return c.Name() != "Left"
	case *jsast.RestElement, *jsast.ArrayPattern:
		return false
	case *jsast.TryStmt:
		return c.Name() != "Param"
	}
	return true
}

func isFuncExpr(n jsast.Node) bool {
	_, ok := n.(*jsast.FuncExpr)
	return ok
}

func paramNames(params []*jsast.Param) map[string]bool {
	names := map[string]bool{}
	for _, p := range params {
		patternNames(p.Pattern, names)
	}
	return names
}

// patternNames adds every name bound by p.
func patternNames(p jsast.Pattern, names map[string]bool) {
	switch p := p.(type) {
	case *jsast.Identifier:
		names[p.Name] = true
	case *jsast.ObjectPattern:
		for _, prop := range p.Props {
			patternNames(prop.Value, names)
		}
		if p.Rest != nil {
			patternNames(p.Rest, names)
		}
	case *jsast.ArrayPattern:
		for _, e := range p.Elems {
			if e != nil {
				patternNames(e, names)
			}
		}
	case *jsast.AssignPattern:
		patternNames(p.Left, names)
	case *jsast.RestElement:
		patternNames(p.Arg, names)
	}
}

func declNames(d *jsast.VarDecl, names map[string]bool) {
	for _, decl := range d.Decls {
		patternNames(decl.Target, names)
	}
}

// lexicalNames returns the names declared directly in a statement list by
// let, const, class and function declarations.
func lexicalNames(list []jsast.Stmt) map[string]bool {
	names := map[string]bool{}
	for _, stmt := range list {
		switch s := stmt.(type) {
		case *jsast.VarDecl:
			if s.Keyword != "var" {
				declNames(s, names)
			}
		case *jsast.ClassDecl:
			if s.Class.Name != nil {
				names[s.Class.Name.Name] = true
			}
		case *jsast.FuncDecl:
			if s.Func.Name != nil {
				names[s.Func.Name.Name] = true
			}
		}
	}
	return names
}

// hoistVars adds the `var` declarations of a function body, at any block
// depth but not inside nested functions or classes.
func hoistVars(body *jsast.BlockStmt, names map[string]bool) {
	if body == nil {
		return
	}
	jsast.Inspect(body, func(n jsast.Node) bool {
		switch n := n.(type) {
		case *jsast.Function, *jsast.ArrowFunc, *jsast.Class:
			return false
		case *jsast.VarDecl:
			if n.Keyword == "var" {
				declNames(n, names)
			}
		}
		return true
	})
}
