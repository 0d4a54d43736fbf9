package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/toyz/splice/internal/jsast"
)

// converter maps tree-sitter nodes onto jsast. Shapes it does not model
// become Raw nodes holding the exact source text, so printing a converted
// tree never loses code.
type converter struct {
	src []byte
}

func (c *converter) text(n *tree_sitter.Node) string {
	return string(c.src[n.StartByte():n.EndByte()])
}

func (c *converter) span(n *tree_sitter.Node) jsast.Span {
	pos := n.StartPosition()
	return jsast.Span{
		Start:  int(n.StartByte()),
		End:    int(n.EndByte()),
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
	}
}

// named returns the named children of n, skipping comments.
func named(n *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		ch := n.Child(i)
		if ch.IsNamed() && ch.Kind() != "comment" {
			out = append(out, ch)
		}
	}
	return out
}

func firstNamed(n *tree_sitter.Node) *tree_sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		ch := n.Child(i)
		if ch.IsNamed() && ch.Kind() != "comment" {
			return ch
		}
	}
	return nil
}

// hasToken reports whether n has a direct child of the given kind, named
// or anonymous.
func hasToken(n *tree_sitter.Node, kind string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if n.Child(i).Kind() == kind {
			return true
		}
	}
	return false
}

func childOfKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		if ch := n.Child(i); ch.Kind() == kind {
			return ch
		}
	}
	return nil
}

func (c *converter) program(n *tree_sitter.Node) *jsast.Program {
	return &jsast.Program{Span: c.span(n), Body: c.stmtList(n)}
}

// stmtList converts the statements held by n. Comments between statements
// are kept as raw statements.
func (c *converter) stmtList(n *tree_sitter.Node) []jsast.Stmt {
	var out []jsast.Stmt
	for i := uint(0); i < n.ChildCount(); i++ {
		ch := n.Child(i)
		if !ch.IsNamed() {
			continue
		}
		switch ch.Kind() {
		case "comment", "hash_bang_line":
			out = append(out, &jsast.RawStmt{Span: c.span(ch), Text: c.text(ch)})
		default:
			out = append(out, c.stmt(ch))
		}
	}
	return out
}

func (c *converter) raw(n *tree_sitter.Node) *jsast.RawStmt {
	return &jsast.RawStmt{Span: c.span(n), Text: c.text(n)}
}

func (c *converter) stmt(n *tree_sitter.Node) jsast.Stmt {
	switch n.Kind() {
	case "import_statement":
		return c.importDecl(n)
	case "export_statement":
		return c.exportStmt(n)
	case "lexical_declaration", "variable_declaration":
		return c.varDecl(n)
	case "function_declaration", "generator_function_declaration":
		return &jsast.FuncDecl{Span: c.span(n), Func: c.function(n)}
	case "class_declaration", "abstract_class_declaration":
		return &jsast.ClassDecl{Span: c.span(n), Class: c.class(n, nil)}
	case "expression_statement":
		inner := firstNamed(n)
		if inner == nil {
			return &jsast.EmptyStmt{Span: c.span(n)}
		}
		return &jsast.ExprStmt{Span: c.span(n), Expr: c.expr(inner)}
	case "return_statement":
		ret := &jsast.ReturnStmt{Span: c.span(n)}
		if arg := firstNamed(n); arg != nil {
			ret.Arg = c.expr(arg)
		}
		return ret
	case "throw_statement":
		return &jsast.ThrowStmt{Span: c.span(n), Arg: c.expr(firstNamed(n))}
	case "if_statement":
		s := &jsast.IfStmt{
			Span: c.span(n),
			Test: c.condition(n.ChildByFieldName("condition")),
			Cons: c.stmt(n.ChildByFieldName("consequence")),
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			if alt.Kind() == "else_clause" {
				alt = firstNamed(alt)
			}
			s.Alt = c.stmt(alt)
		}
		return s
	case "statement_block":
		return c.block(n)
	case "for_statement":
		return &jsast.ForStmt{
			Span:   c.span(n),
			Init:   c.forClause(n.ChildByFieldName("initializer")),
			Test:   c.optExpr(n.ChildByFieldName("condition")),
			Update: c.optExpr(n.ChildByFieldName("increment")),
			Body:   c.stmt(n.ChildByFieldName("body")),
		}
	case "for_in_statement":
		return c.forIn(n)
	case "while_statement":
		return &jsast.WhileStmt{
			Span: c.span(n),
			Test: c.condition(n.ChildByFieldName("condition")),
			Body: c.stmt(n.ChildByFieldName("body")),
		}
	case "do_statement":
		return &jsast.DoWhileStmt{
			Span: c.span(n),
			Body: c.stmt(n.ChildByFieldName("body")),
			Test: c.condition(n.ChildByFieldName("condition")),
		}
	case "try_statement":
		return c.tryStmt(n)
	case "switch_statement":
		return c.switchStmt(n)
	case "break_statement", "continue_statement":
		s := &jsast.BranchStmt{Span: c.span(n), Keyword: strings.TrimSuffix(n.Kind(), "_statement")}
		if label := n.ChildByFieldName("label"); label != nil {
			s.Label = c.text(label)
		}
		return s
	case "empty_statement":
		return &jsast.EmptyStmt{Span: c.span(n)}
	}
	return c.raw(n)
}

func (c *converter) block(n *tree_sitter.Node) *jsast.BlockStmt {
	if n == nil {
		return nil
	}
	return &jsast.BlockStmt{Span: c.span(n), Body: c.stmtList(n)}
}

// condition unwraps the parenthesized test of if/while/switch; the printer
// adds the parentheses back.
func (c *converter) condition(n *tree_sitter.Node) jsast.Expr {
	if n == nil {
		return nil
	}
	if n.Kind() == "parenthesized_expression" {
		if inner := firstNamed(n); inner != nil {
			return c.expr(inner)
		}
	}
	return c.expr(n)
}

func (c *converter) optExpr(n *tree_sitter.Node) jsast.Expr {
	if n == nil || !n.IsNamed() {
		return nil
	}
	switch n.Kind() {
	case "empty_statement":
		return nil
	case "expression_statement":
		if inner := firstNamed(n); inner != nil {
			return c.expr(inner)
		}
		return nil
	}
	return c.expr(n)
}

func (c *converter) forClause(n *tree_sitter.Node) jsast.Node {
	if n == nil || !n.IsNamed() {
		return nil
	}
	switch n.Kind() {
	case "lexical_declaration", "variable_declaration":
		return c.varDecl(n)
	}
	if e := c.optExpr(n); e != nil {
		return e
	}
	return nil
}

func (c *converter) forIn(n *tree_sitter.Node) *jsast.ForInStmt {
	s := &jsast.ForInStmt{
		Span:  c.span(n),
		Right: c.expr(n.ChildByFieldName("right")),
		Body:  c.stmt(n.ChildByFieldName("body")),
		Await: hasToken(n, "await"),
	}
	if op := n.ChildByFieldName("operator"); op != nil {
		s.Of = c.text(op) == "of"
	} else {
		s.Of = hasToken(n, "of")
	}

	left := n.ChildByFieldName("left")
	if kind := n.ChildByFieldName("kind"); kind != nil {
		s.Left = &jsast.VarDecl{
			Span:    c.span(kind),
			Keyword: c.text(kind),
			Decls:   []*jsast.VarDeclarator{{Span: c.span(left), Target: c.pattern(left)}},
		}
	} else {
		s.Left = c.assignTarget(left)
	}
	return s
}

func (c *converter) tryStmt(n *tree_sitter.Node) *jsast.TryStmt {
	s := &jsast.TryStmt{Span: c.span(n), Block: c.block(n.ChildByFieldName("body"))}
	if h := n.ChildByFieldName("handler"); h != nil {
		if param := h.ChildByFieldName("parameter"); param != nil {
			s.Param = c.pattern(param)
		}
		s.Handler = c.block(h.ChildByFieldName("body"))
	}
	if f := n.ChildByFieldName("finalizer"); f != nil {
		s.Finalizer = c.block(f.ChildByFieldName("body"))
	}
	return s
}

func (c *converter) switchStmt(n *tree_sitter.Node) *jsast.SwitchStmt {
	s := &jsast.SwitchStmt{Span: c.span(n), Disc: c.condition(n.ChildByFieldName("value"))}
	body := n.ChildByFieldName("body")
	if body == nil {
		return s
	}
	for _, ch := range named(body) {
		sc := &jsast.SwitchCase{Span: c.span(ch)}
		value := ch.ChildByFieldName("value")
		if ch.Kind() == "switch_case" && value != nil {
			sc.Test = c.expr(value)
		}
		for i := uint(0); i < ch.ChildCount(); i++ {
			stmt := ch.Child(i)
			if !stmt.IsNamed() || (value != nil && stmt.StartByte() == value.StartByte()) {
				continue
			}
			if stmt.Kind() == "comment" {
				sc.Body = append(sc.Body, c.raw(stmt))
				continue
			}
			sc.Body = append(sc.Body, c.stmt(stmt))
		}
		s.Cases = append(s.Cases, sc)
	}
	return s
}

// ---- modules ----

func (c *converter) importDecl(n *tree_sitter.Node) jsast.Stmt {
	if childOfKind(n, "import_require_clause") != nil {
		return c.raw(n)
	}
	source := n.ChildByFieldName("source")
	if source == nil {
		return c.raw(n)
	}

	d := &jsast.ImportDecl{
		Span:     c.span(n),
		Source:   c.str(source),
		TypeOnly: hasToken(n, "type"),
	}
	clause := childOfKind(n, "import_clause")
	if clause == nil {
		return d
	}
	for _, ch := range named(clause) {
		switch ch.Kind() {
		case "identifier":
			d.Default = c.ident(ch)
		case "namespace_import":
			if id := firstNamed(ch); id != nil {
				d.Namespace = c.ident(id)
			}
		case "named_imports":
			for _, spec := range named(ch) {
				if spec.Kind() != "import_specifier" {
					continue
				}
				d.Specifiers = append(d.Specifiers, c.importSpecifier(spec))
			}
		}
	}
	return d
}

func (c *converter) importSpecifier(n *tree_sitter.Node) *jsast.ImportSpecifier {
	name := n.ChildByFieldName("name")
	spec := &jsast.ImportSpecifier{Span: c.span(n), TypeOnly: hasToken(n, "type")}
	if name.Kind() == "string" {
		spec.Imported = c.str(name).Value
	} else {
		spec.Imported = c.text(name)
	}
	if alias := n.ChildByFieldName("alias"); alias != nil {
		spec.Local = c.ident(alias)
	} else {
		spec.Local = &jsast.Identifier{Span: c.span(name), Name: spec.Imported}
	}
	return spec
}

func (c *converter) exportStmt(n *tree_sitter.Node) jsast.Stmt {
	var decorators []*jsast.Decorator
	for _, ch := range named(n) {
		if ch.Kind() == "decorator" {
			decorators = append(decorators, c.decorator(ch))
		}
	}

	decl := n.ChildByFieldName("declaration")
	if hasToken(n, "default") {
		if decl != nil {
			return &jsast.ExportDefaultDecl{Span: c.span(n), Decl: c.declaration(decl, decorators)}
		}
		if value := n.ChildByFieldName("value"); value != nil {
			return &jsast.ExportDefaultDecl{Span: c.span(n), Decl: c.expr(value)}
		}
		return c.raw(n)
	}
	if decl != nil {
		return &jsast.ExportNamedDecl{Span: c.span(n), Decl: c.declaration(decl, decorators)}
	}
	if hasToken(n, "*") || hasToken(n, "=") {
		return c.raw(n)
	}

	clause := childOfKind(n, "export_clause")
	if clause == nil {
		return c.raw(n)
	}
	d := &jsast.ExportNamedDecl{Span: c.span(n)}
	for _, spec := range named(clause) {
		if spec.Kind() != "export_specifier" {
			continue
		}
		es := &jsast.ExportSpecifier{Span: c.span(spec), Local: c.text(spec.ChildByFieldName("name"))}
		if alias := spec.ChildByFieldName("alias"); alias != nil {
			es.Exported = c.text(alias)
		}
		d.Specifiers = append(d.Specifiers, es)
	}
	if source := n.ChildByFieldName("source"); source != nil {
		d.Source = c.str(source)
	}
	return d
}

// declaration converts an exported declaration, attaching decorators that
// tree-sitter placed on the export statement to the class they belong to.
func (c *converter) declaration(n *tree_sitter.Node, decorators []*jsast.Decorator) jsast.Stmt {
	switch n.Kind() {
	case "class_declaration", "abstract_class_declaration", "class":
		return &jsast.ClassDecl{Span: c.span(n), Class: c.class(n, decorators)}
	}
	return c.stmt(n)
}

func (c *converter) varDecl(n *tree_sitter.Node) *jsast.VarDecl {
	d := &jsast.VarDecl{Span: c.span(n), Keyword: "var"}
	if kind := n.ChildByFieldName("kind"); kind != nil {
		d.Keyword = c.text(kind)
	} else if n.Kind() == "lexical_declaration" {
		if hasToken(n, "const") {
			d.Keyword = "const"
		} else {
			d.Keyword = "let"
		}
	}
	for _, ch := range named(n) {
		if ch.Kind() != "variable_declarator" {
			continue
		}
		decl := &jsast.VarDeclarator{Span: c.span(ch), Target: c.pattern(ch.ChildByFieldName("name"))}
		if t := ch.ChildByFieldName("type"); t != nil {
			decl.Type = c.typeAnnotation(t)
		}
		if v := ch.ChildByFieldName("value"); v != nil {
			decl.Init = c.expr(v)
		}
		d.Decls = append(d.Decls, decl)
	}
	return d
}

// ---- functions and classes ----

func (c *converter) function(n *tree_sitter.Node) *jsast.Function {
	f := &jsast.Function{
		Span:      c.span(n),
		Async:     hasToken(n, "async"),
		Generator: hasToken(n, "*"),
		Body:      c.block(n.ChildByFieldName("body")),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		f.Name = c.ident(name)
	}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		f.TypeParams = c.text(tp)
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		f.Params = c.params(params)
	}
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		f.ReturnType = c.typeAnnotation(rt)
	}
	return f
}

func (c *converter) params(n *tree_sitter.Node) []*jsast.Param {
	var out []*jsast.Param
	for _, ch := range named(n) {
		out = append(out, c.param(ch))
	}
	return out
}

func (c *converter) param(n *tree_sitter.Node) *jsast.Param {
	p := &jsast.Param{Span: c.span(n)}
	switch n.Kind() {
	case "required_parameter", "optional_parameter":
		p.Optional = n.Kind() == "optional_parameter"
		for i := uint(0); i < n.ChildCount(); i++ {
			ch := n.Child(i)
			switch ch.Kind() {
			case "decorator":
				p.Decorators = append(p.Decorators, c.decorator(ch))
			case "accessibility_modifier", "override_modifier", "readonly":
				p.Modifiers = append(p.Modifiers, c.text(ch))
			}
		}
		p.Pattern = c.pattern(n.ChildByFieldName("pattern"))
		if t := n.ChildByFieldName("type"); t != nil {
			p.Type = c.typeAnnotation(t)
		}
		if v := n.ChildByFieldName("value"); v != nil {
			p.Default = c.expr(v)
		}
	case "assignment_pattern":
		p.Pattern = c.pattern(n.ChildByFieldName("left"))
		p.Default = c.expr(n.ChildByFieldName("right"))
	default:
		p.Pattern = c.pattern(n)
	}
	return p
}

func (c *converter) typeAnnotation(n *tree_sitter.Node) *jsast.TypeAnnotation {
	t := &jsast.TypeAnnotation{Span: c.span(n), Text: strings.TrimSpace(c.text(n))}
	if n.Kind() == "type_annotation" {
		t.Text = strings.TrimSpace(strings.TrimPrefix(t.Text, ":"))
		n = firstNamed(n)
	}
	if n == nil {
		return t
	}
	switch n.Kind() {
	case "type_identifier", "nested_type_identifier":
		t.Name = c.text(n)
	case "generic_type":
		if name := n.ChildByFieldName("name"); name != nil {
			t.Name = c.text(name)
		}
	}
	return t
}

func (c *converter) decorator(n *tree_sitter.Node) *jsast.Decorator {
	return &jsast.Decorator{Span: c.span(n), Expr: c.expr(firstNamed(n))}
}

func (c *converter) class(n *tree_sitter.Node, decorators []*jsast.Decorator) *jsast.Class {
	cls := &jsast.Class{
		Span:       c.span(n),
		Decorators: decorators,
		Abstract:   n.Kind() == "abstract_class_declaration",
	}
	for _, ch := range named(n) {
		switch ch.Kind() {
		case "decorator":
			cls.Decorators = append(cls.Decorators, c.decorator(ch))
		case "class_heritage":
			c.heritage(ch, cls)
		}
	}
	if name := n.ChildByFieldName("name"); name != nil {
		cls.Name = c.ident(name)
	}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		cls.TypeParams = c.text(tp)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		cls.Members = c.classBody(body)
	}
	return cls
}

func (c *converter) heritage(n *tree_sitter.Node, cls *jsast.Class) {
	var extra []string
	for _, ch := range named(n) {
		switch ch.Kind() {
		case "extends_clause":
			if value := ch.ChildByFieldName("value"); value != nil {
				cls.Super = c.expr(value)
			}
			if args := ch.ChildByFieldName("type_arguments"); args != nil {
				extra = append(extra, c.text(args))
			}
		case "implements_clause":
			extra = append(extra, c.text(ch))
		default:
			// JavaScript grammar: `extends <expr>` directly.
			cls.Super = c.expr(ch)
		}
	}
	cls.Heritage = strings.Join(extra, " ")
}

func (c *converter) classBody(n *tree_sitter.Node) []jsast.ClassMember {
	var (
		members []jsast.ClassMember
		pending []*jsast.Decorator
	)
	for i := uint(0); i < n.ChildCount(); i++ {
		ch := n.Child(i)
		if !ch.IsNamed() {
			continue
		}
		switch ch.Kind() {
		case "decorator":
			pending = append(pending, c.decorator(ch))
		case "method_definition":
			members = append(members, c.method(ch, pending))
			pending = nil
		case "public_field_definition", "field_definition":
			members = append(members, c.field(ch, pending))
			pending = nil
		case "comment", "class_static_block":
			members = append(members, &jsast.RawMember{Span: c.span(ch), Text: c.text(ch)})
		default:
			text := c.text(ch)
			if !strings.HasSuffix(text, ";") && !strings.HasSuffix(text, "}") {
				text += ";"
			}
			members = append(members, &jsast.RawMember{Span: c.span(ch), Text: text})
		}
	}
	return members
}

func (c *converter) method(n *tree_sitter.Node, decorators []*jsast.Decorator) *jsast.ClassMethod {
	m := &jsast.ClassMethod{
		Span:       c.span(n),
		MethodKind: "method",
		Decorators: decorators,
		Static:     hasToken(n, "static"),
		Async:      hasToken(n, "async"),
		Generator:  hasToken(n, "*"),
		Body:       c.block(n.ChildByFieldName("body")),
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		ch := n.Child(i)
		switch ch.Kind() {
		case "decorator":
			m.Decorators = append(m.Decorators, c.decorator(ch))
		case "accessibility_modifier", "override_modifier", "abstract", "readonly":
			m.Modifiers = append(m.Modifiers, c.text(ch))
		case "get", "set":
			m.MethodKind = ch.Kind()
		}
	}
	m.Key, m.Computed = c.propertyKey(n.ChildByFieldName("name"))
	if name, ok := jsast.PropertyName(m.Key, m.Computed); ok && name == "constructor" {
		m.MethodKind = "constructor"
	}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		m.TypeParams = c.text(tp)
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		m.Params = c.params(params)
	}
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		m.ReturnType = c.typeAnnotation(rt)
	}
	return m
}

func (c *converter) field(n *tree_sitter.Node, decorators []*jsast.Decorator) *jsast.ClassField {
	f := &jsast.ClassField{
		Span:       c.span(n),
		Decorators: decorators,
		Static:     hasToken(n, "static"),
		Optional:   hasToken(n, "?"),
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		ch := n.Child(i)
		switch ch.Kind() {
		case "decorator":
			f.Decorators = append(f.Decorators, c.decorator(ch))
		case "accessibility_modifier", "override_modifier", "abstract", "readonly", "declare":
			f.Modifiers = append(f.Modifiers, c.text(ch))
		}
	}
	key := n.ChildByFieldName("name")
	if key == nil {
		key = n.ChildByFieldName("property")
	}
	f.Key, f.Computed = c.propertyKey(key)
	if t := n.ChildByFieldName("type"); t != nil {
		f.Type = c.typeAnnotation(t)
	}
	if v := n.ChildByFieldName("value"); v != nil {
		f.Value = c.expr(v)
	}
	return f
}

// propertyKey converts an object, class or pattern key.
func (c *converter) propertyKey(n *tree_sitter.Node) (jsast.Expr, bool) {
	switch n.Kind() {
	case "computed_property_name":
		return c.expr(firstNamed(n)), true
	case "string":
		return c.str(n), false
	case "number":
		return &jsast.NumberLit{Span: c.span(n), Raw: c.text(n)}, false
	}
	return c.ident(n), false
}

func (c *converter) ident(n *tree_sitter.Node) *jsast.Identifier {
	return &jsast.Identifier{Span: c.span(n), Name: c.text(n)}
}
