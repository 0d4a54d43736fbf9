package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/toyz/splice/internal/jsast"
)

func (c *converter) expr(n *tree_sitter.Node) jsast.Expr {
	if n == nil {
		return nil
	}
	span := c.span(n)
	switch n.Kind() {
	case "identifier", "property_identifier", "shorthand_property_identifier",
		"private_property_identifier", "type_identifier", "statement_identifier", "undefined":
		return c.ident(n)
	case "this":
		return &jsast.ThisExpr{Span: span}
	case "super":
		return &jsast.SuperExpr{Span: span}
	case "string":
		return c.str(n)
	case "number":
		return &jsast.NumberLit{Span: span, Raw: c.text(n)}
	case "true", "false":
		return &jsast.BoolLit{Span: span, Value: n.Kind() == "true"}
	case "null":
		return &jsast.NullLit{Span: span}
	case "regex":
		return &jsast.RegexLit{Span: span, Raw: c.text(n)}
	case "template_string":
		return c.template(n)

	case "member_expression":
		return &jsast.MemberExpr{
			Span:     span,
			Object:   c.expr(n.ChildByFieldName("object")),
			Property: c.expr(n.ChildByFieldName("property")),
			Optional: optionalChain(n),
		}
	case "subscript_expression":
		return &jsast.MemberExpr{
			Span:     span,
			Object:   c.expr(n.ChildByFieldName("object")),
			Property: c.expr(n.ChildByFieldName("index")),
			Computed: true,
			Optional: optionalChain(n),
		}
	case "call_expression":
		return c.call(n)
	case "new_expression":
		e := &jsast.NewExpr{Span: span, Callee: c.expr(n.ChildByFieldName("constructor"))}
		if args := n.ChildByFieldName("arguments"); args != nil {
			e.Args = c.args(args)
		}
		return e

	case "object":
		return c.object(n)
	case "array":
		return &jsast.ArrayExpr{Span: span, Elems: c.arrayElems(n)}
	case "arrow_function":
		return c.arrow(n)
	case "function_expression", "function", "generator_function":
		return &jsast.FuncExpr{Span: span, Func: c.function(n)}
	case "class":
		return &jsast.ClassExpr{Span: span, Class: c.class(n, nil)}

	case "unary_expression":
		return &jsast.UnaryExpr{
			Span: span,
			Op:   c.text(n.ChildByFieldName("operator")),
			Arg:  c.expr(n.ChildByFieldName("argument")),
		}
	case "update_expression":
		op := n.ChildByFieldName("operator")
		arg := n.ChildByFieldName("argument")
		return &jsast.UpdateExpr{
			Span:   span,
			Op:     c.text(op),
			Prefix: op.StartByte() < arg.StartByte(),
			Arg:    c.expr(arg),
		}
	case "binary_expression":
		return &jsast.BinaryExpr{
			Span:  span,
			Op:    c.text(n.ChildByFieldName("operator")),
			Left:  c.expr(n.ChildByFieldName("left")),
			Right: c.expr(n.ChildByFieldName("right")),
		}
	case "assignment_expression":
		return &jsast.AssignExpr{
			Span:  span,
			Op:    "=",
			Left:  c.assignTarget(n.ChildByFieldName("left")),
			Right: c.expr(n.ChildByFieldName("right")),
		}
	case "augmented_assignment_expression":
		return &jsast.AssignExpr{
			Span:  span,
			Op:    c.text(n.ChildByFieldName("operator")),
			Left:  c.assignTarget(n.ChildByFieldName("left")),
			Right: c.expr(n.ChildByFieldName("right")),
		}
	case "ternary_expression":
		return &jsast.ConditionalExpr{
			Span: span,
			Test: c.expr(n.ChildByFieldName("condition")),
			Cons: c.expr(n.ChildByFieldName("consequence")),
			Alt:  c.expr(n.ChildByFieldName("alternative")),
		}
	case "await_expression":
		return &jsast.AwaitExpr{Span: span, Arg: c.expr(firstNamed(n))}
	case "yield_expression":
		return &jsast.YieldExpr{Span: span, Arg: c.expr(firstNamed(n)), Delegate: hasToken(n, "*")}
	case "parenthesized_expression":
		inner := firstNamed(n)
		if inner == nil {
			break
		}
		return &jsast.ParenExpr{Span: span, Expr: c.expr(inner)}
	case "sequence_expression":
		return &jsast.SequenceExpr{Span: span, Exprs: c.sequence(n, nil)}
	case "spread_element":
		return &jsast.SpreadElement{Span: span, Arg: c.expr(firstNamed(n))}

	case "as_expression", "satisfies_expression":
		parts := named(n)
		if len(parts) != 2 {
			break
		}
		keyword := " as "
		if n.Kind() == "satisfies_expression" {
			keyword = " satisfies "
		}
		return &jsast.TSExpr{Span: span, Expr: c.expr(parts[0]), Suffix: keyword + c.text(parts[1])}
	case "non_null_expression":
		return &jsast.TSExpr{Span: span, Expr: c.expr(firstNamed(n)), Suffix: "!"}

	case "jsx_element", "jsx_self_closing_element":
		return c.jsx(n)
	}
	return &jsast.RawExpr{Span: span, Text: c.text(n)}
}

func optionalChain(n *tree_sitter.Node) bool {
	return hasToken(n, "optional_chain") || hasToken(n, "?.")
}

func (c *converter) sequence(n *tree_sitter.Node, out []jsast.Expr) []jsast.Expr {
	for _, ch := range named(n) {
		if ch.Kind() == "sequence_expression" {
			out = c.sequence(ch, out)
			continue
		}
		out = append(out, c.expr(ch))
	}
	return out
}

func (c *converter) call(n *tree_sitter.Node) jsast.Expr {
	span := c.span(n)
	fn := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")

	if args != nil && args.Kind() == "template_string" {
		return &jsast.TaggedTemplate{Span: span, Tag: c.expr(fn), Quasi: c.template(args)}
	}
	var list []jsast.Expr
	if args != nil {
		list = c.args(args)
	}
	if fn.Kind() == "import" {
		ic := &jsast.ImportCall{Span: span}
		if len(list) > 0 {
			ic.Arg = list[0]
		}
		return ic
	}

	e := &jsast.CallExpr{Span: span, Callee: c.expr(fn), Args: list, Optional: optionalChain(n)}
	if ta := n.ChildByFieldName("type_arguments"); ta != nil {
		e.TypeArgs = c.text(ta)
	}
	return e
}

func (c *converter) args(n *tree_sitter.Node) []jsast.Expr {
	var out []jsast.Expr
	for _, ch := range named(n) {
		out = append(out, c.expr(ch))
	}
	return out
}

// elements returns the element nodes of an array or array pattern with nil
// for holes (`[a, , b]`); tree-sitter only marks them with consecutive
// commas.
func elements(n *tree_sitter.Node) []*tree_sitter.Node {
	var (
		out     []*tree_sitter.Node
		pending = true
	)
	for i := uint(0); i < n.ChildCount(); i++ {
		ch := n.Child(i)
		switch {
		case ch.Kind() == ",":
			if pending {
				out = append(out, nil)
			}
			pending = true
		case ch.IsNamed() && ch.Kind() != "comment":
			out = append(out, ch)
			pending = false
		}
	}
	return out
}

func (c *converter) arrayElems(n *tree_sitter.Node) []jsast.Expr {
	var out []jsast.Expr
	for _, el := range elements(n) {
		if el == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, c.expr(el))
	}
	return out
}

func (c *converter) object(n *tree_sitter.Node) *jsast.ObjectExpr {
	obj := &jsast.ObjectExpr{Span: c.span(n)}
	for _, ch := range named(n) {
		span := c.span(ch)
		switch ch.Kind() {
		case "pair":
			key, computed := c.propertyKey(ch.ChildByFieldName("key"))
			obj.Props = append(obj.Props, &jsast.Property{
				Span:     span,
				Key:      key,
				Value:    c.expr(ch.ChildByFieldName("value")),
				Computed: computed,
			})
		case "shorthand_property_identifier":
			obj.Props = append(obj.Props, &jsast.Property{
				Span:      span,
				Key:       c.ident(ch),
				Value:     c.ident(ch),
				Shorthand: true,
			})
		case "spread_element":
			obj.Props = append(obj.Props, &jsast.SpreadElement{Span: span, Arg: c.expr(firstNamed(ch))})
		case "method_definition":
			m := c.method(ch, nil)
			prop := &jsast.Property{
				Span:     span,
				Key:      m.Key,
				Computed: m.Computed,
				Method:   true,
				Value: &jsast.FuncExpr{Span: span, Func: &jsast.Function{
					Span:       span,
					TypeParams: m.TypeParams,
					Params:     m.Params,
					Body:       m.Body,
					Async:      m.Async,
					Generator:  m.Generator,
					ReturnType: m.ReturnType,
				}},
			}
			if m.MethodKind == "get" || m.MethodKind == "set" {
				prop.Accessor = m.MethodKind
			}
			obj.Props = append(obj.Props, prop)
		}
	}
	return obj
}

func (c *converter) arrow(n *tree_sitter.Node) *jsast.ArrowFunc {
	a := &jsast.ArrowFunc{Span: c.span(n), Async: hasToken(n, "async")}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		a.TypeParams = c.text(tp)
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		a.Params = c.params(params)
	} else if param := n.ChildByFieldName("parameter"); param != nil {
		a.Params = []*jsast.Param{{Span: c.span(param), Pattern: c.pattern(param)}}
	}
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		a.ReturnType = c.typeAnnotation(rt)
	}
	body := n.ChildByFieldName("body")
	if body.Kind() == "statement_block" {
		a.Body = c.block(body)
	} else {
		a.Body = c.expr(body)
	}
	return a
}

func (c *converter) template(n *tree_sitter.Node) *jsast.TemplateLit {
	t := &jsast.TemplateLit{Span: c.span(n)}
	cursor := n.StartByte() + 1
	for _, ch := range named(n) {
		if ch.Kind() != "template_substitution" {
			continue
		}
		t.Quasis = append(t.Quasis, string(c.src[cursor:ch.StartByte()]))
		t.Exprs = append(t.Exprs, c.expr(firstNamed(ch)))
		cursor = ch.EndByte()
	}
	t.Quasis = append(t.Quasis, string(c.src[cursor:n.EndByte()-1]))
	return t
}

// str converts a string literal. A block comment written directly before
// the literal is kept on the node.
func (c *converter) str(n *tree_sitter.Node) *jsast.StringLit {
	raw := c.text(n)
	s := &jsast.StringLit{Span: c.span(n)}
	if len(raw) >= 2 {
		s.Value = unescape(raw[1 : len(raw)-1])
	}
	if prev := n.PrevSibling(); prev != nil && prev.Kind() == "comment" {
		text := c.text(prev)
		if strings.HasPrefix(text, "/*") {
			s.Comment = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/"))
		}
	}
	return s
}

// ---- patterns ----

func (c *converter) assignTarget(n *tree_sitter.Node) jsast.Node {
	switch n.Kind() {
	case "object_pattern", "array_pattern":
		return c.pattern(n)
	}
	return c.expr(n)
}

func (c *converter) pattern(n *tree_sitter.Node) jsast.Pattern {
	span := c.span(n)
	switch n.Kind() {
	case "identifier", "shorthand_property_identifier_pattern", "this", "undefined":
		return c.ident(n)
	case "object_pattern":
		return c.objectPattern(n)
	case "array_pattern":
		p := &jsast.ArrayPattern{Span: span}
		for _, el := range elements(n) {
			if el == nil {
				p.Elems = append(p.Elems, nil)
				continue
			}
			p.Elems = append(p.Elems, c.pattern(el))
		}
		return p
	case "assignment_pattern":
		return &jsast.AssignPattern{
			Span:  span,
			Left:  c.pattern(n.ChildByFieldName("left")),
			Right: c.expr(n.ChildByFieldName("right")),
		}
	case "rest_pattern":
		return &jsast.RestElement{Span: span, Arg: c.pattern(firstNamed(n))}
	case "member_expression", "subscript_expression":
		if m, ok := c.expr(n).(*jsast.MemberExpr); ok {
			return m
		}
	}
	// Unmodelled targets print verbatim through an identifier.
	return &jsast.Identifier{Span: span, Name: c.text(n)}
}

func (c *converter) objectPattern(n *tree_sitter.Node) *jsast.ObjectPattern {
	p := &jsast.ObjectPattern{Span: c.span(n)}
	for _, ch := range named(n) {
		span := c.span(ch)
		switch ch.Kind() {
		case "shorthand_property_identifier_pattern":
			p.Props = append(p.Props, &jsast.PatternProp{Span: span, Key: c.ident(ch), Value: c.ident(ch), Shorthand: true})
		case "object_assignment_pattern":
			left := ch.ChildByFieldName("left")
			prop := &jsast.PatternProp{Span: span, Default: c.expr(ch.ChildByFieldName("right"))}
			if left.Kind() == "shorthand_property_identifier_pattern" || left.Kind() == "identifier" {
				prop.Key, prop.Value, prop.Shorthand = c.ident(left), c.ident(left), true
			} else {
				prop.Key, prop.Value = c.ident(left), c.pattern(left)
			}
			p.Props = append(p.Props, prop)
		case "pair_pattern":
			key, computed := c.propertyKey(ch.ChildByFieldName("key"))
			prop := &jsast.PatternProp{Span: span, Key: key, Computed: computed}
			value := ch.ChildByFieldName("value")
			if value.Kind() == "assignment_pattern" {
				prop.Value = c.pattern(value.ChildByFieldName("left"))
				prop.Default = c.expr(value.ChildByFieldName("right"))
			} else {
				prop.Value = c.pattern(value)
			}
			p.Props = append(p.Props, prop)
		case "rest_pattern":
			p.Rest = &jsast.RestElement{Span: span, Arg: c.pattern(firstNamed(ch))}
		}
	}
	return p
}

// ---- JSX ----

func (c *converter) jsx(n *tree_sitter.Node) *jsast.JSXElement {
	el := &jsast.JSXElement{Span: c.span(n)}
	if n.Kind() == "jsx_self_closing_element" {
		el.SelfClosing = true
		c.jsxTag(n, el)
		return el
	}

	open := n.ChildByFieldName("open_tag")
	closeTag := n.ChildByFieldName("close_tag")
	if open == nil || closeTag == nil {
		el.Name = ""
		el.Children = []jsast.JSXChild{&jsast.JSXText{Span: c.span(n), Text: c.text(n)}}
		return el
	}
	c.jsxTag(open, el)

	cursor := open.EndByte()
	for i := uint(0); i < n.ChildCount(); i++ {
		ch := n.Child(i)
		if !ch.IsNamed() || ch.StartByte() < open.EndByte() || ch.StartByte() >= closeTag.StartByte() {
			continue
		}
		if ch.StartByte() > cursor {
			el.Children = appendText(el.Children, string(c.src[cursor:ch.StartByte()]))
		}
		switch ch.Kind() {
		case "jsx_element", "jsx_self_closing_element":
			el.Children = append(el.Children, c.jsx(ch))
		case "jsx_expression":
			el.Children = append(el.Children, c.jsxExpr(ch))
		default:
			el.Children = appendText(el.Children, c.text(ch))
		}
		cursor = ch.EndByte()
	}
	if closeTag.StartByte() > cursor {
		el.Children = appendText(el.Children, string(c.src[cursor:closeTag.StartByte()]))
	}
	return el
}

func appendText(children []jsast.JSXChild, text string) []jsast.JSXChild {
	if n := len(children); n > 0 {
		if prev, ok := children[n-1].(*jsast.JSXText); ok {
			prev.Text += text
			return children
		}
	}
	return append(children, &jsast.JSXText{Text: text})
}

func (c *converter) jsxTag(n *tree_sitter.Node, el *jsast.JSXElement) {
	if name := n.ChildByFieldName("name"); name != nil {
		el.Name = c.text(name)
	}
	for _, ch := range named(n) {
		switch ch.Kind() {
		case "jsx_attribute":
			el.Attrs = append(el.Attrs, c.jsxAttr(ch))
		case "jsx_expression":
			inner := firstNamed(ch)
			if inner != nil && inner.Kind() == "spread_element" {
				el.Attrs = append(el.Attrs, &jsast.JSXSpreadAttr{Span: c.span(ch), Arg: c.expr(firstNamed(inner))})
			}
		}
	}
}

func (c *converter) jsxAttr(n *tree_sitter.Node) *jsast.JSXAttr {
	parts := named(n)
	attr := &jsast.JSXAttr{Span: c.span(n)}
	if len(parts) == 0 {
		attr.Name = c.text(n)
		return attr
	}
	attr.Name = c.text(parts[0])
	if len(parts) < 2 {
		return attr
	}
	value := parts[1]
	switch value.Kind() {
	case "string":
		raw := c.text(value)
		attr.Value = &jsast.StringLit{Span: c.span(value), Value: raw[1 : len(raw)-1]}
	case "jsx_expression":
		attr.Value = c.jsxExpr(value)
	case "jsx_element", "jsx_self_closing_element":
		attr.Value = c.jsx(value)
	default:
		attr.Value = &jsast.RawExpr{Span: c.span(value), Text: c.text(value)}
	}
	return attr
}

func (c *converter) jsxExpr(n *tree_sitter.Node) *jsast.JSXExprContainer {
	container := &jsast.JSXExprContainer{Span: c.span(n)}
	if inner := firstNamed(n); inner != nil {
		container.Expr = c.expr(inner)
	}
	return container
}
