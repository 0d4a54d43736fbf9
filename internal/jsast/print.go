package jsast

import (
	"fmt"
	"strings"
)

const (
	precSequence = iota + 1
	precAssign
	precConditional
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precExponent
	precUnary
	precPostfix
	precCall
	precMember
	precPrimary
)

var binaryPrecedence = map[string]int{
	"??": precOr, "||": precOr, "&&": precAnd,
	"|": precBitOr, "^": precBitXor, "&": precBitAnd,
	"==": precEquality, "!=": precEquality, "===": precEquality, "!==": precEquality,
	"<": precRelational, ">": precRelational, "<=": precRelational, ">=": precRelational,
	"instanceof": precRelational, "in": precRelational,
	"<<": precShift, ">>": precShift, ">>>": precShift,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "%": precMultiplicative,
	"**": precExponent,
}

// Print renders a node as source text. Output is deterministic: printing
// the same tree twice yields identical bytes.
func Print(n Node) string {
	p := &printer{}
	return p.node(n)
}

type printer struct {
	indent int
}

func (p *printer) pad() string {
	return strings.Repeat("  ", p.indent)
}

func (p *printer) node(n Node) string {
	switch n := n.(type) {
	case *Program:
		if len(n.Body) == 0 {
			return ""
		}
		return p.stmtList(n.Body) + "\n"
	case Stmt:
		return p.stmt(n)
	case Expr:
		return p.expr(n, precSequence)
	case Pattern:
		return p.pattern(n)
	case ClassMember:
		return p.classMember(n)
	case *Function:
		return p.function(n, "function")
	case *Param:
		return p.param(n)
	case *Class:
		return p.class(n)
	case *TypeAnnotation:
		return n.Text
	case *ImportSpecifier:
		return p.importSpecifier(n)
	case *ExportSpecifier:
		return p.exportSpecifier(n)
	case *VarDeclarator:
		return p.declarator(n)
	case *Decorator:
		return "@" + p.expr(n.Expr, precCall)
	case *Property:
		return p.property(n)
	case *PatternProp:
		return p.patternProp(n)
	case *SwitchCase:
		return p.switchCase(n)
	case *JSXAttr:
		return p.jsxAttr(n)
	case *JSXSpreadAttr:
		return "{..." + p.expr(n.Arg, precAssign) + "}"
	case *JSXText:
		return n.Text
	case nil:
		return ""
	}
	panic(fmt.Sprintf("jsast: cannot print %T", n))
}

// ---- statements ----

func (p *printer) stmtList(list []Stmt) string {
	lines := make([]string, 0, len(list))
	for _, s := range list {
		lines = append(lines, p.pad()+p.stmt(s))
	}
	return strings.Join(lines, "\n")
}

func (p *printer) block(b *BlockStmt) string {
	if b == nil || len(b.Body) == 0 {
		return "{}"
	}
	p.indent++
	body := p.stmtList(b.Body)
	p.indent--
	return "{\n" + body + "\n" + p.pad() + "}"
}

func (p *printer) stmt(s Stmt) string {
	switch s := s.(type) {
	case *ImportDecl:
		return p.importDecl(s)
	case *ExportNamedDecl:
		if s.Decl != nil {
			return "export " + p.stmt(s.Decl)
		}
		specs := make([]string, len(s.Specifiers))
		for i, spec := range s.Specifiers {
			specs[i] = p.exportSpecifier(spec)
		}
		out := "export { " + strings.Join(specs, ", ") + " }"
		if len(specs) == 0 {
			out = "export {}"
		}
		if s.Source != nil {
			out += " from " + quote(s.Source.Value)
		}
		return out + ";"
	case *ExportDefaultDecl:
		switch d := s.Decl.(type) {
		case *FuncDecl:
			return "export default " + p.function(d.Func, "function")
		case *ClassDecl:
			return "export default " + p.class(d.Class)
		case Expr:
			return "export default " + p.expr(d, precAssign) + ";"
		}
		return "export default " + p.node(s.Decl)
	case *VarDecl:
		return p.varDecl(s) + ";"
	case *FuncDecl:
		return p.function(s.Func, "function")
	case *ClassDecl:
		return p.class(s.Class)
	case *ExprStmt:
		text := p.expr(s.Expr, precSequence)
		if needsStatementParens(text) {
			text = "(" + text + ")"
		}
		return text + ";"
	case *ReturnStmt:
		if s.Arg == nil {
			return "return;"
		}
		return "return " + p.expr(s.Arg, precSequence) + ";"
	case *ThrowStmt:
		return "throw " + p.expr(s.Arg, precSequence) + ";"
	case *IfStmt:
		out := "if (" + p.expr(s.Test, precSequence) + ") " + p.body(s.Cons)
		if s.Alt != nil {
			out += " else " + p.body(s.Alt)
		}
		return out
	case *BlockStmt:
		return p.block(s)
	case *ForStmt:
		init := ""
		switch i := s.Init.(type) {
		case *VarDecl:
			init = p.varDecl(i)
		case Expr:
			init = p.expr(i, precSequence)
		}
		return "for (" + init + "; " + p.optExpr(s.Test) + "; " + p.optExpr(s.Update) + ") " + p.body(s.Body)
	case *ForInStmt:
		left := ""
		switch l := s.Left.(type) {
		case *VarDecl:
			left = p.varDecl(l)
		default:
			left = p.node(l)
		}
		op, kw := " in ", "for "
		if s.Of {
			op = " of "
		}
		if s.Await {
			kw = "for await "
		}
		return kw + "(" + left + op + p.expr(s.Right, precAssign) + ") " + p.body(s.Body)
	case *WhileStmt:
		return "while (" + p.expr(s.Test, precSequence) + ") " + p.body(s.Body)
	case *DoWhileStmt:
		return "do " + p.body(s.Body) + " while (" + p.expr(s.Test, precSequence) + ");"
	case *TryStmt:
		out := "try " + p.block(s.Block)
		if s.Handler != nil {
			if s.Param != nil {
				out += " catch (" + p.pattern(s.Param) + ") " + p.block(s.Handler)
			} else {
				out += " catch " + p.block(s.Handler)
			}
		}
		if s.Finalizer != nil {
			out += " finally " + p.block(s.Finalizer)
		}
		return out
	case *SwitchStmt:
		if len(s.Cases) == 0 {
			return "switch (" + p.expr(s.Disc, precSequence) + ") {}"
		}
		p.indent++
		cases := make([]string, len(s.Cases))
		for i, c := range s.Cases {
			cases[i] = p.pad() + p.switchCase(c)
		}
		p.indent--
		return "switch (" + p.expr(s.Disc, precSequence) + ") {\n" + strings.Join(cases, "\n") + "\n" + p.pad() + "}"
	case *BranchStmt:
		if s.Label != "" {
			return s.Keyword + " " + s.Label + ";"
		}
		return s.Keyword + ";"
	case *EmptyStmt:
		return ";"
	case *RawStmt:
		return s.Text
	}
	panic(fmt.Sprintf("jsast: cannot print statement %T", s))
}

func (p *printer) body(s Stmt) string {
	if b, ok := s.(*BlockStmt); ok {
		return p.block(b)
	}
	return p.stmt(s)
}

func (p *printer) optExpr(e Expr) string {
	if e == nil {
		return ""
	}
	return p.expr(e, precSequence)
}

func (p *printer) switchCase(c *SwitchCase) string {
	head := "default:"
	if c.Test != nil {
		head = "case " + p.expr(c.Test, precSequence) + ":"
	}
	if len(c.Body) == 0 {
		return head
	}
	p.indent++
	body := p.stmtList(c.Body)
	p.indent--
	return head + "\n" + body
}

func needsStatementParens(text string) bool {
	for _, prefix := range []string{"{", "function ", "function(", "function*", "async function", "class ", "let ["} {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

func (p *printer) importDecl(d *ImportDecl) string {
	kw := "import "
	if d.TypeOnly {
		kw = "import type "
	}
	var parts []string
	if d.Default != nil {
		parts = append(parts, d.Default.Name)
	}
	if d.Namespace != nil {
		parts = append(parts, "* as "+d.Namespace.Name)
	}
	if len(d.Specifiers) > 0 {
		specs := make([]string, len(d.Specifiers))
		for i, s := range d.Specifiers {
			specs[i] = p.importSpecifier(s)
		}
		parts = append(parts, "{ "+strings.Join(specs, ", ")+" }")
	}
	if len(parts) == 0 {
		return kw + quote(d.Source.Value) + ";"
	}
	return kw + strings.Join(parts, ", ") + " from " + quote(d.Source.Value) + ";"
}

func (p *printer) importSpecifier(s *ImportSpecifier) string {
	prefix := ""
	if s.TypeOnly {
		prefix = "type "
	}
	imported := s.Imported
	if !IsIdentifierName(imported) {
		imported = quote(imported)
	}
	if s.Local == nil || s.Local.Name == s.Imported {
		return prefix + imported
	}
	return prefix + imported + " as " + s.Local.Name
}

func (p *printer) exportSpecifier(s *ExportSpecifier) string {
	if s.Exported == "" || s.Exported == s.Local {
		return s.Local
	}
	return s.Local + " as " + s.Exported
}

func (p *printer) varDecl(d *VarDecl) string {
	decls := make([]string, len(d.Decls))
	for i, decl := range d.Decls {
		decls[i] = p.declarator(decl)
	}
	return d.Keyword + " " + strings.Join(decls, ", ")
}

func (p *printer) declarator(d *VarDeclarator) string {
	out := p.pattern(d.Target)
	if d.Type != nil {
		out += ": " + d.Type.Text
	}
	if d.Init != nil {
		out += " = " + p.expr(d.Init, precAssign)
	}
	return out
}

// ---- functions and classes ----

func (p *printer) function(f *Function, keyword string) string {
	var b strings.Builder
	if f.Async {
		b.WriteString("async ")
	}
	b.WriteString(keyword)
	if f.Generator {
		b.WriteString("*")
	}
	if f.Name != nil {
		b.WriteString(" " + f.Name.Name)
	}
	b.WriteString(f.TypeParams)
	b.WriteString(p.params(f.Params))
	if f.ReturnType != nil {
		b.WriteString(": " + f.ReturnType.Text)
	}
	b.WriteString(" " + p.block(f.Body))
	return b.String()
}

func (p *printer) params(params []*Param) string {
	out := make([]string, len(params))
	for i, param := range params {
		out[i] = p.param(param)
	}
	return "(" + strings.Join(out, ", ") + ")"
}

func (p *printer) param(param *Param) string {
	var b strings.Builder
	for _, d := range param.Decorators {
		b.WriteString("@" + p.expr(d.Expr, precCall) + " ")
	}
	for _, m := range param.Modifiers {
		b.WriteString(m + " ")
	}
	b.WriteString(p.pattern(param.Pattern))
	if param.Optional {
		b.WriteString("?")
	}
	if param.Type != nil {
		b.WriteString(": " + param.Type.Text)
	}
	if param.Default != nil {
		b.WriteString(" = " + p.expr(param.Default, precAssign))
	}
	return b.String()
}

func (p *printer) class(c *Class) string {
	var b strings.Builder
	for _, d := range c.Decorators {
		b.WriteString("@" + p.expr(d.Expr, precCall) + "\n" + p.pad())
	}
	if c.Abstract {
		b.WriteString("abstract ")
	}
	b.WriteString("class")
	if c.Name != nil {
		b.WriteString(" " + c.Name.Name)
	}
	b.WriteString(c.TypeParams)
	if c.Super != nil {
		b.WriteString(" extends " + p.expr(c.Super, precCall))
	}
	if c.Heritage != "" {
		b.WriteString(" " + c.Heritage)
	}
	if len(c.Members) == 0 {
		b.WriteString(" {}")
		return b.String()
	}
	b.WriteString(" {\n")
	p.indent++
	for _, m := range c.Members {
		b.WriteString(p.pad() + p.classMember(m) + "\n")
	}
	p.indent--
	b.WriteString(p.pad() + "}")
	return b.String()
}

func (p *printer) classMember(m ClassMember) string {
	switch m := m.(type) {
	case *ClassMethod:
		var b strings.Builder
		for _, d := range m.Decorators {
			b.WriteString("@" + p.expr(d.Expr, precCall) + "\n" + p.pad())
		}
		for _, mod := range m.Modifiers {
			b.WriteString(mod + " ")
		}
		if m.Static {
			b.WriteString("static ")
		}
		if m.Async {
			b.WriteString("async ")
		}
		if m.MethodKind == "get" || m.MethodKind == "set" {
			b.WriteString(m.MethodKind + " ")
		}
		if m.Generator {
			b.WriteString("*")
		}
		b.WriteString(p.key(m.Key, m.Computed))
		b.WriteString(m.TypeParams)
		b.WriteString(p.params(m.Params))
		if m.ReturnType != nil {
			b.WriteString(": " + m.ReturnType.Text)
		}
		if m.Body == nil {
			b.WriteString(";")
		} else {
			b.WriteString(" " + p.block(m.Body))
		}
		return b.String()
	case *ClassField:
		var b strings.Builder
		for _, d := range m.Decorators {
			b.WriteString("@" + p.expr(d.Expr, precCall) + "\n" + p.pad())
		}
		for _, mod := range m.Modifiers {
			b.WriteString(mod + " ")
		}
		if m.Static {
			b.WriteString("static ")
		}
		b.WriteString(p.key(m.Key, m.Computed))
		if m.Optional {
			b.WriteString("?")
		}
		if m.Type != nil {
			b.WriteString(": " + m.Type.Text)
		}
		if m.Value != nil {
			b.WriteString(" = " + p.expr(m.Value, precAssign))
		}
		return b.String() + ";"
	case *RawMember:
		return m.Text
	}
	panic(fmt.Sprintf("jsast: cannot print class member %T", m))
}

func (p *printer) key(k Expr, computed bool) string {
	if computed {
		return "[" + p.expr(k, precAssign) + "]"
	}
	return p.expr(k, precPrimary)
}

// ---- patterns ----

func (p *printer) pattern(pt Pattern) string {
	switch pt := pt.(type) {
	case *Identifier:
		return pt.Name
	case *ObjectPattern:
		parts := make([]string, 0, len(pt.Props)+1)
		for _, prop := range pt.Props {
			parts = append(parts, p.patternProp(prop))
		}
		if pt.Rest != nil {
			parts = append(parts, p.pattern(pt.Rest))
		}
		if len(parts) == 0 {
			return "{}"
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *ArrayPattern:
		parts := make([]string, len(pt.Elems))
		for i, e := range pt.Elems {
			if e != nil {
				parts[i] = p.pattern(e)
			}
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *AssignPattern:
		return p.pattern(pt.Left) + " = " + p.expr(pt.Right, precAssign)
	case *RestElement:
		return "..." + p.pattern(pt.Arg)
	case *MemberExpr:
		return p.expr(pt, precMember)
	case nil:
		return ""
	}
	panic(fmt.Sprintf("jsast: cannot print pattern %T", pt))
}

func (p *printer) patternProp(prop *PatternProp) string {
	var out string
	keyIdent, keyIsIdent := prop.Key.(*Identifier)
	valueIdent, valueIsIdent := prop.Value.(*Identifier)
	if !prop.Computed && keyIsIdent && valueIsIdent && keyIdent.Name == valueIdent.Name {
		out = keyIdent.Name
	} else {
		out = p.key(prop.Key, prop.Computed) + ": " + p.pattern(prop.Value)
	}
	if prop.Default != nil {
		out += " = " + p.expr(prop.Default, precAssign)
	}
	return out
}

// ---- expressions ----

func precedence(e Expr) int {
	switch e := e.(type) {
	case *SequenceExpr:
		return precSequence
	case *AssignExpr, *ArrowFunc, *YieldExpr:
		return precAssign
	case *ConditionalExpr:
		return precConditional
	case *BinaryExpr:
		if prec, ok := binaryPrecedence[e.Op]; ok {
			return prec
		}
		return precRelational
	case *TSExpr:
		if e.Suffix == "!" {
			return precPostfix
		}
		return precRelational
	case *UnaryExpr, *AwaitExpr:
		return precUnary
	case *UpdateExpr:
		if e.Prefix {
			return precUnary
		}
		return precPostfix
	case *CallExpr, *ImportCall:
		return precCall
	case *MemberExpr, *NewExpr, *TaggedTemplate:
		return precMember
	}
	return precPrimary
}

func (p *printer) expr(e Expr, minPrec int) string {
	text := p.exprText(e)
	if precedence(e) < minPrec {
		return "(" + text + ")"
	}
	return text
}

func (p *printer) args(args []Expr) string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = p.expr(a, precAssign)
	}
	return "(" + strings.Join(out, ", ") + ")"
}

func (p *printer) exprText(e Expr) string {
	switch e := e.(type) {
	case *Identifier:
		return e.Name
	case *ThisExpr:
		return "this"
	case *SuperExpr:
		return "super"
	case *StringLit:
		if e.Comment != "" {
			return "/* " + e.Comment + " */ " + quote(e.Value)
		}
		return quote(e.Value)
	case *NumberLit:
		return e.Raw
	case *BoolLit:
		if e.Value {
			return "true"
		}
		return "false"
	case *NullLit:
		return "null"
	case *RegexLit:
		return e.Raw
	case *TemplateLit:
		var b strings.Builder
		b.WriteString("`")
		for i, q := range e.Quasis {
			b.WriteString(q)
			if i < len(e.Exprs) {
				b.WriteString("${" + p.expr(e.Exprs[i], precSequence) + "}")
			}
		}
		b.WriteString("`")
		return b.String()
	case *TaggedTemplate:
		return p.expr(e.Tag, precMember) + p.exprText(e.Quasi)
	case *MemberExpr:
		obj := p.expr(e.Object, precCall)
		if _, ok := e.Object.(*NumberLit); ok {
			obj = "(" + obj + ")"
		}
		if e.Computed {
			if e.Optional {
				return obj + "?.[" + p.expr(e.Property, precSequence) + "]"
			}
			return obj + "[" + p.expr(e.Property, precSequence) + "]"
		}
		if e.Optional {
			return obj + "?." + p.exprText(e.Property)
		}
		return obj + "." + p.exprText(e.Property)
	case *CallExpr:
		callee := p.expr(e.Callee, precCall)
		if e.Optional {
			callee += "?."
		}
		return callee + e.TypeArgs + p.args(e.Args)
	case *NewExpr:
		return "new " + p.expr(e.Callee, precMember) + p.args(e.Args)
	case *ImportCall:
		return "import(" + p.expr(e.Arg, precAssign) + ")"
	case *ObjectExpr:
		if len(e.Props) == 0 {
			return "{}"
		}
		props := make([]string, len(e.Props))
		for i, prop := range e.Props {
			switch prop := prop.(type) {
			case *Property:
				props[i] = p.property(prop)
			case *SpreadElement:
				props[i] = "..." + p.expr(prop.Arg, precAssign)
			}
		}
		return "{ " + strings.Join(props, ", ") + " }"
	case *SpreadElement:
		return "..." + p.expr(e.Arg, precAssign)
	case *ArrayExpr:
		elems := make([]string, len(e.Elems))
		for i, el := range e.Elems {
			if el != nil {
				elems[i] = p.expr(el, precAssign)
			}
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *FuncExpr:
		return p.function(e.Func, "function")
	case *ArrowFunc:
		var b strings.Builder
		if e.Async {
			b.WriteString("async ")
		}
		b.WriteString(e.TypeParams)
		b.WriteString(p.params(e.Params))
		if e.ReturnType != nil {
			b.WriteString(": " + e.ReturnType.Text)
		}
		b.WriteString(" => ")
		switch body := e.Body.(type) {
		case *BlockStmt:
			b.WriteString(p.block(body))
		case *ObjectExpr:
			b.WriteString("(" + p.exprText(body) + ")")
		case Expr:
			b.WriteString(p.expr(body, precAssign))
		}
		return b.String()
	case *ClassExpr:
		return p.class(e.Class)
	case *UnaryExpr:
		arg := p.expr(e.Arg, precUnary)
		if len(e.Op) > 1 && e.Op != "++" && e.Op != "--" {
			return e.Op + " " + arg
		}
		if (e.Op == "-" || e.Op == "+") && strings.HasPrefix(arg, e.Op) {
			return e.Op + " " + arg
		}
		return e.Op + arg
	case *UpdateExpr:
		if e.Prefix {
			return e.Op + p.expr(e.Arg, precUnary)
		}
		return p.expr(e.Arg, precPostfix) + e.Op
	case *BinaryExpr:
		prec := precedence(e)
		leftMin, rightMin := prec, prec+1
		if e.Op == "**" {
			leftMin, rightMin = prec+1, prec
		}
		return p.expr(e.Left, leftMin) + " " + e.Op + " " + p.expr(e.Right, rightMin)
	case *AssignExpr:
		var left string
		switch l := e.Left.(type) {
		case Expr:
			left = p.expr(l, precPostfix)
		case Pattern:
			left = p.pattern(l)
		}
		return left + " " + e.Op + " " + p.expr(e.Right, precAssign)
	case *ConditionalExpr:
		return p.expr(e.Test, precOr) + " ? " + p.expr(e.Cons, precAssign) + " : " + p.expr(e.Alt, precAssign)
	case *AwaitExpr:
		return "await " + p.expr(e.Arg, precUnary)
	case *YieldExpr:
		kw := "yield"
		if e.Delegate {
			kw = "yield*"
		}
		if e.Arg == nil {
			return kw
		}
		return kw + " " + p.expr(e.Arg, precAssign)
	case *ParenExpr:
		return "(" + p.expr(e.Expr, precSequence) + ")"
	case *SequenceExpr:
		parts := make([]string, len(e.Exprs))
		for i, x := range e.Exprs {
			parts[i] = p.expr(x, precAssign)
		}
		return strings.Join(parts, ", ")
	case *TSExpr:
		if e.Suffix == "!" {
			return p.expr(e.Expr, precPostfix) + "!"
		}
		return p.expr(e.Expr, precRelational) + e.Suffix
	case *RawExpr:
		return e.Text
	case *JSXElement:
		return p.jsxElement(e)
	case *JSXExprContainer:
		if e.Expr == nil {
			return "{}"
		}
		return "{" + p.expr(e.Expr, precSequence) + "}"
	}
	panic(fmt.Sprintf("jsast: cannot print expression %T", e))
}

func (p *printer) property(prop *Property) string {
	if prop.Method {
		fn, ok := prop.Value.(*FuncExpr)
		if ok {
			var b strings.Builder
			if fn.Func.Async {
				b.WriteString("async ")
			}
			if prop.Accessor != "" {
				b.WriteString(prop.Accessor + " ")
			}
			if fn.Func.Generator {
				b.WriteString("*")
			}
			b.WriteString(p.key(prop.Key, prop.Computed))
			b.WriteString(fn.Func.TypeParams)
			b.WriteString(p.params(fn.Func.Params))
			if fn.Func.ReturnType != nil {
				b.WriteString(": " + fn.Func.ReturnType.Text)
			}
			b.WriteString(" " + p.block(fn.Func.Body))
			return b.String()
		}
	}
	if !prop.Computed {
		if key, ok := prop.Key.(*Identifier); ok {
			if value, ok := prop.Value.(*Identifier); ok && value.Name == key.Name {
				return key.Name
			}
		}
	}
	return p.key(prop.Key, prop.Computed) + ": " + p.expr(prop.Value, precAssign)
}

func (p *printer) jsxElement(e *JSXElement) string {
	var b strings.Builder
	b.WriteString("<" + e.Name)
	for _, attr := range e.Attrs {
		b.WriteString(" " + p.node(attr))
	}
	if e.SelfClosing {
		b.WriteString(" />")
		return b.String()
	}
	b.WriteString(">")
	for _, child := range e.Children {
		switch c := child.(type) {
		case *JSXText:
			b.WriteString(c.Text)
		default:
			b.WriteString(p.node(c))
		}
	}
	b.WriteString("</" + e.Name + ">")
	return b.String()
}

func (p *printer) jsxAttr(a *JSXAttr) string {
	switch v := a.Value.(type) {
	case nil:
		return a.Name
	case *StringLit:
		if strings.Contains(v.Value, `"`) {
			return a.Name + "='" + v.Value + "'"
		}
		return a.Name + `="` + v.Value + `"`
	default:
		return a.Name + "=" + p.node(v)
	}
}

// quote renders s as a double-quoted JavaScript string literal.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Quote is the exported form of the printer's string quoting.
func Quote(s string) string {
	return quote(s)
}
