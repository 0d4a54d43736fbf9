package jsast

import (
	"strings"
	"unicode"
)

// Ident returns a new identifier node.
func Ident(name string) *Identifier {
	return &Identifier{Name: name}
}

// Str returns a new string literal.
func Str(value string) *StringLit {
	return &StringLit{Value: value}
}

// Num returns a numeric literal written as raw.
func Num(raw string) *NumberLit {
	return &NumberLit{Raw: raw}
}

// Member returns object.prop.
func Member(object Expr, prop string) *MemberExpr {
	return &MemberExpr{Object: object, Property: Ident(prop)}
}

// ComputedMember returns object[prop].
func ComputedMember(object Expr, prop Expr) *MemberExpr {
	return &MemberExpr{Object: object, Property: prop, Computed: true}
}

// MemberPath builds root.p1.p2... where a root of "this" yields a ThisExpr.
func MemberPath(root string, path ...string) Expr {
	var expr Expr
	if root == "this" {
		expr = &ThisExpr{}
	} else {
		expr = Ident(root)
	}
	for _, p := range path {
		expr = Member(expr, p)
	}
	return expr
}

// Call returns callee(args...).
func Call(callee Expr, args ...Expr) *CallExpr {
	return &CallExpr{Callee: callee, Args: args}
}

// New returns new callee(args...).
func New(callee Expr, args ...Expr) *NewExpr {
	return &NewExpr{Callee: callee, Args: args}
}

// Obj returns an object literal.
func Obj(props ...ObjectMember) *ObjectExpr {
	return &ObjectExpr{Props: props}
}

// Prop returns a key: value property, quoting the key when it is not a valid
// identifier.
func Prop(key string, value Expr) *Property {
	return &Property{Key: PropKey(key), Value: value}
}

// PropKey returns an identifier for valid identifier names and a string
// literal otherwise.
func PropKey(key string) Expr {
	if IsIdentifierName(key) {
		return Ident(key)
	}
	return Str(key)
}

// Shorthand returns the `{ name }` property.
func Shorthand(name string) *Property {
	return &Property{Key: Ident(name), Value: Ident(name), Shorthand: true}
}

// ParamOf wraps a binding pattern into a parameter.
func ParamOf(p Pattern) *Param {
	return &Param{Pattern: p}
}

// NamedParam returns a plain identifier parameter.
func NamedParam(name string) *Param {
	return &Param{Pattern: Ident(name)}
}

// RestParam returns the `...name` parameter.
func RestParam(name string) *Param {
	return &Param{Pattern: &RestElement{Arg: Ident(name)}}
}

// Arrow returns (params) => body.
func Arrow(params []*Param, body Node) *ArrowFunc {
	return &ArrowFunc{Params: params, Body: body}
}

// Block returns a block statement.
func Block(stmts ...Stmt) *BlockStmt {
	return &BlockStmt{Body: stmts}
}

// Return returns `return arg;`.
func Return(arg Expr) *ReturnStmt {
	return &ReturnStmt{Arg: arg}
}

// Statement wraps an expression into a statement.
func Statement(e Expr) *ExprStmt {
	return &ExprStmt{Expr: e}
}

// Const returns `const target = init;`.
func Const(target Pattern, init Expr) *VarDecl {
	return &VarDecl{Keyword: "const", Decls: []*VarDeclarator{{Target: target, Init: init}}}
}

// Let returns `let a, b, c;` with no initializers.
func Let(names ...string) *VarDecl {
	decl := &VarDecl{Keyword: "let"}
	for _, name := range names {
		decl.Decls = append(decl.Decls, &VarDeclarator{Target: Ident(name)})
	}
	return decl
}

// If returns `if (test) cons else alt`. alt may be nil.
func If(test Expr, cons Stmt, alt Stmt) *IfStmt {
	return &IfStmt{Test: test, Cons: cons, Alt: alt}
}

// Assign returns `left = right`.
func Assign(left Node, right Expr) *AssignExpr {
	return &AssignExpr{Op: "=", Left: left, Right: right}
}

// Binary returns `left op right`.
func Binary(op string, left, right Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right}
}

// And folds operands into a left-associative `&&` chain.
func And(operands ...Expr) Expr {
	if len(operands) == 0 {
		return &BoolLit{Value: true}
	}
	expr := operands[0]
	for _, op := range operands[1:] {
		expr = Binary("&&", expr, op)
	}
	return expr
}

// Unary returns `op arg`.
func Unary(op string, arg Expr) *UnaryExpr {
	return &UnaryExpr{Op: op, Arg: arg}
}

// ImportDefault returns `import local from "source";`.
func ImportDefault(local, source string) *ImportDecl {
	return &ImportDecl{Default: Ident(local), Source: Str(source)}
}

// ImportNamed returns `import { imported as local } from "source";` for each
// pair of names.
func ImportNamed(source string, pairs ...[2]string) *ImportDecl {
	decl := &ImportDecl{Source: Str(source)}
	for _, pair := range pairs {
		decl.Specifiers = append(decl.Specifiers, &ImportSpecifier{Imported: pair[0], Local: Ident(pair[1])})
	}
	return decl
}

// ImportSideEffect returns `import "source";`.
func ImportSideEffect(source string) *ImportDecl {
	return &ImportDecl{Source: Str(source)}
}

// ExportConst returns `export const name = init;`.
func ExportConst(name string, init Expr) *ExportNamedDecl {
	return &ExportNamedDecl{Decl: Const(Ident(name), init)}
}

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "false": true, "finally": true, "for": true, "function": true,
	"if": true, "import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true, "with": true,
	"yield": true, "let": true, "static": true, "await": true,
}

// IsIdentifierName reports whether s can be used as a property key without
// quotes.
func IsIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// IsValidBinding reports whether s can be declared as a variable name.
func IsValidBinding(s string) bool {
	return IsIdentifierName(s) && !reservedWords[s]
}

// SanitizeIdentifier replaces every character that cannot appear in an
// identifier with an underscore and prefixes a leading digit.
func SanitizeIdentifier(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" || reservedWords[out] {
		out = "_" + out
	}
	return out
}

// Unparen strips any number of explicit parentheses and TypeScript
// assertions around e.
func Unparen(e Expr) Expr {
	for {
		switch x := e.(type) {
		case *ParenExpr:
			e = x.Expr
		case *TSExpr:
			e = x.Expr
		default:
			return e
		}
	}
}

// IsIdent reports whether e is the identifier name.
func IsIdent(e Node, name string) bool {
	id, ok := e.(*Identifier)
	return ok && id.Name == name
}

// PropertyName returns the static name of a property key: the identifier
// name or string value. Computed keys have no static name.
func PropertyName(key Expr, computed bool) (string, bool) {
	if computed {
		return "", false
	}
	switch k := key.(type) {
	case *Identifier:
		return k.Name, true
	case *StringLit:
		return k.Value, true
	case *NumberLit:
		return k.Raw, true
	}
	return "", false
}
