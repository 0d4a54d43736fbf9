// Package jsast defines the syntax tree the rewriting stages operate on.
//
// Every node kind is its own struct type. Stages match on node shapes with
// type switches over the sealed interfaces below instead of comparing kind
// strings, so an unhandled shape is visible at the switch rather than
// silently falling through.
package jsast

// Span records where a node came from in the original source. Synthesized
// nodes carry the zero Span.
type Span struct {
	Start  int // byte offset
	End    int // byte offset
	Line   int // 1-based, 0 when unknown
	Column int // 1-based, 0 when unknown
}

// Pos returns the span itself so that every node embedding Span satisfies Node.
func (s Span) Pos() Span { return s }

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() Kind
	Pos() Span
}

// Expr is a node that can appear in expression position.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a node that can appear in a statement list.
type Stmt interface {
	Node
	stmtNode()
}

// Pattern is a binding target: a parameter, declarator or assignment target.
type Pattern interface {
	Node
	patternNode()
}

// ObjectMember is an entry of an object literal.
type ObjectMember interface {
	Node
	objectMemberNode()
}

// ClassMember is an entry of a class body.
type ClassMember interface {
	Node
	classMemberNode()
}

// JSXChild is a node that can appear between JSX tags.
type JSXChild interface {
	Node
	jsxChildNode()
}

// Program is the root of a parsed file.
type Program struct {
	Span
	Body []Stmt
}

// ---- module declarations ----

// ImportDecl is `import ... from "source"`.
type ImportDecl struct {
	Span
	Default    *Identifier
	Namespace  *Identifier
	Specifiers []*ImportSpecifier
	Source     *StringLit
	TypeOnly   bool
}

// ImportSpecifier is one `{ Imported as Local }` entry.
type ImportSpecifier struct {
	Span
	Imported string
	Local    *Identifier
	TypeOnly bool
}

// ExportNamedDecl is `export <decl>` or `export { a, b as c } [from "x"]`.
type ExportNamedDecl struct {
	Span
	Decl       Stmt
	Specifiers []*ExportSpecifier
	Source     *StringLit
}

// ExportSpecifier is one `{ Local as Exported }` entry.
type ExportSpecifier struct {
	Span
	Local    string
	Exported string
}

// ExportDefaultDecl is `export default <expr|decl>`.
type ExportDefaultDecl struct {
	Span
	Decl Node
}

// ---- statements ----

// VarDecl is a `const`, `let` or `var` declaration.
type VarDecl struct {
	Span
	Keyword string
	Decls   []*VarDeclarator
}

// VarDeclarator is one `target = init` entry of a VarDecl.
type VarDeclarator struct {
	Span
	Target Pattern
	Type   *TypeAnnotation
	Init   Expr
}

// FuncDecl is a function declaration statement.
type FuncDecl struct {
	Span
	Func *Function
}

// ClassDecl is a class declaration statement.
type ClassDecl struct {
	Span
	Class *Class
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Span
	Expr Expr
}

// ReturnStmt is `return [arg]`.
type ReturnStmt struct {
	Span
	Arg Expr
}

// ThrowStmt is `throw arg`.
type ThrowStmt struct {
	Span
	Arg Expr
}

// IfStmt is `if (test) cons [else alt]`.
type IfStmt struct {
	Span
	Test Expr
	Cons Stmt
	Alt  Stmt
}

// BlockStmt is a braced statement list.
type BlockStmt struct {
	Span
	Body []Stmt
}

// ForStmt is a classic three-clause loop. Init is a *VarDecl, an Expr or nil.
type ForStmt struct {
	Span
	Init   Node
	Test   Expr
	Update Expr
	Body   Stmt
}

// ForInStmt is `for (left in right)` or, when Of is set, `for (left of right)`.
// Left is a *VarDecl or an assignment target.
type ForInStmt struct {
	Span
	Left  Node
	Right Expr
	Body  Stmt
	Of    bool
	Await bool
}

// WhileStmt is `while (test) body`.
type WhileStmt struct {
	Span
	Test Expr
	Body Stmt
}

// DoWhileStmt is `do body while (test)`.
type DoWhileStmt struct {
	Span
	Body Stmt
	Test Expr
}

// TryStmt is `try {} catch (param) {} finally {}`.
type TryStmt struct {
	Span
	Block     *BlockStmt
	Param     Pattern
	Handler   *BlockStmt
	Finalizer *BlockStmt
}

// SwitchStmt is `switch (disc) { cases }`.
type SwitchStmt struct {
	Span
	Disc  Expr
	Cases []*SwitchCase
}

// SwitchCase is one `case test:` (or `default:` when Test is nil).
type SwitchCase struct {
	Span
	Test Expr
	Body []Stmt
}

// BranchStmt is `break [label]` or `continue [label]`.
type BranchStmt struct {
	Span
	Keyword string
	Label   string
}

// EmptyStmt is a lone `;`.
type EmptyStmt struct {
	Span
}

// RawStmt carries statement text the tree does not model (type aliases,
// interfaces, enums, ambient declarations). It is printed verbatim.
type RawStmt struct {
	Span
	Text string
}

// ---- functions and classes ----

// Function holds what function declarations and expressions share.
type Function struct {
	Span
	Name       *Identifier
	TypeParams string
	Params     []*Param
	Body       *BlockStmt
	Async      bool
	Generator  bool
	ReturnType *TypeAnnotation
}

// Param is one formal parameter.
type Param struct {
	Span
	Pattern    Pattern
	Type       *TypeAnnotation
	Default    Expr
	Optional   bool
	Modifiers  []string
	Decorators []*Decorator
}

// TypeAnnotation is a TypeScript type kept as text. Name is the bare type
// identifier when the annotation is a plain or generic type reference.
type TypeAnnotation struct {
	Span
	Text string
	Name string
}

// Class holds what class declarations and expressions share.
type Class struct {
	Span
	Name       *Identifier
	TypeParams string
	Super      Expr
	Heritage   string
	Members    []ClassMember
	Decorators []*Decorator
	Abstract   bool
}

// ClassMethod is a method, constructor, getter or setter.
type ClassMethod struct {
	Span
	MethodKind string
	Key        Expr
	Computed   bool
	Static     bool
	Async      bool
	Generator  bool
	Modifiers  []string
	Decorators []*Decorator
	TypeParams string
	Params     []*Param
	Body       *BlockStmt
	ReturnType *TypeAnnotation
}

// ClassField is a property declaration in a class body.
type ClassField struct {
	Span
	Key        Expr
	Computed   bool
	Static     bool
	Optional   bool
	Modifiers  []string
	Decorators []*Decorator
	Type       *TypeAnnotation
	Value      Expr
}

// RawMember carries class body text the tree does not model (index
// signatures, overload signatures).
type RawMember struct {
	Span
	Text string
}

// Decorator is `@expr`.
type Decorator struct {
	Span
	Expr Expr
}

// ---- patterns ----

// ObjectPattern is `{ a, b: c, ...rest }` in binding position.
type ObjectPattern struct {
	Span
	Props []*PatternProp
	Rest  *RestElement
}

// PatternProp is one entry of an ObjectPattern.
type PatternProp struct {
	Span
	Key       Expr
	Value     Pattern
	Default   Expr
	Computed  bool
	Shorthand bool
}

// ArrayPattern is `[a, , b]` in binding position. Holes are nil.
type ArrayPattern struct {
	Span
	Elems []Pattern
}

// AssignPattern is `target = default` inside a pattern.
type AssignPattern struct {
	Span
	Left  Pattern
	Right Expr
}

// RestElement is `...arg` in binding position.
type RestElement struct {
	Span
	Arg Pattern
}

// ---- expressions ----

// Identifier is a name. It is both an expression and a binding pattern.
type Identifier struct {
	Span
	Name string
}

// ThisExpr is `this`.
type ThisExpr struct{ Span }

// SuperExpr is `super`.
type SuperExpr struct{ Span }

// StringLit is a string literal. Comment holds a block comment written
// immediately before the literal (e.g. `/* @icon */"name"`).
type StringLit struct {
	Span
	Value   string
	Comment string
}

// NumberLit is a numeric literal kept as written.
type NumberLit struct {
	Span
	Raw string
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Span
	Value bool
}

// NullLit is `null`.
type NullLit struct{ Span }

// RegexLit is a regular expression literal kept as written.
type RegexLit struct {
	Span
	Raw string
}

// TemplateLit is a template literal. Quasis has one more entry than Exprs
// and holds the raw text between substitutions.
type TemplateLit struct {
	Span
	Quasis []string
	Exprs  []Expr
}

// TaggedTemplate is tag`...`.
type TaggedTemplate struct {
	Span
	Tag   Expr
	Quasi *TemplateLit
}

// MemberExpr is `object.property`, `object[property]` or `object?.property`.
type MemberExpr struct {
	Span
	Object   Expr
	Property Expr
	Computed bool
	Optional bool
}

// CallExpr is `callee(args)`.
type CallExpr struct {
	Span
	Callee   Expr
	Args     []Expr
	Optional bool
	TypeArgs string
}

// NewExpr is `new callee(args)`.
type NewExpr struct {
	Span
	Callee Expr
	Args   []Expr
}

// ImportCall is a dynamic `import(arg)`.
type ImportCall struct {
	Span
	Arg Expr
}

// ObjectExpr is an object literal.
type ObjectExpr struct {
	Span
	Props []ObjectMember
}

// Property is one `key: value` entry of an object literal. Methods are
// properties whose Value is a *FuncExpr with Method set; getters and setters
// use Accessor.
type Property struct {
	Span
	Key       Expr
	Value     Expr
	Computed  bool
	Shorthand bool
	Method    bool
	Accessor  string
}

// SpreadElement is `...arg` in an array, argument list or object literal.
type SpreadElement struct {
	Span
	Arg Expr
}

// ArrayExpr is an array literal. Holes are nil.
type ArrayExpr struct {
	Span
	Elems []Expr
}

// FuncExpr is a function expression.
type FuncExpr struct {
	Span
	Func *Function
}

// ArrowFunc is an arrow function. Body is a *BlockStmt or an Expr.
type ArrowFunc struct {
	Span
	TypeParams string
	Params     []*Param
	Body       Node
	Async      bool
	ReturnType *TypeAnnotation
}

// ClassExpr is a class expression.
type ClassExpr struct {
	Span
	Class *Class
}

// UnaryExpr is a prefix operator such as `!x`, `typeof x` or `-x`.
type UnaryExpr struct {
	Span
	Op  string
	Arg Expr
}

// UpdateExpr is `++x`, `x++`, `--x` or `x--`.
type UpdateExpr struct {
	Span
	Op     string
	Prefix bool
	Arg    Expr
}

// BinaryExpr covers arithmetic, comparison and logical operators.
type BinaryExpr struct {
	Span
	Op    string
	Left  Expr
	Right Expr
}

// AssignExpr is `left op right`. Left is an Expr or a Pattern.
type AssignExpr struct {
	Span
	Op    string
	Left  Node
	Right Expr
}

// ConditionalExpr is `test ? cons : alt`.
type ConditionalExpr struct {
	Span
	Test Expr
	Cons Expr
	Alt  Expr
}

// AwaitExpr is `await arg`.
type AwaitExpr struct {
	Span
	Arg Expr
}

// YieldExpr is `yield [*] arg`.
type YieldExpr struct {
	Span
	Arg      Expr
	Delegate bool
}

// ParenExpr keeps explicit parentheses from the source.
type ParenExpr struct {
	Span
	Expr Expr
}

// SequenceExpr is `a, b, c`.
type SequenceExpr struct {
	Span
	Exprs []Expr
}

// TSExpr is a TypeScript-only expression suffix: `x as T`, `x satisfies T`
// or the non-null assertion `x!`.
type TSExpr struct {
	Span
	Expr   Expr
	Suffix string
}

// RawExpr carries expression text the tree does not model.
type RawExpr struct {
	Span
	Text string
}

// ---- JSX ----

// JSXElement is `<Name attrs>children</Name>`. Fragments have an empty Name.
type JSXElement struct {
	Span
	Name        string
	Attrs       []Node
	Children    []JSXChild
	SelfClosing bool
}

// JSXAttr is `name="value"`, `name={expr}` or a bare `name`. Value is nil,
// a *StringLit or a *JSXExprContainer.
type JSXAttr struct {
	Span
	Name  string
	Value Node
}

// JSXSpreadAttr is `{...arg}` in attribute position.
type JSXSpreadAttr struct {
	Span
	Arg Expr
}

// JSXExprContainer is `{expr}`. Expr is nil for `{}`.
type JSXExprContainer struct {
	Span
	Expr Expr
}

// JSXText is literal text between tags.
type JSXText struct {
	Span
	Text string
}

// ---- interface markers ----

func (*ImportDecl) stmtNode()        {}
func (*ExportNamedDecl) stmtNode()   {}
func (*ExportDefaultDecl) stmtNode() {}
func (*VarDecl) stmtNode()           {}
func (*FuncDecl) stmtNode()          {}
func (*ClassDecl) stmtNode()         {}
func (*ExprStmt) stmtNode()          {}
func (*ReturnStmt) stmtNode()        {}
func (*ThrowStmt) stmtNode()         {}
func (*IfStmt) stmtNode()            {}
func (*BlockStmt) stmtNode()         {}
func (*ForStmt) stmtNode()           {}
func (*ForInStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()         {}
func (*DoWhileStmt) stmtNode()       {}
func (*TryStmt) stmtNode()           {}
func (*SwitchStmt) stmtNode()        {}
func (*BranchStmt) stmtNode()        {}
func (*EmptyStmt) stmtNode()         {}
func (*RawStmt) stmtNode()           {}

func (*Identifier) exprNode()       {}
func (*ThisExpr) exprNode()         {}
func (*SuperExpr) exprNode()        {}
func (*StringLit) exprNode()        {}
func (*NumberLit) exprNode()        {}
func (*BoolLit) exprNode()          {}
func (*NullLit) exprNode()          {}
func (*RegexLit) exprNode()         {}
func (*TemplateLit) exprNode()      {}
func (*TaggedTemplate) exprNode()   {}
func (*MemberExpr) exprNode()       {}
func (*CallExpr) exprNode()         {}
func (*NewExpr) exprNode()          {}
func (*ImportCall) exprNode()       {}
func (*ObjectExpr) exprNode()       {}
func (*SpreadElement) exprNode()    {}
func (*ArrayExpr) exprNode()        {}
func (*FuncExpr) exprNode()         {}
func (*ArrowFunc) exprNode()        {}
func (*ClassExpr) exprNode()        {}
func (*UnaryExpr) exprNode()        {}
func (*UpdateExpr) exprNode()       {}
func (*BinaryExpr) exprNode()       {}
func (*AssignExpr) exprNode()       {}
func (*ConditionalExpr) exprNode()  {}
func (*AwaitExpr) exprNode()        {}
func (*YieldExpr) exprNode()        {}
func (*ParenExpr) exprNode()        {}
func (*SequenceExpr) exprNode()     {}
func (*TSExpr) exprNode()           {}
func (*RawExpr) exprNode()          {}
func (*JSXElement) exprNode()       {}
func (*JSXExprContainer) exprNode() {}

func (*Identifier) patternNode()    {}
func (*ObjectPattern) patternNode() {}
func (*ArrayPattern) patternNode()  {}
func (*AssignPattern) patternNode() {}
func (*RestElement) patternNode()   {}
func (*MemberExpr) patternNode()    {}

func (*Property) objectMemberNode()      {}
func (*SpreadElement) objectMemberNode() {}

func (*ClassMethod) classMemberNode() {}
func (*ClassField) classMemberNode()  {}
func (*RawMember) classMemberNode()   {}

func (*JSXElement) jsxChildNode()       {}
func (*JSXExprContainer) jsxChildNode() {}
func (*JSXText) jsxChildNode()          {}
