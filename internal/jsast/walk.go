package jsast

import (
	"fmt"
	"slices"
)

// ApplyFunc is called for each node visited by Apply. Returning false from
// the pre function skips the node's children and its post call; returning
// false from the post function stops the whole traversal.
type ApplyFunc func(*Cursor) bool

// Cursor describes the node being visited by Apply and lets the callback
// edit the tree around it. A Cursor is only valid for the duration of the
// callback it was passed to.
type Cursor struct {
	parent Node
	name   string
	iter   *iterator
	slot   slot
	node   Node
}

// Node returns the current node, or nil once it has been deleted.
func (c *Cursor) Node() Node { return c.node }

// Parent returns the node holding the current node, or nil at the root.
func (c *Cursor) Parent() Node { return c.parent }

// Name returns the parent field the current node is stored in.
func (c *Cursor) Name() string { return c.name }

// Index returns the position of the current node in its parent list, or -1
// when the node is stored in a single field.
func (c *Cursor) Index() int {
	if c.iter == nil {
		return -1
	}
	return c.iter.index
}

// Replace puts n in place of the current node. The children of n are
// visited next.
func (c *Cursor) Replace(n Node) {
	c.slot.set(c.Index(), n)
	c.node = n
}

// Delete removes the current node from its parent list.
func (c *Cursor) Delete() {
	i := c.mustIndex("Delete")
	c.slot.del(i)
	c.iter.step--
	c.node = nil
}

// ReplaceWithMultiple puts nodes in place of the current list element. The
// new nodes are not visited.
func (c *Cursor) ReplaceWithMultiple(nodes ...Node) {
	i := c.mustIndex("ReplaceWithMultiple")
	c.slot.del(i)
	for j, n := range nodes {
		c.slot.insert(i+j, n)
	}
	c.iter.step += len(nodes) - 1
	c.node = nil
}

// InsertBefore inserts n before the current list element. n is not visited.
func (c *Cursor) InsertBefore(n Node) {
	i := c.mustIndex("InsertBefore")
	c.slot.insert(i, n)
	c.iter.index++
}

// InsertAfter inserts n after the current list element. n is not visited.
func (c *Cursor) InsertAfter(n Node) {
	i := c.mustIndex("InsertAfter")
	c.slot.insert(i+1, n)
	c.iter.step++
}

func (c *Cursor) mustIndex(op string) int {
	i := c.Index()
	if i < 0 {
		panic(fmt.Sprintf("jsast: %s called on %s, which is not stored in a list", op, c.name))
	}
	return i
}

type iterator struct {
	index, step int
}

type slot interface {
	set(i int, n Node)
	del(i int)
	insert(i int, n Node)
}

type fieldSlot[T Node] struct {
	p    *T
	name string
}

func (s fieldSlot[T]) set(_ int, n Node) { *s.p = as[T](n, s.name) }
func (s fieldSlot[T]) del(int)           { var zero T; *s.p = zero }
func (s fieldSlot[T]) insert(int, Node)  { panic("jsast: cannot insert into field " + s.name) }

type listSlot[T Node] struct {
	p    *[]T
	name string
}

func (s listSlot[T]) set(i int, n Node)    { (*s.p)[i] = as[T](n, s.name) }
func (s listSlot[T]) del(i int)            { *s.p = slices.Delete(*s.p, i, i+1) }
func (s listSlot[T]) insert(i int, n Node) { *s.p = slices.Insert(*s.p, i, as[T](n, s.name)) }

func as[T Node](n Node, name string) T {
	var zero T
	if n == nil {
		return zero
	}
	v, ok := n.(T)
	if !ok {
		panic(fmt.Sprintf("jsast: %s cannot be stored in %s", n.Kind(), name))
	}
	return v
}

func isZero[T Node](n T) bool {
	var zero T
	return any(n) == any(zero)
}

type abortTraversal struct{}

type application struct {
	pre, post ApplyFunc
	cursor    Cursor
	iter      iterator
}

// Apply walks the tree rooted at root in depth-first pre-order, calling pre
// before and post after each node's children, and returns the possibly
// replaced root.
func Apply(root Node, pre, post ApplyFunc) (result Node) {
	holder := root
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abortTraversal); !ok {
				panic(r)
			}
		}
		result = holder
	}()

	a := &application{pre: pre, post: post}
	field(a, nil, "root", &holder)
	return holder
}

// Inspect calls f for every node in pre-order. Returning false skips the
// node's children.
func Inspect(root Node, f func(Node) bool) {
	Apply(root, func(c *Cursor) bool { return f(c.Node()) }, nil)
}

func (a *application) apply(parent Node, name string, iter *iterator, s slot, n Node) {
	saved := a.cursor
	a.cursor = Cursor{parent: parent, name: name, iter: iter, slot: s, node: n}

	if a.pre == nil || a.pre(&a.cursor) {
		if node := a.cursor.node; node != nil {
			a.children(node)
			if a.post != nil && a.cursor.node != nil && !a.post(&a.cursor) {
				panic(abortTraversal{})
			}
		}
	}

	a.cursor = saved
}

func field[T Node](a *application, parent Node, name string, p *T) {
	if isZero(*p) {
		return
	}
	a.apply(parent, name, nil, fieldSlot[T]{p: p, name: name}, *p)
}

func list[T Node](a *application, parent Node, name string, p *[]T) {
	saved := a.iter
	a.iter.index = 0
	for a.iter.index < len(*p) {
		a.iter.step = 1
		if n := (*p)[a.iter.index]; !isZero(n) {
			a.apply(parent, name, &a.iter, listSlot[T]{p: p, name: name}, n)
		}
		a.iter.index += a.iter.step
	}
	a.iter = saved
}

func (a *application) children(n Node) {
	switch n := n.(type) {
	case *Program:
		list(a, n, "Body", &n.Body)

	case *ImportDecl:
		field(a, n, "Default", &n.Default)
		field(a, n, "Namespace", &n.Namespace)
		list(a, n, "Specifiers", &n.Specifiers)
		field(a, n, "Source", &n.Source)
	case *ImportSpecifier:
		field(a, n, "Local", &n.Local)
	case *ExportNamedDecl:
		field(a, n, "Decl", &n.Decl)
		list(a, n, "Specifiers", &n.Specifiers)
		field(a, n, "Source", &n.Source)
	case *ExportDefaultDecl:
		field(a, n, "Decl", &n.Decl)

	case *VarDecl:
		list(a, n, "Decls", &n.Decls)
	case *VarDeclarator:
		field(a, n, "Target", &n.Target)
		field(a, n, "Type", &n.Type)
		field(a, n, "Init", &n.Init)
	case *FuncDecl:
		field(a, n, "Func", &n.Func)
	case *ClassDecl:
		field(a, n, "Class", &n.Class)
	case *ExprStmt:
		field(a, n, "Expr", &n.Expr)
	case *ReturnStmt:
		field(a, n, "Arg", &n.Arg)
	case *ThrowStmt:
		field(a, n, "Arg", &n.Arg)
	case *IfStmt:
		field(a, n, "Test", &n.Test)
		field(a, n, "Cons", &n.Cons)
		field(a, n, "Alt", &n.Alt)
	case *BlockStmt:
		list(a, n, "Body", &n.Body)
	case *ForStmt:
		field(a, n, "Init", &n.Init)
		field(a, n, "Test", &n.Test)
		field(a, n, "Update", &n.Update)
		field(a, n, "Body", &n.Body)
	case *ForInStmt:
		field(a, n, "Left", &n.Left)
		field(a, n, "Right", &n.Right)
		field(a, n, "Body", &n.Body)
	case *WhileStmt:
		field(a, n, "Test", &n.Test)
		field(a, n, "Body", &n.Body)
	case *DoWhileStmt:
		field(a, n, "Body", &n.Body)
		field(a, n, "Test", &n.Test)
	case *TryStmt:
		field(a, n, "Block", &n.Block)
		field(a, n, "Param", &n.Param)
		field(a, n, "Handler", &n.Handler)
		field(a, n, "Finalizer", &n.Finalizer)
	case *SwitchStmt:
		field(a, n, "Disc", &n.Disc)
		list(a, n, "Cases", &n.Cases)
	case *SwitchCase:
		field(a, n, "Test", &n.Test)
		list(a, n, "Body", &n.Body)

	case *Function:
		field(a, n, "Name", &n.Name)
		list(a, n, "Params", &n.Params)
		field(a, n, "ReturnType", &n.ReturnType)
		field(a, n, "Body", &n.Body)
	case *Param:
		list(a, n, "Decorators", &n.Decorators)
		field(a, n, "Pattern", &n.Pattern)
		field(a, n, "Type", &n.Type)
		field(a, n, "Default", &n.Default)
	case *Class:
		list(a, n, "Decorators", &n.Decorators)
		field(a, n, "Name", &n.Name)
		field(a, n, "Super", &n.Super)
		list(a, n, "Members", &n.Members)
	case *ClassMethod:
		list(a, n, "Decorators", &n.Decorators)
		field(a, n, "Key", &n.Key)
		list(a, n, "Params", &n.Params)
		field(a, n, "ReturnType", &n.ReturnType)
		field(a, n, "Body", &n.Body)
	case *ClassField:
		list(a, n, "Decorators", &n.Decorators)
		field(a, n, "Key", &n.Key)
		field(a, n, "Type", &n.Type)
		field(a, n, "Value", &n.Value)
	case *Decorator:
		field(a, n, "Expr", &n.Expr)

	case *ObjectPattern:
		list(a, n, "Props", &n.Props)
		field(a, n, "Rest", &n.Rest)
	case *PatternProp:
		field(a, n, "Key", &n.Key)
		field(a, n, "Value", &n.Value)
		field(a, n, "Default", &n.Default)
	case *ArrayPattern:
		list(a, n, "Elems", &n.Elems)
	case *AssignPattern:
		field(a, n, "Left", &n.Left)
		field(a, n, "Right", &n.Right)
	case *RestElement:
		field(a, n, "Arg", &n.Arg)

	case *TemplateLit:
		list(a, n, "Exprs", &n.Exprs)
	case *TaggedTemplate:
		field(a, n, "Tag", &n.Tag)
		field(a, n, "Quasi", &n.Quasi)
	case *MemberExpr:
		field(a, n, "Object", &n.Object)
		field(a, n, "Property", &n.Property)
	case *CallExpr:
		field(a, n, "Callee", &n.Callee)
		list(a, n, "Args", &n.Args)
	case *NewExpr:
		field(a, n, "Callee", &n.Callee)
		list(a, n, "Args", &n.Args)
	case *ImportCall:
		field(a, n, "Arg", &n.Arg)
	case *ObjectExpr:
		list(a, n, "Props", &n.Props)
	case *Property:
		field(a, n, "Key", &n.Key)
		field(a, n, "Value", &n.Value)
	case *SpreadElement:
		field(a, n, "Arg", &n.Arg)
	case *ArrayExpr:
		list(a, n, "Elems", &n.Elems)
	case *FuncExpr:
		field(a, n, "Func", &n.Func)
	case *ArrowFunc:
		list(a, n, "Params", &n.Params)
		field(a, n, "ReturnType", &n.ReturnType)
		field(a, n, "Body", &n.Body)
	case *ClassExpr:
		field(a, n, "Class", &n.Class)
	case *UnaryExpr:
		field(a, n, "Arg", &n.Arg)
	case *UpdateExpr:
		field(a, n, "Arg", &n.Arg)
	case *BinaryExpr:
		field(a, n, "Left", &n.Left)
		field(a, n, "Right", &n.Right)
	case *AssignExpr:
		field(a, n, "Left", &n.Left)
		field(a, n, "Right", &n.Right)
	case *ConditionalExpr:
		field(a, n, "Test", &n.Test)
		field(a, n, "Cons", &n.Cons)
		field(a, n, "Alt", &n.Alt)
	case *AwaitExpr:
		field(a, n, "Arg", &n.Arg)
	case *YieldExpr:
		field(a, n, "Arg", &n.Arg)
	case *ParenExpr:
		field(a, n, "Expr", &n.Expr)
	case *SequenceExpr:
		list(a, n, "Exprs", &n.Exprs)
	case *TSExpr:
		field(a, n, "Expr", &n.Expr)

	case *JSXElement:
		list(a, n, "Attrs", &n.Attrs)
		list(a, n, "Children", &n.Children)
	case *JSXAttr:
		field(a, n, "Value", &n.Value)
	case *JSXSpreadAttr:
		field(a, n, "Arg", &n.Arg)
	case *JSXExprContainer:
		field(a, n, "Expr", &n.Expr)

	case *ExportSpecifier, *BranchStmt, *EmptyStmt, *RawStmt, *TypeAnnotation, *RawMember,
		*Identifier, *ThisExpr, *SuperExpr, *StringLit, *NumberLit, *BoolLit, *NullLit,
		*RegexLit, *RawExpr, *JSXText:
		// leaves

	default:
		panic(fmt.Sprintf("jsast: unexpected node %T", n))
	}
}
