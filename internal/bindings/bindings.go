// Package bindings resolves the imports of virtual framework modules to
// every identifier that refers to them.
package bindings

import (
	"github.com/toyz/splice/internal/jsast"
)

// Class says how a virtual import is rewritten.
type Class int

const (
	Container Class = iota
	ApplicationService
	Model
	RequestContext
)

func (c Class) String() string {
	switch c {
	case Container:
		return "container"
	case ApplicationService:
		return "service"
	case Model:
		return "model"
	case RequestContext:
		return "request"
	}
	return "unknown"
}

// Classifier decides whether the specifier imported from source is a
// binding the caller cares about, and of which class. Default imports are
// passed as "default" and namespace imports as "*".
type Classifier func(source, imported string) (Class, bool)

// Binding is one local name introduced by a virtual import.
type Binding struct {
	Local      string
	Imported   string
	Source     string
	Class      Class
	Decl       *jsast.ImportDecl
	References []*Reference

	// Opaque counts uses no rewrite can reach: local export specifiers and
	// names inside source text the tree keeps unparsed.
	Opaque int
}

// Reference is one identifier that resolves to a Binding.
type Reference struct {
	Ident   *jsast.Identifier
	ID      jsast.NodeID
	Binding *Binding
}

// Declaration is a top-level import from a virtual source together with the
// bindings it introduced, referenced or not.
type Declaration struct {
	Decl     *jsast.ImportDecl
	Source   string
	Bindings []*Binding
}

// Scope is the result of resolving one program.
type Scope struct {
	index     *jsast.Index
	all       []*Binding
	byLocal   map[string]*Binding
	refs      map[*jsast.Identifier]*Reference
	order     []*Reference
	decls     []*Declaration
	rewritten map[jsast.NodeID]bool
}

// Bindings returns the bindings that have at least one reference, in
// declaration order.
func (s *Scope) Bindings() []*Binding {
	var out []*Binding
	for _, b := range s.all {
		if len(b.References) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// Lookup returns the binding declared under local.
func (s *Scope) Lookup(local string) (*Binding, bool) {
	b, ok := s.byLocal[local]
	return b, ok
}

// ReferenceAt returns the reference made by ident, if it is one.
func (s *Scope) ReferenceAt(ident *jsast.Identifier) (*Reference, bool) {
	ref, ok := s.refs[ident]
	return ref, ok
}

// References returns every reference of every binding in the pre-order
// of the tree as it was when resolved.
func (s *Scope) References() []*Reference {
	return s.order
}

// MarkRewritten flags ref as rewritten. It returns false when the flag was
// already set, in which case the caller must leave the reference alone.
func (s *Scope) MarkRewritten(ref *Reference) bool {
	if s.rewritten[ref.ID] {
		return false
	}
	s.rewritten[ref.ID] = true
	return true
}

// Rewritten reports whether ref has been marked.
func (s *Scope) Rewritten(ref *Reference) bool {
	return s.rewritten[ref.ID]
}

// Declarations returns every virtual import declaration in source order.
func (s *Scope) Declarations() []*Declaration {
	return s.decls
}

// Index returns the node index the scope was built on.
func (s *Scope) Index() *jsast.Index {
	return s.index
}
