package metadata

import (
	"strings"

	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
)

// Icon is one icon referenced by the sources.
type Icon struct {
	ID   string // css class suffix, "solid-home"
	Name string // as written, "solid/home" or "home"
	File string // svg path inside the icon packs, "solid/home.svg"
}

// IconIndex accumulates icons keyed by "folder/name".
type IconIndex = Accumulator[Icon]

// NewIconIndex creates an icon index flushed to name.
func NewIconIndex(name string) *IconIndex {
	return NewAccumulator(Kind[Icon]{
		Name:   name,
		Equal:  func(a, b Icon) bool { return a == b },
		Render: renderIcons,
	})
}

func renderIcons(entries []Entry[Icon]) ([]byte, error) {
	var b strings.Builder
	b.WriteString("// Code generated by splice. DO NOT EDIT.\n\n")
	if len(entries) == 0 {
		b.WriteString("export type Icons = never;\n")
		return []byte(b.String()), nil
	}
	b.WriteString("export type Icons =")
	for _, e := range entries {
		b.WriteString("\n  | " + jsast.Quote(e.Value.Name))
	}
	b.WriteString(";\n")
	return []byte(b.String()), nil
}

const (
	iconComment     = "@icon"
	iconDoneComment = "@iconId"
	spinSource      = "spin"
	spinnerIcon     = "solid/spinner-third"
	svgClassPrefix  = "svg-"
)

// IconCollector records the icons a file references and rewrites the
// references to icon ids.
//
//	{ icon: "solid/home" }       ->  { icon: "solid-home" }
//	<Button icon="solid/home" /> ->  <Button icon="solid-home" />
//	/* @icon */"solid/user"      ->  /* @iconId */"solid-user"
//	<i src="solid/user" />       ->  <i class="svg-solid-user" />
//	<i src={name} class="big" /> ->  <i class={"svg-" + name + " " + "big"} />
type IconCollector struct {
	Pack  string // folder of names written without one
	Index *IconIndex
}

// Collect walks file and returns the number of icon references found.
func (c *IconCollector) Collect(file *models.SourceFile) int {
	count := 0
	reference := func(raw string) string {
		count++
		return c.reference(raw, file.Path)
	}

	jsast.Inspect(file.Program, func(n jsast.Node) bool {
		switch n := n.(type) {
		case *jsast.StringLit:
			if n.Comment == iconComment {
				n.Value = reference(n.Value)
				n.Comment = iconDoneComment
			}
		case *jsast.Property:
			if n.Computed || n.Method || !jsast.IsIdent(n.Key, "icon") {
				return true
			}
			if s, ok := n.Value.(*jsast.StringLit); ok && s.Comment != iconDoneComment {
				s.Value = reference(s.Value)
				return false
			}
		case *jsast.JSXElement:
			if n.Name == "i" {
				c.rewriteIconElement(n, reference)
			}
		case *jsast.JSXAttr:
			if !strings.HasPrefix(n.Name, "icon") {
				return true
			}
			switch v := n.Value.(type) {
			case *jsast.StringLit:
				v.Value = reference(v.Value)
			case *jsast.JSXExprContainer:
				cond, ok := v.Expr.(*jsast.ConditionalExpr)
				if !ok {
					return true
				}
				cons, ok1 := cond.Cons.(*jsast.StringLit)
				alt, ok2 := cond.Alt.(*jsast.StringLit)
				if ok1 && ok2 {
					cons.Value = reference(cons.Value)
					alt.Value = reference(alt.Value)
				}
			}
			return false
		}
		return true
	})
	return count
}

// reference records raw and returns its id.
func (c *IconCollector) reference(raw, source string) string {
	folder, name, ok := strings.Cut(raw, "/")
	if !ok {
		folder, name = c.Pack, raw
	}
	key := folder + "/" + name
	icon := Icon{
		ID:   strings.ReplaceAll(raw, "/", "-"),
		Name: raw,
		File: key + ".svg",
	}
	if existing, ok := c.Index.Get(key); ok {
		return existing.Value.ID
	}
	c.Index.Record(key, icon, source)
	return icon.ID
}

// rewriteIconElement replaces the src attribute of an <i> element with a
// class attribute. Elements without src are left alone.
func (c *IconCollector) rewriteIconElement(el *jsast.JSXElement, reference func(string) string) {
	var src, class jsast.Node
	attrs := make([]jsast.Node, 0, len(el.Attrs))
	for _, a := range el.Attrs {
		if attr, ok := a.(*jsast.JSXAttr); ok {
			switch attr.Name {
			case "src":
				src = attr.Value
				continue
			case "class":
				class = attr.Value
				continue
			}
		}
		attrs = append(attrs, a)
	}

	var icon jsast.Expr
	switch v := src.(type) {
	case *jsast.StringLit:
		if v.Value == spinSource {
			icon = jsast.Str(svgClassPrefix + reference(spinnerIcon) + " spin")
		} else {
			icon = jsast.Str(svgClassPrefix + reference(v.Value))
		}
	case *jsast.JSXExprContainer:
		if v.Expr == nil {
			return
		}
		icon = jsast.Binary("+", jsast.Str(svgClassPrefix), v.Expr)
	default:
		return
	}

	var original jsast.Expr
	switch v := class.(type) {
	case *jsast.StringLit:
		original = v
	case *jsast.JSXExprContainer:
		original = v.Expr
	}

	var value jsast.Node
	switch {
	case original != nil:
		// the icon class stays first so i[class^="svg-"] keeps matching
		value = &jsast.JSXExprContainer{Expr: jsast.Binary("+", jsast.Binary("+", icon, jsast.Str(" ")), original)}
	case isString(icon):
		value = icon
	default:
		value = &jsast.JSXExprContainer{Expr: icon}
	}
	el.Attrs = append(attrs, &jsast.JSXAttr{Name: "class", Value: value})
}

func isString(e jsast.Expr) bool {
	_, ok := e.(*jsast.StringLit)
	return ok
}
