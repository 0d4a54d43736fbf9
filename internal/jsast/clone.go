package jsast

// ClonePattern copies a binding pattern so the copy can be placed elsewhere
// in the tree. Default value expressions and computed keys are shared with
// the original, not copied.
func ClonePattern(p Pattern) Pattern {
	switch p := p.(type) {
	case *Identifier:
		return &Identifier{Name: p.Name}
	case *ObjectPattern:
		out := &ObjectPattern{Props: make([]*PatternProp, len(p.Props))}
		for i, prop := range p.Props {
			key := prop.Key
			if id, ok := key.(*Identifier); ok && !prop.Computed {
				key = &Identifier{Name: id.Name}
			}
			out.Props[i] = &PatternProp{
				Key:       key,
				Value:     ClonePattern(prop.Value),
				Default:   prop.Default,
				Computed:  prop.Computed,
				Shorthand: prop.Shorthand,
			}
		}
		if p.Rest != nil {
			out.Rest = &RestElement{Arg: ClonePattern(p.Rest.Arg)}
		}
		return out
	case *ArrayPattern:
		out := &ArrayPattern{Elems: make([]Pattern, len(p.Elems))}
		for i, e := range p.Elems {
			if e != nil {
				out.Elems[i] = ClonePattern(e)
			}
		}
		return out
	case *AssignPattern:
		return &AssignPattern{Left: ClonePattern(p.Left), Right: p.Right}
	case *RestElement:
		return &RestElement{Arg: ClonePattern(p.Arg)}
	case *MemberExpr:
		return &MemberExpr{Object: p.Object, Property: p.Property, Computed: p.Computed, Optional: p.Optional}
	}
	return p
}

// CloneParams copies a parameter list with ClonePattern. Type annotations
// and decorators are dropped.
func CloneParams(params []*Param) []*Param {
	out := make([]*Param, len(params))
	for i, p := range params {
		out[i] = &Param{Pattern: ClonePattern(p.Pattern), Default: p.Default, Optional: p.Optional}
	}
	return out
}
