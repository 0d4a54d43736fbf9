package composition

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
)

// Registration is one service entry of services.yaml.
type Registration struct {
	Name     string // field or subservice key the instance is exposed as
	ID       string
	Priority int   // lower is constructed first
	Config   Value // first constructor argument
	// Subservices is a map value whose fields are registrations or
	// references.
	Subservices Value

	Parent     *Registration
	Descriptor *Descriptor // set by Compose
}

// Instantiation returns `new Class(this, config, () => ({ subservices }), this)`.
func (r *Registration) Instantiation() jsast.Expr {
	class := r.Name
	if r.Descriptor != nil {
		class = r.Descriptor.Name
	}
	config := r.Config.Expr()
	if r.Config.Kind == NullKind {
		config = jsast.Obj()
	}
	subs := r.Subservices.Expr()
	if r.Subservices.Kind != MapKind {
		subs = jsast.Obj()
	}
	return jsast.New(jsast.Ident(class), &jsast.ThisExpr{}, config, jsast.Arrow(nil, subs), &jsast.ThisExpr{})
}

// walk visits r and its nested registrations in pre-order.
func (r *Registration) walk(fn func(*Registration) error) error {
	if err := fn(r); err != nil {
		return err
	}
	var err error
	visit := func(v Value) {
		if err == nil && v.Kind == RegistrationKind {
			err = v.Registration.walk(fn)
		}
	}
	for _, f := range r.Subservices.Fields {
		visit(f.Value)
	}
	r.Config.walk(visit)
	return err
}

// Parse reads a services.yaml document: a table of root services keyed by
// the name they are exposed as.
func Parse(data []byte, file string) ([]*Registration, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		cerr := errors.WrapConfigurationError("services.yaml", "parse", err)
		cerr.WithFile(file)
		return nil, cerr
	}
	if doc == nil {
		return nil, nil
	}
	table, ok := doc.(yaml.MapSlice)
	if !ok {
		cerr := errors.NewConfigurationError("services.yaml", "the document must be a table of services")
		cerr.WithFile(file)
		return nil, cerr
	}

	var roots []*Registration
	for _, item := range table {
		name := fmt.Sprint(item.Key)
		reg, err := parseEntry(name, item.Value, nil)
		if err != nil {
			cerr := errors.WrapConfigurationError("services.yaml", "read service "+name, err)
			cerr.WithFile(file)
			return nil, cerr
		}
		roots = append(roots, reg)
	}
	return roots, nil
}

func parseEntry(name string, raw any, parent *Registration) (*Registration, error) {
	if !jsast.IsValidBinding(name) {
		return nil, fmt.Errorf("'%s' is not a valid service name", name)
	}
	table, ok := raw.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("service %s must be a table", name)
	}

	reg := &Registration{Name: name, Parent: parent, Config: Null, Subservices: Value{Kind: MapKind}}
	priority := Null
	for _, item := range table {
		key := fmt.Sprint(item.Key)
		switch key {
		case "id":
			id, ok := item.Value.(string)
			if !ok {
				return nil, fmt.Errorf("%s.id must be a string", name)
			}
			reg.ID = id
		case "priority":
			v, err := decodeValue(item.Value)
			if err != nil {
				return nil, fmt.Errorf("%s.priority: %w", name, err)
			}
			priority = v
		case "config":
			v, err := decodeValue(item.Value)
			if err != nil {
				return nil, fmt.Errorf("%s.config.%w", name, err)
			}
			reg.Config = v
		case "subservices":
			subs, ok := item.Value.(yaml.MapSlice)
			if !ok {
				return nil, fmt.Errorf("%s.subservices must be a table", name)
			}
			for _, sub := range subs {
				subName := fmt.Sprint(sub.Key)
				v, err := parseMember(subName, sub.Value, reg)
				if err != nil {
					return nil, err
				}
				reg.Subservices.Fields = append(reg.Subservices.Fields, Field{Key: subName, Value: v})
			}
		default:
			return nil, fmt.Errorf("%s: unknown key %q", name, key)
		}
	}
	if reg.ID == "" {
		return nil, fmt.Errorf("service %s has no id", name)
	}

	// An explicit priority wins over the one carried in the config.
	if priority.Kind == NullKind {
		priority, _ = reg.Config.Get("priority")
	}
	p, err := priorityOf(priority)
	if err != nil {
		return nil, fmt.Errorf("%s.priority: %w", name, err)
	}
	reg.Priority = p
	return reg, nil
}

func parseMember(name string, raw any, parent *Registration) (Value, error) {
	if table, ok := raw.(yaml.MapSlice); ok {
		if target, ok := refTarget(table); ok {
			return Reference(target), nil
		}
	}
	reg, err := parseEntry(name, raw, parent)
	if err != nil {
		return Null, err
	}
	return Value{Kind: RegistrationKind, Registration: reg}, nil
}

func priorityOf(v Value) (int, error) {
	switch v.Kind {
	case NullKind:
		return 0, nil
	case NumberKind:
		f, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("%s is not an integer", v.Raw)
		}
		return int(f), nil
	default:
		return 0, fmt.Errorf("expected a number, got a %s", v.Kind)
	}
}

func priorityOfMember(v Value) int {
	if v.Kind == RegistrationKind {
		return v.Registration.Priority
	}
	return 0
}

// Plan is a validated composition ready to render.
type Plan struct {
	Services []*Registration // root services in construction order
	Registry *Registry
	File     string
}

// Compose validates roots against the catalog and orders them. Root
// services and every subservice table are sorted by ascending priority,
// keeping declaration order among equals. References sort as priority 0.
func Compose(roots []*Registration, catalog *Catalog, file string) (*Plan, error) {
	registry := NewRegistry()
	byName := make(map[string]*Registration, len(roots))
	for _, root := range roots {
		if prev, ok := byName[root.Name]; ok {
			return nil, errors.NewDuplicateServiceError(root.Name, prev.ID)
		}
		byName[root.Name] = root
	}

	for _, root := range roots {
		err := root.walk(func(reg *Registration) error {
			desc, ok := catalog.Lookup(reg.ID)
			if !ok {
				err := errors.NewUnregisteredServiceError(reg.ID, file)
				if ids := catalog.IDs(); len(ids) > 0 {
					err.WithContext("known", fmt.Sprint(ids))
				}
				return err
			}
			reg.Descriptor = desc
			return registry.Register(reg)
		})
		if err != nil {
			return nil, err
		}
	}

	for _, root := range roots {
		err := root.walk(func(reg *Registration) error {
			if err := resolveReferences(reg, byName, registry, file); err != nil {
				return err
			}
			return checkDescriptor(reg, registry)
		})
		if err != nil {
			return nil, err
		}
		sortSubservices(root)
	}

	services := slices.Clone(roots)
	slices.SortStableFunc(services, func(a, b *Registration) int {
		return a.Priority - b.Priority
	})
	return &Plan{Services: services, Registry: registry, File: file}, nil
}

// resolveReferences checks every reference below reg names a root service,
// by name or by id. References by id are rewritten to the root's name.
func resolveReferences(reg *Registration, byName map[string]*Registration, registry *Registry, file string) error {
	resolve := func(v *Value) error {
		if v.Kind != ReferenceKind {
			return nil
		}
		if _, ok := byName[v.Raw]; ok {
			return nil
		}
		if target, ok := registry.Lookup(v.Raw); ok && target.Parent == nil {
			v.Raw = target.Name
			return nil
		}
		return errors.NewUnregisteredServiceError(v.Raw, file)
	}

	var rewrite func(v *Value) error
	rewrite = func(v *Value) error {
		if err := resolve(v); err != nil {
			return err
		}
		for i := range v.Items {
			if err := rewrite(&v.Items[i]); err != nil {
				return err
			}
		}
		for i := range v.Fields {
			if v.Fields[i].Value.Kind == RegistrationKind {
				continue
			}
			if err := rewrite(&v.Fields[i].Value); err != nil {
				return err
			}
		}
		return nil
	}

	if err := rewrite(&reg.Config); err != nil {
		return err
	}
	for i := range reg.Subservices.Fields {
		if err := resolve(&reg.Subservices.Fields[i].Value); err != nil {
			return err
		}
	}
	return nil
}

// checkDescriptor enforces the parent and dependencies a service.json
// declares.
func checkDescriptor(reg *Registration, registry *Registry) error {
	desc := reg.Descriptor
	if desc.ParentID != "" && (reg.Parent == nil || reg.Parent.ID != desc.ParentID) {
		err := errors.NewConfigurationError(reg.ID,
			fmt.Sprintf("service '%s' must be registered as a subservice of '%s'", reg.ID, desc.ParentID))
		err.WithFile(desc.File)
		return err
	}
	for _, dep := range desc.Dependencies {
		if _, err := registry.Resolve(dep, desc.File); err != nil {
			return err
		}
	}
	return nil
}

func sortSubservices(reg *Registration) {
	slices.SortStableFunc(reg.Subservices.Fields, func(a, b Field) int {
		return priorityOfMember(a.Value) - priorityOfMember(b.Value)
	})
	for _, f := range reg.Subservices.Fields {
		if f.Value.Kind == RegistrationKind {
			sortSubservices(f.Value.Registration)
		}
	}
}

// Walk visits every registration of the plan in construction order.
func (p *Plan) Walk(fn func(*Registration) error) error {
	for _, root := range p.Services {
		if err := root.walk(fn); err != nil {
			return err
		}
	}
	return nil
}
