package composition

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/toyz/splice/internal/jsast"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ListKind
	MapKind
	RegistrationKind
	ReferenceKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case ListKind:
		return "list"
	case MapKind:
		return "map"
	case RegistrationKind:
		return "registration"
	case ReferenceKind:
		return "reference"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field is one key of a map value. Fields keep their declaration order.
type Field struct {
	Key   string
	Value Value
}

// Value is a constructor configuration tree. Besides plain data it may hold
// a nested Registration (instantiated in place) or a reference to another
// service by name (never instantiated).
type Value struct {
	Kind         Kind
	Bool         bool
	Raw          string // number text, string content or reference target
	Items        []Value
	Fields       []Field
	Registration *Registration
}

// Null is the empty configuration.
var Null = Value{Kind: NullKind}

// Reference returns a value pointing at the service exposed as name.
func Reference(name string) Value {
	return Value{Kind: ReferenceKind, Raw: name}
}

// Get returns the field called key of a map value.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != MapKind {
		return Null, false
	}
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Null, false
}

// Expr converts the value to the expression passed to a constructor.
func (v Value) Expr() jsast.Expr {
	switch v.Kind {
	case BoolKind:
		return &jsast.BoolLit{Value: v.Bool}
	case NumberKind:
		return jsast.Num(v.Raw)
	case StringKind:
		return jsast.Str(v.Raw)
	case ListKind:
		elems := make([]jsast.Expr, len(v.Items))
		for i, item := range v.Items {
			elems[i] = item.Expr()
		}
		return &jsast.ArrayExpr{Elems: elems}
	case MapKind:
		props := make([]jsast.ObjectMember, len(v.Fields))
		for i, f := range v.Fields {
			props[i] = jsast.Prop(f.Key, f.Value.Expr())
		}
		return jsast.Obj(props...)
	case RegistrationKind:
		return v.Registration.Instantiation()
	case ReferenceKind:
		return jsast.Member(&jsast.ThisExpr{}, v.Raw)
	default:
		return &jsast.NullLit{}
	}
}

// walk visits v and every nested value in pre-order.
func (v Value) walk(fn func(Value)) {
	fn(v)
	for _, item := range v.Items {
		item.walk(fn)
	}
	for _, f := range v.Fields {
		f.Value.walk(fn)
	}
}

// decodeValue converts a document decoded with yaml.UseOrderedMap. A table
// holding only a refTo string becomes a reference.
func decodeValue(raw any) (Value, error) {
	switch raw := raw.(type) {
	case nil:
		return Null, nil
	case bool:
		return Value{Kind: BoolKind, Bool: raw}, nil
	case int:
		return Value{Kind: NumberKind, Raw: strconv.Itoa(raw)}, nil
	case int64:
		return Value{Kind: NumberKind, Raw: strconv.FormatInt(raw, 10)}, nil
	case uint64:
		return Value{Kind: NumberKind, Raw: strconv.FormatUint(raw, 10)}, nil
	case float64:
		return Value{Kind: NumberKind, Raw: strconv.FormatFloat(raw, 'g', -1, 64)}, nil
	case string:
		return Value{Kind: StringKind, Raw: raw}, nil
	case []any:
		items := make([]Value, len(raw))
		for i, item := range raw {
			v, err := decodeValue(item)
			if err != nil {
				return Null, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return Value{Kind: ListKind, Items: items}, nil
	case yaml.MapSlice:
		if target, ok := refTarget(raw); ok {
			return Reference(target), nil
		}
		fields := make([]Field, 0, len(raw))
		for _, item := range raw {
			key := fmt.Sprint(item.Key)
			v, err := decodeValue(item.Value)
			if err != nil {
				return Null, fmt.Errorf("%s: %w", key, err)
			}
			fields = append(fields, Field{Key: key, Value: v})
		}
		return Value{Kind: MapKind, Fields: fields}, nil
	default:
		return Null, fmt.Errorf("unsupported value of type %T", raw)
	}
}

// refTarget reports whether m is a `{ refTo: name }` table.
func refTarget(m yaml.MapSlice) (string, bool) {
	if len(m) != 1 || fmt.Sprint(m[0].Key) != "refTo" {
		return "", false
	}
	target, ok := m[0].Value.(string)
	return target, ok
}
