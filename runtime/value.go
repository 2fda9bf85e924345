package runtime

// Kind tags which alternative of the Value union is populated.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindTable
	KindClosure
)

// Value is the tagged union placed on the interpreter's operand stack and
// stored inside Tables and Registers. It is a non-owning reference to any
// GC object it points at; the GC alone owns the lifetime of Obj.
//
// Value is deliberately a plain comparable struct (no slices, maps or
// non-comparable interfaces) so it can be used directly as a Table key.
type Value struct {
	Kind Kind
	Num  float64
	Bool bool
	Obj  Object // populated when Kind is KindString, KindTable or KindClosure
}

// Nil is the singular nil value.
var Nil = Value{Kind: KindNil}

// BoolValue wraps a bool as a Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NumberValue wraps a float64 as a Value.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// StringValue wraps an interned *String as a Value.
func StringValue(s *String) Value { return Value{Kind: KindString, Obj: s} }

// TableValue wraps a *Table as a Value.
func TableValue(t *Table) Value { return Value{Kind: KindTable, Obj: t} }

// ClosureValue wraps a *Closure as a Value.
func ClosureValue(c *Closure) Value { return Value{Kind: KindClosure, Obj: c} }

// IsNil reports whether v is the Nil value.
func (v Value) IsNil() bool { return v.Kind == KindNil }

// Truthy implements Lua-family truthiness: everything except nil and false
// is truthy.
func (v Value) Truthy() bool {
	if v.Kind == KindNil {
		return false
	}
	if v.Kind == KindBool {
		return v.Bool
	}
	return true
}

// object returns the underlying Object reference, or nil for value kinds
// that don't carry one. Used by the GC to walk references out of a Value
// without every caller needing a type switch.
func (v Value) object() Object {
	switch v.Kind {
	case KindString, KindTable, KindClosure:
		return v.Obj
	default:
		return nil
	}
}
