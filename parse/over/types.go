package over

import "strings"

// Kind identifies the variant of a Type or Value.
type Kind uint8

const (
	KindAny Kind = iota
	KindNull
	KindBool
	KindInt
	KindFrac
	KindStr
	KindArr
	KindTup
	KindObj
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "Any"
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFrac:
		return "Frac"
	case KindStr:
		return "Str"
	case KindArr:
		return "Arr"
	case KindTup:
		return "Tup"
	case KindObj:
		return "Obj"
	default:
		return "Unknown"
	}
}

// Type is an element of the OVER type lattice. Arr carries its element type,
// Tup its per-position types. The zero Type is Any.
type Type struct {
	kind  Kind
	elem  *Type
	elems []Type
}

var (
	TypeAny  = Type{kind: KindAny}
	TypeNull = Type{kind: KindNull}
	TypeBool = Type{kind: KindBool}
	TypeInt  = Type{kind: KindInt}
	TypeFrac = Type{kind: KindFrac}
	TypeStr  = Type{kind: KindStr}
	TypeObj  = Type{kind: KindObj}
)

// ArrType returns the type of an Arr whose elements have type elem.
func ArrType(elem Type) Type {
	e := elem
	return Type{kind: KindArr, elem: &e}
}

// TupType returns the type of a Tup with the given per-position types.
func TupType(elems ...Type) Type {
	cp := make([]Type, len(elems))
	copy(cp, elems)
	return Type{kind: KindTup, elems: cp}
}

func (t Type) Kind() Kind { return t.kind }

// Elem returns the element type of an Arr type, and Any for anything else.
func (t Type) Elem() Type {
	if t.kind != KindArr || t.elem == nil {
		return TypeAny
	}
	return *t.elem
}

// Elems returns a copy of the position types of a Tup type.
func (t Type) Elems() []Type {
	cp := make([]Type, len(t.elems))
	copy(cp, t.elems)
	return cp
}

// Equal reports whether t and other unify: Any matches anything, Arr types
// unify element-wise and Tup types position-wise.
func (t Type) Equal(other Type) bool {
	if t.kind == KindAny || other.kind == KindAny {
		return true
	}
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindArr:
		return t.Elem().Equal(other.Elem())
	case KindTup:
		if len(t.elems) != len(other.elems) {
			return false
		}
		for i := range t.elems {
			if !t.elems[i].Equal(other.elems[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Is reports exact structural identity, with no Any wildcarding.
func (t Type) Is(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindArr:
		return t.Elem().Is(other.Elem())
	case KindTup:
		if len(t.elems) != len(other.elems) {
			return false
		}
		for i := range t.elems {
			if !t.elems[i].Is(other.elems[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// HasAny reports whether Any occurs anywhere in t.
func (t Type) HasAny() bool {
	switch t.kind {
	case KindAny:
		return true
	case KindArr:
		return t.Elem().HasAny()
	case KindTup:
		for _, e := range t.elems {
			if e.HasAny() {
				return true
			}
		}
	}
	return false
}

// MostSpecific returns the most specific type satisfied by both a and b, and
// whether that type still contains Any. ok is false when no common type
// exists.
func MostSpecific(a, b Type) (t Type, hasAny bool, ok bool) {
	if a.kind == KindAny {
		return b, b.HasAny(), true
	}
	if b.kind == KindAny {
		return a, a.HasAny(), true
	}
	if a.kind != b.kind {
		return Type{}, false, false
	}

	switch a.kind {
	case KindArr:
		elem, has, ok := MostSpecific(a.Elem(), b.Elem())
		if !ok {
			return Type{}, false, false
		}
		return ArrType(elem), has, true
	case KindTup:
		if len(a.elems) != len(b.elems) {
			return Type{}, false, false
		}
		elems := make([]Type, len(a.elems))
		for i := range a.elems {
			e, has, ok := MostSpecific(a.elems[i], b.elems[i])
			if !ok {
				return Type{}, false, false
			}
			elems[i] = e
			hasAny = hasAny || has
		}
		return Type{kind: KindTup, elems: elems}, hasAny, true
	default:
		return a, false, true
	}
}

func (t Type) String() string {
	switch t.kind {
	case KindArr:
		return "Arr(" + t.Elem().String() + ")"
	case KindTup:
		parts := make([]string, len(t.elems))
		for i, e := range t.elems {
			parts[i] = e.String()
		}
		return "Tup(" + strings.Join(parts, ", ") + ")"
	default:
		return t.kind.String()
	}
}
