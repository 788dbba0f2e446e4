package over

import "math/big"

// Value is a tagged union over Null, Bool, Int, Frac, Str, Arr, Tup and Obj.
//
// Scalars are held by value. Arr, Tup and Obj are held through their shared
// immutable handles, so copying a Value never copies container storage.
// The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    *big.Int
	f    *big.Rat
	s    string
	arr  *Arr
	tup  *Tup
	obj  *Obj
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a Bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an Int value holding a copy of n.
func Int(n *big.Int) Value {
	if n == nil {
		return Value{kind: KindInt, i: new(big.Int)}
	}
	return Value{kind: KindInt, i: new(big.Int).Set(n)}
}

// IntFrom returns an Int value from a machine integer.
func IntFrom(n int64) Value { return Value{kind: KindInt, i: big.NewInt(n)} }

// Frac returns a Frac value holding a copy of r.
func Frac(r *big.Rat) Value {
	if r == nil {
		return Value{kind: KindFrac, f: new(big.Rat)}
	}
	return Value{kind: KindFrac, f: new(big.Rat).Set(r)}
}

// FracFrom returns the Frac num/den. It panics if den is zero, like big.NewRat.
func FracFrom(num, den int64) Value { return Value{kind: KindFrac, f: big.NewRat(num, den)} }

// Str returns a Str value.
func Str(s string) Value { return Value{kind: KindStr, s: s} }

// FromArr wraps an Arr handle. A nil handle is treated as the empty Arr.
func FromArr(a *Arr) Value {
	if a == nil {
		a = EmptyArr()
	}
	return Value{kind: KindArr, arr: a}
}

// FromTup wraps a Tup handle. A nil handle is treated as the empty Tup.
func FromTup(t *Tup) Value {
	if t == nil {
		t = EmptyTup()
	}
	return Value{kind: KindTup, tup: t}
}

// FromObj wraps an Obj handle. A nil handle is treated as a new empty Obj.
func FromObj(o *Obj) Value {
	if o == nil {
		o = EmptyObj()
	}
	return Value{kind: KindObj, obj: o}
}

// intOwned and fracOwned take ownership of freshly computed numbers.
func intOwned(n *big.Int) Value  { return Value{kind: KindInt, i: n} }
func fracOwned(r *big.Rat) Value { return Value{kind: KindFrac, f: r} }

func (v Value) Kind() Kind {
	if v.kind == KindAny {
		return KindNull
	}
	return v.kind
}

func (v Value) IsNull() bool { return v.Kind() == KindNull }

// Type returns the full type of v, including container element types.
func (v Value) Type() Type {
	switch v.Kind() {
	case KindBool:
		return TypeBool
	case KindInt:
		return TypeInt
	case KindFrac:
		return TypeFrac
	case KindStr:
		return TypeStr
	case KindArr:
		return ArrType(v.arr.ElemType())
	case KindTup:
		return Type{kind: KindTup, elems: v.tup.types}
	case KindObj:
		return TypeObj
	default:
		return TypeNull
	}
}

// Equal compares structurally. Arr, Tup and Obj handles are equal when their
// contents are, regardless of identity.
func (v Value) Equal(other Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i.Cmp(other.i) == 0
	case KindFrac:
		return v.f.Cmp(other.f) == 0
	case KindStr:
		return v.s == other.s
	case KindArr:
		return v.arr.Equal(other.arr)
	case KindTup:
		return v.tup.Equal(other.tup)
	case KindObj:
		return v.obj.Equal(other.obj)
	}
	return false
}

func (v Value) AsBool() (bool, error) {
	if v.Kind() != KindBool {
		return false, typeMismatch(TypeBool, v.Type())
	}
	return v.b, nil
}

// AsInt returns a copy of the Int held by v.
func (v Value) AsInt() (*big.Int, error) {
	if v.Kind() != KindInt {
		return nil, typeMismatch(TypeInt, v.Type())
	}
	return new(big.Int).Set(v.i), nil
}

// AsFrac returns a copy of the Frac held by v.
func (v Value) AsFrac() (*big.Rat, error) {
	if v.Kind() != KindFrac {
		return nil, typeMismatch(TypeFrac, v.Type())
	}
	return new(big.Rat).Set(v.f), nil
}

func (v Value) AsStr() (string, error) {
	if v.Kind() != KindStr {
		return "", typeMismatch(TypeStr, v.Type())
	}
	return v.s, nil
}

func (v Value) AsArr() (*Arr, error) {
	if v.Kind() != KindArr {
		return nil, typeMismatch(ArrType(TypeAny), v.Type())
	}
	return v.arr, nil
}

func (v Value) AsTup() (*Tup, error) {
	if v.Kind() != KindTup {
		return nil, typeMismatch(TupType(), v.Type())
	}
	return v.tup, nil
}

func (v Value) AsObj() (*Obj, error) {
	if v.Kind() != KindObj {
		return nil, typeMismatch(TypeObj, v.Type())
	}
	return v.obj, nil
}

func (v Value) String() string { return formatValue(v, IndentStep) }
