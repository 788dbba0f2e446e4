package over

// Arr is an immutable, homogeneous sequence of Values. Every element's type
// unifies with ElemType. Handles are shared freely; nothing mutates an Arr
// after construction.
type Arr struct {
	values []Value
	elem   Type
}

var emptyArr = &Arr{elem: TypeAny}

// EmptyArr returns the shared empty Arr, whose element type is Any.
func EmptyArr() *Arr { return emptyArr }

// NewArr builds an Arr, computing the unified element type. It fails with
// ErrArrTypeMismatch naming both types when an element does not unify.
func NewArr(values ...Value) (*Arr, error) {
	u := arrUnifier{t: TypeAny, hasAny: true}
	for _, v := range values {
		if err := u.add(v.Type()); err != nil {
			return nil, err
		}
	}
	return NewArrUnchecked(values, u.t), nil
}

// NewArrUnchecked builds an Arr with a precomputed element type. The caller
// guarantees that every element unifies with elem.
func NewArrUnchecked(values []Value, elem Type) *Arr {
	cp := make([]Value, len(values))
	copy(cp, values)
	return &Arr{values: cp, elem: elem}
}

// arrUnifier accumulates the element type of an Arr one element at a time.
// While the running type still contains Any it is refined with MostSpecific;
// after that, new elements only need to unify with it.
type arrUnifier struct {
	t      Type
	hasAny bool
}

func (u *arrUnifier) add(t Type) error {
	if u.hasAny {
		next, hasAny, ok := MostSpecific(u.t, t)
		if !ok {
			return arrTypeMismatch(u.t, t)
		}
		u.t, u.hasAny = next, hasAny
		return nil
	}
	if !u.t.Equal(t) {
		return arrTypeMismatch(u.t, t)
	}
	return nil
}

func arrTypeMismatch(expected, found Type) *Error {
	return newError(ErrArrTypeMismatch, "arr inner types do not match: expected %s, found %s", expected, found)
}

// Get returns the element at index.
func (a *Arr) Get(index int) (Value, error) {
	if index < 0 || index >= len(a.values) {
		return Value{}, newError(ErrArrOutOfBounds, "arr index %d out of bounds", index)
	}
	return a.values[index], nil
}

func (a *Arr) Len() int { return len(a.values) }

func (a *Arr) IsEmpty() bool { return len(a.values) == 0 }

// ElemType returns the unified element type.
func (a *Arr) ElemType() Type { return a.elem }

// Values returns a copy of the elements.
func (a *Arr) Values() []Value {
	cp := make([]Value, len(a.values))
	copy(cp, a.values)
	return cp
}

// Same reports whether a and other are the same handle.
func (a *Arr) Same(other *Arr) bool { return a == other }

func (a *Arr) Equal(other *Arr) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil {
		return false
	}
	if !a.elem.Equal(other.elem) || len(a.values) != len(other.values) {
		return false
	}
	for i := range a.values {
		if !a.values[i].Equal(other.values[i]) {
			return false
		}
	}
	return true
}

// Concat returns a new Arr holding a's elements followed by b's. The element
// types must unify; the result has their most specific common type.
func (a *Arr) Concat(b *Arr) (*Arr, error) {
	t, _, ok := MostSpecific(a.elem, b.elem)
	if !ok {
		return nil, arrTypeMismatch(a.elem, b.elem)
	}
	values := make([]Value, 0, len(a.values)+len(b.values))
	values = append(values, a.values...)
	values = append(values, b.values...)
	return &Arr{values: values, elem: t}, nil
}

func (a *Arr) String() string { return formatArr(a, true, IndentStep) }
