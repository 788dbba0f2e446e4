package over

// Tup is an immutable, fixed-arity sequence of Values of possibly different
// types, with a parallel list of per-position types.
type Tup struct {
	values []Value
	types  []Type
}

var emptyTup = &Tup{}

// EmptyTup returns the shared empty Tup.
func EmptyTup() *Tup { return emptyTup }

// NewTup builds a Tup. Any combination of element types is accepted.
func NewTup(values ...Value) *Tup {
	cp := make([]Value, len(values))
	copy(cp, values)
	types := make([]Type, len(cp))
	for i, v := range cp {
		types[i] = v.Type()
	}
	return &Tup{values: cp, types: types}
}

// Get returns the element at index.
func (t *Tup) Get(index int) (Value, error) {
	if index < 0 || index >= len(t.values) {
		return Value{}, newError(ErrTupOutOfBounds, "tup index %d out of bounds", index)
	}
	return t.values[index], nil
}

func (t *Tup) Len() int { return len(t.values) }

func (t *Tup) IsEmpty() bool { return len(t.values) == 0 }

// Types returns a copy of the per-position types.
func (t *Tup) Types() []Type {
	cp := make([]Type, len(t.types))
	copy(cp, t.types)
	return cp
}

// Values returns a copy of the elements.
func (t *Tup) Values() []Value {
	cp := make([]Value, len(t.values))
	copy(cp, t.values)
	return cp
}

// Same reports whether t and other are the same handle.
func (t *Tup) Same(other *Tup) bool { return t == other }

func (t *Tup) Equal(other *Tup) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil || len(t.values) != len(other.values) {
		return false
	}
	for i := range t.types {
		if !t.types[i].Equal(other.types[i]) {
			return false
		}
	}
	for i := range t.values {
		if !t.values[i].Equal(other.values[i]) {
			return false
		}
	}
	return true
}

func (t *Tup) String() string { return formatTup(t, true, IndentStep) }
