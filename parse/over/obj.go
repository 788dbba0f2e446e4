package over

import (
	"math/big"
	"sync/atomic"
	"unicode"

	"github.com/m-cat/over/pkg"
)

// Pair is one field/value entry of an Obj.
type Pair struct {
	Field string
	Value Value
}

// Obj is an immutable, ordered field/value map with an optional parent.
// Lookups that miss fall through to the parent chain. Every Obj gets a
// process-unique id at construction; the id takes no part in equality.
type Obj struct {
	pairs  []Pair
	index  map[string]int
	parent *Obj
	id     uint64
}

var nextObjID atomic.Uint64

var reservedFields = map[string]bool{
	"true":  true,
	"false": true,
	"null":  true,
	"Obj":   true,
	"Str":   true,
	"Arr":   true,
	"Tup":   true,
}

// EmptyObj returns a new Obj with no fields and no parent.
func EmptyObj() *Obj { return NewObjUnchecked(nil, nil) }

// NewObj builds an Obj, rejecting invalid or duplicate field names and
// parent chains that loop back on themselves.
func NewObj(pairs []Pair, parent *Obj) (*Obj, error) {
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		if !IsValidField(p.Field) {
			return nil, newError(ErrInvalidFieldName, "invalid field name: %q", p.Field)
		}
		if seen[p.Field] {
			return nil, newError(ErrDuplicateField, "duplicate field %q", p.Field)
		}
		seen[p.Field] = true
	}
	if err := checkParentChain(parent); err != nil {
		return nil, err
	}
	return NewObjUnchecked(pairs, parent), nil
}

// NewObjUnchecked builds an Obj without validating field names. The caller
// guarantees names are valid and unique.
func NewObjUnchecked(pairs []Pair, parent *Obj) *Obj {
	cp := make([]Pair, len(pairs))
	copy(cp, pairs)
	index := make(map[string]int, len(cp))
	for i, p := range cp {
		index[p.Field] = i
	}
	return &Obj{
		pairs:  cp,
		index:  index,
		parent: parent,
		id:     nextObjID.Add(1) - 1,
	}
}

func checkParentChain(parent *Obj) error {
	seen := make(map[*Obj]bool)
	for p := parent; p != nil; p = p.parent {
		if seen[p] {
			return newError(ErrCyclicParent, "obj %d is its own ancestor", p.id)
		}
		seen[p] = true
	}
	return nil
}

// IsValidField reports whether name can be used as a field: the first rune
// is a letter or '_', the rest are letters, ASCII digits or '_', and the name
// is not a reserved word.
func IsValidField(name string) bool {
	if name == "" || reservedFields[name] {
		return false
	}
	first := true
	for _, r := range name {
		if r == '^' || !isFieldRune(r, first) {
			return false
		}
		first = false
	}
	return true
}

// isFieldRune accepts '^' as a first rune so the parser can read the parent
// marker; IsValidField rejects it.
func isFieldRune(r rune, first bool) bool {
	switch {
	case unicode.IsLetter(r), r == '_':
		return true
	case isDigit(r):
		return !first
	case r == '^':
		return first
	}
	return false
}

func (o *Obj) ID() uint64 { return o.id }

func (o *Obj) Len() int { return len(o.pairs) }

func (o *Obj) IsEmpty() bool { return len(o.pairs) == 0 }

// Pairs returns a copy of the Obj's own pairs in insertion order.
func (o *Obj) Pairs() []Pair {
	cp := make([]Pair, len(o.pairs))
	copy(cp, o.pairs)
	return cp
}

// Contains reports whether field is one of the Obj's own fields.
func (o *Obj) Contains(field string) bool {
	_, ok := o.index[field]
	return ok
}

// own looks a field up without consulting the parent.
func (o *Obj) own(field string) (Value, bool) {
	i, ok := o.index[field]
	if !ok {
		return Value{}, false
	}
	return o.pairs[i].Value, true
}

// Get returns the value of field, searching the parent chain on a miss.
func (o *Obj) Get(field string) (Value, bool) {
	v, _, ok := o.GetWithSource(field)
	return v, ok
}

// GetWithSource is Get, also returning the Obj in the chain that owns the
// field.
func (o *Obj) GetWithSource(field string) (Value, *Obj, bool) {
	for cur := o; cur != nil; cur = cur.parent {
		if v, ok := cur.own(field); ok {
			return v, cur, true
		}
	}
	return Value{}, nil, false
}

func (o *Obj) HasParent() bool { return o.parent != nil }

// Parent returns the parent Obj, or nil.
func (o *Obj) Parent() *Obj { return o.parent }

// GetParent is Parent with an error for parentless Objs.
func (o *Obj) GetParent() (*Obj, error) {
	if o.parent == nil {
		return nil, newError(ErrNoParentFound, "no parent found for this obj")
	}
	return o.parent, nil
}

// Same reports whether o and other are the same handle.
func (o *Obj) Same(other *Obj) bool { return o == other }

// Equal reports structural equality: both parentless or both with equal
// parents, and the own pairs equal element by element, in order.
func (o *Obj) Equal(other *Obj) bool {
	if o == other {
		return true
	}
	if o == nil || other == nil {
		return false
	}
	switch {
	case o.parent == nil && other.parent == nil:
	case o.parent != nil && other.parent != nil:
		if !o.parent.Equal(other.parent) {
			return false
		}
	default:
		return false
	}
	if len(o.pairs) != len(other.pairs) {
		return false
	}
	for i := range o.pairs {
		if o.pairs[i].Field != other.pairs[i].Field || !o.pairs[i].Value.Equal(other.pairs[i].Value) {
			return false
		}
	}
	return true
}

// =========================
// Typed Access Helpers
// =========================

func (o *Obj) lookup(field string) (Value, error) {
	v, ok := o.Get(field)
	if !ok {
		return Value{}, fieldNotFound(field)
	}
	return v, nil
}

func (o *Obj) GetBool(field string) (bool, error) {
	v, err := o.lookup(field)
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

func (o *Obj) GetInt(field string) (*big.Int, error) {
	v, err := o.lookup(field)
	if err != nil {
		return nil, err
	}
	return v.AsInt()
}

func (o *Obj) GetFrac(field string) (*big.Rat, error) {
	v, err := o.lookup(field)
	if err != nil {
		return nil, err
	}
	return v.AsFrac()
}

func (o *Obj) GetStr(field string) (string, error) {
	v, err := o.lookup(field)
	if err != nil {
		return "", err
	}
	return v.AsStr()
}

func (o *Obj) GetArr(field string) (*Arr, error) {
	v, err := o.lookup(field)
	if err != nil {
		return nil, err
	}
	return v.AsArr()
}

func (o *Obj) GetTup(field string) (*Tup, error) {
	v, err := o.lookup(field)
	if err != nil {
		return nil, err
	}
	return v.AsTup()
}

func (o *Obj) GetObj(field string) (*Obj, error) {
	v, err := o.lookup(field)
	if err != nil {
		return nil, err
	}
	return v.AsObj()
}

// GetPath follows a chain of field names through nested Objs.
func (o *Obj) GetPath(path ...string) (Value, error) {
	cur := o
	var v Value
	for i, field := range path {
		var err error
		if v, err = cur.lookup(field); err != nil {
			return Value{}, err
		}
		if i == len(path)-1 {
			break
		}
		if cur, err = v.AsObj(); err != nil {
			return Value{}, err
		}
	}
	return v, nil
}

// =========================
// Persistence
// =========================

// WriteString renders the Obj as a top-level document.
func (o *Obj) WriteString() string { return formatObj(o, false, 0) }

// WriteFile writes the Obj to path as a top-level document.
func (o *Obj) WriteFile(path string) error {
	if err := pkg.WriteFileString(path, o.WriteString()); err != nil {
		return &Error{Kind: ErrIO, File: path, Err: err}
	}
	return nil
}

func (o *Obj) String() string { return formatObj(o, true, IndentStep) }
