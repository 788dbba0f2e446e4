package toml

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/m-cat/over/parse/over"
)

// =========================
// Conversion to OVER
// =========================

// ParseObj parses a TOML document and converts it to an Obj. Failures are
// reported as *over.Error.
func ParseObj(r io.Reader) (*over.Obj, error) {
	root, err := Parse(r)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, &over.Error{Kind: over.ErrInvalidValue, Msg: pe.Msg, File: "toml", Line: pe.Line, Column: pe.Column}
		}
		return nil, &over.Error{Kind: over.ErrIO, File: "toml", Err: err}
	}
	return ToObj(root)
}

// ToObj converts a parsed Table. Keys keep their source order. Arrays become
// an Arr when their elements unify and a Tup otherwise. Ints and floats are
// exact; datetimes become Strs holding the literal. A key "^" holding a table
// becomes the parent.
func ToObj(t *Table) (*over.Obj, error) {
	return tableObj(t, 1)
}

func tableObj(t *Table, line int) (*over.Obj, error) {
	pairs := make([]over.Pair, 0, t.Len())
	var parent *over.Obj
	for _, e := range t.Entries {
		at := e.Line
		if at == 0 {
			at = line
		}
		v, err := nodeValue(e.Node, at)
		if err != nil {
			return nil, err
		}
		if e.Key == "^" {
			p, err := v.AsObj()
			if err != nil {
				return nil, convertError(err, at)
			}
			parent = p
			continue
		}
		if !over.IsValidField(e.Key) {
			return nil, &over.Error{Kind: over.ErrInvalidFieldName, File: "toml", Line: at,
				Msg: fmt.Sprintf("invalid field name: %q", e.Key)}
		}
		pairs = append(pairs, over.Pair{Field: e.Key, Value: v})
	}
	obj, err := over.NewObj(pairs, parent)
	if err != nil {
		return nil, convertError(err, line)
	}
	return obj, nil
}

func nodeValue(n Node, line int) (over.Value, error) {
	switch v := n.(type) {
	case *Table:
		obj, err := tableObj(v, line)
		if err != nil {
			return over.Value{}, err
		}
		return over.FromObj(obj), nil
	case *Array:
		values := make([]over.Value, 0, len(v.Elems))
		for _, elem := range v.Elems {
			ev, err := nodeValue(elem, line)
			if err != nil {
				return over.Value{}, err
			}
			values = append(values, ev)
		}
		if arr, err := over.NewArr(values...); err == nil {
			return over.FromArr(arr), nil
		}
		return over.FromTup(over.NewTup(values...)), nil
	case *Value:
		return scalarValue(v, line)
	}
	return over.Value{}, &over.Error{Kind: over.ErrInvalidValue, Msg: "unsupported toml node", File: "toml", Line: line}
}

func scalarValue(v *Value, line int) (over.Value, error) {
	switch v.Type {
	case tomlValueKinds.ValueString:
		return over.Str(v.V.(string)), nil
	case tomlValueKinds.ValueBool:
		return over.Bool(v.V.(bool)), nil
	case tomlValueKinds.ValueInt:
		return over.IntFrom(v.V.(int64)), nil
	case tomlValueKinds.ValueFloat:
		r, ok := new(big.Rat).SetString(v.Text)
		if !ok {
			return over.Value{}, &over.Error{Kind: over.ErrNumeric, File: "toml", Line: line,
				Msg: "cannot represent " + v.Text + " as a fraction"}
		}
		return over.Frac(r), nil
	}
	return over.Str(v.Text), nil
}

func convertError(err error, line int) error {
	var oe *over.Error
	if errors.As(err, &oe) && oe.Line == 0 {
		cp := *oe
		cp.File, cp.Line = "toml", line
		return &cp
	}
	return err
}
