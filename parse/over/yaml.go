package over

import (
	"math/big"

	"gopkg.in/yaml.v3"
)

// =========================
// YAML Bridge
// =========================

// ToYAML renders an Obj as a YAML mapping, keeping field order. A parent is
// written first under the key "^". Fracs with a finite decimal expansion
// become floats; others are written as "n/d" strings.
func ToYAML(o *Obj) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{objNode(o)}}
	return yaml.Marshal(doc)
}

func objNode(o *Obj) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if o.parent != nil {
		n.Content = append(n.Content, strNode("^"), objNode(o.parent))
	}
	for _, p := range o.pairs {
		n.Content = append(n.Content, strNode(p.Field), valueNode(p.Value))
	}
	return n
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func valueNode(v Value) *yaml.Node {
	switch v.Kind() {
	case KindBool:
		val := "false"
		if v.b {
			val = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: val}
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v.i.String()}
	case KindFrac:
		if s, ok := decimalString(v.f); ok {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
		}
		return strNode(formatFrac(v.f))
	case KindStr:
		return strNode(v.s)
	case KindArr:
		return seqNode(v.arr.values)
	case KindTup:
		return seqNode(v.tup.values)
	case KindObj:
		return objNode(v.obj)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func seqNode(values []Value) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, v := range values {
		n.Content = append(n.Content, valueNode(v))
	}
	return n
}

// decimalString returns the exact decimal form of r when the denominator
// has no prime factors other than 2 and 5.
func decimalString(r *big.Rat) (string, bool) {
	d := new(big.Int).Set(r.Denom())
	two, five := big.NewInt(2), big.NewInt(5)
	m := new(big.Int)
	var twos, fives int
	for m.Rem(d, two).Sign() == 0 {
		d.Quo(d, two)
		twos++
	}
	for m.Rem(d, five).Sign() == 0 {
		d.Quo(d, five)
		fives++
	}
	if d.Cmp(big.NewInt(1)) != 0 {
		return "", false
	}
	digits := max(twos, fives, 1)
	return r.FloatString(digits), true
}

// FromYAML converts a YAML document whose root is a mapping into an Obj.
// Sequences become an Arr when their elements unify and a Tup otherwise.
// A mapping key "^" holding a mapping becomes the parent.
func FromYAML(data []byte) (*Obj, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Kind: ErrInvalidValue, Msg: "invalid yaml", Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return EmptyObj(), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, yamlError(ErrTypeMismatch, root, "yaml document root must be a mapping")
	}
	v, err := nodeValue(root)
	if err != nil {
		return nil, err
	}
	return v.obj, nil
}

func yamlError(kind ErrorKind, n *yaml.Node, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, File: "yaml", Line: n.Line, Column: n.Column}
}

func nodeValue(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.SequenceNode:
		values := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return Value{}, err
			}
			values = append(values, v)
		}
		if arr, err := NewArr(values...); err == nil {
			return FromArr(arr), nil
		}
		return FromTup(NewTup(values...)), nil
	case yaml.MappingNode:
		return mappingValue(n)
	case yaml.ScalarNode:
		return scalarValue(n)
	}
	return Value{}, yamlError(ErrInvalidValue, n, "unsupported yaml node")
}

func mappingValue(n *yaml.Node) (Value, error) {
	var pairs []Pair
	var parent *Obj
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		v, err := nodeValue(val)
		if err != nil {
			return Value{}, err
		}
		if key.Value == "^" {
			if v.Kind() != KindObj {
				return Value{}, yamlError(ErrTypeMismatch, val, typeMismatch(TypeObj, v.Type()).Msg)
			}
			parent = v.obj
			continue
		}
		pairs = append(pairs, Pair{Field: key.Value, Value: v})
	}
	obj, err := NewObj(pairs, parent)
	if err != nil {
		return Value{}, at(err, "yaml", n.Line, n.Column)
	}
	return FromObj(obj), nil
}

func scalarValue(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, yamlError(ErrInvalidValue, n, err.Error())
		}
		return Bool(b), nil
	case "!!int":
		i, ok := new(big.Int).SetString(n.Value, 0)
		if !ok {
			return Value{}, yamlError(ErrNumeric, n, "cannot parse "+n.Value+" as an integer")
		}
		return intOwned(i), nil
	case "!!float":
		r, ok := new(big.Rat).SetString(n.Value)
		if !ok {
			return Value{}, yamlError(ErrNumeric, n, "cannot represent "+n.Value+" as a fraction")
		}
		return fracOwned(r), nil
	}
	return Str(n.Value), nil
}
