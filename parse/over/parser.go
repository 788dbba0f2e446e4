package over

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/m-cat/over/pkg"
)

const (
	// MaxDepth bounds the nesting of containers and includes together.
	MaxDepth = 64
	// IndentStep is the indentation width used by the formatter.
	IndentStep = 4
)

// =========================
// Public API
// =========================

// ParseObj parses a document held in memory. Includes are resolved relative
// to the working directory.
func ParseObj(src string) (*Obj, error) {
	return ParseCursor(NewCursor(src))
}

// ParseObjFile parses the document at path. Includes are resolved relative
// to the directory of the including file.
func ParseObjFile(path string) (*Obj, error) {
	c, err := NewFileCursor(path)
	if err != nil {
		return nil, err
	}
	return ParseCursor(c)
}

// ParseCursor parses a document from an existing cursor. Each call owns its
// own global scopes and include memo, so concurrent calls never interfere.
func ParseCursor(c *Cursor) (*Obj, error) {
	state := newParseState()
	if c.File() != "" {
		if canon, err := pkg.CanonicalPath(c.File()); err == nil {
			state.chain = append(state.chain, canon)
		}
	}
	p := &parser{c: c, state: state}
	return p.parseDocument(0)
}

// =========================
// Parser Implementation
// =========================

type parser struct {
	c     *Cursor
	state *parseState
}

// scope holds the globals declared in one container. Lookups walk outward.
type scope struct {
	globals map[string]Value
	outer   *scope
}

func newScope(outer *scope) *scope {
	return &scope{globals: make(map[string]Value), outer: outer}
}

func (s *scope) lookup(name string) (Value, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if v, ok := cur.globals[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// fieldScope resolves bare variable names.
type fieldScope interface {
	lookupField(name string) (Value, bool)
}

// objBuilder accumulates the fields of the Obj under construction. Variable
// references see only the fields declared so far.
type objBuilder struct {
	pairs  []Pair
	index  map[string]int
	parent *Obj
}

func newObjBuilder() *objBuilder {
	return &objBuilder{index: make(map[string]int)}
}

func (b *objBuilder) lookupField(name string) (Value, bool) {
	if name == "^" {
		if b.parent == nil {
			return Value{}, false
		}
		return FromObj(b.parent), true
	}
	i, ok := b.index[name]
	if !ok {
		return Value{}, false
	}
	return b.pairs[i].Value, true
}

func (b *objBuilder) add(field string, v Value) {
	b.index[field] = len(b.pairs)
	b.pairs = append(b.pairs, Pair{Field: field, Value: v})
}

func (b *objBuilder) build() *Obj { return NewObjUnchecked(b.pairs, b.parent) }

func (o *Obj) lookupField(name string) (Value, bool) {
	if name == "^" {
		if o.parent == nil {
			return Value{}, false
		}
		return FromObj(o.parent), true
	}
	return o.own(name)
}

func (p *parser) errf(kind ErrorKind, line, col int, format string, args ...any) error {
	return &Error{
		Kind:   kind,
		Msg:    fmt.Sprintf(format, args...),
		File:   p.c.File(),
		Line:   line,
		Column: col,
	}
}

func (p *parser) errAt(err error, line, col int) error {
	return at(err, p.c.File(), line, col)
}

func (p *parser) unexpectedEnd() error {
	return p.errf(ErrUnexpectedEnd, p.c.Line(), p.c.Column(), "unexpected end")
}

func (p *parser) invalidValueChar(r rune, line, col int) error {
	return p.errf(ErrInvalidValueChar, line, col, "invalid character %s for value", quoteRune(r))
}

func (p *parser) invalidClosingBracket(expected, found rune, line, col int) error {
	want := "none"
	if expected != 0 {
		want = quoteRune(expected)
	}
	return p.errf(ErrInvalidClosingBracket, line, col, "invalid closing bracket %s; expected %s", quoteRune(found), want)
}

// parseDocument parses bare field/value pairs up to the end of input.
func (p *parser) parseDocument(depth int) (*Obj, error) {
	b := newObjBuilder()
	if !p.c.SkipSpace() {
		return b.build(), nil
	}
	sc := newScope(nil)
	for {
		more, err := p.parseFieldValue(b, sc, depth, 0)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	return b.build(), nil
}

// parseObj parses '{' (field ':' value)* '}'.
func (p *parser) parseObj(sc *scope, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, p.maxDepth()
	}
	p.c.Next() // consume {

	if !p.c.SkipSpace() {
		return Value{}, p.unexpectedEnd()
	}

	b := newObjBuilder()
	inner := newScope(sc)
	for {
		more, err := p.parseFieldValue(b, inner, depth, '}')
		if err != nil {
			return Value{}, err
		}
		if !more {
			break
		}
	}
	return FromObj(b.build()), nil
}

func (p *parser) maxDepth() error {
	return p.errf(ErrMaxDepth, p.c.Line(), p.c.Column(), "exceeded maximum recursion depth (%d)", MaxDepth)
}

type fieldKind uint8

const (
	fieldRegular fieldKind = iota
	fieldGlobal
	fieldParent
)

// parseFieldValue parses one pair into b. It returns false once the
// enclosing container (or the document) is finished.
func (p *parser) parseFieldValue(b *objBuilder, sc *scope, depth int, brace rune) (bool, error) {
	r, _ := p.c.Peek()
	if r == '}' && brace == '}' {
		p.c.Next()
		return false, nil
	}
	if isEndDelimiter(r) {
		return false, p.invalidClosingBracket(brace, r, p.c.Line(), p.c.Column())
	}

	fieldLine, fieldCol := p.c.Line(), p.c.Column()
	field, kind, err := p.parseField()
	if err != nil {
		return false, err
	}

	switch kind {
	case fieldRegular:
		if _, dup := b.index[field]; dup {
			return false, p.errf(ErrDuplicateField, fieldLine, fieldCol, "duplicate field %q", field)
		}
	case fieldParent:
		if b.parent != nil {
			return false, p.errf(ErrDuplicateField, fieldLine, fieldCol, "duplicate field %q", "^")
		}
	case fieldGlobal:
		if _, dup := sc.globals[field]; dup {
			return false, p.errf(ErrDuplicateGlobal, fieldLine, fieldCol, "duplicate global %q", "@"+field)
		}
	}

	if !p.c.SkipSpace() {
		return false, p.unexpectedEnd()
	}

	valueLine, valueCol := p.c.Line(), p.c.Column()
	v, err := p.parseValue(b, sc, depth, brace)
	if err != nil {
		return false, err
	}

	switch kind {
	case fieldGlobal:
		sc.globals[field] = v
	case fieldParent:
		parent, err := v.AsObj()
		if err != nil {
			return false, p.errAt(err, valueLine, valueCol)
		}
		b.parent = parent
	default:
		b.add(field, v)
	}

	if !p.c.SkipSpace() {
		if brace != 0 {
			return false, p.unexpectedEnd()
		}
		return false, nil
	}
	return true, nil
}

// parseField reads a field name up to and including its ':'.
func (p *parser) parseField() (string, fieldKind, error) {
	line, col := p.c.Line(), p.c.Column()
	kind := fieldRegular
	if r, _ := p.c.Peek(); r == '@' {
		p.c.Next()
		kind = fieldGlobal
	}

	var sb strings.Builder
	first := true
	for {
		rl, rc := p.c.Line(), p.c.Column()
		r, ok := p.c.Next()
		if !ok {
			return "", 0, p.unexpectedEnd()
		}
		if r == ':' && !first {
			break
		}
		if !isFieldRune(r, first) {
			return "", 0, p.errf(ErrInvalidFieldChar, rl, rc, "invalid character %s for field", quoteRune(r))
		}
		sb.WriteRune(r)
		first = false
	}

	field := sb.String()
	shown := field
	if kind == fieldGlobal {
		shown = "@" + field
	}
	switch {
	case reservedFields[field]:
		return "", 0, p.errf(ErrInvalidFieldName, line, col, "invalid field name %q", shown)
	case field == "^" && kind == fieldRegular:
		return field, fieldParent, nil
	case strings.HasPrefix(field, "^"):
		return "", 0, p.errf(ErrInvalidFieldName, line, col, "invalid field name %q", shown)
	}
	return field, kind, nil
}

// parseValue parses a full value: an operand followed by any number of
// operator/operand pairs, then checks that the value is properly terminated.
func (p *parser) parseValue(b fieldScope, sc *scope, depth int, brace rune) (Value, error) {
	line, col := p.c.Line(), p.c.Column()
	v, err := p.parseOperand(b, sc, depth, brace)
	if err != nil {
		return Value{}, err
	}
	return p.parseExpr(v, line, col, b, sc, depth, brace)
}

// parseOperand parses a single value with no trailing binary operators.
func (p *parser) parseOperand(b fieldScope, sc *scope, depth int, brace rune) (Value, error) {
	line, col := p.c.Line(), p.c.Column()
	r, ok := p.c.Peek()
	if !ok {
		return Value{}, p.unexpectedEnd()
	}

	switch {
	case r == '"':
		return p.parseStr()
	case r == '\'':
		return p.parseChar()
	case r == '{':
		return p.parseObj(sc, depth+1)
	case r == '[':
		return p.parseArr(b, sc, depth+1)
	case r == '(':
		return p.parseTup(b, sc, depth+1)
	case r == '<':
		return p.parseInclude(b, sc, depth+1)
	case r == '+' || r == '-':
		return p.parseUnary(b, sc, depth, brace)
	case isDigit(r) || r == '.':
		return p.parseNumeric(line, col)
	case r == '@' || isFieldRune(r, true):
		return p.parseVariable(b, sc, depth, brace)
	}
	return Value{}, p.invalidValueChar(r, line, col)
}

type operand struct {
	v         Value
	line, col int
}

// parseExpr consumes (operator, operand) pairs after first. '*', '/' and '%'
// are reduced immediately against the latest operand; '+' and '-' are queued
// and reduced left to right once the expression has ended.
func (p *parser) parseExpr(first Value, line, col int, b fieldScope, sc *scope, depth int, brace rune) (Value, error) {
	vals := []operand{{first, line, col}}
	var ops []rune

	for {
		op, ok := p.c.Peek()
		if !ok || !isOperator(op) {
			break
		}
		p.c.Next()
		if p.c.AtEnd() {
			return Value{}, p.unexpectedEnd()
		}

		l2, c2 := p.c.Line(), p.c.Column()
		v2, err := p.parseOperand(b, sc, depth, brace)
		if err != nil {
			return Value{}, err
		}

		if isPriorityOperator(op) {
			last := &vals[len(vals)-1]
			res, err := binaryOp(last.v, v2, op)
			if err != nil {
				return Value{}, p.errAt(err, l2, c2)
			}
			last.v = res
		} else {
			vals = append(vals, operand{v2, l2, c2})
			ops = append(ops, op)
		}
	}

	if err := p.checkValueEnd(brace); err != nil {
		return Value{}, err
	}

	acc := vals[0].v
	for i, op := range ops {
		next := vals[i+1]
		res, err := binaryOp(acc, next.v, op)
		if err != nil {
			return Value{}, p.errAt(err, next.line, next.col)
		}
		acc = res
	}
	return acc, nil
}

// checkValueEnd makes sure a value is followed by whitespace, a comment,
// the matching closing delimiter, or the end of input.
func (p *parser) checkValueEnd(brace rune) error {
	r, ok := p.c.Peek()
	if !ok {
		return nil
	}
	if !isValueEnd(r) {
		return p.invalidValueChar(r, p.c.Line(), p.c.Column())
	}
	if isEndDelimiter(r) && r != brace {
		return p.invalidClosingBracket(brace, r, p.c.Line(), p.c.Column())
	}
	return nil
}

// parseArr parses '[' value* ']', unifying element types as it goes.
func (p *parser) parseArr(b fieldScope, sc *scope, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, p.maxDepth()
	}
	p.c.Next() // consume [

	var values []Value
	u := arrUnifier{t: TypeAny, hasAny: true}
	for {
		if !p.c.SkipSpace() {
			return Value{}, p.unexpectedEnd()
		}
		r, _ := p.c.Peek()
		if r == ']' {
			p.c.Next()
			break
		}
		if isEndDelimiter(r) {
			return Value{}, p.invalidClosingBracket(']', r, p.c.Line(), p.c.Column())
		}

		line, col := p.c.Line(), p.c.Column()
		v, err := p.parseValue(b, sc, depth, ']')
		if err != nil {
			return Value{}, err
		}
		if err := u.add(v.Type()); err != nil {
			return Value{}, p.errAt(err, line, col)
		}
		values = append(values, v)
	}
	return FromArr(&Arr{values: values, elem: u.t}), nil
}

// parseTup parses '(' value* ')'.
func (p *parser) parseTup(b fieldScope, sc *scope, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, p.maxDepth()
	}
	p.c.Next() // consume (

	var values []Value
	for {
		if !p.c.SkipSpace() {
			return Value{}, p.unexpectedEnd()
		}
		r, _ := p.c.Peek()
		if r == ')' {
			p.c.Next()
			break
		}
		if isEndDelimiter(r) {
			return Value{}, p.invalidClosingBracket(')', r, p.c.Line(), p.c.Column())
		}

		v, err := p.parseValue(b, sc, depth, ')')
		if err != nil {
			return Value{}, err
		}
		values = append(values, v)
	}
	return FromTup(NewTup(values...)), nil
}

// parseArrDocument reads an included Arr file: bare values up to the end.
func (p *parser) parseArrDocument(depth int) (*Arr, error) {
	b := newObjBuilder()
	sc := newScope(nil)
	var values []Value
	u := arrUnifier{t: TypeAny, hasAny: true}
	for p.c.SkipSpace() {
		line, col := p.c.Line(), p.c.Column()
		v, err := p.parseValue(b, sc, depth, 0)
		if err != nil {
			return nil, err
		}
		if err := u.add(v.Type()); err != nil {
			return nil, p.errAt(err, line, col)
		}
		values = append(values, v)
	}
	return &Arr{values: values, elem: u.t}, nil
}

// parseTupDocument reads an included Tup file: bare values up to the end.
func (p *parser) parseTupDocument(depth int) (*Tup, error) {
	b := newObjBuilder()
	sc := newScope(nil)
	var values []Value
	for p.c.SkipSpace() {
		v, err := p.parseValue(b, sc, depth, 0)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return NewTup(values...), nil
}

func (p *parser) parseUnary(b fieldScope, sc *scope, depth int, brace rune) (Value, error) {
	op, _ := p.c.Next()
	line, col := p.c.Line(), p.c.Column()
	if p.c.AtEnd() {
		return Value{}, p.unexpectedEnd()
	}

	v, err := p.parseOperand(b, sc, depth+1, brace)
	if err != nil {
		return Value{}, err
	}
	res, err := unaryOp(v, op)
	if err != nil {
		return Value{}, p.errAt(err, line, col)
	}
	return res, nil
}

// parseNumeric reads an Int, or a Frac when a '.' or ',' is present.
// Single '_' separators are allowed between digits.
func (p *parser) parseNumeric(line, col int) (Value, error) {
	var whole, decimal strings.Builder
	dec := false
	under := false

	for {
		r, ok := p.c.Peek()
		if !ok {
			break
		}
		if r == ',' {
			// A comma is a decimal mark only between digits; otherwise it
			// separates values.
			if next, ok := p.c.peekSecond(); dec || !ok || !isDigit(next) {
				break
			}
		} else if isValueEnd(r) {
			break
		}
		switch {
		case isDigit(r):
			if dec {
				decimal.WriteRune(r)
			} else {
				whole.WriteRune(r)
			}
		case r == '.' || r == ',':
			if dec {
				return Value{}, p.invalidValueChar(r, p.c.Line(), p.c.Column())
			}
			dec = true
		case r == '_':
			if under {
				return Value{}, p.invalidValueChar(r, p.c.Line(), p.c.Column())
			}
		default:
			return Value{}, p.invalidValueChar(r, p.c.Line(), p.c.Column())
		}
		under = r == '_'
		p.c.Next()
	}

	if !dec {
		if whole.Len() == 0 {
			return Value{}, p.errf(ErrInvalidNumeric, line, col, "invalid numeric value")
		}
		n, ok := new(big.Int).SetString(whole.String(), 10)
		if !ok {
			return Value{}, p.errf(ErrNumeric, line, col, "cannot parse %q as an integer", whole.String())
		}
		return intOwned(n), nil
	}

	if whole.Len() == 0 && decimal.Len() == 0 {
		return Value{}, p.errf(ErrInvalidNumeric, line, col, "invalid numeric value")
	}
	f, err := fracFromDecimal(whole.String(), decimal.String())
	if err != nil {
		return Value{}, p.errf(ErrNumeric, line, col, "%v", err)
	}
	return fracOwned(f), nil
}

// fracFromDecimal computes whole + decimal/10^len(decimal), ignoring
// trailing zeros in decimal.
func fracFromDecimal(whole, decimal string) (*big.Rat, error) {
	w := new(big.Int)
	if whole != "" {
		if _, ok := w.SetString(whole, 10); !ok {
			return nil, fmt.Errorf("cannot parse %q as an integer", whole)
		}
	}
	res := new(big.Rat).SetInt(w)

	decimal = strings.TrimRight(decimal, "0")
	if decimal == "" {
		return res, nil
	}
	d, ok := new(big.Int).SetString(decimal, 10)
	if !ok {
		return nil, fmt.Errorf("cannot parse %q as an integer", decimal)
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(len(decimal))), nil)
	return res.Add(res, new(big.Rat).SetFrac(d, denom)), nil
}

// readName reads a variable name, optionally '@'-prefixed. dot reports
// whether the name was followed by '.', which has been consumed.
func (p *parser) readName() (name string, global, dot bool, err error) {
	if r, _ := p.c.Peek(); r == '@' {
		p.c.Next()
		global = true
	}

	var sb strings.Builder
	for {
		r, ok := p.c.Peek()
		if !ok {
			break
		}
		if r == '.' {
			p.c.Next()
			next, ok := p.c.Peek()
			if !ok {
				return "", false, false, p.unexpectedEnd()
			}
			if next != '@' && !isFieldRune(next, true) && !isDigit(next) {
				return "", false, false, p.invalidValueChar(next, p.c.Line(), p.c.Column())
			}
			dot = true
			break
		}
		if isValueEnd(r) {
			break
		}
		if sb.Len() == 0 && r == '^' && !global {
			p.c.Next()
			sb.WriteRune(r)
			continue
		}
		if !isFieldRune(r, false) || r == '^' || strings.HasPrefix(sb.String(), "^") {
			return "", false, false, p.invalidValueChar(r, p.c.Line(), p.c.Column())
		}
		p.c.Next()
		sb.WriteRune(r)
	}
	return sb.String(), global, dot, nil
}

// parseVariable resolves a name against the fields declared so far, or the
// globals in scope for '@' names, then follows any dot chain.
func (p *parser) parseVariable(b fieldScope, sc *scope, depth int, brace rune) (Value, error) {
	line, col := p.c.Line(), p.c.Column()
	name, global, dot, err := p.readName()
	if err != nil {
		return Value{}, err
	}
	v, err := p.resolveVariable(name, global, b, sc, line, col)
	if err != nil {
		return Value{}, err
	}
	if dot {
		return p.parseDot(v, b, sc, depth, brace, line, col)
	}
	return v, nil
}

func (p *parser) resolveVariable(name string, global bool, b fieldScope, sc *scope, line, col int) (Value, error) {
	if global {
		if name == "" {
			return Value{}, p.errf(ErrInvalidValue, line, col, "invalid value %q", "@")
		}
		v, ok := sc.lookup(name)
		if !ok {
			return Value{}, p.errf(ErrGlobalNotFound, line, col, "global %q could not be found", "@"+name)
		}
		return v, nil
	}

	switch name {
	case "null":
		return Null(), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "Obj", "Str", "Arr", "Tup":
		return Value{}, p.errf(ErrInvalidValue, line, col, "invalid value %q outside of an include", name)
	}
	v, ok := b.lookupField(name)
	if !ok {
		return Value{}, p.errf(ErrVariableNotFound, line, col, "variable %q could not be found", name)
	}
	return v, nil
}

// parseDot indexes into v after a consumed '.'. Arr and Tup take an Int
// index (a digit run or a variable); Obj takes a field name looked up in
// that Obj's own fields.
func (p *parser) parseDot(v Value, b fieldScope, sc *scope, depth int, brace rune, line, col int) (Value, error) {
	il, ic := p.c.Line(), p.c.Column()

	switch v.Kind() {
	case KindArr, KindTup:
		var idx *big.Int
		numeric := false
		if r, _ := p.c.Peek(); isDigit(r) {
			numeric = true
			idx = p.readDigits()
		} else {
			iv, err := p.parseOperand(b, sc, depth+1, brace)
			if err != nil {
				return Value{}, err
			}
			if iv.Kind() != KindInt {
				return Value{}, p.errAt(typeMismatch(TypeInt, iv.Type()), il, ic)
			}
			idx = iv.i
		}

		if !idx.IsInt64() || idx.Sign() < 0 || idx.Int64() > int64(^uint(0)>>1) {
			return Value{}, p.errf(ErrInvalidIndex, il, ic, "invalid index %s", idx)
		}
		var elem Value
		var err error
		if v.Kind() == KindArr {
			elem, err = v.arr.Get(int(idx.Int64()))
		} else {
			elem, err = v.tup.Get(int(idx.Int64()))
		}
		if err != nil {
			return Value{}, p.errAt(err, il, ic)
		}

		if r, _ := p.c.Peek(); numeric && r == '.' {
			p.c.Next()
			next, ok := p.c.Peek()
			if !ok {
				return Value{}, p.unexpectedEnd()
			}
			if next != '@' && !isFieldRune(next, true) && !isDigit(next) {
				return Value{}, p.invalidValueChar(next, p.c.Line(), p.c.Column())
			}
			return p.parseDot(elem, b, sc, depth+1, brace, il, ic)
		}
		return elem, nil

	case KindObj:
		if r, _ := p.c.Peek(); r == '@' {
			return Value{}, p.invalidValueChar(r, il, ic)
		}
		name, _, dot, err := p.readName()
		if err != nil {
			return Value{}, err
		}
		field, ok := v.obj.lookupField(name)
		if !ok {
			return Value{}, p.errf(ErrVariableNotFound, il, ic, "variable %q could not be found", name)
		}
		if dot {
			return p.parseDot(field, b, sc, depth+1, brace, il, ic)
		}
		return field, nil
	}

	return Value{}, p.errf(ErrInvalidDot, line, col,
		"invalid use of dot notation on value of type %s; value must be an Obj, Arr, or Tup", v.Type())
}

func (p *parser) readDigits() *big.Int {
	var sb strings.Builder
	for {
		r, ok := p.c.Peek()
		if !ok || !isDigit(r) {
			break
		}
		p.c.Next()
		sb.WriteRune(r)
	}
	n, _ := new(big.Int).SetString(sb.String(), 10)
	return n
}

// parseStr reads a double-quoted string. Raw "\r\n" line endings are
// stored as "\n".
func (p *parser) parseStr() (Value, error) {
	p.c.Next() // consume "

	var sb strings.Builder
	for {
		r, ok := p.c.Next()
		if !ok {
			return Value{}, p.unexpectedEnd()
		}
		switch r {
		case '"':
			return Str(sb.String()), nil
		case '\\':
			el, ec := p.c.Line(), p.c.Column()
			e, ok := p.c.Next()
			if !ok {
				return Value{}, p.unexpectedEnd()
			}
			esc, ok := escapeChar(e)
			if !ok {
				return Value{}, p.errf(ErrInvalidEscapeChar, el, ec,
					"invalid escape character '\\%c'; if you meant to write a backslash, use '\\\\'", e)
			}
			sb.WriteRune(esc)
		case '\r':
			if next, _ := p.c.Peek(); next == '\n' {
				continue
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
}

// parseChar reads a single-quoted character literal into a one-rune Str.
func (p *parser) parseChar() (Value, error) {
	p.c.Next() // consume '

	line, col := p.c.Line(), p.c.Column()
	r, ok := p.c.Next()
	if !ok {
		return Value{}, p.unexpectedEnd()
	}
	switch r {
	case '\n', '\r', '\t':
		return Value{}, p.invalidValueChar(r, line, col)
	case '\\':
		el, ec := p.c.Line(), p.c.Column()
		e, ok := p.c.Next()
		if !ok {
			return Value{}, p.unexpectedEnd()
		}
		esc, ok := escapeChar(e)
		if !ok {
			return Value{}, p.errf(ErrInvalidEscapeChar, el, ec,
				"invalid escape character '\\%c'; if you meant to write a backslash, use '\\\\'", e)
		}
		r = esc
	}

	cl, cc := p.c.Line(), p.c.Column()
	closing, ok := p.c.Next()
	if !ok {
		return Value{}, p.unexpectedEnd()
	}
	if closing != '\'' {
		return Value{}, p.invalidValueChar(closing, cl, cc)
	}
	return Str(string(r)), nil
}

// =========================
// Utilities
// =========================

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isOperator(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%':
		return true
	}
	return false
}

func isPriorityOperator(r rune) bool { return r == '*' || r == '/' || r == '%' }

func isEndDelimiter(r rune) bool {
	switch r {
	case ')', ']', '}', '>':
		return true
	}
	return false
}

// isValueEnd reports whether r may legally follow a value.
func isValueEnd(r rune) bool {
	return unicode.IsSpace(r) || r == '#' || r == ',' || isEndDelimiter(r) || isOperator(r)
}

func escapeChar(r rune) (rune, bool) {
	switch r {
	case '"', '\'', '\\', '$':
		return r, true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	}
	return 0, false
}
