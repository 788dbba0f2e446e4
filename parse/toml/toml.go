package toml

// toml 包把 TOML 文档读入一个保持键顺序的 AST，再由 ToObj 转换为 *over.Obj，
// 作为 OVER 的导入格式。
//
// 范围：
// - TOML v1.0.0 核心功能
// - 显式 AST（表 / 数组 / 值），表中的键保持源文件顺序
// - 安全的点分键处理
// - 表扩展语义，包括对表数组最后一个元素的扩展
// - 带行列位置的确定性错误
//
// 非目标：
// - 注释保留
// - TOML 输出

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// =========================
// AST Definitions
// =========================

type ValueKind string

var tomlValueKinds = struct {
	ValueString        ValueKind
	ValueInt           ValueKind
	ValueFloat         ValueKind
	ValueBool          ValueKind
	ValueDatetime      ValueKind
	ValueLocalDate     ValueKind
	ValueLocalTime     ValueKind
	ValueLocalDatetime ValueKind
	ValueTable         ValueKind
	ValueArray         ValueKind
}{
	ValueString:        "string",
	ValueInt:           "int",
	ValueFloat:         "float",
	ValueBool:          "bool",
	ValueDatetime:      "datetime",
	ValueLocalDate:     "local_date",
	ValueLocalTime:     "local_time",
	ValueLocalDatetime: "local_datetime",
	ValueTable:         "table",
	ValueArray:         "array",
}

type Node interface {
	Kind() ValueKind
	Value() any
}

// -------- Table --------

// Entry is one key of a Table with the line it was defined on.
type Entry struct {
	Key  string
	Node Node
	Line int
}

// Table keeps its entries in the order they first appear in the source.
type Table struct {
	Entries []Entry
	index   map[string]int
}

func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

func (*Table) Kind() ValueKind { return tomlValueKinds.ValueTable }

func (*Table) Value() any { return nil }

func (t *Table) Len() int { return len(t.Entries) }

func (t *Table) Lookup(key string) (Node, bool) {
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return t.Entries[i].Node, true
}

func (t *Table) Keys() []string {
	keys := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		keys[i] = e.Key
	}
	return keys
}

func (t *Table) set(key string, n Node, line int) {
	t.index[key] = len(t.Entries)
	t.Entries = append(t.Entries, Entry{Key: key, Node: n, Line: line})
}

// -------- Array --------

type Array struct {
	Elems []Node
}

func (v *Array) Kind() ValueKind { return tomlValueKinds.ValueArray }

func (v *Array) Value() any { return v.Elems }

// -------- Value --------

// Value is a scalar. Text holds the literal as written, with digit
// separators removed, for every kind except strings and bools.
type Value struct {
	Type ValueKind
	V    any
	Text string
}

func (v *Value) Kind() ValueKind { return v.Type }

func (v *Value) Value() any { return v.V }

// =========================
// Errors
// =========================

// ParseError locates a failure. Column is the first non-blank byte of the
// statement being parsed.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("toml:%d:%d: %s", e.Line, e.Column, e.Msg)
}

// =========================
// Public API
// =========================

// Parse parses TOML input from r and returns a root Table.
func Parse(r io.Reader) (*Table, error) {
	p := &parser{
		scanner: bufio.NewScanner(r),
		root:    NewTable(),
	}
	p.cur = p.root

	for p.scanner.Scan() {
		raw := p.scanner.Text()
		line := strings.TrimSpace(raw)
		p.lineNo++
		p.col = len(raw) - len(strings.TrimLeft(raw, " \t")) + 1

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "["):
			if err := p.parseTableHeader(line); err != nil {
				return nil, err
			}
		default:
			idx := findUnquoted(line, '=')
			if idx < 0 {
				return nil, p.errf("invalid syntax")
			}
			if err := p.parseKeyValue(line, idx); err != nil {
				return nil, err
			}
		}
	}

	if err := p.scanner.Err(); err != nil {
		return nil, err
	}

	return p.root, nil
}

// =========================
// Parser Implementation
// =========================

type parser struct {
	scanner *bufio.Scanner
	root    *Table
	cur     *Table
	lineNo  int
	col     int
}

func (p *parser) parseTableHeader(line string) error {
	s := strings.TrimSpace(stripComment(line))
	isArray := strings.HasPrefix(s, "[[")
	var name string
	switch {
	case isArray && strings.HasSuffix(s, "]]") && len(s) >= 4:
		name = s[2 : len(s)-2]
	case isArray:
		return p.errf("invalid array-of-table header")
	case strings.HasSuffix(s, "]"):
		name = s[1 : len(s)-1]
	default:
		return p.errf("invalid table header")
	}
	parts, err := parseKeyParts(strings.TrimSpace(name))
	if err != nil {
		return p.errf(err.Error())
	}
	if len(parts) == 0 {
		return p.errf("empty table name")
	}

	if !isArray {
		t, err := p.descend(p.root, parts)
		if err != nil {
			return err
		}
		p.cur = t
		return nil
	}

	parent, err := p.descend(p.root, parts[:len(parts)-1])
	if err != nil {
		return err
	}
	last := parts[len(parts)-1]
	var arr *Array
	if existing, ok := parent.Lookup(last); ok {
		if arr, ok = existing.(*Array); !ok {
			return p.errf(fmt.Sprintf("key %q already defined and is not an array", last))
		}
	} else {
		arr = &Array{}
		parent.set(last, arr, p.lineNo)
	}
	next := NewTable()
	arr.Elems = append(arr.Elems, next)
	p.cur = next
	return nil
}

func (p *parser) parseKeyValue(line string, idx int) error {
	parts, err := parseKeyParts(strings.TrimSpace(line[:idx]))
	if err != nil {
		return p.errf(err.Error())
	}
	if len(parts) == 0 {
		return p.errf("empty key")
	}

	t, err := p.descend(p.cur, parts[:len(parts)-1])
	if err != nil {
		return err
	}
	last := parts[len(parts)-1]
	if _, exists := t.Lookup(last); exists {
		return p.errf(fmt.Sprintf("duplicate key %q", last))
	}

	defLine := p.lineNo
	fullVal, err := p.consumeValue(strings.TrimSpace(line[idx+1:]))
	if err != nil {
		return p.errf(err.Error())
	}
	v, err := parseValue(fullVal)
	if err != nil {
		return p.errf(err.Error())
	}

	t.set(last, v, defLine)
	return nil
}

// descend walks parts from t, creating missing tables. A part naming an
// array of tables continues into its last element.
func (p *parser) descend(t *Table, parts []string) (*Table, error) {
	next, err := descendTable(t, parts, p.lineNo)
	if err != nil {
		return nil, p.errf(err.Error())
	}
	return next, nil
}

func descendTable(t *Table, parts []string, line int) (*Table, error) {
	for _, part := range parts {
		n, ok := t.Lookup(part)
		if !ok {
			next := NewTable()
			t.set(part, next, line)
			t = next
			continue
		}
		switch v := n.(type) {
		case *Table:
			t = v
		case *Array:
			last, ok := lastTable(v)
			if !ok {
				return nil, fmt.Errorf("key %q already defined and is not a table", part)
			}
			t = last
		default:
			return nil, fmt.Errorf("key %q already defined and is not a table", part)
		}
	}
	return t, nil
}

func lastTable(a *Array) (*Table, bool) {
	if len(a.Elems) == 0 {
		return nil, false
	}
	t, ok := a.Elems[len(a.Elems)-1].(*Table)
	return t, ok
}

func (p *parser) errf(msg string) error {
	return &ParseError{Line: p.lineNo, Column: p.col, Msg: msg}
}

// consumeValue reads continuation lines until a multiline string or a
// bracketed value is closed.
func (p *parser) consumeValue(initial string) (string, error) {
	trimmed := strings.TrimSpace(stripComment(initial))
	if trimmed == "" {
		return "", errors.New("empty value")
	}

	for _, delim := range []string{`"""`, `'''`} {
		if !strings.HasPrefix(trimmed, delim) || strings.Contains(trimmed[3:], delim) {
			continue
		}
		var b strings.Builder
		b.WriteString(initial)
		for {
			if !p.scanner.Scan() {
				return "", errors.New("unterminated multiline string")
			}
			line := p.scanner.Text()
			p.lineNo++
			b.WriteByte('\n')
			b.WriteString(line)
			if strings.Contains(line, delim) {
				return b.String(), nil
			}
		}
	}

	if trimmed[0] != '[' && trimmed[0] != '{' {
		return initial, nil
	}
	var q quoteScanner
	depth := bracketDepth(&q, initial, 0)
	var b strings.Builder
	b.WriteString(initial)
	for depth > 0 {
		if !p.scanner.Scan() {
			return "", errors.New("unterminated compound value")
		}
		line := p.scanner.Text()
		p.lineNo++
		b.WriteByte('\n')
		b.WriteString(line)
		depth = bracketDepth(&q, line, depth)
	}
	return b.String(), nil
}

// =========================
// Value Parsing
// =========================

func parseValue(s string) (Node, error) {
	s = strings.TrimSpace(stripComment(s))
	if s == "" {
		return nil, errors.New("empty value")
	}

	switch {
	case strings.HasPrefix(s, `"""`):
		content, ok := extractTripleQuoted(s, `"""`)
		if !ok {
			return nil, errors.New("unterminated multiline string")
		}
		return basicString(content, true)
	case strings.HasPrefix(s, `'''`):
		content, ok := extractTripleQuoted(s, `'''`)
		if !ok {
			return nil, errors.New("unterminated multiline literal string")
		}
		return stringValue(content), nil
	case strings.HasPrefix(s, `"`):
		content, ok := extractSingleQuoted(s, '"')
		if !ok {
			return nil, errors.New("unterminated string")
		}
		return basicString(content, false)
	case strings.HasPrefix(s, `'`):
		content, ok := extractSingleQuoted(s, '\'')
		if !ok {
			return nil, errors.New("unterminated literal string")
		}
		return stringValue(content), nil
	case strings.HasPrefix(s, "["):
		return parseArrayToken(s)
	case strings.HasPrefix(s, "{"):
		return parseInlineTableToken(s)
	case s == "true" || s == "false":
		return &Value{Type: tomlValueKinds.ValueBool, V: s == "true"}, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &Value{Type: tomlValueKinds.ValueDatetime, V: t, Text: s}, nil
	}
	if t, ok := parseLocalDateTimeVariants(s); ok {
		return t, nil
	}
	if i, err := parseIntToken(s); err == nil {
		return &Value{Type: tomlValueKinds.ValueInt, V: i, Text: strings.ReplaceAll(s, "_", "")}, nil
	}
	if f, err := parseFloatToken(s); err == nil {
		return &Value{Type: tomlValueKinds.ValueFloat, V: f, Text: strings.ReplaceAll(s, "_", "")}, nil
	}
	return nil, fmt.Errorf("unsupported value %q", s)
}

func stringValue(s string) *Value {
	return &Value{Type: tomlValueKinds.ValueString, V: s}
}

func basicString(content string, multiline bool) (Node, error) {
	decoded, err := decodeBasicString(content, multiline)
	if err != nil {
		return nil, err
	}
	return stringValue(decoded), nil
}

func parseArrayToken(s string) (*Array, error) {
	content := strings.TrimSpace(stripComment(s))
	if !strings.HasSuffix(content, "]") {
		return nil, errors.New("invalid array")
	}
	parts := splitTopLevel(content[1:len(content)-1], ',')
	arr := &Array{Elems: make([]Node, 0, len(parts))}
	for _, part := range parts {
		v, err := parseValue(part)
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, v)
	}
	return arr, nil
}

func parseInlineTableToken(s string) (*Table, error) {
	content := strings.TrimSpace(stripComment(s))
	if !strings.HasSuffix(content, "}") {
		return nil, errors.New("invalid inline table")
	}
	t := NewTable()
	for _, pair := range splitTopLevel(content[1:len(content)-1], ',') {
		idx := findUnquoted(pair, '=')
		if idx < 0 {
			return nil, errors.New("invalid inline table kv")
		}
		parts, err := parseKeyParts(strings.TrimSpace(pair[:idx]))
		if err != nil {
			return nil, err
		}
		if len(parts) == 0 {
			return nil, errors.New("empty key")
		}
		cur, err := descendTable(t, parts[:len(parts)-1], 0)
		if err != nil {
			return nil, err
		}
		last := parts[len(parts)-1]
		if _, exists := cur.Lookup(last); exists {
			return nil, errors.New("duplicate inline table key")
		}
		v, err := parseValue(pair[idx+1:])
		if err != nil {
			return nil, err
		}
		cur.set(last, v, 0)
	}
	return t, nil
}

func parseLocalDateTimeVariants(s string) (Node, bool) {
	layouts := []struct {
		kind   ValueKind
		layout string
	}{
		{tomlValueKinds.ValueLocalDatetime, "2006-01-02T15:04:05.999999999"},
		{tomlValueKinds.ValueLocalDatetime, "2006-01-02 15:04:05.999999999"},
		{tomlValueKinds.ValueLocalDate, "2006-01-02"},
		{tomlValueKinds.ValueLocalTime, "15:04:05.999999999"},
	}
	for _, l := range layouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return &Value{Type: l.kind, V: t, Text: s}, true
		}
	}
	return nil, false
}

var intBases = []struct {
	prefix string
	base   int
}{
	{"0x", 16},
	{"0o", 8},
	{"0b", 2},
}

func parseIntToken(s string) (int64, error) {
	s = strings.ReplaceAll(s, "_", "")
	sign := int64(1)
	digits := s
	switch {
	case strings.HasPrefix(digits, "-"):
		sign, digits = -1, digits[1:]
	case strings.HasPrefix(digits, "+"):
		digits = digits[1:]
	}
	for _, b := range intBases {
		if strings.HasPrefix(digits, b.prefix) {
			v, err := strconv.ParseUint(digits[len(b.prefix):], b.base, 63)
			if err != nil {
				return 0, err
			}
			return int64(v) * sign, nil
		}
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseFloatToken(s string) (float64, error) {
	switch {
	case s == "inf" || s == "+inf":
		return math.Inf(+1), nil
	case s == "-inf":
		return math.Inf(-1), nil
	case strings.EqualFold(strings.TrimLeft(s, "+-"), "nan"):
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
}

// =========================
// Safe Access Helpers
// =========================

func Get(root *Table, path ...string) (Node, bool) {
	var cur Node = root
	for _, p := range path {
		if len(p) == 0 {
			continue
		}
		t, ok := cur.(*Table)
		if !ok {
			return nil, false
		}
		cur, ok = t.Lookup(p)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func GetUntyped(root *Table, path ...string) (any, bool) {
	n, ok := Get(root, path...)
	if !ok {
		return nil, false
	}
	return ToUntyped(n), true
}

func ToUntyped(n Node) any {
	switch v := n.(type) {
	case *Value:
		return v.V
	case *Array:
		out := make([]any, len(v.Elems))
		for i := range v.Elems {
			out[i] = ToUntyped(v.Elems[i])
		}
		return out
	case *Table:
		m := make(map[string]any, len(v.Entries))
		for _, e := range v.Entries {
			m[e.Key] = ToUntyped(e.Node)
		}
		return m
	default:
		return nil
	}
}

func MustString(n Node) string {
	v := n.(*Value)
	return v.V.(string)
}

func MustInt(n Node) int64 {
	v := n.(*Value)
	return v.V.(int64)
}
