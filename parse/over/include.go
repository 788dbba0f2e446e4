package over

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/m-cat/over/pkg"
)

type includeKind uint8

const (
	includeObj includeKind = iota
	includeStr
	includeArr
	includeTup
)

var includeKinds = map[string]includeKind{
	"Obj": includeObj,
	"Str": includeStr,
	"Arr": includeArr,
	"Tup": includeTup,
}

type includeKey struct {
	path string
	kind includeKind
}

// parseState is shared by a top-level parse and every file it includes.
type parseState struct {
	// memo maps a canonical path and kind to the value it produced, so a
	// file included twice yields the same handle.
	memo map[includeKey]Value
	// chain holds the canonical paths currently being parsed.
	chain []string
}

func newParseState() *parseState {
	return &parseState{memo: make(map[includeKey]Value)}
}

// parseInclude parses '<' [Obj|Str|Arr|Tup] path '>'. The path is an
// ordinary expression that must produce a Str.
func (p *parser) parseInclude(b fieldScope, sc *scope, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, p.maxDepth()
	}
	p.c.Next() // consume <

	if !p.c.SkipSpace() {
		return Value{}, p.unexpectedEnd()
	}

	kind := includeObj
	tokenLine, tokenCol := p.c.Line(), p.c.Column()
	var first Value
	haveToken := false

	if r, _ := p.c.Peek(); r == '@' || (isFieldRune(r, true) && r != '^') {
		name, global, dot, err := p.readName()
		if err != nil {
			return Value{}, err
		}
		if k, ok := includeKinds[name]; ok && !global && !dot {
			kind, haveToken = k, true
		} else {
			v, err := p.resolveVariable(name, global, b, sc, tokenLine, tokenCol)
			if err != nil {
				return Value{}, err
			}
			if dot {
				if v, err = p.parseDot(v, b, sc, depth, '>', tokenLine, tokenCol); err != nil {
					return Value{}, err
				}
			}
			if first, err = p.parseExpr(v, tokenLine, tokenCol, b, sc, depth, '>'); err != nil {
				return Value{}, err
			}
		}
	} else {
		v, err := p.parseValue(b, sc, depth, '>')
		if err != nil {
			return Value{}, err
		}
		first = v
	}

	pathLine, pathCol := tokenLine, tokenCol
	pathVal := first
	if haveToken {
		if !p.c.SkipSpace() {
			return Value{}, p.unexpectedEnd()
		}
		pathLine, pathCol = p.c.Line(), p.c.Column()
		v, err := p.parseValue(b, sc, depth, '>')
		if err != nil {
			return Value{}, err
		}
		pathVal = v
	} else if first.Kind() != KindStr {
		return Value{}, p.errf(ErrInvalidIncludeToken, tokenLine, tokenCol,
			"invalid include token of type %s; expected Obj, Str, Arr or Tup", first.Type())
	}

	if !p.c.SkipSpace() {
		return Value{}, p.unexpectedEnd()
	}
	cl, cc := p.c.Line(), p.c.Column()
	if r, _ := p.c.Next(); r != '>' {
		return Value{}, p.invalidClosingBracket('>', r, cl, cc)
	}

	path, err := pathVal.AsStr()
	if err != nil {
		return Value{}, p.errAt(err, pathLine, pathCol)
	}
	return p.include(path, kind, depth, pathLine, pathCol)
}

// include resolves path against the including file's directory and parses
// it as kind. Results are memoized per parse.
func (p *parser) include(path string, kind includeKind, depth, line, col int) (Value, error) {
	full := path
	if !filepath.IsAbs(path) && p.c.File() != "" {
		full = filepath.Join(filepath.Dir(p.c.File()), path)
	}
	if !pkg.IsRegularFile(full) {
		return Value{}, p.errf(ErrInvalidIncludePath, line, col, "invalid include path %q", path)
	}
	canon, err := pkg.CanonicalPath(full)
	if err != nil {
		return Value{}, p.errf(ErrInvalidIncludePath, line, col, "invalid include path %q", path)
	}

	if slices.Contains(p.state.chain, canon) {
		return Value{}, p.errf(ErrCyclicInclude, line, col, "tried to cyclically include file %q", path)
	}
	key := includeKey{path: canon, kind: kind}
	if v, ok := p.state.memo[key]; ok {
		return v, nil
	}

	p.state.chain = append(p.state.chain, canon)
	defer func() { p.state.chain = p.state.chain[:len(p.state.chain)-1] }()

	var v Value
	if kind == includeStr {
		contents, err := pkg.ReadFileString(full)
		if err != nil {
			return Value{}, p.errAt(err, line, col)
		}
		v = Str(strings.ReplaceAll(contents, "\r\n", "\n"))
	} else {
		c, err := NewFileCursor(full)
		if err != nil {
			return Value{}, p.errAt(err, line, col)
		}
		child := &parser{c: c, state: p.state}
		switch kind {
		case includeArr:
			arr, err := child.parseArrDocument(depth)
			if err != nil {
				return Value{}, err
			}
			v = FromArr(arr)
		case includeTup:
			tup, err := child.parseTupDocument(depth)
			if err != nil {
				return Value{}, err
			}
			v = FromTup(tup)
		default:
			obj, err := child.parseDocument(depth)
			if err != nil {
				return Value{}, err
			}
			v = FromObj(obj)
		}
	}

	p.state.memo[key] = v
	return v, nil
}
