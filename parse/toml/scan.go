package toml

import (
	"errors"
	"strconv"
	"strings"
)

// =========================
// String-Aware Scanning
// =========================

// quoteScanner tracks whether a position is inside a TOML string. The state
// carries over between calls so a value can be scanned line by line.
type quoteScanner struct {
	delim string
}

// step consumes the token at s[i] and reports its width and whether it
// belongs to a string, quotes included.
func (q *quoteScanner) step(s string, i int) (int, bool) {
	rest := s[i:]
	if q.delim == "" {
		for _, d := range []string{`"""`, `'''`, `"`, `'`} {
			if strings.HasPrefix(rest, d) {
				q.delim = d
				return len(d), true
			}
		}
		return 1, false
	}
	if q.delim[0] == '"' && rest[0] == '\\' {
		return min(2, len(rest)), true
	}
	if strings.HasPrefix(rest, q.delim) {
		n := len(q.delim)
		q.delim = ""
		return n, true
	}
	return 1, true
}

// scan calls fn with every byte outside strings until fn returns false.
func (q *quoteScanner) scan(s string, fn func(i int, ch byte) bool) {
	for i := 0; i < len(s); {
		n, quoted := q.step(s, i)
		if !quoted && !fn(i, s[i]) {
			return
		}
		i += n
	}
}

func findUnquoted(s string, target byte) int {
	var q quoteScanner
	idx := -1
	q.scan(s, func(i int, ch byte) bool {
		if ch == target {
			idx = i
			return false
		}
		return true
	})
	return idx
}

// stripComment drops every comment in s and keeps the line breaks.
func stripComment(s string) string {
	var b strings.Builder
	var q quoteScanner
	comment := false
	for i := 0; i < len(s); {
		if comment {
			if s[i] == '\n' {
				comment = false
				b.WriteByte('\n')
			}
			i++
			continue
		}
		n, quoted := q.step(s, i)
		if !quoted && s[i] == '#' {
			comment = true
			i++
			continue
		}
		b.WriteString(s[i : i+n])
		i += n
	}
	return b.String()
}

// bracketDepth adds the bracket balance of line to depth. Comments end the
// line.
func bracketDepth(q *quoteScanner, line string, depth int) int {
	q.scan(line, func(_ int, ch byte) bool {
		switch ch {
		case '#':
			return false
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		}
		return true
	})
	return depth
}

// splitTopLevel splits s at sep outside strings and brackets. Blank parts,
// such as the one after a trailing comma, are dropped.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	var q quoteScanner
	depth, start := 0, 0
	add := func(part string) {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	q.scan(s, func(i int, ch byte) bool {
		switch {
		case ch == '[' || ch == '{':
			depth++
		case ch == ']' || ch == '}':
			depth--
		case ch == sep && depth == 0:
			add(s[start:i])
			start = i + 1
		}
		return true
	})
	add(s[start:])
	return parts
}

// =========================
// Keys and Strings
// =========================

func parseKeyParts(s string) ([]string, error) {
	var parts []string
	var cur strings.Builder
	quoted := false
	flush := func() {
		part := cur.String()
		if !quoted {
			part = strings.TrimSpace(part)
		}
		if part != "" || quoted {
			parts = append(parts, part)
		}
		cur.Reset()
		quoted = false
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '"' || ch == '\'':
			if strings.TrimSpace(cur.String()) != "" {
				return nil, errors.New("invalid quoted key position")
			}
			end := strings.IndexByte(s[i+1:], ch)
			if ch == '"' {
				end = closingQuote(s[i+1:])
			}
			if end < 0 {
				return nil, errors.New("unterminated quoted key")
			}
			raw := s[i+1 : i+1+end]
			if ch == '"' {
				decoded, err := decodeBasicString(raw, false)
				if err != nil {
					return nil, err
				}
				raw = decoded
			}
			cur.Reset()
			cur.WriteString(raw)
			quoted = true
			i += end + 1
		case ch == '.':
			flush()
		case quoted && ch != ' ' && ch != '\t':
			return nil, errors.New("invalid quoted key position")
		case !quoted:
			cur.WriteByte(ch)
		}
	}
	flush()
	return parts, nil
}

// closingQuote finds the unescaped '"' ending a basic string body.
func closingQuote(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func extractTripleQuoted(s, delim string) (string, bool) {
	if len(s) < 6 || !strings.HasPrefix(s, delim) {
		return "", false
	}
	idx := strings.Index(s[3:], delim)
	if idx < 0 {
		return "", false
	}
	return strings.TrimPrefix(s[3:3+idx], "\n"), true
}

func extractSingleQuoted(s string, quote byte) (string, bool) {
	if len(s) < 2 || s[0] != quote || s[len(s)-1] != quote {
		return "", false
	}
	return s[1 : len(s)-1], true
}

var basicEscapes = map[byte]byte{
	'b':  '\b',
	't':  '\t',
	'n':  '\n',
	'f':  '\f',
	'r':  '\r',
	'"':  '"',
	'\\': '\\',
}

func decodeBasicString(s string, multiline bool) (string, error) {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' {
			out.WriteByte(ch)
			continue
		}
		if i+1 >= len(s) {
			return "", errors.New("invalid escape")
		}
		i++
		if multiline && (s[i] == '\n' || s[i] == ' ' || s[i] == '\t' || s[i] == '\r') {
			// line-ending backslash trims the following whitespace
			rest := strings.TrimLeft(s[i:], " \t\r\n")
			i = len(s) - len(rest) - 1
			continue
		}
		if esc, ok := basicEscapes[s[i]]; ok {
			out.WriteByte(esc)
			continue
		}
		width := 0
		switch s[i] {
		case 'u':
			width = 4
		case 'U':
			width = 8
		default:
			return "", errors.New("unsupported escape")
		}
		if i+width >= len(s) {
			return "", errors.New("invalid unicode escape")
		}
		r, err := parseHexRune(s[i+1 : i+1+width])
		if err != nil {
			return "", err
		}
		out.WriteRune(r)
		i += width
	}
	return out.String(), nil
}

func parseHexRune(h string) (rune, error) {
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, err
	}
	return rune(v), nil
}
