package over

import (
	"math/big"
	"strings"
)

// formatValue renders v so that parsing the text yields an equal value.
// indent is the column nested elements are written at.
func formatValue(v Value, indent int) string {
	switch v.Kind() {
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return v.i.String()
	case KindFrac:
		return formatFrac(v.f)
	case KindStr:
		return formatStr(v.s)
	case KindArr:
		return formatArr(v.arr, true, indent)
	case KindTup:
		return formatTup(v.tup, true, indent)
	case KindObj:
		return formatObj(v.obj, true, indent)
	}
	return "null"
}

// formatFrac writes n/d, or n.0 for whole numbers so the value reads back
// as a Frac.
func formatFrac(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String() + ".0"
	}
	return r.Num().String() + "/" + r.Denom().String()
}

func formatStr(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\', '"', '\'', '$':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func formatArr(a *Arr, full bool, indent int) string {
	return formatSeq("[", "]", len(a.values), func(i, ind int) string {
		return formatValue(a.values[i], ind)
	}, full, indent)
}

func formatTup(t *Tup, full bool, indent int) string {
	return formatSeq("(", ")", len(t.values), func(i, ind int) string {
		return formatValue(t.values[i], ind)
	}, full, indent)
}

// formatObj renders an Obj. A parent is written first as a "^:" pair. With
// full unset the braces are dropped and every pair ends its own line, which
// is the top-level document layout.
func formatObj(o *Obj, full bool, indent int) string {
	n := len(o.pairs)
	offset := 0
	if o.parent != nil {
		n++
		offset = 1
	}
	item := func(i, ind int) string {
		if i < offset {
			return "^: " + formatObj(o.parent, true, ind)
		}
		p := o.pairs[i-offset]
		return p.Field + ": " + formatValue(p.Value, ind)
	}

	if !full {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteString(spaces(indent))
			sb.WriteString(item(i, indent+IndentStep))
			sb.WriteByte('\n')
		}
		return sb.String()
	}
	return formatSeq("{", "}", n, item, full, indent)
}

// formatSeq lays out a container. Empty containers render as the bare
// brackets, single elements stay inline, and anything longer gets one
// element per line.
func formatSeq(open, closing string, n int, item func(i, indent int) string, full bool, indent int) string {
	switch n {
	case 0:
		if full {
			return open + closing
		}
		return ""
	case 1:
		if full {
			return open + item(0, indent) + closing
		}
		return item(0, indent)
	}

	var sb strings.Builder
	if full {
		sb.WriteString(open)
		sb.WriteByte('\n')
	}
	for i := 0; i < n; i++ {
		sb.WriteString(spaces(indent))
		sb.WriteString(item(i, indent+IndentStep))
		sb.WriteByte('\n')
	}
	if full {
		sb.WriteString(spaces(indent - IndentStep))
		sb.WriteString(closing)
	}
	return sb.String()
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
