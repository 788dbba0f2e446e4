package over

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the package can report.
type ErrorKind uint8

const (
	ErrInvalidFieldChar ErrorKind = iota + 1
	ErrInvalidFieldName
	ErrInvalidValueChar
	ErrInvalidValue
	ErrInvalidEscapeChar
	ErrInvalidNumeric
	ErrInvalidClosingBracket
	ErrInvalidDot
	ErrInvalidIndex
	ErrInvalidIncludeToken
	ErrInvalidIncludePath
	ErrCyclicInclude
	ErrDuplicateField
	ErrDuplicateGlobal
	ErrVariableNotFound
	ErrGlobalNotFound
	ErrTypeMismatch
	ErrArrTypeMismatch
	ErrArrOutOfBounds
	ErrTupOutOfBounds
	ErrUnaryOperator
	ErrBinaryOperator
	ErrDivideByZero
	ErrMaxDepth
	ErrUnexpectedEnd
	ErrFieldNotFound
	ErrNoParentFound
	ErrCyclicParent
	ErrIO
	ErrNumeric
)

var errorKindNames = map[ErrorKind]string{
	ErrInvalidFieldChar:      "invalid field character",
	ErrInvalidFieldName:      "invalid field name",
	ErrInvalidValueChar:      "invalid value character",
	ErrInvalidValue:          "invalid value",
	ErrInvalidEscapeChar:     "invalid escape character",
	ErrInvalidNumeric:        "invalid numeric",
	ErrInvalidClosingBracket: "invalid closing bracket",
	ErrInvalidDot:            "invalid dot",
	ErrInvalidIndex:          "invalid index",
	ErrInvalidIncludeToken:   "invalid include token",
	ErrInvalidIncludePath:    "invalid include path",
	ErrCyclicInclude:         "cyclic include",
	ErrDuplicateField:        "duplicate field",
	ErrDuplicateGlobal:       "duplicate global",
	ErrVariableNotFound:      "variable not found",
	ErrGlobalNotFound:        "global not found",
	ErrTypeMismatch:          "type mismatch",
	ErrArrTypeMismatch:       "arr type mismatch",
	ErrArrOutOfBounds:        "arr out of bounds",
	ErrTupOutOfBounds:        "tup out of bounds",
	ErrUnaryOperator:         "unary operator error",
	ErrBinaryOperator:        "binary operator error",
	ErrDivideByZero:          "divide by zero",
	ErrMaxDepth:              "max depth",
	ErrUnexpectedEnd:         "unexpected end",
	ErrFieldNotFound:         "field not found",
	ErrNoParentFound:         "no parent found",
	ErrCyclicParent:          "cyclic parent",
	ErrIO:                    "io error",
	ErrNumeric:               "numeric error",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error is the single error type returned by this package.
//
// Errors produced while parsing always carry a line and column, and the
// originating file when the source was a file. Errors from the programmatic
// container API have Line == 0.
type Error struct {
	Kind   ErrorKind
	Msg    string
	File   string
	Line   int
	Column int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	switch {
	case e.Line == 0 && e.File == "":
		return msg
	case e.Line == 0:
		return fmt.Sprintf("%s: %s", e.File, msg)
	case e.File == "":
		return fmt.Sprintf("over:%d:%d: %s", e.Line, e.Column, msg)
	case e.Column == 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, msg)
	default:
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, msg)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) ErrorKind {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return 0
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// at attaches a source position to a positionless error. Errors that already
// carry a position are returned unchanged.
func at(err error, file string, line, col int) error {
	var oe *Error
	if !errors.As(err, &oe) {
		return &Error{Kind: ErrIO, File: file, Line: line, Column: col, Err: err}
	}
	if oe.Line != 0 {
		return err
	}
	cp := *oe
	cp.File, cp.Line, cp.Column = file, line, col
	return &cp
}

func fieldNotFound(field string) *Error {
	return newError(ErrFieldNotFound, "field not found: %q", field)
}

func typeMismatch(expected, found Type) *Error {
	return newError(ErrTypeMismatch, "type mismatch: expected %s, found %s", expected, found)
}

// quoteRune renders a rune the way error messages show it, escaping
// control characters.
func quoteRune(r rune) string {
	switch r {
	case '\n':
		return `'\n'`
	case '\r':
		return `'\r'`
	case '\t':
		return `'\t'`
	}
	return "'" + string(r) + "'"
}
