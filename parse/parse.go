package parse

// Package parse is the entry point for loading configuration documents.
//
// Documents are read as OVER (.over, or no extension), YAML (.yaml, .yml)
// or TOML (.toml) and always come back as an *over.Obj, so callers query
// and render them the same way regardless of the source format. TOML is
// import only.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/m-cat/over/parse/over"
	"github.com/m-cat/over/parse/toml"
	"github.com/m-cat/over/pkg"
)

// =========================
// Formats
// =========================

type Format uint8

const (
	FormatOver Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "over"
	}
}

// ParseFormat maps a format name as given on the command line.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "over":
		return FormatOver, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("parse: unknown format %q", name)
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".over":
		return FormatOver, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("parse: unsupported file extension %q", ext)
	}
}

// =========================
// Public API
// =========================

// LoadFile reads the document at path in the format its extension names.
// OVER files resolve includes relative to their own directory.
func LoadFile(path string) (*over.Obj, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatOver {
		return over.ParseObjFile(path)
	}

	contents, err := pkg.ReadFileString(path)
	if err != nil {
		return nil, err
	}
	obj, err := decode([]byte(contents), format)
	if err != nil {
		return nil, withFile(err, path)
	}
	return obj, nil
}

// Load reads a whole document from r.
func Load(r io.Reader, format Format) (*over.Obj, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decode(data, format)
}

func decode(data []byte, format Format) (*over.Obj, error) {
	switch format {
	case FormatYAML:
		return over.FromYAML(data)
	case FormatTOML:
		return toml.ParseObj(bytes.NewReader(data))
	default:
		return over.ParseObj(string(data))
	}
}

// withFile replaces the format placeholder in a positioned error with path.
func withFile(err error, path string) error {
	var oe *over.Error
	if !errors.As(err, &oe) {
		return err
	}
	cp := *oe
	cp.File = path
	return &cp
}

// Render writes o in the given format.
func Render(o *over.Obj, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return over.ToYAML(o)
	case FormatTOML:
		return nil, fmt.Errorf("parse: %s output is not supported", format)
	default:
		return []byte(o.WriteString()), nil
	}
}

// RenderValue writes a single value. Objs render as whole documents; other
// values use their inline OVER form in either format.
func RenderValue(v over.Value, format Format) ([]byte, error) {
	if format == FormatTOML {
		return Render(nil, format)
	}
	if o, err := v.AsObj(); err == nil {
		return Render(o, format)
	}
	return []byte(v.String() + "\n"), nil
}

// =========================
// Safe Access Helpers
// =========================

// Find follows a dotted path such as "server.tls.cert". Missing fields fall
// through to parents the way Obj.Get does. An empty path returns o itself.
func Find(o *over.Obj, path string) (over.Value, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return over.FromObj(o), nil
	}
	return o.GetPath(splitKey(path)...)
}

func splitKey(s string) []string {
	parts := strings.Split(s, ".")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
