package vars

import (
	"path/filepath"
	"strings"
)

// Source identifies where a data file lives so loaders can read from disk or
// an fs.FS without leaking implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
)

// Format describes how a source's bytes are decoded.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path. The path may be a
// glob pattern; loaders expand it before reading.
func SourceFromFile(path string) Source {
	return fileSource{path: path}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a file inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// SourcesFromPaths maps configured path strings to file sources, preserving
// order.
func SourcesFromPaths(paths []string) []Source {
	out := make([]Source, 0, len(paths))
	for _, p := range paths {
		out = append(out, SourceFromFile(p))
	}
	return out
}

// FormatFor picks the decoder for a location by extension. Anything that is
// not YAML is treated as JSON.
func FormatFor(location string) Format {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// IsPattern reports whether a location contains glob meta characters. Loaders
// still prefer a file that exists under the literal name.
func IsPattern(location string) bool {
	return strings.ContainsAny(location, "*?[{")
}
