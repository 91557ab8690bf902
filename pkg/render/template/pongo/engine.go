package pongo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-mdtemplate/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	name     string
	baseDir  string
	includes fs.FS
}

// WithName labels the underlying template set; it shows up in engine errors.
func WithName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// WithBaseDir resolves `{% include %}` paths relative to dir on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS resolves `{% include %}` paths inside files. It takes precedence
// over the base dir.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.includes = files
	}
}

// Engine satisfies template.TemplateRenderer using a pongo2 template set.
type Engine struct {
	mu  sync.RWMutex
	set *pongo2.TemplateSet
}

var _ template.TemplateRenderer = (*Engine)(nil)

// identifierRE matches the context keys pongo2 accepts.
var identifierRE = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// New constructs an Engine. Without a base dir or fs.FS, includes resolve
// against the working directory.
func New(options ...Option) (*Engine, error) {
	cfg := &config{name: "mdtemplate"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var loader pongo2.TemplateLoader
	if cfg.includes != nil {
		loader = pongo2.NewFSLoader(cfg.includes)
	} else {
		local, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("pongo: create local loader: %w", err)
		}
		loader = local
	}

	registerDefaultFilters()
	return &Engine{set: pongo2.NewSet(cfg.name, loader)}, nil
}

// RenderString parses content and executes it against data merged over the
// global context. Parse and execution errors are both returned; no partial
// output is produced.
func (e *Engine) RenderString(content string, data map[string]any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("pongo: engine is nil")
	}

	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("pongo: parse template string: %w", err)
	}

	view, err := convertContext(data)
	if err != nil {
		return "", fmt.Errorf("pongo: convert data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(view, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("pongo: execute template string: %w", err)
	}
	return buf.String(), nil
}

// GlobalContext seeds data available to every render. Top-level keys that
// are not valid pongo2 identifiers are dropped, since pongo2 rejects the whole
// context otherwise.
func (e *Engine) GlobalContext(data map[string]any) error {
	if e == nil || e.set == nil {
		return errors.New("pongo: engine is nil")
	}
	if len(data) == 0 {
		return nil
	}

	globals, err := convertContext(data)
	if err != nil {
		return fmt.Errorf("pongo: convert global context: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals.Update(globals)
	return nil
}

func convertContext(in map[string]any) (pongo2.Context, error) {
	out := make(pongo2.Context, len(in))
	for key, value := range in {
		if !identifierRE.MatchString(key) {
			continue
		}
		converted, err := convertValue(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out[key] = converted
	}
	return out, nil
}

// convertValue prepares a data value for pongo2. Booleans are wrapped so they
// print as JSON literals.
func convertValue(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, int, int64, float64, json.Number, jsonBool:
		return v, nil
	case bool:
		return jsonBool(v), nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			converted, err := convertValue(item)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			converted, err := convertValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var decoded any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&decoded); err != nil {
			return nil, err
		}
		return convertValue(decoded)
	}
}

// jsonBool keeps bool semantics for `{% if %}` while printing true/false
// instead of pongo2's True/False.
type jsonBool bool

func (b jsonBool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (b jsonBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}
