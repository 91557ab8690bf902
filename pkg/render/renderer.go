package render

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-mdtemplate/pkg/guard"
	"github.com/goliatone/go-mdtemplate/pkg/render/template"
	"github.com/goliatone/go-mdtemplate/pkg/render/template/pongo"
	"github.com/goliatone/go-mdtemplate/pkg/vars"
)

// Renderer expands a document's content against a fixed template context.
// It is built once per run after the context is loaded.
type Renderer struct {
	engine template.TemplateRenderer
}

// Option customises the Renderer.
type Option func(*options)

type options struct {
	engine   template.TemplateRenderer
	baseDir  string
	includes fs.FS
}

// WithEngine injects a template engine. The renderer seeds it with the context
// through GlobalContext.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(o *options) {
		o.engine = engine
	}
}

// WithIncludeDir lets the default engine resolve `{% include %}` paths against
// dir.
func WithIncludeDir(dir string) Option {
	return func(o *options) {
		o.baseDir = dir
	}
}

// WithIncludeFS makes the default engine resolve `{% include %}` paths inside
// files instead of on disk.
func WithIncludeFS(files fs.FS) Option {
	return func(o *options) {
		o.includes = files
	}
}

// New builds a Renderer bound to ctx. Without WithEngine a pongo2 engine is
// created.
func New(ctx vars.Context, opts ...Option) (*Renderer, error) {
	cfg := options{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	engine := cfg.engine
	if engine == nil {
		created, err := pongo.New(pongo.WithBaseDir(cfg.baseDir), pongo.WithFS(cfg.includes))
		if err != nil {
			return nil, fmt.Errorf("render: create engine: %w", err)
		}
		engine = created
	}
	if err := engine.GlobalContext(ctx.Map()); err != nil {
		return nil, fmt.Errorf("render: seed context: %w", err)
	}
	return &Renderer{engine: engine}, nil
}

// Render runs guard, engine, and restore over content. Content with no engine
// syntax outside guarded spans is returned untouched. On failure the returned error
// is a *RenderError naming the document and the returned string is empty.
func (r *Renderer) Render(name, content string) (string, error) {
	if r == nil || r.engine == nil {
		return "", &RenderError{Document: name, Err: errors.New("renderer is not initialised")}
	}

	guarded := guard.Protect(content)
	if !template.IsTemplateContent(guarded.Text) {
		return content, nil
	}

	rendered, err := r.engine.RenderString(guarded.Text, nil)
	if err != nil {
		return "", &RenderError{Document: name, Err: err}
	}
	return guard.Restore(rendered, guarded.Captures), nil
}

// NeedsRender reports whether content would go through the engine once its
// guarded spans are set aside.
func NeedsRender(content string) bool {
	return template.IsTemplateContent(guard.Protect(content).Text)
}
