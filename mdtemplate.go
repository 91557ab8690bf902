// Package mdtemplate renders mdBook chapters through a template engine using
// variables merged from JSON (or YAML) data files. The sub-packages hold the
// pieces; this package exposes the common entry points.
package mdtemplate

import (
	"context"
	"io"

	internalLoader "github.com/goliatone/go-mdtemplate/internal/vars/loader"
	"github.com/goliatone/go-mdtemplate/pkg/orchestrator"
	"github.com/goliatone/go-mdtemplate/pkg/preprocess"
	"github.com/goliatone/go-mdtemplate/pkg/render"
	"github.com/goliatone/go-mdtemplate/pkg/vars"
)

// Report aliases orchestrator.Report for callers that only import the root
// package.
type Report = orchestrator.Report

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewLoader constructs a context loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...vars.LoaderOption) vars.Loader {
	return internalLoader.New(vars.NewLoaderOptions(options...))
}

// Preprocess performs one mdBook exchange: it reads `[context, book]` from r
// and writes the processed book to w. Nothing is written when configuration or
// context loading fails.
func Preprocess(ctx context.Context, r io.Reader, w io.Writer, options ...orchestrator.Option) error {
	return preprocess.Handle(ctx, orchestrator.New(options...), r, w)
}

// RenderString loads sources and renders a single document. Unlike a book run,
// a render failure is returned as an error (a *render.RenderError).
func RenderString(ctx context.Context, name, content string, sources []vars.Source, options ...vars.LoaderOption) (string, error) {
	values, err := NewLoader(options...).Load(ctx, sources...)
	if err != nil {
		return "", err
	}
	renderer, err := render.New(values, render.WithIncludeDir(vars.NewLoaderOptions(options...).BaseDir))
	if err != nil {
		return "", err
	}
	return renderer.Render(name, content)
}
