package orchestrator

import "github.com/goliatone/go-mdtemplate/pkg/render"

// Report summarises the rendering phase of one run.
type Report struct {
	// Rendered counts chapters whose content went through the engine.
	Rendered int
	// Unchanged counts chapters with no template syntax.
	Unchanged int
	// Errors holds one entry per chapter that failed to render, in visit
	// order. Those chapters keep their original content.
	Errors []*render.RenderError
}

// Failed reports whether any chapter failed to render.
func (r Report) Failed() bool {
	return len(r.Errors) > 0
}
