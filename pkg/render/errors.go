package render

import (
	"errors"
	"fmt"
)

// RenderError records a document whose template failed to parse or execute.
// It is recoverable: the run keeps the document's previous content and moves
// on to the next one.
type RenderError struct {
	Document string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error in %s: %v", e.Document, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsRenderError reports whether err carries a *RenderError.
func IsRenderError(err error) bool {
	var target *RenderError
	return errors.As(err, &target)
}
