// Package render expands one document at a time: `${{ ... }}` spans are
// guarded, the rest goes through the template engine with the merged context,
// and the guarded spans are restored. Failures come back as *RenderError so
// callers can keep going.
package render
