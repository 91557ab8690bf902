// Package pongo adapts github.com/flosch/pongo2/v6 to the
// template.TemplateRenderer contract.
//
// Autoescaping stays on, so `{{ value }}` HTML-escapes its output. Use the
// `safe` filter for trusted markup or `sanitize` for markup coming from data
// files. Numbers are expected to arrive as int64 or json.Number so they print
// as written rather than in pongo2's fixed six-decimal float format; booleans
// print as `true`/`false`. `{% include %}` resolves against the base dir or
// fs.FS given at construction.
package pongo
