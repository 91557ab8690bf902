// Package guard shields `${{ ... }}` spans (GitHub Actions style expressions
// that often appear in documentation) from the template engine. Markdown
// attribute blocks such as `## Title {#anchor}` are shielded too, since the
// engine would read `{#` as a comment opener. Protect swaps each span for a
// positional placeholder; Restore puts the literals back after rendering.
//
// Placeholders look like __PROTECTED_PATTERN_<n>__. Text that already contains
// such a token, or a data value that renders to one, will be rewritten by
// Restore. That collision is a known limitation.
package guard

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	placeholderPrefix = "__PROTECTED_PATTERN_"
	placeholderSuffix = "__"
	exprOpen          = "${{"
	attrOpen          = "{#"
)

var (
	// Expressions, then `{#...}` attribute blocks whose last character before
	// the closing brace is not `#` (so `{# comment #}` stays engine syntax).
	patternRE     = regexp.MustCompile(`\$\{\{.*?\}\}|\{#[^}\n]*[^#}\n]\}`)
	placeholderRE = regexp.MustCompile(`__PROTECTED_PATTERN_(\d+)__`)
)

// Guarded is the result of Protect: text safe to hand to the engine plus the
// captured literals, indexed by placeholder number.
type Guarded struct {
	Text     string
	Captures []string
}

// Protected reports whether any span was captured.
func (g Guarded) Protected() bool {
	return len(g.Captures) > 0
}

// Placeholder returns the token that stands in for capture index.
func Placeholder(index int) string {
	return placeholderPrefix + strconv.Itoa(index) + placeholderSuffix
}

// Protect replaces every `${{ ... }}` span and every `{#...}` attribute block,
// left to right and non-overlapping, with a placeholder. Captures share one
// index sequence. An expression closes at the first `}}` after it opens; no
// span crosses a line break.
func Protect(text string) Guarded {
	if !strings.Contains(text, exprOpen) && !strings.Contains(text, attrOpen) {
		return Guarded{Text: text}
	}

	var captures []string
	guarded := patternRE.ReplaceAllStringFunc(text, func(match string) string {
		captures = append(captures, match)
		return Placeholder(len(captures) - 1)
	})
	return Guarded{Text: guarded, Captures: captures}
}

// Restore replaces placeholders in rendered with the captured literals. It
// runs in a single pass so restored text is never scanned again. Placeholders
// whose index has no capture are left untouched.
func Restore(rendered string, captures []string) string {
	if len(captures) == 0 || !strings.Contains(rendered, placeholderPrefix) {
		return rendered
	}

	return placeholderRE.ReplaceAllStringFunc(rendered, func(token string) string {
		digits := token[len(placeholderPrefix) : len(token)-len(placeholderSuffix)]
		index, err := strconv.Atoi(digits)
		if err != nil || index < 0 || index >= len(captures) {
			return token
		}
		return captures[index]
	})
}
