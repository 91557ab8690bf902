package template

import (
	"strings"
)

// TemplateRenderer is the engine seam the chapter renderer relies on. The
// pongo2-backed implementation lives in the pongo subpackage.
type TemplateRenderer interface {
	RenderString(content string, data map[string]any) (string, error)
	GlobalContext(data map[string]any) error
}

// IsTemplateContent reports whether s contains engine syntax: a variable, a
// tag, or a closed comment. A lone `{#` is not enough, since markdown
// attribute blocks such as `{#anchor}` use it too.
func IsTemplateContent(s string) bool {
	if strings.Contains(s, "{{") || strings.Contains(s, "{%") {
		return true
	}
	open := strings.Index(s, "{#")
	return open >= 0 && strings.Contains(s[open+2:], "#}")
}
