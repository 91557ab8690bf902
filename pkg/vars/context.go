package vars

import "sort"

// Context is the merged template context. It is built once and treated as
// read-only afterwards; Merge is the only mutator and is meant for loaders.
type Context struct {
	values map[string]any
}

// NewContext returns an empty context.
func NewContext() Context {
	return Context{values: make(map[string]any)}
}

// ContextFrom copies the supplied map into a new context.
func ContextFrom(values map[string]any) Context {
	ctx := NewContext()
	ctx.Merge(values)
	return ctx
}

// Merge overwrites top-level keys with the supplied values. Nested values are
// replaced wholesale, never combined.
func (c *Context) Merge(values map[string]any) {
	if c.values == nil {
		c.values = make(map[string]any, len(values))
	}
	for key, value := range values {
		c.values[key] = value
	}
}

// Get returns the value stored under key.
func (c Context) Get(key string) (any, bool) {
	value, ok := c.values[key]
	return value, ok
}

// Len reports the number of top-level keys.
func (c Context) Len() int {
	return len(c.values)
}

// Keys returns the top-level keys in sorted order.
func (c Context) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for key := range c.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Map exposes the underlying mapping for template engines. Callers must not
// mutate it.
func (c Context) Map() map[string]any {
	if c.values == nil {
		return map[string]any{}
	}
	return c.values
}
