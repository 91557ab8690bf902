package pongo

import (
	"encoding/json"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	registerOnce sync.Once
	ugcPolicy    = bluemonday.UGCPolicy()
)

// registerDefaultFilters installs the filters chapters can rely on. pongo2
// keeps filters in a process-wide table, hence the once.
func registerDefaultFilters() {
	registerOnce.Do(func() {
		defaults := map[string]pongo2.FilterFunction{
			"trim":       filterTrim,
			"lowerfirst": filterLowerFirst,
			"sanitize":   filterSanitize,
			"tojson":     filterToJSON,
		}
		for name, fn := range defaults {
			if !pongo2.FilterExists(name) {
				_ = pongo2.RegisterFilter(name, fn)
			}
		}
	})
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	t := in.String()

	idx := strings.IndexFunc(t, func(r rune) bool {
		return !strings.ContainsRune(" \t\n\r", r)
	})
	if idx < 0 {
		return pongo2.AsValue(t), nil
	}
	first, size := utf8.DecodeRuneInString(t[idx:])
	return pongo2.AsValue(t[:idx] + strings.ToLower(string(first)) + t[idx+size:]), nil
}

// filterSanitize strips unsafe HTML from data values and marks the result safe
// so autoescaping does not mangle the markup that survived.
func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsSafeValue(""), nil
	}
	return pongo2.AsSafeValue(ugcPolicy.Sanitize(in.String())), nil
}

func filterToJSON(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	payload, err := json.Marshal(in.Interface())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:tojson", OrigError: err}
	}
	return pongo2.AsSafeValue(string(payload)), nil
}
