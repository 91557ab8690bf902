package loader

import (
	"errors"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/goliatone/go-mdtemplate/pkg/vars"
)

var errNoMatches = errors.New("pattern matched no files")

func loadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("file path is required")
	}
	return os.ReadFile(path)
}

// loadFileGlob expands a pattern (with ** support) and reads every match in
// lexical order.
func loadFileGlob(pattern string) ([]sourceFile, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, &vars.LoadError{Path: pattern, Phase: vars.PhaseRead, Err: err}
	}
	if len(matches) == 0 {
		return nil, &vars.LoadError{Path: pattern, Phase: vars.PhaseRead, Err: errNoMatches}
	}
	sort.Strings(matches)

	out := make([]sourceFile, 0, len(matches))
	for _, match := range matches {
		data, err := loadFile(match)
		if err != nil {
			return nil, &vars.LoadError{Path: match, Phase: vars.PhaseRead, Err: err}
		}
		out = append(out, sourceFile{location: match, data: data})
	}
	return out, nil
}
