package loader

import (
	"errors"
	"io/fs"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/goliatone/go-mdtemplate/pkg/vars"
)

func loadFromFS(files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("fs path is required")
	}
	if files == nil {
		return nil, errors.New("fs is nil")
	}
	return fs.ReadFile(files, name)
}

func loadFSGlob(files fs.FS, pattern string) ([]sourceFile, error) {
	if files == nil {
		return nil, &vars.LoadError{Path: pattern, Phase: vars.PhaseRead, Err: errors.New("fs is nil")}
	}
	matches, err := doublestar.Glob(files, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, &vars.LoadError{Path: pattern, Phase: vars.PhaseRead, Err: err}
	}
	if len(matches) == 0 {
		return nil, &vars.LoadError{Path: pattern, Phase: vars.PhaseRead, Err: errNoMatches}
	}
	sort.Strings(matches)

	out := make([]sourceFile, 0, len(matches))
	for _, match := range matches {
		data, err := fs.ReadFile(files, match)
		if err != nil {
			return nil, &vars.LoadError{Path: match, Phase: vars.PhaseRead, Err: err}
		}
		out = append(out, sourceFile{location: match, data: data})
	}
	return out, nil
}
