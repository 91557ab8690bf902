package loader

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/goliatone/go-mdtemplate/pkg/vars"
)

// Loader implements vars.Loader by reading disk files or fs.FS entries and
// shallow-merging their top-level keys in order.
type Loader struct {
	fs      fs.FS
	baseDir string
	globs   bool
}

// Ensure the implementation satisfies the public interface.
var _ vars.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options vars.LoaderOptions) *Loader {
	return &Loader{
		fs:      options.FileSystem,
		baseDir: options.BaseDir,
		globs:   !options.DisableGlobs,
	}
}

// Load reads every source in order and merges it into a fresh Context. The
// first source that cannot be read or decoded aborts the load.
func (l *Loader) Load(ctx context.Context, sources ...vars.Source) (vars.Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	merged := vars.NewContext()
	for _, src := range sources {
		if src == nil {
			return vars.Context{}, errors.New("vars loader: source is nil")
		}
		if err := ctx.Err(); err != nil {
			return vars.Context{}, err
		}

		files, err := l.resolve(src)
		if err != nil {
			return vars.Context{}, err
		}
		for _, f := range files {
			values, err := decode(f.location, f.data)
			if err != nil {
				return vars.Context{}, &vars.LoadError{Path: f.location, Phase: vars.PhaseParse, Err: err}
			}
			merged.Merge(values)
		}
	}
	return merged, nil
}

type sourceFile struct {
	location string
	data     []byte
}

func (l *Loader) resolve(src vars.Source) ([]sourceFile, error) {
	location := src.Location()
	switch src.Kind() {
	case vars.SourceKindFile:
		data, err := loadFile(l.absolute(location))
		if l.expand(location, err) {
			return loadFileGlob(l.absolute(location))
		}
		if err != nil {
			return nil, &vars.LoadError{Path: location, Phase: vars.PhaseRead, Err: err}
		}
		return []sourceFile{{location: location, data: data}}, nil
	case vars.SourceKindFS:
		data, err := loadFromFS(l.fs, location)
		if l.expand(location, err) {
			return loadFSGlob(l.fs, location)
		}
		if err != nil {
			return nil, &vars.LoadError{Path: location, Phase: vars.PhaseRead, Err: err}
		}
		return []sourceFile{{location: location, data: data}}, nil
	default:
		return nil, &vars.LoadError{Path: location, Phase: vars.PhaseRead, Err: errors.New("unsupported source kind")}
	}
}

// expand reports whether location should be glob-expanded. A file that exists
// under the literal name wins, so `data[v1].json` reads as written.
func (l *Loader) expand(location string, literalErr error) bool {
	return l.globs && vars.IsPattern(location) && errors.Is(literalErr, fs.ErrNotExist)
}

func (l *Loader) absolute(path string) string {
	if l.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.baseDir, path)
}
