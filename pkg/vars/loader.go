package vars

import (
	"context"
	"fmt"
	"io/fs"
)

// Loader merges an ordered list of sources into one Context. Implementations
// live under internal/vars but satisfy this contract.
type Loader interface {
	Load(ctx context.Context, sources ...Source) (Context, error)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS sources. Nil disables them.
	FileSystem fs.FS

	// BaseDir anchors relative file paths. Empty means the working directory.
	BaseDir string

	// DisableGlobs treats every file location literally, even when it contains
	// glob meta characters.
	DisableGlobs bool
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS for SourceKindFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithBaseDir resolves relative file paths against dir.
func WithBaseDir(dir string) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.BaseDir = dir
	}
}

// WithoutGlobs disables glob expansion of file locations.
func WithoutGlobs() LoaderOption {
	return func(opts *LoaderOptions) {
		opts.DisableGlobs = true
	}
}

// NewLoaderOptions applies a set of LoaderOption values and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// Phase names the loading step that failed.
type Phase string

const (
	PhaseRead  Phase = "read"
	PhaseParse Phase = "parse"
)

// LoadError reports the first source that could not be read or parsed.
type LoadError struct {
	Path  string
	Phase Phase
	Err   error
}

func (e *LoadError) Error() string {
	verb := "reading"
	if e.Phase == PhaseParse {
		verb = "parsing"
	}
	return fmt.Sprintf("%s %s: %v", verb, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
