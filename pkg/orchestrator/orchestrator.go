package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-mdtemplate/internal/vars/loader"
	"github.com/goliatone/go-mdtemplate/pkg/book"
	"github.com/goliatone/go-mdtemplate/pkg/preprocess"
	"github.com/goliatone/go-mdtemplate/pkg/render"
	"github.com/goliatone/go-mdtemplate/pkg/render/template"
	"github.com/goliatone/go-mdtemplate/pkg/vars"
)

// DefaultName is the preprocessor name; it selects `[preprocessor.template]`.
const DefaultName = "template"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithName overrides the preprocessor name and therefore the config section.
func WithName(name string) Option {
	return func(o *Orchestrator) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLoader injects a custom context loader. By default a file loader rooted
// at the book root is built per run.
func WithLoader(loader vars.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithFileSystem resolves configured paths and `{% include %}` targets inside
// files instead of on disk.
func WithFileSystem(files fs.FS) Option {
	return func(o *Orchestrator) {
		o.files = files
	}
}

// WithEngine injects the template engine used for every chapter.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(o *Orchestrator) {
		o.engine = engine
	}
}

// WithLogger sets the logger used for render errors and run summaries.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator runs the two-phase pipeline: load the context (fatal on error),
// then render every chapter (failures isolated per chapter).
type Orchestrator struct {
	name   string
	loader vars.Loader
	files  fs.FS
	engine template.TemplateRenderer
	logger *zap.Logger
}

var _ preprocess.Preprocessor = (*Orchestrator)(nil)

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		name:   DefaultName,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	return o
}

// Name returns the preprocessor name.
func (o *Orchestrator) Name() string {
	return o.name
}

// SupportsRenderer accepts every renderer.
func (o *Orchestrator) SupportsRenderer(string) bool {
	return true
}

// Run satisfies preprocess.Preprocessor. Render errors are logged and dropped
// from the return value; use Process to inspect them.
func (o *Orchestrator) Run(ctx context.Context, pctx preprocess.Context, b book.Book) (book.Book, error) {
	processed, _, err := o.Process(ctx, pctx, b)
	return processed, err
}

// Process executes the pipeline and returns the book together with a Report.
// The returned error is always a fatal kind (*ConfigError, *vars.LoadError,
// or a context error); render errors only appear in the Report.
func (o *Orchestrator) Process(ctx context.Context, pctx preprocess.Context, b book.Book) (book.Book, Report, error) {
	if ctx == nil {
		return book.Book{}, Report{}, errors.New("orchestrator: context is required")
	}

	settings, err := SettingsFromConfig(pctx.Config, o.name)
	if err != nil {
		return book.Book{}, Report{}, err
	}

	values, err := o.loaderFor(pctx).Load(ctx, o.sourcesFor(settings.Paths)...)
	if err != nil {
		return book.Book{}, Report{}, err
	}
	o.logger.Debug("template context loaded",
		zap.Int("sources", len(settings.Paths)),
		zap.Strings("keys", values.Keys()))

	renderer, err := o.rendererFor(values, pctx)
	if err != nil {
		return book.Book{}, Report{}, err
	}

	report := Report{}
	err = b.ForEachChapter(func(ch *book.Chapter) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		o.renderChapter(renderer, ch, &report)
		return nil
	})
	if err != nil {
		return book.Book{}, Report{}, err
	}

	o.logger.Debug("template run finished",
		zap.Int("rendered", report.Rendered),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("failed", len(report.Errors)))
	return b, report, nil
}

func (o *Orchestrator) renderChapter(renderer *render.Renderer, ch *book.Chapter, report *Report) {
	if !render.NeedsRender(ch.Content) {
		report.Unchanged++
		return
	}

	out, err := renderer.Render(ch.Name, ch.Content)
	if err != nil {
		var renderErr *render.RenderError
		if !errors.As(err, &renderErr) {
			renderErr = &render.RenderError{Document: ch.Name, Err: err}
		}
		report.Errors = append(report.Errors, renderErr)
		o.logger.Error("template render error",
			zap.String("chapter", ch.Name),
			zap.Error(renderErr.Err))
		return
	}

	ch.Content = out
	report.Rendered++
}

func (o *Orchestrator) sourcesFor(paths []string) []vars.Source {
	if o.files == nil {
		return vars.SourcesFromPaths(paths)
	}
	out := make([]vars.Source, 0, len(paths))
	for _, p := range paths {
		out = append(out, vars.SourceFromFS(p))
	}
	return out
}

func (o *Orchestrator) loaderFor(pctx preprocess.Context) vars.Loader {
	if o.loader != nil {
		return o.loader
	}
	return internalLoader.New(vars.NewLoaderOptions(
		vars.WithBaseDir(pctx.Root),
		vars.WithFileSystem(o.files),
	))
}

func (o *Orchestrator) rendererFor(values vars.Context, pctx preprocess.Context) (*render.Renderer, error) {
	opts := []render.Option{render.WithIncludeDir(pctx.Root), render.WithIncludeFS(o.files)}
	if o.engine != nil {
		opts = append(opts, render.WithEngine(o.engine))
	}
	renderer, err := render.New(values, opts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}
