package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mdtemplate "github.com/goliatone/go-mdtemplate"
	"github.com/goliatone/go-mdtemplate/internal/logging"
	"github.com/goliatone/go-mdtemplate/pkg/orchestrator"
	"github.com/goliatone/go-mdtemplate/pkg/vars"
)

const logLevelEnv = "MDBOOK_TEMPLATE_LOG"

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logLevel  string
	logFormat string
	logger    *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, logger: zap.NewNop()}
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	_ = a.logger.Sync()
	if err != nil {
		fmt.Fprintf(stderr, "mdbook-template: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mdbook-template",
		Short: "mdBook preprocessor that renders chapters with variables from data files",
		Long: `mdbook-template reads the book mdBook pipes to stdin, renders every chapter
through a pongo2 template engine with variables merged from the files listed in
[preprocessor.template] paths, and writes the book back to stdout.

${{ ... }} spans (GitHub Actions expressions and the like) are left untouched.

book.toml:
  [preprocessor.template]
  paths = ["assets/operators.json", "assets/portals.json"]`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := a.newLogger()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mdtemplate.Preprocess(cmd.Context(), a.stdin, a.stdout, orchestrator.WithLogger(a.logger))
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", os.Getenv(logLevelEnv), "log level (debug, info, warn, error); env "+logLevelEnv)
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", string(logging.FormatConsole), "log format (console, json)")

	root.AddCommand(a.supportsCmd(), a.renderCmd())
	return root
}

func (a *app) newLogger() (*zap.Logger, error) {
	return logging.New(logging.Config{
		Level:  a.logLevel,
		Format: logging.Format(a.logFormat),
		Output: a.stderr,
	})
}

func (a *app) supportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "supports <renderer>",
		Short: "Report renderer support to mdBook (every renderer is supported)",
		Args:  cobra.ArbitraryArgs,
		// mdBook skips the preprocessor on a non-zero exit, so a bad log
		// setting must not fail this command.
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if logger, err := a.newLogger(); err == nil {
				a.logger = logger
			}
			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			renderer := ""
			if len(args) > 0 {
				renderer = args[0]
			}
			if !orchestrator.New().SupportsRenderer(renderer) {
				return fmt.Errorf("renderer %q is not supported", renderer)
			}
			a.logger.Debug("renderer supported", zap.String("renderer", renderer))
			return nil
		},
	}
}

func (a *app) renderCmd() *cobra.Command {
	var (
		dataPaths  []string
		configPath string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a single markdown file (or stdin) outside mdBook",
		Long: `Render loads the data files named by --config and --data (in that order),
renders the file through the same pipeline mdBook runs, and prints the result.
A template error fails the command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var paths []string
			if configPath != "" {
				settings, err := orchestrator.LoadSettingsFile(configPath)
				if err != nil {
					return err
				}
				paths = append(paths, settings.Paths...)
			}
			paths = append(paths, dataPaths...)

			input := a.stdin
			docName := name
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				input = f
				if docName == "" {
					docName = args[0]
				}
			}
			if docName == "" {
				docName = "stdin"
			}

			content, err := io.ReadAll(input)
			if err != nil {
				return fmt.Errorf("read %s: %w", docName, err)
			}

			out, err := mdtemplate.RenderString(cmd.Context(), docName, string(content), vars.SourcesFromPaths(paths))
			if err != nil {
				return err
			}
			a.logger.Debug("document rendered",
				zap.String("document", docName),
				zap.String("sources", strings.Join(paths, ",")))

			_, err = io.WriteString(a.stdout, out)
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&dataPaths, "data", "d", nil, "data file or glob merged into the context (repeatable, later wins)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML file with a paths list")
	cmd.Flags().StringVar(&name, "name", "", "document name used in error messages")
	return cmd
}
