package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	splicecli "github.com/toyz/splice/internal/cli"
	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/utils"
)

// Version is set at link time.
var Version = "dev"

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                   "splice",
		Usage:                  "Compile-time rewriting for route, service and container modules",
		Version:                Version,
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file path",
				Value:   config.FileName,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable verbose output and detailed error reporting",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only show errors",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Write build events as JSON lines to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Rewrite the project once",
				Action: buildCommand,
			},
			{
				Name:   "clean",
				Usage:  "Remove the files written by build",
				Action: cleanCommand,
			},
			{
				Name:   "watch",
				Usage:  "Build, then rebuild whenever a source changes",
				Action: watchCommand,
			},
		},
	}
}

// environment is what every command needs, derived from the global flags.
type environment struct {
	cfg         *config.Config
	files       *utils.FileProcessor
	diagnostics *utils.DiagnosticSystem
	reporter    *splicecli.DiagnosticReporter
	summaries   *splicecli.DiagnosticReporter // nil when quiet
	options     splicecli.Options
}

func setup(c *cli.Context) (*environment, error) {
	verbose := c.Bool("verbose")

	var diagnostics *utils.DiagnosticSystem
	switch {
	case c.Bool("quiet"):
		diagnostics = utils.NewQuietDiagnostics()
	case verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	if c.App.Writer != os.Stdout || c.App.ErrWriter != os.Stderr {
		diagnostics.SetOutput(c.App.Writer, c.App.ErrWriter)
	}

	logger := zerolog.Nop()
	if c.Bool("log-json") {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(c.App.ErrWriter).Level(level).With().Timestamp().Logger()
	}

	reporter := splicecli.NewDiagnosticReporter(verbose)
	reporter.SetOutput(c.App.ErrWriter)

	env := &environment{
		files:       utils.NewFileProcessor(),
		diagnostics: diagnostics,
		reporter:    reporter,
		options:     splicecli.Options{Diagnostics: diagnostics, Logger: logger},
	}
	if !c.Bool("quiet") {
		env.summaries = splicecli.NewDiagnosticReporter(verbose)
		env.summaries.SetOutput(c.App.Writer)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		reporter.ReportError(err)
		return nil, cli.Exit("", 1)
	}
	env.cfg = cfg
	diagnostics.Header(cfg.Root)
	return env, nil
}

func buildCommand(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	compiler, err := splicecli.NewCompiler(env.cfg, env.files, env.options)
	if err != nil {
		env.reporter.ReportError(err)
		return cli.Exit("", 1)
	}
	if err := env.build(c.Context, compiler); err != nil {
		return cli.Exit("", 1)
	}
	return nil
}

func cleanCommand(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	removed, err := splicecli.NewCleaner(env.files).Clean(env.cfg)
	if err != nil {
		env.reporter.ReportError(err)
		return cli.Exit("", 1)
	}
	for _, dir := range removed {
		env.diagnostics.List("removed %s", dir)
	}
	env.diagnostics.Success("Output directory cleaned")
	return nil
}

func watchCommand(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	compiler, err := splicecli.NewCompiler(env.cfg, env.files, env.options)
	if err != nil {
		env.reporter.ReportError(err)
		return cli.Exit("", 1)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	env.diagnostics.Info("Watching %s for changes", env.cfg.Root)
	w := splicecli.NewWatcher(env.cfg, env.files, func(ctx context.Context) error {
		return env.build(ctx, compiler)
	}, env.options)
	if err := w.Run(ctx); err != nil {
		env.reporter.ReportError(err)
		return cli.Exit("", 1)
	}
	return nil
}

// build runs one build and reports its outcome. Cancellation is not
// reported.
func (env *environment) build(ctx context.Context, compiler *splicecli.Compiler) error {
	summary, err := compiler.Build(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case err != nil:
		env.reporter.ReportError(err)
		return err
	}
	if env.summaries != nil {
		env.summaries.ReportSuccess(summary, env.cfg.Root)
	}
	return nil
}
