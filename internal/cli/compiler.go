package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/splice/internal/composition"
	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
	"github.com/toyz/splice/internal/parser"
	"github.com/toyz/splice/internal/pipeline"
	"github.com/toyz/splice/internal/utils"
)

// Compiler runs the rewriting pipeline over a whole project: one pass for
// the client bundle and one for the server, in parallel.
type Compiler struct {
	cfg         *config.Config
	files       *utils.FileProcessor
	scanner     *Scanner
	diagnostics *utils.DiagnosticSystem
	logger      zerolog.Logger
	maxErrors   int

	// content hashes of everything written, kept across builds
	hashes *utils.Cache[string, struct{}]
}

// NewCompiler prepares a compiler for cfg. The returned compiler can run
// Build repeatedly but not concurrently.
func NewCompiler(cfg *config.Config, files *utils.FileProcessor, opts Options) (*Compiler, error) {
	opts = opts.withDefaults()
	if _, err := pipeline.Default(cfg); err != nil {
		return nil, err
	}
	return &Compiler{
		cfg:         cfg,
		files:       files,
		scanner:     NewScanner(cfg, files),
		diagnostics: opts.Diagnostics,
		logger:      opts.Logger,
		maxErrors:   opts.MaxErrors,
		hashes:      utils.NewCache[string, struct{}](),
	}, nil
}

// BuildSummary describes a finished build.
type BuildSummary struct {
	Sources   int           // files discovered
	Services  int           // registrations in the composed container, 0 without services.yaml
	Passes    []PassSummary // in models.Sides order
	Generated []string      // composition artifacts written
	Duration  time.Duration
}

// PassSummary describes one pass of a build.
type PassSummary struct {
	Side      models.Side
	Session   uuid.UUID
	Files     int            // files rewritten
	Written   []string       // output files and artifacts written
	Unchanged int            // writes skipped because the content did not change
	Counts    map[string]int // per stage rewrite counts
}

// Build compiles the project once. Composition problems and configuration
// or cardinality errors abort the build; other per file errors are
// collected and reported together at the end of the failing pass.
func (c *Compiler) Build(ctx context.Context) (*BuildSummary, error) {
	start := time.Now()
	summary := &BuildSummary{}

	c.diagnostics.StartProgress("Composing services")
	comp, err := composition.Build(c.cfg, c.files)
	if err != nil {
		c.diagnostics.EndProgress(false, "Composing services")
		return summary, err
	}
	if comp != nil {
		summary.Services = comp.Plan.Registry.Len()
		c.diagnostics.EndProgress(true, "Composed "+pluralize(summary.Services, "service"))
	} else {
		c.diagnostics.EndProgress(true, "No services file, skipping composition")
	}

	sources, err := c.scanner.Scan()
	if err != nil {
		return summary, err
	}
	summary.Sources = len(sources)
	c.diagnostics.Verbose("Discovered %s", pluralize(len(sources), "source file"))

	// glob matches are cached by the pipeline, so each build gets its own
	p, err := pipeline.Default(c.cfg)
	if err != nil {
		return summary, err
	}

	passes := make([]PassSummary, len(models.Sides))
	g, gctx := errgroup.WithContext(ctx)
	for i, side := range models.Sides {
		g.Go(func() error {
			pass, err := c.runPass(gctx, p, side, sources)
			if err != nil {
				return err
			}
			passes[i] = *pass
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}
	summary.Passes = passes
	for _, pass := range passes {
		c.diagnostics.EndProgress(true, pass.Side.String()+" pass: "+pluralize(pass.Files, "file"))
	}

	if comp != nil {
		sink := newOutputSink(c.cfg.GeneratedDir(), c.hashes)
		if err := comp.Artifacts.Write(ctx, sink); err != nil {
			return summary, err
		}
		summary.Generated = sink.Written()
	}

	summary.Duration = time.Since(start)
	c.logger.Info().
		Int("sources", summary.Sources).
		Int("services", summary.Services).
		Dur("duration", summary.Duration).
		Msg("build finished")
	return summary, nil
}

// runPass rewrites every file of side with a fresh session and flushes the
// session's accumulators. A cancelled or failed pass flushes nothing.
func (c *Compiler) runPass(ctx context.Context, p *pipeline.Pipeline, side models.Side, sources []Source) (*PassSummary, error) {
	session := pipeline.NewSession(side, pipeline.SessionOptions{
		Logger:        c.logger,
		CollectIcons:  c.cfg.Icons.Enabled,
		IconsArtifact: c.cfg.Icons.Output,
	})
	session.Logger.Debug().Msg("pass started")

	parsers := parser.NewSet()
	defer parsers.Close()

	out := newOutputSink(filepath.Join(c.cfg.OutputDir(), side.String()), c.hashes)
	collector := errors.NewCollector(c.maxErrors)

	for _, src := range sources {
		if !src.OnSide(side) {
			continue
		}
		if err := ctx.Err(); err != nil {
			session.Logger.Debug().Msg("pass cancelled")
			return nil, err
		}

		file, err := c.load(parsers, src, side)
		if err == nil {
			err = p.Process(ctx, session, file)
		}
		if err == nil {
			err = out.WriteArtifact(ctx, file.RelPath, []byte(jsast.Print(file.Program)))
		}
		if err == nil {
			continue
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if aborts(err) {
			return nil, err
		}
		session.Logger.Warn().Str("file", src.Rel).Err(err).Msg("file failed")
		if !collector.Collect(src.Rel, err) {
			break
		}
	}
	if err := collector.Err(); err != nil {
		return nil, err
	}

	gen := newOutputSink(filepath.Join(c.cfg.GeneratedDir(), side.String()), c.hashes)
	if _, err := session.Flush(ctx, gen); err != nil {
		return nil, err
	}

	return &PassSummary{
		Side:      side,
		Session:   session.ID,
		Files:     session.Files(),
		Written:   append(out.Written(), gen.Written()...),
		Unchanged: out.Unchanged() + gen.Unchanged(),
		Counts:    session.Counts(),
	}, nil
}

func (c *Compiler) load(parsers *parser.Set, src Source, side models.Side) (*models.SourceFile, error) {
	data, err := c.files.ReadFile(src.Path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", src.Path, err)
	}
	prog, err := parsers.Parse(src.Path, data)
	if err != nil {
		return nil, err
	}
	file := models.NewSourceFile(c.cfg.Root, src.Path, src.Role, side, data)
	file.Program = prog
	return file, nil
}

// aborts reports whether err stops the whole pass instead of only the file.
func aborts(err error) bool {
	switch errors.CodeOf(err) {
	case errors.ConfigurationErrorCode, errors.CardinalityErrorCode, errors.PipelineErrorCode, errors.FileSystemErrorCode:
		return true
	}
	return false
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
