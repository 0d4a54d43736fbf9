package cli

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/utils"
)

// BuildFunc runs one build. It must return promptly once ctx is cancelled.
type BuildFunc func(ctx context.Context) error

// Watcher rebuilds a project whenever its sources change. A change that
// arrives while a build is running cancels that build and starts over.
type Watcher struct {
	cfg         *config.Config
	files       *utils.FileProcessor
	build       BuildFunc
	delay       time.Duration
	diagnostics *utils.DiagnosticSystem
	logger      zerolog.Logger
}

// NewWatcher creates a watcher running build for cfg.
func NewWatcher(cfg *config.Config, files *utils.FileProcessor, build BuildFunc, opts Options) *Watcher {
	opts = opts.withDefaults()
	return &Watcher{
		cfg:         cfg,
		files:       files,
		build:       build,
		delay:       opts.WatchDelay,
		diagnostics: opts.Diagnostics,
		logger:      opts.Logger,
	}
}

// buildRun is a build in flight.
type buildRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (r *buildRun) running() bool {
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

func (r *buildRun) stop() {
	r.cancel()
	<-r.done
}

// Run builds once, then watches until ctx is done. Build failures are
// logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapFileSystemError("watch", w.cfg.Root, err)
	}
	defer fw.Close()

	for _, dir := range w.cfg.SourceDirs {
		w.addTree(fw, w.cfg.Abs(dir))
	}
	// identity.yaml lives next to the project files, not in a source dir
	if err := fw.Add(filepath.Dir(w.cfg.Abs(w.cfg.Composition.Identity))); err != nil {
		w.logger.Debug().Err(err).Msg("identity directory not watched")
	}

	rebuild := make(chan struct{}, 1)
	debounced := debounce.New(w.delay)
	request := func() {
		select {
		case rebuild <- struct{}{}:
		default:
		}
	}

	current := w.start(ctx)
	defer func() { current.stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("change detected")
			w.files.Invalidate(ev.Name)
			if ev.Has(fsnotify.Create) {
				w.addTree(fw, ev.Name)
			}
			debounced(request)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watch error")

		case <-rebuild:
			if current.running() {
				w.diagnostics.Info("Change during build, restarting")
			}
			current.stop()
			current = w.start(ctx)
		}
	}
}

func (w *Watcher) start(ctx context.Context) *buildRun {
	bctx, cancel := context.WithCancel(ctx)
	run := &buildRun{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(run.done)
		if err := w.build(bctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Warn().Err(err).Msg("build failed")
		}
	}()
	return run
}

// addTree watches dir and every directory below it that the scanner would
// descend into. Missing or unreadable directories are skipped.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) {
	filter := utils.DefaultDirectoryFilter(w.cfg.OutputDir())
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != dir && !filter(path, d) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			w.logger.Debug().Str("path", path).Err(err).Msg("directory not watched")
		}
		return nil
	})
}

// relevant filters out events that cannot change the build output.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	out := w.cfg.OutputDir()
	if within(ev.Name, out) || strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	for _, dir := range w.cfg.SourceDirs {
		if within(ev.Name, w.cfg.Abs(dir)) {
			return true
		}
	}
	return ev.Name == w.cfg.Abs(w.cfg.Composition.Identity)
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}
