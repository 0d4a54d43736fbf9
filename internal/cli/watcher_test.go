package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/utils"
)

// recorder is a BuildFunc that reports each start and whether the build
// was cancelled before it was released.
type recorder struct {
	started   chan int
	mu        sync.Mutex
	runs      int
	cancelled []int
	block     bool
}

func newRecorder(block bool) *recorder {
	return &recorder{started: make(chan int, 16), block: block}
}

func (r *recorder) build(ctx context.Context) error {
	r.mu.Lock()
	r.runs++
	run := r.runs
	r.mu.Unlock()
	r.started <- run

	if !r.block {
		return nil
	}
	<-ctx.Done()
	r.mu.Lock()
	r.cancelled = append(r.cancelled, run)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *recorder) wait(t *testing.T, want int) {
	t.Helper()
	select {
	case got := <-r.started:
		require.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatalf("build %d did not start", want)
	}
}

func startWatcher(t *testing.T, cfg *config.Config, r *recorder) (cancel func()) {
	t.Helper()
	w := NewWatcher(cfg, utils.NewFileProcessor(), r.build, Options{
		Logger:     zerolog.Nop(),
		WatchDelay: 20 * time.Millisecond,
	})
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	return func() {
		stop()
		require.NoError(t, <-done)
	}
}

func TestWatcher_RebuildsOnChange(t *testing.T) {
	cfg := testProject(t, map[string]string{"src/common/format.ts": "export {};\n"})
	r := newRecorder(false)
	stop := startWatcher(t, cfg, r)
	defer stop()

	r.wait(t, 1)

	// give the watcher time to register the directories
	time.Sleep(50 * time.Millisecond)
	writeTree(t, cfg.Root, map[string]string{"src/common/format.ts": "export const a = 1;\n"})
	r.wait(t, 2)

	writeTree(t, cfg.Root, map[string]string{"src/common/nested/new.ts": "export {};\n"})
	r.wait(t, 3)
}

func TestWatcher_ChangeCancelsRunningBuild(t *testing.T) {
	cfg := testProject(t, map[string]string{"src/common/format.ts": "export {};\n"})
	r := newRecorder(true)
	stop := startWatcher(t, cfg, r)

	r.wait(t, 1)
	time.Sleep(50 * time.Millisecond)
	writeTree(t, cfg.Root, map[string]string{"src/common/format.ts": "export const a = 1;\n"})
	r.wait(t, 2)

	stop()
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, []int{1, 2}, r.cancelled, "the restart and the shutdown both cancel")
}

func TestWatcher_IgnoresOutputDirectory(t *testing.T) {
	cfg := testProject(t, map[string]string{"src/common/format.ts": "export {};\n"})
	cfg.OutDir = "src/.out"
	w := NewWatcher(cfg, utils.NewFileProcessor(), nil, Options{})

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"source write", fsnotify.Event{Name: filepath.Join(cfg.Root, "src", "common", "format.ts"), Op: fsnotify.Write}, true},
		{"chmod only", fsnotify.Event{Name: filepath.Join(cfg.Root, "src", "common", "format.ts"), Op: fsnotify.Chmod}, false},
		{"output", fsnotify.Event{Name: filepath.Join(cfg.OutputDir(), "client", "a.ts"), Op: fsnotify.Create}, false},
		{"hidden file", fsnotify.Event{Name: filepath.Join(cfg.Root, "src", ".a.ts.swp"), Op: fsnotify.Write}, false},
		{"identity", fsnotify.Event{Name: filepath.Join(cfg.Root, "identity.yaml"), Op: fsnotify.Write}, true},
		{"unrelated root file", fsnotify.Event{Name: filepath.Join(cfg.Root, "package.json"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.ev))
		})
	}
}

func TestWatcher_MissingSourceDir(t *testing.T) {
	cfg := testProject(t, nil)
	require.NoError(t, os.MkdirAll(cfg.Root, 0o755))
	r := newRecorder(false)
	stop := startWatcher(t, cfg, r)
	r.wait(t, 1)
	stop()
}
