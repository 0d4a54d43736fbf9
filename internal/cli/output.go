package cli

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/toyz/splice/internal/metadata"
	"github.com/toyz/splice/internal/utils"
)

// outputSink writes files below dir and skips those whose content equals
// what a previous build wrote to the same path.
type outputSink struct {
	dir    string
	hashes *utils.Cache[string, struct{}]

	mu        sync.Mutex
	written   []string
	unchanged int
}

func newOutputSink(dir string, hashes *utils.Cache[string, struct{}]) *outputSink {
	return &outputSink{dir: dir, hashes: hashes}
}

// WriteArtifact implements metadata.Sink.
func (o *outputSink) WriteArtifact(ctx context.Context, name string, data []byte) error {
	path := filepath.Join(o.dir, filepath.FromSlash(name))
	if _, ok := o.hashes.GetWithContent(path, data); ok {
		if _, err := os.Stat(path); err == nil {
			o.mu.Lock()
			o.unchanged++
			o.mu.Unlock()
			return nil
		}
	}
	if err := metadata.DirSink(o.dir).WriteArtifact(ctx, name, data); err != nil {
		return err
	}
	o.hashes.SetWithContent(path, struct{}{}, data)

	o.mu.Lock()
	o.written = append(o.written, path)
	o.mu.Unlock()
	return nil
}

// Written returns the paths written so far, sorted.
func (o *outputSink) Written() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := append([]string(nil), o.written...)
	sort.Strings(out)
	return out
}

// Unchanged returns the number of skipped writes.
func (o *outputSink) Unchanged() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.unchanged
}
