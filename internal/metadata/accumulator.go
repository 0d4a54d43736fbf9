// Package metadata collects side-channel data while files are rewritten
// and aggregates it into generated artifacts once a pass completes.
package metadata

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/tidwall/btree"

	"github.com/toyz/splice/internal/errors"
)

// Entry is one recorded key with the file that recorded it last.
type Entry[V any] struct {
	Key    string
	Value  V
	Source string
}

// Kind describes how the values of an accumulator compare and render.
type Kind[V any] struct {
	Name   string // artifact file name
	Equal  func(a, b V) bool
	Render func(entries []Entry[V]) ([]byte, error)
}

// Sink receives rendered artifacts.
type Sink interface {
	WriteArtifact(ctx context.Context, name string, data []byte) error
}

// DirSink writes artifacts into a directory, creating it on first write.
type DirSink string

// WriteArtifact implements Sink.
func (d DirSink) WriteArtifact(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(string(d), name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapFileSystemError("mkdir", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	return nil
}

// Accumulator is a key-ordered map of metadata. Output depends only on the
// recorded state, never on the order the files were visited in.
type Accumulator[V any] struct {
	mu      sync.Mutex
	kind    Kind[V]
	entries btree.Map[string, Entry[V]]

	// version counts changes; flushed is the version last flushed.
	version   uint64
	flushed   uint64
	updatedAt time.Time
	flushedAt time.Time

	hash   uint64
	hashed bool
	now    func() time.Time
}

// NewAccumulator creates an empty accumulator of kind.
func NewAccumulator[V any](kind Kind[V]) *Accumulator[V] {
	return &Accumulator[V]{kind: kind, now: time.Now}
}

// Name is the artifact the accumulator flushes to.
func (a *Accumulator[V]) Name() string { return a.kind.Name }

// Record stores value under key. It reports whether the state changed: the
// key is new, or its value differs from the stored one.
func (a *Accumulator[V]) Record(key string, value V, source string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if old, ok := a.entries.Get(key); ok && a.kind.Equal(old.Value, value) {
		return false
	}
	a.entries.Set(key, Entry[V]{Key: key, Value: value, Source: source})
	a.version++
	a.updatedAt = a.now()
	return true
}

// Get returns the entry stored under key.
func (a *Accumulator[V]) Get(key string) (Entry[V], bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entries.Get(key)
}

// Entries returns the entries sorted by key.
func (a *Accumulator[V]) Entries() []Entry[V] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

func (a *Accumulator[V]) snapshot() []Entry[V] {
	out := make([]Entry[V], 0, a.entries.Len())
	a.entries.Scan(func(_ string, e Entry[V]) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Len is the number of keys recorded.
func (a *Accumulator[V]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entries.Len()
}

// Dirty reports whether the state changed since the last flush.
func (a *Accumulator[V]) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.version != a.flushed
}

// UpdatedAt and FlushedAt are the times of the last change and flush.
func (a *Accumulator[V]) UpdatedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.updatedAt
}

func (a *Accumulator[V]) FlushedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flushedAt
}

// Flush renders the entries and hands them to sink when the accumulator is
// dirty and the rendered bytes differ from the last write. It reports
// whether the sink was called.
func (a *Accumulator[V]) Flush(ctx context.Context, sink Sink) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.version == a.flushed {
		return false, nil
	}
	data, err := a.kind.Render(a.snapshot())
	if err != nil {
		return false, errors.WrapTemplateError(a.kind.Name, "render", err)
	}

	sum := xxhash.Sum64(data)
	if a.hashed && sum == a.hash {
		a.markFlushed()
		return false, nil
	}
	if err := sink.WriteArtifact(ctx, a.kind.Name, data); err != nil {
		return false, err
	}
	a.hash, a.hashed = sum, true
	a.markFlushed()
	return true, nil
}

func (a *Accumulator[V]) markFlushed() {
	a.flushed = a.version
	a.flushedAt = a.now()
}

// Flusher is the part of an accumulator a session needs at the end of a
// pass.
type Flusher interface {
	Name() string
	Dirty() bool
	Flush(ctx context.Context, sink Sink) (bool, error)
}
