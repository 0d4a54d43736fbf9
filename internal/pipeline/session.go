package pipeline

import (
	"context"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/toyz/splice/internal/metadata"
	"github.com/toyz/splice/internal/models"
)

// Artifact names flushed by a session.
const (
	DependenciesArtifact = "dependencies.json"
	DefaultIconsArtifact = "icons.d.ts"
)

// Session is the state of one compilation pass. It is owned by a single
// goroutine; separate passes use separate sessions.
type Session struct {
	ID     uuid.UUID
	Side   models.Side
	Logger zerolog.Logger

	Icons        *metadata.IconIndex // nil when icon collection is disabled
	Dependencies *metadata.DependencyIndex

	files  int
	counts map[string]int
}

// SessionOptions configures NewSession.
type SessionOptions struct {
	Logger        zerolog.Logger
	CollectIcons  bool
	IconsArtifact string
}

// NewSession starts a pass for side.
func NewSession(side models.Side, opts SessionOptions) *Session {
	id := uuid.New()
	s := &Session{
		ID:           id,
		Side:         side,
		Logger:       opts.Logger.With().Str("session", id.String()).Str("side", side.String()).Logger(),
		Dependencies: metadata.NewDependencyIndex(DependenciesArtifact),
		counts:       make(map[string]int),
	}
	if opts.CollectIcons {
		name := opts.IconsArtifact
		if name == "" {
			name = DefaultIconsArtifact
		}
		s.Icons = metadata.NewIconIndex(name)
	}
	return s
}

// Count adds n to the counter of stage.
func (s *Session) Count(stage string, n int) {
	if n != 0 {
		s.counts[stage] += n
	}
}

// Counts returns a copy of the per stage counters.
func (s *Session) Counts() map[string]int {
	return maps.Clone(s.counts)
}

// Files returns the number of files processed successfully.
func (s *Session) Files() int {
	return s.files
}

// Flushers lists the accumulators of the session.
func (s *Session) Flushers() []metadata.Flusher {
	flushers := []metadata.Flusher{s.Dependencies}
	if s.Icons != nil {
		flushers = append(flushers, s.Icons)
	}
	return flushers
}

// Flush writes every dirty accumulator to sink and returns the names of
// the artifacts whose content changed.
func (s *Session) Flush(ctx context.Context, sink metadata.Sink) ([]string, error) {
	var written []string
	for _, f := range s.Flushers() {
		if !f.Dirty() {
			continue
		}
		changed, err := f.Flush(ctx, sink)
		if err != nil {
			return written, err
		}
		if changed {
			written = append(written, f.Name())
		}
	}
	slices.Sort(written)
	s.Logger.Info().Strs("artifacts", written).Int("files", s.files).Msg("session flushed")
	return written, nil
}
