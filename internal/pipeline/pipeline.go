// Package pipeline runs the rewriting stages over source files in a fixed,
// validated order.
//
// Every stage declares the conditions it needs to hold before it runs and
// the ones it establishes. New rejects an ordering in which a stage would
// run before the stage providing one of its requirements, so a reordering
// mistake surfaces when the pipeline is built rather than as a corrupted
// tree.
package pipeline

import (
	"context"

	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/models"
)

// Condition is a fact about a file established by a stage.
type Condition string

const (
	GlobsExpanded     Condition = "globs-expanded"
	RoutesWrapped     Condition = "routes-wrapped"
	ConstructorsWired Condition = "constructors-wired"
	VirtualsRewritten Condition = "virtual-imports-rewritten"
	IconsCollected    Condition = "icons-collected"
)

// Stage is one rewriting step.
type Stage interface {
	Name() string
	Requires() []Condition
	Provides() []Condition
	// Applies reports whether the stage processes file at all.
	Applies(file *models.SourceFile) bool
	Run(ctx context.Context, s *Session, file *models.SourceFile) error
}

// Pipeline is a validated stage order.
type Pipeline struct {
	stages []Stage
}

// New checks that every stage's requirements are provided by an earlier
// stage and returns the pipeline.
func New(stages ...Stage) (*Pipeline, error) {
	provided := make(map[Condition]bool)
	for _, stage := range stages {
		var missing []string
		for _, req := range stage.Requires() {
			if !provided[req] {
				missing = append(missing, string(req))
			}
		}
		if len(missing) > 0 {
			return nil, errors.NewPipelineOrderError(stage.Name(), missing)
		}
		for _, c := range stage.Provides() {
			provided[c] = true
		}
	}
	return &Pipeline{stages: stages}, nil
}

// Stages returns the stage names in run order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Process runs the applicable stages over file in order. The first stage
// error aborts the file.
func (p *Pipeline) Process(ctx context.Context, s *Session, file *models.SourceFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, stage := range p.stages {
		if !stage.Applies(file) {
			continue
		}
		if err := stage.Run(ctx, s, file); err != nil {
			s.Logger.Debug().Str("stage", stage.Name()).Str("file", file.RelPath).Err(err).Msg("stage failed")
			return err
		}
	}
	s.files++
	return nil
}
