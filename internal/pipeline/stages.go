package pipeline

import (
	"context"

	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/globimport"
	"github.com/toyz/splice/internal/injection"
	"github.com/toyz/splice/internal/metadata"
	"github.com/toyz/splice/internal/models"
	"github.com/toyz/splice/internal/registry"
	"github.com/toyz/splice/internal/routes"
	"github.com/toyz/splice/internal/services"
)

// GlobStage expands glob imports and requires.
type GlobStage struct {
	Expander *globimport.Expander
}

func (GlobStage) Name() string { return "globs" }
func (GlobStage) Requires() []Condition { return nil }
func (GlobStage) Provides() []Condition { return []Condition{GlobsExpanded} }
func (GlobStage) Applies(*models.SourceFile) bool { return true }

func (g GlobStage) Run(_ context.Context, s *Session, file *models.SourceFile) error {
	n, err := g.Expander.Transform(file)
	if err != nil {
		return err
	}
	s.Count(g.Name(), n)
	return nil
}

// RouteStage wraps route definitions into the __register export. It reads
// the @app imports, so it runs before the virtual import rewrite.
type RouteStage struct {
	Wrapper *routes.Wrapper
}

func (RouteStage) Name() string { return "routes" }
func (RouteStage) Requires() []Condition { return []Condition{GlobsExpanded} }
func (RouteStage) Provides() []Condition { return []Condition{RoutesWrapped} }

func (RouteStage) Applies(file *models.SourceFile) bool {
	return file.Role == models.RouteFront || file.Role == models.RouteBack
}

func (r RouteStage) Run(_ context.Context, s *Session, file *models.SourceFile) error {
	res, err := r.Wrapper.Wrap(file)
	if err != nil {
		return err
	}
	if res.Status == routes.AlreadyProcessed {
		s.Logger.Debug().Str("file", file.RelPath).Msg("route module already processed")
		return nil
	}
	s.Count(r.Name(), len(res.Definitions))
	return nil
}

// InjectionStage rewrites service constructors and route handlers and
// records the resulting dependency graph.
type InjectionStage struct {
	Rewriter *injection.Rewriter
}

func (InjectionStage) Name() string { return "injection" }
func (InjectionStage) Requires() []Condition { return []Condition{RoutesWrapped} }
func (InjectionStage) Provides() []Condition { return []Condition{ConstructorsWired} }

func (InjectionStage) Applies(file *models.SourceFile) bool {
	return file.Side == models.Server && (file.Role == models.Service || file.Role == models.RouteBack)
}

func (i InjectionStage) Run(_ context.Context, s *Session, file *models.SourceFile) error {
	res, err := i.Rewriter.Rewrite(file)
	if err != nil {
		return err
	}
	for _, deps := range res.Dependencies {
		metadata.RecordDependencies(s.Dependencies, deps.Class, deps.Types, file.RelPath)
	}
	s.Count(i.Name(), res.Constructors+res.Handlers)
	return nil
}

// ServiceStage replaces references to the virtual modules in server
// modules that run with an application instance in reach.
type ServiceStage struct {
	Rewriter *services.Rewriter
}

func (ServiceStage) Name() string { return "services" }
func (ServiceStage) Requires() []Condition { return []Condition{RoutesWrapped} }
func (ServiceStage) Provides() []Condition { return []Condition{VirtualsRewritten} }

func (ServiceStage) Applies(file *models.SourceFile) bool {
	if file.Side != models.Server {
		return false
	}
	switch file.Role {
	case models.Service, models.RouteBack, models.Config:
		return true
	}
	return false
}

func (v ServiceStage) Run(_ context.Context, s *Session, file *models.SourceFile) error {
	res := v.Rewriter.Rewrite(file.Program)
	s.Count(v.Name(), res.Rewritten)
	return nil
}

// IconStage records icon references into the session's icon index.
type IconStage struct {
	Pack string
}

func (IconStage) Name() string { return "icons" }
func (IconStage) Requires() []Condition { return nil }
func (IconStage) Provides() []Condition { return []Condition{IconsCollected} }
func (IconStage) Applies(*models.SourceFile) bool { return true }

func (i IconStage) Run(_ context.Context, s *Session, file *models.SourceFile) error {
	if s.Icons == nil {
		return nil
	}
	c := metadata.IconCollector{Pack: i.Pack, Index: s.Icons}
	s.Count(i.Name(), c.Collect(file))
	return nil
}

// Default builds the standard pipeline for cfg. The returned stages hold
// no per file state and can be shared by concurrent passes.
func Default(cfg *config.Config) (*Pipeline, error) {
	rules := registry.NewRuleRegistry()
	if err := rules.Register(globimport.PagesRule(globimport.PagesOptions{
		Sources:   cfg.Routes.PagesGlob,
		PagesRoot: cfg.PagesDir(),
		Preload:   cfg.Routes.Preload,
	})); err != nil {
		return nil, err
	}

	stages := []Stage{
		GlobStage{Expander: globimport.NewExpander(rules, cfg.ResolveAlias)},
		RouteStage{Wrapper: routes.NewWrapper(routes.OptionsFrom(cfg))},
		InjectionStage{Rewriter: injection.NewRewriter(injection.OptionsFrom(cfg))},
		ServiceStage{Rewriter: services.NewRewriter(cfg.Services)},
	}
	if cfg.Icons.Enabled {
		stages = append(stages, IconStage{Pack: cfg.Icons.Pack})
	}
	return New(stages...)
}
