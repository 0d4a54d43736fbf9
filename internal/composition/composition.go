// Package composition turns services.yaml into the application's service
// container.
//
// Service implementations are discovered through their service.json
// descriptors. Each services.yaml entry names a descriptor id and may carry
// a constructor config and a table of subservices; a `{ refTo: name }`
// table points at an existing root service instead of building a new one:
//
//	logging:
//	  id: Core/Logging
//	  priority: 5
//	  subservices:
//	    queue:
//	      id: Core/Queue
//	      config:
//	        logger: { refTo: logging }
//
// Compose validates the graph (unknown ids, duplicate registrations,
// dangling references) and orders it by priority; Render emits app.ts and
// services.d.ts.
package composition

import (
	"os"

	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/utils"
)

// Result is a composed and rendered service graph.
type Result struct {
	Catalog   *Catalog
	Plan      *Plan
	Artifacts *Artifacts
}

// Build discovers descriptors, composes the configured services.yaml and
// renders it. It returns nil when the project has no services.yaml.
func Build(cfg *config.Config, fp *utils.FileProcessor) (*Result, error) {
	file := cfg.Abs(cfg.Composition.File)
	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapFileSystemError("read", file, err)
	}

	roots, err := RootsFrom(cfg)
	if err != nil {
		return nil, err
	}
	catalog, err := Discover(fp, roots...)
	if err != nil {
		return nil, err
	}

	services, err := Parse(data, file)
	if err != nil {
		return nil, err
	}
	plan, err := Compose(services, catalog, file)
	if err != nil {
		return nil, err
	}

	identity, err := LoadIdentity(cfg.Abs(cfg.Composition.Identity))
	if err != nil {
		return nil, err
	}
	artifacts, err := plan.Render(identity, RenderOptionsFrom(cfg))
	if err != nil {
		return nil, err
	}
	return &Result{Catalog: catalog, Plan: plan, Artifacts: artifacts}, nil
}
