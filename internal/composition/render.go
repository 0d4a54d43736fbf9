package composition

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/metadata"
	"github.com/toyz/splice/internal/templates"
)

// Artifact names written to the generated directory.
const (
	AppArtifact   = "app.ts"
	TypesArtifact = "services.d.ts"
)

// DefaultIdentifier names the container class when identity.yaml is absent.
const DefaultIdentifier = "App"

// Identity is the part of identity.yaml the composition needs.
type Identity struct {
	Identifier string `yaml:"identifier"`
	Name       string `yaml:"name"`
}

// LoadIdentity reads identity.yaml. A missing file yields the default
// identifier.
func LoadIdentity(path string) (Identity, error) {
	identity := Identity{Identifier: DefaultIdentifier}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return identity, nil
	case err != nil:
		return identity, errors.WrapFileSystemError("read", path, err)
	}
	if err := yaml.Unmarshal(data, &identity); err != nil {
		cerr := errors.WrapConfigurationError("identity.yaml", "parse", err)
		cerr.WithFile(path)
		return identity, cerr
	}
	if identity.Identifier == "" {
		identity.Identifier = DefaultIdentifier
	}
	if !jsast.IsValidBinding(identity.Identifier) {
		cerr := errors.NewConfigurationError("identifier",
			fmt.Sprintf("identifier %q is not a valid class name", identity.Identifier))
		cerr.WithFile(path)
		return identity, cerr
	}
	return identity, nil
}

// RenderOptions carries the module names the generated files refer to.
type RenderOptions struct {
	Base              string
	AppSource         string
	ContainerModule   string
	ContainerServices []string
}

// RenderOptionsFrom reads the options from the project configuration.
func RenderOptionsFrom(cfg *config.Config) RenderOptions {
	return RenderOptions{
		Base:              cfg.Composition.Base,
		AppSource:         cfg.Services.AppSource,
		ContainerModule:   cfg.Services.ContainerModule,
		ContainerServices: cfg.Services.Container,
	}
}

// Artifacts are the rendered composition files.
type Artifacts struct {
	App   string
	Types string
}

// Render produces the container module and its declarations.
func (p *Plan) Render(identity Identity, opts RenderOptions) (*Artifacts, error) {
	imports := templates.NewImportManager()
	err := p.Walk(func(reg *Registration) error {
		return imports.AddDefault(reg.Descriptor.Name, reg.Descriptor.ImportPath)
	})
	if err != nil {
		return nil, err
	}

	data := templates.AppModuleData{
		Base:       opts.Base,
		Identifier: identity.Identifier,
		Imports:    imports.Lines(),
	}
	for _, reg := range p.Services {
		data.ServiceNames = append(data.ServiceNames, reg.Name)
		data.IDToName = append(data.IDToName, templates.ServiceName{ID: reg.ID, Name: reg.Name})
		data.Fields = append(data.Fields, fmt.Sprintf("public %s = %s;", reg.Name, jsast.Print(reg.Instantiation())))
	}

	registry := templates.NewTemplateRegistry()
	app, err := registry.Render(templates.AppModule, data)
	if err != nil {
		return nil, err
	}
	types, err := registry.Render(templates.ServicesDecl, templates.ServicesDeclData{
		Identifier:        identity.Identifier,
		AppSource:         opts.AppSource,
		ContainerModule:   opts.ContainerModule,
		ContainerServices: opts.ContainerServices,
	})
	if err != nil {
		return nil, err
	}
	return &Artifacts{App: app, Types: types}, nil
}

// Write stores both artifacts through sink.
func (a *Artifacts) Write(ctx context.Context, sink metadata.Sink) error {
	if err := sink.WriteArtifact(ctx, AppArtifact, []byte(a.App)); err != nil {
		return err
	}
	return sink.WriteArtifact(ctx, TypesArtifact, []byte(a.Types))
}
