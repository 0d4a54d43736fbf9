// Package config loads splice.toml and supplies the defaults every stage
// relies on.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"

	"github.com/toyz/splice/internal/errors"
)

// FileName is the configuration file looked up in the project root.
const FileName = "splice.toml"

// SupportedMajor is the configuration format major version this build reads.
const SupportedMajor = "v1"

// Config is the parsed splice.toml
type Config struct {
	Version string `toml:"version"`

	Root       string   `toml:"root"`        // project root, relative to the config file
	SourceDirs []string `toml:"source_dirs"` // directories scanned for source files, relative to Root
	PagesRoot  string   `toml:"pages_root"`  // relative to Root
	OutDir     string   `toml:"out_dir"`     // relative to Root

	Aliases Aliases `toml:"aliases"` // import prefix -> directory relative to Root

	Services    Services    `toml:"services"`
	Routes      Routes      `toml:"routes"`
	Injection   Injection   `toml:"injection"`
	Icons       Icons       `toml:"icons"`
	Composition Composition `toml:"composition"`
}

// Services configures the reference rewriter.
type Services struct {
	AppSource       string   `toml:"app_source"`
	ModelsSource    string   `toml:"models_source"`
	RequestSource   string   `toml:"request_source"`
	Container       []string `toml:"container"` // @app names resolved through the container
	ContainerModule string   `toml:"container_module"`
	InstanceParam   string   `toml:"instance_param"`
	ContextParam    string   `toml:"context_param"`
}

// Routes configures the route wrapper.
type Routes struct {
	RouterServices []string `toml:"router_services"` // @app names passed to __register as-is
	Methods        []string `toml:"methods"`
	Preload        []string `toml:"preload"` // chunk ids imported eagerly by the page loader
	PagesGlob      []string `toml:"pages_glob"`
	APIPrefix      string   `toml:"api_prefix"`
}

// Injection configures the constructor rewriter.
type Injection struct {
	RequestScoped map[string]string `toml:"request_scoped"` // type name -> request context key
	ServiceGlob   string            `toml:"service_glob"`
}

// Icons configures icon collection.
type Icons struct {
	Enabled bool   `toml:"enabled"`
	Pack    string `toml:"pack"`   // folder of icon names given without one
	Output  string `toml:"output"` // relative to the generated directory
}

// Composition configures service discovery and the generated container.
type Composition struct {
	SearchDirs []string `toml:"search_dirs"` // relative to Root, later entries override earlier ones
	File       string   `toml:"file"`        // services.yaml, relative to Root
	Identity   string   `toml:"identity"`    // identity.yaml, relative to Root
	Base       string   `toml:"base"`        // module exporting the Application base class
}

// Default returns the configuration used when splice.toml is absent.
func Default() *Config {
	return &Config{
		Version:    SupportedMajor + ".0.0",
		Root:       ".",
		SourceDirs: []string{"src"},
		PagesRoot:  "src/client/pages",
		OutDir:     ".splice",
		Aliases: Aliases{
			"@/":       "src",
			"@client/": "src/client",
			"@server/": "src/server",
			"@common/": "src/common",
		},
		Services: Services{
			AppSource:       "@app",
			ModelsSource:    "@models",
			RequestSource:   "@request",
			Container:       []string{"Environment", "Identity"},
			ContainerModule: "@server/app/container",
			InstanceParam:   "app",
			ContextParam:    "context",
		},
		Routes: Routes{
			RouterServices: []string{"Router"},
			Methods:        []string{"page", "error", "get", "post", "put", "delete", "patch"},
			PagesGlob:      []string{"@/client/pages/**/*.tsx", "@client/pages/**/*.tsx"},
			APIPrefix:      "/api",
		},
		Injection: Injection{
			RequestScoped: map[string]string{
				"User":         "user",
				"Request":      "req",
				"Response":     "res",
				"NextFunction": "next",
			},
			ServiceGlob: "@/server/services/**",
		},
		Icons: Icons{
			Enabled: true,
			Pack:    "regular",
			Output:  "icons.d.ts",
		},
		Composition: Composition{
			SearchDirs: []string{"src/server/services"},
			File:       "src/server/services.yaml",
			Identity:   "identity.yaml",
			Base:       "@server/app/index",
		},
	}
}

// Load reads the configuration at path. A missing file yields the defaults
// rooted at the file's directory.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("resolve", path, err)
	}

	cfg := Default()
	data, err := os.ReadFile(abs)
	switch {
	case os.IsNotExist(err):
		cfg.Root = filepath.Dir(abs)
		return cfg, nil
	case err != nil:
		return nil, errors.WrapFileSystemError("read", abs, err)
	}

	if err := Decode(data, cfg); err != nil {
		cerr := errors.WrapConfigurationError("splice.toml", "parse", err)
		cerr.WithFile(abs)
		return nil, cerr
	}
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(abs), cfg.Root)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode merges TOML data over cfg. Fields absent from data keep their
// current value.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Validate checks the version and the fields every stage requires.
func (c *Config) Validate() error {
	v := c.Version
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		err := errors.NewConfigurationError("version", fmt.Sprintf("invalid configuration version %q", c.Version))
		err.WithSuggestions("Use a semantic version such as \"1.0.0\"")
		return err
	}
	if semver.Major(v) != SupportedMajor {
		return errors.NewConfigurationError("version",
			fmt.Sprintf("configuration version %s is not supported, expected %s.x", c.Version, SupportedMajor))
	}

	required := map[string]string{
		"pages_root":                c.PagesRoot,
		"out_dir":                   c.OutDir,
		"services.app_source":       c.Services.AppSource,
		"services.container_module": c.Services.ContainerModule,
		"services.instance_param":   c.Services.InstanceParam,
		"services.context_param":    c.Services.ContextParam,
	}
	keys := make([]string, 0, len(required))
	for k := range required {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if required[k] == "" {
			return errors.NewConfigurationError(k, fmt.Sprintf("%s must not be empty", k))
		}
	}
	if len(c.SourceDirs) == 0 {
		return errors.NewConfigurationError("source_dirs", "at least one source directory is required")
	}
	return nil
}

// Abs resolves a path relative to the project root.
func (c *Config) Abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Root, filepath.FromSlash(rel))
}

// PagesDir is the absolute pages root.
func (c *Config) PagesDir() string { return c.Abs(c.PagesRoot) }

// OutputDir is the absolute output directory.
func (c *Config) OutputDir() string { return c.Abs(c.OutDir) }

// GeneratedDir is where flushed artifacts are written.
func (c *Config) GeneratedDir() string { return filepath.Join(c.OutputDir(), "generated") }

// ResolveAlias maps an aliased import source onto an absolute path.
func (c *Config) ResolveAlias(source string) (string, bool) {
	target, ok := c.Aliases.Resolve(source)
	if !ok {
		return "", false
	}
	return c.Abs(target), true
}

// ImportPath maps an absolute directory back onto an aliased import
// source.
func (c *Config) ImportPath(dir string) (string, bool) {
	rel, err := filepath.Rel(c.Root, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return c.Aliases.Import(filepath.ToSlash(rel))
}

// VirtualSources lists the pseudo-module sources.
func (c *Config) VirtualSources() []string {
	return []string{c.Services.AppSource, c.Services.ModelsSource, c.Services.RequestSource}
}

// IsContainerService reports whether an @app name resolves through the
// container.
func (c *Config) IsContainerService(name string) bool {
	for _, n := range c.Services.Container {
		if n == name {
			return true
		}
	}
	return false
}
