package cli

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/models"
	"github.com/toyz/splice/internal/utils"
)

// roleRules assign roles from the project path of a file. The first match
// wins.
var roleRules = []struct {
	pattern string
	role    models.Role
}{
	{"**/client/pages/**", models.RouteFront},
	{"**/server/routes/**", models.RouteBack},
	{"**/server/services/**", models.Service},
	{"**/server/models/**", models.Model},
	{"**/server/config/**", models.Config},
}

// clientPatterns select the plain files compiled for the browser.
var clientPatterns = []string{"**/client/**", "**/common/**"}

// Source is a discovered source file.
type Source struct {
	Path string      // absolute
	Rel  string      // relative to the project root, slash separated
	Role models.Role // from the path conventions
}

// OnSide reports whether the file belongs to the pass for side. The server
// pass compiles everything.
func (s Source) OnSide(side models.Side) bool {
	if side == models.Server || s.Role == models.RouteFront {
		return true
	}
	if s.Role != models.Plain {
		return false
	}
	for _, p := range clientPatterns {
		if ok, _ := doublestar.Match(p, s.Rel); ok {
			return true
		}
	}
	return false
}

// RoleOf returns the role of the file at rel, a slash separated path
// relative to the project root.
func RoleOf(rel string) models.Role {
	for _, r := range roleRules {
		if ok, _ := doublestar.Match(r.pattern, rel); ok {
			return r.role
		}
	}
	return models.Plain
}

// Scanner discovers the source files of a project.
type Scanner struct {
	cfg   *config.Config
	files *utils.FileProcessor
}

// NewScanner creates a scanner over the source dirs of cfg.
func NewScanner(cfg *config.Config, files *utils.FileProcessor) *Scanner {
	return &Scanner{cfg: cfg, files: files}
}

// Scan walks every source dir and returns the files found, in walk order.
// A file reachable from two source dirs is reported once.
func (s *Scanner) Scan() ([]Source, error) {
	opts := utils.FileWalkOptions{
		FileFilter:      utils.SourceFileFilter(),
		DirectoryFilter: utils.DefaultDirectoryFilter(s.cfg.OutputDir()),
	}

	seen := make(map[string]bool)
	var sources []Source
	for _, dir := range s.cfg.SourceDirs {
		paths, err := s.files.WalkFiles(s.cfg.Abs(dir), opts)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			if seen[path] {
				continue
			}
			seen[path] = true

			rel, err := filepath.Rel(s.cfg.Root, path)
			if err != nil {
				return nil, errors.WrapFileSystemError("relative path", path, err)
			}
			rel = filepath.ToSlash(rel)
			sources = append(sources, Source{Path: path, Rel: rel, Role: RoleOf(rel)})
		}
	}
	return sources, nil
}
