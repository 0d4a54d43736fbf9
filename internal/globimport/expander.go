// Package globimport expands import and require specifiers containing
// wildcards into one module reference per matched file.
package globimport

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"

	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/models"
	"github.com/toyz/splice/internal/registry"
)

// AliasResolver maps a non-relative import source onto an absolute glob.
type AliasResolver func(source string) (string, bool)

// Expansion is the outcome of expanding one request.
type Expansion struct {
	Files   []models.FileMatch
	Replace registry.Transformer // nil when no rule matched
	Rule    string
}

// Expander resolves glob requests against the file system. Match results
// are cached per absolute pattern so a pass only lists each directory tree
// once.
type Expander struct {
	rules   registry.RuleMatcher
	aliases AliasResolver

	mu    sync.Mutex
	cache map[string][]models.FileMatch
}

// NewExpander creates an expander. rules and aliases may be nil.
func NewExpander(rules registry.RuleMatcher, aliases AliasResolver) *Expander {
	return &Expander{
		rules:   rules,
		aliases: aliases,
		cache:   make(map[string][]models.FileMatch),
	}
}

// Expand lists the files matched by req. It returns nil for sources that
// are not globs and an empty expansion when nothing matches, the root
// directory does not exist or the source resolves to no directory at all.
// req.Root and req.Matches are filled in; req.Root stays empty for
// unresolvable sources.
func (e *Expander) Expand(req *models.GlobRequest) (*Expansion, error) {
	if !IsGlob(req.Source) {
		return nil, nil
	}

	var files []models.FileMatch
	if abs, ok := e.absolute(req); ok {
		root, rest := SplitRoot(abs)
		req.Root = filepath.FromSlash(root)

		var err error
		if files, err = e.match(root, rest); err != nil {
			return nil, err
		}
	}

	from := filepath.Clean(req.From)
	matches := make([]models.FileMatch, 0, len(files))
	for _, f := range files {
		if f.Path == from {
			continue
		}
		matches = append(matches, f)
	}
	req.Matches = matches

	exp := &Expansion{Files: matches}
	if e.rules != nil {
		if rule, ok := e.rules.Match(req); ok {
			exp.Replace = rule.Replace
			exp.Rule = rule.Name
		}
	}
	return exp, nil
}

func (e *Expander) absolute(req *models.GlobRequest) (string, bool) {
	source := req.Source
	if strings.HasPrefix(source, ".") {
		dir := filepath.ToSlash(filepath.Dir(req.From))
		return path.Join(dir, source), true
	}
	if e.aliases != nil {
		if resolved, ok := e.aliases(source); ok {
			return filepath.ToSlash(resolved), true
		}
	}
	if path.IsAbs(source) {
		return source, true
	}
	return "", false
}

func (e *Expander) match(root, rest string) ([]models.FileMatch, error) {
	key := root + "\x00" + rest
	e.mu.Lock()
	cached, ok := e.cache[key]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	files, err := Match(root, rest)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[key] = files
	e.mu.Unlock()
	return files, nil
}

// Match lists the files under root matched by the relative pattern rest,
// with their captured segments, in natural order of their relative path.
func Match(root, rest string) ([]models.FileMatch, error) {
	pattern, err := ParsePattern(rest)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigurationErrorCode, "invalid glob import", err)
	}
	re, err := pattern.Regexp()
	if err != nil {
		return nil, errors.Wrap(errors.ConfigurationErrorCode, "invalid glob import", err)
	}

	info, err := os.Stat(filepath.FromSlash(root))
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	rels, err := doublestar.Glob(os.DirFS(filepath.FromSlash(root)), rest, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.WrapFileSystemError("list", root, err)
	}
	sort.Slice(rels, func(i, j int) bool { return natural.Less(rels[i], rels[j]) })

	var files []models.FileMatch
	for _, rel := range rels {
		groups := re.FindStringSubmatch(rel)
		if groups == nil {
			continue
		}
		files = append(files, models.FileMatch{
			Path:     filepath.Join(filepath.FromSlash(root), filepath.FromSlash(rel)),
			Rel:      rel,
			Captures: groups[1:],
		})
	}
	return files, nil
}
