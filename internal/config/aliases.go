package config

import (
	"path"
	"strings"
)

// Aliases maps import prefixes such as "@/" or "@server/" to directories.
// A key without a trailing slash matches only the exact source.
type Aliases map[string]string

// Resolve rewrites source with the longest matching prefix. The returned
// path is slash separated and relative to whatever the targets are
// relative to.
func (a Aliases) Resolve(source string) (string, bool) {
	best := ""
	for prefix := range a {
		matches := source == prefix || (strings.HasSuffix(prefix, "/") && strings.HasPrefix(source, prefix))
		if matches && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return "", false
	}
	rest := strings.TrimPrefix(source, best)
	if rest == "" {
		return a[best], true
	}
	return path.Join(a[best], rest), true
}

// Import is the inverse of Resolve: it returns the aliased source for dir,
// using the alias whose target is the longest prefix of dir. Ties go to the
// lexically smallest prefix.
func (a Aliases) Import(dir string) (string, bool) {
	dir = path.Clean(dir)
	bestPrefix, bestTarget := "", ""
	for prefix, target := range a {
		if !strings.HasSuffix(prefix, "/") {
			continue
		}
		target = path.Clean(target)
		if dir != target && !strings.HasPrefix(dir, target+"/") {
			continue
		}
		if bestPrefix == "" || len(target) > len(bestTarget) ||
			(len(target) == len(bestTarget) && prefix < bestPrefix) {
			bestPrefix, bestTarget = prefix, target
		}
	}
	if bestPrefix == "" {
		return "", false
	}
	return bestPrefix + strings.TrimPrefix(strings.TrimPrefix(dir, bestTarget), "/"), true
}
