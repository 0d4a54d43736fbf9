package models

import (
	"path"
	"path/filepath"
	"strings"
)

var scriptExtensions = map[string]bool{".ts": true, ".tsx": true, ".js": true, ".jsx": true}

// PagePath returns the slash separated path of a page relative to
// pagesRoot, without its script extension or trailing index segment. The
// root page yields "". Files outside pagesRoot are reduced to their base
// name.
func PagePath(pagesRoot, file string) string {
	rel, err := filepath.Rel(pagesRoot, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(file)
	}
	rel = filepath.ToSlash(rel)

	if ext := path.Ext(rel); scriptExtensions[ext] {
		rel = strings.TrimSuffix(rel, ext)
		if rel == "index" {
			return ""
		}
		rel = strings.TrimSuffix(rel, "/index")
	}
	return rel
}

// ChunkID derives the code-split chunk identifier of a page file.
//
//	landing/index.tsx -> landing
//	users/profile.tsx -> users_profile
//	index.tsx         -> main
func ChunkID(pagesRoot, file string) string {
	id := strings.ReplaceAll(PagePath(pagesRoot, file), "/", "_")
	if id == "" {
		return "main"
	}
	return id
}
