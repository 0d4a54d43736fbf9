package globimport

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
	"github.com/toyz/splice/internal/registry"
)

// PagesOptions configures the page loader rule.
type PagesOptions struct {
	Sources   []string // glob sources the rule answers to, e.g. "@/client/pages/**/*.tsx"
	PagesRoot string   // absolute pages directory chunk ids are computed from
	Preload   []string // chunk ids imported eagerly
}

// PagesRule builds the client-side page loader. An aggregate import of the
// pages glob becomes an object mapping every page chunk id to a loader:
//
//	const routes = {
//	  "users_profile": () => import(/* webpackChunkName: "users_profile" */ "./pages/users/profile.tsx"),
//	  "main": main,
//	};
//
// Preloaded pages are imported synchronously through their __register
// export. Files under a _layout directory and files whose name starts with
// an uppercase letter (components) are not pages.
func PagesRule(opts PagesOptions) *registry.Rule {
	sources := make(map[string]bool, len(opts.Sources))
	for _, s := range opts.Sources {
		sources[s] = true
	}
	preload := make(map[string]bool, len(opts.Preload))
	for _, id := range opts.Preload {
		preload[id] = true
	}

	return &registry.Rule{
		Name: "pages",
		Test: func(req *models.GlobRequest) bool {
			return req.Side == models.Client && req.Kind == models.GlobImport && sources[req.Source]
		},
		Replace: func(req *models.GlobRequest, files []models.FileMatch) ([]jsast.Stmt, error) {
			local := req.Aggregate()
			if local == "" {
				return nil, nil
			}
			specifier := RelativeSpecifier(req.From)

			var imports []jsast.Stmt
			loaders := make([]jsast.ObjectMember, 0, len(files))
			for _, f := range files {
				if !IsPage(f.Path) {
					continue
				}
				chunkID := models.ChunkID(opts.PagesRoot, f.Path)
				spec := specifier(f)

				if preload[chunkID] {
					ident := jsast.SanitizeIdentifier(chunkID)
					imports = append(imports, jsast.ImportNamed(spec, [2]string{models.RegisterExport, ident}))
					loaders = append(loaders, &jsast.Property{Key: jsast.Str(chunkID), Value: jsast.Ident(ident)})
					continue
				}

				lit := jsast.Str(spec)
				lit.Comment = `webpackChunkName: "` + chunkID + `"`
				loader := jsast.Arrow(nil, &jsast.ImportCall{Arg: lit})
				loaders = append(loaders, &jsast.Property{Key: jsast.Str(chunkID), Value: loader})
			}

			return append(imports, jsast.Const(jsast.Ident(local), jsast.Obj(loaders...))), nil
		},
	}
}

// IsPage reports whether a file under the pages directory defines a page.
func IsPage(file string) bool {
	slashed := filepath.ToSlash(file)
	if strings.Contains(slashed, "/_layout/") {
		return false
	}
	base := filepath.Base(file)
	for _, r := range base {
		return !unicode.IsUpper(r)
	}
	return false
}
