package globimport

import (
	"path"
	"strings"

	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
)

// CaptureKey joins the non-empty captured segments of a match with "_".
// It is the key a match is listed under in an aggregate object.
func CaptureKey(m models.FileMatch) string {
	parts := make([]string, 0, len(m.Captures))
	for _, c := range m.Captures {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "_")
}

// baseName is the file name without its extension.
func baseName(p string) string {
	base := path.Base(p)
	if ext := path.Ext(base); ext != "" && ext != base {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// DefaultImports is the expansion used when no rule replaces an import.
//
//	import "./x/*.ts"                      one side-effect import per file
//	import { a, b as c } from "./x/*.ts"   files named a and b, bound to a and c
//	import all from "./x/*.ts"             all_<key> per file plus const all = { "<key>": all_<key> }
//	import * as all from "./x/*.ts"        same, with namespace imports
//
// Two matches that produce the same generated identifier are reported as a
// GlobCollisionError.
func DefaultImports(req *models.GlobRequest, files []models.FileMatch, specifier func(models.FileMatch) string) ([]jsast.Stmt, error) {
	if specifier == nil {
		specifier = func(m models.FileMatch) string { return m.Path }
	}

	var out []jsast.Stmt
	if req.Bare() {
		for _, f := range files {
			out = append(out, jsast.ImportSideEffect(specifier(f)))
		}
		return out, nil
	}

	byName := make(map[string]models.FileMatch, len(files))
	for _, f := range files {
		byName[baseName(f.Rel)] = f
	}
	for _, spec := range req.Named {
		if f, ok := byName[spec.Imported]; ok {
			out = append(out, jsast.ImportDefault(spec.Local, specifier(f)))
		}
	}

	aggregate := req.Aggregate()
	if aggregate == "" {
		return out, nil
	}

	seen := make(map[string]models.FileMatch, len(files))
	props := make([]jsast.ObjectMember, 0, len(files))
	for _, f := range files {
		key := CaptureKey(f)
		ident := jsast.SanitizeIdentifier(aggregate + "_" + key)
		if prev, dup := seen[ident]; dup {
			err := errors.NewGlobCollisionError(ident, prev.Path, f.Path)
			err.WithFile(req.From).WithContext("source", req.Source)
			return nil, err
		}
		seen[ident] = f

		decl := &jsast.ImportDecl{Source: jsast.Str(specifier(f))}
		if req.Namespace != "" {
			decl.Namespace = jsast.Ident(ident)
		} else {
			decl.Default = jsast.Ident(ident)
		}
		out = append(out, decl)
		props = append(props, &jsast.Property{Key: jsast.Str(key), Value: jsast.Ident(ident)})
	}
	out = append(out, jsast.Const(jsast.Ident(aggregate), jsast.Obj(props...)))
	return out, nil
}

// DefaultRequire is the expansion of require("<glob>"): an array holding
// one require call per file.
func DefaultRequire(files []models.FileMatch, specifier func(models.FileMatch) string) jsast.Expr {
	if specifier == nil {
		specifier = func(m models.FileMatch) string { return m.Path }
	}
	elems := make([]jsast.Expr, 0, len(files))
	for _, f := range files {
		elems = append(elems, jsast.Call(jsast.Ident("require"), jsast.Str(specifier(f))))
	}
	return &jsast.ArrayExpr{Elems: elems}
}
