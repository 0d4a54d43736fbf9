package globimport

import (
	"path/filepath"
	"strings"

	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
)

// Transform expands every glob import declaration and glob require call of
// file in place. It returns the number of requests expanded.
func (e *Expander) Transform(file *models.SourceFile) (int, error) {
	var (
		count   int
		failure error
	)
	specifier := RelativeSpecifier(file.Path)

	jsast.Apply(file.Program, func(c *jsast.Cursor) bool {
		switch n := c.Node().(type) {
		case *jsast.ImportDecl:
			if n.TypeOnly || !IsGlob(n.Source.Value) {
				return false
			}
			req := importRequest(file, n)
			stmts, err := e.expandImport(req, specifier)
			if err != nil {
				failure = err
				return false
			}
			nodes := make([]jsast.Node, len(stmts))
			for i, s := range stmts {
				nodes[i] = s
			}
			c.ReplaceWithMultiple(nodes...)
			count++
			return false

		case *jsast.CallExpr:
			source, ok := requireSource(n)
			if !ok || !IsGlob(source) {
				return true
			}
			req := &models.GlobRequest{Source: source, From: file.Path, Kind: models.GlobRequire, Side: file.Side}
			expr, err := e.expandRequire(req, specifier)
			if err != nil {
				failure = err
				return false
			}
			if expr == nil {
				return true
			}
			c.Replace(expr)
			count++
			return false
		}
		return true
	}, func(*jsast.Cursor) bool { return failure == nil })

	return count, failure
}

func (e *Expander) expandImport(req *models.GlobRequest, specifier func(models.FileMatch) string) ([]jsast.Stmt, error) {
	exp, err := e.Expand(req)
	if err != nil || exp == nil {
		return nil, err
	}
	if exp.Replace != nil {
		stmts, err := exp.Replace(req, exp.Files)
		if err != nil || stmts != nil {
			return stmts, err
		}
	}
	return DefaultImports(req, exp.Files, specifier)
}

func (e *Expander) expandRequire(req *models.GlobRequest, specifier func(models.FileMatch) string) (jsast.Expr, error) {
	exp, err := e.Expand(req)
	if err != nil || exp == nil {
		return nil, err
	}
	if exp.Replace != nil {
		stmts, err := exp.Replace(req, exp.Files)
		if err != nil {
			return nil, err
		}
		if len(stmts) == 1 {
			if stmt, ok := stmts[0].(*jsast.ExprStmt); ok {
				return stmt.Expr, nil
			}
		}
	}
	return DefaultRequire(exp.Files, specifier), nil
}

func importRequest(file *models.SourceFile, decl *jsast.ImportDecl) *models.GlobRequest {
	req := &models.GlobRequest{
		Source: decl.Source.Value,
		From:   file.Path,
		Kind:   models.GlobImport,
		Side:   file.Side,
	}
	if decl.Default != nil {
		req.Default = decl.Default.Name
	}
	if decl.Namespace != nil {
		req.Namespace = decl.Namespace.Name
	}
	for _, s := range decl.Specifiers {
		if s.TypeOnly {
			continue
		}
		req.Named = append(req.Named, models.NamedSpecifier{Imported: s.Imported, Local: s.Local.Name})
	}
	return req
}

func requireSource(call *jsast.CallExpr) (string, bool) {
	if !jsast.IsIdent(call.Callee, "require") || len(call.Args) != 1 {
		return "", false
	}
	lit, ok := call.Args[0].(*jsast.StringLit)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// RelativeSpecifier returns a function producing the import specifier of a
// match as seen from the file at from: a slash separated relative path that
// always starts with "./" or "../". Generated output mirrors the source
// tree, so relative specifiers stay valid after the file is written out.
func RelativeSpecifier(from string) func(models.FileMatch) string {
	dir := filepath.Dir(from)
	return func(m models.FileMatch) string {
		rel, err := filepath.Rel(dir, m.Path)
		if err != nil {
			return filepath.ToSlash(m.Path)
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, "../") {
			rel = "./" + rel
		}
		return rel
	}
}
