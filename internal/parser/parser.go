// Package parser turns TypeScript, TSX and JavaScript source into jsast
// trees using tree-sitter grammars.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
)

// Dialect selects the grammar a file is parsed with.
type Dialect int

const (
	TSX Dialect = iota
	TypeScript
	JavaScript
)

func (d Dialect) String() string {
	switch d {
	case TypeScript:
		return "typescript"
	case JavaScript:
		return "javascript"
	default:
		return "tsx"
	}
}

// DialectFor picks the grammar from a file extension. Plain .ts files use
// the TypeScript grammar so that `<T>expr` assertions parse; everything
// else that may hold JSX uses TSX or JavaScript.
func DialectFor(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return TypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return JavaScript
	default:
		return TSX
	}
}

// Parser wraps a tree-sitter parser for one dialect. It is not safe for
// concurrent use; each compilation pass owns its parsers.
type Parser struct {
	ts      *tree_sitter.Parser
	dialect Dialect
}

// New creates a parser for dialect.
func New(dialect Dialect) (*Parser, error) {
	var language *tree_sitter.Language
	switch dialect {
	case TypeScript:
		language = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case JavaScript:
		language = tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	default:
		language = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	}

	ts := tree_sitter.NewParser()
	if err := ts.SetLanguage(language); err != nil {
		ts.Close()
		return nil, fmt.Errorf("failed to load %s grammar: %w", dialect, err)
	}
	return &Parser{ts: ts, dialect: dialect}, nil
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	p.ts.Close()
}

// Parse converts src into a Program. Source that tree-sitter could only
// parse with error recovery is rejected with a SyntaxError pointing at the
// first error node.
func (p *Parser) Parse(path string, src []byte) (*jsast.Program, error) {
	tree := p.ts.Parse(src, nil)
	if tree == nil {
		return nil, errors.WrapParseError(path, fmt.Errorf("%s parser returned no tree", p.dialect))
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(path, src, root)
	}

	c := &converter{src: src}
	return c.program(root), nil
}

// Parse parses a single file with the dialect chosen from its extension.
func Parse(path string, src []byte) (*jsast.Program, error) {
	p, err := New(DialectFor(path))
	if err != nil {
		return nil, errors.WrapParseError(path, err)
	}
	defer p.Close()
	return p.Parse(path, src)
}

// Set keeps one Parser per dialect so a pass can parse mixed files without
// reloading grammars.
type Set struct {
	parsers map[Dialect]*Parser
}

// NewSet creates an empty parser set.
func NewSet() *Set {
	return &Set{parsers: make(map[Dialect]*Parser)}
}

// Parse parses src with the parser for path's dialect, creating it on
// first use.
func (s *Set) Parse(path string, src []byte) (*jsast.Program, error) {
	dialect := DialectFor(path)
	p, ok := s.parsers[dialect]
	if !ok {
		var err error
		if p, err = New(dialect); err != nil {
			return nil, errors.WrapParseError(path, err)
		}
		s.parsers[dialect] = p
	}
	return p.Parse(path, src)
}

// Close releases every parser in the set.
func (s *Set) Close() {
	for dialect, p := range s.parsers {
		p.Close()
		delete(s.parsers, dialect)
	}
}

func syntaxError(path string, src []byte, root *tree_sitter.Node) error {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	pos := bad.StartPosition()
	snippet := string(src[bad.StartByte():bad.EndByte()])
	if i := strings.IndexByte(snippet, '\n'); i >= 0 {
		snippet = snippet[:i]
	}
	if bad.IsMissing() {
		snippet = "missing " + bad.Kind()
	}
	return errors.NewSyntaxError(path, int(pos.Row)+1, int(pos.Column)+1, snippet)
}

func firstError(n *tree_sitter.Node) *tree_sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if found := firstError(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
