package globimport

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Pattern is a parsed glob. Every wildcard segment becomes one capturing
// group of the compiled expression, in source order.
type Pattern struct {
	Segments []*Segment `parser:"@@*"`
}

// Segment is one element of a glob.
type Segment struct {
	Globstar bool         `parser:"  @Globstar"`
	Star     bool         `parser:"| @Star"`
	Any      bool         `parser:"| @Question"`
	Class    *string      `parser:"| @Class"`
	Alt      *Alternation `parser:"| @@"`
	Literal  *string      `parser:"| @(Literal | Comma | RBrace)"`
}

// Alternation is `{a,b,c}`.
type Alternation struct {
	Options []string `parser:"LBrace @Literal ( Comma @Literal )* RBrace"`
}

var globParser = participle.MustBuild[Pattern](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Globstar", Pattern: `\*\*`},
		{Name: "Star", Pattern: `\*`},
		{Name: "Question", Pattern: `\?`},
		{Name: "Class", Pattern: `\[[^\]]+\]`},
		{Name: "LBrace", Pattern: `\{`},
		{Name: "RBrace", Pattern: `\}`},
		{Name: "Comma", Pattern: `,`},
		{Name: "Literal", Pattern: `[^*?\[{},]+`},
	})),
	participle.UseLookahead(2),
)

// IsGlob reports whether source contains a wildcard.
func IsGlob(source string) bool {
	return strings.ContainsAny(source, "*?[{")
}

// ParsePattern parses a slash separated glob.
func ParsePattern(glob string) (*Pattern, error) {
	p, err := globParser.ParseString("", glob)
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", glob, err)
	}
	return p, nil
}

// Wildcards returns the number of capturing segments.
func (p *Pattern) Wildcards() int {
	n := 0
	for _, s := range p.Segments {
		if s.Literal == nil {
			n++
		}
	}
	return n
}

// Regexp compiles the pattern into an anchored expression with one group
// per wildcard. `**` followed by a slash matches zero or more whole
// directories and captures them without the trailing slash.
func (p *Pattern) Regexp() (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	trimSlash := false
	for i, s := range p.Segments {
		switch {
		case s.Globstar:
			next := p.next(i)
			if next != nil && next.Literal != nil && strings.HasPrefix(*next.Literal, "/") {
				b.WriteString(`(?:(.*)/)?`)
				trimSlash = true
				continue
			}
			b.WriteString(`(.*)`)
		case s.Star:
			b.WriteString(`([^/]*)`)
		case s.Any:
			b.WriteString(`([^/])`)
		case s.Class != nil:
			class := *s.Class
			if strings.HasPrefix(class, "[!") {
				class = "[^" + class[2:]
			}
			b.WriteString("(" + class + ")")
		case s.Alt != nil:
			quoted := make([]string, len(s.Alt.Options))
			for j, o := range s.Alt.Options {
				quoted[j] = regexp.QuoteMeta(o)
			}
			b.WriteString("(" + strings.Join(quoted, "|") + ")")
		default:
			lit := *s.Literal
			if trimSlash {
				lit = strings.TrimPrefix(lit, "/")
			}
			b.WriteString(regexp.QuoteMeta(lit))
		}
		trimSlash = false
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

func (p *Pattern) next(i int) *Segment {
	if i+1 < len(p.Segments) {
		return p.Segments[i+1]
	}
	return nil
}

// SplitRoot separates an absolute glob into the directory holding every
// match and the pattern relative to it. The root ends at the last separator
// before the first wildcard.
func SplitRoot(glob string) (root, rest string) {
	first := strings.IndexAny(glob, "*?[{")
	if first < 0 {
		first = len(glob)
	}
	slash := strings.LastIndex(glob[:first], "/")
	if slash < 0 {
		return ".", glob
	}
	if slash == 0 {
		return "/", glob[1:]
	}
	return glob[:slash], glob[slash+1:]
}
