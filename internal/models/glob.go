package models

// GlobKind distinguishes `import ... from "<glob>"` from `require("<glob>")`.
type GlobKind int

const (
	GlobImport GlobKind = iota
	GlobRequire
)

func (k GlobKind) String() string {
	if k == GlobRequire {
		return "require"
	}
	return "import"
}

// NamedSpecifier is one `{ Imported as Local }` entry of a glob import.
type NamedSpecifier struct {
	Imported string
	Local    string
}

// GlobRequest is one glob import or require found in a source file
type GlobRequest struct {
	Source    string           // raw pattern as written
	From      string           // absolute path of the importing file
	Kind      GlobKind         // import or require
	Default   string           // local name of a default specifier
	Namespace string           // local name of a namespace specifier
	Named     []NamedSpecifier // named specifiers in source order
	Side      Side             // pass the request was found in
	Root      string           // directory the pattern is matched under, set by the expander
	Matches   []FileMatch      // computed once by the expander
}

// Bare reports whether the import has no specifiers at all.
func (r *GlobRequest) Bare() bool {
	return r.Default == "" && r.Namespace == "" && len(r.Named) == 0
}

// Aggregate returns the local name the matches are gathered under, from a
// default or a namespace specifier.
func (r *GlobRequest) Aggregate() string {
	if r.Namespace != "" {
		return r.Namespace
	}
	return r.Default
}

// FileMatch is one file matched by a glob request
type FileMatch struct {
	Path     string   // absolute path
	Rel      string   // path relative to the request root, slash separated
	Captures []string // one entry per wildcard of the pattern, in order
}
