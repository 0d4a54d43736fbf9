package models

import (
	"path/filepath"

	"github.com/toyz/splice/internal/jsast"
)

// Role says which rewriting stages apply to a source file.
type Role int

const (
	Plain      Role = iota
	RouteFront      // client/pages/**: page definitions rendered in the browser
	RouteBack       // server/routes/**: API definitions
	Service         // server/services/**
	Model           // server/models/**
	Config          // server/config/**
)

func (r Role) String() string {
	switch r {
	case RouteFront:
		return "route-front"
	case RouteBack:
		return "route-back"
	case Service:
		return "service"
	case Model:
		return "model"
	case Config:
		return "config"
	}
	return "plain"
}

// Side is the compilation pass a file is processed for.
type Side int

const (
	Client Side = iota
	Server
)

func (s Side) String() string {
	if s == Server {
		return "server"
	}
	return "client"
}

// Sides lists every pass in the order the compiler reports them.
var Sides = []Side{Client, Server}

// SourceFile is one file being rewritten during a pass
type SourceFile struct {
	Path    string         // absolute path, the file identity
	Root    string         // project root the file was discovered under
	RelPath string         // path relative to Root, slash separated
	Role    Role           // stage selection
	Side    Side           // pass the file is processed for
	Source  []byte         // raw text as read from disk
	Program *jsast.Program // parsed tree, mutated in place by the stages
}

// NewSourceFile creates a SourceFile for path under root.
func NewSourceFile(root, path string, role Role, side Side, src []byte) *SourceFile {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return &SourceFile{
		Path:    path,
		Root:    root,
		RelPath: filepath.ToSlash(rel),
		Role:    role,
		Side:    side,
		Source:  src,
	}
}

// Dir returns the directory holding the file.
func (f *SourceFile) Dir() string {
	return filepath.Dir(f.Path)
}
