package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileProcessor walks source trees and reads files through a content cache.
type FileProcessor struct {
	contents *Cache[string, []byte]
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{contents: NewCache[string, []byte]()}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// SourceExtensions are the extensions rewritten by the compiler.
var SourceExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// SourceFileFilter accepts files with one of exts, leaving out declaration
// files.
func SourceFileFilter(exts ...string) FileFilter {
	if len(exts) == 0 {
		exts = SourceExtensions
	}
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		if strings.HasSuffix(name, ".d.ts") {
			return false
		}
		ext := filepath.Ext(name)
		for _, e := range exts {
			if ext == e {
				return true
			}
		}
		return false
	}
}

// NamedFileFilter accepts files called name.
func NamedFileFilter(name string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		return !info.IsDir() && info.Name() == name
	}
}

// DefaultDirectoryFilter skips dependency and hidden directories, plus the
// absolute paths in skip.
func DefaultDirectoryFilter(skip ...string) DirectoryFilter {
	skipDirs := map[string]bool{
		"node_modules": true,
		"vendor":       true,
		"dist":         true,
	}
	skipPaths := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipPaths[filepath.Clean(p)] = true
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}
		if skipPaths[filepath.Clean(path)] {
			return false
		}

		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skipDirs[name]
	}
}

// WalkFiles returns the files under rootDir accepted by the filters, in
// lexical order. A missing rootDir yields no files.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == rootDir && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if d.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, d) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, d) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("directory walk %s", rootDir), err)
	}
	return matchedFiles, nil
}

// ReadFile returns the content of filePath, served from the cache while the
// file is unchanged on disk.
func (fp *FileProcessor) ReadFile(filePath string) ([]byte, error) {
	if data, ok := fp.contents.GetWithFileValidation(filePath, filePath); ok {
		return data, nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if err := fp.contents.SetWithFileInfo(filePath, data, filePath); err != nil {
		return nil, err
	}
	return data, nil
}

// Invalidate drops the cached content of filePath.
func (fp *FileProcessor) Invalidate(filePath string) {
	fp.contents.Delete(filePath)
}

// CleanDirectory removes everything inside dir and returns the top-level
// entries it removed. A missing dir is not an error.
func (fp *FileProcessor) CleanDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("directory read %s", dir), err)
	}

	var removed []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return removed, WrapProcessError(fmt.Sprintf("file removal %s", path), err)
		}
		removed = append(removed, path)
	}
	fp.contents.Clear()
	return removed, nil
}
