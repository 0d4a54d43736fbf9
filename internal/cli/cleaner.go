package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/models"
	"github.com/toyz/splice/internal/utils"
)

// Cleaner removes the directories the compiler writes.
type Cleaner struct {
	files *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner(files *utils.FileProcessor) *Cleaner {
	return &Cleaner{files: files}
}

// Clean removes the per side output trees and the generated directory of
// cfg. Anything else in the output directory is left alone; the output
// directory itself goes once it is empty. It returns the directories
// removed.
func (c *Cleaner) Clean(cfg *config.Config) ([]string, error) {
	var targets []string
	for _, side := range models.Sides {
		targets = append(targets, filepath.Join(cfg.OutputDir(), side.String()))
	}
	targets = append(targets, cfg.GeneratedDir())

	var removed []string
	for _, dir := range targets {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		if _, err := c.files.CleanDirectory(dir); err != nil {
			return removed, fmt.Errorf("failed to clean directory %s: %w", dir, err)
		}
		if err := os.Remove(dir); err != nil {
			return removed, errors.WrapFileSystemError("remove", dir, err)
		}
		removed = append(removed, dir)
	}

	if entries, err := os.ReadDir(cfg.OutputDir()); err == nil && len(entries) == 0 {
		if err := os.Remove(cfg.OutputDir()); err != nil {
			return removed, errors.WrapFileSystemError("remove", cfg.OutputDir(), err)
		}
	}
	return removed, nil
}
