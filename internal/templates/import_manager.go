package templates

import (
	"fmt"
	"strings"

	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
)

// ImportManager collects the default imports of a generated module,
// deduplicating repeats and rejecting two sources bound to one name.
type ImportManager struct {
	order   []string
	sources map[string]string // local name -> source
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{sources: make(map[string]string)}
}

// AddDefault records `import local from "source"`. Adding the same pair
// again is a no-op.
func (im *ImportManager) AddDefault(local, source string) error {
	if !jsast.IsValidBinding(local) {
		return errors.NewConfigurationError(local, fmt.Sprintf("'%s' is not a valid import name", local))
	}
	if existing, ok := im.sources[local]; ok {
		if existing == source {
			return nil
		}
		err := errors.NewConfigurationError(local,
			fmt.Sprintf("import name '%s' is bound to both %q and %q", local, existing, source))
		err.WithSuggestions("Give one of the services a different name in its service.json")
		return err
	}
	im.sources[local] = source
	im.order = append(im.order, local)
	return nil
}

// Len returns the number of distinct imports.
func (im *ImportManager) Len() int {
	return len(im.order)
}

// Lines renders the imports in the order they were first added.
func (im *ImportManager) Lines() []string {
	lines := make([]string, len(im.order))
	for i, local := range im.order {
		lines[i] = jsast.Print(jsast.ImportDefault(local, im.sources[local]))
	}
	return lines
}

// GenerateImports renders the import section.
func (im *ImportManager) GenerateImports() string {
	if len(im.order) == 0 {
		return ""
	}
	return strings.Join(im.Lines(), "\n") + "\n"
}
