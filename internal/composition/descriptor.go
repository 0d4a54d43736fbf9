package composition

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"github.com/toyz/splice/internal/config"
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/utils"
)

// DescriptorFile marks a directory as a service implementation.
const DescriptorFile = "service.json"

// Descriptor is a parsed service.json.
type Descriptor struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"` // class name the service is imported as
	ParentID     string   `json:"parentId,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`

	ImportPath string `json:"-"`
	File       string `json:"-"`
}

// Root is a search directory and the import source its subdirectories are
// reachable under.
type Root struct {
	Dir    string
	Prefix string
}

// RootsFrom returns the configured search roots, least significant first.
func RootsFrom(cfg *config.Config) ([]Root, error) {
	roots := make([]Root, 0, len(cfg.Composition.SearchDirs))
	for _, dir := range cfg.Composition.SearchDirs {
		abs := cfg.Abs(dir)
		prefix, ok := cfg.ImportPath(abs)
		if !ok {
			err := errors.NewConfigurationError("composition.search_dirs",
				fmt.Sprintf("no import alias covers the service directory %s", dir))
			err.WithSuggestions("Add an alias for the directory under [aliases] in splice.toml")
			return nil, err
		}
		roots = append(roots, Root{Dir: abs, Prefix: prefix})
	}
	return roots, nil
}

var (
	idPattern = `^[A-Za-z][\w-]*(/[A-Za-z][\w-]*)*$`

	validateID   = utils.NewValidatorChain(utils.NotEmpty("id"), utils.MatchesRegex("id", idPattern))
	validateName = utils.NewValidatorChain(utils.NotEmpty("name")).
			Add(utils.Custom("name", "must be a valid identifier", jsast.IsValidBinding))
	validateParent = utils.Conditional(func(s string) bool { return s != "" }, utils.MatchesRegex("parentId", idPattern))
	validateDeps   = utils.ValidateEach("dependencies", utils.MatchesRegex("dependency", idPattern))
)

func (d *Descriptor) validate() error {
	if err := validateID.Validate(d.ID); err != nil {
		return err
	}
	if err := validateName.Validate(d.Name); err != nil {
		return err
	}
	if err := validateParent(d.ParentID); err != nil {
		return err
	}
	return validateDeps(d.Dependencies)
}

// Catalog indexes the discovered descriptors by id.
type Catalog struct {
	entries *utils.BaseRegistry[string, *Descriptor]
}

func newCatalog() *Catalog {
	entries := utils.NewBaseRegistry[string, *Descriptor]("service catalog", "service id", "descriptor")
	entries.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[*Descriptor]("service id"),
		utils.NotNilValueValidator[string, Descriptor]("descriptor"),
	))
	return &Catalog{entries: entries}
}

// Lookup returns the descriptor registered under id.
func (c *Catalog) Lookup(id string) (*Descriptor, bool) {
	return c.entries.Get(id)
}

// IDs returns the known ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := c.entries.List()
	slices.Sort(ids)
	return ids
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int {
	return c.entries.Size()
}

// Discover walks roots for service.json descriptors. A descriptor found
// under a later root replaces one with the same id from an earlier root.
func Discover(fp *utils.FileProcessor, roots ...Root) (*Catalog, error) {
	catalog := newCatalog()
	for _, root := range roots {
		files, err := fp.WalkFiles(root.Dir, utils.FileWalkOptions{
			FileFilter:      utils.NamedFileFilter(DescriptorFile),
			DirectoryFilter: utils.DefaultDirectoryFilter(),
		})
		if err != nil {
			return nil, errors.WrapFileSystemError("walk", root.Dir, err)
		}
		for _, file := range files {
			desc, err := readDescriptor(fp, file)
			if err != nil {
				return nil, err
			}
			desc.ImportPath = importPath(root, filepath.Dir(file))
			if err := catalog.entries.Register(desc.ID, desc); err != nil {
				return nil, err
			}
		}
	}
	return catalog, nil
}

func readDescriptor(fp *utils.FileProcessor, file string) (*Descriptor, error) {
	data, err := fp.ReadFile(file)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", file, err)
	}
	var desc Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		cerr := errors.WrapConfigurationError(DescriptorFile, "parse", err)
		cerr.WithFile(file)
		return nil, cerr
	}
	if err := desc.validate(); err != nil {
		cerr := errors.WrapConfigurationError(DescriptorFile, "validate", err)
		cerr.WithFile(file)
		return nil, cerr
	}
	desc.File = file
	return &desc, nil
}

func importPath(root Root, dir string) string {
	prefix := strings.TrimSuffix(root.Prefix, "/")
	rel, err := filepath.Rel(root.Dir, dir)
	if err != nil || rel == "." {
		return prefix
	}
	return prefix + "/" + filepath.ToSlash(rel)
}
