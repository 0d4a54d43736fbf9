package composition

import (
	"github.com/toyz/splice/internal/errors"
	"github.com/toyz/splice/internal/utils"
)

// Registry holds the registrations of one composition keyed by service id.
// An id can be registered once.
type Registry struct {
	entries *utils.BaseRegistry[string, *Registration]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	entries := utils.NewBaseRegistry[string, *Registration]("service", "service id", "registration")
	entries.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[*Registration]("service id"),
		utils.NotNilValueValidator[string, Registration]("registration"),
		func(id string, _ *Registration, existing map[string]*Registration) error {
			if prev, ok := existing[id]; ok {
				return errors.NewDuplicateServiceError(id, prev.Name)
			}
			return nil
		},
	))
	return &Registry{entries: entries}
}

// Register adds reg under its id.
func (r *Registry) Register(reg *Registration) error {
	return r.entries.Register(reg.ID, reg)
}

// Lookup returns the registration for id.
func (r *Registry) Lookup(id string) (*Registration, bool) {
	return r.entries.Get(id)
}

// Resolve returns the registration for id, or an unregistered service error
// blaming file.
func (r *Registry) Resolve(id, file string) (*Registration, error) {
	reg, ok := r.entries.Get(id)
	if !ok {
		return nil, errors.NewUnregisteredServiceError(id, file)
	}
	return reg, nil
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	return r.entries.List()
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	return r.entries.Size()
}
