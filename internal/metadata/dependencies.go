package metadata

import (
	"slices"

	"github.com/goccy/go-json"
)

// DependencyIndex accumulates the injected service types of each service
// class.
type DependencyIndex = Accumulator[[]string]

// NewDependencyIndex creates a dependency index flushed to name.
func NewDependencyIndex(name string) *DependencyIndex {
	return NewAccumulator(Kind[[]string]{
		Name:   name,
		Equal:  func(a, b []string) bool { return slices.Equal(a, b) },
		Render: renderDependencies,
	})
}

// RecordDependencies stores the sorted dependency list of class.
func RecordDependencies(idx *DependencyIndex, class string, deps []string, source string) bool {
	sorted := slices.Clone(deps)
	slices.Sort(sorted)
	return idx.Record(class, slices.Compact(sorted), source)
}

func renderDependencies(entries []Entry[[]string]) ([]byte, error) {
	out := make(map[string][]string, len(entries))
	for _, e := range entries {
		deps := e.Value
		if deps == nil {
			deps = []string{}
		}
		out[e.Key] = deps
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
