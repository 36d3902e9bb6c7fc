// Package paramsets provides known parameter sets: the recorded catalog
// shipped with the binary and the closed-form analytic family.
package paramsets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aristath/grouprep/internal/group"
	"github.com/aristath/grouprep/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// RecordedName is the catalog entry of the reference solution.
const RecordedName = "recorded"

var (
	ErrUnknownSet = errors.New("unknown parameter set")
	ErrCatalog    = errors.New("invalid parameter catalog")
)

// Set is a named parameter vector.
type Set struct {
	Name        string       `json:"name" msgpack:"name"`
	Description string       `json:"description,omitempty" msgpack:"description,omitempty"`
	Loss        float64      `json:"loss,omitempty" msgpack:"loss,omitempty"`
	Params      group.Params `json:"params" msgpack:"params"`
}

type catalogFile struct {
	ParamSets []struct {
		Name        string    `yaml:"name"`
		Description string    `yaml:"description"`
		Loss        float64   `yaml:"loss"`
		Params      []float64 `yaml:"params"`
	} `yaml:"paramsets"`
}

// Catalog holds parameter sets by name.
type Catalog struct {
	sets map[string]Set
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalog, err)
	}

	c := &Catalog{sets: make(map[string]Set, len(file.ParamSets))}
	for i, entry := range file.ParamSets {
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrCatalog, i)
		}
		if _, dup := c.sets[entry.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate entry %q", ErrCatalog, entry.Name)
		}
		params, err := group.ParamsFromSlice(entry.Params)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", ErrCatalog, entry.Name, err)
		}
		c.sets[entry.Name] = Set{
			Name:        entry.Name,
			Description: entry.Description,
			Loss:        entry.Loss,
			Params:      params,
		}
	}
	return c, nil
}

// Load reads the catalog embedded in the binary.
func Load() (*Catalog, error) {
	data, err := embedded.Files.ReadFile(embedded.ParamSetsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog: %w", err)
	}
	return Parse(data)
}

// Get returns the set called name.
func (c *Catalog) Get(name string) (Set, error) {
	s, ok := c.sets[name]
	if !ok {
		return Set{}, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}
	return s, nil
}

// Names lists the catalog entries in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.sets))
	for name := range c.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Recorded returns the reference solution from the embedded catalog.
func Recorded() (group.Params, error) {
	c, err := Load()
	if err != nil {
		return group.Params{}, err
	}
	s, err := c.Get(RecordedName)
	if err != nil {
		return group.Params{}, err
	}
	return s.Params, nil
}
