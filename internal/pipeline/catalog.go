package pipeline

import (
	"fmt"
	"slices"
	"strings"
)

// All selects every pipeline in the catalog.
const All = "all"

// Module is implemented by every pipeline package compiled into the binary.
type Module interface {
	Register(c *Catalog)
}

// Catalog holds the pipelines the binary can compile.
type Catalog struct {
	definitions map[string]*Definition
}

// NewCatalog creates a catalog and registers every module in it.
func NewCatalog(modules ...Module) *Catalog {
	c := &Catalog{definitions: make(map[string]*Definition)}
	for _, m := range modules {
		m.Register(c)
	}
	return c
}

// Register adds a definition. A nameless definition or a second definition
// under an existing name is a programming error and panics.
func (c *Catalog) Register(d *Definition) {
	if d.Name == "" || strings.EqualFold(d.Name, All) {
		panic(fmt.Sprintf("invalid pipeline name %q", d.Name))
	}
	if _, exists := c.definitions[d.Name]; exists {
		panic(fmt.Sprintf("pipeline '%s' already registered", d.Name))
	}
	c.definitions[d.Name] = d
}

// Lookup returns the definition registered under name.
func (c *Catalog) Lookup(name string) (*Definition, bool) {
	d, ok := c.definitions[name]
	return d, ok
}

// Names returns the registered names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.definitions))
	for name := range c.definitions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve turns command-line selectors into definitions. "all" expands to
// every pipeline; duplicates are dropped; order follows the selectors.
func (c *Catalog) Resolve(selectors ...string) ([]*Definition, error) {
	if len(selectors) == 0 {
		return nil, fmt.Errorf("no pipeline selected (available: %s)", strings.Join(c.Names(), ", "))
	}

	var names []string
	for _, sel := range selectors {
		if sel == All {
			names = append(names, c.Names()...)
			continue
		}
		names = append(names, sel)
	}

	var out []*Definition
	seen := make(map[string]struct{})
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		d, ok := c.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown pipeline %q (available: %s)", name, strings.Join(c.Names(), ", "))
		}
		seen[name] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}
