package catalog

import (
	"fmt"
	"slices"

	"github.com/venicegeo/ets-gpkg12/internal/validate"
)

// Severity of a requirement failure. Every requirement in this domain is a
// hard failure; there are no warnings.
type Severity string

// SeverityHardFail is the only severity.
const SeverityHardFail Severity = "hard-fail"

// Requirement is a single normative rule.
type Requirement struct {
	// ID is stable across releases and unique within the catalog.
	ID string

	// Description is the human-readable rule.
	Description string

	// Clause cites the standard, e.g. "OGC 12-128r13: Requirement 58".
	Clause string

	// Severity is always SeverityHardFail.
	Severity Severity

	// DependsOn lists earlier requirements of the same class that must
	// pass before this one is evaluated.
	DependsOn []string

	// Predicate is the check evaluated against the container.
	Predicate validate.Predicate
}

// ConformanceClass is a named, ordered group of requirements.
type ConformanceClass struct {
	Name string

	// RequireEnabled marks a class that must be named in the inclusion set.
	// When it is not, the run records a single failed verdict for the class
	// instead of silently skipping it.
	RequireEnabled bool

	Requirements []Requirement
}

// Catalog is the immutable registry of conformance classes.
// It is safe for concurrent use by any number of runs.
type Catalog struct {
	classes []ConformanceClass
	owner   map[string]string // requirement id -> class name
	byName  map[string]int    // class name -> index
	schemas []validate.TableSchema
}

// New builds a catalog from classes in the given order.
//
// Returns an error if the catalog is internally inconsistent: duplicate
// class names, duplicate requirement ids, a requirement without predicate,
// or a DependsOn entry that does not name an earlier requirement of the
// same class.
func New(schemas []validate.TableSchema, classes ...ConformanceClass) (*Catalog, error) {
	c := &Catalog{
		classes: make([]ConformanceClass, 0, len(classes)),
		owner:   make(map[string]string),
		byName:  make(map[string]int),
		schemas: slices.Clone(schemas),
	}

	for _, class := range classes {
		if class.Name == "" {
			return nil, fmt.Errorf("conformance class without name")
		}
		if _, dup := c.byName[class.Name]; dup {
			return nil, fmt.Errorf("duplicate conformance class %q", class.Name)
		}

		seen := make(map[string]bool, len(class.Requirements))
		reqs := make([]Requirement, len(class.Requirements))
		for i, req := range class.Requirements {
			if req.ID == "" {
				return nil, fmt.Errorf("class %q: requirement %d has no id", class.Name, i)
			}
			if other, dup := c.owner[req.ID]; dup {
				return nil, fmt.Errorf("duplicate requirement id %q (classes %q and %q)", req.ID, other, class.Name)
			}
			if req.Predicate == nil {
				return nil, fmt.Errorf("requirement %q has no predicate", req.ID)
			}
			for _, dep := range req.DependsOn {
				if !seen[dep] {
					return nil, fmt.Errorf("requirement %q depends on %q, which is not an earlier requirement of class %q", req.ID, dep, class.Name)
				}
			}
			if req.Severity == "" {
				req.Severity = SeverityHardFail
			}
			req.DependsOn = slices.Clone(req.DependsOn)
			reqs[i] = req
			seen[req.ID] = true
			c.owner[req.ID] = class.Name
		}

		class.Requirements = reqs
		c.byName[class.Name] = len(c.classes)
		c.classes = append(c.classes, class)
	}

	return c, nil
}

// MustNew is like New but panics on an inconsistent catalog. Use it for
// catalogs defined in code, where inconsistency is a programming error.
func MustNew(schemas []validate.TableSchema, classes ...ConformanceClass) *Catalog {
	c, err := New(schemas, classes...)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Classes returns the conformance classes in catalog order. The returned
// classes share no slices with the catalog.
func (c *Catalog) Classes() []ConformanceClass {
	out := make([]ConformanceClass, len(c.classes))
	for i, class := range c.classes {
		out[i] = class.clone()
	}
	return out
}

// Class returns a copy of the class with the given name.
func (c *Catalog) Class(name string) (ConformanceClass, bool) {
	i, ok := c.byName[name]
	if !ok {
		return ConformanceClass{}, false
	}
	return c.classes[i].clone(), true
}

func (cc ConformanceClass) clone() ConformanceClass {
	reqs := make([]Requirement, len(cc.Requirements))
	for i, req := range cc.Requirements {
		req.DependsOn = slices.Clone(req.DependsOn)
		reqs[i] = req
	}
	cc.Requirements = reqs
	return cc
}

// ClassOf returns the name of the class owning a requirement.
func (c *Catalog) ClassOf(requirementID string) (string, bool) {
	name, ok := c.owner[requirementID]
	return name, ok
}

// Len returns the total number of requirements.
func (c *Catalog) Len() int {
	return len(c.owner)
}

// Schemas returns the table schemas known to the catalog.
func (c *Catalog) Schemas() []validate.TableSchema {
	return slices.Clone(c.schemas)
}

// Unknown returns the names in set that match no class, sorted.
func (c *Catalog) Unknown(set InclusionSet) []string {
	var unknown []string
	for _, name := range set.Names() {
		if _, ok := c.byName[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}
