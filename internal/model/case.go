package model

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidCatalog is returned when a catalog violates one of its invariants.
var ErrInvalidCatalog = errors.New("invalid catalog")

// casePattern restricts case names to characters that are safe as file name
// stems. Names never contain '.', so "<name><suffix>" is unique per (name, suffix).
var casePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Case describes one named test program of the corpus.
type Case struct {
	Name        string `yaml:"name"`
	Weight      int    `yaml:"weight"`
	Description string `yaml:"description"`
	BuiltIn     bool   `yaml:"-"`
	// CheckExitCode opts the case into comparing exit codes in addition to stdout.
	CheckExitCode bool `yaml:"check_exit_code"`
}

// Validate checks a single case in isolation.
func (c Case) Validate() error {
	if !casePattern.MatchString(c.Name) {
		return fmt.Errorf("%w: case name %q must match %s", ErrInvalidCatalog, c.Name, casePattern)
	}

	if c.Weight < 0 {
		return fmt.Errorf("%w: case %q has negative weight %d", ErrInvalidCatalog, c.Name, c.Weight)
	}

	return nil
}

// Catalog is an immutable, ordered list of cases with unique names.
type Catalog struct {
	cases []Case
}

// NewCatalog validates the given cases and returns them as a catalog.
func NewCatalog(cases ...Case) (Catalog, error) {
	seen := make(map[string]struct{}, len(cases))

	for _, c := range cases {
		if err := c.Validate(); err != nil {
			return Catalog{}, err
		}

		if _, dup := seen[c.Name]; dup {
			return Catalog{}, fmt.Errorf("%w: duplicate case name %q", ErrInvalidCatalog, c.Name)
		}

		seen[c.Name] = struct{}{}
	}

	owned := make([]Case, len(cases))
	copy(owned, cases)

	return Catalog{cases: owned}, nil
}

// Len returns the number of cases.
func (c Catalog) Len() int {
	return len(c.cases)
}

// At returns the case at index i.
func (c Catalog) At(i int) Case {
	return c.cases[i]
}

// Cases returns a copy of the cases in catalog order.
func (c Catalog) Cases() []Case {
	out := make([]Case, len(c.cases))
	copy(out, c.cases)

	return out
}

// MaxScore is the sum of all weights.
func (c Catalog) MaxScore() int {
	total := 0
	for _, cs := range c.cases {
		total += cs.Weight
	}

	return total
}

// Filter returns a new catalog with the cases for which keep returns true.
func (c Catalog) Filter(keep func(Case) bool) Catalog {
	kept := make([]Case, 0, len(c.cases))

	for _, cs := range c.cases {
		if keep(cs) {
			kept = append(kept, cs)
		}
	}

	return Catalog{cases: kept}
}

// Append returns a new catalog with more cases after the existing ones.
func (c Catalog) Append(more ...Case) (Catalog, error) {
	all := make([]Case, 0, len(c.cases)+len(more))
	all = append(all, c.cases...)
	all = append(all, more...)

	return NewCatalog(all...)
}
