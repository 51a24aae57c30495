// Package category holds the ordered, read-only table of topic categories.
//
// Category identity is positional: index i names the i-th entry for the whole
// lifetime of a Table. Tie-breaks in the classifier depend on this order.
package category

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidIndex is returned when an index falls outside the table.
var ErrInvalidIndex = errors.New("category index out of range")

// Category is a named topic with its ordered seed terms.
type Category struct {
	Name      string   `json:"name" yaml:"name"`
	SeedTerms []string `json:"seed_terms" yaml:"seed_terms"`
}

// Table is an immutable ordered list of categories. It is safe for concurrent use.
type Table struct {
	categories []Category
}

// New validates and copies categories into a Table.
func New(categories []Category) (*Table, error) {
	if len(categories) == 0 {
		return nil, errors.New("category table is empty")
	}
	out := make([]Category, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for i, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("category %d: missing name", i)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("category %d: duplicate name %q", i, name)
		}
		seen[name] = struct{}{}
		terms := make([]string, 0, len(c.SeedTerms))
		for _, t := range c.SeedTerms {
			t = strings.TrimSpace(t)
			if t != "" {
				terms = append(terms, t)
			}
		}
		if len(terms) == 0 {
			return nil, fmt.Errorf("category %q: no seed terms", name)
		}
		out[i] = Category{Name: name, SeedTerms: terms}
	}
	return &Table{categories: out}, nil
}

// MustNew is New for literal tables known to be valid.
func MustNew(categories []Category) *Table {
	t, err := New(categories)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of categories.
func (t *Table) Len() int { return len(t.categories) }

// Terms returns the seed terms of category i. The slice must not be modified.
func (t *Table) Terms(i int) []string { return t.categories[i].SeedTerms }

// Name returns the human-readable name of category i.
func (t *Table) Name(i int) (string, error) {
	if i < 0 || i >= len(t.categories) {
		return "", fmt.Errorf("%w: %d (table has %d)", ErrInvalidIndex, i, len(t.categories))
	}
	return t.categories[i].Name, nil
}

// Names returns category names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.categories))
	for i, c := range t.categories {
		out[i] = c.Name
	}
	return out
}

// Categories returns a deep copy of the table entries.
func (t *Table) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Name: c.Name, SeedTerms: append([]string(nil), c.SeedTerms...)}
	}
	return out
}

// Index returns the position of the category with the given name.
func (t *Table) Index(name string) (int, bool) {
	for i, c := range t.categories {
		if strings.EqualFold(c.Name, name) {
			return i, true
		}
	}
	return -1, false
}
