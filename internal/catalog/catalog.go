// Package catalog provides the built-in, read-only recipe catalog that is
// merged with user-created meals at read time.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"lifedeck/internal/core"
)

//go:embed seed.yaml
var seedYAML []byte

// Catalog is a set of seed categories and meals.
type Catalog struct {
	Categories []core.Category `yaml:"categories"`
	Meals      []core.Meal     `yaml:"meals"`

	seedIDs map[string]struct{}
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog. The embedded document is checked by
// tests, so a decode failure here is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(bytes.NewReader(seedYAML))
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded seed: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Load decodes a catalog document and validates it: every meal must pass
// core validation, ids must be unique, and meals may only reference known
// categories.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	categories := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.ID == "" || cat.Title == "" {
			return nil, fmt.Errorf("category %q: id and title are required", cat.ID)
		}
		if _, dup := categories[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %q", cat.ID)
		}
		categories[cat.ID] = struct{}{}
	}

	c.seedIDs = make(map[string]struct{}, len(c.Meals))
	for _, m := range c.Meals {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("meal %q: %w", m.ID, err)
		}
		if _, dup := c.seedIDs[m.ID]; dup {
			return nil, fmt.Errorf("duplicate meal id %q", m.ID)
		}
		for _, cid := range m.CategoryIDs {
			if _, ok := categories[cid]; !ok {
				return nil, fmt.Errorf("meal %q: unknown category %q", m.ID, cid)
			}
		}
		c.seedIDs[m.ID] = struct{}{}
	}
	return &c, nil
}

// IsSeed reports whether id names a built-in meal.
func (c *Catalog) IsSeed(id string) bool {
	_, ok := c.seedIDs[id]
	return ok
}

// Category looks up a category by id.
func (c *Catalog) Category(id string) (core.Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return core.Category{}, false
}

// Merge returns the full catalog view: seed meals first, then user meals.
// A user meal that reuses a seed id is ignored so seed records stay
// authoritative.
func (c *Catalog) Merge(user []core.Meal) []core.Meal {
	return Merge(c.Meals, user)
}

// Merge concatenates seed and user, dropping user records whose id is
// already taken by a seed record. Neither input is modified.
func Merge(seed, user []core.Meal) []core.Meal {
	taken := make(map[string]struct{}, len(seed))
	out := make([]core.Meal, 0, len(seed)+len(user))
	for _, m := range seed {
		taken[m.ID] = struct{}{}
		out = append(out, m)
	}
	for _, m := range user {
		if _, dup := taken[m.ID]; dup {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ByCategory returns the meals listed under categoryID, order kept.
func ByCategory(meals []core.Meal, categoryID string) []core.Meal {
	out := make([]core.Meal, 0)
	for _, m := range meals {
		if m.InCategory(categoryID) {
			out = append(out, m)
		}
	}
	return out
}
