// Package catalog provides read-only lookups over the treatment menu used to
// pre-fill duration and price when entering a transaction.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"terapis/internal/cache"
	"terapis/internal/core"
)

// MaxSearchResults caps Search output.
const MaxSearchResults = 10

//go:embed default_catalog.json
var defaultCatalog []byte

var ErrUnknownTreatment = errors.New("unknown treatment")

type (
	// Option is one bookable duration of a treatment.
	Option struct {
		DurationMinutes int        `json:"durationMinutes"`
		Price           core.Money `json:"price"`
	}

	// Treatment is a menu entry.
	Treatment struct {
		Name     string   `json:"name"`
		Category string   `json:"category"`
		Options  []Option `json:"options"`
	}

	// Catalog is immutable after construction and safe for concurrent use.
	Catalog struct {
		treatments []Treatment
		byName     map[string]int
		searches   *cache.LRUCache[[]Treatment]
	}
)

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, or the bundled catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON array of treatments. Names must be unique
// (case-insensitive) and non-empty.
func Parse(data []byte) (*Catalog, error) {
	var treatments []Treatment
	if err := json.Unmarshal(data, &treatments); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := &Catalog{
		treatments: treatments,
		byName:     make(map[string]int, len(treatments)),
		searches:   cache.NewLRUCache[[]Treatment](128, 10*time.Minute),
	}
	for i, t := range treatments {
		key := normalize(t.Name)
		if key == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", i)
		}
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %q", t.Name)
		}
		c.byName[key] = i
	}
	return c, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Len returns the number of treatments.
func (c *Catalog) Len() int {
	return len(c.treatments)
}

// SearchCache exposes the search cache for periodic cleanup.
func (c *Catalog) SearchCache() cache.Cleaner {
	return c.searches
}

// FindByName returns the options of the exactly named treatment (case
// insensitive). Unknown names return an empty list.
func (c *Catalog) FindByName(name string) []Option {
	i, ok := c.byName[normalize(name)]
	if !ok {
		return nil
	}
	out := make([]Option, len(c.treatments[i].Options))
	copy(out, c.treatments[i].Options)
	return out
}

// Search returns up to MaxSearchResults treatments whose name or category
// contains query, case-insensitively, in catalog order. An empty query
// matches the first entries of the catalog.
func (c *Catalog) Search(query string) []Treatment {
	q := normalize(query)
	if hit, ok := c.searches.Get(q); ok {
		return clone(hit)
	}

	var out []Treatment
	for _, t := range c.treatments {
		if len(out) == MaxSearchResults {
			break
		}
		if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Category), q) {
			out = append(out, t)
		}
	}
	c.searches.Set(q, out)
	return clone(out)
}

func clone(in []Treatment) []Treatment {
	if in == nil {
		return nil
	}
	out := make([]Treatment, len(in))
	copy(out, in)
	return out
}

// Prefill fills empty duration and nominal fields from the named treatment.
// Values already entered are kept exactly. When the treatment offers several
// durations, the one matching the entered duration is preferred, otherwise
// the first option is used.
func (c *Catalog) Prefill(in core.TransactionInput) (core.TransactionInput, error) {
	options := c.FindByName(in.TreatmentType)
	if len(options) == 0 {
		return in, ErrUnknownTreatment
	}

	chosen := options[0]
	if minutes := core.ParseMinutes(in.DurationMinutes); minutes > 0 {
		for _, o := range options {
			if o.DurationMinutes == minutes {
				chosen = o
				break
			}
		}
	}

	if strings.TrimSpace(in.DurationMinutes) == "" {
		in.DurationMinutes = strconv.Itoa(chosen.DurationMinutes)
	}
	if strings.TrimSpace(in.Nominal) == "" {
		in.Nominal = chosen.Price.String()
	}
	return in, nil
}
