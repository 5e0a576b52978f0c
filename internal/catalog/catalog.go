// Package catalog serves the read-only property listings.
//
// The catalog is a static JSON document loaded once at startup and treated as
// immutable for the life of the process. User actions never mutate it —
// purchases and rentals live entirely in the user's holdings, and a listing's
// Status field stays whatever the document said.
//
// Load failure is surfaced as apperror.ErrUnavailable rather than degrading
// to an empty catalog: an empty marketplace that looks healthy is harder to
// debug than a clear startup error.
package catalog

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/prasetya/safestate/internal/apperror"
	"github.com/prasetya/safestate/internal/model"
)

// Catalog holds every property listing, indexed for lookup by ID.
// Safe for concurrent reads; never written after construction.
type Catalog struct {
	properties []model.Property
	byID       map[string]int
}

// Load reads the catalog document from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperror.Unavailable("property catalog", err)
	}

	var properties []model.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, apperror.Unavailable("property catalog", err)
	}

	return New(properties), nil
}

// New builds a catalog from an in-memory listing slice. Tests and seeds use
// this directly; production goes through Load.
func New(properties []model.Property) *Catalog {
	c := &Catalog{
		properties: properties,
		byID:       make(map[string]int, len(properties)),
	}
	for i, p := range properties {
		c.byID[p.ID] = i
	}
	return c
}

// Len reports the number of listings.
func (c *Catalog) Len() int {
	return len(c.properties)
}

// ByID returns the listing with the given ID, or apperror.ErrNotFound.
func (c *Catalog) ByID(id string) (*model.Property, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, apperror.NotFound("property", id)
	}
	// Copy so callers can't mutate catalog state through the pointer.
	p := c.properties[i]
	return &p, nil
}

// Filter narrows and orders a listing query. Zero values mean "no constraint".
type Filter struct {
	Status      model.PropertyStatus // exact status; empty = marketplace default
	Type        string               // exact property type
	MinPrice    int64
	MaxPrice    int64
	MinBedrooms int
	Location    string // case-insensitive substring of the location
	Search      string // case-insensitive match on name, location or type
	SortBy      string // "price-low" or "price-high"
}

const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// List returns the listings matching the filter.
//
// With no explicit status the marketplace view applies: only FOR_SALE and
// FOR_RENT listings are shown, matching what a visitor can actually act on.
func (c *Catalog) List(f Filter) []model.Property {
	out := make([]model.Property, 0, len(c.properties))

	for _, p := range c.properties {
		if f.Status == "" {
			if p.Status != model.StatusForSale && p.Status != model.StatusForRent {
				continue
			}
		} else if p.Status != f.Status {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.MinPrice > 0 && p.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		if f.MinBedrooms > 0 && p.Bedrooms < f.MinBedrooms {
			continue
		}
		if f.Location != "" &&
			!strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
			continue
		}
		if f.Search != "" && !matchesSearch(&p, f.Search) {
			continue
		}
		out = append(out, p)
	}

	// Stable sort keeps equal-priced listings in document order.
	switch f.SortBy {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}

	return out
}

// Many returns the listings for the given IDs, in the given order, skipping
// IDs the catalog doesn't know. Used to resolve a user's favorites and
// holdings into full records.
func (c *Catalog) Many(ids []string) []model.Property {
	out := make([]model.Property, 0, len(ids))
	for _, id := range ids {
		if i, ok := c.byID[id]; ok {
			out = append(out, c.properties[i])
		}
	}
	return out
}

func matchesSearch(p *model.Property, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Location), term) ||
		strings.Contains(strings.ToLower(p.Type), term)
}
