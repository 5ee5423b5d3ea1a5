package block

import (
	"fmt"
	"sort"
)

// Catalog maps block ids to atlas offsets. It is immutable once built and
// safe for unsynchronized concurrent reads.
type Catalog struct {
	offsets [256]AtlasOffset
	known   [256]bool
	byName  map[string]ID
	entries []Entry
}

// NewCatalog validates entries and builds a catalog from them.
func NewCatalog(entries []Entry) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]ID, len(entries))}
	for _, e := range entries {
		if e.ID == Air {
			return nil, fmt.Errorf("block %q: id 0 is reserved for air", e.Name)
		}
		if c.known[e.ID] {
			return nil, fmt.Errorf("block %q: duplicate id %d", e.Name, e.ID)
		}
		if e.Name == "" {
			return nil, fmt.Errorf("block %d: empty name", e.ID)
		}
		if _, dup := c.byName[e.Name]; dup {
			return nil, fmt.Errorf("block %d: duplicate name %q", e.ID, e.Name)
		}
		if e.Offset.U < 0 || e.Offset.U >= 1 || e.Offset.V < 0 || e.Offset.V >= 1 {
			return nil, fmt.Errorf("block %q: atlas offset %v outside [0,1)", e.Name, e.Offset)
		}
		c.known[e.ID] = true
		c.offsets[e.ID] = e.Offset
		c.byName[e.Name] = e.ID
		c.entries = append(c.entries, e)
	}
	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].ID < c.entries[j].ID })
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := NewCatalog(DefaultEntries)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the atlas offset of id. Unregistered ids, air included, are a
// programming error and panic.
func (c *Catalog) Lookup(id ID) AtlasOffset {
	if !c.known[id] {
		panic(fmt.Sprintf("block: lookup of unregistered id %d", id))
	}
	return c.offsets[id]
}

// Has reports whether id is registered. Air is never registered.
func (c *Catalog) Has(id ID) bool { return c.known[id] }

// ByName resolves a block name.
func (c *Catalog) ByName(name string) (ID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// All returns the registered entries ordered by id.
func (c *Catalog) All() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
