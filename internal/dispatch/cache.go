// Package dispatch implements the attribute lookup cache that observes
// published type dicts. The readiness engine notifies it whenever a type
// changes so stale lookups are dropped.
package dispatch

import (
	"sync"

	"github.com/you-not-fish/typeready/internal/types"
)

type key struct {
	t    *types.Type
	name string
}

type entry struct {
	version uint64
	value   any
	owner   *types.Type
}

// Cache is a versioned MRO lookup cache. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	versions map[*types.Type]uint64
	entries  map[key]entry
	next     uint64

	hits, misses, invalidations int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		versions: make(map[*types.Type]uint64),
		entries:  make(map[key]entry),
	}
}

// version returns t's current version tag, assigning one on first use.
func (c *Cache) version(t *types.Type) uint64 {
	v, ok := c.versions[t]
	if !ok {
		c.next++
		v = c.next
		c.versions[t] = v
	}
	return v
}

// Lookup finds name along t's MRO and returns the value and the type whose
// dict holds it. Before t has an MRO only t's own dict is searched.
func (c *Cache) Lookup(t *types.Type, name string) (any, *types.Type, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{t, name}
	v := c.version(t)
	if e, ok := c.entries[k]; ok && e.version == v {
		c.hits++
		return e.value, e.owner, e.owner != nil
	}
	c.misses++

	value, owner := find(t, name)
	c.entries[k] = entry{version: v, value: value, owner: owner}
	return value, owner, owner != nil
}

func find(t *types.Type, name string) (any, *types.Type) {
	mro := t.MRO()
	if mro == nil {
		mro = []*types.Type{t}
	}
	for _, m := range mro {
		d := m.Dict()
		if d == nil {
			continue
		}
		if v, ok := d.Get(name); ok {
			return v, m
		}
	}
	return nil, nil
}

// TypeModified invalidates cached lookups on t and on every type that
// derives from it.
func (c *Cache) TypeModified(t *types.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidate(t, make(map[*types.Type]bool))
}

func (c *Cache) invalidate(t *types.Type, seen map[*types.Type]bool) {
	if seen[t] {
		return
	}
	seen[t] = true
	if _, ok := c.versions[t]; ok {
		c.next++
		c.versions[t] = c.next
		c.invalidations++
	}
	if r := t.Subclasses(); r != nil {
		for _, sub := range r.Live() {
			c.invalidate(sub, seen)
		}
	}
}

// Version returns t's current version tag, or 0 if t was never looked up.
func (c *Cache) Version(t *types.Type) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[t]
}

// Stats reports cache activity.
type Stats struct {
	Hits, Misses, Invalidations int
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Invalidations: c.invalidations}
}
