package types

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Mapping is an attribute namespace.
type Mapping interface {
	Get(name string) (any, bool)
	Set(name string, v any) error
	Delete(name string) bool
	Contains(name string) bool
	Keys() []string // in insertion order
	Len() int
}

// Dict is the default Mapping. It keeps insertion order and is safe for
// concurrent use.
type Dict struct {
	mu      sync.RWMutex
	keys    []string
	entries map[string]any
}

// NewDict creates an empty dict.
func NewDict() *Dict {
	return &Dict{entries: make(map[string]any)}
}

// Get returns the value stored under name.
func (d *Dict) Get(name string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.entries[name]
	return v, ok
}

// Set stores v under name. Overwriting keeps the original position.
func (d *Dict) Set(name string, v any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[name]; !ok {
		d.keys = append(d.keys, name)
	}
	d.entries[name] = v
	return nil
}

// Delete removes name and reports whether it was present.
func (d *Dict) Delete(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[name]; !ok {
		return false
	}
	delete(d.entries, name)
	for i, k := range d.keys {
		if k == name {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether name is present.
func (d *Dict) Contains(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.entries[name]
	return ok
}

// Keys returns the names in insertion order.
func (d *Dict) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.keys...)
}

// Names returns the names in sorted order.
func (d *Dict) Names() []string {
	names := d.Keys()
	sort.Strings(names)
	return names
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.keys)
}

// String returns a readable dump of the dict, one entry per line.
func (d *Dict) String() string {
	var buf strings.Builder
	buf.WriteString("{\n")
	for _, name := range d.Keys() {
		v, _ := d.Get(name)
		fmt.Fprintf(&buf, "\t%s: %v\n", name, v)
	}
	buf.WriteString("}")
	return buf.String()
}
