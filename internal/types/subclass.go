package types

import (
	"sort"
	"sync"
	"sync/atomic"
	"weak"
)

// SubclassRegistry records the immediate subclasses of a type without
// keeping them alive. Insertion is safe for concurrent use.
type SubclassRegistry struct {
	entries sync.Map // weak.Pointer[Type] -> uint64 insertion sequence
	seq     atomic.Uint64
}

// Add registers t and reports whether it was not already present.
func (r *SubclassRegistry) Add(t *Type) bool {
	_, loaded := r.entries.LoadOrStore(weak.Make(t), r.seq.Add(1))
	return !loaded
}

// Remove drops t from the registry.
func (r *SubclassRegistry) Remove(t *Type) {
	r.entries.Delete(weak.Make(t))
}

// Contains reports whether t is registered.
func (r *SubclassRegistry) Contains(t *Type) bool {
	_, ok := r.entries.Load(weak.Make(t))
	return ok
}

// Live returns the registered types that are still reachable, in
// registration order.
func (r *SubclassRegistry) Live() []*Type {
	type entry struct {
		t   *Type
		seq uint64
	}
	var live []entry
	r.entries.Range(func(k, v any) bool {
		if t := k.(weak.Pointer[Type]).Value(); t != nil {
			live = append(live, entry{t, v.(uint64)})
		}
		return true
	})
	sort.Slice(live, func(i, j int) bool { return live[i].seq < live[j].seq })
	out := make([]*Type, len(live))
	for i, e := range live {
		out[i] = e.t
	}
	return out
}

// Len returns the number of live subclasses.
func (r *SubclassRegistry) Len() int {
	return len(r.Live())
}

// Prune drops entries whose types have been collected and returns how many
// were removed. The engine never calls it; hosts may.
func (r *SubclassRegistry) Prune() int {
	n := 0
	r.entries.Range(func(k, _ any) bool {
		if k.(weak.Pointer[Type]).Value() == nil {
			r.entries.Delete(k)
			n++
		}
		return true
	})
	return n
}
