package typeready

import "github.com/you-not-fish/typeready/internal/types"

// linkSubclasses registers t with each of its declared bases.
func linkSubclasses(t *types.Type) {
	for _, b := range t.Bases {
		b.EnsureSubclasses().Add(t)
	}
}

// unlinkSubclasses undoes linkSubclasses for a type that is being discarded
// before anyone could observe it.
func unlinkSubclasses(t *types.Type) {
	for _, b := range t.Bases {
		if b == nil {
			continue
		}
		if r := b.Subclasses(); r != nil {
			r.Remove(t)
		}
	}
}

// Subclasses returns the live immediate subclasses of t in registration
// order.
func Subclasses(t *types.Type) []*types.Type {
	if r := t.Subclasses(); r != nil {
		return r.Live()
	}
	return nil
}

// Walk calls fn for t and every type deriving from it, depth first, with
// the depth of each type below t. A type reachable through several bases is
// visited once.
func Walk(t *types.Type, fn func(t *types.Type, depth int)) {
	seen := make(map[*types.Type]bool)
	var walk func(t *types.Type, depth int)
	walk = func(t *types.Type, depth int) {
		if seen[t] {
			return
		}
		seen[t] = true
		fn(t, depth)
		for _, sub := range Subclasses(t) {
			walk(sub, depth+1)
		}
	}
	walk(t, 0)
}
