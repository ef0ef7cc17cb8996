package types

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// Verify checks the structural invariants of a ready type, or of a type
// whose readying has linked it into its bases.
// It returns an error describing all violations found, or nil if valid.
func Verify(t *Type) error {
	var errs []string

	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if t.state == NotReady {
		add("type %s: state is %s, want readying or ready", t.Name, t.state)
		return combineErrors(errs)
	}

	// 1. Ready base
	if t.Base == nil && t != UniverseObject() {
		add("type %s: no base", t.Name)
	}
	if t.Base != nil && !t.Base.IsReady() {
		add("type %s: base %s is %s", t.Name, t.Base.Name, t.Base.state)
	}

	// 2. Bases
	if t.Base != nil && len(t.Bases) == 0 {
		add("type %s: empty bases", t.Name)
	}
	for i, b := range t.Bases {
		if b == nil {
			add("type %s: bases[%d] is nil", t.Name, i)
		}
	}

	// 3. MRO head, no duplicates, every base present
	mro := t.mro
	if len(mro) == 0 || mro[0] != t {
		add("type %s: mro does not start with the type", t.Name)
	}
	seen := set.New[*Type](len(mro))
	for _, m := range mro {
		if !seen.Insert(m) {
			add("type %s: %s appears twice in mro", t.Name, m.Name)
		}
	}
	for _, b := range t.Bases {
		if b != nil && !seen.Contains(b) {
			add("type %s: base %s missing from mro", t.Name, b.Name)
		}
	}

	// 4. Monotonicity: each ancestor's own MRO is a subsequence
	index := make(map[*Type]int, len(mro))
	for i, m := range mro {
		index[m] = i
	}
	for _, a := range mro[min(1, len(mro)):] {
		last := -1
		for _, aa := range a.mro {
			i, ok := index[aa]
			if !ok {
				add("type %s: %s from mro of %s missing", t.Name, aa.Name, a.Name)
				continue
			}
			if i < last {
				add("type %s: mro reorders %s relative to mro of %s", t.Name, aa.Name, a.Name)
			}
			last = i
		}
	}

	// 5. At most one fast-subclass flag
	if fast := t.Flags & FastSubclassMask; fast&(fast-1) != 0 {
		add("type %s: several fast-subclass flags set: %s", t.Name, fast)
	}

	// 6. Readiness flags are never stored
	if t.Flags&(FlagReady|FlagReadying) != 0 {
		add("type %s: readiness flags stored in Flags", t.Name)
	}

	// 7. Dict and subclass registry
	if t.dict == nil {
		add("type %s: dict is nil", t.Name)
	}
	if t.subclasses.Load() == nil {
		add("type %s: subclass registry is nil", t.Name)
	}
	for _, b := range t.Bases {
		if b == nil {
			continue
		}
		if r := b.Subclasses(); r == nil || !r.Contains(t) {
			add("type %s: not registered as a subclass of %s", t.Name, b.Name)
		}
	}

	return combineErrors(errs)
}

// combineErrors creates an error from a list of error strings, or returns nil.
func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("type verification failed:\n  %s", strings.Join(errs, "\n  "))
}
