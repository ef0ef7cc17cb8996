package dispatch

import (
	"testing"

	"github.com/you-not-fish/typeready/internal/types"
)

// link marks typ ready with the given ancestors, bypassing the engine.
func link(typ *types.Type, ancestors ...*types.Type) *types.Type {
	typ.BeginReadying()
	typ.SetMRO(append([]*types.Type{typ}, ancestors...))
	typ.SetDict(types.NewDict())
	typ.EnsureSubclasses()
	if typ.Base != nil {
		typ.Base.EnsureSubclasses().Add(typ)
	}
	typ.MarkReady()
	return typ
}

func TestLookupWalksMRO(t *testing.T) {
	base := link(types.NewType("Base", 16, types.FlagBaseType))
	derived := types.NewType("Derived", 16, 0)
	derived.Base = base
	link(derived, base)

	base.Dict().Set("__iter__", "base-iter")
	derived.Dict().Set("__len__", "derived-len")

	tests := []struct {
		name  string
		value any
		owner *types.Type
	}{
		{"__iter__", "base-iter", base},
		{"__len__", "derived-len", derived},
		{"__missing__", nil, nil},
	}

	c := NewCache()
	for _, tt := range tests {
		v, owner, ok := c.Lookup(derived, tt.name)
		if v != tt.value || owner != tt.owner || ok != (tt.owner != nil) {
			t.Errorf("Lookup(%s) = %v, %v, %v", tt.name, v, owner, ok)
		}
	}
}

func TestCacheHitAndInvalidate(t *testing.T) {
	base := link(types.NewType("Base", 16, types.FlagBaseType))
	derived := types.NewType("Derived", 16, 0)
	derived.Base = base
	link(derived, base)
	base.Dict().Set("x", 1)

	c := NewCache()
	c.Lookup(derived, "x")
	c.Lookup(derived, "x")
	if st := c.Stats(); st.Hits != 1 || st.Misses != 1 {
		t.Fatalf("Stats() = %+v, want 1 hit 1 miss", st)
	}

	// A change on the base must be seen through the subclass.
	base.Dict().Set("x", 2)
	before := c.Version(derived)
	c.TypeModified(base)
	if c.Version(derived) == before {
		t.Error("TypeModified(Base) did not bump Derived's version")
	}
	if v, _, _ := c.Lookup(derived, "x"); v != 2 {
		t.Errorf("Lookup after modify = %v, want 2", v)
	}
}

func TestLookupBeforeMRO(t *testing.T) {
	typ := types.NewType("Raw", 16, 0)
	d := types.NewDict()
	d.Set("a", 1)
	typ.SetDict(d)

	if v, owner, ok := NewCache().Lookup(typ, "a"); !ok || v != 1 || owner != typ {
		t.Errorf("Lookup = %v, %v, %v", v, owner, ok)
	}
}
