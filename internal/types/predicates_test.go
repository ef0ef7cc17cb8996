package types

import "testing"

// chain builds a not-ready chain of types, each deriving from the previous.
func chain(names ...string) []*Type {
	out := make([]*Type, len(names))
	var base *Type
	for i, name := range names {
		out[i] = NewType(name, 16, FlagBaseType)
		out[i].Base = base
		base = out[i]
	}
	return out
}

func TestIsSubtypeBaseChain(t *testing.T) {
	c := chain("A", "B", "C")
	a, b, cc := c[0], c[1], c[2]

	tests := []struct {
		x, y *Type
		want bool
	}{
		{cc, cc, true},
		{cc, b, true},
		{cc, a, true},
		{a, b, false},
		{b, cc, false},
		{cc, UniverseObject(), true},
		{a, UniverseInt(), false},
	}

	for _, tt := range tests {
		if got := IsSubtype(tt.x, tt.y); got != tt.want {
			t.Errorf("IsSubtype(%s, %s) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestIsSubtypeUsesMRO(t *testing.T) {
	a := NewType("A", 16, FlagBaseType)
	b := NewType("B", 16, FlagBaseType)
	c := NewType("C", 16, FlagBaseType)
	c.Base = a
	c.Bases = []*Type{a, b}
	c.BeginReadying()
	c.SetMRO([]*Type{c, a, b, UniverseObject()})

	if !IsSubtype(c, b) {
		t.Error("IsSubtype(C, B) = false with B in the MRO")
	}
	if !InMRO(c, a) || InMRO(c, UniverseInt()) {
		t.Error("InMRO disagrees with the MRO")
	}
}

func TestFastSubclassFlagUnready(t *testing.T) {
	sub := NewType("MyInt", 16, 0)
	sub.Base = UniverseInt()
	if got := FastSubclassFlag(sub); got != FlagLongSubclass {
		t.Errorf("FastSubclassFlag(MyInt) = %v, want int-subclass", got)
	}
	if got := FastSubclassFlag(NewType("Plain", 16, 0)); got != 0 {
		t.Errorf("FastSubclassFlag(Plain) = %v, want 0", got)
	}
	if !FastSubclass(UniverseDict(), FlagDictSubclass) {
		t.Error("dict lacks dict-subclass")
	}
}
