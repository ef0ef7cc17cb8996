package types

import (
	"strings"
	"testing"
)

// readyByHand marks typ ready with the given MRO, bypassing the engine.
func readyByHand(typ *Type, mro ...*Type) {
	typ.BeginReadying()
	typ.SetMRO(append([]*Type{typ}, mro...))
	typ.SetDict(NewDict())
	typ.EnsureSubclasses()
	for _, b := range typ.Bases {
		b.EnsureSubclasses().Add(typ)
	}
	typ.MarkReady()
}

func TestVerifyValid(t *testing.T) {
	a := NewType("A", 16, FlagBaseType)
	readyByHand(a)

	b := NewType("B", 16, FlagBaseType)
	b.Base = a
	b.Bases = []*Type{a}
	readyByHand(b, a)

	if err := Verify(b); err != nil {
		t.Errorf("Verify(B): %v", err)
	}
}

func TestVerifyViolations(t *testing.T) {
	a := NewType("A", 16, FlagBaseType)
	readyByHand(a)

	b := NewType("B", 16, FlagBaseType|FlagLongSubclass|FlagDictSubclass)
	b.Base = a
	b.Bases = []*Type{a}
	b.BeginReadying()
	b.SetMRO([]*Type{b, a, a})
	b.MarkReady()

	err := Verify(b)
	if err == nil {
		t.Fatal("Verify(B) = nil")
	}
	for _, want := range []string{
		"appears twice in mro",
		"several fast-subclass flags",
		"dict is nil",
		"not registered as a subclass of A",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestVerifyNotReady(t *testing.T) {
	err := Verify(NewType("T", 16, 0))
	if err == nil || !strings.Contains(err.Error(), "state is not-ready") {
		t.Errorf("Verify = %v", err)
	}
}
