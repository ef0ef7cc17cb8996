// Package types implements the type descriptors of the object system.
// This package holds the data model only; readying a descriptor is done by
// package typeready.
package types

import (
	"strings"
	"sync/atomic"
)

// Type is a type descriptor.
//
// The exported fields are the declared part of the descriptor: a static type
// fills them in before it is readied, the spec-based builder fills them in for
// heap types. The unexported fields are owned by the readiness engine.
type Type struct {
	Name string // dotted name; ShortName returns the trailing component
	Doc  string // raw doc string, possibly starting with a call signature

	BasicSize        int64 // fixed part of an instance
	ItemSize         int64 // size of one variable-part item
	WeakListOffset   int64
	DictOffset       int64
	VectorcallOffset int64

	Flags Flags

	Base  *Type   // layout and flag donor; nil only for the root
	Bases []*Type // declared parents

	Methods []MethodDef
	Members []MemberDef
	GetSets []GetSetDef

	slots     [NumSlots]*Func
	protocols Protocol

	state      State
	mro        []*Type
	dict       Mapping
	subclasses atomic.Pointer[SubclassRegistry]
	module     *Module
	pins       atomic.Int32
}

// NewType creates a static type descriptor with the given name, basic size
// and flags. The remaining fields may be set directly before readying.
func NewType(name string, basicSize int64, flags Flags) *Type {
	return &Type{Name: name, BasicSize: basicSize, Flags: flags}
}

// ShortName returns the component of the name after the last dot.
func (t *Type) ShortName() string {
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// ModuleName returns the component of the name before the last dot,
// or "" for undotted names.
func (t *Type) ModuleName() string {
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[:i]
	}
	return ""
}

// String returns the type name.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// IsHeapType reports whether the type was allocated at runtime.
func (t *Type) IsHeapType() bool {
	return t.Flags&FlagHeapType != 0
}

// HasFeature reports whether all bits of f are set, including the readiness
// bits derived from the type's state.
func (t *Type) HasFeature(f Flags) bool {
	return t.FlagSet()&f == f
}

// FlagSet returns the declared flags combined with the readiness bits.
func (t *Type) FlagSet() Flags {
	f := t.Flags &^ (FlagReady | FlagReadying)
	switch t.state {
	case Ready:
		f |= FlagReady
	case Readying:
		f |= FlagReadying
	}
	return f
}

// MRO returns the method resolution order. It is nil until the type has been
// linearized and must not be modified.
func (t *Type) MRO() []*Type {
	return t.mro
}

// SetMRO records the linearization. It may only be called once while the
// type is readying.
func (t *Type) SetMRO(mro []*Type) {
	if t.state != Readying {
		panic("types: SetMRO on " + t.Name + " outside of readying")
	}
	if t.mro != nil {
		panic("types: MRO of " + t.Name + " computed twice")
	}
	t.mro = mro
}

// Dict returns the attribute namespace, or nil before readying.
func (t *Type) Dict() Mapping {
	return t.dict
}

// SetDict installs the attribute namespace.
func (t *Type) SetDict(d Mapping) {
	t.dict = d
}

// Subclasses returns the registry of immediate subclasses, or nil if none
// has been created yet.
func (t *Type) Subclasses() *SubclassRegistry {
	return t.subclasses.Load()
}

// EnsureSubclasses returns the subclass registry, creating it on first use.
// Concurrent callers observe the same registry.
func (t *Type) EnsureSubclasses() *SubclassRegistry {
	if r := t.subclasses.Load(); r != nil {
		return r
	}
	t.subclasses.CompareAndSwap(nil, &SubclassRegistry{})
	return t.subclasses.Load()
}

// Module returns the module a heap type was created for, or nil.
func (t *Type) Module() *Module {
	return t.module
}

// SetModule associates a heap type with its defining module.
func (t *Type) SetModule(m *Module) {
	t.module = m
}

// Pin takes a temporary ownership reference on t.
func (t *Type) Pin() {
	t.pins.Add(1)
}

// Unpin releases a reference taken by Pin.
func (t *Type) Unpin() {
	if t.pins.Add(-1) < 0 {
		panic("types: unbalanced Unpin on " + t.Name)
	}
}

// Pins returns the number of outstanding temporary references.
func (t *Type) Pins() int32 {
	return t.pins.Load()
}
