package types

import "github.com/you-not-fish/typeready/internal/rtabi"

// Func is a native function stored in a slot or a descriptor.
// Two Funcs are the same function only if they are the same pointer.
type Func struct {
	Name string // native symbol, for display
	Impl any    // host-side implementation, opaque to the engine
}

// NewFunc creates a function with the given symbol name.
func NewFunc(name string, impl any) *Func {
	return &Func{Name: name, Impl: impl}
}

func (f *Func) String() string {
	if f == nil {
		return "<nil>"
	}
	return f.Name
}

// Default slot functions installed on the universe types and by the engine
// when a readied type leaves them empty.
var (
	GenericAlloc = NewFunc(rtabi.FnGenericAlloc, nil)
	GenericNew   = NewFunc(rtabi.FnGenericNew, nil)
	ObjectNew    = NewFunc(rtabi.FnObjectNew, nil)
	ObjectInit   = NewFunc(rtabi.FnObjectInit, nil)

	ObjectDealloc = NewFunc(rtabi.FnObjectDealloc, nil)
	ObjectFree    = NewFunc(rtabi.FnObjectFree, nil)
	GCFree        = NewFunc(rtabi.FnGCFree, nil)

	GenericGetAttr = NewFunc(rtabi.FnGenericGetAttr, nil)
	GenericSetAttr = NewFunc(rtabi.FnGenericSetAttr, nil)
	TypeGetAttr    = NewFunc(rtabi.FnTypeGetAttr, nil)
	TypeSetAttr    = NewFunc(rtabi.FnTypeSetAttr, nil)

	ObjectRichCompare = NewFunc(rtabi.FnObjectRichCompare, nil)
	ObjectHash        = NewFunc(rtabi.FnObjectHash, nil)
	ObjectRepr        = NewFunc(rtabi.FnObjectRepr, nil)
	ObjectStr         = NewFunc(rtabi.FnObjectStr, nil)

	TypeCall     = NewFunc(rtabi.FnTypeCall, nil)
	TypeRepr     = NewFunc(rtabi.FnTypeRepr, nil)
	TypeTraverse = NewFunc(rtabi.FnTypeTraverse, nil)
	TypeClear    = NewFunc(rtabi.FnTypeClear, nil)

	SubtypeDealloc = NewFunc(rtabi.FnSubtypeDealloc, nil)
)

// DefaultFuncs returns the default slot functions.
func DefaultFuncs() []*Func {
	return []*Func{
		GenericAlloc, GenericNew, ObjectNew, ObjectInit,
		ObjectDealloc, ObjectFree, GCFree,
		GenericGetAttr, GenericSetAttr, TypeGetAttr, TypeSetAttr,
		ObjectRichCompare, ObjectHash, ObjectRepr, ObjectStr,
		TypeCall, TypeRepr, TypeTraverse, TypeClear,
		SubtypeDealloc,
	}
}
