// Package rtabi defines the object layout constants shared between the type
// engine and the native side that allocates instances.
package rtabi

// Default native function names (must match the native side's exported symbols)
const (
	// Allocation and construction
	FnGenericAlloc = "type_generic_alloc"
	FnGenericNew   = "type_generic_new"
	FnObjectNew    = "object_new"
	FnObjectInit   = "object_init"

	// Destruction
	FnObjectDealloc = "object_dealloc"
	FnObjectFree    = "object_free"
	FnGCFree        = "object_gc_del"

	// Attribute access
	FnGenericGetAttr = "object_generic_getattr"
	FnGenericSetAttr = "object_generic_setattr"
	FnTypeGetAttr    = "type_getattro"
	FnTypeSetAttr    = "type_setattro"

	// Default behavior
	FnObjectRichCompare = "object_richcompare"
	FnObjectHash        = "object_hash"
	FnObjectRepr        = "object_repr"
	FnObjectStr         = "object_str"
	FnTypeCall          = "type_call"
	FnTypeRepr          = "type_repr"
	FnTypeTraverse      = "type_traverse"
	FnTypeClear         = "type_clear"
)

// Heap type defaults
const (
	FnSubtypeDealloc = "subtype_dealloc"
)
