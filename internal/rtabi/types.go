// Package rtabi defines the object layout constants shared between the type
// engine and the native side that allocates instances.
// These values must be kept in sync with the native object headers.
package rtabi

// Basic sizes in bytes
const (
	SizePtr   = 8 // pointer
	SizeSsize = 8 // signed size
	SizeDigit = 4 // arbitrary-precision integer digit
	SizeChar  = 1
)

// Object header layout
const (
	// ObjHeadSize is the size of a fixed-size object head (refcnt + type*).
	ObjHeadSize = 16

	// VarObjHeadSize is the size of a variable-size object head
	// (refcnt + type* + item count).
	VarObjHeadSize = 24

	// ObjHeadTypeOffset is the offset of the type pointer in the head.
	ObjHeadTypeOffset = 8
)

// Builtin instance layouts
const (
	// IntBasicSize is the fixed part of an integer (head + one digit, padded).
	IntBasicSize = VarObjHeadSize + SizePtr

	// BytesBasicSize is the fixed part of a bytes object (head + hash + NUL).
	BytesBasicSize = VarObjHeadSize + SizeSsize + SizeChar

	// StrBasicSize is the fixed part of a text object.
	StrBasicSize = ObjHeadSize + 4*SizePtr

	// TupleBasicSize is the fixed part of a tuple; items follow inline.
	TupleBasicSize = VarObjHeadSize

	// ListBasicSize is head + item vector + allocated count.
	ListBasicSize = VarObjHeadSize + 2*SizePtr

	// DictBasicSize is head + used + version + keys + values.
	DictBasicSize = ObjHeadSize + 4*SizePtr

	// ExceptionBasicSize is head + dict + args + traceback + context + cause + flag.
	ExceptionBasicSize = ObjHeadSize + 6*SizePtr
)

// Type record layout
const (
	// TypeObjectSize is the size of a static type record.
	TypeObjectSize = 416

	// HeapTypeSize is the size of a heap type record: the static record plus
	// the inline protocol tables, name, qualname, slots tuple and module.
	HeapTypeSize = 888

	// MemberDefSize is the size of one member descriptor stored after a
	// heap type record.
	MemberDefSize = 40
)

// Heap allocation layouts
const (
	// TupleItemSize is the size of one packed tuple entry.
	TupleItemSize = SizePtr
)
