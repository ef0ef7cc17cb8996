package types

import "fmt"

// MethodFlags describes the calling convention of a method.
type MethodFlags uint32

const (
	MethVarargs  MethodFlags = 0x0001
	MethKeywords MethodFlags = 0x0002
	MethNoArgs   MethodFlags = 0x0004
	MethO        MethodFlags = 0x0008
	MethClass    MethodFlags = 0x0010
	MethStatic   MethodFlags = 0x0020
	MethCoexist  MethodFlags = 0x0040
)

// MethodDef declares a method implemented by a native function.
type MethodDef struct {
	Name  string
	Func  *Func
	Flags MethodFlags
	Doc   string
}

// MemberKind is the storage type of a native field.
type MemberKind int

const (
	MemberShort MemberKind = iota
	MemberInt
	MemberLong
	MemberFloat
	MemberDouble
	MemberString
	MemberObject
	MemberChar
	MemberByte
	MemberBool
	MemberPySsizeT
)

var memberKindNames = [...]string{
	MemberShort:    "short",
	MemberInt:      "int",
	MemberLong:     "long",
	MemberFloat:    "float",
	MemberDouble:   "double",
	MemberString:   "string",
	MemberObject:   "object",
	MemberChar:     "char",
	MemberByte:     "byte",
	MemberBool:     "bool",
	MemberPySsizeT: "ssize",
}

func (k MemberKind) String() string {
	if k >= 0 && int(k) < len(memberKindNames) {
		return memberKindNames[k]
	}
	return fmt.Sprintf("MemberKind(%d)", int(k))
}

// ParseMemberKind returns the member kind printed by MemberKind.String.
func ParseMemberKind(s string) (MemberKind, error) {
	for k, name := range memberKindNames {
		if name == s {
			return MemberKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown member kind %q", s)
}

// MemberFlags restricts access to a member.
type MemberFlags uint32

const (
	MemberReadOnly MemberFlags = 1 << 0
)

// MemberDef declares a native field exposed as an attribute.
type MemberDef struct {
	Name   string
	Kind   MemberKind
	Offset int64
	Flags  MemberFlags
	Doc    string
}

// GetSetDef declares a computed attribute.
type GetSetDef struct {
	Name    string
	Get     *Func
	Set     *Func
	Doc     string
	Closure any
}

// Values stored in a type dict.

// MethodDescr is a method bound to the type that declared it.
type MethodDescr struct {
	Def   *MethodDef
	Owner *Type
}

func (d *MethodDescr) String() string {
	return fmt.Sprintf("<method '%s' of '%s'>", d.Def.Name, d.Owner.ShortName())
}

// MemberDescr exposes a native field.
type MemberDescr struct {
	Def   *MemberDef
	Owner *Type
}

func (d *MemberDescr) String() string {
	return fmt.Sprintf("<member '%s' of '%s'>", d.Def.Name, d.Owner.ShortName())
}

// GetSetDescr exposes a computed attribute.
type GetSetDescr struct {
	Def   *GetSetDef
	Owner *Type
}

func (d *GetSetDescr) String() string {
	return fmt.Sprintf("<attribute '%s' of '%s'>", d.Def.Name, d.Owner.ShortName())
}

// WrapperKind is the calling convention used to expose a slot function
// under a dunder name.
type WrapperKind int

const (
	WrapUnary WrapperKind = iota
	WrapBinary
	WrapBinaryReflected
	WrapTernary
	WrapTernaryReflected
	WrapInquiry
	WrapLen
	WrapIndexArg
	WrapSqItem
	WrapSqSetItem
	WrapSqDelItem
	WrapObjObj
	WrapObjObjArg
	WrapDelItem
	WrapGetAttr
	WrapSetAttr
	WrapDelAttr
	WrapRichCompare
	WrapLt
	WrapLe
	WrapEq
	WrapNe
	WrapGt
	WrapGe
	WrapCall
	WrapHash
	WrapNext
	WrapDescrGet
	WrapDescrSet
	WrapDescrDelete
	WrapInit
	WrapNew
	WrapAlloc
	WrapFree
	WrapDealloc
	WrapDel
)

var wrapperNames = [...]string{
	WrapUnary:            "unary",
	WrapBinary:           "binary",
	WrapBinaryReflected:  "binary-r",
	WrapTernary:          "ternary",
	WrapTernaryReflected: "ternary-r",
	WrapInquiry:          "inquiry",
	WrapLen:              "len",
	WrapIndexArg:         "indexarg",
	WrapSqItem:           "sq-item",
	WrapSqSetItem:        "sq-setitem",
	WrapSqDelItem:        "sq-delitem",
	WrapObjObj:           "objobj",
	WrapObjObjArg:        "objobjarg",
	WrapDelItem:          "delitem",
	WrapGetAttr:          "getattr",
	WrapSetAttr:          "setattr",
	WrapDelAttr:          "delattr",
	WrapRichCompare:      "richcmp",
	WrapLt:               "lt",
	WrapLe:               "le",
	WrapEq:               "eq",
	WrapNe:               "ne",
	WrapGt:               "gt",
	WrapGe:               "ge",
	WrapCall:             "call",
	WrapHash:             "hash",
	WrapNext:             "next",
	WrapDescrGet:         "descr-get",
	WrapDescrSet:         "descr-set",
	WrapDescrDelete:      "descr-delete",
	WrapInit:             "init",
	WrapNew:              "new",
	WrapAlloc:            "alloc",
	WrapFree:             "free",
	WrapDealloc:          "dealloc",
	WrapDel:              "del",
}

func (k WrapperKind) String() string {
	if k >= 0 && int(k) < len(wrapperNames) {
		return wrapperNames[k]
	}
	return fmt.Sprintf("WrapperKind(%d)", int(k))
}

// SlotWrapper publishes a slot function under a dunder name.
type SlotWrapper struct {
	Name    string
	Func    *Func
	Wrapper WrapperKind
	Owner   *Type
}

func (w *SlotWrapper) String() string {
	return fmt.Sprintf("<slot wrapper '%s' of '%s' objects>", w.Name, w.Owner.ShortName())
}

// NoneType is the type of None.
type NoneType struct{}

func (NoneType) String() string { return "None" }

// None is the absent-value marker stored in dicts, e.g. as __doc__.
var None NoneType
