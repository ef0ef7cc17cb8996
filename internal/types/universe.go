package types

import "github.com/you-not-fish/typeready/internal/rtabi"

// Universe maps the names of the predeclared types to their descriptors,
// in bootstrap order.
var Universe *Dict

// Predeclared types accessible via the Universe dict.
var (
	universeObject        *Type
	universeType          *Type
	universeInt           *Type
	universeBool          *Type
	universeBytes         *Type
	universeStr           *Type
	universeTuple         *Type
	universeList          *Type
	universeDict          *Type
	universeBaseException *Type
	universeException     *Type
)

func init() {
	Universe = NewDict()

	defRootTypes()
	defNumericTypes()
	defContainerTypes()
	defExceptionTypes()
}

// builtin creates a predeclared type and inserts it into Universe.
func builtin(name string, basicSize int64, flags Flags, slots map[SlotID]*Func) *Type {
	t := NewType(name, basicSize, flags)
	for id, f := range slots {
		t.SetSlot(id, f)
	}
	Universe.Set(name, t)
	return t
}

func native(name string) *Func {
	return NewFunc(name, nil)
}

// defRootTypes defines object and type.
func defRootTypes() {
	universeObject = builtin("object", rtabi.ObjHeadSize, FlagBaseType, map[SlotID]*Func{
		SlotTpDealloc:     ObjectDealloc,
		SlotTpRepr:        ObjectRepr,
		SlotTpHash:        ObjectHash,
		SlotTpStr:         ObjectStr,
		SlotTpGetattro:    GenericGetAttr,
		SlotTpSetattro:    GenericSetAttr,
		SlotTpRichcompare: ObjectRichCompare,
		SlotTpInit:        ObjectInit,
		SlotTpAlloc:       GenericAlloc,
		SlotTpNew:         ObjectNew,
		SlotTpFree:        ObjectFree,
	})
	universeObject.Doc = "object()\n--\n\nThe base class of the class hierarchy."

	universeType = builtin("type", rtabi.HeapTypeSize, FlagBaseType|FlagHaveGC|FlagHaveVectorcall|FlagTypeSubclass, map[SlotID]*Func{
		SlotTpDealloc:  native("type_dealloc"),
		SlotTpCall:     TypeCall,
		SlotTpRepr:     TypeRepr,
		SlotTpGetattro: TypeGetAttr,
		SlotTpSetattro: TypeSetAttr,
		SlotTpTraverse: TypeTraverse,
		SlotTpClear:    TypeClear,
		SlotTpInit:     native("type_init"),
		SlotTpNew:      native("type_new"),
		SlotTpFree:     GCFree,
	})
	universeType.ItemSize = rtabi.MemberDefSize
	universeType.DictOffset = rtabi.TypeObjectSize - rtabi.SizePtr
	universeType.WeakListOffset = rtabi.TypeObjectSize - 2*rtabi.SizePtr
	universeType.VectorcallOffset = rtabi.TypeObjectSize - 3*rtabi.SizePtr
	universeType.Doc = "type(object) -> the object's type\ntype(name, bases, dict, **kwds) -> a new type"
	universeType.Base = universeObject
}

// defNumericTypes defines int and bool.
func defNumericTypes() {
	universeInt = builtin("int", rtabi.IntBasicSize, FlagBaseType|FlagLongSubclass|FlagMatchSelf, map[SlotID]*Func{
		SlotTpRepr:        native("long_repr"),
		SlotTpHash:        native("long_hash"),
		SlotTpRichcompare: native("long_richcompare"),
		SlotTpNew:         native("long_new"),
		SlotNbAdd:         native("long_add"),
		SlotNbSubtract:    native("long_sub"),
		SlotNbMultiply:    native("long_mul"),
		SlotNbRemainder:   native("long_mod"),
		SlotNbNegative:    native("long_neg"),
		SlotNbAbsolute:    native("long_abs"),
		SlotNbBool:        native("long_bool"),
		SlotNbInvert:      native("long_invert"),
		SlotNbAnd:         native("long_and"),
		SlotNbOr:          native("long_or"),
		SlotNbXor:         native("long_xor"),
		SlotNbInt:         native("long_long"),
		SlotNbIndex:       native("long_long"),
	})
	universeInt.ItemSize = rtabi.SizeDigit
	universeInt.Doc = "int([x]) -> integer\nint(x, base=10) -> integer"

	universeBool = builtin("bool", rtabi.IntBasicSize, FlagLongSubclass|FlagMatchSelf, map[SlotID]*Func{
		SlotTpRepr: native("bool_repr"),
		SlotTpNew:  native("bool_new"),
		SlotNbAnd:  native("bool_and"),
		SlotNbOr:   native("bool_or"),
		SlotNbXor:  native("bool_xor"),
	})
	universeBool.ItemSize = rtabi.SizeDigit
	universeBool.Base = universeInt
}

// defContainerTypes defines bytes, str, tuple, list and dict.
func defContainerTypes() {
	universeBytes = builtin("bytes", rtabi.BytesBasicSize, FlagBaseType|FlagBytesSubclass|FlagMatchSelf, map[SlotID]*Func{
		SlotTpRepr:        native("bytes_repr"),
		SlotTpHash:        native("bytes_hash"),
		SlotTpRichcompare: native("bytes_richcompare"),
		SlotTpIter:        native("bytes_iter"),
		SlotTpNew:         native("bytes_new"),
		SlotSqLength:      native("bytes_length"),
		SlotSqConcat:      native("bytes_concat"),
		SlotSqRepeat:      native("bytes_repeat"),
		SlotSqItem:        native("bytes_item"),
		SlotSqContains:    native("bytes_contains"),
		SlotMpLength:      native("bytes_length"),
		SlotMpSubscript:   native("bytes_subscript"),
		SlotNbRemainder:   native("bytes_mod"),
		SlotBfGetBuffer:   native("bytes_buffer_getbuffer"),
	})
	universeBytes.ItemSize = rtabi.SizeChar

	universeStr = builtin("str", rtabi.StrBasicSize, FlagBaseType|FlagUnicodeSubclass|FlagMatchSelf, map[SlotID]*Func{
		SlotTpRepr:        native("unicode_repr"),
		SlotTpStr:         native("unicode_str"),
		SlotTpHash:        native("unicode_hash"),
		SlotTpRichcompare: native("unicode_richcompare"),
		SlotTpIter:        native("unicode_iter"),
		SlotTpNew:         native("unicode_new"),
		SlotSqLength:      native("unicode_length"),
		SlotSqConcat:      native("unicode_concat"),
		SlotSqRepeat:      native("unicode_repeat"),
		SlotSqItem:        native("unicode_getitem"),
		SlotSqContains:    native("unicode_contains"),
		SlotMpLength:      native("unicode_length"),
		SlotMpSubscript:   native("unicode_subscript"),
		SlotNbRemainder:   native("unicode_mod"),
	})

	universeTuple = builtin("tuple", rtabi.TupleBasicSize, FlagBaseType|FlagHaveGC|FlagTupleSubclass|FlagMatchSelf, map[SlotID]*Func{
		SlotTpDealloc:     native("tuple_dealloc"),
		SlotTpRepr:        native("tuple_repr"),
		SlotTpHash:        native("tuple_hash"),
		SlotTpRichcompare: native("tuple_richcompare"),
		SlotTpIter:        native("tuple_iter"),
		SlotTpTraverse:    native("tuple_traverse"),
		SlotTpNew:         native("tuple_new"),
		SlotTpFree:        GCFree,
		SlotSqLength:      native("tuple_length"),
		SlotSqConcat:      native("tuple_concat"),
		SlotSqRepeat:      native("tuple_repeat"),
		SlotSqItem:        native("tuple_item"),
		SlotSqContains:    native("tuple_contains"),
		SlotMpLength:      native("tuple_length"),
		SlotMpSubscript:   native("tuple_subscript"),
	})
	universeTuple.ItemSize = rtabi.TupleItemSize

	universeList = builtin("list", rtabi.ListBasicSize, FlagBaseType|FlagHaveGC|FlagListSubclass|FlagMatchSelf, map[SlotID]*Func{
		SlotTpDealloc:       native("list_dealloc"),
		SlotTpRepr:          native("list_repr"),
		SlotTpRichcompare:   native("list_richcompare"),
		SlotTpIter:          native("list_iter"),
		SlotTpTraverse:      native("list_traverse"),
		SlotTpClear:         native("list_clear"),
		SlotTpInit:          native("list_init"),
		SlotTpNew:           GenericNew,
		SlotTpFree:          GCFree,
		SlotSqLength:        native("list_length"),
		SlotSqConcat:        native("list_concat"),
		SlotSqRepeat:        native("list_repeat"),
		SlotSqItem:          native("list_item"),
		SlotSqAssItem:       native("list_ass_item"),
		SlotSqContains:      native("list_contains"),
		SlotSqInplaceConcat: native("list_inplace_concat"),
		SlotSqInplaceRepeat: native("list_inplace_repeat"),
		SlotMpLength:        native("list_length"),
		SlotMpSubscript:     native("list_subscript"),
		SlotMpAssSubscript:  native("list_ass_subscript"),
	})
	universeList.Methods = []MethodDef{
		{Name: "append", Func: native("list_append"), Flags: MethO, Doc: "Append object to the end of the list."},
		{Name: "__reversed__", Func: native("list_reversed"), Flags: MethNoArgs, Doc: "Return a reverse iterator over the list."},
	}

	universeDict = builtin("dict", rtabi.DictBasicSize, FlagBaseType|FlagHaveGC|FlagDictSubclass|FlagMatchSelf, map[SlotID]*Func{
		SlotTpDealloc:      native("dict_dealloc"),
		SlotTpRepr:         native("dict_repr"),
		SlotTpRichcompare:  native("dict_richcompare"),
		SlotTpIter:         native("dict_iter"),
		SlotTpTraverse:     native("dict_traverse"),
		SlotTpClear:        native("dict_tp_clear"),
		SlotTpInit:         native("dict_init"),
		SlotTpNew:          native("dict_new"),
		SlotTpFree:         GCFree,
		SlotSqContains:     native("dict_contains"),
		SlotMpLength:       native("dict_length"),
		SlotMpSubscript:    native("dict_subscript"),
		SlotMpAssSubscript: native("dict_ass_sub"),
	})
}

// defExceptionTypes defines BaseException and Exception.
func defExceptionTypes() {
	universeBaseException = builtin("BaseException", rtabi.ExceptionBasicSize, FlagBaseType|FlagHaveGC|FlagBaseExcSubclass, map[SlotID]*Func{
		SlotTpDealloc:  native("BaseException_dealloc"),
		SlotTpRepr:     native("BaseException_repr"),
		SlotTpStr:      native("BaseException_str"),
		SlotTpTraverse: native("BaseException_traverse"),
		SlotTpClear:    native("BaseException_clear"),
		SlotTpInit:     native("BaseException_init"),
		SlotTpNew:      native("BaseException_new"),
		SlotTpFree:     GCFree,
	})
	universeBaseException.DictOffset = rtabi.ObjHeadSize
	universeBaseException.Members = []MemberDef{
		{Name: "__suppress_context__", Kind: MemberBool, Offset: rtabi.ExceptionBasicSize - rtabi.SizePtr},
	}
	universeBaseException.GetSets = []GetSetDef{
		{Name: "args", Get: native("BaseException_get_args"), Set: native("BaseException_set_args")},
		{Name: "__traceback__", Get: native("BaseException_get_tb"), Set: native("BaseException_set_tb")},
	}
	universeBaseException.Doc = "Common base class for all exceptions"

	universeException = builtin("Exception", rtabi.ExceptionBasicSize, FlagBaseType|FlagHaveGC|FlagBaseExcSubclass, nil)
	universeException.DictOffset = rtabi.ObjHeadSize
	universeException.Base = universeBaseException
	universeException.Doc = "Common base class for all non-exit exceptions."
}

// Predeclared type accessors
func UniverseObject() *Type        { return universeObject }
func UniverseType() *Type          { return universeType }
func UniverseInt() *Type           { return universeInt }
func UniverseBool() *Type          { return universeBool }
func UniverseBytes() *Type         { return universeBytes }
func UniverseStr() *Type           { return universeStr }
func UniverseTuple() *Type         { return universeTuple }
func UniverseList() *Type          { return universeList }
func UniverseDict() *Type          { return universeDict }
func UniverseBaseException() *Type { return universeBaseException }
func UniverseException() *Type     { return universeException }

// LookupUniverse returns the predeclared type with the given name, or nil.
func LookupUniverse(name string) *Type {
	v, ok := Universe.Get(name)
	if !ok {
		return nil
	}
	return v.(*Type)
}

// UniverseTypes returns the predeclared types in bootstrap order.
func UniverseTypes() []*Type {
	names := Universe.Keys()
	out := make([]*Type, len(names))
	for i, name := range names {
		out[i] = LookupUniverse(name)
	}
	return out
}
