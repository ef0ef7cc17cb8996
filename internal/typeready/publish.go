package typeready

import "github.com/you-not-fish/typeready/internal/types"

// slotDef maps a slot to the dunder name it is published under.
type slotDef struct {
	name    string
	slot    types.SlotID
	wrapper types.WrapperKind
}

var (
	coreSlotDefs = []slotDef{
		{"__dealloc__", types.SlotTpDealloc, types.WrapDealloc},
		{"__getattr__", types.SlotTpGetattr, types.WrapGetAttr},
		{"__getattr__", types.SlotTpGetattro, types.WrapGetAttr},
		{"__setattr__", types.SlotTpSetattr, types.WrapSetAttr},
		{"__setattr__", types.SlotTpSetattro, types.WrapSetAttr},
		{"__repr__", types.SlotTpRepr, types.WrapUnary},
		{"__hash__", types.SlotTpHash, types.WrapHash},
		{"__call__", types.SlotTpCall, types.WrapCall},
		{"__str__", types.SlotTpStr, types.WrapUnary},
		{"__clear__", types.SlotTpClear, types.WrapInquiry},
	}

	// richCompareDefs are skipped for the default comparator: republishing
	// it would make the default dispatch call back into itself.
	richCompareDefs = []slotDef{
		{"__compare__", types.SlotTpRichcompare, types.WrapRichCompare},
		{"__lt__", types.SlotTpRichcompare, types.WrapLt},
		{"__le__", types.SlotTpRichcompare, types.WrapLe},
		{"__eq__", types.SlotTpRichcompare, types.WrapEq},
		{"__ne__", types.SlotTpRichcompare, types.WrapNe},
		{"__gt__", types.SlotTpRichcompare, types.WrapGt},
		{"__ge__", types.SlotTpRichcompare, types.WrapGe},
	}

	lifecycleSlotDefs = []slotDef{
		{"__iter__", types.SlotTpIter, types.WrapUnary},
		{"__next__", types.SlotTpIternext, types.WrapNext},
		{"__get__", types.SlotTpDescrGet, types.WrapDescrGet},
		{"__set__", types.SlotTpDescrSet, types.WrapDescrSet},
		{"__init__", types.SlotTpInit, types.WrapInit},
		{"__alloc__", types.SlotTpAlloc, types.WrapAlloc},
		{"__new__", types.SlotTpNew, types.WrapNew},
		{"__free__", types.SlotTpFree, types.WrapFree},
		{"__del__", types.SlotTpDel, types.WrapDel},
		{"__finalize__", types.SlotTpFinalize, types.WrapDel},
	}

	sequenceSlotDefs = []slotDef{
		{"__len__", types.SlotSqLength, types.WrapLen},
		{"__add__", types.SlotSqConcat, types.WrapBinary},
		{"__mul__", types.SlotSqRepeat, types.WrapIndexArg},
		{"__getitem__", types.SlotSqItem, types.WrapSqItem},
		{"__setitem__", types.SlotSqAssItem, types.WrapSqSetItem},
		{"__delitem__", types.SlotSqAssItem, types.WrapSqDelItem},
		{"__contains__", types.SlotSqContains, types.WrapObjObj},
		{"__iadd__", types.SlotSqInplaceConcat, types.WrapBinary},
		{"__imul__", types.SlotSqInplaceRepeat, types.WrapIndexArg},
	}

	numberSlotDefs = []slotDef{
		{"__add__", types.SlotNbAdd, types.WrapBinary},
		{"__radd__", types.SlotNbAdd, types.WrapBinaryReflected},
		{"__sub__", types.SlotNbSubtract, types.WrapBinary},
		{"__rsub__", types.SlotNbSubtract, types.WrapBinaryReflected},
		{"__mul__", types.SlotNbMultiply, types.WrapBinary},
		{"__rmul__", types.SlotNbMultiply, types.WrapBinaryReflected},
		{"__mod__", types.SlotNbRemainder, types.WrapBinary},
		{"__rmod__", types.SlotNbRemainder, types.WrapBinaryReflected},
		{"__divmod__", types.SlotNbDivmod, types.WrapBinary},
		{"__rdivmod__", types.SlotNbDivmod, types.WrapBinaryReflected},
		{"__pow__", types.SlotNbPower, types.WrapTernary},
		{"__rpow__", types.SlotNbPower, types.WrapTernaryReflected},
		{"__neg__", types.SlotNbNegative, types.WrapUnary},
		{"__pos__", types.SlotNbPositive, types.WrapUnary},
		{"__abs__", types.SlotNbAbsolute, types.WrapUnary},
		{"__bool__", types.SlotNbBool, types.WrapInquiry},
		{"__invert__", types.SlotNbInvert, types.WrapUnary},
		{"__lshift__", types.SlotNbLshift, types.WrapBinary},
		{"__rlshift__", types.SlotNbLshift, types.WrapBinaryReflected},
		{"__rshift__", types.SlotNbRshift, types.WrapBinary},
		{"__rrshift__", types.SlotNbRshift, types.WrapBinaryReflected},
		{"__and__", types.SlotNbAnd, types.WrapBinary},
		{"__rand__", types.SlotNbAnd, types.WrapBinaryReflected},
		{"__xor__", types.SlotNbXor, types.WrapBinary},
		{"__rxor__", types.SlotNbXor, types.WrapBinaryReflected},
		{"__or__", types.SlotNbOr, types.WrapBinary},
		{"__ror__", types.SlotNbOr, types.WrapBinaryReflected},
		{"__int__", types.SlotNbInt, types.WrapUnary},
		{"__float__", types.SlotNbFloat, types.WrapUnary},
		{"__iadd__", types.SlotNbInplaceAdd, types.WrapBinary},
		{"__isub__", types.SlotNbInplaceSubtract, types.WrapBinary},
		{"__imul__", types.SlotNbInplaceMultiply, types.WrapBinary},
		{"__imod__", types.SlotNbInplaceRemainder, types.WrapBinary},
		{"__ipow__", types.SlotNbInplacePower, types.WrapTernary},
		{"__ilshift__", types.SlotNbInplaceLshift, types.WrapBinary},
		{"__irshift__", types.SlotNbInplaceRshift, types.WrapBinary},
		{"__iand__", types.SlotNbInplaceAnd, types.WrapBinary},
		{"__ixor__", types.SlotNbInplaceXor, types.WrapBinary},
		{"__ior__", types.SlotNbInplaceOr, types.WrapBinary},
		{"__floordiv__", types.SlotNbFloorDivide, types.WrapBinary},
		{"__rfloordiv__", types.SlotNbFloorDivide, types.WrapBinaryReflected},
		{"__truediv__", types.SlotNbTrueDivide, types.WrapBinary},
		{"__rtruediv__", types.SlotNbTrueDivide, types.WrapBinaryReflected},
		{"__ifloordiv__", types.SlotNbInplaceFloorDivide, types.WrapBinary},
		{"__itruediv__", types.SlotNbInplaceTrueDivide, types.WrapBinary},
		{"__index__", types.SlotNbIndex, types.WrapUnary},
		{"__matmul__", types.SlotNbMatrixMultiply, types.WrapBinary},
		{"__rmatmul__", types.SlotNbMatrixMultiply, types.WrapBinaryReflected},
		{"__imatmul__", types.SlotNbInplaceMatrixMultiply, types.WrapBinary},
	}

	mappingSlotDefs = []slotDef{
		{"__len__", types.SlotMpLength, types.WrapLen},
		{"__getitem__", types.SlotMpSubscript, types.WrapBinary},
		{"__setitem__", types.SlotMpAssSubscript, types.WrapObjObjArg},
		{"__delitem__", types.SlotMpAssSubscript, types.WrapDelItem},
	}

	asyncSlotDefs = []slotDef{
		{"__await__", types.SlotAmAwait, types.WrapUnary},
		{"__aiter__", types.SlotAmAiter, types.WrapUnary},
		{"__anext__", types.SlotAmAnext, types.WrapUnary},
	}
)

// publishOrder lists the slot groups in installation order. A later group
// overwrites names installed by an earlier one, so the number protocol wins
// over the sequence protocol and the mapping protocol wins over both.
func publishOrder(t *types.Type) [][]slotDef {
	groups := [][]slotDef{coreSlotDefs}
	if t.Slot(types.SlotTpRichcompare) != types.UniverseObject().Slot(types.SlotTpRichcompare) {
		groups = append(groups, richCompareDefs)
	}
	groups = append(groups, lifecycleSlotDefs)
	if t.HasProtocol(types.ProtoSequence) {
		groups = append(groups, sequenceSlotDefs)
	}
	if t.HasProtocol(types.ProtoNumber) {
		groups = append(groups, numberSlotDefs)
	}
	if t.HasProtocol(types.ProtoMapping) {
		groups = append(groups, mappingSlotDefs)
	}
	if t.HasProtocol(types.ProtoAsync) {
		groups = append(groups, asyncSlotDefs)
	}
	return groups
}

// publishSlots installs every non-empty slot of t into its dict as a
// SlotWrapper. Methods declared on t itself are never replaced.
func publishSlots(t *types.Type) error {
	d := t.Dict()
	for _, group := range publishOrder(t) {
		for _, def := range group {
			f := t.Slot(def.slot)
			if f == nil {
				continue
			}
			if v, ok := d.Get(def.name); ok {
				if m, ok := v.(*types.MethodDescr); ok && m.Owner == t {
					continue
				}
			}
			w := &types.SlotWrapper{Name: def.name, Func: f, Wrapper: def.wrapper, Owner: t}
			if err := d.Set(def.name, w); err != nil {
				return wrap(ErrOutOfMemory, t, err, "publish %s", def.name)
			}
		}
	}
	return nil
}

// PublishedSlot returns the slot a dunder name is published from on t,
// following the installation order. It reports false if no slot of t is
// published under name.
func PublishedSlot(t *types.Type, name string) (types.SlotID, bool) {
	var id types.SlotID
	found := false
	for _, group := range publishOrder(t) {
		for _, def := range group {
			if def.name == name && t.Slot(def.slot) != nil {
				id, found = def.slot, true
			}
		}
	}
	return id, found
}
