package typeready

import "github.com/you-not-fish/typeready/internal/types"

// inheritSpecial copies the layout fields and fast-path flags of base into t.
func inheritSpecial(t, base *types.Type) {
	// Traverse and clear come with the GC flag.
	if t.Flags&types.FlagHaveGC == 0 && base.Flags&types.FlagHaveGC != 0 &&
		t.Slot(types.SlotTpTraverse) == nil && t.Slot(types.SlotTpClear) == nil {
		t.Flags |= types.FlagHaveGC
		t.SetSlot(types.SlotTpTraverse, base.Slot(types.SlotTpTraverse))
		t.SetSlot(types.SlotTpClear, base.Slot(types.SlotTpClear))
	}

	// A static type deriving only from object does not become
	// constructible by inheriting object's constructor.
	if base != types.UniverseObject() || t.IsHeapType() {
		if t.Slot(types.SlotTpNew) == nil {
			t.SetSlot(types.SlotTpNew, base.Slot(types.SlotTpNew))
		}
	}

	if t.BasicSize == 0 {
		t.BasicSize = base.BasicSize
	}
	if t.ItemSize == 0 {
		t.ItemSize = base.ItemSize
	}
	if t.WeakListOffset == 0 {
		t.WeakListOffset = base.WeakListOffset
	}
	if t.DictOffset == 0 {
		t.DictOffset = base.DictOffset
	}

	if t.Flags&types.FastSubclassMask == 0 {
		t.Flags |= types.FastSubclassFlag(base)
	}
	if base.Flags&types.FlagMatchSelf != 0 {
		t.Flags |= types.FlagMatchSelf
	}
}

// optionalProtocols are the protocol tables whose slots are copied only when
// both the type and the ancestor have the table.
var optionalProtocols = []types.Protocol{
	types.ProtoAsync,
	types.ProtoNumber,
	types.ProtoSequence,
	types.ProtoMapping,
	types.ProtoBuffer,
}

// copySlot copies slot id from base into t if t leaves it empty and base
// defines it itself rather than inheriting it from basebase.
func copySlot(t, base, basebase *types.Type, id types.SlotID) {
	f := base.Slot(id)
	if t.Slot(id) != nil || f == nil {
		return
	}
	if basebase != nil && basebase.Slot(id) == f {
		return
	}
	t.SetSlot(id, f)
}

// inheritSlots copies the slots that base redefines into t.
func inheritSlots(t, base *types.Type) {
	for _, p := range optionalProtocols {
		if !t.HasProtocol(p) || !base.HasProtocol(p) {
			continue
		}
		basebase := base.Base
		if basebase != nil && !basebase.HasProtocol(p) {
			basebase = nil
		}
		for _, id := range types.ProtocolSlots(p) {
			copySlot(t, base, basebase, id)
		}
	}

	basebase := base.Base
	copySlot(t, base, basebase, types.SlotTpDealloc)

	// The getattr and setattr slots are inherited in pairs.
	if t.Slot(types.SlotTpGetattr) == nil && t.Slot(types.SlotTpGetattro) == nil {
		t.SetSlot(types.SlotTpGetattr, base.Slot(types.SlotTpGetattr))
		t.SetSlot(types.SlotTpGetattro, base.Slot(types.SlotTpGetattro))
	}
	if t.Slot(types.SlotTpSetattr) == nil && t.Slot(types.SlotTpSetattro) == nil {
		t.SetSlot(types.SlotTpSetattr, base.Slot(types.SlotTpSetattr))
		t.SetSlot(types.SlotTpSetattro, base.Slot(types.SlotTpSetattro))
	}

	copySlot(t, base, basebase, types.SlotTpRepr)

	if t.VectorcallOffset == 0 && base.VectorcallOffset != 0 &&
		(basebase == nil || base.VectorcallOffset != basebase.VectorcallOffset) {
		t.VectorcallOffset = base.VectorcallOffset
	}
	if t.Slot(types.SlotTpCall) == nil && base.Flags&types.FlagHaveVectorcall != 0 && !t.IsHeapType() {
		t.Flags |= types.FlagHaveVectorcall
	}
	copySlot(t, base, basebase, types.SlotTpCall)
	copySlot(t, base, basebase, types.SlotTpStr)

	// Comparison and hashing travel together, and only when the type
	// overrides neither.
	if t.Slot(types.SlotTpRichcompare) == nil && t.Slot(types.SlotTpHash) == nil && !overridesHash(t) {
		t.SetSlot(types.SlotTpRichcompare, base.Slot(types.SlotTpRichcompare))
		t.SetSlot(types.SlotTpHash, base.Slot(types.SlotTpHash))
	}

	copySlot(t, base, basebase, types.SlotTpIter)
	copySlot(t, base, basebase, types.SlotTpIternext)
	copySlot(t, base, basebase, types.SlotTpDescrGet)
	copySlot(t, base, basebase, types.SlotTpDescrSet)
	if t.DictOffset == 0 && base.DictOffset != 0 &&
		(basebase == nil || base.DictOffset != basebase.DictOffset) {
		t.DictOffset = base.DictOffset
	}
	copySlot(t, base, basebase, types.SlotTpInit)
	copySlot(t, base, basebase, types.SlotTpAlloc)
	copySlot(t, base, basebase, types.SlotTpIsGC)
	if t.Flags&base.Flags&types.FlagHaveFinalize != 0 {
		copySlot(t, base, basebase, types.SlotTpFinalize)
	}

	tgc := t.Flags&types.FlagHaveGC != 0
	bgc := base.Flags&types.FlagHaveGC != 0
	switch {
	case tgc == bgc:
		copySlot(t, base, basebase, types.SlotTpFree)
	case tgc && t.Slot(types.SlotTpFree) == nil && base.Slot(types.SlotTpFree) == types.ObjectFree:
		t.SetSlot(types.SlotTpFree, types.GCFree)
	}
}

// overridesHash reports whether t's own dict defines __eq__ or __hash__.
func overridesHash(t *types.Type) bool {
	d := t.Dict()
	return d != nil && (d.Contains("__eq__") || d.Contains("__hash__"))
}
