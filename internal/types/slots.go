package types

import "fmt"

// SlotID identifies a behavior slot. The numbering is part of the native ABI
// and must not change.
type SlotID int

const (
	SlotBfGetBuffer SlotID = iota + 1
	SlotBfReleaseBuffer
	SlotMpAssSubscript
	SlotMpLength
	SlotMpSubscript
	SlotNbAbsolute
	SlotNbAdd
	SlotNbAnd
	SlotNbBool
	SlotNbDivmod
	SlotNbFloat
	SlotNbFloorDivide
	SlotNbIndex
	SlotNbInplaceAdd
	SlotNbInplaceAnd
	SlotNbInplaceFloorDivide
	SlotNbInplaceLshift
	SlotNbInplaceMultiply
	SlotNbInplaceOr
	SlotNbInplacePower
	SlotNbInplaceRemainder
	SlotNbInplaceRshift
	SlotNbInplaceSubtract
	SlotNbInplaceTrueDivide
	SlotNbInplaceXor
	SlotNbInt
	SlotNbInvert
	SlotNbLshift
	SlotNbMultiply
	SlotNbNegative
	SlotNbOr
	SlotNbPositive
	SlotNbPower
	SlotNbRemainder
	SlotNbRshift
	SlotNbSubtract
	SlotNbTrueDivide
	SlotNbXor
	SlotSqAssItem
	SlotSqConcat
	SlotSqContains
	SlotSqInplaceConcat
	SlotSqInplaceRepeat
	SlotSqItem
	SlotSqLength
	SlotSqRepeat
	SlotTpAlloc
	SlotTpBase
	SlotTpBases
	SlotTpCall
	SlotTpClear
	SlotTpDealloc
	SlotTpDel
	SlotTpDescrGet
	SlotTpDescrSet
	SlotTpDoc
	SlotTpGetattr
	SlotTpGetattro
	SlotTpHash
	SlotTpInit
	SlotTpIsGC
	SlotTpIter
	SlotTpIternext
	SlotTpMethods
	SlotTpNew
	SlotTpRepr
	SlotTpRichcompare
	SlotTpSetattr
	SlotTpSetattro
	SlotTpStr
	SlotTpTraverse
	SlotTpMembers
	SlotTpGetset
	SlotTpFree
	SlotNbMatrixMultiply
	SlotNbInplaceMatrixMultiply
	SlotAmAwait
	SlotAmAiter
	SlotAmAnext
	SlotTpFinalize

	// NumSlots bounds the slot table; id 0 is unused.
	NumSlots
)

// Protocol is a bitset of protocol tables. The core table is always present.
type Protocol uint8

const (
	ProtoCore  Protocol = 0
	ProtoAsync Protocol = 1 << iota
	ProtoNumber
	ProtoSequence
	ProtoMapping
	ProtoBuffer

	// AllProtocols enables every optional table.
	AllProtocols = ProtoAsync | ProtoNumber | ProtoSequence | ProtoMapping | ProtoBuffer
)

func (p Protocol) String() string {
	switch p {
	case ProtoCore:
		return "core"
	case ProtoAsync:
		return "async"
	case ProtoNumber:
		return "number"
	case ProtoSequence:
		return "sequence"
	case ProtoMapping:
		return "mapping"
	case ProtoBuffer:
		return "buffer"
	}
	return fmt.Sprintf("Protocol(%#x)", uint8(p))
}

type slotInfo struct {
	name  string
	proto Protocol
	data  bool // carries a value other than a function
}

var slotInfos = [NumSlots]slotInfo{
	SlotBfGetBuffer:             {"bf_getbuffer", ProtoBuffer, false},
	SlotBfReleaseBuffer:         {"bf_releasebuffer", ProtoBuffer, false},
	SlotMpAssSubscript:          {"mp_ass_subscript", ProtoMapping, false},
	SlotMpLength:                {"mp_length", ProtoMapping, false},
	SlotMpSubscript:             {"mp_subscript", ProtoMapping, false},
	SlotNbAbsolute:              {"nb_absolute", ProtoNumber, false},
	SlotNbAdd:                   {"nb_add", ProtoNumber, false},
	SlotNbAnd:                   {"nb_and", ProtoNumber, false},
	SlotNbBool:                  {"nb_bool", ProtoNumber, false},
	SlotNbDivmod:                {"nb_divmod", ProtoNumber, false},
	SlotNbFloat:                 {"nb_float", ProtoNumber, false},
	SlotNbFloorDivide:           {"nb_floor_divide", ProtoNumber, false},
	SlotNbIndex:                 {"nb_index", ProtoNumber, false},
	SlotNbInplaceAdd:            {"nb_inplace_add", ProtoNumber, false},
	SlotNbInplaceAnd:            {"nb_inplace_and", ProtoNumber, false},
	SlotNbInplaceFloorDivide:    {"nb_inplace_floor_divide", ProtoNumber, false},
	SlotNbInplaceLshift:         {"nb_inplace_lshift", ProtoNumber, false},
	SlotNbInplaceMultiply:       {"nb_inplace_multiply", ProtoNumber, false},
	SlotNbInplaceOr:             {"nb_inplace_or", ProtoNumber, false},
	SlotNbInplacePower:          {"nb_inplace_power", ProtoNumber, false},
	SlotNbInplaceRemainder:      {"nb_inplace_remainder", ProtoNumber, false},
	SlotNbInplaceRshift:         {"nb_inplace_rshift", ProtoNumber, false},
	SlotNbInplaceSubtract:       {"nb_inplace_subtract", ProtoNumber, false},
	SlotNbInplaceTrueDivide:     {"nb_inplace_true_divide", ProtoNumber, false},
	SlotNbInplaceXor:            {"nb_inplace_xor", ProtoNumber, false},
	SlotNbInt:                   {"nb_int", ProtoNumber, false},
	SlotNbInvert:                {"nb_invert", ProtoNumber, false},
	SlotNbLshift:                {"nb_lshift", ProtoNumber, false},
	SlotNbMultiply:              {"nb_multiply", ProtoNumber, false},
	SlotNbNegative:              {"nb_negative", ProtoNumber, false},
	SlotNbOr:                    {"nb_or", ProtoNumber, false},
	SlotNbPositive:              {"nb_positive", ProtoNumber, false},
	SlotNbPower:                 {"nb_power", ProtoNumber, false},
	SlotNbRemainder:             {"nb_remainder", ProtoNumber, false},
	SlotNbRshift:                {"nb_rshift", ProtoNumber, false},
	SlotNbSubtract:              {"nb_subtract", ProtoNumber, false},
	SlotNbTrueDivide:            {"nb_true_divide", ProtoNumber, false},
	SlotNbXor:                   {"nb_xor", ProtoNumber, false},
	SlotSqAssItem:               {"sq_ass_item", ProtoSequence, false},
	SlotSqConcat:                {"sq_concat", ProtoSequence, false},
	SlotSqContains:              {"sq_contains", ProtoSequence, false},
	SlotSqInplaceConcat:         {"sq_inplace_concat", ProtoSequence, false},
	SlotSqInplaceRepeat:         {"sq_inplace_repeat", ProtoSequence, false},
	SlotSqItem:                  {"sq_item", ProtoSequence, false},
	SlotSqLength:                {"sq_length", ProtoSequence, false},
	SlotSqRepeat:                {"sq_repeat", ProtoSequence, false},
	SlotTpAlloc:                 {"tp_alloc", ProtoCore, false},
	SlotTpBase:                  {"tp_base", ProtoCore, true},
	SlotTpBases:                 {"tp_bases", ProtoCore, true},
	SlotTpCall:                  {"tp_call", ProtoCore, false},
	SlotTpClear:                 {"tp_clear", ProtoCore, false},
	SlotTpDealloc:               {"tp_dealloc", ProtoCore, false},
	SlotTpDel:                   {"tp_del", ProtoCore, false},
	SlotTpDescrGet:              {"tp_descr_get", ProtoCore, false},
	SlotTpDescrSet:              {"tp_descr_set", ProtoCore, false},
	SlotTpDoc:                   {"tp_doc", ProtoCore, true},
	SlotTpGetattr:               {"tp_getattr", ProtoCore, false},
	SlotTpGetattro:              {"tp_getattro", ProtoCore, false},
	SlotTpHash:                  {"tp_hash", ProtoCore, false},
	SlotTpInit:                  {"tp_init", ProtoCore, false},
	SlotTpIsGC:                  {"tp_is_gc", ProtoCore, false},
	SlotTpIter:                  {"tp_iter", ProtoCore, false},
	SlotTpIternext:              {"tp_iternext", ProtoCore, false},
	SlotTpMethods:               {"tp_methods", ProtoCore, true},
	SlotTpNew:                   {"tp_new", ProtoCore, false},
	SlotTpRepr:                  {"tp_repr", ProtoCore, false},
	SlotTpRichcompare:           {"tp_richcompare", ProtoCore, false},
	SlotTpSetattr:               {"tp_setattr", ProtoCore, false},
	SlotTpSetattro:              {"tp_setattro", ProtoCore, false},
	SlotTpStr:                   {"tp_str", ProtoCore, false},
	SlotTpTraverse:              {"tp_traverse", ProtoCore, false},
	SlotTpMembers:               {"tp_members", ProtoCore, true},
	SlotTpGetset:                {"tp_getset", ProtoCore, true},
	SlotTpFree:                  {"tp_free", ProtoCore, false},
	SlotNbMatrixMultiply:        {"nb_matrix_multiply", ProtoNumber, false},
	SlotNbInplaceMatrixMultiply: {"nb_inplace_matrix_multiply", ProtoNumber, false},
	SlotAmAwait:                 {"am_await", ProtoAsync, false},
	SlotAmAiter:                 {"am_aiter", ProtoAsync, false},
	SlotAmAnext:                 {"am_anext", ProtoAsync, false},
	SlotTpFinalize:              {"tp_finalize", ProtoCore, false},
}

var slotsByName map[string]SlotID

func init() {
	slotsByName = make(map[string]SlotID, NumSlots)
	for id := SlotID(1); id < NumSlots; id++ {
		slotsByName[slotInfos[id].name] = id
	}
}

// Valid reports whether id names a known slot.
func (id SlotID) Valid() bool {
	return id > 0 && id < NumSlots
}

// IsFunc reports whether the slot holds a function.
func (id SlotID) IsFunc() bool {
	return id.Valid() && !slotInfos[id].data
}

// Protocol returns the protocol table the slot lives in.
func (id SlotID) Protocol() Protocol {
	if !id.Valid() {
		return ProtoCore
	}
	return slotInfos[id].proto
}

func (id SlotID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("SlotID(%d)", int(id))
	}
	return slotInfos[id].name
}

// LookupSlot returns the slot id with the given native name, e.g. "tp_iter".
func LookupSlot(name string) (SlotID, bool) {
	id, ok := slotsByName[name]
	return id, ok
}

// ProtocolSlots returns the function slots of protocol table p in id order.
func ProtocolSlots(p Protocol) []SlotID {
	var ids []SlotID
	for id := SlotID(1); id < NumSlots; id++ {
		if slotInfos[id].proto == p && !slotInfos[id].data {
			ids = append(ids, id)
		}
	}
	return ids
}

// HasProtocol reports whether the protocol table p is present.
func (t *Type) HasProtocol(p Protocol) bool {
	return t.protocols&p == p
}

// EnableProtocol makes the protocol tables in p present.
func (t *Type) EnableProtocol(p Protocol) {
	t.protocols |= p
}

// Protocols returns the set of present protocol tables.
func (t *Type) Protocols() Protocol {
	return t.protocols
}

// Slot returns the function stored in slot id, or nil when the slot is
// empty, its protocol table is absent or id does not name a function slot.
func (t *Type) Slot(id SlotID) *Func {
	if !id.IsFunc() || !t.HasProtocol(id.Protocol()) {
		return nil
	}
	return t.slots[id]
}

// SetSlot stores f in slot id, enabling the slot's protocol table.
// It panics if id does not name a function slot.
func (t *Type) SetSlot(id SlotID, f *Func) {
	if !id.IsFunc() {
		panic(fmt.Sprintf("types: SetSlot(%v) on %s: not a function slot", id, t.Name))
	}
	t.protocols |= id.Protocol()
	t.slots[id] = f
}
