package typeready

import (
	"github.com/you-not-fish/typeready/internal/heap"
	"github.com/you-not-fish/typeready/internal/rtabi"
	"github.com/you-not-fish/typeready/internal/types"
)

// SlotEntry assigns a value to a slot of a spec.
//
// Function slots take a *types.Func. The data slots take:
// SlotTpBase a *types.Type, SlotTpBases a []*types.Type, SlotTpDoc a string,
// SlotTpMethods a []types.MethodDef, SlotTpMembers a []types.MemberDef and
// SlotTpGetset a []types.GetSetDef.
type SlotEntry struct {
	ID    types.SlotID
	Value any
}

// Spec declares a heap type.
type Spec struct {
	Name      string // dotted full name, e.g. "pkg.Widget"
	BasicSize int64
	ItemSize  int64
	Flags     types.Flags
	Slots     []SlotEntry
}

// Reserved member names that set layout offsets instead of becoming
// attributes.
const (
	memberWeakListOffset   = "__weaklistoffset__"
	memberDictOffset       = "__dictoffset__"
	memberVectorcallOffset = "__vectorcalloffset__"
)

// FromSpec builds and readies a heap type from spec.
func (e *Engine) FromSpec(spec *Spec) (*types.Type, error) {
	return e.FromModuleAndSpec(nil, spec, nil)
}

// FromSpecWithBases is like FromSpec with explicit bases, which take
// precedence over base slots in the spec.
func (e *Engine) FromSpecWithBases(spec *Spec, bases []*types.Type) (*types.Type, error) {
	return e.FromModuleAndSpec(nil, spec, bases)
}

// FromModuleAndSpec is like FromSpecWithBases and additionally associates
// the new type with module, which may be nil.
//
// On failure every allocation made for the type is freed and the type is
// not reachable from its bases or from Lookup.
func (e *Engine) FromModuleAndSpec(module *types.Module, spec *Spec, bases []*types.Type) (*types.Type, error) {
	initMu.Lock()
	defer initMu.Unlock()

	b := &builder{e: e, spec: spec, module: module}
	t, err := b.build(bases)
	if err != nil {
		b.rollback()
		e.log.Debug().Str("type", spec.Name).Err(err).Msg("build failed")
		return nil, err
	}

	e.mu.Lock()
	e.published[t.Name] = &heapType{t: t, blocks: b.blocks}
	e.mu.Unlock()
	e.log.Info().Str("type", t.Name).Stringer("base", t.Base).Int64("basicsize", t.BasicSize).Msg("heap type published")
	return t, nil
}

// builder holds the partial state of one FromModuleAndSpec call.
type builder struct {
	e      *Engine
	spec   *Spec
	module *types.Module
	t      *types.Type
	blocks []*heap.Block
}

func (b *builder) alloc(kind heap.Kind, size int64) (*heap.Block, error) {
	blk, err := b.e.conf.Heap.Alloc(kind, size)
	if err != nil {
		return nil, wrap(ErrOutOfMemory, b.t, err, "allocate %s", kind)
	}
	b.blocks = append(b.blocks, blk)
	return blk, nil
}

// rollback releases everything a failed build allocated.
func (b *builder) rollback() {
	for i := len(b.blocks) - 1; i >= 0; i-- {
		b.e.conf.Heap.Free(b.blocks[i])
	}
	b.blocks = nil
	if b.t != nil {
		unlinkSubclasses(b.t)
		b.e.mu.Lock()
		if h, ok := b.e.published[b.t.Name]; ok && h.t == b.t {
			delete(b.e.published, b.t.Name)
		}
		b.e.mu.Unlock()
	}
}

func (b *builder) build(explicit []*types.Type) (*types.Type, error) {
	spec := b.spec

	// 1. Name
	if spec.Name == "" {
		return nil, errorf(ErrMissingName, nil, "type spec does not define the name field")
	}
	b.t = types.NewType(spec.Name, spec.BasicSize, 0)
	t := b.t

	// 2. Bases
	bases, err := b.resolveBases(explicit)
	if err != nil {
		return nil, err
	}

	// 3. Type record, sized for the declared members
	members, err := b.members()
	if err != nil {
		return nil, err
	}
	if _, err := b.alloc(heap.KindTypeRecord, rtabi.HeapTypeSize+int64(len(members))*rtabi.MemberDefSize); err != nil {
		return nil, err
	}

	// 4. Reserved members
	var weakListOffset, dictOffset, vectorcallOffset int64
	visible := make([]types.MemberDef, 0, len(members))
	for _, m := range members {
		var dst *int64
		switch m.Name {
		case memberWeakListOffset:
			dst = &weakListOffset
		case memberDictOffset:
			dst = &dictOffset
		case memberVectorcallOffset:
			dst = &vectorcallOffset
		default:
			visible = append(visible, m)
			continue
		}
		if m.Kind != types.MemberPySsizeT || m.Flags != types.MemberReadOnly {
			return nil, errorf(ErrInvalidMember, t, "member %s must be a read-only ssize field", m.Name)
		}
		*dst = m.Offset
	}

	// 5. Best base and essential fields
	best, err := b.e.bestBase(bases)
	if err != nil {
		return nil, err
	}
	t.Base = best
	t.Bases = bases
	t.EnableProtocol(types.AllProtocols)
	t.BasicSize = spec.BasicSize
	t.ItemSize = spec.ItemSize
	t.Flags = spec.Flags&^(types.FlagReady|types.FlagReadying) | types.FlagHeapType
	t.Members = visible
	t.SetModule(b.module)

	// 6. Slots
	for _, s := range spec.Slots {
		if err := b.setSlot(s); err != nil {
			return nil, err
		}
	}
	if t.Slot(types.SlotTpDealloc) == nil {
		t.SetSlot(types.SlotTpDealloc, types.SubtypeDealloc)
	}

	// 7. Reserved offsets
	if weakListOffset != 0 {
		t.WeakListOffset = weakListOffset
	}
	if dictOffset != 0 {
		t.DictOffset = dictOffset
	}
	if vectorcallOffset != 0 {
		t.VectorcallOffset = vectorcallOffset
	}

	// 8. Ready
	if err := b.e.ready(t); err != nil {
		return nil, err
	}

	// 9. __module__. Readying already published __doc__ unless the type
	// declared its own.
	d := t.Dict()
	if !d.Contains("__module__") {
		modname := t.ModuleName()
		if modname == "" {
			if b.module != nil {
				modname = b.module.Name()
			} else {
				modname = "builtins"
				b.e.log.Warn().Str("type", t.Name).Msg("builtin type has no __module__ attribute")
			}
		}
		if err := d.Set("__module__", modname); err != nil {
			return nil, wrap(ErrOutOfMemory, t, err, "set __module__")
		}
	}
	return t, nil
}

// resolveBases returns the bases of the new type: explicit bases if given,
// else a bases slot, else a base slot, else object. A single base from a
// slot or the default is packed into a heap-allocated tuple.
func (b *builder) resolveBases(explicit []*types.Type) ([]*types.Type, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}
	var base *types.Type
	for _, s := range b.spec.Slots {
		switch s.ID {
		case types.SlotTpBases:
			bases, ok := s.Value.([]*types.Type)
			if !ok || len(bases) == 0 {
				return nil, errorf(ErrInvalidBaseType, b.t, "tp_bases must be a non-empty list of types, not %T", s.Value)
			}
			return bases, nil
		case types.SlotTpBase:
			bt, ok := s.Value.(*types.Type)
			if !ok || bt == nil {
				return nil, errorf(ErrInvalidBaseType, b.t, "tp_base must be a type, not %T", s.Value)
			}
			base = bt
		}
	}
	if base == nil {
		base = types.UniverseObject()
	}
	if _, err := b.alloc(heap.KindBases, rtabi.TupleBasicSize+rtabi.TupleItemSize); err != nil {
		return nil, err
	}
	return []*types.Type{base}, nil
}

// members returns the member declarations of the spec.
func (b *builder) members() ([]types.MemberDef, error) {
	var members []types.MemberDef
	for _, s := range b.spec.Slots {
		if s.ID != types.SlotTpMembers {
			continue
		}
		ms, ok := s.Value.([]types.MemberDef)
		if !ok {
			return nil, errorf(ErrInvalidSlotID, b.t, "tp_members expects []MemberDef, not %T", s.Value)
		}
		members = append(members, ms...)
	}
	return members, nil
}

// setSlot copies one slot entry into the new type.
func (b *builder) setSlot(s SlotEntry) error {
	t := b.t
	if !s.ID.Valid() {
		return errorf(ErrInvalidSlotID, t, "invalid slot offset %d", int(s.ID))
	}
	switch s.ID {
	case types.SlotTpBase, types.SlotTpBases, types.SlotTpMembers:
		// handled before the slots are copied
		return nil
	case types.SlotTpDoc:
		doc, ok := s.Value.(string)
		if !ok {
			return errorf(ErrInvalidSlotID, t, "tp_doc expects a string, not %T", s.Value)
		}
		if doc == "" {
			t.Doc = ""
			return nil
		}
		blk, err := b.alloc(heap.KindDoc, int64(len(doc))+1)
		if err != nil {
			return err
		}
		blk.Data = doc
		t.Doc = doc
		return nil
	case types.SlotTpMethods:
		ms, ok := s.Value.([]types.MethodDef)
		if !ok {
			return errorf(ErrInvalidSlotID, t, "tp_methods expects []MethodDef, not %T", s.Value)
		}
		t.Methods = append(t.Methods, ms...)
		return nil
	case types.SlotTpGetset:
		gs, ok := s.Value.([]types.GetSetDef)
		if !ok {
			return errorf(ErrInvalidSlotID, t, "tp_getset expects []GetSetDef, not %T", s.Value)
		}
		t.GetSets = append(t.GetSets, gs...)
		return nil
	}

	f, ok := s.Value.(*types.Func)
	if !ok {
		return errorf(ErrInvalidSlotID, t, "slot %s expects a function, not %T", s.ID, s.Value)
	}
	t.SetSlot(s.ID, f)
	return nil
}
