package typeready

import (
	"fmt"

	"github.com/you-not-fish/typeready/internal/types"
)

// Step is a single stage of readying a type.
type Step struct {
	Name string
	Fn   func(e *Engine, t *types.Type) error
}

// readySteps is the readiness procedure, in order. It is filled in by init
// because the steps ready bases recursively through Engine.ready, which
// refers back to readySteps.
var readySteps []Step

func init() {
	readySteps = []Step{
		{"base", stepBase},
		{"ready-base", stepReadyBase},
		{"bases", stepBases},
		{"best-base", stepBestBase},
		{"dict", stepDict},
		{"members", stepMembers},
		{"mro", stepMRO},
		{"inherit-special", stepInheritSpecial},
		{"inherit-slots", stepInheritSlots},
		{"defaults", stepDefaults},
		{"publish", stepPublish},
		{"subclasses-dict", stepSubclassesDict},
		{"doc", stepDoc},
		{"buffer", stepBuffer},
		{"link-subclasses", stepLinkSubclasses},
		{"verify", stepVerify},
		{"mark-ready", stepMarkReady},
	}
}

// StepNames returns the names of the readiness steps in execution order.
func StepNames() []string {
	names := make([]string, len(readySteps))
	for i, s := range readySteps {
		names[i] = s.Name
	}
	return names
}

// run executes steps on t in order, stopping at the first failure.
func (e *Engine) run(t *types.Type, steps []Step) error {
	for _, s := range steps {
		if err := s.Fn(e, t); err != nil {
			return fmt.Errorf("ready %s: %s: %w", t.Name, s.Name, err)
		}
		if shouldTrace(e.conf.Trace, s.Name) {
			e.log.Debug().
				Str("type", t.Name).
				Str("step", s.Name).
				Stringer("state", t.State()).
				Stringer("flags", t.FlagSet()).
				Int("mro", len(t.MRO())).
				Int("dict", dictLen(t)).
				Msg("ready step")
		}
	}
	return nil
}

func shouldTrace(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func dictLen(t *types.Type) int {
	if d := t.Dict(); d != nil {
		return d.Len()
	}
	return 0
}

func stepBase(e *Engine, t *types.Type) error {
	root := types.UniverseObject()
	if t == root || t.Base != nil {
		return nil
	}
	switch len(t.Bases) {
	case 0:
		t.Base = root
	case 1:
		t.Base = t.Bases[0]
	default:
		best, err := e.bestBase(t.Bases)
		if err != nil {
			return err
		}
		t.Base = best
	}
	if t.Base == nil {
		return errorf(ErrInvalidBaseType, t, "bases must be types")
	}
	return nil
}

func stepReadyBase(e *Engine, t *types.Type) error {
	return e.readyBase(t, t.Base)
}

// readyBase readies base on behalf of t. A base that is still being
// readied further up the call chain cannot serve as a ready base.
func (e *Engine) readyBase(t, base *types.Type) error {
	if base == nil || base.IsReady() {
		return nil
	}
	if err := e.ready(base); err != nil {
		return err
	}
	if !base.IsReady() {
		return errorf(ErrInvalidBaseType, t, "base %s is still being readied", base.Name)
	}
	return nil
}

func stepBases(e *Engine, t *types.Type) error {
	if len(t.Bases) == 0 && t.Base != nil {
		t.Bases = []*types.Type{t.Base}
	}
	for i, b := range t.Bases {
		if b == nil {
			return errorf(ErrInvalidBaseType, t, "bases[%d] is not a type", i)
		}
		if err := e.readyBase(t, b); err != nil {
			return err
		}
	}
	return nil
}

func stepBestBase(e *Engine, t *types.Type) error {
	if len(t.Bases) < 2 {
		return nil
	}
	best, err := e.bestBase(t.Bases)
	if err != nil {
		return err
	}
	if solid := e.conf.Sizes.SolidBase(t.Base); !types.IsSubtype(solid, e.conf.Sizes.SolidBase(best)) {
		return errorf(ErrLayoutConflict, t, "base %s is not layout compatible with %s", t.Base.Name, best.Name)
	}
	return nil
}

func stepDict(e *Engine, t *types.Type) error {
	if t.Dict() != nil {
		return nil
	}
	d, err := e.conf.NewDict(t)
	if err != nil {
		return wrap(ErrOutOfMemory, t, err, "cannot create dict")
	}
	t.SetDict(d)
	return nil
}

// stepMembers registers the methods, members and getsets declared on t.
// Existing entries win, except for methods marked MethCoexist.
func stepMembers(e *Engine, t *types.Type) error {
	d := t.Dict()
	for i := range t.Methods {
		m := &t.Methods[i]
		if d.Contains(m.Name) && m.Flags&types.MethCoexist == 0 {
			continue
		}
		if err := d.Set(m.Name, &types.MethodDescr{Def: m, Owner: t}); err != nil {
			return wrap(ErrOutOfMemory, t, err, "add method %s", m.Name)
		}
	}
	for i := range t.Members {
		m := &t.Members[i]
		if d.Contains(m.Name) {
			continue
		}
		if err := d.Set(m.Name, &types.MemberDescr{Def: m, Owner: t}); err != nil {
			return wrap(ErrOutOfMemory, t, err, "add member %s", m.Name)
		}
	}
	for i := range t.GetSets {
		g := &t.GetSets[i]
		if d.Contains(g.Name) {
			continue
		}
		if err := d.Set(g.Name, &types.GetSetDescr{Def: g, Owner: t}); err != nil {
			return wrap(ErrOutOfMemory, t, err, "add getset %s", g.Name)
		}
	}
	return nil
}

func stepMRO(e *Engine, t *types.Type) error {
	mro, err := e.computeMRO(t)
	if err != nil {
		return err
	}
	t.SetMRO(mro)
	return nil
}

func stepInheritSpecial(e *Engine, t *types.Type) error {
	if t.Base != nil {
		inheritSpecial(t, t.Base)
	}
	return nil
}

func stepInheritSlots(e *Engine, t *types.Type) error {
	for _, a := range t.MRO()[1:] {
		inheritSlots(t, a)
	}
	return nil
}

func stepDefaults(e *Engine, t *types.Type) error {
	if t.Slot(types.SlotTpAlloc) == nil {
		t.SetSlot(types.SlotTpAlloc, types.GenericAlloc)
	}
	if t.Slot(types.SlotTpNew) == nil {
		t.SetSlot(types.SlotTpNew, types.GenericNew)
	}
	return nil
}

func stepPublish(e *Engine, t *types.Type) error {
	return publishSlots(t)
}

func stepSubclassesDict(e *Engine, t *types.Type) error {
	t.EnsureSubclasses()
	return nil
}

func stepDoc(e *Engine, t *types.Type) error {
	d := t.Dict()
	if d.Contains("__doc__") {
		return nil
	}
	if err := d.Set("__doc__", types.DocValue(t.Name, t.Doc)); err != nil {
		return wrap(ErrOutOfMemory, t, err, "set __doc__")
	}
	return nil
}

// stepBuffer shares the base's buffer slots with a type that has no buffer
// table of its own.
func stepBuffer(e *Engine, t *types.Type) error {
	base := t.Base
	if base == nil || t.HasProtocol(types.ProtoBuffer) || !base.HasProtocol(types.ProtoBuffer) {
		return nil
	}
	for _, id := range types.ProtocolSlots(types.ProtoBuffer) {
		t.SetSlot(id, base.Slot(id))
	}
	return nil
}

func stepLinkSubclasses(e *Engine, t *types.Type) error {
	linkSubclasses(t)
	return nil
}

// stepVerify checks the structural invariants of t while a failure can
// still return it to not-ready.
func stepVerify(e *Engine, t *types.Type) error {
	if !e.conf.Verify {
		return nil
	}
	return types.Verify(t)
}

func stepMarkReady(e *Engine, t *types.Type) error {
	t.MarkReady()
	e.conf.Dispatcher.TypeModified(t)
	e.log.Debug().Str("type", t.Name).Stringer("flags", t.FlagSet()).Msg("type ready")
	return nil
}
