package manifest

import (
	"fmt"
	"sort"

	"github.com/you-not-fish/typeready/internal/typeready"
	"github.com/you-not-fish/typeready/internal/types"
)

var methodFlagNames = map[string]types.MethodFlags{
	"varargs":  types.MethVarargs,
	"keywords": types.MethKeywords,
	"noargs":   types.MethNoArgs,
	"o":        types.MethO,
	"class":    types.MethClass,
	"static":   types.MethStatic,
	"coexist":  types.MethCoexist,
}

// Build builds every type of m with e, in declaration order, and returns
// them. Bases are resolved among the types built so far and the universe.
// Building stops at the first failure; types built before it stay
// published.
func Build(e *typeready.Engine, m *Manifest, funcs *FuncTable) ([]*types.Type, error) {
	var mod *types.Module
	if m.Module != "" {
		mod = types.NewModule(&types.ModuleDef{Name: m.Module})
	}
	built := make([]*types.Type, 0, len(m.Types))
	for i := range m.Types {
		d := &m.Types[i]
		spec, bases, err := d.spec(e, funcs)
		if err != nil {
			return built, fmt.Errorf("type %s: %w", d.Name, err)
		}
		t, err := e.FromModuleAndSpec(mod, spec, bases)
		if err != nil {
			return built, fmt.Errorf("type %s: %w", d.Name, err)
		}
		built = append(built, t)
	}
	return built, nil
}

// Resolve finds a type by name among e's heap types and the universe.
func Resolve(e *typeready.Engine, name string) (*types.Type, bool) {
	if t, ok := e.Lookup(name); ok {
		return t, true
	}
	if t := types.LookupUniverse(name); t != nil {
		return t, true
	}
	return nil, false
}

// spec converts d into a builder spec and its explicit bases.
func (d *TypeDecl) spec(e *typeready.Engine, funcs *FuncTable) (*typeready.Spec, []*types.Type, error) {
	spec := &typeready.Spec{Name: d.Name, BasicSize: d.BasicSize, ItemSize: d.ItemSize}

	for _, name := range d.Flags {
		f, err := types.ParseFlag(name)
		if err != nil {
			return nil, nil, err
		}
		spec.Flags |= f
	}

	var bases []*types.Type
	for _, name := range d.Bases {
		b, ok := Resolve(e, name)
		if !ok {
			return nil, nil, fmt.Errorf("unknown base %q", name)
		}
		bases = append(bases, b)
	}

	if d.Doc != "" {
		spec.Slots = append(spec.Slots, typeready.SlotEntry{ID: types.SlotTpDoc, Value: d.Doc})
	}

	// Map order is random; keep slot order stable.
	names := make([]string, 0, len(d.Slots))
	for name := range d.Slots {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		id, ok := types.LookupSlot(name)
		if !ok {
			return nil, nil, fmt.Errorf("unknown slot %q", name)
		}
		if !id.IsFunc() {
			return nil, nil, fmt.Errorf("slot %s cannot be set by name", name)
		}
		spec.Slots = append(spec.Slots, typeready.SlotEntry{ID: id, Value: funcs.Get(d.Slots[name])})
	}

	if len(d.Methods) > 0 {
		methods := make([]types.MethodDef, len(d.Methods))
		for i, md := range d.Methods {
			var flags types.MethodFlags
			for _, fl := range md.Flags {
				f, ok := methodFlagNames[fl]
				if !ok {
					return nil, nil, fmt.Errorf("method %s: unknown flag %q", md.Name, fl)
				}
				flags |= f
			}
			methods[i] = types.MethodDef{Name: md.Name, Func: funcs.Get(md.Func), Flags: flags, Doc: md.Doc}
		}
		spec.Slots = append(spec.Slots, typeready.SlotEntry{ID: types.SlotTpMethods, Value: methods})
	}

	if len(d.Members) > 0 {
		members := make([]types.MemberDef, len(d.Members))
		for i, md := range d.Members {
			kind, err := types.ParseMemberKind(md.Kind)
			if err != nil {
				return nil, nil, fmt.Errorf("member %s: %w", md.Name, err)
			}
			var flags types.MemberFlags
			if md.ReadOnly {
				flags |= types.MemberReadOnly
			}
			members[i] = types.MemberDef{Name: md.Name, Kind: kind, Offset: md.Offset, Flags: flags, Doc: md.Doc}
		}
		spec.Slots = append(spec.Slots, typeready.SlotEntry{ID: types.SlotTpMembers, Value: members})
	}

	if len(d.GetSets) > 0 {
		getsets := make([]types.GetSetDef, len(d.GetSets))
		for i, gd := range d.GetSets {
			getsets[i] = types.GetSetDef{Name: gd.Name, Get: funcs.Get(gd.Get), Set: funcs.Get(gd.Set), Doc: gd.Doc}
		}
		spec.Slots = append(spec.Slots, typeready.SlotEntry{ID: types.SlotTpGetset, Value: getsets})
	}

	return spec, bases, nil
}
