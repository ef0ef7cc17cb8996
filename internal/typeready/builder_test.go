package typeready

import (
	"errors"
	"fmt"
	"testing"

	"github.com/you-not-fish/typeready/internal/dispatch"
	"github.com/you-not-fish/typeready/internal/heap"
	"github.com/you-not-fish/typeready/internal/rtabi"
	"github.com/you-not-fish/typeready/internal/types"
)

func mustBuild(t *testing.T, e *Engine, spec *Spec) *types.Type {
	t.Helper()
	typ, err := e.FromSpec(spec)
	if err != nil {
		t.Fatalf("FromSpec(%s): %v", spec.Name, err)
	}
	return typ
}

func attr(t *testing.T, typ *types.Type, name string) any {
	t.Helper()
	v, ok := typ.Dict().Get(name)
	if !ok {
		t.Fatalf("%s has no attribute %s", typ, name)
	}
	return v
}

func TestFromSpecModuleName(t *testing.T) {
	e := newEngine(t, Config{})
	typ := mustBuild(t, e, &Spec{Name: "pkg.Widget", BasicSize: 32, Flags: types.FlagBaseType})

	if typ.ShortName() != "Widget" {
		t.Errorf("ShortName() = %q", typ.ShortName())
	}
	if got := attr(t, typ, "__module__"); got != "pkg" {
		t.Errorf("__module__ = %v, want pkg", got)
	}
	if !typ.IsReady() || !typ.IsHeapType() || typ.Base != types.UniverseObject() {
		t.Errorf("state %v, flags %v, base %v", typ.State(), typ.FlagSet(), typ.Base)
	}
	if typ.Slot(types.SlotTpDealloc) != types.SubtypeDealloc {
		t.Errorf("tp_dealloc = %v", typ.Slot(types.SlotTpDealloc))
	}
	if typ.Slot(types.SlotTpNew) != types.ObjectNew {
		t.Errorf("tp_new = %v, want object's", typ.Slot(types.SlotTpNew))
	}
	if typ.Pins() != 0 {
		t.Errorf("Pins() = %d after build", typ.Pins())
	}
	if got, ok := e.Lookup("pkg.Widget"); !ok || got != typ {
		t.Errorf("Lookup(pkg.Widget) = %v, %v", got, ok)
	}
}

func TestFromSpecReservedMembers(t *testing.T) {
	e := newEngine(t, Config{})
	ssize := func(name string, off int64) types.MemberDef {
		return types.MemberDef{Name: name, Kind: types.MemberPySsizeT, Offset: off, Flags: types.MemberReadOnly}
	}
	typ := mustBuild(t, e, &Spec{
		Name:      "pkg.Slotted",
		BasicSize: 48,
		Slots: []SlotEntry{{types.SlotTpMembers, []types.MemberDef{
			{Name: "value", Kind: types.MemberObject, Offset: 16},
			ssize("__weaklistoffset__", 32),
			ssize("__dictoffset__", 40),
			ssize("__vectorcalloffset__", 24),
		}}},
	})

	if typ.WeakListOffset != 32 || typ.DictOffset != 40 || typ.VectorcallOffset != 24 {
		t.Errorf("offsets weaklist=%d dict=%d vectorcall=%d", typ.WeakListOffset, typ.DictOffset, typ.VectorcallOffset)
	}
	if len(typ.Members) != 1 || typ.Members[0].Name != "value" {
		t.Errorf("Members = %v", typ.Members)
	}
	for _, name := range []string{"__weaklistoffset__", "__dictoffset__", "__vectorcalloffset__"} {
		if typ.Dict().Contains(name) {
			t.Errorf("reserved member %s published", name)
		}
	}
	if _, ok := attr(t, typ, "value").(*types.MemberDescr); !ok {
		t.Error("value is not a member descriptor")
	}
}

func TestFromSpecDoc(t *testing.T) {
	h := heap.New(0)
	e := newEngine(t, Config{Heap: h})
	typ := mustBuild(t, e, &Spec{
		Name:  "pkg.Doc",
		Slots: []SlotEntry{{types.SlotTpDoc, "Doc(x)\n--\n\nA documented type."}},
	})

	if got := attr(t, typ, "__doc__"); got != "A documented type." {
		t.Errorf("__doc__ = %q", got)
	}
	if h.Live() != 3 {
		t.Errorf("live blocks = %d, want bases, record and doc", h.Live())
	}
}

func TestFromSpecDeclaredDocKept(t *testing.T) {
	e := newEngine(t, Config{})
	get := types.NewFunc("doc_get", nil)
	typ := mustBuild(t, e, &Spec{
		Name: "pkg.DocGetSet",
		Slots: []SlotEntry{
			{types.SlotTpGetset, []types.GetSetDef{{Name: "__doc__", Get: get}}},
			{types.SlotTpDoc, "plain doc"},
		},
	})

	g, ok := attr(t, typ, "__doc__").(*types.GetSetDescr)
	if !ok || g.Def.Get != get {
		t.Errorf("__doc__ = %v, want the declared getset", attr(t, typ, "__doc__"))
	}
}

func TestFromSpecSignatureOnlyDoc(t *testing.T) {
	e := newEngine(t, Config{})
	typ := mustBuild(t, e, &Spec{
		Name:  "pkg.Sig",
		Slots: []SlotEntry{{types.SlotTpDoc, "Sig(a)\n--\n\n"}},
	})
	if got := attr(t, typ, "__doc__"); got != "" {
		t.Errorf("__doc__ = %v, want empty string", got)
	}
}

func TestFromSpecErrors(t *testing.T) {
	fn := types.NewFunc("f", nil)
	tests := []struct {
		name  string
		spec  *Spec
		bases []*types.Type
		want  error
	}{
		{"missing name", &Spec{}, nil, ErrMissingName},
		{"invalid slot", &Spec{Name: "E1", Slots: []SlotEntry{{types.SlotID(99), fn}}}, nil, ErrInvalidSlotID},
		{"non function", &Spec{Name: "E2", Slots: []SlotEntry{{types.SlotTpRepr, "repr"}}}, nil, ErrInvalidSlotID},
		{"bad doc", &Spec{Name: "E3", Slots: []SlotEntry{{types.SlotTpDoc, 42}}}, nil, ErrInvalidSlotID},
		{"bad methods", &Spec{Name: "E4", Slots: []SlotEntry{{types.SlotTpMethods, fn}}}, nil, ErrInvalidSlotID},
		{"writable offset", &Spec{Name: "E5", Slots: []SlotEntry{{types.SlotTpMembers, []types.MemberDef{
			{Name: "__dictoffset__", Kind: types.MemberPySsizeT, Offset: 16},
		}}}}, nil, ErrInvalidMember},
		{"offset kind", &Spec{Name: "E6", Slots: []SlotEntry{{types.SlotTpMembers, []types.MemberDef{
			{Name: "__weaklistoffset__", Kind: types.MemberInt, Offset: 16, Flags: types.MemberReadOnly},
		}}}}, nil, ErrInvalidMember},
		{"final base", &Spec{Name: "E7", Slots: []SlotEntry{{types.SlotTpBase, types.UniverseBool()}}}, nil, ErrInvalidBaseType},
		{"base not a type", &Spec{Name: "E8", Slots: []SlotEntry{{types.SlotTpBase, "object"}}}, nil, ErrInvalidBaseType},
		{"empty bases", &Spec{Name: "E9", Slots: []SlotEntry{{types.SlotTpBases, []*types.Type{}}}}, nil, ErrInvalidBaseType},
		{"layout conflict", &Spec{Name: "E10"}, []*types.Type{types.UniverseInt(), types.UniverseStr()}, ErrLayoutConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := heap.New(0)
			e := newEngine(t, Config{Heap: h})
			typ, err := e.FromSpecWithBases(tt.spec, tt.bases)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if typ != nil {
				t.Errorf("type = %v, want nil", typ)
			}
			if h.Live() != 0 {
				t.Errorf("%d blocks leaked", h.Live())
			}
			if len(e.HeapTypes()) != 0 {
				t.Errorf("HeapTypes() = %v", e.HeapTypes())
			}
		})
	}
}

func TestFromSpecOutOfMemory(t *testing.T) {
	tuple := int64(rtabi.TupleBasicSize + rtabi.TupleItemSize)
	doc := "Doc of a type that does not fit."
	tests := []struct {
		name  string
		limit int64
	}{
		{"bases", tuple - 1},
		{"record", tuple + rtabi.HeapTypeSize - 1},
		{"doc", tuple + rtabi.HeapTypeSize + int64(len(doc))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := heap.New(tt.limit)
			e := newEngine(t, Config{Heap: h})
			_, err := e.FromSpec(&Spec{Name: "pkg.Big", Slots: []SlotEntry{{types.SlotTpDoc, doc}}})
			if !errors.Is(err, ErrOutOfMemory) || !errors.Is(err, heap.ErrOutOfMemory) {
				t.Fatalf("err = %v, want out of memory", err)
			}
			if h.Live() != 0 || h.Used() != 0 {
				t.Errorf("after rollback: %+v", h.Stats())
			}
		})
	}
}

// failingDict refuses to store one key.
type failingDict struct {
	*types.Dict
	key string
}

func (d *failingDict) Set(name string, v any) error {
	if name == d.key {
		return fmt.Errorf("cannot store %s", name)
	}
	return d.Dict.Set(name, v)
}

func TestFromSpecRollbackAfterReady(t *testing.T) {
	h := heap.New(0)
	e := newEngine(t, Config{
		Heap: h,
		NewDict: func(*types.Type) (types.Mapping, error) {
			return &failingDict{Dict: types.NewDict(), key: "__module__"}, nil
		},
	})
	base := static("RollbackBase", rtabi.ObjHeadSize, nil)
	mustReady(t, e, base)

	typ, err := e.FromSpecWithBases(&Spec{Name: "pkg.Rollback"}, []*types.Type{base})
	if !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("err = %v, want out of memory", err)
	}
	if typ != nil {
		t.Errorf("type = %v, want nil", typ)
	}
	if n := base.Subclasses().Len(); n != 0 {
		t.Errorf("base still has %d subclasses", n)
	}
	if _, ok := e.Lookup("pkg.Rollback"); ok {
		t.Error("failed type is reachable from Lookup")
	}
	if h.Live() != 0 {
		t.Errorf("%d blocks leaked", h.Live())
	}
}

func TestFromSpecBases(t *testing.T) {
	e := newEngine(t, Config{})
	a := mustBuild(t, e, &Spec{Name: "m.A", Flags: types.FlagBaseType})
	b := mustBuild(t, e, &Spec{Name: "m.B", BasicSize: rtabi.ObjHeadSize + 8, Flags: types.FlagBaseType})

	viaBase := mustBuild(t, e, &Spec{Name: "m.ViaBase", Slots: []SlotEntry{{types.SlotTpBase, a}}})
	viaBases := mustBuild(t, e, &Spec{Name: "m.ViaBases", Slots: []SlotEntry{
		{types.SlotTpBase, a},
		{types.SlotTpBases, []*types.Type{a, b}},
	}})
	explicit, err := e.FromSpecWithBases(&Spec{Name: "m.Explicit", Slots: []SlotEntry{{types.SlotTpBase, a}}}, []*types.Type{b})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		typ  *types.Type
		base *types.Type
		mro  string
	}{
		{viaBase, a, "m.ViaBase m.A object"},
		{viaBases, b, "m.ViaBases m.A m.B object"},
		{explicit, b, "m.Explicit m.B object"},
	}
	for _, tt := range tests {
		if tt.typ.Base != tt.base {
			t.Errorf("%s: base = %v, want %v", tt.typ, tt.typ.Base, tt.base)
		}
		if got := mroNames(tt.typ); got != tt.mro {
			t.Errorf("%s: mro = %q, want %q", tt.typ, got, tt.mro)
		}
	}
	if viaBases.BasicSize != b.BasicSize {
		t.Errorf("BasicSize = %d, want %d", viaBases.BasicSize, b.BasicSize)
	}

	var names []string
	for _, typ := range e.HeapTypes() {
		names = append(names, typ.Name)
	}
	if got := fmt.Sprint(names); got != "[m.A m.B m.Explicit m.ViaBase m.ViaBases]" {
		t.Errorf("HeapTypes() = %s", got)
	}
}

func TestFromSpecSlots(t *testing.T) {
	e := newEngine(t, Config{})
	repr := types.NewFunc("widget_repr", nil)
	getLen := types.NewFunc("widget_len", nil)
	typ := mustBuild(t, e, &Spec{
		Name:  "pkg.Sized",
		Flags: types.FlagBaseType,
		Slots: []SlotEntry{
			{types.SlotTpRepr, repr},
			{types.SlotSqLength, getLen},
			{types.SlotTpMethods, []types.MethodDef{{Name: "size", Func: getLen, Flags: types.MethNoArgs}}},
			{types.SlotTpGetset, []types.GetSetDef{{Name: "length", Get: getLen}}},
		},
	})

	if got, _ := e.GetSlot(typ, types.SlotSqLength); got != getLen {
		t.Errorf("sq_length = %v", got)
	}
	if typ.Slot(types.SlotTpRepr) != repr {
		t.Errorf("tp_repr = %v", typ.Slot(types.SlotTpRepr))
	}
	if _, ok := attr(t, typ, "size").(*types.MethodDescr); !ok {
		t.Error("size is not a method descriptor")
	}
	if _, ok := attr(t, typ, "length").(*types.GetSetDescr); !ok {
		t.Error("length is not a getset descriptor")
	}
	if w, ok := attr(t, typ, "__len__").(*types.SlotWrapper); !ok || w.Func != getLen {
		t.Errorf("__len__ = %v", attr(t, typ, "__len__"))
	}

	sub := mustBuild(t, e, &Spec{Name: "pkg.SubSized", Slots: []SlotEntry{{types.SlotTpBase, typ}}})
	if sub.Slot(types.SlotSqLength) != getLen || sub.Slot(types.SlotTpRepr) != repr {
		t.Error("heap subclass did not inherit slots")
	}
}

func TestModuleAttribute(t *testing.T) {
	def := &types.ModuleDef{Name: "mymod"}
	mod := types.NewModule(def)

	tests := []struct {
		name   string
		spec   *Spec
		module *types.Module
		want   any
	}{
		{"dotted name", &Spec{Name: "pkg.Dotted"}, mod, "pkg"},
		{"from module", &Spec{Name: "Undotted"}, mod, "mymod"},
		{"builtins", &Spec{Name: "Bare"}, nil, "builtins"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, Config{})
			typ, err := e.FromModuleAndSpec(tt.module, tt.spec, nil)
			if err != nil {
				t.Fatal(err)
			}
			if got := attr(t, typ, "__module__"); got != tt.want {
				t.Errorf("__module__ = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("declared", func(t *testing.T) {
		e := newEngine(t, Config{})
		get := types.NewFunc("module_get", nil)
		typ := mustBuild(t, e, &Spec{Name: "pkg.Declared", Slots: []SlotEntry{
			{types.SlotTpGetset, []types.GetSetDef{{Name: "__module__", Get: get}}},
		}})
		if _, ok := attr(t, typ, "__module__").(*types.GetSetDescr); !ok {
			t.Errorf("__module__ = %v, want the declared getset", attr(t, typ, "__module__"))
		}
	})
}

func TestGetModule(t *testing.T) {
	e := newEngine(t, Config{})
	def := &types.ModuleDef{Name: "owner"}
	other := &types.ModuleDef{Name: "other"}
	mod := types.NewModule(def)

	owned, err := e.FromModuleAndSpec(mod, &Spec{Name: "owner.Owned", Flags: types.FlagBaseType}, nil)
	if err != nil {
		t.Fatal(err)
	}
	sub := mustBuildWith(t, e, &Spec{Name: "Sub"}, []*types.Type{owned})

	if got, err := e.GetModule(owned); err != nil || got != mod {
		t.Errorf("GetModule(owned) = %v, %v", got, err)
	}
	if _, err := e.GetModule(sub); !errors.Is(err, ErrNoModule) {
		t.Errorf("GetModule(sub) err = %v", err)
	}
	if _, err := e.GetModule(types.UniverseInt()); !errors.Is(err, ErrNoModule) {
		t.Errorf("GetModule(int) err = %v", err)
	}
	if got, err := e.GetModuleByDef(sub, def); err != nil || got != mod {
		t.Errorf("GetModuleByDef(sub) = %v, %v", got, err)
	}
	if _, err := e.GetModuleByDef(sub, other); !errors.Is(err, ErrNoModule) {
		t.Errorf("GetModuleByDef(other) err = %v", err)
	}
}

func TestTypeAttrs(t *testing.T) {
	cache := dispatch.NewCache()
	e := newEngine(t, Config{Dispatcher: cache})
	base := mustBuild(t, e, &Spec{Name: "attrs.Base", Flags: types.FlagBaseType})
	sub := mustBuild(t, e, &Spec{Name: "attrs.Sub", Slots: []SlotEntry{{types.SlotTpBase, base}}})

	if _, _, ok := cache.Lookup(sub, "color"); ok {
		t.Fatal("color found before it was set")
	}
	if err := e.SetTypeAttr(base, "color", "red"); err != nil {
		t.Fatal(err)
	}
	v, owner, ok := cache.Lookup(sub, "color")
	if !ok || v != "red" || owner != base {
		t.Errorf("Lookup(sub, color) = %v, %v, %v", v, owner, ok)
	}

	if err := e.DelTypeAttr(base, "color"); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := cache.Lookup(sub, "color"); ok {
		t.Error("color found after it was deleted")
	}
	if err := e.DelTypeAttr(base, "color"); !errors.Is(err, ErrNoAttribute) {
		t.Errorf("second delete err = %v", err)
	}
	if err := e.SetTypeAttr(types.UniverseInt(), "color", "red"); !errors.Is(err, ErrImmutableType) {
		t.Errorf("SetTypeAttr(int) err = %v", err)
	}
	if err := e.SetTypeAttr(types.NewType("Unready", 0, types.FlagHeapType), "x", 1); !errors.Is(err, ErrImmutableType) {
		t.Errorf("SetTypeAttr(unready) err = %v", err)
	}
}

func mustBuildWith(t *testing.T, e *Engine, spec *Spec, bases []*types.Type) *types.Type {
	t.Helper()
	typ, err := e.FromSpecWithBases(spec, bases)
	if err != nil {
		t.Fatalf("FromSpecWithBases(%s): %v", spec.Name, err)
	}
	return typ
}
