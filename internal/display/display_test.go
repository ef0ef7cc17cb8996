package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/you-not-fish/typeready/internal/typeready"
	"github.com/you-not-fish/typeready/internal/types"
)

func build(t *testing.T) (*typeready.Engine, *types.Type, *types.Type) {
	t.Helper()
	pterm.DisableStyling()
	l := zerolog.Nop()
	e := typeready.New(typeready.Config{Logger: &l})
	repr := types.NewFunc("shape_repr", nil)
	shape, err := e.FromSpec(&typeready.Spec{
		Name:  "geo.Shape",
		Flags: types.FlagBaseType,
		Slots: []typeready.SlotEntry{
			{ID: types.SlotTpRepr, Value: repr},
			{ID: types.SlotTpDoc, Value: "A shape."},
			{ID: types.SlotTpMembers, Value: []types.MemberDef{{Name: "sides", Kind: types.MemberInt, Offset: 16}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	circle, err := e.FromSpecWithBases(&typeready.Spec{Name: "geo.Circle"}, []*types.Type{shape})
	if err != nil {
		t.Fatal(err)
	}
	return e, shape, circle
}

func TestTree(t *testing.T) {
	_, shape, _ := build(t)
	var buf bytes.Buffer
	if err := Tree(&buf, shape); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"geo.Shape (heap)", "geo.Circle (heap)"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree lacks %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "geo.Shape") > strings.Index(out, "geo.Circle") {
		t.Errorf("subclass rendered before its base:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	_, _, circle := build(t)
	var buf bytes.Buffer
	if err := Summary(&buf, circle); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"geo.Circle -> geo.Shape -> object", "ready", "heaptype"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary lacks %q:\n%s", want, out)
		}
	}
}

func TestDict(t *testing.T) {
	_, shape, _ := build(t)
	var buf bytes.Buffer
	if err := Dict(&buf, shape); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"__repr__", "shape_repr", "sides", "int @16", `"A shape."`, `"geo"`} {
		if !strings.Contains(out, want) {
			t.Errorf("dict lacks %q:\n%s", want, out)
		}
	}
}

func TestSlots(t *testing.T) {
	_, _, circle := build(t)
	var buf bytes.Buffer
	if err := Slots(&buf, circle); err != nil {
		t.Fatal(err)
	}
	var reprLine, getattrLine string
	for _, line := range strings.Split(buf.String(), "\n") {
		switch {
		case strings.Contains(line, "tp_repr"):
			reprLine = line
		case strings.Contains(line, "tp_getattro"):
			getattrLine = line
		}
	}
	if !strings.Contains(reprLine, "geo.Shape") {
		t.Errorf("tp_repr row = %q, want origin geo.Shape", reprLine)
	}
	if !strings.Contains(getattrLine, "object") {
		t.Errorf("tp_getattro row = %q, want origin object", getattrLine)
	}
}

func TestBanners(t *testing.T) {
	pterm.DisableStyling()
	var buf bytes.Buffer
	PrintError(&buf, "build", errors.New("layout conflict"))
	PrintWarning(&buf, "module", "no __module__")
	PrintInfo(&buf, "ready", "3 types")
	want := "build layout conflict\nmodule no __module__\nready 3 types\n"
	if buf.String() != want {
		t.Errorf("banners = %q, want %q", buf.String(), want)
	}
}
