// Package display renders type hierarchies and type dicts for the
// command line tools.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/you-not-fish/typeready/internal/typeready"
	"github.com/you-not-fish/typeready/internal/types"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
)

// PrintError writes err under a tag banner.
func PrintError(w io.Writer, tag string, err error) {
	fmt.Fprintln(w, ErrorStyleBG.Sprint(tag)+" "+ErrorColorFG.Sprint(err.Error()))
}

// PrintWarning writes msg under a tag banner.
func PrintWarning(w io.Writer, tag, msg string) {
	fmt.Fprintln(w, WarnStyleBG.Sprint(tag)+" "+WarnColorFG.Sprint(msg))
}

// PrintInfo writes msg under a tag banner.
func PrintInfo(w io.Writer, tag, msg string) {
	fmt.Fprintln(w, SuccessStyleBG.Sprint(tag)+" "+SuccessColorFG.Sprint(msg))
}

// Tree writes the subclass graph below root.
func Tree(w io.Writer, root *types.Type) error {
	s, err := pterm.DefaultTree.WithRoot(treeNode(root, make(map[*types.Type]bool))).Srender()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// treeNode builds the node of t. A type with several bases appears under
// each of them but its subclasses are expanded only once.
func treeNode(t *types.Type, seen map[*types.Type]bool) pterm.TreeNode {
	node := pterm.TreeNode{Text: nodeText(t)}
	if seen[t] {
		node.Text += " ..."
		return node
	}
	seen[t] = true
	for _, sub := range typeready.Subclasses(t) {
		node.Children = append(node.Children, treeNode(sub, seen))
	}
	return node
}

func nodeText(t *types.Type) string {
	if t.IsHeapType() {
		return t.Name + " (heap)"
	}
	return t.Name
}

// Summary writes the layout, flags and MRO of t.
func Summary(w io.Writer, t *types.Type) error {
	base := "-"
	if t.Base != nil {
		base = t.Base.Name
	}
	mro := make([]string, len(t.MRO()))
	for i, m := range t.MRO() {
		mro[i] = m.Name
	}
	data := pterm.TableData{
		{"name", t.Name},
		{"state", t.State().String()},
		{"flags", t.FlagSet().String()},
		{"base", base},
		{"mro", strings.Join(mro, " -> ")},
		{"basicsize", fmt.Sprint(t.BasicSize)},
		{"itemsize", fmt.Sprint(t.ItemSize)},
		{"dictoffset", fmt.Sprint(t.DictOffset)},
		{"weaklistoffset", fmt.Sprint(t.WeakListOffset)},
		{"vectorcalloffset", fmt.Sprint(t.VectorcallOffset)},
	}
	return renderTable(w, data, false)
}

// Dict writes the entries of t's dict in insertion order.
func Dict(w io.Writer, t *types.Type) error {
	data := pterm.TableData{{"attribute", "kind", "value"}}
	d := t.Dict()
	if d != nil {
		for _, name := range d.Keys() {
			v, _ := d.Get(name)
			kind, value := describe(v)
			data = append(data, []string{name, kind, value})
		}
	}
	return renderTable(w, data, true)
}

func describe(v any) (kind, value string) {
	switch v := v.(type) {
	case *types.SlotWrapper:
		return "slot " + v.Wrapper.String(), v.Func.String()
	case *types.MethodDescr:
		return "method", v.Def.Func.String()
	case *types.MemberDescr:
		return "member", fmt.Sprintf("%s @%d", v.Def.Kind, v.Def.Offset)
	case *types.GetSetDescr:
		return "getset", fmt.Sprintf("get=%s set=%s", v.Def.Get, v.Def.Set)
	case string:
		return "str", fmt.Sprintf("%q", v)
	case types.NoneType:
		return "none", "None"
	default:
		return fmt.Sprintf("%T", v), fmt.Sprint(v)
	}
}

// Slots writes the function slots t holds, naming for each the nearest
// ancestor in the MRO that holds the same function.
func Slots(w io.Writer, t *types.Type) error {
	data := pterm.TableData{{"slot", "protocol", "function", "from"}}
	for id := types.SlotID(1); id < types.NumSlots; id++ {
		if !id.IsFunc() {
			continue
		}
		f := t.Slot(id)
		if f == nil {
			continue
		}
		data = append(data, []string{id.String(), id.Protocol().String(), f.Name, origin(t, id, f)})
	}
	return renderTable(w, data, true)
}

// origin returns the last type of t's MRO, walking from t, over which slot
// id keeps holding f.
func origin(t *types.Type, id types.SlotID, f *types.Func) string {
	from := t
	for _, m := range t.MRO()[min(1, len(t.MRO())):] {
		if m.Slot(id) != f {
			break
		}
		from = m
	}
	return from.Name
}

func renderTable(w io.Writer, data pterm.TableData, header bool) error {
	s, err := pterm.DefaultTable.WithHasHeader(header).WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}
