package manifest

import (
	"sort"
	"sync"

	"github.com/you-not-fish/typeready/internal/types"
)

// FuncTable interns native functions by name, so a name used in several
// slots or declarations resolves to the same *types.Func.
type FuncTable struct {
	mu    sync.Mutex
	funcs map[string]*types.Func
}

// NewFuncTable returns a table that already holds the engine's default
// slot functions.
func NewFuncTable() *FuncTable {
	ft := &FuncTable{funcs: make(map[string]*types.Func)}
	for _, f := range types.DefaultFuncs() {
		ft.funcs[f.Name] = f
	}
	return ft
}

// Get returns the function named name, creating it on first use.
// The empty name yields nil.
func (ft *FuncTable) Get(name string) *types.Func {
	if name == "" {
		return nil
	}
	ft.mu.Lock()
	defer ft.mu.Unlock()
	f, ok := ft.funcs[name]
	if !ok {
		f = types.NewFunc(name, nil)
		ft.funcs[name] = f
	}
	return f
}

// Names returns the interned names in sorted order.
func (ft *FuncTable) Names() []string {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	names := make([]string, 0, len(ft.funcs))
	for name := range ft.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
