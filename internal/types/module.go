package types

// ModuleDef describes a native module definition. Heap types created for a
// module can find their module again by its definition.
type ModuleDef struct {
	Name string
	Doc  string
}

// Module is a module instance that heap types may be associated with.
type Module struct {
	name  string
	def   *ModuleDef
	State any // per-module state owned by the host
}

// NewModule creates a module instance for def.
func NewModule(def *ModuleDef) *Module {
	return &Module{name: def.Name, def: def}
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Def returns the module definition.
func (m *Module) Def() *ModuleDef {
	return m.def
}

func (m *Module) String() string {
	return "module " + m.name
}
