package typeready

import "github.com/you-not-fish/typeready/internal/types"

// GetSlot returns the function stored in slot id of t.
// An empty slot or an absent protocol table yields nil.
func (e *Engine) GetSlot(t *types.Type, id types.SlotID) (*types.Func, error) {
	if !id.Valid() {
		return nil, errorf(ErrInvalidSlotID, t, "invalid slot id %d", int(id))
	}
	if !id.IsFunc() {
		return nil, errorf(ErrInvalidSlotID, t, "slot %s does not hold a function", id)
	}
	return t.Slot(id), nil
}

// SetTypeAttr sets an attribute in the dict of a ready heap type and
// notifies the dispatcher.
func (e *Engine) SetTypeAttr(t *types.Type, name string, v any) error {
	initMu.Lock()
	defer initMu.Unlock()

	if err := checkMutable(t); err != nil {
		return err
	}
	if err := t.Dict().Set(name, v); err != nil {
		return wrap(ErrOutOfMemory, t, err, "set %s", name)
	}
	e.conf.Dispatcher.TypeModified(t)
	return nil
}

// DelTypeAttr removes an attribute from the dict of a ready heap type and
// notifies the dispatcher.
func (e *Engine) DelTypeAttr(t *types.Type, name string) error {
	initMu.Lock()
	defer initMu.Unlock()

	if err := checkMutable(t); err != nil {
		return err
	}
	if !t.Dict().Delete(name) {
		return errorf(ErrNoAttribute, t, "type object '%s' has no attribute '%s'", t.ShortName(), name)
	}
	e.conf.Dispatcher.TypeModified(t)
	return nil
}

func checkMutable(t *types.Type) error {
	if !t.IsHeapType() {
		return errorf(ErrImmutableType, t, "cannot set attributes of built-in/extension type '%s'", t.Name)
	}
	if !t.IsReady() {
		return errorf(ErrImmutableType, t, "type '%s' is not ready", t.Name)
	}
	return nil
}

// GetModule returns the module a heap type was created with.
func (e *Engine) GetModule(t *types.Type) (*types.Module, error) {
	if !t.IsHeapType() {
		return nil, errorf(ErrNoModule, t, "type '%s' is not a heap type", t.Name)
	}
	m := t.Module()
	if m == nil {
		return nil, errorf(ErrNoModule, t, "type '%s' has no associated module", t.Name)
	}
	return m, nil
}

// GetModuleByDef returns the module of the first heap type in t's MRO
// whose module was created from def.
func (e *Engine) GetModuleByDef(t *types.Type, def *types.ModuleDef) (*types.Module, error) {
	for _, m := range t.MRO() {
		if !m.IsHeapType() {
			continue
		}
		if mod := m.Module(); mod != nil && mod.Def() == def {
			return mod, nil
		}
	}
	return nil, errorf(ErrNoModule, t, "no superclass of '%s' has the given module", t.Name)
}
