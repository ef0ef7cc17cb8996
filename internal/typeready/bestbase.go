package typeready

import "github.com/you-not-fish/typeready/internal/types"

// BestBase returns the base among bases that donates layout and flags to a
// type deriving from all of them. Each base is readied if needed and must
// allow subclassing. It panics if bases is empty.
func (e *Engine) BestBase(bases []*types.Type) (*types.Type, error) {
	initMu.Lock()
	defer initMu.Unlock()
	return e.bestBase(bases)
}

func (e *Engine) bestBase(bases []*types.Type) (*types.Type, error) {
	if len(bases) == 0 {
		panic("typeready: best base of an empty bases list")
	}

	var base, winner *types.Type
	for i, b := range bases {
		if b == nil {
			return nil, errorf(ErrInvalidBaseType, nil, "bases[%d] is not a type", i)
		}
		if !b.IsReady() {
			if err := e.ready(b); err != nil {
				return nil, err
			}
		}
		if !b.HasFeature(types.FlagBaseType) {
			return nil, errorf(ErrInvalidBaseType, b, "type '%s' is not an acceptable base type", b.Name)
		}
		candidate := e.conf.Sizes.SolidBase(b)
		switch {
		case winner == nil:
			winner, base = candidate, b
		case types.IsSubtype(winner, candidate):
			// winner already extends candidate's layout
		case types.IsSubtype(candidate, winner):
			winner, base = candidate, b
		default:
			return nil, errorf(ErrLayoutConflict, b,
				"multiple bases have instance lay-out conflict: %s and %s", winner.Name, candidate.Name)
		}
	}
	return base, nil
}
