package typeready

import (
	"errors"
	"strings"

	"github.com/hashicorp/go-set/v3"
	"github.com/you-not-fish/typeready/internal/types"
)

// C3 is the default Linearizer. It merges the bases' MROs and the bases
// list so that every local precedence order is preserved.
type C3 struct{}

// Linearize implements Linearizer.
func (C3) Linearize(t *types.Type, bases []*types.Type) ([]*types.Type, error) {
	seqs := make([][]*types.Type, 0, len(bases)+1)
	for _, b := range bases {
		if mro := b.MRO(); len(mro) > 0 {
			seqs = append(seqs, mro)
		}
	}
	if len(bases) > 0 {
		seqs = append(seqs, bases)
	}

	result := []*types.Type{t}
	for {
		live := seqs[:0]
		for _, s := range seqs {
			if len(s) > 0 {
				live = append(live, s)
			}
		}
		seqs = live
		if len(seqs) == 0 {
			return result, nil
		}

		tails := set.New[*types.Type](len(seqs))
		for _, s := range seqs {
			for _, x := range s[1:] {
				tails.Insert(x)
			}
		}

		var next *types.Type
		for _, s := range seqs {
			if !tails.Contains(s[0]) {
				next = s[0]
				break
			}
		}
		if next == nil {
			heads := make([]string, len(seqs))
			for i, s := range seqs {
				heads[i] = s[0].Name
			}
			return nil, errorf(ErrInconsistentHierarchy, t,
				"cannot create a consistent method resolution order for bases %s", strings.Join(heads, ", "))
		}

		result = append(result, next)
		for i, s := range seqs {
			if s[0] == next {
				seqs[i] = s[1:]
			}
		}
	}
}

// computeMRO runs the configured linearizer over t's bases and checks that
// the result is a valid MRO for t.
func (e *Engine) computeMRO(t *types.Type) ([]*types.Type, error) {
	seen := set.New[*types.Type](len(t.Bases))
	for _, b := range t.Bases {
		if !seen.Insert(b) {
			return nil, errorf(ErrInconsistentHierarchy, t, "duplicate base class %s", b.Name)
		}
	}

	mro, err := e.conf.Linearizer.Linearize(t, t.Bases)
	if err != nil {
		var re *Error
		if errors.As(err, &re) {
			return nil, err
		}
		return nil, wrap(ErrInconsistentHierarchy, t, err, "linearization failed")
	}
	if err := checkMRO(t, mro); err != nil {
		return nil, err
	}
	return mro, nil
}

// checkMRO verifies that mro starts with t, has no duplicates and contains
// the MRO of every base as an ordered subsequence.
func checkMRO(t *types.Type, mro []*types.Type) error {
	if len(mro) == 0 || mro[0] != t {
		return errorf(ErrInconsistentHierarchy, t, "mro does not start with the type")
	}
	index := make(map[*types.Type]int, len(mro))
	for i, m := range mro {
		if _, dup := index[m]; dup {
			return errorf(ErrInconsistentHierarchy, t, "%s appears twice in mro", m.Name)
		}
		index[m] = i
	}
	for _, b := range t.Bases {
		last := 0
		for _, a := range b.MRO() {
			i, ok := index[a]
			if !ok {
				return errorf(ErrInconsistentHierarchy, t, "mro lacks %s from the mro of %s", a.Name, b.Name)
			}
			if i <= last {
				return errorf(ErrInconsistentHierarchy, t, "mro reorders %s relative to the mro of %s", a.Name, b.Name)
			}
			last = i
		}
	}
	return nil
}
