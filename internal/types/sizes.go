package types

import "github.com/you-not-fish/typeready/internal/rtabi"

// Sizes computes instance layout relationships between types.
// It uses the rtabi constants to stay consistent with the native side.
type Sizes struct {
	PtrSize int64 // size of a trailing weak-list or dict slot
}

// DefaultSizes is the default Sizes implementation.
var DefaultSizes = &Sizes{PtrSize: rtabi.SizePtr}

// ExtraIvars reports whether t adds instance storage beyond base.
//
// With variable-size instances any difference in basic or item size counts.
// Otherwise a heap type's trailing weak-list and dict slots are not counted
// when base has none, so adding only those keeps the layout compatible.
func (s *Sizes) ExtraIvars(t, base *Type) bool {
	tSize := t.BasicSize
	bSize := base.BasicSize

	if t.ItemSize != 0 || base.ItemSize != 0 {
		return tSize != bSize || t.ItemSize != base.ItemSize
	}
	if t.WeakListOffset != 0 && base.WeakListOffset == 0 &&
		t.WeakListOffset+s.PtrSize == tSize && t.IsHeapType() {
		tSize -= s.PtrSize
	}
	if t.DictOffset != 0 && base.DictOffset == 0 &&
		t.DictOffset+s.PtrSize == tSize && t.IsHeapType() {
		tSize -= s.PtrSize
	}
	return tSize != bSize
}

// SolidBase returns the nearest type in t's base chain, t included, that
// introduces instance storage. The root is its own solid base.
func (s *Sizes) SolidBase(t *Type) *Type {
	var base *Type
	if t.Base != nil {
		base = s.SolidBase(t.Base)
	} else {
		base = UniverseObject()
	}
	if base != t && s.ExtraIvars(t, base) {
		return t
	}
	return base
}
