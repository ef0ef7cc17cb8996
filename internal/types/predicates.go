package types

// IsSubtype reports whether a is b or derives from it.
//
// Once a has an MRO the answer is read from it. Before that only the base
// chain is known, and every type is considered a subtype of the root.
func IsSubtype(a, b *Type) bool {
	if a == b {
		return true
	}
	if mro := a.mro; mro != nil {
		for _, t := range mro {
			if t == b {
				return true
			}
		}
		return false
	}
	for a != nil {
		if a == b {
			return true
		}
		a = a.Base
	}
	return b == UniverseObject()
}

// FastSubclass reports whether t carries the fast-subclass flag f.
func FastSubclass(t *Type, f Flags) bool {
	return t.Flags&f != 0
}

// FastSubclassFlag returns the single fast-subclass flag implied by the
// well-known roots that base derives from, or 0. The roots are checked in
// the order exception, type, int, bytes, str, tuple, list, dict.
func FastSubclassFlag(base *Type) Flags {
	switch {
	case IsSubtype(base, universeBaseException):
		return FlagBaseExcSubclass
	case IsSubtype(base, universeType):
		return FlagTypeSubclass
	case IsSubtype(base, universeInt):
		return FlagLongSubclass
	case IsSubtype(base, universeBytes):
		return FlagBytesSubclass
	case IsSubtype(base, universeStr):
		return FlagUnicodeSubclass
	case IsSubtype(base, universeTuple):
		return FlagTupleSubclass
	case IsSubtype(base, universeList):
		return FlagListSubclass
	case IsSubtype(base, universeDict):
		return FlagDictSubclass
	}
	return 0
}

// InMRO reports whether a appears in t's MRO.
func InMRO(t, a *Type) bool {
	for _, m := range t.mro {
		if m == a {
			return true
		}
	}
	return false
}
