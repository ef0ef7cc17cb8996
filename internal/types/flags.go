package types

import (
	"fmt"
	"strings"
)

// Flags is the type flag bitset.
type Flags uint32

const (
	FlagHaveFinalize   Flags = 1 << 0
	FlagHeapType       Flags = 1 << 9
	FlagBaseType       Flags = 1 << 10 // may be subclassed
	FlagHaveVectorcall Flags = 1 << 11
	FlagReady          Flags = 1 << 12 // derived from State, never stored
	FlagReadying       Flags = 1 << 13 // derived from State, never stored
	FlagHaveGC         Flags = 1 << 14
	FlagMatchSelf      Flags = 1 << 22

	// Fast-subclass flags. At most one is set on any type.
	FlagLongSubclass    Flags = 1 << 24
	FlagListSubclass    Flags = 1 << 25
	FlagTupleSubclass   Flags = 1 << 26
	FlagBytesSubclass   Flags = 1 << 27
	FlagUnicodeSubclass Flags = 1 << 28
	FlagDictSubclass    Flags = 1 << 29
	FlagBaseExcSubclass Flags = 1 << 30
	FlagTypeSubclass    Flags = 1 << 31
)

// FastSubclassMask covers every fast-subclass flag.
const FastSubclassMask = FlagLongSubclass | FlagListSubclass | FlagTupleSubclass |
	FlagBytesSubclass | FlagUnicodeSubclass | FlagDictSubclass |
	FlagBaseExcSubclass | FlagTypeSubclass

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagHaveFinalize, "finalize"},
	{FlagHeapType, "heaptype"},
	{FlagBaseType, "basetype"},
	{FlagHaveVectorcall, "vectorcall"},
	{FlagReady, "ready"},
	{FlagReadying, "readying"},
	{FlagHaveGC, "gc"},
	{FlagMatchSelf, "matchself"},
	{FlagLongSubclass, "int-subclass"},
	{FlagListSubclass, "list-subclass"},
	{FlagTupleSubclass, "tuple-subclass"},
	{FlagBytesSubclass, "bytes-subclass"},
	{FlagUnicodeSubclass, "str-subclass"},
	{FlagDictSubclass, "dict-subclass"},
	{FlagBaseExcSubclass, "exception-subclass"},
	{FlagTypeSubclass, "type-subclass"},
}

// String returns the set flags as a "|"-separated list.
func (f Flags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
			f &^= fn.flag
		}
	}
	if f != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint32(f)))
	}
	return strings.Join(parts, "|")
}

// ParseFlag returns the flag with the given name as printed by Flags.String.
// The readiness flags cannot be parsed since they are never declared.
func ParseFlag(name string) (Flags, error) {
	for _, fn := range flagNames {
		if fn.name == name && fn.flag != FlagReady && fn.flag != FlagReadying {
			return fn.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown type flag %q", name)
}
