// Package heap provides the accounting allocator used by the type builder
// for heap type records, owned doc copies and packed bases tuples.
package heap

import (
	"errors"
	"fmt"
	"sync"
)

// ErrOutOfMemory is returned when an allocation would exceed the limit.
var ErrOutOfMemory = errors.New("out of memory")

// Kind classifies an allocation.
type Kind int

const (
	KindTypeRecord Kind = iota // heap type record plus inline member defs
	KindDoc                    // owned copy of a doc string
	KindBases                  // packed bases tuple
)

func (k Kind) String() string {
	switch k {
	case KindTypeRecord:
		return "type-record"
	case KindDoc:
		return "doc"
	case KindBases:
		return "bases"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Block is a live allocation.
type Block struct {
	id    uint64
	Kind  Kind
	Size  int64
	Data  any // payload owned by the allocation, e.g. the doc copy
	freed bool
}

func (b *Block) String() string {
	return fmt.Sprintf("%s#%d(%d bytes)", b.Kind, b.id, b.Size)
}

// Heap is a byte-accounting allocator with an optional limit.
// It is safe for concurrent use.
type Heap struct {
	mu     sync.Mutex
	limit  int64 // 0 means unlimited
	used   int64
	next   uint64
	live   map[uint64]*Block
	allocs int
	frees  int
}

// New creates a heap. A limit of 0 means unlimited.
func New(limit int64) *Heap {
	return &Heap{limit: limit, live: make(map[uint64]*Block)}
}

// Alloc allocates size bytes of the given kind.
func (h *Heap) Alloc(kind Kind, size int64) (*Block, error) {
	if size < 0 {
		return nil, fmt.Errorf("heap: negative size %d for %s", size, kind)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.limit > 0 && h.used+size > h.limit {
		return nil, fmt.Errorf("heap: %s of %d bytes with %d/%d in use: %w",
			kind, size, h.used, h.limit, ErrOutOfMemory)
	}
	h.next++
	b := &Block{id: h.next, Kind: kind, Size: size}
	h.live[b.id] = b
	h.used += size
	h.allocs++
	return b, nil
}

// Free releases b. Freeing a block twice panics.
func (h *Heap) Free(b *Block) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if b.freed {
		panic("heap: double free of " + b.String())
	}
	b.freed = true
	delete(h.live, b.id)
	h.used -= b.Size
	h.frees++
}

// Live returns the number of blocks not yet freed.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.live)
}

// Used returns the number of bytes in use.
func (h *Heap) Used() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.used
}

// Stats summarizes allocator activity.
type Stats struct {
	Allocs int
	Frees  int
	Live   int
	Used   int64
	Limit  int64
}

// Stats returns a snapshot of the allocator counters.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{Allocs: h.allocs, Frees: h.frees, Live: len(h.live), Used: h.used, Limit: h.limit}
}
