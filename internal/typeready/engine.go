// Package typeready brings type descriptors into a ready state: it links a
// type into the hierarchy rooted at object, computes its MRO, inherits
// flags and slots from its ancestors and publishes its slots as dict
// entries. It also builds heap types from declarative specs.
package typeready

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/you-not-fish/typeready/internal/dispatch"
	"github.com/you-not-fish/typeready/internal/heap"
	"github.com/you-not-fish/typeready/internal/types"
)

// Linearizer computes a method resolution order.
type Linearizer interface {
	// Linearize returns the MRO of t given its declared bases, which are
	// all ready. The result must start with t.
	Linearize(t *types.Type, bases []*types.Type) ([]*types.Type, error)
}

// Dispatcher is notified whenever a published type changes.
type Dispatcher interface {
	TypeModified(t *types.Type)
}

// Heap allocates the memory owned by heap types.
type Heap interface {
	Alloc(kind heap.Kind, size int64) (*heap.Block, error)
	Free(b *heap.Block)
}

// Config specifies the collaborators of an Engine.
type Config struct {
	// NewDict creates the attribute namespace of a type.
	// If nil, types.NewDict is used.
	NewDict func(t *types.Type) (types.Mapping, error)

	// Linearizer computes MROs. If nil, C3 is used.
	Linearizer Linearizer

	// Dispatcher is notified of type changes.
	// If nil, a dispatch.Cache is created.
	Dispatcher Dispatcher

	// Heap provides memory for heap types.
	// If nil, an unlimited heap.Heap is created.
	Heap Heap

	// Sizes computes layout relationships.
	// If nil, types.DefaultSizes is used.
	Sizes *types.Sizes

	// Logger receives engine logs. If nil, the global log.Logger is used.
	Logger *zerolog.Logger

	// Trace logs the type after this readiness step ("*" for all).
	Trace string

	// Verify checks the structural invariants of every type before it is
	// marked ready. A violation aborts readying.
	Verify bool
}

// initMu serializes every readiness and build call chain across engines.
// The universe types are shared, so a per-engine lock would not suffice.
var initMu sync.Mutex

// Engine readies types and builds heap types.
type Engine struct {
	conf Config
	log  *zerolog.Logger

	mu        sync.RWMutex
	published map[string]*heapType
}

// heapType is a type created by the builder and the memory it owns.
type heapType struct {
	t      *types.Type
	blocks []*heap.Block
}

// New creates an engine, filling in defaults for unset collaborators.
func New(conf Config) *Engine {
	if conf.NewDict == nil {
		conf.NewDict = func(*types.Type) (types.Mapping, error) { return types.NewDict(), nil }
	}
	if conf.Linearizer == nil {
		conf.Linearizer = C3{}
	}
	if conf.Dispatcher == nil {
		conf.Dispatcher = dispatch.NewCache()
	}
	if conf.Heap == nil {
		conf.Heap = heap.New(0)
	}
	if conf.Sizes == nil {
		conf.Sizes = types.DefaultSizes
	}
	e := &Engine{conf: conf, log: conf.Logger, published: make(map[string]*heapType)}
	if e.log == nil {
		e.log = &log.Logger
	}
	return e
}

// Config returns the engine's configuration with defaults filled in.
func (e *Engine) Config() Config {
	return e.conf
}

// Ready brings t into the ready state. It is idempotent and returns nil
// immediately for a type that is ready or currently being readied.
func (e *Engine) Ready(t *types.Type) error {
	initMu.Lock()
	defer initMu.Unlock()
	return e.ready(t)
}

// ReadyUniverse readies every predeclared type.
func (e *Engine) ReadyUniverse() error {
	initMu.Lock()
	defer initMu.Unlock()
	for _, t := range types.UniverseTypes() {
		if err := e.ready(t); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) ready(t *types.Type) error {
	switch t.State() {
	case types.Ready, types.Readying:
		return nil
	}
	if types.UniverseObject() == nil {
		panic("typeready: universe object type is not initialized")
	}

	t.BeginReadying()
	t.Pin()
	defer t.Unpin()

	if err := e.run(t, readySteps); err != nil {
		unlinkSubclasses(t)
		t.AbortReadying()
		e.log.Debug().Str("type", t.Name).Err(err).Msg("readying failed")
		return err
	}
	return nil
}

// Lookup returns the heap type built under the given full name.
func (e *Engine) Lookup(name string) (*types.Type, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	h, ok := e.published[name]
	if !ok {
		return nil, false
	}
	return h.t, true
}

// HeapTypes returns the built heap types sorted by name.
func (e *Engine) HeapTypes() []*types.Type {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*types.Type, 0, len(e.published))
	for _, h := range e.published {
		out = append(out, h.t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Modified notifies the dispatcher that t changed.
func (e *Engine) Modified(t *types.Type) {
	e.conf.Dispatcher.TypeModified(t)
}
