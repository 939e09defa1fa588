// Package dispatch maps triggered logical actions onto application
// behavior. Callers are hook-delivery contexts, so Dispatch never panics
// and never blocks beyond spawning a background task.
package dispatch

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/sabishii-bit/hack-interview/internal/keybind"
)

type handler struct {
	fn    func()
	async bool
}

// Dispatcher holds the fixed action table.
type Dispatcher struct {
	log zerolog.Logger

	mu    sync.RWMutex
	table map[keybind.Action]handler
}

// New creates an empty dispatcher.
func New(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{log: log, table: make(map[keybind.Action]handler)}
}

// Handle binds fn to run inline when a fires. Use for fast behaviors such
// as toggling recording or taking a screenshot.
func (d *Dispatcher) Handle(a keybind.Action, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.table[a] = handler{fn: fn}
}

// HandleAsync binds fn to run on its own goroutine; Dispatch returns
// immediately. Use for the analysis pipelines, which block on network and
// audio I/O.
func (d *Dispatcher) HandleAsync(a keybind.Action, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.table[a] = handler{fn: fn, async: true}
}

// Dispatch invokes the behavior bound to a. An unknown or unbound action
// logs one warning and returns; it never raises to the caller.
func (d *Dispatcher) Dispatch(a keybind.Action) {
	d.mu.RLock()
	h, ok := d.table[a]
	d.mu.RUnlock()

	if !ok {
		d.log.Warn().Str("action", string(a)).Msg("Dispatch of unknown action ignored")
		return
	}

	if h.async {
		go d.run(a, h.fn)
		return
	}
	d.run(a, h.fn)
}

func (d *Dispatcher) run(a keybind.Action, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("action", string(a)).Msg("Action handler panicked")
		}
	}()
	fn()
}
