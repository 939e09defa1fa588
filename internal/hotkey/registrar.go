package hotkey

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/sabishii-bit/hack-interview/internal/keybind"
)

// Registrar owns the full set of active global hooks. Every Apply tears
// down all previous hooks before installing the new set, so the OS hook
// table can never drift from the latest saved keybind map.
type Registrar struct {
	binder   Binder
	dispatch func(keybind.Action)
	log      zerolog.Logger

	mu     sync.Mutex
	hooks  []ownedHook
	closed bool
}

type ownedHook struct {
	action keybind.Action
	chord  string
	handle Handle
}

// NewRegistrar creates a registrar that resolves fired hooks to actions
// and hands them to dispatch. The dispatch call runs on the hook-delivery
// goroutine and must stay cheap.
func NewRegistrar(b Binder, dispatch func(keybind.Action), log zerolog.Logger) *Registrar {
	return &Registrar{binder: b, dispatch: dispatch, log: log}
}

// Apply replaces every installed hook with the bindings in m. Teardown of
// the old set completes before any new hook is installed. A chord the OS
// refuses is logged and skipped without disturbing the rest. When two
// actions share a chord the last one in the fixed action order wins and
// the earlier binding is logged as shadowed.
func (r *Registrar) Apply(m keybind.Map) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	r.closeAllLocked()

	defaults := keybind.Default()
	winners := make(map[string]keybind.Action)
	chords := make(map[string]keybind.Chord)
	var order []string

	for _, action := range keybind.Actions() {
		spec, ok := m[action]
		if !ok || spec == "" {
			spec = defaults[action]
		}
		c, err := keybind.Parse(spec)
		if err != nil {
			r.log.Warn().Err(err).Str("action", string(action)).Msg("Unparsable chord, using default")
			c, _ = keybind.Parse(defaults[action])
		}
		canon := c.String()
		if prev, dup := winners[canon]; dup {
			r.log.Warn().
				Str("chord", canon).
				Str("shadowed", string(prev)).
				Str("action", string(action)).
				Msg("Duplicate chord, last registration wins")
		} else {
			order = append(order, canon)
		}
		winners[canon] = action
		chords[canon] = c
	}

	for _, canon := range order {
		action := winners[canon]
		h, err := r.binder.Bind(chords[canon], func() { r.dispatch(action) })
		if err != nil {
			r.log.Warn().Err(err).
				Str("action", string(action)).
				Str("chord", canon).
				Msg("Failed to register hotkey")
			continue
		}
		r.hooks = append(r.hooks, ownedHook{action: action, chord: canon, handle: h})
		r.log.Debug().Str("action", string(action)).Str("chord", canon).Msg("Registered hotkey")
	}
}

// Close tears down every hook. Safe to call repeatedly, including during
// shutdown; the registrar accepts no further Apply afterwards.
func (r *Registrar) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeAllLocked()
	r.closed = true
}

func (r *Registrar) closeAllLocked() {
	for _, h := range r.hooks {
		if err := h.handle.Close(); err != nil {
			r.log.Warn().Err(err).Str("chord", h.chord).Msg("Failed to unregister hotkey")
		}
	}
	r.hooks = nil
}
