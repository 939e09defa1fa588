package hotkey

import "github.com/sabishii-bit/hack-interview/internal/keybind"

// Binder installs one global key-down hook for a parsed chord. The real
// implementation sits on golang.design/x/hotkey; tests substitute a fake.
type Binder interface {
	Bind(c keybind.Chord, fire func()) (Handle, error)
}

// Handle is one active OS-level hook. Handles are owned exclusively by the
// Registrar and are invalidated whenever the keybind map changes.
type Handle interface {
	Close() error
}
