package ui

import (
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/sabishii-bit/hack-interview/internal/keybind"
)

const listeningPlaceholder = "listening..."

var listenTimeout = 3 * time.Second

// CaptureEntry displays one chord and, when tapped, listens for the next
// key combination the user presses. While listening it tracks which
// modifiers are held; the first non-modifier key-down resolves the
// candidate chord and ends the capture. Nothing is persisted here - the
// rebind dialog commits or discards the captured value.
type CaptureEntry struct {
	widget.Entry

	mu        sync.Mutex
	listening bool
	held      map[string]bool
	chord     string
	guard     *time.Timer

	// OnCaptured, when set, runs after each resolved capture.
	OnCaptured func(chord string)
}

// NewCaptureEntry creates an idle capture entry.
func NewCaptureEntry() *CaptureEntry {
	c := &CaptureEntry{held: make(map[string]bool)}
	c.ExtendBaseWidget(c)
	return c
}

// Tapped begins listening and takes keyboard focus.
func (c *CaptureEntry) Tapped(_ *fyne.PointEvent) {
	c.StartListening()
	if app := fyne.CurrentApp(); app != nil {
		if cnv := app.Driver().CanvasForObject(c); cnv != nil {
			cnv.Focus(c)
		}
	}
}

// StartListening enters the listening state, clearing any held-modifier
// state from a previous capture. A guard timer restores the previous
// chord if nothing resolves.
func (c *CaptureEntry) StartListening() {
	c.mu.Lock()
	if c.listening {
		c.mu.Unlock()
		return
	}
	c.listening = true
	c.held = make(map[string]bool)
	if c.guard != nil {
		c.guard.Stop()
	}
	c.guard = time.AfterFunc(listenTimeout, c.abandon)
	c.mu.Unlock()

	c.SetText(listeningPlaceholder)
}

// Listening reports whether a capture is in progress.
func (c *CaptureEntry) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listening
}

// Chord returns the last resolved or assigned chord.
func (c *CaptureEntry) Chord() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chord
}

// SetChord assigns a chord without entering the listening state.
func (c *CaptureEntry) SetChord(chord string) {
	if canon, err := keybind.Canonicalize(chord); err == nil {
		chord = canon
	}
	c.mu.Lock()
	c.listening = false
	if c.guard != nil {
		c.guard.Stop()
		c.guard = nil
	}
	c.chord = chord
	c.mu.Unlock()

	c.SetText(chord)
}

// KeyDown tracks held modifiers and resolves the chord on the first
// non-modifier key.
func (c *CaptureEntry) KeyDown(ev *fyne.KeyEvent) {
	mod, isMod := modifierToken(ev.Name)

	c.mu.Lock()
	if !c.listening {
		c.mu.Unlock()
		return
	}
	if isMod {
		c.held[mod] = true
		c.mu.Unlock()
		return
	}

	chord, err := c.resolveLocked(ev.Name)
	if err != nil {
		// Key we cannot express as a chord; keep listening.
		c.mu.Unlock()
		return
	}
	c.listening = false
	c.chord = chord
	if c.guard != nil {
		c.guard.Stop()
		c.guard = nil
	}
	cb := c.OnCaptured
	c.mu.Unlock()

	c.SetText(chord)
	if cb != nil {
		cb(chord)
	}
}

// KeyUp releases a held modifier while still listening.
func (c *CaptureEntry) KeyUp(ev *fyne.KeyEvent) {
	if mod, isMod := modifierToken(ev.Name); isMod {
		c.mu.Lock()
		if c.listening {
			delete(c.held, mod)
		}
		c.mu.Unlock()
	}
}

// TypedRune ignores text input; the display is programmatic only.
func (c *CaptureEntry) TypedRune(_ rune) {}

// TypedKey swallows editing keys so the entry stays read-only.
func (c *CaptureEntry) TypedKey(_ *fyne.KeyEvent) {}

func (c *CaptureEntry) resolveLocked(name fyne.KeyName) (string, error) {
	parts := make([]string, 0, len(c.held)+1)
	for m := range c.held {
		parts = append(parts, m)
	}
	parts = append(parts, keyToken(name))
	return keybind.Canonicalize(strings.Join(parts, "+"))
}

// abandon runs off the UI thread when the guard timer fires with no
// chord resolved; it restores the previous display.
func (c *CaptureEntry) abandon() {
	c.mu.Lock()
	if !c.listening {
		c.mu.Unlock()
		return
	}
	c.listening = false
	c.guard = nil
	prev := c.chord
	c.mu.Unlock()

	fyne.Do(func() { c.SetText(prev) })
}

// modifierToken maps modifier key names to canonical chord tokens.
func modifierToken(name fyne.KeyName) (string, bool) {
	switch name {
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return "ctrl", true
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return "shift", true
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		return "alt", true
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		return "meta", true
	}
	return "", false
}

// keyToken maps a primary key name to its chord token; unmappable names
// fail canonicalization in the caller.
func keyToken(name fyne.KeyName) string {
	switch name {
	case fyne.KeyReturn, fyne.KeyEnter:
		return "enter"
	case fyne.KeyPageUp:
		return "pageup"
	case fyne.KeyPageDown:
		return "pagedown"
	}
	return strings.ToLower(string(name))
}
