package hotkey

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sabishii-bit/hack-interview/internal/keybind"
)

// fakeBinder records every bind and lets tests simulate chord presses.
type fakeBinder struct {
	mu      sync.Mutex
	bound   map[string]*fakeHandle // chord -> active handle
	failOn  map[string]bool        // chords the fake OS refuses
	binds   int
	unbinds int
}

func newFakeBinder() *fakeBinder {
	return &fakeBinder{bound: make(map[string]*fakeHandle), failOn: make(map[string]bool)}
}

func (b *fakeBinder) Bind(c keybind.Chord, fire func()) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	canon := c.String()
	if b.failOn[canon] {
		return nil, errors.New("chord already claimed")
	}
	b.binds++
	h := &fakeHandle{binder: b, chord: canon, fire: fire}
	b.bound[canon] = h
	return h, nil
}

// press simulates the OS delivering a key-down for the chord. It returns
// false when no hook is installed for it.
func (b *fakeBinder) press(chord string) bool {
	b.mu.Lock()
	h, ok := b.bound[chord]
	b.mu.Unlock()
	if !ok {
		return false
	}
	h.fire()
	return true
}

func (b *fakeBinder) active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.bound)
}

type fakeHandle struct {
	binder *fakeBinder
	chord  string
	fire   func()
	closed bool
}

func (h *fakeHandle) Close() error {
	h.binder.mu.Lock()
	defer h.binder.mu.Unlock()
	if h.closed {
		return errors.New("closed twice")
	}
	h.closed = true
	h.binder.unbinds++
	if h.binder.bound[h.chord] == h {
		delete(h.binder.bound, h.chord)
	}
	return nil
}

func TestApplyInstallsAllDefaults(t *testing.T) {
	b := newFakeBinder()
	var fired []keybind.Action
	r := NewRegistrar(b, func(a keybind.Action) { fired = append(fired, a) }, zerolog.Nop())

	r.Apply(keybind.Default())

	if b.active() != 4 {
		t.Fatalf("active hooks = %d, want 4", b.active())
	}
	if !b.press("ctrl+shift+a") {
		t.Fatal("analyze_screenshot chord not installed")
	}
	if len(fired) != 1 || fired[0] != keybind.ActionAnalyzeScreenshot {
		t.Errorf("fired = %v, want [analyze_screenshot]", fired)
	}
}

func TestApplyReplacesEverything(t *testing.T) {
	b := newFakeBinder()
	var fired []keybind.Action
	r := NewRegistrar(b, func(a keybind.Action) { fired = append(fired, a) }, zerolog.Nop())

	first := keybind.Default()
	r.Apply(first)

	second := keybind.Default()
	second[keybind.ActionRecord] = "ctrl+shift+r"
	r.Apply(second)

	// The old record chord must be unreachable, the new one live.
	if b.press("ctrl+r") {
		t.Error("stale hook from the first map still fires")
	}
	if !b.press("ctrl+shift+r") {
		t.Fatal("new record chord not installed")
	}
	if len(fired) != 1 || fired[0] != keybind.ActionRecord {
		t.Errorf("fired = %v, want [record]", fired)
	}
	if b.active() != 4 {
		t.Errorf("active hooks = %d, want 4", b.active())
	}
}

func TestRepeatedApplyDoesNotAccumulateHooks(t *testing.T) {
	b := newFakeBinder()
	r := NewRegistrar(b, func(keybind.Action) {}, zerolog.Nop())

	for i := 0; i < 5; i++ {
		r.Apply(keybind.Default())
	}
	if b.active() != 4 {
		t.Errorf("active hooks = %d after repeated Apply, want 4", b.active())
	}
	if b.unbinds != 16 {
		t.Errorf("unbinds = %d, want 16", b.unbinds)
	}
}

func TestRecordChordFiresExactlyOnce(t *testing.T) {
	b := newFakeBinder()
	count := 0
	r := NewRegistrar(b, func(a keybind.Action) {
		if a == keybind.ActionRecord {
			count++
		}
	}, zerolog.Nop())

	r.Apply(keybind.Default())
	b.press("ctrl+r")
	if count != 1 {
		t.Errorf("record dispatched %d times for one press, want 1", count)
	}
}

func TestBindFailureDoesNotDisableOthers(t *testing.T) {
	b := newFakeBinder()
	b.failOn["ctrl+a"] = true
	r := NewRegistrar(b, func(keybind.Action) {}, zerolog.Nop())

	r.Apply(keybind.Default())

	if b.active() != 3 {
		t.Fatalf("active hooks = %d, want 3 (one refused)", b.active())
	}
	if !b.press("ctrl+r") || !b.press("ctrl+q") {
		t.Error("surviving chords did not register")
	}
}

func TestDuplicateChordLastRegistrationWins(t *testing.T) {
	b := newFakeBinder()
	var fired []keybind.Action
	r := NewRegistrar(b, func(a keybind.Action) { fired = append(fired, a) }, zerolog.Nop())

	m := keybind.Default()
	m[keybind.ActionRecord] = "ctrl+x"
	m[keybind.ActionScreenshot] = "ctrl+x" // screenshot is later in the fixed order

	r.Apply(m)

	if !b.press("ctrl+x") {
		t.Fatal("shared chord not installed")
	}
	if len(fired) != 1 || fired[0] != keybind.ActionScreenshot {
		t.Errorf("fired = %v, want [screenshot] (last registration wins)", fired)
	}
}

func TestUnparsableEntryFallsBackToDefault(t *testing.T) {
	b := newFakeBinder()
	r := NewRegistrar(b, func(keybind.Action) {}, zerolog.Nop())

	m := keybind.Default()
	m[keybind.ActionRecord] = "ctrl+++"
	r.Apply(m)

	if !b.press("ctrl+r") {
		t.Error("record did not fall back to its default chord")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := newFakeBinder()
	r := NewRegistrar(b, func(keybind.Action) {}, zerolog.Nop())

	r.Apply(keybind.Default())
	r.Close()
	r.Close()

	if b.active() != 0 {
		t.Errorf("active hooks = %d after Close, want 0", b.active())
	}

	// Apply after Close is a no-op.
	r.Apply(keybind.Default())
	if b.active() != 0 {
		t.Errorf("Apply after Close installed %d hooks, want 0", b.active())
	}
}
