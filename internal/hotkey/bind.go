package hotkey

import (
	"fmt"
	"sync"

	"golang.design/x/hotkey"

	"github.com/sabishii-bit/hack-interview/internal/keybind"
)

// systemBinder backs the registrar with golang.design/x/hotkey.
type systemBinder struct{}

// NewSystemBinder returns the OS-backed binder.
func NewSystemBinder() Binder {
	return systemBinder{}
}

func (systemBinder) Bind(c keybind.Chord, fire func()) (Handle, error) {
	mods := make([]hotkey.Modifier, 0, len(c.Mods))
	for _, m := range c.Mods {
		hm, ok := modifierMap[m]
		if !ok {
			return nil, fmt.Errorf("modifier %q not supported on this platform", m)
		}
		mods = append(mods, hm)
	}

	key, err := keyFor(c.Key)
	if err != nil {
		return nil, err
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("register %q: %w", c.String(), err)
	}

	h := &systemHandle{hk: hk, done: make(chan struct{})}
	go h.pump(fire)
	return h, nil
}

type systemHandle struct {
	hk   *hotkey.Hotkey
	done chan struct{}
	once sync.Once
}

// pump forwards key-down events until the handle closes. Only fire runs
// here, so the hook-delivery path stays latency-safe.
func (h *systemHandle) pump(fire func()) {
	for {
		select {
		case <-h.done:
			return
		case <-h.hk.Keydown():
			fire()
		}
	}
}

func (h *systemHandle) Close() error {
	var err error
	h.once.Do(func() {
		close(h.done)
		err = h.hk.Unregister()
	})
	return err
}

// keyFor maps a canonical key token to the platform key code.
func keyFor(token string) (hotkey.Key, error) {
	if k, ok := keyTable[token]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("key %q cannot be bound as a global hotkey", token)
}

var keyTable = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"space":  hotkey.KeySpace,
	"enter":  hotkey.KeyReturn,
	"tab":    hotkey.KeyTab,
	"escape": hotkey.KeyEscape,
	"delete": hotkey.KeyDelete,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3,
	"f4": hotkey.KeyF4, "f5": hotkey.KeyF5, "f6": hotkey.KeyF6,
	"f7": hotkey.KeyF7, "f8": hotkey.KeyF8, "f9": hotkey.KeyF9,
	"f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}
