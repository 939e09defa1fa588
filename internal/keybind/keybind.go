package keybind

import (
	"fmt"
	"strings"
)

// Action is one of the fixed logical actions a chord can be bound to.
type Action string

const (
	ActionRecord            Action = "record"
	ActionAnalyzeAudio      Action = "analyze_audio"
	ActionAnalyzeScreenshot Action = "analyze_screenshot"
	ActionScreenshot        Action = "screenshot"
)

// Actions returns all known actions in their fixed registration order.
func Actions() []Action {
	return []Action{ActionRecord, ActionAnalyzeAudio, ActionAnalyzeScreenshot, ActionScreenshot}
}

// Known reports whether a is one of the fixed actions.
func Known(a Action) bool {
	switch a {
	case ActionRecord, ActionAnalyzeAudio, ActionAnalyzeScreenshot, ActionScreenshot:
		return true
	}
	return false
}

// Map binds every action to one chord in canonical form.
type Map map[Action]string

// Default returns the built-in bindings.
func Default() Map {
	return Map{
		ActionRecord:            "ctrl+r",
		ActionAnalyzeAudio:      "ctrl+a",
		ActionAnalyzeScreenshot: "ctrl+shift+a",
		ActionScreenshot:        "ctrl+q",
	}
}

// Clone returns a copy of m.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Chord is a parsed key combination: zero or more modifiers plus exactly
// one primary key.
type Chord struct {
	Mods []string // canonical order subset of ctrl, shift, alt, meta
	Key  string   // canonical key token, never a modifier
}

// modOrder fixes the serialization order of modifiers.
var modOrder = []string{"ctrl", "shift", "alt", "meta"}

// modAliases maps every accepted modifier spelling to its canonical token.
var modAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"alt":     "alt",
	"option":  "alt",
	"meta":    "meta",
	"cmd":     "meta",
	"command": "meta",
	"super":   "meta",
	"win":     "meta",
	"windows": "meta",
}

// keyAliases folds alternate key spellings into one canonical token.
var keyAliases = map[string]string{
	"return": "enter",
	"esc":    "escape",
	"del":    "delete",
}

// namedKeys is the set of accepted non-character primary keys.
var namedKeys = map[string]bool{
	"space": true, "enter": true, "tab": true, "escape": true,
	"delete": true, "backspace": true,
	"up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pageup": true, "pagedown": true,
	"f1": true, "f2": true, "f3": true, "f4": true, "f5": true, "f6": true,
	"f7": true, "f8": true, "f9": true, "f10": true, "f11": true, "f12": true,
}

// Parse splits a chord string like "Ctrl+Shift+a" into its parsed form.
// Modifier spellings are folded through their aliases, the primary key is
// lower-cased, and exactly one non-modifier key must be present.
func Parse(s string) (Chord, error) {
	parts := strings.Split(s, "+")
	var c Chord
	seen := map[string]bool{}
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			return Chord{}, fmt.Errorf("chord %q: empty component", s)
		}
		if mod, ok := modAliases[p]; ok {
			if !seen[mod] {
				seen[mod] = true
			}
			continue
		}
		if c.Key != "" {
			return Chord{}, fmt.Errorf("chord %q: more than one primary key", s)
		}
		key, err := normalizeKey(p)
		if err != nil {
			return Chord{}, fmt.Errorf("chord %q: %w", s, err)
		}
		c.Key = key
	}
	if c.Key == "" {
		return Chord{}, fmt.Errorf("chord %q: no primary key", s)
	}
	for _, m := range modOrder {
		if seen[m] {
			c.Mods = append(c.Mods, m)
		}
	}
	return c, nil
}

func normalizeKey(p string) (string, error) {
	if alias, ok := keyAliases[p]; ok {
		p = alias
	}
	if len(p) == 1 {
		r := p[0]
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return p, nil
		}
		return "", fmt.Errorf("unsupported key %q", p)
	}
	if namedKeys[p] {
		return p, nil
	}
	return "", fmt.Errorf("unsupported key %q", p)
}

// String returns the canonical serialized form: modifiers in fixed order,
// primary key last, all lower-cased and joined with "+".
func (c Chord) String() string {
	if c.Key == "" {
		return ""
	}
	return strings.Join(append(append([]string{}, c.Mods...), c.Key), "+")
}

// Canonicalize reduces a chord string to canonical form. Idempotent for
// any input it accepts.
func Canonicalize(s string) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}
