//go:build linux

package hotkey

import "golang.design/x/hotkey"

// Canonical modifier token -> X11 modifier. Alt is Mod1 and Super is Mod4
// on stock X11 keymaps.
var modifierMap = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.Mod1,
	"meta":  hotkey.Mod4,
}
