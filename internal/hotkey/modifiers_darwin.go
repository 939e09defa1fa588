//go:build darwin

package hotkey

import "golang.design/x/hotkey"

// Canonical modifier token -> Carbon modifier.
var modifierMap = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.ModOption,
	"meta":  hotkey.ModCmd,
}
