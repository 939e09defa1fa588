//go:build windows

package hotkey

import "golang.design/x/hotkey"

// Canonical modifier token -> Win32 modifier.
var modifierMap = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.ModAlt,
	"meta":  hotkey.ModWin,
}
