package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/sabishii-bit/hack-interview/internal/keybind"
)

var actionLabels = map[keybind.Action]string{
	keybind.ActionRecord:            "Toggle recording",
	keybind.ActionAnalyzeAudio:      "Analyze recording",
	keybind.ActionAnalyzeScreenshot: "Analyze screenshot",
	keybind.ActionScreenshot:        "Take screenshot",
}

// ShowRebindDialog opens the keybind editor as a modal over win. Each
// action gets a capture entry prefilled with the stored chord. Save
// validates and persists the full map in one write; Cancel discards
// everything captured in the dialog.
func ShowRebindDialog(win fyne.Window, store *keybind.Store, log zerolog.Logger) {
	current := store.Load()
	entries := make(map[keybind.Action]*CaptureEntry, len(current))

	form := container.New(layout.NewFormLayout())
	for _, action := range keybind.Actions() {
		entry := NewCaptureEntry()
		entry.SetChord(current[action])
		entries[action] = entry

		form.Add(widget.NewLabel(actionLabels[action]))
		form.Add(entry)
	}

	hint := widget.NewLabel("Click a binding, then press the new key combination.")
	content := container.NewVBox(hint, form)

	d := dialog.NewCustomConfirm("Keybind Settings", "Save", "Cancel", content, func(save bool) {
		if !save {
			return
		}
		next := make(keybind.Map, len(entries))
		for _, action := range keybind.Actions() {
			chord, err := keybind.Canonicalize(entries[action].Chord())
			if err != nil {
				dialog.ShowError(fmt.Errorf("binding for %q: %w", actionLabels[action], err), win)
				return
			}
			next[action] = chord
		}
		if err := store.Save(next); err != nil {
			log.Error().Err(err).Msg("Failed to save keybinds")
			dialog.ShowError(err, win)
			return
		}
		log.Info().Msg("Keybinds updated")
	}, win)

	d.Resize(fyne.NewSize(420, 300))
	d.Show()
}
