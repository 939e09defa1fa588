package ui

import (
	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/sabishii-bit/hack-interview/internal/app"
	"github.com/sabishii-bit/hack-interview/internal/config"
	"github.com/sabishii-bit/hack-interview/internal/dispatch"
	"github.com/sabishii-bit/hack-interview/internal/keybind"
)

const appTitle = "Hack Interview"

// UI owns the main window and its three answer panes. It satisfies
// app.PaneUpdater; all pane writes are marshalled onto the Fyne UI
// thread so pipeline goroutines can call them directly.
type UI struct {
	core       *app.App
	cfg        *config.Config
	store      *keybind.Store
	dispatcher *dispatch.Dispatcher
	log        zerolog.Logger

	fyneApp fyne.App
	win     fyne.Window

	question    *widget.RichText
	shortAnswer *widget.RichText
	longAnswer  *widget.RichText
	recordBtn   *widget.Button
}

// New builds the window and wires its controls. The window is not shown
// until Run.
func New(core *app.App, cfg *config.Config, store *keybind.Store, dispatcher *dispatch.Dispatcher, log zerolog.Logger) *UI {
	u := &UI{
		core:       core,
		cfg:        cfg,
		store:      store,
		dispatcher: dispatcher,
		log:        log.With().Str("component", "ui").Logger(),
		fyneApp:    fyneapp.NewWithID("com.sabishii-bit.hack-interview"),
	}

	u.win = u.fyneApp.NewWindow(appTitle)
	u.win.Resize(fyne.NewSize(1100, 650))
	u.win.SetContent(u.buildContent())
	u.setupTray()

	return u
}

// Run shows the window and enters the Fyne event loop. It blocks until
// the application quits and must be called from the main goroutine.
func (u *UI) Run() {
	u.win.ShowAndRun()
}

// Quit stops the event loop from any goroutine.
func (u *UI) Quit() {
	fyne.Do(u.fyneApp.Quit)
}

func (u *UI) buildContent() fyne.CanvasObject {
	u.question = newPane()
	u.shortAnswer = newPane()
	u.longAnswer = newPane()

	left := container.NewVSplit(
		container.NewScroll(u.question),
		container.NewScroll(u.shortAnswer),
	)
	left.SetOffset(0.2)

	panes := container.NewHSplit(left, container.NewScroll(u.longAnswer))
	panes.SetOffset(0.4)

	return container.NewBorder(u.buildToolbar(), nil, nil, nil, panes)
}

func (u *UI) buildToolbar() fyne.CanvasObject {
	u.recordBtn = widget.NewButtonWithIcon("Record", theme.MediaRecordIcon(), func() {
		u.dispatcher.Dispatch(keybind.ActionRecord)
	})
	analyzeBtn := widget.NewButtonWithIcon("Analyze", theme.MediaPlayIcon(), func() {
		u.dispatcher.Dispatch(keybind.ActionAnalyzeAudio)
	})
	screenBtn := widget.NewButtonWithIcon("Screen", theme.ComputerIcon(), func() {
		u.dispatcher.Dispatch(keybind.ActionAnalyzeScreenshot)
	})

	model := widget.NewSelect(u.cfg.OpenAI.Models, func(m string) {
		u.core.SetModel(m)
	})
	model.SetSelected(u.core.Model())

	position := widget.NewEntry()
	position.SetText(u.core.Position())
	position.OnChanged = u.core.SetPosition

	copyShort := widget.NewButtonWithIcon("", theme.ContentCopyIcon(), u.core.CopyShortAnswer)
	copyLong := widget.NewButtonWithIcon("", theme.ContentCopyIcon(), u.core.CopyLongAnswer)

	settings := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		ShowRebindDialog(u.win, u.store, u.log)
	})

	return container.NewBorder(nil, nil,
		container.NewHBox(u.recordBtn, analyzeBtn, screenBtn),
		container.NewHBox(widget.NewLabel("Short"), copyShort, widget.NewLabel("Long"), copyLong, settings),
		container.NewBorder(nil, nil, model, nil, position),
	)
}

// setupTray installs the tray icon where the driver supports one and
// turns window close into hide-to-tray.
func (u *UI) setupTray() {
	desk, ok := u.fyneApp.(desktop.App)
	if !ok {
		u.log.Debug().Msg("System tray not supported on this driver")
		return
	}

	menu := fyne.NewMenu(appTitle,
		fyne.NewMenuItem("Open", func() {
			u.win.Show()
			u.win.RequestFocus()
		}),
		fyne.NewMenuItem("Exit", u.fyneApp.Quit),
	)
	desk.SetSystemTrayMenu(menu)

	u.win.SetCloseIntercept(func() {
		u.win.Hide()
	})
}

// SetQuestion renders markdown into the question pane.
func (u *UI) SetQuestion(markdown string) { u.setPane(u.question, markdown) }

// SetShortAnswer renders markdown into the short-answer pane.
func (u *UI) SetShortAnswer(markdown string) { u.setPane(u.shortAnswer, markdown) }

// SetLongAnswer renders markdown into the long-answer pane.
func (u *UI) SetLongAnswer(markdown string) { u.setPane(u.longAnswer, markdown) }

// SetRecording reflects capture state on the record button.
func (u *UI) SetRecording(active bool) {
	fyne.Do(func() {
		if active {
			u.recordBtn.SetText("Stop")
			u.recordBtn.SetIcon(theme.MediaStopIcon())
		} else {
			u.recordBtn.SetText("Record")
			u.recordBtn.SetIcon(theme.MediaRecordIcon())
		}
	})
}

func (u *UI) setPane(pane *widget.RichText, markdown string) {
	fyne.Do(func() {
		pane.ParseMarkdown(markdown)
		pane.Refresh()
	})
}

func newPane() *widget.RichText {
	rt := widget.NewRichTextFromMarkdown("")
	rt.Wrapping = fyne.TextWrapWord
	return rt
}
