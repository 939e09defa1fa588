package app

import (
	"context"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/sabishii-bit/hack-interview/internal/audio"
	"github.com/sabishii-bit/hack-interview/internal/capture"
	"github.com/sabishii-bit/hack-interview/internal/config"
	"github.com/sabishii-bit/hack-interview/internal/dispatch"
	"github.com/sabishii-bit/hack-interview/internal/keybind"
	"github.com/sabishii-bit/hack-interview/internal/openai"
)

// Failure texts shown in place of the expected result when a pipeline
// stage dies. The real error goes to the log.
const (
	msgTranscribing     = "*Transcribing audio...*"
	msgGeneratingShort  = "_Generating short answer..._"
	msgGeneratingLong   = "_Generating detailed answer..._"
	msgAnalyzingShot    = "*Analyzing screenshot...*"
	msgTranscribeFailed = "**Transcription failed.** Check the log for details."
	msgAnswerFailed     = "**Answer generation failed.** Check the log for details."
	msgCaptureFailed    = "**Screenshot capture failed.** Check the log for details."
)

const pipelineTimeout = 3 * time.Minute

// Transcriber converts a recorded WAV into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Generator produces chat and vision answers.
type Generator interface {
	GenerateAnswer(ctx context.Context, transcript string, opts openai.AnswerOpts) (string, error)
	AnalyzeImage(ctx context.Context, path string, opts openai.AnswerOpts) (string, error)
}

// PaneUpdater receives pane content updates from pipelines running off
// the UI thread. Implementations marshal onto the UI thread themselves.
type PaneUpdater interface {
	SetQuestion(markdown string)
	SetShortAnswer(markdown string)
	SetLongAnswer(markdown string)
	SetRecording(active bool)
}

type Config struct {
	Recorder    audio.Recorder
	Transcriber Transcriber
	Generator   Generator
	Screen      capture.Screen
	Config      *config.Config
	Logger      zerolog.Logger
	Panes       PaneUpdater // Optional - can be nil
}

type App struct {
	recorder audio.Recorder
	stt      Transcriber
	gen      Generator
	screen   capture.Screen
	cfg      *config.Config
	log      zerolog.Logger
	panes    PaneUpdater

	mu        sync.Mutex
	model     string
	position  string
	lastShort string
	lastLong  string
}

func New(cfg Config) *App {
	return &App{
		recorder: cfg.Recorder,
		stt:      cfg.Transcriber,
		gen:      cfg.Generator,
		screen:   cfg.Screen,
		cfg:      cfg.Config,
		log:      cfg.Logger,
		panes:    cfg.Panes,
		model:    cfg.Config.OpenAI.Model,
		position: cfg.Config.Position,
	}
}

// SetPanes sets the pane updater (for circular dependency resolution)
func (a *App) SetPanes(p PaneUpdater) {
	a.panes = p
}

// BindActions fills the dispatcher's fixed action table. Recording toggle
// and screenshot run inline; both analysis pipelines are backgrounded so
// hook delivery never blocks on them.
func (a *App) BindActions(d *dispatch.Dispatcher) {
	d.Handle(keybind.ActionRecord, a.ToggleRecording)
	d.HandleAsync(keybind.ActionAnalyzeAudio, a.AnalyzeAudio)
	d.HandleAsync(keybind.ActionAnalyzeScreenshot, a.AnalyzeScreenshot)
	d.Handle(keybind.ActionScreenshot, a.Screenshot)
}

// ToggleRecording starts the recorder, or stops it and persists the take.
func (a *App) ToggleRecording() {
	if a.recorder.Recording() {
		a.log.Info().Msg("Stopping recording")
		if err := a.recorder.Stop(); err != nil {
			a.log.Error().Err(err).Msg("Failed to stop recording")
		}
		if a.panes != nil {
			a.panes.SetRecording(false)
		}
		return
	}

	a.log.Info().Msg("Starting recording")
	if err := a.recorder.Start(); err != nil {
		a.log.Error().Err(err).Msg("Failed to start recording")
		return
	}
	if a.panes != nil {
		a.panes.SetRecording(true)
	}
}

// AnalyzeAudio transcribes the last take and generates both answers. It
// blocks until the pipeline finishes and is expected to run on a
// background goroutine; a second trigger while one is in flight starts an
// independent run and the panes keep the last writer's output.
func (a *App) AnalyzeAudio() {
	if a.recorder.Recording() {
		// Analyzing implies the take is finished.
		a.ToggleRecording()
	}

	ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
	defer cancel()

	a.setQuestion(msgTranscribing)

	transcript, err := a.stt.Transcribe(ctx, config.RecordingPath())
	if err != nil {
		a.log.Error().Err(err).Msg("Transcription failed")
		a.setQuestion(msgTranscribeFailed)
		return
	}
	a.log.Debug().Str("transcript", transcript).Msg("Audio transcribed")
	a.setQuestion(transcript)

	a.generateAnswers(ctx, func(short bool) (string, error) {
		return a.gen.GenerateAnswer(ctx, transcript, a.answerOpts(short))
	})
}

// AnalyzeScreenshot captures the screen and runs vision analysis over it.
// Blocks like AnalyzeAudio and runs on a background goroutine.
func (a *App) AnalyzeScreenshot() {
	ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
	defer cancel()

	path := config.ScreenshotPath()
	if err := a.screen.Take(path); err != nil {
		a.log.Error().Err(err).Msg("Screenshot capture failed")
		a.setQuestion(msgCaptureFailed)
		return
	}
	a.setQuestion(msgAnalyzingShot)

	a.generateAnswers(ctx, func(short bool) (string, error) {
		return a.gen.AnalyzeImage(ctx, path, a.answerOpts(short))
	})
}

// Screenshot captures the screen without analyzing it.
func (a *App) Screenshot() {
	path := config.ScreenshotPath()
	if err := a.screen.Take(path); err != nil {
		a.log.Error().Err(err).Msg("Screenshot capture failed")
		return
	}
	a.log.Info().Str("path", path).Msg("Screenshot saved")
}

// generateAnswers runs the short and long generations concurrently and
// writes each pane as its result lands.
func (a *App) generateAnswers(ctx context.Context, generate func(short bool) (string, error)) {
	a.setShortAnswer(msgGeneratingShort)
	a.setLongAnswer(msgGeneratingLong)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		answer, err := generate(true)
		if err != nil {
			a.log.Error().Err(err).Msg("Short answer generation failed")
			a.setShortAnswer(msgAnswerFailed)
			return
		}
		a.mu.Lock()
		a.lastShort = answer
		a.mu.Unlock()
		a.setShortAnswer(answer)
	}()

	go func() {
		defer wg.Done()
		answer, err := generate(false)
		if err != nil {
			a.log.Error().Err(err).Msg("Long answer generation failed")
			a.setLongAnswer(msgAnswerFailed)
			return
		}
		a.mu.Lock()
		a.lastLong = answer
		a.mu.Unlock()
		a.setLongAnswer(answer)
	}()

	wg.Wait()
}

func (a *App) answerOpts(short bool) openai.AnswerOpts {
	a.mu.Lock()
	defer a.mu.Unlock()
	return openai.AnswerOpts{Model: a.model, Position: a.position, Short: short}
}

// UI state setters

func (a *App) SetModel(model string) {
	a.mu.Lock()
	a.model = model
	a.cfg.OpenAI.Model = model
	a.mu.Unlock()

	// Persist outside the lock; the write can block on disk.
	if err := a.cfg.Save(); err != nil {
		a.log.Error().Err(err).Msg("Failed to persist model selection")
	}
}

func (a *App) SetPosition(position string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.position = position
}

func (a *App) Model() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model
}

func (a *App) Position() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position
}

// CopyShortAnswer places the last short answer on the system clipboard.
func (a *App) CopyShortAnswer() {
	a.copyAnswer(func() string { a.mu.Lock(); defer a.mu.Unlock(); return a.lastShort })
}

// CopyLongAnswer places the last long answer on the system clipboard.
func (a *App) CopyLongAnswer() {
	a.copyAnswer(func() string { a.mu.Lock(); defer a.mu.Unlock(); return a.lastLong })
}

func (a *App) copyAnswer(get func() string) {
	text := get()
	if text == "" {
		a.log.Info().Msg("No answer to copy yet")
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		a.log.Error().Err(err).Msg("Clipboard write failed")
	}
}

func (a *App) IsRecording() bool {
	return a.recorder.Recording()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.recorder.Recording() {
		if err := a.recorder.Stop(); err != nil {
			a.log.Error().Err(err).Msg("Failed to stop recording during shutdown")
		}
	}
	return nil
}

// pane helpers tolerate a nil updater so pipelines can run headless in tests

func (a *App) setQuestion(md string) {
	if a.panes != nil {
		a.panes.SetQuestion(md)
	}
}

func (a *App) setShortAnswer(md string) {
	if a.panes != nil {
		a.panes.SetShortAnswer(md)
	}
}

func (a *App) setLongAnswer(md string) {
	if a.panes != nil {
		a.panes.SetLongAnswer(md)
	}
}
