package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sabishii-bit/hack-interview/internal/app"
	"github.com/sabishii-bit/hack-interview/internal/audio"
	"github.com/sabishii-bit/hack-interview/internal/capture"
	"github.com/sabishii-bit/hack-interview/internal/config"
	"github.com/sabishii-bit/hack-interview/internal/dispatch"
	"github.com/sabishii-bit/hack-interview/internal/hotkey"
	"github.com/sabishii-bit/hack-interview/internal/keybind"
	"github.com/sabishii-bit/hack-interview/internal/logging"
	"github.com/sabishii-bit/hack-interview/internal/openai"
	"github.com/sabishii-bit/hack-interview/internal/permissions"
	"github.com/sabishii-bit/hack-interview/internal/ui"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logging.NewWithLevel(cfg.LogLevel)
	log.Info().Str("version", Version).Str("commit", Commit).Msg("hack-interview starting")

	// macOS gates microphone capture and global hotkeys behind explicit
	// approval. Keep running so the window still works while the user
	// grants access.
	if err := permissions.Ensure(log); err != nil {
		log.Warn().Err(err).Msg("Running with reduced permissions")
	}

	recorder, err := audio.New(cfg.Audio, config.RecordingPath(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audio")
	}
	defer recorder.Close()

	client := openai.New(cfg.OpenAI, log)
	screen := capture.New()

	store := keybind.NewStore(config.KeybindsPath(), log)
	dispatcher := dispatch.New(log)

	application := app.New(app.Config{
		Recorder:    recorder,
		Transcriber: client,
		Generator:   client,
		Screen:      screen,
		Config:      cfg,
		Logger:      log,
	})
	application.BindActions(dispatcher)

	registrar := hotkey.NewRegistrar(hotkey.NewSystemBinder(), dispatcher.Dispatch, log)
	defer registrar.Close()

	// Saved keybinds re-register immediately; the initial Apply installs
	// whatever is on disk (or the defaults).
	store.Subscribe(func(m keybind.Map) { registrar.Apply(m) })
	registrar.Apply(store.Load())

	window := ui.New(application, cfg, store, dispatcher, log)
	application.SetPanes(window)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := application.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Shutdown error")
		}
		registrar.Close()
		window.Quit()
	}()

	// Fyne owns the main thread until the app quits.
	window.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := application.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}
