// Package capture writes screen captures for the vision pipeline.
package capture

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/kbinani/screenshot"
)

// Screen captures displays to PNG files.
type Screen interface {
	Take(path string) error
}

type displayCapture struct{}

// New returns the primary-display capturer.
func New() Screen {
	return displayCapture{}
}

// Take grabs the primary display and writes it to path as PNG.
func (displayCapture) Take(path string) error {
	if screenshot.NumActiveDisplays() == 0 {
		return fmt.Errorf("no active displays")
	}

	img, err := screenshot.CaptureRect(screenshot.GetDisplayBounds(0))
	if err != nil {
		return fmt.Errorf("capture display: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode screenshot: %w", err)
	}
	return nil
}
