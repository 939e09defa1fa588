//go:build !darwin

package permissions

import "github.com/rs/zerolog"

// Ensure is a no-op outside macOS; other platforms have no runtime
// permission gates for microphone or hotkey access.
func Ensure(_ zerolog.Logger) error {
	return nil
}
