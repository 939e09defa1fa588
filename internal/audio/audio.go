package audio

// Recorder captures microphone audio until stopped, then persists the take
// as a 16-bit PCM WAV file for the analysis pipeline.
type Recorder interface {
	Start() error
	Stop() error
	Recording() bool
	ListDevices() ([]Device, error)
	Close() error
}

// Device represents an audio input device
type Device struct {
	ID      string
	Name    string
	Default bool
}
