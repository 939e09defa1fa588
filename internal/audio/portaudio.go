package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog"

	"github.com/sabishii-bit/hack-interview/internal/config"
)

type portAudioRecorder struct {
	cfg     config.AudioConfig
	outPath string
	log     zerolog.Logger

	mu        sync.Mutex
	recording bool
	cancel    context.CancelFunc
	done      chan struct{}
	frames    []float32
}

// New creates a new PortAudio-based recorder writing takes to outPath.
func New(cfg config.AudioConfig, outPath string, log zerolog.Logger) (Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	return &portAudioRecorder{cfg: cfg, outPath: outPath, log: log}, nil
}

func (p *portAudioRecorder) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.recording {
		return nil
	}

	device, err := p.findDevice()
	if err != nil {
		return err
	}

	// Open stream: mono, configured sample rate, float32
	buffer := make([]float32, 512)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(p.cfg.SampleRate),
		FramesPerBuffer: len(buffer),
	}, buffer)
	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start audio stream: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.frames = p.frames[:0]
	p.recording = true

	// Read loop
	go func() {
		defer close(p.done)
		defer stream.Close()
		defer stream.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if err := stream.Read(); err != nil {
					p.log.Error().Err(err).Msg("Audio read error")
					return
				}
				samples := make([]float32, len(buffer))
				copy(samples, buffer)

				p.mu.Lock()
				p.frames = append(p.frames, samples...)
				p.mu.Unlock()
			}
		}
	}()

	p.log.Info().Int("sample_rate", p.cfg.SampleRate).Msg("Recording started")
	return nil
}

func (p *portAudioRecorder) Stop() error {
	p.mu.Lock()
	if !p.recording {
		p.mu.Unlock()
		return nil
	}
	p.recording = false
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done

	p.mu.Lock()
	frames := p.frames
	p.frames = nil
	p.mu.Unlock()

	if len(frames) == 0 {
		p.log.Warn().Msg("Recording stopped with no audio captured")
		return fmt.Errorf("no audio captured")
	}

	if err := writeWAV(p.outPath, frames, p.cfg.SampleRate); err != nil {
		return fmt.Errorf("failed to save recording: %w", err)
	}

	p.log.Info().Str("path", p.outPath).Int("samples", len(frames)).Msg("Recording saved")
	return nil
}

func (p *portAudioRecorder) Recording() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recording
}

func (p *portAudioRecorder) findDevice() (*portaudio.DeviceInfo, error) {
	if p.cfg.DeviceID == "" {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("failed to get default input device: %w", err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	for _, d := range devices {
		if d.Name == p.cfg.DeviceID {
			return d, nil
		}
	}
	return nil, fmt.Errorf("device not found: %s", p.cfg.DeviceID)
}

func (p *portAudioRecorder) ListDevices() ([]Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	result := make([]Device, 0, len(devices))
	defaultDevice, _ := portaudio.DefaultInputDevice()

	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			result = append(result, Device{
				ID:      d.Name,
				Name:    d.Name,
				Default: d == defaultDevice,
			})
		}
	}

	return result, nil
}

func (p *portAudioRecorder) Close() error {
	p.Stop()
	portaudio.Terminate()
	return nil
}
