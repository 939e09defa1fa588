package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

type Config struct {
	OpenAI   OpenAIConfig `json:"openai"`
	Audio    AudioConfig  `json:"audio"`
	Position string       `json:"position"`
	LogLevel string       `json:"log_level"`
}

type OpenAIConfig struct {
	BaseURL string   `json:"base_url"`
	APIKey  string   `json:"api_key,omitempty"`
	Models  []string `json:"models"`
	Model   string   `json:"model"`
}

type AudioConfig struct {
	DeviceID   string `json:"device_id"`
	SampleRate int    `json:"sample_rate"`
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	path := configPath()

	cfg := &Config{
		OpenAI: OpenAIConfig{
			BaseURL: "https://api.openai.com/v1",
			Models:  []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo"},
			Model:   "gpt-4o",
		},
		Audio: AudioConfig{
			DeviceID:   "",
			SampleRate: 16000,
		},
		Position: "Software Engineer",
		LogLevel: "info",
	}

	// Load existing config if it exists
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Environment wins so the key never has to land on disk.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// KeybindsPath returns the path of the persisted keybind map.
func KeybindsPath() string {
	return filepath.Join(filepath.Dir(configPath()), "keybinds.json")
}

// RecordingPath returns where recorded audio is written before analysis.
func RecordingPath() string {
	return filepath.Join(DataPath(), "recording.wav")
}

// ScreenshotPath returns where captured screenshots are written.
func ScreenshotPath() string {
	return filepath.Join(DataPath(), "screenshot.png")
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "hack-interview", "config.json")
}

// DataPath returns the platform-specific data directory path
func DataPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.local/share"
		}
	}

	return filepath.Join(base, "hack-interview")
}
