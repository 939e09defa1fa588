package keybind

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Store persists the keybind map and fans out change notifications after
// a successful save. Loading never fails the caller: anything wrong with
// the file falls back to the built-in defaults.
type Store struct {
	path string
	log  zerolog.Logger

	mu        sync.Mutex
	listeners []func(Map)
}

// NewStore creates a store persisting at path.
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load reads the persisted map. A missing or unreadable file, malformed
// JSON, or an unparsable chord entry all fall back to defaults; fallback
// is per entry so one bad chord does not discard the rest.
func (s *Store) Load() Map {
	m := Default()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("Keybind file unreadable, using defaults")
		}
		return m
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("Keybind file malformed, using defaults")
		return m
	}

	for name, spec := range raw {
		action := Action(name)
		if !Known(action) {
			s.log.Warn().Str("action", name).Msg("Ignoring unknown action in keybind file")
			continue
		}
		canon, err := Canonicalize(spec)
		if err != nil {
			s.log.Warn().Err(err).Str("action", name).Msg("Ignoring unparsable chord, keeping default")
			continue
		}
		m[action] = canon
	}

	return m
}

// Save atomically replaces the persisted map with m. Every chord is
// normalized before writing; a chord that fails to parse aborts the save
// untouched. On success registered listeners are invoked synchronously in
// subscription order.
func (s *Store) Save(m Map) error {
	normalized := Default()
	for action, spec := range m {
		if !Known(action) {
			continue
		}
		canon, err := Canonicalize(spec)
		if err != nil {
			return err
		}
		normalized[action] = canon
	}

	data, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	// Write to a sibling temp file then rename so a failed write leaves
	// the previous file intact.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".keybinds-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	s.log.Info().Str("path", s.path).Msg("Saved keybinds")
	s.notify(normalized)
	return nil
}

// Subscribe registers fn to run synchronously after every successful save.
func (s *Store) Subscribe(fn func(Map)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(m Map) {
	s.mu.Lock()
	listeners := append([]func(Map){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		s.invoke(fn, m)
	}
}

// invoke shields the notification loop from a panicking listener so the
// remaining listeners still run.
func (s *Store) invoke(fn func(Map), m Map) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("Keybind listener panicked")
		}
	}()
	fn(m.Clone())
}
