package credential

import (
	"log/slog"
	"os"
	"strings"
)

// EnvAPIKey supplies a session-only key that is never written to disk.
const EnvAPIKey = "HEALTHCHAT_API_KEY"

// Setting is one user-editable secret with an optional "remember on this
// machine" flag. The in-memory value always wins; the store only mirrors it
// while Remember is on.
type Setting struct {
	name     string
	store    *Store
	value    string
	remember bool
	fromEnv  bool
}

// NewSetting binds a setting to name in store. A nil store keeps the value
// in memory only.
func NewSetting(store *Store, name string) *Setting {
	return &Setting{name: name, store: store}
}

// Name returns the storage key.
func (s *Setting) Name() string {
	return s.name
}

// Load reads the start-up value. HEALTHCHAT_API_KEY takes precedence over
// the store and is treated as session-only. Without an env key, remember
// starts on.
func (s *Setting) Load() {
	if env := strings.TrimSpace(os.Getenv(EnvAPIKey)); env != "" {
		s.value = env
		s.remember = false
		s.fromEnv = true
		slog.Debug("credential_setting_env", "name", s.name)
		return
	}
	if s.store == nil {
		return
	}
	s.remember = true
	if value, err := s.store.Load(s.name); err == nil {
		s.value = value
	}
}

// Value returns the current value.
func (s *Setting) Value() string {
	return s.value
}

// Remember reports whether the value is persisted.
func (s *Setting) Remember() bool {
	return s.remember
}

// FromEnv reports whether the value came from the environment.
func (s *Setting) FromEnv() bool {
	return s.fromEnv
}

// Set replaces the value and persists it when Remember is on. An empty
// value clears the persisted copy.
func (s *Setting) Set(value string) error {
	s.value = strings.TrimSpace(value)
	s.fromEnv = false
	if !s.remember || s.store == nil {
		return nil
	}
	if s.value == "" {
		return s.store.Delete(s.name)
	}
	return s.store.Save(s.name, s.value)
}

// SetRemember toggles persistence. Turning it off deletes the stored copy;
// turning it on stores the current value, if any.
func (s *Setting) SetRemember(remember bool) error {
	s.remember = remember
	if s.store == nil {
		return nil
	}
	if !remember {
		return s.store.Delete(s.name)
	}
	if s.value == "" {
		return nil
	}
	return s.store.Save(s.name, s.value)
}
