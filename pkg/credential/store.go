// Package credential persists API keys between runs.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"healthchat/pkg/config"
)

const credentialsFileName = "credentials.json"

// ErrNotFound is returned by Load when no value is stored under the name.
var ErrNotFound = errors.New("credential not found")

// fileFormat is the on-disk format for stored credentials.
type fileFormat struct {
	Values map[string]string `json:"values"`
}

// Store keeps named secrets in a JSON file readable only by the owner.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns ~/.healthchat/credentials.json.
func DefaultPath() string {
	return filepath.Join(config.Dir(), credentialsFileName)
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Save stores value under name.
func (s *Store) Save(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		slog.Debug("credential_save_error", "name", name, "error", err)
		return err
	}
	data.Values[name] = value

	slog.Debug("credential_save", "name", name, "path", s.path)
	return s.write(data)
}

// Load returns the value stored under name.
func (s *Store) Load(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.read()
	if err != nil {
		slog.Debug("credential_load_error", "name", name, "error", err)
		return "", err
	}

	value, ok := data.Values[name]
	if !ok {
		slog.Debug("credential_load_missing", "name", name)
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	slog.Debug("credential_load", "name", name)
	return value, nil
}

// Delete removes the value stored under name. Deleting a missing name is
// not an error.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		slog.Debug("credential_delete_error", "name", name, "error", err)
		return err
	}
	if _, ok := data.Values[name]; !ok {
		return nil
	}
	delete(data.Values, name)

	slog.Debug("credential_delete", "name", name, "path", s.path)
	return s.write(data)
}

// Has reports whether a value is stored under name.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.read()
	if err != nil {
		return false
	}
	_, ok := data.Values[name]
	return ok
}

// Names returns the stored names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.read()
	if err != nil {
		slog.Debug("credential_list_error", "error", err)
		return nil
	}

	names := make([]string, 0, len(data.Values))
	for name := range data.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) read() (*fileFormat, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileFormat{Values: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var data fileFormat
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", s.path, err)
	}
	if data.Values == nil {
		data.Values = make(map[string]string)
	}
	return &data, nil
}

func (s *Store) write(data *fileFormat) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}
