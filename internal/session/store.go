// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fiddle/cli/internal/xdg"
)

// FileStore persists the last used session as JSON in the XDG state dir.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFileStore returns a store at $XDG_STATE_HOME/fiddle/session.json.
func DefaultFileStore() (*FileStore, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}
	return NewFileStore(filepath.Join(dir, "session.json")), nil
}

// Load reads the stored session. A missing file yields (zero, false, nil).
// Values are returned as written; callers clamp them with Normalized.
func (f *FileStore) Load() (Session, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var s Session
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, false, nil
		}
		return s, false, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, false, err
	}
	return s, true, nil
}

// Save writes the session with 0600 permissions.
func (f *FileStore) Save(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, b, 0o600)
}

// Clear removes the stored session.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryLink holds the current share token in process memory. The CLI seeds it
// from the --link flag, the same way the browser front-end reads it from the
// address bar.
type MemoryLink struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryLink returns a link store holding token (which may be empty).
func NewMemoryLink(token string) *MemoryLink {
	return &MemoryLink{token: strings.TrimSpace(token)}
}

// Token returns the current token and whether one is set.
func (m *MemoryLink) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// SetToken replaces the current token.
func (m *MemoryLink) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = strings.TrimSpace(token)
	return nil
}

// FileLink keeps the last share token in a file so `fiddle open` without
// arguments can reload what was last shared.
type FileLink struct {
	path string
	mu   sync.Mutex
}

// NewFileLink returns a link store backed by the file at path.
func NewFileLink(path string) *FileLink {
	return &FileLink{path: path}
}

// DefaultFileLink returns a link store at $XDG_STATE_HOME/fiddle/link.
func DefaultFileLink() (*FileLink, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}
	return NewFileLink(filepath.Join(dir, "link")), nil
}

// Token returns the stored token. Read errors are reported as "no token".
func (f *FileLink) Token() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if err != nil {
		return "", false
	}
	t := strings.TrimSpace(string(b))
	return t, t != ""
}

// SetToken writes token to the file.
func (f *FileLink) SetToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return os.WriteFile(f.path, []byte(strings.TrimSpace(token)+"\n"), 0o600)
}
