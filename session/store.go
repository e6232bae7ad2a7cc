// Package session keeps the logged-in user's profile snapshot for the
// lifetime of a login session. The snapshot is persisted as JSON under a
// single key file so it survives app restarts, and is destroyed on logout.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"pipetrack/models"
)

type Store struct {
	path string

	mu      sync.Mutex
	profile *models.SessionProfile
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Current returns the in-memory snapshot, or nil when logged out.
func (s *Store) Current() *models.SessionProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// Save overwrites the snapshot in memory and on disk. Last writer wins; the
// only writers are login, profile save and avatar upload.
func (s *Store) Save(p *models.SessionProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	cp := *p
	s.profile = &cp
	return nil
}

// Load restores the snapshot from disk. Older clients sometimes wrote the
// profile double-encoded (a JSON string containing JSON); both shapes are
// accepted, and Save always writes single-encoded.
func (s *Store) Load() (*models.SessionProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var inner string
	if err := json.Unmarshal(data, &inner); err == nil {
		data = []byte(inner)
	}

	var p models.SessionProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	s.profile = &p
	cp := p
	return &cp, nil
}

// Clear logs out: memory dropped, file removed.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
