package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/julianstephens/weekwise/internal/models"
)

type Store struct {
	Version     int                               `json:"version"`
	Preferences models.Preferences                `json:"preferences"`
	Sessions    map[string]models.SessionSnapshot `json:"sessions"`
}

type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version:     1,
		Preferences: models.DefaultPreferences(),
		Sessions:    make(map[string]models.SessionSnapshot),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'weekwise init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.store.Sessions == nil {
		s.store.Sessions = make(map[string]models.SessionSnapshot)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetPreferences() (models.Preferences, error) {
	if s.store == nil {
		return models.Preferences{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Preferences, nil
}

func (s *JSONStore) SavePreferences(prefs models.Preferences) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Preferences = prefs
	return s.save()
}

func (s *JSONStore) SaveSnapshot(snap models.SessionSnapshot) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	if snap.UpdatedAt == "" {
		snap.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	s.store.Sessions[snap.ID] = snap
	return s.save()
}

func (s *JSONStore) GetSnapshot(id string) (models.SessionSnapshot, error) {
	if s.store == nil {
		return models.SessionSnapshot{}, fmt.Errorf("storage not loaded")
	}

	snap, ok := s.store.Sessions[id]
	if !ok {
		return models.SessionSnapshot{}, fmt.Errorf("session not found: %s", id)
	}

	return snap, nil
}

func (s *JSONStore) GetAllSnapshots() ([]models.SessionSnapshot, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	snaps := make([]models.SessionSnapshot, 0, len(s.store.Sessions))
	for _, snap := range s.store.Sessions {
		snaps = append(snaps, snap)
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].UpdatedAt > snaps[j].UpdatedAt
	})

	return snaps, nil
}

func (s *JSONStore) DeleteSnapshot(id string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	if _, ok := s.store.Sessions[id]; !ok {
		return fmt.Errorf("session not found: %s", id)
	}

	delete(s.store.Sessions, id)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
