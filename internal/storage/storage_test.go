package storage

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/weekwise/internal/models"
)

func sampleSnapshot(id string) models.SessionSnapshot {
	return models.SessionSnapshot{
		ID:      id,
		Version: 3,
		State:   "compiled",
		Items: []models.ScheduleItem{
			{
				ID:          "lec-1",
				Kind:        models.ItemKindFixed,
				Description: "CMPS350 Lecture",
				Day:         models.Monday,
				Time:        "10:00",
				DurationMin: 60,
			},
		},
		Preferences: models.DefaultPreferences(),
		UpdatedAt:   "2026-08-24T10:00:00Z",
	}
}

func newTestProviders(t *testing.T) map[string]Provider {
	t.Helper()
	dir := t.TempDir()
	return map[string]Provider{
		"json":   NewJSONStore(filepath.Join(dir, "weekwise.json")),
		"sqlite": NewSQLiteStore(filepath.Join(dir, "weekwise.db")),
	}
}

func TestProvider_SnapshotRoundTrip(t *testing.T) {
	for name, p := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			if err := p.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			defer p.Close()

			if err := p.SaveSnapshot(sampleSnapshot("sess-1")); err != nil {
				t.Fatalf("SaveSnapshot failed: %v", err)
			}

			got, err := p.GetSnapshot("sess-1")
			if err != nil {
				t.Fatalf("GetSnapshot failed: %v", err)
			}
			if got.Version != 3 || got.State != "compiled" {
				t.Errorf("Unexpected snapshot %+v", got)
			}
			if len(got.Items) != 1 || got.Items[0].ID != "lec-1" {
				t.Errorf("Expected the lecture back, got %+v", got.Items)
			}
		})
	}
}

func TestProvider_GetSnapshotUnknownID(t *testing.T) {
	for name, p := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			if err := p.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			defer p.Close()

			if _, err := p.GetSnapshot("nope"); err == nil {
				t.Error("Expected an error for an unknown session id")
			}
		})
	}
}

func TestProvider_DeleteSnapshot(t *testing.T) {
	for name, p := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			if err := p.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			defer p.Close()

			if err := p.SaveSnapshot(sampleSnapshot("sess-1")); err != nil {
				t.Fatalf("SaveSnapshot failed: %v", err)
			}
			if err := p.DeleteSnapshot("sess-1"); err != nil {
				t.Fatalf("DeleteSnapshot failed: %v", err)
			}
			if _, err := p.GetSnapshot("sess-1"); err == nil {
				t.Error("Expected the snapshot gone after delete")
			}
			if err := p.DeleteSnapshot("sess-1"); err == nil {
				t.Error("Expected an error deleting an already-deleted snapshot")
			}
		})
	}
}

func TestProvider_PreferencesDefaultOnInit(t *testing.T) {
	for name, p := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			if err := p.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			defer p.Close()

			prefs, err := p.GetPreferences()
			if err != nil {
				t.Fatalf("GetPreferences failed: %v", err)
			}
			if prefs.DayStart == "" || prefs.DayEnd == "" {
				t.Errorf("Expected populated defaults, got %+v", prefs)
			}

			prefs.IncludeWeekends = true
			if err := p.SavePreferences(prefs); err != nil {
				t.Fatalf("SavePreferences failed: %v", err)
			}
			got, err := p.GetPreferences()
			if err != nil {
				t.Fatalf("GetPreferences failed: %v", err)
			}
			if !got.IncludeWeekends {
				t.Error("Expected include_weekends to persist")
			}
		})
	}
}

func TestJSONStore_InitRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekwise.json")
	s := NewJSONStore(path)

	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := NewJSONStore(path).Init(); err == nil {
		t.Error("Expected a second Init to fail on an existing store")
	}
}

func TestJSONStore_LoadMissingFile(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))

	if err := s.Load(); err == nil {
		t.Error("Expected Load to fail before Init")
	}
}
