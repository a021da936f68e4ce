// Package cli implements the weekwise commands. State lives in the storage
// provider between invocations; each command restores the current session
// from its snapshot, runs one operation and snapshots it back.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/weekwise/internal/backup"
	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/session"
	"github.com/julianstephens/weekwise/internal/storage"
)

// CurrentSessionID keys the single session the CLI works on. The HTTP
// server manages many sessions; the CLI always resumes this one.
const CurrentSessionID = "current"

type Context struct {
	Store    storage.Provider
	Sessions *session.Manager
}

// LoadCurrentSession restores the CLI session from storage, starting a
// fresh one seeded with the stored preferences when none exists yet.
func (ctx *Context) LoadCurrentSession() (*session.Session, error) {
	if err := ctx.Store.Load(); err != nil {
		return nil, err
	}

	snap, err := ctx.Store.GetSnapshot(CurrentSessionID)
	if err != nil {
		snap = models.SessionSnapshot{ID: CurrentSessionID}
		if prefs, perr := ctx.Store.GetPreferences(); perr == nil {
			snap.Preferences = prefs
		}
	}
	return ctx.Sessions.Restore(snap), nil
}

// SaveCurrentSession snapshots the session back to storage.
func (ctx *Context) SaveCurrentSession(s *session.Session) error {
	if err := ctx.Store.SaveSnapshot(s.Snapshot()); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// PerformAutomaticBackup backs up the store file, logging failures instead
// of interrupting the command that triggered it.
func (ctx *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("automatic backup failed", "error", err)
	}
}

// readDraftFile parses a draft of schedule items from a JSON file, or from
// stdin when path is "-". Both a bare array and an {"items": [...]} wrapper
// are accepted.
func readDraftFile(path string) ([]models.ScheduleItem, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	var items []models.ScheduleItem
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		Items []models.ScheduleItem `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse draft: %w", err)
	}
	return wrapped.Items, nil
}
