package storage

import "github.com/julianstephens/weekwise/internal/models"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Preferences
	GetPreferences() (models.Preferences, error)
	SavePreferences(models.Preferences) error

	// Session snapshots
	SaveSnapshot(models.SessionSnapshot) error
	GetSnapshot(id string) (models.SessionSnapshot, error)
	GetAllSnapshots() ([]models.SessionSnapshot, error)
	DeleteSnapshot(id string) error

	// Utils
	GetConfigPath() string
}
