package session

import (
	"sync"

	"github.com/google/uuid"

	werrors "github.com/julianstephens/weekwise/internal/errors"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/resolver"
	"github.com/julianstephens/weekwise/internal/revision"
)

// Manager owns the live sessions. Sessions are independent; the manager's
// lock only guards the registry itself.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	extractor revision.IntentExtractor
}

// NewManager creates a session registry. The extractor may be nil, in which
// case free-form revision instructions are unavailable and only structured
// intents are accepted.
func NewManager(extractor revision.IntentExtractor) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		extractor: extractor,
	}
}

// Create starts a new session with a fresh id.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.extractor)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, &werrors.SessionStateError{Reason: "unknown session " + id}
	}
	return s, nil
}

// Remove drops a session from the registry.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Restore rebuilds a session from a snapshot and registers it. The question
// queue is not stored verbatim; it is reproduced by re-scanning the items,
// which yields the same queue answered fields no longer appear in.
func (m *Manager) Restore(snap models.SessionSnapshot) *Session {
	s := newSession(snap.ID, m.extractor)
	s.version = snap.Version
	s.prefs = snap.Preferences
	if len(snap.Items) > 0 {
		s.res = resolver.New(snap.Items)
	}
	if snap.Calendar != nil {
		s.calendar = snap.Calendar.Clone()
		s.unplaceable = append([]models.ScheduleItem(nil), snap.Unplaceable...)
	}
	for _, p := range snap.Proposals {
		s.proposals[p.CourseCode] = p
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}
