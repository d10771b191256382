// Package session correlates chat rooms with NLU conversation threads.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Store maps a room id to its NLU session id. A session id is created
// lazily on the first message from a room and is never reassigned for the
// process lifetime. Entries are never evicted; the map grows with the
// number of distinct rooms seen.
type Store struct {
	mu       sync.Mutex
	sessions map[string]string
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]string)}
}

// GetOrCreate returns the session id for roomID, minting a time-ordered
// UUID on first sight. Repeated calls for the same room always return the
// identical id.
func (s *Store) GetOrCreate(roomID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.sessions[roomID]; ok {
		return id
	}
	id := newSessionID()
	s.sessions[roomID] = id
	return id
}

// Len reports the number of rooms with an active session.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func newSessionID() string {
	// uuid.NewUUID is the time-ordered (v1) variant; it only errors when
	// the host cannot supply a clock sequence, in which case a random id
	// still satisfies uniqueness.
	if id, err := uuid.NewUUID(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
