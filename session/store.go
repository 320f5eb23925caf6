package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultIdleTTL = 30 * time.Minute

// Store keeps one Controller per browser session, keyed by the session
// cookie value.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*storeEntry
	factory  func() *Controller
	idleTTL  time.Duration
}

type storeEntry struct {
	controller *Controller
	lastSeen   time.Time
}

func NewStore(factory func() *Controller, idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Store{
		sessions: make(map[string]*storeEntry),
		factory:  factory,
		idleTTL:  idleTTL,
	}
}

// Get returns the controller for a session id, refreshing its idle timer.
func (s *Store) Get(id string) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = time.Now()
	return entry.controller, true
}

// Create registers a fresh session and returns its id.
func (s *Store) Create() (string, *Controller) {
	id := uuid.NewString()
	controller := s.factory()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &storeEntry{controller: controller, lastSeen: time.Now()}
	return id, controller
}

// Sweep drops sessions idle for longer than the TTL and reports how many
// were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.idleTTL)
	removed := 0
	for id, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
