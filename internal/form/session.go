package form

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	controller *Controller
	lastSeen   time.Time
}

// Store keeps one Controller per browser session in memory. Sessions idle for
// longer than the TTL are dropped on the next access. A session whose
// prediction is still in flight is never dropped.
type Store struct {
	newController func() *Controller
	ttl           time.Duration
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewStore(newController func() *Controller, ttl time.Duration) *Store {
	return &Store{
		newController: newController,
		ttl:           ttl,
		now:           time.Now,
		sessions:      make(map[string]*session),
	}
}

// Get returns the controller for id and refreshes its idle timer.
func (s *Store) Get(id string) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.controller, true
}

// Create starts a new session.
func (s *Store) Create() (string, *Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return s.createLocked()
}

// GetOrCreate returns the session for id, or a new one when id is unknown or
// expired. created reports whether a new id was issued.
func (s *Store) GetOrCreate(id string) (sessionID string, c *Controller, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	if sess, ok := s.sessions[id]; ok && id != "" {
		sess.lastSeen = s.now()
		return id, sess.controller, false
	}
	sessionID, c = s.createLocked()
	return sessionID, c, true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) createLocked() (string, *Controller) {
	id := uuid.NewString()
	c := s.newController()
	s.sessions[id] = &session{controller: c, lastSeen: s.now()}
	return id, c
}

func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) && sess.controller.State() != StateSubmitting {
			delete(s.sessions, id)
		}
	}
}
