package form

import (
	"testing"
	"time"
)

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(func() *Controller { return NewController(&fakePredictor{}) }, ttl)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestStoreGetOrCreate(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	id, c, created := s.GetOrCreate("")
	if !created || id == "" || c == nil {
		t.Fatalf("expected new session, got id=%q created=%v", id, created)
	}

	again, c2, created := s.GetOrCreate(id)
	if created || again != id || c2 != c {
		t.Fatal("expected existing session to be returned")
	}

	other, _, created := s.GetOrCreate("unknown")
	if !created || other == id {
		t.Fatal("unknown id should start a new session")
	}
	if s.Len() != 2 {
		t.Fatalf("expected two sessions, got %d", s.Len())
	}
}

func TestStoreExpiresIdleSessions(t *testing.T) {
	s, now := newTestStore(time.Minute)

	id, _ := s.Create()
	*now = now.Add(30 * time.Second)
	if _, ok := s.Get(id); !ok {
		t.Fatal("session should still be live")
	}

	*now = now.Add(2 * time.Minute)
	if _, ok := s.Get(id); ok {
		t.Fatal("session should have expired")
	}
	if s.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", s.Len())
	}
}

func TestStoreKeepsSubmittingSessions(t *testing.T) {
	s, now := newTestStore(time.Minute)

	id, c := s.Create()
	c.mu.Lock()
	c.state = StateSubmitting
	c.mu.Unlock()

	*now = now.Add(time.Hour)
	if _, ok := s.Get(id); !ok {
		t.Fatal("in-flight session must not expire")
	}
}
