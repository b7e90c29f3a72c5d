package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Brownie44l1/cxr-api/internal/client"
)

type sessionEntry struct {
	session  *client.Session
	lastSeen time.Time
}

// SessionStore keeps one client.Session per browser in memory. Idle
// sessions are closed by DeleteExpired.
type SessionStore struct {
	mu         sync.Mutex
	sessions   map[string]*sessionEntry
	ttl        time.Duration
	newSession func() *client.Session
	now        func() time.Time
}

func NewSessionStore(ttl time.Duration, newSession func() *client.Session) *SessionStore {
	return &SessionStore{
		sessions:   make(map[string]*sessionEntry),
		ttl:        ttl,
		newSession: newSession,
		now:        time.Now,
	}
}

// Get returns the live session for id, creating a fresh one under a new id
// when id is unknown or expired.
func (s *SessionStore) Get(id string) (string, *client.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.sessions[id]; ok {
		if now.Sub(e.lastSeen) < s.ttl {
			e.lastSeen = now
			return id, e.session
		}
		e.session.Close()
		delete(s.sessions, id)
	}

	id = uuid.NewString()
	sess := s.newSession()
	s.sessions[id] = &sessionEntry{session: sess, lastSeen: now}
	return id, sess
}

// DeleteExpired closes and removes idle sessions and reports how many went.
func (s *SessionStore) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) >= s.ttl {
			e.session.Close()
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CloseAll closes every session.
func (s *SessionStore) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.sessions {
		e.session.Close()
		delete(s.sessions, id)
	}
}

// Sweep removes expired sessions every interval until ctx is cancelled,
// then closes whatever is left.
func (s *SessionStore) Sweep(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.CloseAll()
			return nil
		case <-ticker.C:
			s.DeleteExpired()
		}
	}
}
