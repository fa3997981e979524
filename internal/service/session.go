package service

import (
	"sync"
	"time"

	"github.com/wearly/tryonbot/internal/domain"
)

// SessionService owns the in-memory sender -> session mapping. Sessions are
// volatile; a restart drops them and the user starts over with "start".
//
// Each session carries its own lock so events for the same sender are
// serialized while different senders proceed in parallel. The map lock is
// only held for lookup and insert, never across network calls.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu   sync.Mutex
	sess domain.Session
}

func NewSessionService() *SessionService {
	return &SessionService{sessions: make(map[string]*sessionEntry)}
}

// WithSession runs fn against the sender's live session while holding that
// sender's lock. The session is created in StateAwaitingPerson if absent.
// fn may block on network calls; only events from the same sender wait.
func (s *SessionService) WithSession(sender string, fn func(sess *domain.Session)) {
	e := s.entry(sender)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess.LastSeen = time.Now()
	fn(&e.sess)
}

// Get returns a copy of the sender's session, if one exists.
func (s *SessionService) Get(sender string) (domain.Session, bool) {
	s.mu.RLock()
	e, ok := s.sessions[sender]
	s.mu.RUnlock()
	if !ok {
		return domain.Session{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess, true
}

// Reset forces the sender's session back to StateAwaitingPerson with no
// stored image path. Safe to call for unknown senders and to call twice.
func (s *SessionService) Reset(sender string) {
	s.WithSession(sender, func(sess *domain.Session) {
		sess.State = domain.StateAwaitingPerson
		sess.PersonImagePath = ""
	})
}

// Len reports the number of tracked sessions.
func (s *SessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictIdle removes sessions untouched for longer than maxIdle and returns
// how many were dropped. Sessions with an event in flight are skipped.
func (s *SessionService) EvictIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for sender, e := range s.sessions {
		if !e.mu.TryLock() {
			continue
		}
		stale := e.sess.LastSeen.Before(cutoff)
		e.mu.Unlock()
		if stale {
			delete(s.sessions, sender)
			evicted++
		}
	}
	return evicted
}

func (s *SessionService) entry(sender string) *sessionEntry {
	s.mu.RLock()
	e, ok := s.sessions[sender]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok = s.sessions[sender]; ok {
		return e
	}
	e = &sessionEntry{sess: domain.Session{
		Sender: sender,
		State:  domain.StateAwaitingPerson,
	}}
	s.sessions[sender] = e
	return e
}
