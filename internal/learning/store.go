package learning

import (
	"sync"
)

// defaultWindow caps how many sessions are retained per user. Adaptive
// analysis only looks at recent history, so older records age out.
const defaultWindow = 100

// Store keeps recent session history per user, newest first. Safe for
// concurrent use; reads return copies.
type Store struct {
	mu     sync.RWMutex
	byUser map[string][]*Session
	window int
}

// NewStore creates a Store retaining up to window sessions per user.
// Pass 0 for the default window.
func NewStore(window int) *Store {
	if window <= 0 {
		window = defaultWindow
	}
	return &Store{
		byUser: make(map[string][]*Session),
		window: window,
	}
}

// Add records a completed session at the head of the user's history,
// evicting the oldest entry once the window is full.
func (s *Store) Add(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.byUser[sess.UserID]
	history = append([]*Session{sess.clone()}, history...)
	if len(history) > s.window {
		history = history[:s.window]
	}
	s.byUser[sess.UserID] = history
}

// Recent returns up to n of the user's most recent sessions, newest
// first. Pass n <= 0 for the full retained history.
func (s *Store) Recent(userID string, n int) []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.byUser[userID]
	if n <= 0 || n > len(history) {
		n = len(history)
	}
	out := make([]*Session, n)
	for i := 0; i < n; i++ {
		out[i] = history[i].clone()
	}
	return out
}

// Count returns how many sessions are retained for the user.
func (s *Store) Count(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUser[userID])
}
