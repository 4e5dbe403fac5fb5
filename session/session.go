// Package session holds the logged-in user identifier. A session is logged
// in iff its identifier is non-empty; the client never validates it against
// the server. The record also carries the upstream credential cookies.
package session

import (
	"fmt"
	"maps"
	"sync"
)

type Record struct {
	UserID   string            `json:"userId"`
	Upstream map[string]string `json:"upstream,omitempty"`
}

// Store persists a Record. Implementations need not be safe for concurrent
// use; Session serializes access.
type Store interface {
	Load() (Record, error)
	Save(Record) error
	Clear() error
}

// Session is the single read/write/clear API pages use for the session
// identifier.
type Session struct {
	mu     sync.RWMutex
	store  Store
	record Record
}

func New(store Store) (*Session, error) {
	record, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}
	return &Session{store: store, record: record}, nil
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record.UserID
}

func (s *Session) LoggedIn() bool {
	return s.UserID() != ""
}

func (s *Session) Set(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Record{UserID: userID, Upstream: s.record.Upstream}
	if err := s.store.Save(next); err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}
	s.record = next
	return nil
}

// Clear forgets the identifier and the upstream credentials.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("error clearing session: %w", err)
	}
	s.record = Record{}
	return nil
}

func (s *Session) Credentials() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.record.Upstream)
}

// SetCredentials stores the upstream cookies; it is a no-op when they are
// unchanged.
func (s *Session) SetCredentials(upstream map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if maps.Equal(s.record.Upstream, upstream) {
		return nil
	}
	next := Record{UserID: s.record.UserID, Upstream: maps.Clone(upstream)}
	if err := s.store.Save(next); err != nil {
		return fmt.Errorf("error saving credentials: %w", err)
	}
	s.record = next
	return nil
}
