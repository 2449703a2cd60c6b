package session

import (
	"context"
	"sync"
	"time"

	"pricecompare/domain/pricing"

	"github.com/google/uuid"
)

// State is the widget state of one browser session: the uploaded file plus
// the last dealer choice and slider values.
type State struct {
	ID         string
	Filename   string
	Content    []byte
	Products   []string // validated product names, slider index order
	Dealers    []string
	DealersSet bool
	Quantities pricing.Quantities
	UpdatedAt  time.Time
}

// HasUpload reports whether a file has been uploaded in this session
func (s *State) HasUpload() bool {
	return len(s.Content) > 0
}

func (s *State) clone() *State {
	out := *s
	out.Products = append([]string(nil), s.Products...)
	out.Dealers = append([]string(nil), s.Dealers...)
	if s.Quantities != nil {
		out.Quantities = make(pricing.Quantities, len(s.Quantities))
		for k, v := range s.Quantities {
			out.Quantities[k] = v
		}
	}
	// Content is never mutated after upload, so it is shared.
	return &out
}

// Store keeps session state in memory for the lifetime of the process
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*State
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store evicting sessions idle for longer than ttl
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*State),
		ttl:      ttl,
		now:      time.Now,
	}
}

// NewID returns a fresh session identifier
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an identifier issued by NewID
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns a copy of the session, or false when it is unknown or expired
func (s *Store) Get(id string) (*State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[id]
	if !ok || s.expired(st) {
		return nil, false
	}
	return st.clone(), true
}

// Save stores a copy of state under state.ID
func (s *Store) Save(state *State) {
	st := state.clone()
	st.UpdatedAt = s.now()

	s.mu.Lock()
	s.sessions[st.ID] = st
	s.mu.Unlock()
}

// Delete forgets a session
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CleanupExpired removes expired sessions and returns how many were removed
func (s *Store) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, st := range s.sessions {
		if s.expired(st) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor runs CleanupExpired every interval until ctx is cancelled
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired()
			}
		}
	}()
}

func (s *Store) expired(st *State) bool {
	return s.ttl > 0 && s.now().Sub(st.UpdatedAt) > s.ttl
}
