package auth

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
	"time"
)

// srpSession holds an SRP server instance with expiry time.
type srpSession struct {
	server    *SRPServer
	expiresAt time.Time
}

// SRPStore keeps pending checks between GetPassword and the call that
// consumes the proof. Each srp_id can be retrieved once.
type SRPStore struct {
	sessions map[int64]*srpSession
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSRPStore creates a store whose entries expire after ttl.
// Expired entries are removed in the background until Stop is called.
func NewSRPStore(ttl time.Duration) *SRPStore {
	store := &SRPStore{
		sessions: make(map[int64]*srpSession),
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	go store.cleanupLoop()

	return store
}

// Store saves an SRP server instance and returns a fresh positive srp_id.
func (s *SRPStore) Store(server *SRPServer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	for id == 0 || s.sessions[id] != nil {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("failed to generate srp_id: %w", err)
		}
		id = int64(binary.BigEndian.Uint64(buf[:]) >> 1)
	}

	s.sessions[id] = &srpSession{
		server:    server,
		expiresAt: s.now().Add(s.ttl),
	}

	return id, nil
}

// Retrieve fetches and removes the server for srpID.
// It returns nil if the id is unknown, was already used or has expired.
func (s *SRPStore) Retrieve(srpID int64) *SRPServer {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[srpID]
	if !exists {
		return nil
	}
	delete(s.sessions, srpID)

	if s.now().After(session.expiresAt) {
		session.server.ClearSecrets()
		return nil
	}

	return session.server
}

// Invalidate drops all pending checks.
func (s *SRPStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		session.server.ClearSecrets()
		delete(s.sessions, id)
	}
}

// Stop stops the background cleanup goroutine.
func (s *SRPStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// cleanupLoop periodically removes expired sessions.
func (s *SRPStore) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup removes all expired sessions.
func (s *SRPStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, session := range s.sessions {
		if now.After(session.expiresAt) {
			session.server.ClearSecrets()
			delete(s.sessions, id)
		}
	}
}

// Count returns the number of pending checks.
func (s *SRPStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
