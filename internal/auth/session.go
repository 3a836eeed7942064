package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	// ErrSessionNotFound is returned when a session token is not found in storage
	ErrSessionNotFound = errors.New("session token not found")

	// ErrSessionExpired is returned when a session token has expired
	ErrSessionExpired = errors.New("session token expired")

	// ErrSessionLimitExceeded is returned when maximum concurrent sessions limit is reached
	ErrSessionLimitExceeded = errors.New("session limit exceeded")
)

const (
	// DefaultSessionTTL is the default session token lifetime (30 minutes)
	DefaultSessionTTL = 30 * time.Minute

	// MaxConcurrentSessions is the maximum number of concurrent sessions allowed
	MaxConcurrentSessions = 10

	// TokenIDBytes is the number of random bytes in the token ID (32 bytes = 256 bits)
	TokenIDBytes = 32

	// CleanupInterval is how often expired sessions are cleaned up
	CleanupInterval = 1 * time.Minute
)

// Session is the authorization granted by a successful password check.
type Session struct {
	Token     string // token_id.signature
	Subject   string // Account the session belongs to
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionManager issues and validates HMAC-signed session tokens.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // key: token string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSessionManager creates a session manager signing with secret.
// A non-positive ttl selects DefaultSessionTTL.
func NewSessionManager(secret []byte, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	sm := &SessionManager{
		sessions: make(map[string]*Session),
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	go sm.cleanupExpiredSessions()

	return sm
}

// CreateSession creates a new session for subject.
func (sm *SessionManager) CreateSession(subject string) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= MaxConcurrentSessions {
		return nil, ErrSessionLimitExceeded
	}

	tokenIDBytes := make([]byte, TokenIDBytes)
	if _, err := rand.Read(tokenIDBytes); err != nil {
		return nil, fmt.Errorf("failed to generate token ID: %w", err)
	}
	tokenID := base64.RawURLEncoding.EncodeToString(tokenIDBytes)

	now := sm.now()
	session := &Session{
		Token:     tokenID + "." + sm.computeSignature(tokenID, subject),
		Subject:   subject,
		CreatedAt: now,
		ExpiresAt: now.Add(sm.ttl),
	}
	sm.sessions[session.Token] = session

	return session, nil
}

// ValidateSession returns the session for token.
func (sm *SessionManager) ValidateSession(token string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[token]
	if !exists {
		return nil, ErrSessionNotFound
	}

	if sm.now().After(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	if !sm.verifySignature(token, session.Subject) {
		return nil, errors.New("invalid session token signature")
	}

	return session, nil
}

// InvalidateSession removes a session from storage.
func (sm *SessionManager) InvalidateSession(token string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[token]; !exists {
		return ErrSessionNotFound
	}

	delete(sm.sessions, token)
	return nil
}

// GetSessionCount returns the current number of active sessions.
func (sm *SessionManager) GetSessionCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// Stop stops the background cleanup goroutine.
func (sm *SessionManager) Stop() {
	sm.stopOnce.Do(func() { close(sm.stopCh) })
}

// computeSignature computes HMAC-SHA256(token_id | subject, secret).
func (sm *SessionManager) computeSignature(tokenID, subject string) string {
	h := hmac.New(sha256.New, sm.secret)
	h.Write([]byte(tokenID))
	h.Write([]byte(subject))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func (sm *SessionManager) verifySignature(token, subject string) bool {
	i := strings.LastIndexByte(token, '.')
	if i <= 0 || i == len(token)-1 {
		return false
	}

	expected := sm.computeSignature(token[:i], subject)
	return hmac.Equal([]byte(token[i+1:]), []byte(expected))
}

func (sm *SessionManager) cleanupExpiredSessions() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.performCleanup()
		case <-sm.stopCh:
			return
		}
	}
}

func (sm *SessionManager) performCleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := sm.now()
	for token, session := range sm.sessions {
		if now.After(session.ExpiresAt) {
			delete(sm.sessions, token)
		}
	}
}

// GenerateSessionSecret returns 32 random bytes for HMAC signing.
func GenerateSessionSecret() ([]byte, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	return secret, nil
}
