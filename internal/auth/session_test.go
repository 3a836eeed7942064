package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestSessionManager(t *testing.T) (*SessionManager, *time.Time) {
	t.Helper()
	secret, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("GenerateSessionSecret() failed: %v", err)
	}

	sm := NewSessionManager(secret, time.Minute)
	t.Cleanup(sm.Stop)

	now := time.Now()
	sm.now = func() time.Time { return now }
	return sm, &now
}

func TestSessionManager_CreateAndValidate(t *testing.T) {
	sm, _ := newTestSessionManager(t)

	session, err := sm.CreateSession("account")
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	if !strings.Contains(session.Token, ".") {
		t.Errorf("token %q is not token_id.signature", session.Token)
	}
	if got := session.ExpiresAt.Sub(session.CreatedAt); got != time.Minute {
		t.Errorf("expected 1m lifetime, got %v", got)
	}

	validated, err := sm.ValidateSession(session.Token)
	if err != nil {
		t.Fatalf("ValidateSession() failed: %v", err)
	}
	if validated.Subject != "account" {
		t.Errorf("expected subject 'account', got %q", validated.Subject)
	}
}

func TestSessionManager_Expired(t *testing.T) {
	sm, now := newTestSessionManager(t)

	session, err := sm.CreateSession("account")
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}

	*now = now.Add(2 * time.Minute)
	if _, err := sm.ValidateSession(session.Token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}

	sm.performCleanup()
	if n := sm.GetSessionCount(); n != 0 {
		t.Errorf("expected expired session to be cleaned up, %d left", n)
	}
}

func TestSessionManager_TamperedToken(t *testing.T) {
	sm, _ := newTestSessionManager(t)

	session, err := sm.CreateSession("account")
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}

	if _, err := sm.ValidateSession(session.Token + "x"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	if sm.verifySignature(session.Token, "other") {
		t.Error("signature must be bound to the subject")
	}
	if sm.verifySignature("nodot", "account") {
		t.Error("token without separator must not verify")
	}
}

func TestSessionManager_Limit(t *testing.T) {
	sm, _ := newTestSessionManager(t)

	for i := 0; i < MaxConcurrentSessions; i++ {
		if _, err := sm.CreateSession("account"); err != nil {
			t.Fatalf("CreateSession() #%d failed: %v", i, err)
		}
	}

	if _, err := sm.CreateSession("account"); !errors.Is(err, ErrSessionLimitExceeded) {
		t.Errorf("expected ErrSessionLimitExceeded, got %v", err)
	}
}

func TestSessionManager_Invalidate(t *testing.T) {
	sm, _ := newTestSessionManager(t)

	session, err := sm.CreateSession("account")
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}

	if err := sm.InvalidateSession(session.Token); err != nil {
		t.Fatalf("InvalidateSession() failed: %v", err)
	}
	if err := sm.InvalidateSession(session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}
