package service

import (
	"context"
	"testing"
	"time"
)

func TestSessionStartAndResolve(t *testing.T) {
	store := newMemStore()
	svc := NewSessionService(sessionRepo{store}, "test-secret", time.Hour)

	token, err := svc.Start(context.Background(), 42)
	if err != nil {
		t.Fatalf("Start() unexpected error: %v", err)
	}

	userID, sessionID, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if userID != 42 {
		t.Errorf("Resolve() userID = %d, want 42", userID)
	}
	if sessionID == "" {
		t.Error("Resolve() returned empty session id")
	}
}

func TestSessionResolveGarbageToken(t *testing.T) {
	store := newMemStore()
	svc := NewSessionService(sessionRepo{store}, "test-secret", time.Hour)

	_, _, err := svc.Resolve(context.Background(), "not-a-token")
	if err != ErrUnauthenticated {
		t.Errorf("Resolve() error = %v, want ErrUnauthenticated", err)
	}
}

func TestSessionRevoke(t *testing.T) {
	store := newMemStore()
	svc := NewSessionService(sessionRepo{store}, "test-secret", time.Hour)

	token, err := svc.Start(context.Background(), 42)
	if err != nil {
		t.Fatalf("Start() unexpected error: %v", err)
	}

	_, sessionID, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}

	if err := svc.Revoke(context.Background(), sessionID); err != nil {
		t.Fatalf("Revoke() unexpected error: %v", err)
	}

	// The token still has a valid signature, but the server-side session is
	// gone, so it must no longer authenticate.
	_, _, err = svc.Resolve(context.Background(), token)
	if err != ErrUnauthenticated {
		t.Errorf("Resolve() after revoke: error = %v, want ErrUnauthenticated", err)
	}

	// Revoking again is a no-op.
	if err := svc.Revoke(context.Background(), sessionID); err != nil {
		t.Errorf("second Revoke() unexpected error: %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	store := newMemStore()
	svc := NewSessionService(sessionRepo{store}, "test-secret", time.Hour)

	token, err := svc.Start(context.Background(), 42)
	if err != nil {
		t.Fatalf("Start() unexpected error: %v", err)
	}

	// Age the server-side row past its expiry.
	for _, s := range store.sessions {
		s.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	}

	_, _, err = svc.Resolve(context.Background(), token)
	if err != ErrUnauthenticated {
		t.Errorf("Resolve() of expired session: error = %v, want ErrUnauthenticated", err)
	}

	// Expired rows are deleted on sight.
	if len(store.sessions) != 0 {
		t.Errorf("expired session row still present, want deleted")
	}
}

func TestSessionSweep(t *testing.T) {
	store := newMemStore()
	svc := NewSessionService(sessionRepo{store}, "test-secret", time.Hour)

	if _, err := svc.Start(context.Background(), 1); err != nil {
		t.Fatalf("Start() unexpected error: %v", err)
	}
	if _, err := svc.Start(context.Background(), 2); err != nil {
		t.Fatalf("Start() unexpected error: %v", err)
	}

	for _, s := range store.sessions {
		if s.UserID == 1 {
			s.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		}
	}

	svc.Sweep(context.Background())

	if len(store.sessions) != 1 {
		t.Errorf("Sweep() left %d sessions, want 1", len(store.sessions))
	}
}
