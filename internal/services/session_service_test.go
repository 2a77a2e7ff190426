package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"simbengride/internal/config"
	"simbengride/internal/models"
)

func TestSessionEstablishAndResolve(t *testing.T) {
	sessions := newTestSessions(t)
	ctx := context.Background()

	user := newTestOwner(futureExpiry(24 * time.Hour))
	token, err := sessions.Establish(ctx, user)
	if err != nil {
		t.Fatalf("Establish: %v", err)
	}

	sessionID, resolved, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if sessionID == "" {
		t.Fatal("Resolve returned empty session id")
	}
	if resolved.ID != user.ID || resolved.Role != models.RoleOwner {
		t.Errorf("resolved user = %+v, want id %q role OWNER", resolved, user.ID)
	}
}

func TestSessionResolveRejectsBadTokens(t *testing.T) {
	sessions := newTestSessions(t)
	ctx := context.Background()

	if _, _, err := sessions.Resolve(ctx, "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Resolve(garbage) err = %v, want ErrInvalidToken", err)
	}

	// A token signed under a different secret must not resolve.
	other := NewSessionService(NewMemorySessionStore(), &config.SecurityConfig{
		JWTSecret:  "another-secret",
		SessionTTL: time.Hour,
	}, newTestLogger(t))
	token, err := other.Establish(ctx, newTestOwner(futureExpiry(time.Hour)))
	if err != nil {
		t.Fatalf("Establish: %v", err)
	}
	if _, _, err := sessions.Resolve(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Resolve(foreign token) err = %v, want ErrInvalidToken", err)
	}
}

func TestSessionReadsNeverAliasStoredState(t *testing.T) {
	sessions := newTestSessions(t)
	ctx := context.Background()

	sessionID := establishSession(t, sessions, newTestOwner(futureExpiry(time.Hour)))

	first, err := sessions.Current(ctx, sessionID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}

	// Mutating a read copy must not leak into the stored record.
	first.Owner.IsAvailable = true
	first.Name = "changed"

	second, err := sessions.Current(ctx, sessionID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if second.Owner.IsAvailable || second.Name == "changed" {
		t.Error("stored session record was mutated through a read copy")
	}
}

func TestSessionApplyMutatesStoredState(t *testing.T) {
	sessions := newTestSessions(t)
	ctx := context.Background()

	sessionID := establishSession(t, sessions, newTestOwner(futureExpiry(time.Hour)))

	updated, err := sessions.Apply(ctx, sessionID, func(u *models.User) {
		u.Owner.IsAvailable = true
		u.Owner.Latitude = 13.0
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !updated.Owner.IsAvailable || updated.Owner.Latitude != 13.0 {
		t.Errorf("Apply returned %+v, want mutation applied", updated.Owner)
	}

	current, err := sessions.Current(ctx, sessionID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if !current.Owner.IsAvailable || current.Owner.Latitude != 13.0 {
		t.Error("Apply mutation did not persist")
	}
}

func TestSessionReplaceSwapsActor(t *testing.T) {
	sessions := newTestSessions(t)
	ctx := context.Background()

	sessionID := establishSession(t, sessions, newTestOwner("2000-01-01T00:00:00Z"))

	renewed := newTestOwner(futureExpiry(100 * 24 * time.Hour))
	if _, err := sessions.Replace(ctx, sessionID, renewed); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	current, err := sessions.Current(ctx, sessionID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if current.ExpiresAt != renewed.ExpiresAt {
		t.Errorf("ExpiresAt = %q, want %q", current.ExpiresAt, renewed.ExpiresAt)
	}

	if _, err := sessions.Replace(ctx, "no-such-session", renewed); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Replace(unknown) err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionClear(t *testing.T) {
	sessions := newTestSessions(t)
	ctx := context.Background()

	sessionID := establishSession(t, sessions, newTestOwner(futureExpiry(time.Hour)))
	if err := sessions.Clear(ctx, sessionID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := sessions.Current(ctx, sessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Current after Clear err = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStoreUnknownSession(t *testing.T) {
	store := NewMemorySessionStore()
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrSessionNotFound", err)
	}
}
