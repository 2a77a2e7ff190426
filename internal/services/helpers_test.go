package services

import (
	"context"
	"io"
	"testing"
	"time"

	"simbengride/internal/config"
	"simbengride/internal/models"
	"simbengride/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.ErrorLevel,
		Format: "text",
		Output: "stderr",
	})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.SetOutput(io.Discard)
	return log
}

func newTestSessions(t *testing.T) SessionService {
	t.Helper()

	return NewSessionService(NewMemorySessionStore(), &config.SecurityConfig{
		JWTSecret:  "test-secret",
		SessionTTL: time.Hour,
	}, newTestLogger(t))
}

// establishSession stores the user and returns the opaque session id.
func establishSession(t *testing.T, sessions SessionService, user *models.User) string {
	t.Helper()

	token, err := sessions.Establish(context.Background(), user)
	if err != nil {
		t.Fatalf("Establish: %v", err)
	}
	sessionID, _, err := sessions.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return sessionID
}

func newTestOwner(expiresAt string) *models.User {
	return &models.User{
		ID:        "owner-1",
		Role:      models.RoleOwner,
		Name:      "Ravi",
		Email:     "ravi@example.com",
		Phone:     "9876543210",
		ExpiresAt: expiresAt,
		Owner: &models.OwnerProfile{
			VehicleType:   models.VehicleTypeAuto,
			BaseAreaID:    "area-1",
			VehicleNumber: "KA01AB1234",
			IsAvailable:   false,
			Latitude:      12.95,
			Longitude:     77.60,
		},
	}
}

func futureExpiry(d time.Duration) string {
	return time.Now().Add(d).UTC().Format(time.RFC3339)
}
