package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"simbengride/internal/config"
	"simbengride/internal/models"
	"simbengride/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidToken    = errors.New("invalid token")
)

// SessionStore persists session records keyed by opaque session id.
type SessionStore interface {
	Put(ctx context.Context, id string, user *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// SessionService owns the in-memory actor record for each authenticated
// session. It is the only writer: every component that wants to change the
// current actor goes through Apply or Replace, never through a shared
// pointer.
type SessionService interface {
	Establish(ctx context.Context, user *models.User) (string, error)
	Resolve(ctx context.Context, token string) (string, *models.User, error)
	Current(ctx context.Context, sessionID string) (*models.User, error)
	Apply(ctx context.Context, sessionID string, mut func(*models.User)) (*models.User, error)
	Replace(ctx context.Context, sessionID string, user *models.User) (*models.User, error)
	Clear(ctx context.Context, sessionID string) error
}

type sessionClaims struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type sessionService struct {
	store  SessionStore
	secret []byte
	ttl    time.Duration
	mu     sync.Mutex // serializes mutations; reads go straight to the store
	logger *logger.Logger
}

func NewSessionService(store SessionStore, sec *config.SecurityConfig, log *logger.Logger) SessionService {
	return &sessionService{
		store:  store,
		secret: []byte(sec.JWTSecret),
		ttl:    sec.SessionTTL,
		logger: log,
	}
}

func (s *sessionService) Establish(ctx context.Context, user *models.User) (string, error) {
	sessionID := uuid.NewString()
	if err := s.store.Put(ctx, sessionID, user.Clone()); err != nil {
		return "", err
	}

	now := time.Now()
	claims := &sessionClaims{
		SessionID: sessionID,
		UserID:    user.ID,
		Role:      string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.store.Delete(ctx, sessionID)
		return "", err
	}

	s.logger.LogUserAction(user.ID, "session_established", map[string]interface{}{"role": user.Role})
	return token, nil
}

func (s *sessionService) Resolve(ctx context.Context, token string) (string, *models.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok {
		return "", nil, ErrInvalidToken
	}

	user, err := s.store.Get(ctx, claims.SessionID)
	if err != nil {
		return "", nil, err
	}
	return claims.SessionID, user, nil
}

func (s *sessionService) Current(ctx context.Context, sessionID string) (*models.User, error) {
	return s.store.Get(ctx, sessionID)
}

func (s *sessionService) Apply(ctx context.Context, sessionID string, mut func(*models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	mut(user)
	if err := s.store.Put(ctx, sessionID, user); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

func (s *sessionService) Replace(ctx context.Context, sessionID string, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, sessionID, user.Clone()); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

func (s *sessionService) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// memorySessionStore is the default store. Session copies are process-local
// and discarded on restart; token expiry is enforced by the JWT layer.
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.User
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]*models.User),
	}
}

func (m *memorySessionStore) Put(ctx context.Context, id string, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = user.Clone()
	return nil
}

func (m *memorySessionStore) Get(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return user.Clone(), nil
}

func (m *memorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
