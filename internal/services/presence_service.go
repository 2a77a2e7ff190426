package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"simbengride/internal/config"
	"simbengride/internal/models"
	"simbengride/internal/utils"
	"simbengride/pkg/logger"
)

var (
	ErrNotOwner            = errors.New("availability applies to vehicle owners only")
	ErrSubscriptionExpired = errors.New("subscription expired")
	ErrToggleInFlight      = errors.New("availability change already in progress")
	ErrToggleFailed        = errors.New(utils.ErrToggleFailed)
)

// AvailabilityGateway is the slice of the remote gateway the toggle needs.
type AvailabilityGateway interface {
	ToggleAvailability(ctx context.Context, userID string, isAvailable bool, lat, lng float64) error
}

// LocationProvider yields a current device fix. Implementations must respect
// context cancellation; the service bounds the wait.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (lat, lng float64, err error)
}

// StaticLocation is a provider for a fix the browser already acquired.
type StaticLocation struct {
	Lat float64
	Lng float64
}

func (p StaticLocation) CurrentLocation(ctx context.Context) (float64, float64, error) {
	return p.Lat, p.Lng, nil
}

// PresenceService flips an owner's availability. An expired subscription is
// rejected before any network call; the caller routes that into the payment
// flow instead. The flip is optimistic: session state changes first and is
// rolled back to the exact prior value if the remote call fails. One toggle
// per actor may be in flight at a time.
type PresenceService struct {
	gateway       AvailabilityGateway
	sessions      SessionService
	subscriptions *SubscriptionService
	logger        *logger.Logger

	locationTimeout time.Duration
	defaultLat      float64
	defaultLng      float64

	mu       sync.Mutex
	inflight map[string]bool
}

func NewPresenceService(gw AvailabilityGateway, sessions SessionService, subs *SubscriptionService, loc *config.LocationConfig, log *logger.Logger) *PresenceService {
	return &PresenceService{
		gateway:         gw,
		sessions:        sessions,
		subscriptions:   subs,
		logger:          log,
		locationTimeout: loc.GeolocationTimeout,
		defaultLat:      loc.DefaultLatitude,
		defaultLng:      loc.DefaultLongitude,
		inflight:        make(map[string]bool),
	}
}

// Toggle flips the session actor's availability. locator may be nil when no
// fix source exists; the fallback chain is live fix -> last-known -> default.
func (s *PresenceService) Toggle(ctx context.Context, sessionID string, locator LocationProvider) (*models.User, error) {
	user, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !user.IsOwner() {
		return nil, ErrNotOwner
	}

	if s.subscriptions.Expired(user) {
		return nil, ErrSubscriptionExpired
	}

	s.mu.Lock()
	if s.inflight[user.ID] {
		s.mu.Unlock()
		return nil, ErrToggleInFlight
	}
	s.inflight[user.ID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, user.ID)
		s.mu.Unlock()
	}()

	lat, lng := s.resolveCoordinates(ctx, locator, user.Owner)

	prev := user.Owner.IsAvailable
	next := !prev

	// Optimistic flip before the round trip.
	if _, err := s.sessions.Apply(ctx, sessionID, func(u *models.User) {
		if u.Owner != nil {
			u.Owner.IsAvailable = next
		}
	}); err != nil {
		return nil, err
	}

	if err := s.gateway.ToggleAvailability(ctx, user.ID, next, lat, lng); err != nil {
		// Roll back to the prior value.
		if _, rbErr := s.sessions.Apply(ctx, sessionID, func(u *models.User) {
			if u.Owner != nil {
				u.Owner.IsAvailable = prev
			}
		}); rbErr != nil {
			s.logger.WithError(rbErr).WithUserID(user.ID).Error("Failed to roll back availability flip")
		}
		s.logger.WithError(err).WithUserID(user.ID).Warn("Availability toggle rejected by remote")
		return nil, ErrToggleFailed
	}

	updated, err := s.sessions.Apply(ctx, sessionID, func(u *models.User) {
		if u.Owner != nil {
			u.Owner.Latitude = lat
			u.Owner.Longitude = lng
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogPresenceEvent(user.ID, next, lat, lng)
	return updated, nil
}

// resolveCoordinates attempts a bounded live fix and falls back to the
// owner's last-known pair, then to the configured default point. The wait is
// synchronous within the toggle, so a late fix can never bleed into a later
// state change.
func (s *PresenceService) resolveCoordinates(ctx context.Context, locator LocationProvider, owner *models.OwnerProfile) (float64, float64) {
	if locator != nil {
		fixCtx, cancel := context.WithTimeout(ctx, s.locationTimeout)
		defer cancel()

		if lat, lng, err := locator.CurrentLocation(fixCtx); err == nil {
			return lat, lng
		} else {
			s.logger.WithError(err).Debug("Geolocation unavailable, using last known location")
		}
	}

	if owner.Latitude != 0 || owner.Longitude != 0 {
		return owner.Latitude, owner.Longitude
	}
	return s.defaultLat, s.defaultLng
}
