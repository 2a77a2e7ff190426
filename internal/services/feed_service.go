package services

import (
	"context"
	"time"

	"simbengride/internal/config"
	"simbengride/internal/models"
	"simbengride/internal/utils"
	"simbengride/pkg/logger"
)

// VehicleGateway is the slice of the remote gateway the feed needs.
type VehicleGateway interface {
	NearbyVehicles(ctx context.Context, lat, lng float64) ([]*models.User, error)
}

// VehicleListing decorates an owner record with the display distance from
// the rider's assumed location. Distance never filters results; the remote
// side already pre-filters by proximity.
type VehicleListing struct {
	*models.User
	DistanceKM float64 `json:"distance_km"`
}

// FeedUpdate is one emission of the live stream. Initial marks the first
// emission of a stream so consumers can show a loading indicator exactly
// once and suppress it on background refreshes.
type FeedUpdate struct {
	Vehicles []VehicleListing `json:"vehicles"`
	Initial  bool             `json:"initial"`
	Message  string           `json:"message,omitempty"`
}

type FeedService struct {
	gateway      VehicleGateway
	refLat       float64
	refLng       float64
	pollInterval time.Duration
	logger       *logger.Logger
}

func NewFeedService(gw VehicleGateway, loc *config.LocationConfig, log *logger.Logger) *FeedService {
	interval := loc.FeedPollInterval
	if interval <= 0 {
		interval = utils.FeedPollInterval
	}

	return &FeedService{
		gateway:      gw,
		refLat:       loc.DefaultLatitude,
		refLng:       loc.DefaultLongitude,
		pollInterval: interval,
		logger:       log,
	}
}

// Fetch performs one nearby lookup, used by the list view's manual refresh.
func (s *FeedService) Fetch(ctx context.Context) ([]VehicleListing, error) {
	owners, err := s.gateway.NearbyVehicles(ctx, s.refLat, s.refLng)
	if err != nil {
		return nil, err
	}

	listings := make([]VehicleListing, 0, len(owners))
	for _, owner := range owners {
		listing := VehicleListing{User: owner}
		if owner.Owner != nil {
			d := utils.CalculateDistance(s.refLat, s.refLng, owner.Owner.Latitude, owner.Owner.Longitude)
			listing.DistanceKM = utils.RoundDistanceKM(d)
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// Stream fetches immediately and then on a fixed interval until ctx is
// cancelled. Cancellation stops the ticker and closes the channel; no tick
// survives the consumer leaving the map view. Overlap with a manual refresh
// is accepted: last-resolved response wins.
func (s *FeedService) Stream(ctx context.Context) <-chan FeedUpdate {
	updates := make(chan FeedUpdate, 1)

	go func() {
		defer close(updates)

		emit := func(initial bool) {
			listings, err := s.Fetch(ctx)
			update := FeedUpdate{Vehicles: listings, Initial: initial}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				update.Message = err.Error()
				s.logger.WithError(err).Warn("Nearby vehicle poll failed")
			}

			select {
			case updates <- update:
			case <-ctx.Done():
			}
		}

		emit(true)

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				emit(false)
			}
		}
	}()

	return updates
}
