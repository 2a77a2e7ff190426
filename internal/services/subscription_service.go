package services

import (
	"math"
	"time"

	"simbengride/internal/models"
)

const millisPerDay = 86_400_000

// SubscriptionStatus is derived, never stored; it is recomputed from the
// expiry timestamp on every read.
type SubscriptionStatus struct {
	DaysLeft int  `json:"days_left"` // floored at zero for display
	Expired  bool `json:"expired"`
}

// ComputeSubscriptionStatus evaluates an ISO-8601 expiry against now. An
// unparsable or empty timestamp counts as already expired, never as "no
// expiry".
func ComputeSubscriptionStatus(expiresAt string, now time.Time) SubscriptionStatus {
	expiry, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return SubscriptionStatus{DaysLeft: 0, Expired: true}
	}

	days := int(math.Ceil(float64(expiry.Sub(now).Milliseconds()) / float64(millisPerDay)))
	status := SubscriptionStatus{DaysLeft: days, Expired: days <= 0}
	if status.DaysLeft < 0 {
		status.DaysLeft = 0
	}
	return status
}

type SubscriptionService struct {
	now func() time.Time
}

func NewSubscriptionService() *SubscriptionService {
	return &SubscriptionService{now: time.Now}
}

func (s *SubscriptionService) Status(user *models.User) SubscriptionStatus {
	return ComputeSubscriptionStatus(user.ExpiresAt, s.now())
}

func (s *SubscriptionService) Expired(user *models.User) bool {
	return s.Status(user).Expired
}
