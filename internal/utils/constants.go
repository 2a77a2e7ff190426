package utils

import "time"

// Application Constants
const (
	AppName    = "SimbengRide"
	AppVersion = "1.0.0"

	CurrencySymbol = "₹"

	// Subscription plan
	SubscriptionCost = 100
	SubscriptionDays = 100

	// Reference point used when no live coordinates are available and as the
	// rider's assumed location for distance display.
	DefaultLatitude  = 12.9716
	DefaultLongitude = 77.5946

	// Authentication
	SessionTokenTTL   = 24 * time.Hour
	PasswordMinLength = 6

	// Presence & feed timing
	GeolocationTimeout = 10 * time.Second
	FeedPollInterval   = 10 * time.Second
	PaymentApplyDelay  = 2 * time.Second

	// Gateway
	GatewayTimeout     = 30 * time.Second
	GatewayContentType = "text/plain;charset=utf-8"
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidCredentials  = "invalid credentials"
	ErrInvalidInput        = "invalid input"
	ErrInternalServer      = "internal server error"
	ErrUnauthorized        = "unauthorized"
	ErrForbidden           = "forbidden"
	ErrNotFound            = "not found"
	ErrValidationFailed    = "validation failed"
	ErrSubscriptionExpired = "subscription expired"
	ErrToggleFailed        = "Failed to update status. Please try again."
	ErrPaymentLinkMissing  = "Failed to generate payment link."
	ErrPaymentVerify       = "Could not verify payment. If amount was deducted, please contact support."
)

// Cache Keys
const (
	CacheSessionPrefix = "session:"
)

// Geographic Constants
const (
	EarthRadiusKM = 6371.0
)
