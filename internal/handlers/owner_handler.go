package handlers

import (
	"errors"
	"net/http"
	"time"

	"simbengride/internal/middleware"
	"simbengride/internal/services"
	"simbengride/internal/utils"
	"simbengride/pkg/logger"

	"github.com/gin-gonic/gin"
)

type OwnerHandler struct {
	presence      *services.PresenceService
	payments      *services.PaymentService
	subscriptions *services.SubscriptionService
	logger        *logger.Logger
}

func NewOwnerHandler(presence *services.PresenceService, payments *services.PaymentService, subs *services.SubscriptionService, log *logger.Logger) *OwnerHandler {
	return &OwnerHandler{
		presence:      presence,
		payments:      payments,
		subscriptions: subs,
		logger:        log,
	}
}

type toggleRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// ToggleAvailability flips the owner's online state. When the browser
// supplies a fresh fix it is used directly; otherwise the presence service
// falls through last-known and default coordinates. An expired subscription
// short-circuits into the payment flow without touching the remote backend.
func (h *OwnerHandler) ToggleAvailability(c *gin.Context) {
	var req toggleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, utils.ErrValidationFailed)
			return
		}
	}

	var locator services.LocationProvider
	if req.Lat != nil && req.Lng != nil {
		locator = services.StaticLocation{Lat: *req.Lat, Lng: *req.Lng}
	}

	user := middleware.CurrentUser(c)
	sessionID := middleware.SessionID(c)

	updated, err := h.presence.Toggle(c.Request.Context(), sessionID, locator)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSubscriptionExpired):
			flow := h.payments.Open(user.ID, sessionID)
			c.JSON(http.StatusConflict, utils.APIResponse{
				Status: utils.StatusError,
				Error: &utils.APIError{
					Code:    "SUBSCRIPTION_EXPIRED",
					Message: utils.ErrSubscriptionExpired,
				},
				Data:      gin.H{"payment_flow": flow},
				Timestamp: time.Now(),
			})
		case errors.Is(err, services.ErrToggleInFlight):
			utils.ConflictResponse(c, err.Error())
		case errors.Is(err, services.ErrNotOwner):
			utils.ForbiddenResponse(c)
		case errors.Is(err, services.ErrToggleFailed):
			utils.BadGatewayResponse(c, err.Error())
		default:
			h.logger.WithError(err).WithUserID(user.ID).Error("Availability toggle failed")
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	utils.SuccessResponse(c, "", gin.H{
		"user":         updated,
		"subscription": h.subscriptions.Status(updated),
	})
}
