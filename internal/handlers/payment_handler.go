package handlers

import (
	"errors"

	"simbengride/internal/config"
	"simbengride/internal/middleware"
	"simbengride/internal/services"
	"simbengride/internal/utils"
	"simbengride/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PaymentHandler drives the renewal handshake. Every transition is an
// explicit user action; the handler never retries on its own.
type PaymentHandler struct {
	payments *services.PaymentService
	plan     *config.SubscriptionConfig
	logger   *logger.Logger
}

func NewPaymentHandler(payments *services.PaymentService, plan *config.SubscriptionConfig, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		plan:     plan,
		logger:   log,
	}
}

func (h *PaymentHandler) planPayload() gin.H {
	return gin.H{
		"cost":     h.plan.Cost,
		"days":     h.plan.Days,
		"currency": utils.CurrencySymbol,
	}
}

// OpenFlow resets the flow to idle; opening the renewal surface never leaks
// state from an earlier attempt.
func (h *PaymentHandler) OpenFlow(c *gin.Context) {
	user := middleware.CurrentUser(c)
	flow := h.payments.Open(user.ID, middleware.SessionID(c))

	utils.SuccessResponse(c, "", gin.H{
		"flow": flow,
		"plan": h.planPayload(),
	})
}

func (h *PaymentHandler) GetFlow(c *gin.Context) {
	user := middleware.CurrentUser(c)
	utils.SuccessResponse(c, "", gin.H{
		"flow": h.payments.Flow(user.ID),
		"plan": h.planPayload(),
	})
}

// Initiate creates the order; the returned flow carries the payment link the
// browser opens in a separate context.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	user := middleware.CurrentUser(c)

	flow, err := h.payments.Initiate(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPaymentTransition) {
			utils.ConflictResponse(c, "payment flow is not open for a new order")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "", gin.H{"flow": flow})
}

// Verify runs after the user reports completing payment on the external
// page. A failure leaves the flow in error with retry-verify still possible.
func (h *PaymentHandler) Verify(c *gin.Context) {
	user := middleware.CurrentUser(c)

	flow, err := h.payments.Confirm(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPaymentTransition) {
			utils.ConflictResponse(c, "nothing awaiting verification")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "", gin.H{"flow": flow})
}

func (h *PaymentHandler) RetryVerify(c *gin.Context) {
	user := middleware.CurrentUser(c)

	flow, err := h.payments.RetryVerify(user.ID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPaymentTransition) {
			utils.ConflictResponse(c, "flow is not in a retryable state")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "", gin.H{"flow": flow})
}

func (h *PaymentHandler) CloseFlow(c *gin.Context) {
	user := middleware.CurrentUser(c)
	h.payments.Close(user.ID)
	utils.SuccessResponse(c, "", nil)
}
