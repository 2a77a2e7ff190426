package handlers

import (
	"net/http"

	"simbengride/internal/gateway"
	"simbengride/internal/middleware"
	"simbengride/internal/models"
	"simbengride/internal/services"
	"simbengride/internal/utils"
	"simbengride/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	gateway       *gateway.Client
	sessions      services.SessionService
	subscriptions *services.SubscriptionService
	logger        *logger.Logger
}

func NewAuthHandler(gw *gateway.Client, sessions services.SessionService, subs *services.SubscriptionService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		gateway:       gw,
		sessions:      sessions,
		subscriptions: subs,
		logger:        log,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerRiderRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type registerOwnerRequest struct {
	Name          string             `json:"name" binding:"required"`
	Email         string             `json:"email" binding:"required,email"`
	Phone         string             `json:"phone" binding:"required"`
	Password      string             `json:"password" binding:"required,min=6"`
	VehicleType   models.VehicleType `json:"vehicle_type" binding:"required"`
	BaseAreaID    string             `json:"base_area_id" binding:"required"`
	VehicleNumber string             `json:"vehicle_number"`
}

type resetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type authPayload struct {
	Token        string                      `json:"token"`
	User         *models.User                `json:"user"`
	Subscription services.SubscriptionStatus `json:"subscription"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrValidationFailed)
		return
	}

	user, err := h.gateway.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "LOGIN_FAILED", err.Error())
		return
	}

	h.respondWithSession(c, user, false)
}

func (h *AuthHandler) RegisterRider(c *gin.Context) {
	var req registerRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrValidationFailed)
		return
	}

	user, err := h.gateway.RegisterRider(c.Request.Context(), &gateway.RiderRegistration{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "REGISTRATION_FAILED", err.Error())
		return
	}

	h.respondWithSession(c, user, true)
}

func (h *AuthHandler) RegisterOwner(c *gin.Context) {
	var req registerOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrValidationFailed)
		return
	}

	if !req.VehicleType.Valid() {
		utils.BadRequestResponse(c, "unknown vehicle type")
		return
	}

	user, err := h.gateway.RegisterOwner(c.Request.Context(), &gateway.OwnerRegistration{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Password:      req.Password,
		VehicleType:   req.VehicleType,
		BaseAreaID:    req.BaseAreaID,
		VehicleNumber: req.VehicleNumber,
	})
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "REGISTRATION_FAILED", err.Error())
		return
	}

	h.respondWithSession(c, user, true)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrValidationFailed)
		return
	}

	if err := h.gateway.ResetPassword(c.Request.Context(), req.Email); err != nil {
		utils.BadGatewayResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, "Password reset link has been sent to your email.", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if err := h.sessions.Clear(c.Request.Context(), sessionID); err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Logged out", nil)
}

func (h *AuthHandler) respondWithSession(c *gin.Context, user *models.User, created bool) {
	token, err := h.sessions.Establish(c.Request.Context(), user)
	if err != nil {
		h.logger.WithError(err).Error("Failed to establish session")
		utils.InternalServerErrorResponse(c)
		return
	}

	payload := authPayload{
		Token:        token,
		User:         user,
		Subscription: h.subscriptions.Status(user),
	}

	if created {
		utils.CreatedResponse(c, "Account created", payload)
		return
	}
	utils.SuccessResponse(c, "Login successful", payload)
}
