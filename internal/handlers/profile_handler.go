package handlers

import (
	"fmt"

	"simbengride/internal/gateway"
	"simbengride/internal/middleware"
	"simbengride/internal/models"
	"simbengride/internal/services"
	"simbengride/internal/utils"
	"simbengride/pkg/logger"

	"github.com/gin-gonic/gin"
)

const themeCookieName = "theme"

type ProfileHandler struct {
	gateway       *gateway.Client
	sessions      services.SessionService
	subscriptions *services.SubscriptionService
	logger        *logger.Logger
}

func NewProfileHandler(gw *gateway.Client, sessions services.SessionService, subs *services.SubscriptionService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		gateway:       gw,
		sessions:      sessions,
		subscriptions: subs,
		logger:        log,
	}
}

type updateProfileRequest struct {
	Name          *string             `json:"name"`
	Phone         *string             `json:"phone"`
	VehicleType   *models.VehicleType `json:"vehicle_type"`
	BaseAreaID    *string             `json:"base_area_id"`
	VehicleNumber *string             `json:"vehicle_number"`
	NewPassword   *string             `json:"new_password"`
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	utils.SuccessResponse(c, "", gin.H{
		"user":         user,
		"subscription": h.subscriptions.Status(user),
	})
}

// UpdateProfile submits profile fields first, then an optional password
// change; a password failure after a successful profile save is reported but
// does not undo the save.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrValidationFailed)
		return
	}

	if req.VehicleType != nil && !req.VehicleType.Valid() {
		utils.BadRequestResponse(c, "unknown vehicle type")
		return
	}

	user := middleware.CurrentUser(c)
	sessionID := middleware.SessionID(c)

	updated, err := h.gateway.UpdateProfile(c.Request.Context(), user.ID, &gateway.ProfileUpdate{
		Name:          req.Name,
		Phone:         req.Phone,
		VehicleType:   req.VehicleType,
		BaseAreaID:    req.BaseAreaID,
		VehicleNumber: req.VehicleNumber,
	})
	if err != nil {
		utils.BadGatewayResponse(c, err.Error())
		return
	}

	if _, err := h.sessions.Replace(c.Request.Context(), sessionID, updated); err != nil {
		h.logger.WithError(err).WithUserID(user.ID).Error("Failed to store updated profile in session")
		utils.InternalServerErrorResponse(c)
		return
	}

	message := "Profile updated successfully!"
	if req.NewPassword != nil && *req.NewPassword != "" {
		if err := h.gateway.ChangePassword(c.Request.Context(), user.ID, *req.NewPassword); err != nil {
			message = fmt.Sprintf("Profile updated, but password change failed: %s", err.Error())
		} else {
			message = "Profile and password updated successfully!"
		}
	}

	utils.SuccessResponse(c, message, gin.H{
		"user":         updated,
		"subscription": h.subscriptions.Status(updated),
	})
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrValidationFailed)
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.gateway.ChangePassword(c.Request.Context(), user.ID, req.NewPassword); err != nil {
		utils.BadGatewayResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, "Password changed", nil)
}

// GetTheme and SetTheme manage the single persisted client-local key.
func (h *ProfileHandler) GetTheme(c *gin.Context) {
	theme, err := c.Cookie(themeCookieName)
	if err != nil || theme == "" {
		theme = "light"
	}
	utils.SuccessResponse(c, "", gin.H{"theme": theme})
}

func (h *ProfileHandler) SetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrValidationFailed)
		return
	}

	c.SetCookie(themeCookieName, req.Theme, 365*24*3600, "/", "", false, false)
	utils.SuccessResponse(c, "", gin.H{"theme": req.Theme})
}
