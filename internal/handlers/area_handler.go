package handlers

import (
	"simbengride/internal/gateway"
	"simbengride/internal/utils"
	"simbengride/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AreaHandler exposes base-area management. Reads are open (registration
// needs the list before any session exists); mutations are admin-only via
// route guards.
type AreaHandler struct {
	gateway *gateway.Client
	logger  *logger.Logger
}

func NewAreaHandler(gw *gateway.Client, log *logger.Logger) *AreaHandler {
	return &AreaHandler{gateway: gw, logger: log}
}

type areaRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *AreaHandler) ListAreas(c *gin.Context) {
	areas, err := h.gateway.BaseAreas(c.Request.Context())
	if err != nil {
		utils.BadGatewayResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, "", gin.H{"areas": areas})
}

func (h *AreaHandler) AddArea(c *gin.Context) {
	var req areaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrValidationFailed)
		return
	}

	area, err := h.gateway.AddBaseArea(c.Request.Context(), req.Name)
	if err != nil {
		utils.BadGatewayResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, "Area added", gin.H{"area": area})
}

func (h *AreaHandler) UpdateArea(c *gin.Context) {
	var req areaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrValidationFailed)
		return
	}

	area, err := h.gateway.UpdateBaseArea(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		utils.BadGatewayResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, "Area updated", gin.H{"area": area})
}

func (h *AreaHandler) DeleteArea(c *gin.Context) {
	if err := h.gateway.DeleteBaseArea(c.Request.Context(), c.Param("id")); err != nil {
		utils.BadGatewayResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, "Area deleted", nil)
}
