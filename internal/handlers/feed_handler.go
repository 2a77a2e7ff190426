package handlers

import (
	"context"
	"net/http"

	"simbengride/internal/services"
	"simbengride/internal/utils"
	"simbengride/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type FeedHandler struct {
	feed   *services.FeedService
	logger *logger.Logger
}

func NewFeedHandler(feed *services.FeedService, log *logger.Logger) *FeedHandler {
	return &FeedHandler{feed: feed, logger: log}
}

// ListVehicles is the list view's manual refresh: one fetch, no polling.
func (h *FeedHandler) ListVehicles(c *gin.Context) {
	listings, err := h.feed.Fetch(c.Request.Context())
	if err != nil {
		utils.BadGatewayResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, "", gin.H{"vehicles": listings})
}

// LiveVehicles streams feed updates over a websocket while the map view is
// open. Closing the socket cancels the stream context, which stops the
// ticker immediately; no poll outlives the view.
func (h *FeedHandler) LiveVehicles(c *gin.Context) {
	conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Feed websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Read pump: the client sends nothing meaningful; a read error means the
	// socket closed and the stream must be torn down.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for update := range h.feed.Stream(ctx) {
		if err := conn.WriteJSON(update); err != nil {
			cancel()
			break
		}
	}
}
