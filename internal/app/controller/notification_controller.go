package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bigbestmart/bnbmart-backend/internal/app/service"
	apperrors "github.com/bigbestmart/bnbmart-backend/internal/errors"
	"github.com/bigbestmart/bnbmart-backend/internal/middleware"
	"github.com/bigbestmart/bnbmart-backend/internal/websocket"
)

type NotificationController struct {
	notificationService service.NotificationService
	hub                 *websocket.Hub
}

func NewNotificationController(notificationService service.NotificationService, hub *websocket.Hub) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		hub:                 hub,
	}
}

// GetNotifications returns the client's recent cart notifications,
// newest first. Notifications missed while offline show up here.
// GET /api/v1/notifications
func (ctrl *NotificationController) GetNotifications(c *gin.Context) {
	clientID := middleware.GetClientID(c)

	notifications := ctrl.notificationService.Recent(clientID)

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// StreamNotifications upgrades the connection to a websocket and streams
// cart notifications to the client as they happen.
// GET /ws/notifications
func (ctrl *NotificationController) StreamNotifications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	clientID := c.Query("client_id")
	if clientID == "" {
		clientID = middleware.GetClientID(c)
	}
	if clientID == "" {
		log.Warn("WebSocket connection without client ID", nil)
		apperrors.BadRequest(c, apperrors.ClientIDMissing, "Client ID is required")
		return
	}

	if _, err := websocket.Upgrade(c.Writer, c.Request, ctrl.hub, clientID); err != nil {
		// Upgrade already wrote the handshake error to the response.
		return
	}

	log.Info("Notification stream opened", map[string]interface{}{
		"client_id": clientID,
	})
}
