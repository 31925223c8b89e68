// internal/handlers/notification.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/medlocator/internal/services"
	"github.com/javajoker/medlocator/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GET /notifications?unread=true
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))

	result, err := h.notificationService.List(c.Request.Context(), profile.ID, utils.GetPaginationParams(c), unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.PaginatedResponse(c, *result)
}

// PUT /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), profile.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, notification)
}
