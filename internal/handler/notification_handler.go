package handler

import (
	"net/http"

	"grapebd/g2g/internal/service"
	"grapebd/g2g/internal/session"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := session.From(c).ProfileID()
	list, err := h.svc.List(c.Request.Context(), userID, queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		writeError(c, err, "list")
		return
	}
	unread, err := h.svc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list, "unread": unread})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), id, session.From(c).ProfileID()); err != nil {
		writeError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.svc.MarkAllRead(c.Request.Context(), session.From(c).ProfileID()); err != nil {
		writeError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
