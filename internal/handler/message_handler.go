package handler

import (
	"net/http"

	"grapebd/g2g/internal/service"
	"grapebd/g2g/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	svc *service.MessageService
}

func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type SendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
	Content    string    `json:"content" binding:"required"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.svc.SendMessage(c.Request.Context(), session.From(c).ProfileID(), req.ReceiverID, req.Content)
	if err != nil {
		writeError(c, err, "send message")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": m})
}

// Thread returns the conversation with :id and marks its messages to me as read.
func (h *MessageHandler) Thread(c *gin.Context) {
	other, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.FetchThread(c.Request.Context(), session.From(c).ProfileID(), other)
	if err != nil {
		writeError(c, err, "fetch thread")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}

func (h *MessageHandler) Clear(c *gin.Context) {
	other, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.ClearThread(c.Request.Context(), session.From(c).ProfileID(), other)
	if err != nil {
		writeError(c, err, "clear thread")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (h *MessageHandler) Unread(c *gin.Context) {
	ctx := c.Request.Context()
	me := session.From(c).ProfileID()
	counts, err := h.svc.UnreadCounts(ctx, me)
	if err != nil {
		writeError(c, err, "unread counts")
		return
	}
	var total int64
	byPartner := make(map[string]int64, len(counts))
	for id, n := range counts {
		byPartner[id.String()] = n
		total += n
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "by_partner": byPartner})
}

func (h *MessageHandler) Conversations(c *gin.Context) {
	list, err := h.svc.Conversations(c.Request.Context(), session.From(c).ProfileID())
	if err != nil {
		writeError(c, err, "list conversations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": list})
}

// UnreadTotal backs the navigation badge.
func (h *MessageHandler) UnreadTotal(c *gin.Context) {
	n, err := h.svc.UnreadTotal(c.Request.Context(), session.From(c).ProfileID())
	if err != nil {
		writeError(c, err, "unread total")
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": n})
}
