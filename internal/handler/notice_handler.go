package handler

import (
	"net/http"

	"grapebd/g2g/internal/service"
	"grapebd/g2g/internal/session"

	"github.com/gin-gonic/gin"
)

type NoticeHandler struct {
	svc *service.NoticeService
}

func NewNoticeHandler(svc *service.NoticeService) *NoticeHandler {
	return &NoticeHandler{svc: svc}
}

type NoticeRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body"`
}

func (h *NoticeHandler) List(c *gin.Context) {
	list, err := h.svc.ListNotices(c.Request.Context(), session.From(c).ProfileID())
	if err != nil {
		writeError(c, err, "list notices")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notices": list})
}

func (h *NoticeHandler) Create(c *gin.Context) {
	var req NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.svc.CreateNotice(c.Request.Context(), session.From(c).ProfileID(), req.Title, req.Body)
	if err != nil {
		writeError(c, err, "create notice")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"notice": n})
}

func (h *NoticeHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteNotice(c.Request.Context(), id); err != nil {
		writeError(c, err, "delete notice")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *NoticeHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), session.From(c).ProfileID(), id); err != nil {
		writeError(c, err, "mark notice read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
