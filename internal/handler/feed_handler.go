package handler

import (
	"io"
	"net/http"

	"grapebd/g2g/internal/service"
	"grapebd/g2g/internal/session"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	svc       *service.FeedService
	maxUpload int64
}

func NewFeedHandler(svc *service.FeedService, maxUpload int64) *FeedHandler {
	return &FeedHandler{svc: svc, maxUpload: maxUpload}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type ReactRequest struct {
	ReactionType string `json:"reaction_type" binding:"required"`
}

func (h *FeedHandler) List(c *gin.Context) {
	list, err := h.svc.ListFeed(c.Request.Context(), session.From(c).ProfileID(),
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		writeError(c, err, "list feed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": list})
}

// CreatePost takes multipart form fields "content" and an optional "image".
func (h *FeedHandler) CreatePost(c *gin.Context) {
	var image io.Reader
	if _, err := c.FormFile("image"); err == nil {
		f, ok := formImage(c, "image", h.maxUpload)
		if !ok {
			return
		}
		defer f.Close()
		image = f
	}
	p, err := h.svc.CreatePost(c.Request.Context(), session.From(c).ProfileID(), c.PostForm("content"), image)
	if err != nil {
		writeError(c, err, "create post")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": p})
}

func (h *FeedHandler) DeletePost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), session.From(c).Actor(), id); err != nil {
		writeError(c, err, "delete post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *FeedHandler) AddComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cm, err := h.svc.AddComment(c.Request.Context(), session.From(c).ProfileID(), id, req.Content)
	if err != nil {
		writeError(c, err, "add comment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": cm})
}

func (h *FeedHandler) DeleteComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteComment(c.Request.Context(), session.From(c).Actor(), id); err != nil {
		writeError(c, err, "delete comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// React answers with the outcome so the client can settle its optimistic update.
func (h *FeedHandler) React(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.svc.React(c.Request.Context(), session.From(c).ProfileID(), id, req.ReactionType)
	if err != nil {
		writeError(c, err, "react")
		return
	}
	c.JSON(http.StatusOK, out)
}
