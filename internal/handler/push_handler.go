package handler

import (
	"net/http"

	"grapebd/g2g/internal/service"
	"grapebd/g2g/internal/session"

	"github.com/gin-gonic/gin"
)

// PushHandler serves the browser permission state and device token registry.
type PushHandler struct {
	tokens     *service.TokenService
	dispatcher *service.PushDispatcher
}

func NewPushHandler(tokens *service.TokenService, dispatcher *service.PushDispatcher) *PushHandler {
	return &PushHandler{tokens: tokens, dispatcher: dispatcher}
}

type PermissionRequest struct {
	Permission string `json:"permission" binding:"required,oneof=granted denied"`
}

type TokenRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"device_info"`
}

type TestPushRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *PushHandler) GetPermission(c *gin.Context) {
	st, err := h.tokens.GetPushPermission(c.Request.Context(), session.From(c).ProfileID())
	if err != nil {
		writeError(c, err, "get permission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"permission": st.Permission, "should_prompt": st.ShouldPrompt, "push_enabled": h.dispatcher.Enabled()})
}

func (h *PushHandler) SetPermission(c *gin.Context) {
	var req PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.tokens.SetPushPermission(c.Request.Context(), session.From(c).ProfileID(), req.Permission)
	if err != nil {
		writeError(c, err, "set permission")
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *PushHandler) RegisterToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deviceInfo := req.DeviceInfo
	if deviceInfo == "" {
		deviceInfo = c.GetHeader("User-Agent")
	}
	t, err := h.tokens.RegisterToken(c.Request.Context(), session.From(c).ProfileID(), req.Token, deviceInfo)
	if err != nil {
		writeError(c, err, "register token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": t})
}

func (h *PushHandler) UnregisterToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.tokens.UnregisterToken(c.Request.Context(), session.From(c).ProfileID(), req.Token); err != nil {
		writeError(c, err, "unregister token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PushHandler) ListTokens(c *gin.Context) {
	list, err := h.tokens.ListTokens(c.Request.Context(), session.From(c).ProfileID())
	if err != nil {
		writeError(c, err, "list tokens")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": list})
}

// Test sends a push to the caller's own devices and reports each token's outcome.
func (h *PushHandler) Test(c *gin.Context) {
	var req TestPushRequest
	_ = c.ShouldBindJSON(&req)
	if req.Title == "" {
		req.Title = "Test notification"
	}
	if req.Body == "" {
		req.Body = "Push notifications are working"
	}
	if !h.dispatcher.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications are not configured"})
		return
	}
	results, err := h.dispatcher.SendToUser(c.Request.Context(), session.From(c).ProfileID(), service.PushMessage{
		Title: req.Title,
		Body:  req.Body,
		Data:  map[string]string{"type": "TEST"},
	})
	if err != nil {
		writeError(c, err, "test push")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
