package handler

import (
	"net/http"

	"grapebd/g2g/internal/service"
	"grapebd/g2g/internal/session"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc       *service.ProfileService
	maxUpload int64
}

func NewProfileHandler(svc *service.ProfileService, maxUpload int64) *ProfileHandler {
	return &ProfileHandler{svc: svc, maxUpload: maxUpload}
}

type UpdateProfileRequest struct {
	FullName       *string `json:"full_name" binding:"omitempty,max=120"`
	Phone          *string `json:"phone" binding:"omitempty,max=32"`
	CourierAddress *string `json:"courier_address" binding:"omitempty,max=500"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended pending"`
}

type RoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member"`
}

func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "get profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := session.From(c)
	p, err := h.svc.UpdateProfile(c.Request.Context(), s.Actor(), s.ProfileID(), service.UpdateProfileInput{
		FullName:       req.FullName,
		Phone:          req.Phone,
		CourierAddress: req.CourierAddress,
	})
	if err != nil {
		writeError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	f, ok := formImage(c, "file", h.maxUpload)
	if !ok {
		return
	}
	defer f.Close()
	p, err := h.svc.UploadAvatar(c.Request.Context(), session.From(c).ProfileID(), f)
	if err != nil {
		writeError(c, err, "avatar upload")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// List is admin only: ?search=&status=&page=&limit=
func (h *ProfileHandler) List(c *gin.Context) {
	list, total, err := h.svc.ListProfiles(c.Request.Context(), c.Query("search"), c.Query("status"),
		queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		writeError(c, err, "list profiles")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": list, "total": total})
}

func (h *ProfileHandler) SetStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.SetStatus(c.Request.Context(), session.From(c).Actor(), id, req.Status)
	if err != nil {
		writeError(c, err, "set status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

func (h *ProfileHandler) SetRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.SetRole(c.Request.Context(), session.From(c).Actor(), id, req.Role)
	if err != nil {
		writeError(c, err, "set role")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProfile(c.Request.Context(), session.From(c).Actor(), id); err != nil {
		writeError(c, err, "delete profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
