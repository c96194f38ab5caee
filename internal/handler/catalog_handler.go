package handler

import (
	"net/http"

	"grapebd/g2g/internal/service"
	"grapebd/g2g/internal/session"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	svc       *service.CatalogService
	maxUpload int64
}

func NewCatalogHandler(svc *service.CatalogService, maxUpload int64) *CatalogHandler {
	return &CatalogHandler{svc: svc, maxUpload: maxUpload}
}

type VarietyRequest struct {
	Name        string `json:"name" binding:"max=120"`
	Description string `json:"description"`
	DetailsURL  string `json:"details_url" binding:"max=512"`
	IsActive    *bool  `json:"is_active"`
}

type RoundRequest struct {
	Title       string `json:"title" binding:"max=160"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type ActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func (r VarietyRequest) input() service.VarietyInput {
	return service.VarietyInput{Name: r.Name, Description: r.Description, DetailsURL: r.DetailsURL, IsActive: r.IsActive}
}

func (r RoundRequest) input() service.RoundInput {
	return service.RoundInput{Title: r.Title, Description: r.Description, IsActive: r.IsActive}
}

func (h *CatalogHandler) ListVarieties(c *gin.Context) {
	list, err := h.svc.ListVarieties(c.Request.Context(), session.From(c).Actor())
	if err != nil {
		writeError(c, err, "list varieties")
		return
	}
	c.JSON(http.StatusOK, gin.H{"varieties": list})
}

func (h *CatalogHandler) GetVariety(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	v, err := h.svc.GetVariety(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "get variety")
		return
	}
	c.JSON(http.StatusOK, gin.H{"variety": v})
}

func (h *CatalogHandler) CreateVariety(c *gin.Context) {
	var req VarietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.svc.CreateVariety(c.Request.Context(), session.From(c).Actor(), req.input())
	if err != nil {
		writeError(c, err, "create variety")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"variety": v})
}

func (h *CatalogHandler) UpdateVariety(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req VarietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.svc.UpdateVariety(c.Request.Context(), id, req.input())
	if err != nil {
		writeError(c, err, "update variety")
		return
	}
	c.JSON(http.StatusOK, gin.H{"variety": v})
}

func (h *CatalogHandler) SetVarietyActive(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.svc.SetVarietyActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		writeError(c, err, "update variety")
		return
	}
	c.JSON(http.StatusOK, gin.H{"variety": v})
}

func (h *CatalogHandler) UploadVarietyImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	f, ok := formImage(c, "file", h.maxUpload)
	if !ok {
		return
	}
	defer f.Close()
	v, err := h.svc.UploadVarietyImage(c.Request.Context(), id, f)
	if err != nil {
		writeError(c, err, "variety image upload")
		return
	}
	c.JSON(http.StatusOK, gin.H{"variety": v})
}

func (h *CatalogHandler) DeleteVariety(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteVariety(c.Request.Context(), id); err != nil {
		writeError(c, err, "delete variety")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *CatalogHandler) ListRounds(c *gin.Context) {
	list, err := h.svc.ListRounds(c.Request.Context(), session.From(c).Actor())
	if err != nil {
		writeError(c, err, "list rounds")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rounds": list})
}

func (h *CatalogHandler) CreateRound(c *gin.Context) {
	var req RoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := h.svc.CreateRound(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, err, "create round")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"round": g})
}

func (h *CatalogHandler) UpdateRound(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req RoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := h.svc.UpdateRound(c.Request.Context(), id, req.input())
	if err != nil {
		writeError(c, err, "update round")
		return
	}
	c.JSON(http.StatusOK, gin.H{"round": g})
}

func (h *CatalogHandler) SetRoundActive(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := h.svc.SetRoundActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		writeError(c, err, "update round")
		return
	}
	c.JSON(http.StatusOK, gin.H{"round": g})
}

func (h *CatalogHandler) DeleteRound(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteRound(c.Request.Context(), id); err != nil {
		writeError(c, err, "delete round")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
