package handler

import (
	"net/http"

	"grapebd/g2g/internal/service"
	"grapebd/g2g/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

type AddStockRequest struct {
	VarietyID uuid.UUID `json:"variety_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required"`
	Notes     string    `json:"notes" binding:"max=500"`
}

type UpdateStockRequest struct {
	Quantity *int   `json:"quantity" binding:"required"`
	Notes    string `json:"notes" binding:"max=500"`
}

func (h *InventoryHandler) ListMine(c *gin.Context) {
	list, err := h.svc.ListStock(c.Request.Context(), session.From(c).ProfileID())
	if err != nil {
		writeError(c, err, "list stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": list})
}

// ListForProfile lets admins inspect any member's stock.
func (h *InventoryHandler) ListForProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListStock(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "list stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": list})
}

func (h *InventoryHandler) Add(c *gin.Context) {
	var req AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.svc.AddOrIncrementStock(c.Request.Context(), session.From(c).ProfileID(), req.VarietyID, req.Quantity, req.Notes)
	if err != nil {
		writeError(c, err, "add stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": st})
}

func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.svc.UpdateStock(c.Request.Context(), session.From(c).Actor(), id, *req.Quantity, req.Notes)
	if err != nil {
		writeError(c, err, "update stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": st})
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteStock(c.Request.Context(), session.From(c).Actor(), id); err != nil {
		writeError(c, err, "delete stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
