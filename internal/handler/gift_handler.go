package handler

import (
	"net/http"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/models"
	"grapebd/g2g/internal/repository"
	"grapebd/g2g/internal/service"
	"grapebd/g2g/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GiftHandler struct {
	svc *service.GiftService
}

func NewGiftHandler(svc *service.GiftService) *GiftHandler {
	return &GiftHandler{svc: svc}
}

type CreateGiftRequest struct {
	ReceiverID  uuid.UUID `json:"receiver_id" binding:"required"`
	VarietyID   uuid.UUID `json:"variety_id" binding:"required"`
	GiftRoundID uuid.UUID `json:"gift_round_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required"`
}

// AdminCreateGiftRequest also names the member whose stock is debited.
type AdminCreateGiftRequest struct {
	SenderID uuid.UUID `json:"sender_id" binding:"required"`
	CreateGiftRequest
}

type CancelGiftRequest struct {
	AdminNotes string `json:"admin_notes" binding:"max=1000"`
}

func (h *GiftHandler) Create(c *gin.Context) {
	var req CreateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := h.svc.CreateGift(c.Request.Context(), session.From(c).Actor(), service.CreateGiftInput{
		ReceiverID: req.ReceiverID,
		VarietyID:  req.VarietyID,
		RoundID:    req.GiftRoundID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		writeError(c, err, "create gift")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"gift": g})
}

func (h *GiftHandler) AdminCreate(c *gin.Context) {
	var req AdminCreateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := h.svc.AdminCreateGift(c.Request.Context(), session.From(c).Actor(), service.CreateGiftInput{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		VarietyID:  req.VarietyID,
		RoundID:    req.GiftRoundID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		writeError(c, err, "create gift")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"gift": g})
}

func (h *GiftHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	g, err := h.svc.Get(c.Request.Context(), session.From(c).Actor(), id)
	if err != nil {
		writeError(c, err, "get gift")
		return
	}
	c.JSON(http.StatusOK, gin.H{"gift": g})
}

func (h *GiftHandler) Sent(c *gin.Context) {
	list, err := h.svc.ListSent(c.Request.Context(), session.From(c).ProfileID())
	if err != nil {
		writeError(c, err, "list gifts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": list})
}

func (h *GiftHandler) Received(c *gin.Context) {
	list, err := h.svc.ListReceived(c.Request.Context(), session.From(c).ProfileID())
	if err != nil {
		writeError(c, err, "list gifts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": list})
}

// AdminList filters by ?status=&round_id=&user_id=&page=&limit=
func (h *GiftHandler) AdminList(c *gin.Context) {
	f := repository.GiftFilter{
		Status: c.Query("status"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	}
	for key, dst := range map[string]**uuid.UUID{"round_id": &f.RoundID, "user_id": &f.UserID} {
		if v := c.Query(key); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
				return
			}
			*dst = &id
		}
	}
	list, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err, "list gifts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": list, "total": total})
}

func (h *GiftHandler) PendingCount(c *gin.Context) {
	n, err := h.svc.PendingCount(c.Request.Context())
	if err != nil {
		writeError(c, err, "count gifts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": n})
}

func (h *GiftHandler) Approve(c *gin.Context) {
	h.transition(c, func(actor domain.Actor, id uuid.UUID) (*models.Gift, error) {
		return h.svc.Approve(c.Request.Context(), actor, id)
	})
}

func (h *GiftHandler) Cancel(c *gin.Context) {
	var req CancelGiftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	h.transition(c, func(actor domain.Actor, id uuid.UUID) (*models.Gift, error) {
		return h.svc.Cancel(c.Request.Context(), actor, id, req.AdminNotes)
	})
}

func (h *GiftHandler) MarkSent(c *gin.Context) {
	h.transition(c, func(actor domain.Actor, id uuid.UUID) (*models.Gift, error) {
		return h.svc.MarkSent(c.Request.Context(), actor, id)
	})
}

func (h *GiftHandler) MarkReceived(c *gin.Context) {
	h.transition(c, func(actor domain.Actor, id uuid.UUID) (*models.Gift, error) {
		return h.svc.MarkReceived(c.Request.Context(), actor, id)
	})
}

func (h *GiftHandler) transition(c *gin.Context, fn func(domain.Actor, uuid.UUID) (*models.Gift, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	g, err := fn(session.From(c).Actor(), id)
	if err != nil {
		writeError(c, err, "update gift")
		return
	}
	c.JSON(http.StatusOK, gin.H{"gift": g})
}
