package handler

import (
	"net/http"

	"grapebd/g2g/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	profiles *service.ProfileService
	gifts    *service.GiftService
}

func NewAdminHandler(profiles *service.ProfileService, gifts *service.GiftService) *AdminHandler {
	return &AdminHandler{profiles: profiles, gifts: gifts}
}

// Dashboard handles GET /admin/dashboard: members by status and gifts waiting for review.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	byStatus, err := h.profiles.StatusCounts(ctx)
	if err != nil {
		writeError(c, err, "load stats")
		return
	}
	pending, err := h.gifts.PendingCount(ctx)
	if err != nil {
		writeError(c, err, "load stats")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profiles_by_status": byStatus,
		"pending_gifts":      pending,
	})
}
