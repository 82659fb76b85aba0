package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linarifux/dentista-api/internal/models"
)

// ListServices returns the treatment catalog. Public: the booking form needs
// it to populate its service picker.
func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.Store.ListServices(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

type createServiceRequest struct {
	Title     string  `json:"title" binding:"required"`
	BasePrice float64 `json:"basePrice"`
	Duration  int     `json:"duration"`
}

// CreateService adds a catalog entry. Admin only.
func (h *Handler) CreateService(c *gin.Context) {
	var req createServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := &models.Service{
		Title:     models.NormalizeServiceTitle(req.Title),
		BasePrice: req.BasePrice,
		Duration:  req.Duration,
	}
	if err := h.Store.InsertService(c.Request.Context(), svc); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// DeleteService removes a catalog entry. Admin only. Existing appointments
// keep their stored service title.
func (h *Handler) DeleteService(c *gin.Context) {
	if err := h.Store.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted"})
}
