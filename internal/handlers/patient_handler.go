package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListPatients returns the derived patient view: appointments grouped by
// email with first-seen contact info, last visit and visit count. Email
// string equality is the only identity key, so this is an approximation,
// not a patient registry.
func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.Store.AggregatePatients(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, patients)
}
