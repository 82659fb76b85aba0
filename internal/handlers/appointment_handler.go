package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linarifux/dentista-api/internal/booking"
	"github.com/linarifux/dentista-api/internal/models"
	"github.com/linarifux/dentista-api/internal/store"
)

// GetSlots returns the bookable "HH:MM" starts for a date. Public. The
// optional exempt parameter lets the edit flow keep offering the slot the
// appointment already holds.
func (h *Handler) GetSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	slots, err := h.Booking.AvailableSlots(c.Request.Context(), date, c.Query("doctor"), c.Query("exempt"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

type createAppointmentRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Doctor  string `json:"doctor"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Message string `json:"message"`
}

// CreateAppointment books a new appointment from the public site.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	apt, err := h.Booking.Create(c.Request.Context(), booking.CreateInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Service: req.Service,
		Doctor:  req.Doctor,
		Date:    req.Date,
		Time:    req.Time,
		Message: req.Message,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.Notifications.SendBookingReceived(apt)
	c.JSON(http.StatusCreated, apt)
}

type updateAppointmentRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Service *string `json:"service,omitempty"`
	Doctor  *string `json:"doctor,omitempty"`
	Date    *string `json:"date,omitempty"`
	Time    *string `json:"time,omitempty"`
	Message *string `json:"message,omitempty"`
}

func (r updateAppointmentRequest) toInput() booking.UpdateInput {
	return booking.UpdateInput{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Service: r.Service,
		Doctor:  r.Doctor,
		Date:    r.Date,
		Time:    r.Time,
		Message: r.Message,
	}
}

// UpdatePublicAppointment lets a patient adjust a booking before the clinic
// confirms it. Only Pending appointments can be edited this way.
func (h *Handler) UpdatePublicAppointment(c *gin.Context) {
	id := c.Param("id")

	current, err := h.Booking.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if current.Status != models.StatusPending {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only pending appointments can be edited"})
		return
	}

	var req updateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	apt, err := h.Booking.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// ListAppointments is the staff listing with status, date and free-text
// filters.
func (h *Handler) ListAppointments(c *gin.Context) {
	filter := store.AppointmentFilter{
		Status: models.Status(c.Query("status")),
		Date:   c.Query("date"),
		Query:  c.Query("q"),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status filter"})
		return
	}

	appointments, err := h.Store.ListAppointments(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// GetAppointment fetches one appointment by id. Staff only.
func (h *Handler) GetAppointment(c *gin.Context) {
	apt, err := h.Booking.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// UpdateAppointment is the staff full edit. Slot changes are re-validated;
// status changes must go through UpdateAppointmentStatus.
func (h *Handler) UpdateAppointment(c *gin.Context) {
	var req updateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	apt, err := h.Booking.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// UpdateAppointmentStatus moves an appointment through its lifecycle,
// enforcing the transition table.
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	var req struct {
		Status models.Status `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	apt, err := h.Booking.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.Notifications.SendStatusChanged(apt)
	c.JSON(http.StatusOK, apt)
}
