package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/linarifux/dentista-api/internal/booking"
	"github.com/linarifux/dentista-api/internal/config"
	"github.com/linarifux/dentista-api/internal/services"
	"github.com/linarifux/dentista-api/internal/store"
)

// Handler holds the dependencies every endpoint needs. Handlers are methods
// on this struct; the store is an interface so tests run against the
// in-memory implementation.
type Handler struct {
	Store         store.Store
	Booking       *booking.Service
	Notifications *services.NotificationService
	Cfg           *config.Config
	Log           zerolog.Logger
}

func NewHandler(st store.Store, b *booking.Service, n *services.NotificationService, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		Store:         st,
		Booking:       b,
		Notifications: n,
		Cfg:           cfg,
		Log:           log,
	}
}

// writeError maps domain errors to HTTP responses. Unknown errors become an
// opaque 500 with the detail kept in the log.
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		verr *booking.ValidationError
		cerr *booking.SlotConflictError
		terr *booking.InvalidTransitionError
		nerr *booking.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.As(err, &cerr):
		c.JSON(http.StatusConflict, gin.H{"error": cerr.Error()})
	case errors.As(err, &terr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": terr.Error()})
	case errors.As(err, &nerr):
		c.JSON(http.StatusNotFound, gin.H{"error": nerr.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	default:
		h.Log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
