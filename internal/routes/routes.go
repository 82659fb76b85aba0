package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/linarifux/dentista-api/internal/config"
	"github.com/linarifux/dentista-api/internal/handlers"
	"github.com/linarifux/dentista-api/internal/middleware"
)

// New builds the router: public booking surface, auth, and the staff API
// behind JWT. Account and catalog management additionally require the admin
// role.
func New(h *handlers.Handler, cfg *config.Config, log *zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))

	if len(cfg.Server.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/auth/login", h.Login)

	api := r.Group("/api")
	{
		api.GET("/services", h.ListServices)
		api.GET("/appointments/slots", h.GetSlots)
		api.POST("/appointments", middleware.RateLimit(cfg.RateLimit), h.CreateAppointment)
		api.PUT("/appointments/:id", middleware.RateLimit(cfg.RateLimit), h.UpdatePublicAppointment)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg))
		{
			admin.GET("/appointments", h.ListAppointments)
			admin.GET("/appointments/:id", h.GetAppointment)
			admin.PUT("/appointments/:id", h.UpdateAppointment)
			admin.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)

			admin.GET("/patients", h.ListPatients)

			adminOnly := admin.Group("/")
			adminOnly.Use(middleware.RequireAdmin())
			{
				adminOnly.POST("/services", h.CreateService)
				adminOnly.DELETE("/services/:id", h.DeleteService)

				adminOnly.GET("/users", h.ListUsers)
				adminOnly.POST("/users", h.RegisterUser)
				adminOnly.DELETE("/users/:id", h.DeleteUser)
			}
		}
	}

	return r
}
