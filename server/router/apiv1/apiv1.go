package apiv1

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/saudeviva/agenda/internal/profile"
	"github.com/saudeviva/agenda/plugin/ai/intent"
	"github.com/saudeviva/agenda/server/middleware"
	"github.com/saudeviva/agenda/server/service/scheduling"
)

// APIV1Service provides the v1 REST API.
type APIV1Service struct {
	Profile    *profile.Profile
	Scheduler  scheduling.Service
	Extractor  intent.Extractor
	Logger     *slog.Logger
	rateLimits *middleware.RateLimiter
}

// NewAPIV1Service creates a new APIV1Service.
func NewAPIV1Service(profile *profile.Profile, scheduler scheduling.Service, extractor intent.Extractor, logger *slog.Logger) *APIV1Service {
	return &APIV1Service{
		Profile:    profile,
		Scheduler:  scheduler,
		Extractor:  extractor,
		Logger:     logger,
		rateLimits: middleware.NewRateLimiter(),
	}
}

// RegisterRoutes registers the v1 routes on the given Echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	group := e.Group("/api/v1", middleware.RateLimitMiddleware(s.rateLimits))
	group.POST("/appointments", s.CreateAppointment)
	group.GET("/appointments", s.ListAppointments)
	group.POST("/appointments/:id/cancel", s.CancelAppointment)
}
