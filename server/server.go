package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/saudeviva/agenda/internal/profile"
	"github.com/saudeviva/agenda/plugin/ai/intent"
	"github.com/saudeviva/agenda/server/router/apiv1"
	"github.com/saudeviva/agenda/server/service/scheduling"
	"github.com/saudeviva/agenda/store"
)

// Server wires the HTTP layer over the scheduling service.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	apiService *apiv1.APIV1Service
}

// NewServer creates a new server instance.
func NewServer(_ context.Context, profile *profile.Profile, store *store.Store, scheduler scheduling.Service, extractor intent.Extractor) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}))

	s := &Server{
		Profile:    profile,
		Store:      store,
		echoServer: e,
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	s.apiService = apiv1.NewAPIV1Service(profile, scheduler, extractor, slog.Default())
	s.apiService.RegisterRoutes(e)

	return s, nil
}

// Start runs the HTTP server until the context is cancelled, then shuts it
// down with a grace period.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("server started", "addr", addr, "mode", s.Profile.Mode)
		if err := s.echoServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "failed to start echo server")
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// Shutdown stops the HTTP server and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server stopped")
	return nil
}
