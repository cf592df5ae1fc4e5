package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sharik/internal/config"
	"sharik/internal/domain"
	"sharik/internal/export"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the REST API of the sharing platform.
type HTTPServer struct {
	cfg      config.HTTPConfig
	bookings domain.BookingService
	items    domain.ItemService
	users    domain.UserService
	exporter *export.ExcelExporter
	logger   *zerolog.Logger
	server   *http.Server
}

func NewHTTPServer(
	cfg config.HTTPConfig,
	rlCfg config.RateLimitConfig,
	bookings domain.BookingService,
	items domain.ItemService,
	users domain.UserService,
	limiter domain.LimiterRepository,
	exporter *export.ExcelExporter,
	logger *zerolog.Logger,
) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:      cfg,
		bookings: bookings,
		items:    items,
		users:    users,
		exporter: exporter,
		logger:   logger,
	}

	mux.HandleFunc("/bookings/owner", srv.handleBookingsByOwner)
	mux.HandleFunc("/bookings/", srv.handleBookingByID)
	mux.HandleFunc("/bookings", srv.handleBookings)
	mux.HandleFunc("/items/search", srv.handleItemSearch)
	mux.HandleFunc("/items/", srv.handleItemByID)
	mux.HandleFunc("/items", srv.handleItems)
	mux.HandleFunc("/users/", srv.handleUserByID)
	mux.HandleFunc("/users", srv.handleUsers)
	mux.HandleFunc("/admin/export", srv.handleExport)
	mux.HandleFunc("/health", srv.handleHealth)

	handler := loggingMiddleware(logger,
		globalLimitMiddleware(rlCfg,
			userLimitMiddleware(rlCfg, limiter, logger, mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
