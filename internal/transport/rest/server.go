// Package rest exposes the search engine and its supporting stores over HTTP.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"property-search/internal/common/config"
	"property-search/internal/common/logger"
)

// NewRouter wires every route behind the shared middleware stack.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(LoggerMiddleware(h.logger), MetricsMiddleware(), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/properties", func(r chi.Router) {
			r.Post("/search", h.SearchProperties)
			r.Get("/search", h.SearchPropertiesQuery)
			r.Post("/bulk", h.BulkAddProperties)
			r.Post("/", h.AddProperty)
			r.Get("/{id}", h.GetProperty)
			r.Put("/{id}", h.UpdateProperty)
			r.Delete("/{id}", h.DeleteProperty)
		})

		r.Post("/trends/location", h.LocationTrends)
		r.Get("/locations/suggestions", h.LocationSuggestions)
		r.Get("/analytics/property-stats", h.PropertyStatistics)
		r.Get("/analytics/snapshots", h.MarketSnapshots)

		r.Route("/users/{userID}/favorites", func(r chi.Router) {
			r.Get("/", h.ListFavorites)
			r.Post("/{propertyID}", h.AddFavorite)
			r.Delete("/{propertyID}", h.RemoveFavorite)
		})

		r.Route("/chat/history/{sessionID}", func(r chi.Router) {
			r.Get("/", h.ChatHistory)
			r.Post("/", h.AppendChatMessage)
			r.Delete("/", h.ClearChatHistory)
		})
	})

	return r
}

type Server struct {
	httpServer *http.Server
	handler    *Handler
	logger     logger.Logger
}

func NewServer(cfg config.ServerConfig, h *Handler, log logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address,
			Handler:      NewRouter(h, cfg.CORSAllowedOrigins),
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
		},
		handler: h,
		logger:  log,
	}
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", map[string]interface{}{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests, then waits for background refreshes.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server", nil)
	err := s.httpServer.Shutdown(ctx)
	s.handler.Wait()
	return err
}
