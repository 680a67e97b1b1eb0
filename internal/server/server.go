// Package server exposes the dashboard charts over HTTP for local preview.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"MetalCharts/internal/chart"
	"MetalCharts/internal/model"
)

const (
	sparkWidth  = 120
	sparkHeight = 32
)

// Clock reports when the next refresh runs.
type Clock interface {
	NextRefresh() time.Time
}

// Server serves chart images, pointer events and trend summaries.
type Server struct {
	Dashboard   *chart.Dashboard
	Instruments []model.Instrument
	Clock       Clock

	http *http.Server
}

// New creates a server for addr. clock may be nil.
func New(addr string, dash *chart.Dashboard, instruments []model.Instrument, clock Clock) *Server {
	s := &Server{Dashboard: dash, Instruments: instruments, Clock: clock}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/trending", s.handleTrending)
	r.Get("/trending/{code}.png", s.handleSparkline)
	r.Route("/charts/{kind}", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/pointer", s.handlePointer)
		r.Post("/filter", s.handleFilter)
	})
	r.Get("/charts/{kind}.png", s.handleChart)
	return r
}

// Start serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	log.Printf("[INFO] preview server listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("[INFO] shutting down preview server")
	return s.http.Shutdown(ctx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Printf("[INFO] %s %s %d %dB %dms req=%s",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
			time.Since(start).Milliseconds(), middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
