// Package mnstats exposes a scheduler's runtime counters over HTTP for
// debugging and dashboards: queue depth, worker count, spawn/finish totals.
// It is read-only observability on top of mnrt.Scheduler.Stats and adds no
// scheduling behavior of its own.
package mnstats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mnrt-go/mnrt"
	"github.com/mnrt-go/mnrt/pkg/mnlog"
)

// StatsSource is the part of mnrt.Scheduler the server reads. Accepting the
// interface keeps the server testable without a live worker pool.
type StatsSource interface {
	Stats() mnrt.Stats
}

// Server serves scheduler statistics over HTTP.
type Server struct {
	source  StatsSource
	router  *mux.Router
	httpSrv *http.Server
	log     *mnlog.Logger
	started time.Time
}

// StatsResponse is the JSON body returned by GET /api/stats.
type StatsResponse struct {
	WorkerCount   int     `json:"worker_count"`
	Queued        int     `json:"queued"`
	Spawned       uint64  `json:"spawned"`
	Finished      uint64  `json:"finished"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// HealthResponse is the JSON body returned by GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// NewServer builds a Server reading from source. Call Handler to mount it
// on an existing listener, or ListenAndServe to run a standalone one.
func NewServer(source StatsSource) (*Server, error) {
	if source == nil {
		return nil, fmt.Errorf("new stats server: %w", mnrt.ErrNilScheduler)
	}

	s := &Server{
		source:  source,
		log:     mnlog.GetGlobalLogger().WithComponent("mnstats"),
		started: time.Now(),
	}

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router = router

	return s, nil
}

// Handler returns the server's routes for mounting on a caller-owned
// http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs a standalone HTTP server on addr and blocks until it
// exits. Use Shutdown to stop it.
func (s *Server) ListenAndServe(addr string) error {
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	s.log.Infof("stats server listening on %s", addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops a server started with ListenAndServe.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.source.Stats()
	s.writeJSON(w, StatsResponse{
		WorkerCount:   stats.WorkerCount,
		Queued:        stats.Queued,
		Spawned:       stats.Spawned,
		Finished:      stats.Finished,
		UptimeSeconds: time.Since(s.started).Seconds(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, HealthResponse{Status: "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("encode stats response: %v", err)
	}
}
