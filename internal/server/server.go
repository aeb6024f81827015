// Package server wires the HTTP API, metrics, and health endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/server/handlers"
)

// HealthChecker is a pingable dependency reported on /healthz.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Container holds every dependency the router needs.
type Container struct {
	Opportunities *handlers.OpportunityHandler
	Analysis      *handlers.AnalysisHandler
	Content       *handlers.ContentHandler
	Checks        map[string]HealthChecker
	Logger        logger.Logger
}

type Server struct {
	http *http.Server
	log  logger.Logger
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/opportunities/generate", c.Opportunities.Generate).Methods("POST")
	v1.HandleFunc("/opportunities", c.Opportunities.List).Methods("GET")
	v1.HandleFunc("/opportunities/{id}/status", c.Opportunities.UpdateStatus).Methods("PATCH")
	v1.HandleFunc("/opportunities/rank", c.Analysis.Rank).Methods("POST")
	v1.HandleFunc("/trends/analyze", c.Analysis.Analyze).Methods("POST")
	v1.HandleFunc("/costs/estimate", c.Analysis.Estimate).Methods("POST")
	v1.HandleFunc("/content/generate", c.Content.Generate).Methods("POST")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/healthz", healthHandler(c)).Methods("GET")

	return r
}

func healthHandler(c *Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := `{"status":"ok"}`
		for name, check := range c.Checks {
			if err := check.Ping(ctx); err != nil {
				c.Logger.Warn("health check failed", map[string]interface{}{
					"dependency": name,
					"error":      err.Error(),
				})
				status = http.StatusServiceUnavailable
				body = fmt.Sprintf(`{"status":"degraded","failed":%q}`, name)
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func New(addr string, c *Container) *Server {
	return &Server{
		http: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(c),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  90 * time.Second,
		},
		log: c.Logger,
	}
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("http server listening", map[string]interface{}{"addr": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
