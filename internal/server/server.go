// Package server exposes the dashboard REST API: asset inventory, signal and
// scan ingestion, finding triage and the per-asset risk aggregations.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/djvirus9/secops-dashboard/internal/config"
	"github.com/djvirus9/secops-dashboard/internal/ingest"
	"github.com/djvirus9/secops-dashboard/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server hosts the HTTP API on top of the store and the ingest engine.
type Server struct {
	cfg    config.ServerConfig
	store  store.Store
	engine *ingest.Engine
	log    *zap.Logger

	httpServer *http.Server
}

// New wires the API server. It does not start listening; call Run.
func New(cfg config.ServerConfig, st store.Store, engine *ingest.Engine, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		store:  st,
		engine: engine,
		log:    logger.Named("server"),
	}
}

// Router builds the chi router with the full route table. Exposed separately
// so tests can drive the handlers through httptest without a listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if s.cfg.MaxBodyBytes > 0 {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				req.Body = http.MaxBytesReader(w, req.Body, s.cfg.MaxBodyBytes)
				next.ServeHTTP(w, req)
			})
		})
	}

	r.Get("/health", s.handleHealth)

	r.Get("/assets", s.handleListAssets)
	r.Post("/assets/upsert", s.handleUpsertAsset)

	r.Post("/ingest/signal", s.handleIngestSignal)
	r.Post("/ingest/scan", s.handleIngestScan)

	r.Get("/findings", s.handleListFindings)
	r.Get("/findings/{findingID}", s.handleGetFinding)
	r.Patch("/findings/{findingID}", s.handleUpdateFinding)
	r.Post("/findings/{findingID}/comments", s.handleAddComment)

	r.Get("/parsers", s.handleListParsers)

	r.Get("/risks", s.handleRisks)
	r.Get("/risks/assets", s.handleRisksByAsset)

	return r
}

// Run serves the API until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("API server listening", zap.String("address", s.cfg.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("Shutting down API server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
