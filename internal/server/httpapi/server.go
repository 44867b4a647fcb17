// Package httpapi exposes the REST surface: model catalog, generation,
// comparison, draft lifecycle, and analytics endpoints over plain JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avelkov/draftforge/internal/logging"
	"github.com/avelkov/draftforge/internal/server/catalog"
	"github.com/avelkov/draftforge/internal/server/services"
)

const apiVersion = "0.1.0"

type Server struct {
	address   string
	registry  *catalog.Registry
	gen       *services.GenerationService
	cmp       *services.ComparisonService
	drafts    *services.DraftService
	analytics *services.AnalyticsService
	logger    logging.Logger
}

func NewServer(address string, reg *catalog.Registry, gen *services.GenerationService, cmp *services.ComparisonService, drafts *services.DraftService, analytics *services.AnalyticsService, logger logging.Logger) *Server {
	return &Server{
		address:   address,
		registry:  reg,
		gen:       gen,
		cmp:       cmp,
		drafts:    drafts,
		analytics: analytics,
		logger:    logger.With("module", "http_server"),
	}
}

// Routes builds the handler tree. Method and path wildcards use the
// standard ServeMux patterns.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/models/", s.handleModelList)
	mux.HandleFunc("GET /api/models/costs", s.handleModelCosts)
	mux.HandleFunc("POST /api/models/generate", s.handleModelGenerate)
	mux.HandleFunc("POST /api/models/test", s.handleModelTest)

	mux.HandleFunc("POST /api/drafts/generate", s.handleDraftGenerate)
	mux.HandleFunc("POST /api/drafts/compare", s.handleDraftCompare)
	mux.HandleFunc("GET /api/drafts/list", s.handleDraftList)
	mux.HandleFunc("GET /api/drafts/{id}", s.handleDraftGet)
	mux.HandleFunc("GET /api/drafts/{id}/versions", s.handleVersionList)
	mux.HandleFunc("POST /api/drafts/{id}/versions", s.handleVersionCreate)

	mux.HandleFunc("GET /api/analytics/usage", s.handleAnalyticsUsage)
	mux.HandleFunc("GET /api/analytics/costs", s.handleAnalyticsCosts)

	return s.logMiddleware(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "err", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
