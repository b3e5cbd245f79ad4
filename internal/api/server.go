// Package api exposes the HTTP interface for the ingest service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/draftline-io/linkedin-ingest/internal/config"
	"github.com/draftline-io/linkedin-ingest/internal/ingest"
	"github.com/draftline-io/linkedin-ingest/internal/phantom"
	"github.com/draftline-io/linkedin-ingest/internal/telemetry"
)

// maxEnvelopeBytes bounds webhook request bodies. Upstream exports of a few
// thousand records stay well under this.
const maxEnvelopeBytes = 32 << 20

// Ingestor processes one webhook delivery.
type Ingestor interface {
	Ingest(ctx context.Context, body []byte) (ingest.BatchSummary, error)
}

// Launcher triggers and polls upstream scraping agents.
type Launcher interface {
	Launch(ctx context.Context, agentID string) (string, error)
	ContainerStatus(ctx context.Context, containerID string) (phantom.Status, error)
}

// Pinger reports persistence-layer reachability for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires HTTP handlers to the ingestion pipeline and the scraping API.
type Server struct {
	router   chi.Router
	pipeline Ingestor
	store    Pinger
	scraper  Launcher
	clock    ingest.Clock
	cfg      config.Config
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes. The scraper may be
// nil when the upstream API is not configured; its endpoints then report 503.
func NewServer(
	pipeline Ingestor,
	store Pinger,
	scraper Launcher,
	clock ingest.Clock,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		pipeline: pipeline,
		store:    store,
		scraper:  scraper,
		clock:    clock,
		cfg:      cfg,
		logger:   logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(timeoutMiddleware(120 * time.Second))
	r.Use(telemetry.Middleware)

	r.Get("/", s.root)
	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Post("/webhook", s.webhook)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/scrape", func(r chi.Router) {
			r.Post("/launch", s.launchScrape)
			r.Get("/{container_id}/status", s.scrapeStatus)
		})
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	storeStatus := "connected"
	if err := s.store.Ping(r.Context()); err != nil {
		storeStatus = "disconnected"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":      "linkedin-ingest is running",
		"status":       "ok",
		"store_status": storeStatus,
		"timestamp":    s.clock.Now().Format(time.RFC3339),
	})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// webhookResponse is the ingestion entry point's contract. Error responses
// omit the counts.
type webhookResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	ProcessedCount *int   `json:"processed_count,omitempty"`
	TotalCount     *int   `json:"total_count,omitempty"`
	Format         string `json:"format,omitempty"`
}

func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEnvelopeBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, webhookResponse{
			Status:  "error",
			Message: "unable to read request body",
		})
		return
	}

	summary, err := s.pipeline.Ingest(r.Context(), body)
	if err != nil {
		s.writeIngestError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, webhookResponse{
		Status:         "success",
		Message:        fmt.Sprintf("Data processed successfully. %d items processed.", summary.Processed),
		ProcessedCount: &summary.Processed,
		TotalCount:     &summary.Total,
		Format:         string(summary.Format),
	})
}

// writeIngestError maps the pipeline error taxonomy onto HTTP statuses:
// envelope and download failures are the caller's problem (400), an
// unreachable store is ours (500).
func (s *Server) writeIngestError(w http.ResponseWriter, err error) {
	var (
		envErr *ingest.EnvelopeError
		dlErr  *ingest.DownloadError
	)
	switch {
	case errors.Is(err, ingest.ErrStoreUnavailable):
		s.logger.Error("store unavailable", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, webhookResponse{
			Status:  "error",
			Message: "Database connection not available",
		})
	case errors.As(err, &envErr):
		writeJSON(w, http.StatusBadRequest, webhookResponse{
			Status:  "error",
			Message: envErr.Reason,
		})
	case errors.As(err, &dlErr):
		writeJSON(w, http.StatusBadRequest, webhookResponse{
			Status:  "error",
			Message: fmt.Sprintf("failed to download CSV from %s", dlErr.URL),
		})
	default:
		s.logger.Error("webhook processing failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, webhookResponse{
			Status:  "error",
			Message: "Internal server error",
		})
	}
}

type launchScrapeRequest struct {
	Agent   string `json:"agent"`
	AgentID string `json:"agent_id"`
}

func (s *Server) launchScrape(w http.ResponseWriter, r *http.Request) {
	if s.scraper == nil {
		writeError(w, http.StatusServiceUnavailable, "scraping API is not configured")
		return
	}
	var req launchScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	agentID := req.AgentID
	if agentID == "" && req.Agent != "" {
		agentID = s.cfg.Phantom.Agents[req.Agent]
		if agentID == "" {
			writeError(w, http.StatusNotFound, fmt.Sprintf("unknown agent %q", req.Agent))
			return
		}
	}
	if agentID == "" {
		writeError(w, http.StatusBadRequest, "agent or agent_id is required")
		return
	}

	containerID, err := s.scraper.Launch(r.Context(), agentID)
	if err != nil {
		telemetry.ObserveScrapeLaunch("error")
		s.logger.Error("scrape launch failed", zap.String("agent_id", agentID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to launch scraping agent")
		return
	}
	telemetry.ObserveScrapeLaunch("ok")
	s.logger.Info("scrape launched", zap.String("agent_id", agentID), zap.String("container_id", containerID))
	writeJSON(w, http.StatusAccepted, map[string]string{"container_id": containerID})
}

func (s *Server) scrapeStatus(w http.ResponseWriter, r *http.Request) {
	if s.scraper == nil {
		writeError(w, http.StatusServiceUnavailable, "scraping API is not configured")
		return
	}
	containerID := chi.URLParam(r, "container_id")
	status, err := s.scraper.ContainerStatus(r.Context(), containerID)
	if err != nil {
		s.logger.Error("scrape status failed", zap.String("container_id", containerID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to fetch container status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"container_id": containerID,
		"status":       string(status),
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

func recoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", zap.Any("panic", rec))
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

type requestIDKey struct{}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": msg})
}
