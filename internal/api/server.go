package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmlago/tasksmith/internal/config"
	"github.com/jmlago/tasksmith/internal/generate"
	"github.com/jmlago/tasksmith/internal/metrics"
	"github.com/jmlago/tasksmith/internal/pipeline"
)

// Server is the HTTP surface of tasksmith: the signed webhook endpoint
// plus a small read-only API for event status and stats.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	gen          *generate.Client
	recorder     *metrics.Recorder
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, gen *generate.Client, rec *metrics.Recorder, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		gen:          gen,
		recorder:     rec,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.recorder.Handler())

	// The webhook endpoint authenticates via request signature, not a
	// bearer token.
	r.Group(func(r chi.Router) {
		r.Use(SignatureMiddleware(s.cfg.WebhookSecret, s.recorder, s.log))
		r.Post("/hooks/jira", s.handleWebhook)
	})

	r.Get("/api/events/{eventID}", s.handleEventStatus)
	r.Get("/api/stats/llm", s.handleLLMStats)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
