// Package http exposes an Evaluator as a JSON API.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/twoway"
	"github.com/aretw0/twoway/internal/presentation/graph"
	"github.com/aretw0/twoway/pkg/domain"
	"github.com/aretw0/twoway/pkg/ports"
	"github.com/aretw0/twoway/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	Words []string `json:"words"`
}

// TraceRequest is the body of POST /trace.
type TraceRequest struct {
	Word string `json:"word"`
}

// TraceResponse carries every observation and the final outcome.
// Error is set when the trace failed; the observations made before it are kept.
type TraceResponse struct {
	Word    string                   `json:"word"`
	Steps   []domain.StepObservation `json:"steps"`
	Outcome domain.Outcome           `json:"outcome"`
	Error   string                   `json:"error,omitempty"`
}

// StepResponse is the answer to POST /traces/{id}/step.
type StepResponse struct {
	Observation *domain.StepObservation `json:"observation,omitempty"`
	Trace       domain.TraceSnapshot    `json:"trace"`
	Error       string                  `json:"error,omitempty"`
}

// TraceFactory starts a fresh trace for a word.
type TraceFactory func(word string) session.Trace

// Server serves the machine behind an Evaluator.
type Server struct {
	Engine  ports.Evaluator
	Name    string
	Metrics http.Handler
	Logger  *slog.Logger

	Sessions *session.Manager
	NewTrace TraceFactory
}

// Option configures the Server.
type Option func(*Server)

// WithName sets the machine name reported by /info.
func WithName(name string) Option {
	return func(s *Server) {
		s.Name = name
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithSessions enables the stepwise /traces API.
func WithSessions(mgr *session.Manager, factory TraceFactory) Option {
	return func(s *Server) {
		s.Sessions = mgr
		s.NewTrace = factory
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Evaluator, opts ...Option) http.Handler {
	s := &Server{
		Engine: engine,
		Logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/machine", s.GetMachine)
	r.Get("/graph", s.GetGraph)
	r.Post("/evaluate", s.Evaluate)
	r.Post("/trace", s.Trace)
	if s.Sessions != nil && s.NewTrace != nil {
		r.Route("/traces", func(r chi.Router) {
			r.Post("/", s.StartTrace)
			r.Get("/{id}", s.GetTrace)
			r.Post("/{id}/step", s.StepTrace)
			r.Delete("/{id}", s.DeleteTrace)
		})
	}
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	def := s.Engine.Inspect()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":         "twoway-http",
		"version":     strings.TrimSpace(twoway.Version),
		"machine":     s.Name,
		"states":      len(def.States),
		"alphabet":    def.Alphabet,
		"transitions": len(def.Transitions),
	})
}

// GetMachine handles the GET /machine request.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Inspect())
}

// GetGraph handles the GET /graph request. With ?word=, the states visited
// while tracing the word are highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	def := s.Engine.Inspect()

	var overlay *graph.GraphOverlay
	if q := r.URL.Query(); q.Has("word") {
		word := q.Get("word")
		if err := domain.CheckWord(word); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		history, _, err := s.Engine.Trace(r.Context(), word)
		if err != nil {
			s.Logger.Debug("Graph overlay trace failed", "word", word, "error", err)
		}
		overlay = graph.OverlayFromHistory(def.Start, history)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(def, overlay))
}

// Evaluate handles the POST /evaluate request.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if !s.decode(w, r, &body) {
		return
	}
	for _, word := range body.Words {
		if err := domain.CheckWord(word); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	report := s.Engine.EvaluateAll(r.Context(), body.Words)
	if report.Entries == nil {
		report.Entries = []domain.ReportEntry{}
	}
	s.writeJSON(w, http.StatusOK, report)
}

// Trace handles the POST /trace request.
// A failed trace answers 422 with the observations made before the failure.
func (s *Server) Trace(w http.ResponseWriter, r *http.Request) {
	var body TraceRequest
	if !s.decode(w, r, &body) {
		return
	}
	if err := domain.CheckWord(body.Word); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	steps, outcome, err := s.Engine.Trace(r.Context(), body.Word)
	resp := TraceResponse{
		Word:    body.Word,
		Steps:   steps,
		Outcome: outcome,
	}
	if resp.Steps == nil {
		resp.Steps = []domain.StepObservation{}
	}

	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = http.StatusUnprocessableEntity

		var ee *domain.ExecutionError
		if errors.As(err, &ee) && ee.Defect() {
			s.Logger.Error("Trace hit an engine defect", "word", body.Word, "error", err)
			status = http.StatusInternalServerError
		}
	}
	s.writeJSON(w, status, resp)
}

// StartTrace handles the POST /traces request.
func (s *Server) StartTrace(w http.ResponseWriter, r *http.Request) {
	var body TraceRequest
	if !s.decode(w, r, &body) {
		return
	}
	if err := domain.CheckWord(body.Word); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := s.Sessions.Start(s.NewTrace(body.Word))
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Location", "/traces/"+snap.ID)
	s.writeJSON(w, http.StatusCreated, snap)
}

// GetTrace handles the GET /traces/{id} request.
func (s *Server) GetTrace(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// StepTrace handles the POST /traces/{id}/step request.
// Stepping a finished trace answers 409; a step that fails answers 422.
func (s *Server) StepTrace(w http.ResponseWriter, r *http.Request) {
	obs, snap, err := s.Sessions.Step(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, session.ErrTraceNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrTraceFinished):
		s.writeJSON(w, http.StatusConflict, StepResponse{Trace: snap, Error: err.Error()})
		return
	case err != nil:
		s.writeJSON(w, http.StatusUnprocessableEntity, StepResponse{Trace: snap, Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, StepResponse{Observation: &obs, Trace: snap})
}

// DeleteTrace handles the DELETE /traces/{id} request.
func (s *Server) DeleteTrace(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(chi.URLParam(r, "id")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Failed to encode response", "error", err)
	}
}
