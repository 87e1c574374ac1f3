package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/fleetmon/internal/domain"
	apimw "github.com/hamed0406/fleetmon/internal/httpapi/middleware"
	"github.com/hamed0406/fleetmon/internal/repo"
)

// PassRunner runs one monitoring pass on demand.
type PassRunner interface {
	RunPass(ctx context.Context) (*domain.PassReport, error)
}

type Server struct {
	Logger  *zap.Logger
	Hosts   []domain.Host
	Runner  PassRunner
	Reports repo.ReportStore
}

func NewServer(l *zap.Logger, hosts []domain.Host, runner PassRunner, reports repo.ReportStore) *Server {
	return &Server{Logger: l, Hosts: hosts, Runner: runner, Reports: reports}
}

// Router wires the API. Read routes accept public or admin keys; triggering
// a pass needs an admin key. Rates are requests per minute per client IP.
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, pubRPM, pubBurst, admRPM, admBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(corsHandler(allowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apimw.RateLimit(pubRPM, pubBurst), apimw.RequireAny(keys))
			r.Get("/hosts", s.handleListHosts)
			r.Get("/pass/latest", s.handleLatestPass)
		})
		r.Group(func(r chi.Router) {
			r.Use(apimw.RateLimit(admRPM, admBurst), apimw.RequireAdmin(keys))
			r.Post("/pass", s.handleRunPass)
		})
	})
	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return cors.AllowAll().Handler
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	})
}

func (s *Server) handleListHosts(w http.ResponseWriter, r *http.Request) {
	hosts := s.Hosts
	if hosts == nil {
		hosts = []domain.Host{}
	}
	writeJSON(w, http.StatusOK, hosts)
}

func (s *Server) handleLatestPass(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Reports.Latest(r.Context())
	if err != nil {
		s.Logger.Warn("latest_pass_error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load report"})
		return
	}
	if rep == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no pass has completed yet"})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleRunPass(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Runner.RunPass(r.Context())
	if err != nil {
		// dispatch failures are already in the report; the pass itself succeeded
		s.Logger.Warn("api_pass_dispatch_errors", zap.Error(err))
	}
	if saveErr := s.Reports.Save(r.Context(), rep); saveErr != nil {
		s.Logger.Warn("report_save_error", zap.Error(saveErr))
	}
	s.Logger.Info("api_pass_done",
		zap.Int("hosts", len(rep.Results)),
		zap.Int("unreachable", rep.Unreachable()),
		zap.Int("dispatch_failures", rep.DispatchFailures()),
	)
	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
