package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/nearly/internal/config"
	"github.com/thebtf/nearly/internal/gate"
	"github.com/thebtf/nearly/internal/store"
)

// maxCompareBody caps compare request bodies; datasets are flat name/value
// maps and should never come close.
const maxCompareBody = 8 << 20

// compareRequest is the body of POST /api/compare.
type compareRequest struct {
	BaselineLabel  string       `json:"baseline_label"`
	CandidateLabel string       `json:"candidate_label"`
	Baseline       gate.Dataset `json:"baseline"`
	Candidate      gate.Dataset `json:"candidate"`
	Rules          *gate.Rules  `json:"rules,omitempty"`
}

// writeJSON writes a JSON response with proper error handling.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// handleHealth handles liveness checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleCompare gates a candidate dataset against a baseline and persists
// the run when a store is configured. Inline rules override the active ones
// for this run only.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	body := http.MaxBytesReader(w, r.Body, maxCompareBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Baseline) == 0 {
		http.Error(w, "baseline dataset is required", http.StatusBadRequest)
		return
	}

	engine := s.engine
	if req.Rules != nil {
		if err := req.Rules.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// One-off engine on the same pool; the server's active rules stay
		// untouched.
		engine = s.engine.WithRules(req.Rules)
	}

	report, err := engine.Compare(r.Context(), req.Baseline, req.Candidate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	run := store.NewRun(req.BaselineLabel, req.CandidateLabel, report)
	if s.store != nil {
		if err := s.store.SaveRun(r.Context(), run); err != nil {
			log.Error().Err(err).Str("run", run.ID).Msg("Failed to persist run")
		}
	}

	writeJSON(w, http.StatusOK, run)
}

// handleListRuns returns recent run summaries.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "run history not configured", http.StatusServiceUnavailable)
		return
	}

	limit := config.DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

// handleGetRun returns one run with full per-metric results.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "run history not configured", http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "id")
	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// handleGetRules returns the active gate rules.
func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Rules())
}
