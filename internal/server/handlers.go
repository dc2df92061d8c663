package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Merci306/minimalloc-merci/pkg/errors"
	"github.com/Merci306/minimalloc-merci/pkg/model"
	"github.com/Merci306/minimalloc-merci/pkg/pipeline"
	"github.com/Merci306/minimalloc-merci/pkg/store"
	"github.com/Merci306/minimalloc-merci/pkg/sweep"
)

// sweepRequest is the request body for POST /v1/sweep.
type sweepRequest struct {
	Problem  model.Problem `json:"problem"`
	SkipCuts bool          `json:"skip_cuts,omitempty"`
	Refresh  bool          `json:"refresh,omitempty"`
}

// sweepResponse is the response body for POST /v1/sweep and GET /v1/sweeps/{id}.
type sweepResponse struct {
	ID        string            `json:"id"`
	Cached    bool              `json:"cached,omitempty"`
	Problem   model.Problem     `json:"problem"`
	Result    sweep.SweepResult `json:"result"`
	Cuts      []sweep.CutCount  `json:"cuts,omitempty"`
	CreatedAt string            `json:"created_at,omitempty"`
}

// errorResponse is the body for all error statuses.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req sweepRequest
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidFormat, "invalid request body"))
		return
	}

	if err := req.Problem.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := pipeline.Options{SkipCuts: req.SkipCuts, Refresh: req.Refresh, Logger: s.logger}
	result, err := s.cfg.Runner.Analyze(r.Context(), &req.Problem, opts)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	run := store.NewRun(req.Problem, result.Sweep, result.Cuts)
	if err := s.cfg.Store.Put(r.Context(), run); err != nil {
		s.logger.Error("archive run", "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, sweepResponse{
		ID:        run.ID,
		Cached:    result.CacheInfo.SweepHit,
		Problem:   run.Problem,
		Result:    run.Result,
		Cuts:      run.Cuts,
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidFormat, "invalid limit"))
			return
		}
		limit = n
	}

	summaries, err := s.cfg.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if summaries == nil {
		summaries = []store.RunSummary{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": summaries})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.cfg.Store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrRunNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sweepResponse{
		ID:        run.ID,
		Problem:   run.Problem,
		Result:    run.Result,
		Cuts:      run.Cuts,
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.cfg.Store.Delete(r.Context(), id)
	if stderrors.Is(err, store.ErrRunNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: errors.UserMessage(err)}
	if code := errors.GetCode(err); code != "" {
		resp.Code = string(code)
	}
	s.writeJSON(w, status, resp)
}
