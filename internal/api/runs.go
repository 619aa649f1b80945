package api

import (
	"net/http"
	"strconv"

	"deliveryplan/internal/model"
)

// RunsIndexHandler handles GET /v1/runs
func (s *Server) RunsIndexHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r, Principal.CanPlan, "dispatcher or admin")
	if !ok {
		return
	}
	q := r.URL.Query()
	algo := q.Get("algorithm")
	switch algo {
	case "", model.AlgoSchedule, model.AlgoLoad, model.AlgoAssign:
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid algorithm", "algorithm must be one of schedule, load, assign", r.URL.Path)
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	items, next, err := s.Store.ListRuns(r.Context(), tenantFor(p, q.Get("tenantId")), algo, q.Get("cursor"), limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List runs failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// RunByIDHandler handles GET /v1/runs/{id}
func (s *Server) RunByIDHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r, Principal.CanPlan, "dispatcher or admin")
	if !ok {
		return
	}
	run, err := s.Store.GetRun(r.Context(), tenantFor(p, r.URL.Query().Get("tenantId")), r.PathValue("id"))
	if err != nil {
		writeError(w, r, "Get run failed", err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// queryLimit parses ?limit=; zero means the store default.
func queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be a non-negative integer", r.URL.Path)
		return 0, false
	}
	return n, true
}
