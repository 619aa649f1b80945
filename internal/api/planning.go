package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"deliveryplan/internal/metrics"
	"deliveryplan/internal/model"
	"deliveryplan/internal/opt"
)

// ScheduleDeliveriesHandler handles POST /v1/deliveries/schedule
func (s *Server) ScheduleDeliveriesHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r, Principal.CanPlan, "dispatcher or admin")
	if !ok {
		return
	}
	var req model.ScheduleRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := validateWindows("windows", req.Windows); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid schedule request", err.Error(), r.URL.Path)
		return
	}

	start := time.Now()
	selected, err := opt.SelectActivities(toIntervals(req.Windows))
	elapsed := time.Since(start)
	if err != nil {
		observeRun(model.AlgoSchedule, len(req.Windows), elapsed, err)
		writeError(w, r, "Invalid time windows", err)
		return
	}
	observeRun(model.AlgoSchedule, len(req.Windows), elapsed, nil)

	resp := model.ScheduleResponse{Selected: selected, Count: len(selected), Total: len(req.Windows)}
	summary := map[string]any{"count": resp.Count, "total": resp.Total}
	runID, err := s.recordRun(r.Context(), tenantFor(p, req.TenantID), model.AlgoSchedule, len(req.Windows), elapsed, summary, resp)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save run failed", err.Error(), r.URL.Path)
		return
	}
	resp.RunID = runID
	writeJSON(w, http.StatusOK, resp)
}

// OptimizeLoadHandler handles POST /v1/loads/optimize
func (s *Server) OptimizeLoadHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r, Principal.CanPlan, "dispatcher or admin")
	if !ok {
		return
	}
	var req model.LoadRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := validatePackages(req.Packages); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid load request", err.Error(), r.URL.Path)
		return
	}

	start := time.Now()
	res, err := opt.OptimizeLoad(toItems(req.Packages), req.WeightLimit)
	elapsed := time.Since(start)
	observeRun(model.AlgoLoad, len(req.Packages), elapsed, err)
	if err != nil {
		writeError(w, r, "Invalid packages", err)
		return
	}

	resp := model.LoadResponse{TotalPriority: res.TotalValue, TotalWeight: res.TotalWeight, Packages: make([]model.LoadedPackage, len(res.Items))}
	for i, it := range res.Items {
		resp.Packages[i] = model.LoadedPackage{PackageID: it.ID, Fraction: it.Fraction}
	}
	summary := map[string]any{"totalPriority": resp.TotalPriority, "totalWeight": resp.TotalWeight, "weightLimit": req.WeightLimit, "loaded": len(resp.Packages)}
	runID, err := s.recordRun(r.Context(), tenantFor(p, req.TenantID), model.AlgoLoad, len(req.Packages), elapsed, summary, resp)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save run failed", err.Error(), r.URL.Path)
		return
	}
	resp.RunID = runID
	writeJSON(w, http.StatusOK, resp)
}

// AssignDriversHandler handles POST /v1/drivers/assign
func (s *Server) AssignDriversHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r, Principal.CanPlan, "dispatcher or admin")
	if !ok {
		return
	}
	var req model.AssignRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := validateWindows("deliveries", req.Deliveries); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid assign request", err.Error(), r.URL.Path)
		return
	}

	ivs := toIntervals(req.Deliveries)
	start := time.Now()
	res, err := opt.PartitionIntervals(ivs)
	elapsed := time.Since(start)
	observeRun(model.AlgoAssign, len(ivs), elapsed, err)
	if err != nil {
		writeError(w, r, "Invalid time windows", err)
		return
	}

	resp := model.AssignResponse{NumDrivers: res.TrackCount, MaxOverlap: opt.MaxOverlap(ivs), Assignments: res.Assignments}
	summary := map[string]any{"numDrivers": resp.NumDrivers, "maxOverlap": resp.MaxOverlap, "total": len(ivs)}
	runID, err := s.recordRun(r.Context(), tenantFor(p, req.TenantID), model.AlgoAssign, len(ivs), elapsed, summary, resp)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save run failed", err.Error(), r.URL.Path)
		return
	}
	resp.RunID = runID
	writeJSON(w, http.StatusOK, resp)
}

func observeRun(algo string, size int, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "invalid"
	}
	metrics.OptimizerRuns.WithLabelValues(algo, outcome).Inc()
	metrics.OptimizerInputSize.WithLabelValues(algo).Observe(float64(size))
	if err == nil {
		metrics.OptimizerDuration.WithLabelValues(algo).Observe(elapsed.Seconds())
	}
}

// recordRun persists the run, then fans out run.completed to stream
// subscribers and webhooks. Fan-out failures are logged, not returned.
func (s *Server) recordRun(ctx context.Context, tenant, algo string, size int, elapsed time.Duration, summary map[string]any, result any) (string, error) {
	body, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	run, err := s.Store.SaveRun(ctx, model.Run{
		TenantID:   tenant,
		Algorithm:  algo,
		InputSize:  size,
		DurationUs: elapsed.Microseconds(),
		Summary:    summary,
		Result:     body,
	})
	if err != nil {
		metrics.OptimizerRuns.WithLabelValues(algo, "error").Inc()
		return "", err
	}

	event := map[string]any{"runId": run.ID, "algorithm": algo, "inputSize": size, "summary": summary, "createdAt": run.CreatedAt.Format(time.RFC3339Nano)}
	s.Broker.Publish(tenant, RunEvent{Type: model.EventRunCompleted, Data: event})
	if n, err := s.Pub.Emit(ctx, tenant, model.EventRunCompleted, event); err != nil {
		s.Log.Error().Err(err).Str("tenant", tenant).Str("run", run.ID).Msg("enqueue run.completed webhooks")
	} else if n > 0 {
		s.Log.Debug().Str("tenant", tenant).Str("run", run.ID).Int("deliveries", n).Msg("queued webhooks")
	}
	s.Log.Info().Str("tenant", tenant).Str("algorithm", algo).Str("run", run.ID).Int("inputSize", size).Dur("elapsed", elapsed).Msg("planning run completed")
	return run.ID, nil
}
