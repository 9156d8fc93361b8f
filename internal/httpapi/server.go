// Package httpapi is the thin HTTP transport over the allocation
// pipeline. It only maps payloads and error taxonomy to status codes;
// all decision logic lives in the pipeline.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"workalloc/internal/metrics"
	"workalloc/internal/model"
	"workalloc/internal/pipeline"
	"workalloc/internal/store"
	"workalloc/internal/timeutil"
)

// Server holds the handler dependencies.
type Server struct {
	pipeline *pipeline.Pipeline
	store    store.Store
}

// New constructs the HTTP handler.
func New(p *pipeline.Pipeline, s store.Store, allowedOrigins []string) http.Handler {
	srv := &Server{pipeline: p, store: s}

	r := chi.NewRouter()
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		}))
	}

	r.Get("/healthz", srv.handleHealth)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Post("/work", srv.handleIntake)
	r.Get("/work", srv.handleListWork)
	r.Post("/assign/{work_id}", srv.handleAssign)
	r.Get("/status/{work_id}", srv.handleStatus)
	r.Get("/pipeline/{work_id}", srv.handlePipeline)
	r.Get("/resources", srv.handleResources)
	r.Get("/resources/on-duty", srv.handleOnDuty)

	return r
}

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (srv *Server) handleIntake(w http.ResponseWriter, r *http.Request) {
	var params pipeline.IntakeParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	item, err := srv.pipeline.Intake(r.Context(), params)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	metrics.IntakeTotal.Inc()
	writeJSON(w, http.StatusCreated, map[string]interface{}{"status": "ok", "result": item})
}

func (srv *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "work_id")
	result, err := srv.pipeline.Assign(r.Context(), workID)
	if err != nil {
		metrics.AssignTotal.WithLabelValues(metrics.OutcomeError).Inc()
		writePipelineError(w, err)
		return
	}
	observeAssignment(result.AssignedTo != nil, result.Selected)
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "assignment": result})
}

func (srv *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "work_id")
	trace, err := srv.pipeline.AssignVerbose(r.Context(), workID)
	if err != nil {
		metrics.AssignTotal.WithLabelValues(metrics.OutcomeError).Inc()
		writePipelineError(w, err)
		return
	}
	observeAssignment(trace.Assignment.AssignedTo != nil, trace.Assignment.Selected)
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "pipeline": trace})
}

func (srv *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "work_id")
	item, err := srv.pipeline.Status(r.Context(), workID)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "work item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "work": item})
}

func (srv *Server) handleListWork(w http.ResponseWriter, r *http.Request) {
	limit := 25
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	items, err := srv.pipeline.List(r.Context(), limit, r.URL.Query().Get("status"))
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "work_requests": items})
}

func (srv *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	resources, err := srv.store.ListResources(r.Context())
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "resources": resources})
}

func (srv *Server) handleOnDuty(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := srv.store.GetOnDuty(r.Context(), date)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	if clock := r.URL.Query().Get("time"); clock != "" {
		at, err := timeutil.ParseClock(clock)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filtered := entries[:0]
		for _, e := range entries {
			inside, err := timeutil.WithinWindow(e.AvailableFrom, e.AvailableTo, at)
			if err == nil && inside {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "resources": entries})
}

func observeAssignment(assigned bool, selected *model.ScoredCandidate) {
	if assigned {
		metrics.AssignTotal.WithLabelValues(metrics.OutcomeAssigned).Inc()
		if selected != nil {
			metrics.TopScore.Observe(selected.Score)
		}
		return
	}
	metrics.AssignTotal.WithLabelValues(metrics.OutcomeNoCandidate).Inc()
}

func writePipelineError(w http.ResponseWriter, err error) {
	var validation *pipeline.ValidationError
	var format *pipeline.FormatError
	switch {
	case errors.As(err, &validation), errors.As(err, &format):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pipeline.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"status": "error", "error": msg})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
