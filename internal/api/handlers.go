package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/savegress/plantpulse/internal/cache"
	"github.com/savegress/plantpulse/internal/reports"
	"github.com/savegress/plantpulse/internal/simulation"
	"github.com/savegress/plantpulse/pkg/models"
)

// Default query windows
const (
	insightWindow   = 7 * 24 * time.Hour
	dashboardWindow = 30 * 24 * time.Hour
)

// Health check
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "plantpulse",
		"time":    time.Now().UTC(),
	})
}

// Insight handlers

func (s *Server) getInsights(w http.ResponseWriter, r *http.Request) {
	line := r.URL.Query().Get("line")
	start, end := parseDateRange(r, insightWindow)

	// Insights are cached alongside the dashboard views so record
	// ingestion invalidates them too
	key := cache.DashboardKey("insights", line, start.Format("2006-01-02"), end.Format("2006-01-02"))

	var cached []*models.Insight
	if err := s.cache.Get(r.Context(), key, &cached); err == nil {
		respondData(w, http.StatusOK, cached)
		return
	}

	insightList, err := s.insights.Generate(r.Context(), line, start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.cacheSet(r, key, insightList, cache.TTLInsights)
	respondData(w, http.StatusOK, insightList)
}

func (s *Server) getOptimization(w http.ResponseWriter, r *http.Request) {
	line := r.URL.Query().Get("line")
	if line == "" {
		respondError(w, http.StatusBadRequest, "line is required")
		return
	}
	station := r.URL.Query().Get("station")

	suggestions, err := s.insights.Optimize(r.Context(), line, station)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondData(w, http.StatusOK, suggestions)
}

// Simulation handlers

func (s *Server) runSimulation(w http.ResponseWriter, r *http.Request) {
	var req models.SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Line == "" {
		respondError(w, http.StatusBadRequest, "line is required")
		return
	}

	result, err := s.simulation.Run(r.Context(), &req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondData(w, http.StatusOK, result)
}

func (s *Server) getScenarios(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, simulation.Scenarios())
}

// Prediction handlers

func (s *Server) getPredictions(w http.ResponseWriter, r *http.Request) {
	metric := models.PredictionMetric(r.URL.Query().Get("metric"))
	line := r.URL.Query().Get("line")

	days := 0
	if d := r.URL.Query().Get("days"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil {
			days = parsed
		}
	}

	predictions, err := s.reports.Predict(r.Context(), metric, line, days)
	if err != nil {
		if errors.Is(err, reports.ErrInvalidMetric) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondData(w, http.StatusOK, predictions)
}

// Helper functions

// parseDateRange reads start_date/end_date query params, falling back to
// a trailing window ending now. Dates accept 2006-01-02 or RFC3339.
func parseDateRange(r *http.Request, window time.Duration) (time.Time, time.Time) {
	end := time.Now().UTC()
	if e := r.URL.Query().Get("end_date"); e != "" {
		if t, ok := parseDate(e); ok {
			end = t
		}
	}

	start := end.Add(-window)
	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, ok := parseDate(s); ok {
			start = t
		}
	}

	return start, end
}

func parseDate(value string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondData wraps a successful payload in the standard envelope
func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}
