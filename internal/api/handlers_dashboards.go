package api

import (
	"log"
	"net/http"
	"time"

	"github.com/savegress/plantpulse/internal/cache"
	"github.com/savegress/plantpulse/internal/reports"
)

// Dashboard handlers. Each view is cached under a key derived from its
// query parameters; cache failures degrade to a direct computation.

func (s *Server) getOEEDashboard(w http.ResponseWriter, r *http.Request) {
	line := r.URL.Query().Get("line")
	start, end := parseDateRange(r, dashboardWindow)
	key := cache.DashboardKey("oee", line, start.Format("2006-01-02"), end.Format("2006-01-02"))

	var cached reports.OEEDashboard
	if err := s.cache.Get(r.Context(), key, &cached); err == nil {
		respondData(w, http.StatusOK, &cached)
		return
	}

	dashboard, err := s.reports.OEE(r.Context(), line, start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.cacheSet(r, key, dashboard, cache.TTLOEE)
	respondData(w, http.StatusOK, dashboard)
}

func (s *Server) getScrapDashboard(w http.ResponseWriter, r *http.Request) {
	line := r.URL.Query().Get("line")
	start, end := parseDateRange(r, dashboardWindow)
	key := cache.DashboardKey("scrap", line, start.Format("2006-01-02"), end.Format("2006-01-02"))

	var cached reports.ParetoDashboard
	if err := s.cache.Get(r.Context(), key, &cached); err == nil {
		respondData(w, http.StatusOK, &cached)
		return
	}

	dashboard, err := s.reports.ScrapPareto(r.Context(), line, start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.cacheSet(r, key, dashboard, cache.TTLScrap)
	respondData(w, http.StatusOK, dashboard)
}

func (s *Server) getFinancialDashboard(w http.ResponseWriter, r *http.Request) {
	start, end := parseDateRange(r, dashboardWindow)
	key := cache.DashboardKey("financial", start.Format("2006-01-02"), end.Format("2006-01-02"))

	var cached reports.FinancialDashboard
	if err := s.cache.Get(r.Context(), key, &cached); err == nil {
		respondData(w, http.StatusOK, &cached)
		return
	}

	dashboard, err := s.reports.Financial(r.Context(), start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.cacheSet(r, key, dashboard, cache.TTLFinancial)
	respondData(w, http.StatusOK, dashboard)
}

func (s *Server) getCustomerDashboard(w http.ResponseWriter, r *http.Request) {
	start, end := parseDateRange(r, dashboardWindow)
	key := cache.DashboardKey("customers", start.Format("2006-01-02"), end.Format("2006-01-02"))

	var cached reports.CustomerDashboard
	if err := s.cache.Get(r.Context(), key, &cached); err == nil {
		respondData(w, http.StatusOK, &cached)
		return
	}

	dashboard, err := s.reports.Customers(r.Context(), start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.cacheSet(r, key, dashboard, cache.TTLCustomers)
	respondData(w, http.StatusOK, dashboard)
}

func (s *Server) getProjectsDashboard(w http.ResponseWriter, r *http.Request) {
	key := cache.DashboardKey("projects")

	var cached reports.KanbanBoard
	if err := s.cache.Get(r.Context(), key, &cached); err == nil {
		respondData(w, http.StatusOK, &cached)
		return
	}

	board, err := s.reports.Projects(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.cacheSet(r, key, board, cache.TTLProjects)
	respondData(w, http.StatusOK, board)
}

func (s *Server) cacheSet(r *http.Request, key string, value interface{}, ttl time.Duration) {
	if err := s.cache.Set(r.Context(), key, value, ttl); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}
