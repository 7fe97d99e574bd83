package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/savegress/plantpulse/internal/cache"
	"github.com/savegress/plantpulse/pkg/models"
)

// Record ingestion handlers. Every insert invalidates the dashboard
// cache so the next read reflects the new data.

func (s *Server) ingestSample(w http.ResponseWriter, r *http.Request) {
	var sample models.ProductionSample
	if err := json.NewDecoder(r.Body).Decode(&sample); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if sample.Line == "" {
		respondError(w, http.StatusBadRequest, "line is required")
		return
	}

	if err := s.store.InsertSample(r.Context(), &sample); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.invalidateDashboards(r)
	respondData(w, http.StatusCreated, &sample)
}

func (s *Server) ingestDefect(w http.ResponseWriter, r *http.Request) {
	var defect models.DefectEvent
	if err := json.NewDecoder(r.Body).Decode(&defect); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if defect.Line == "" || defect.DefectType == "" {
		respondError(w, http.StatusBadRequest, "line and defect_type are required")
		return
	}

	if err := s.store.InsertDefect(r.Context(), &defect); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.invalidateDashboards(r)
	respondData(w, http.StatusCreated, &defect)
}

func (s *Server) ingestJob(w http.ResponseWriter, r *http.Request) {
	var job models.JobRecord
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if job.Line == "" {
		respondError(w, http.StatusBadRequest, "line is required")
		return
	}
	if job.Status == "" {
		job.Status = models.JobStatusPending
	}

	if err := s.store.InsertJob(r.Context(), &job); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.invalidateDashboards(r)
	respondData(w, http.StatusCreated, &job)
}

func (s *Server) ingestPeriod(w http.ResponseWriter, r *http.Request) {
	var period models.FinancialPeriod
	if err := json.NewDecoder(r.Body).Decode(&period); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if period.Period == "" {
		respondError(w, http.StatusBadRequest, "period is required")
		return
	}

	if err := s.store.InsertPeriod(r.Context(), &period); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.invalidateDashboards(r)
	respondData(w, http.StatusCreated, &period)
}

func (s *Server) ingestFeedback(w http.ResponseWriter, r *http.Request) {
	var feedback models.CustomerFeedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if feedback.Rating < 1 || feedback.Rating > 5 {
		respondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	if err := s.store.InsertFeedback(r.Context(), &feedback); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.invalidateDashboards(r)
	respondData(w, http.StatusCreated, &feedback)
}

func (s *Server) ingestDelivery(w http.ResponseWriter, r *http.Request) {
	var delivery models.DeliveryEvent
	if err := json.NewDecoder(r.Body).Decode(&delivery); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if delivery.Customer == "" {
		respondError(w, http.StatusBadRequest, "customer is required")
		return
	}

	if err := s.store.InsertDelivery(r.Context(), &delivery); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.invalidateDashboards(r)
	respondData(w, http.StatusCreated, &delivery)
}

func (s *Server) ingestProject(w http.ResponseWriter, r *http.Request) {
	var project models.ImprovementProject
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if project.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusBacklog
	}

	if err := s.store.InsertProject(r.Context(), &project); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Projects feed only the kanban view, so a targeted delete beats a
	// full dashboard invalidation
	if err := s.cache.Delete(r.Context(), cache.DashboardKey("projects")); err != nil {
		log.Printf("cache invalidation: %v", err)
	}
	respondData(w, http.StatusCreated, &project)
}

func (s *Server) invalidateDashboards(r *http.Request) {
	if err := s.cache.InvalidateDashboards(r.Context()); err != nil {
		log.Printf("cache invalidation: %v", err)
	}
}
