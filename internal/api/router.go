// Package api exposes the HTTP and WebSocket surface
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/savegress/plantpulse/internal/cache"
	"github.com/savegress/plantpulse/internal/insights"
	"github.com/savegress/plantpulse/internal/notify"
	"github.com/savegress/plantpulse/internal/reports"
	"github.com/savegress/plantpulse/internal/simulation"
	"github.com/savegress/plantpulse/internal/store"
)

// Server represents the API server
type Server struct {
	router     chi.Router
	store      store.RecordStore
	insights   *insights.Engine
	simulation *simulation.Engine
	reports    *reports.Service
	mailbox    *notify.Mailbox
	hub        *notify.Hub
	cache      *cache.Cache
	jwtSecret  string
}

// NewServer creates a new API server
func NewServer(
	recordStore store.RecordStore,
	insightEngine *insights.Engine,
	simulationEngine *simulation.Engine,
	reportService *reports.Service,
	mailbox *notify.Mailbox,
	hub *notify.Hub,
	responseCache *cache.Cache,
	jwtSecret string,
) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		store:      recordStore,
		insights:   insightEngine,
		simulation: simulationEngine,
		reports:    reportService,
		mailbox:    mailbox,
		hub:        hub,
		cache:      responseCache,
		jwtSecret:  jwtSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	s.router.Get("/health", s.healthCheck)

	// Real-time notification socket
	s.router.Get("/ws", s.serveWebSocket)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		// Insights
		r.Get("/insights", s.getInsights)
		r.Get("/optimization", s.getOptimization)

		// Simulation
		r.Post("/simulate", s.runSimulation)
		r.Get("/simulate/scenarios", s.getScenarios)

		// Predictions
		r.Get("/predictions", s.getPredictions)

		// Dashboards
		r.Route("/dashboards", func(r chi.Router) {
			r.Get("/oee", s.getOEEDashboard)
			r.Get("/scrap", s.getScrapDashboard)
			r.Get("/financial", s.getFinancialDashboard)
			r.Get("/customers", s.getCustomerDashboard)
			r.Get("/projects", s.getProjectsDashboard)
		})

		// Record ingestion
		r.Route("/records", func(r chi.Router) {
			r.Post("/production", s.ingestSample)
			r.Post("/defects", s.ingestDefect)
			r.Post("/jobs", s.ingestJob)
			r.Post("/financial", s.ingestPeriod)
			r.Post("/feedback", s.ingestFeedback)
			r.Post("/deliveries", s.ingestDelivery)
			r.Post("/projects", s.ingestProject)
		})

		// Notifications
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.listNotifications)
			r.Post("/{id}/read", s.markNotificationRead)

			r.Group(func(r chi.Router) {
				if s.jwtSecret != "" {
					r.Use(AuthMiddleware(s.jwtSecret))
				}
				r.Post("/broadcast", s.broadcastNotification)
			})
		})

		// Stats
		r.Get("/stats/notifications", s.getNotificationStats)
	})
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}
