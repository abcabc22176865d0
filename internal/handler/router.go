package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/faultline/faultline/pkg/middleware"
)

// Router assembles the HTTP surface
type Router struct {
	analysisHandler *AnalysisHandler
	feedbackHandler *FeedbackHandler
	healthHandler   *HealthHandler
	corsConfig      middleware.CORSConfig
}

// NewRouter creates a new router
func NewRouter(
	analysisHandler *AnalysisHandler,
	feedbackHandler *FeedbackHandler,
	healthHandler *HealthHandler,
	corsConfig middleware.CORSConfig,
) *Router {
	return &Router{
		analysisHandler: analysisHandler,
		feedbackHandler: feedbackHandler,
		healthHandler:   healthHandler,
		corsConfig:      corsConfig,
	}
}

// Handler returns the configured HTTP handler with middleware
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CorrelationID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(rt.corsConfig))

	// Probes
	r.Get("/health", rt.healthHandler.Health)
	r.Get("/ready", rt.healthHandler.Ready)

	// Analysis
	r.Post("/artifacts/analyze", rt.analysisHandler.Analyze)
	r.Post("/analyze", rt.analysisHandler.Analyze) // undocumented alias
	r.Get("/jobs", rt.analysisHandler.List)
	r.Get("/jobs/{job_id}", rt.analysisHandler.GetJob)
	r.Get("/jobs/{job_id}/result", rt.analysisHandler.GetResult)

	// Feedback
	r.Post("/feedback", rt.feedbackHandler.Post)
	r.Get("/feedback/{job_id}", rt.feedbackHandler.List)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Faultline API"})
	})

	return r
}
