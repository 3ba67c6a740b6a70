package routes

import (
	"net/http"

	"github.com/Hashemselim/findabatherapy/internal/api/handlers"
	"github.com/Hashemselim/findabatherapy/internal/api/middleware"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	jobHandler       *handlers.JobHandler
	listingHandler   *handlers.ListingHandler
	geocodingHandler *handlers.GeocodingHandler
	insuranceHandler *handlers.InsuranceHandler
	analyticsHandler *handlers.AnalyticsHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	jobHandler *handlers.JobHandler,
	listingHandler *handlers.ListingHandler,
	geocodingHandler *handlers.GeocodingHandler,
	insuranceHandler *handlers.InsuranceHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		jobHandler:       jobHandler,
		listingHandler:   listingHandler,
		geocodingHandler: geocodingHandler,
		insuranceHandler: insuranceHandler,
		analyticsHandler: analyticsHandler,
		cacheMiddleware:  cacheMiddleware,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Job posting endpoints
	r.mux.HandleFunc("GET /api/jobs/search", r.jobHandler.SearchJobs)
	r.mux.HandleFunc("GET /api/jobs/{id}", r.jobHandler.GetJob)
	r.mux.HandleFunc("POST /api/jobs", r.jobHandler.CreateJob)
	r.mux.HandleFunc("DELETE /api/jobs/{id}", r.jobHandler.DeactivateJob)

	// Provider listing endpoints
	r.mux.HandleFunc("GET /api/listings/search", r.listingHandler.SearchListings)
	r.mux.HandleFunc("GET /api/listings/{id}", r.listingHandler.GetListing)
	r.mux.HandleFunc("POST /api/listings", r.listingHandler.CreateListing)

	// Geocoding endpoint
	r.mux.HandleFunc("GET /api/geocode", r.geocodingHandler.Geocode)

	// Insurance endpoints
	r.mux.HandleFunc("GET /api/insurance-providers", r.insuranceHandler.ListInsuranceProviders)

	// Analytics endpoints
	if r.analyticsHandler != nil {
		r.mux.HandleFunc("GET /api/analytics/zero-result-queries", r.analyticsHandler.GetZeroResultQueries)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
