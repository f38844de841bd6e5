package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"docextract/internal/handlers"
	"docextract/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ExtractService service.ExtractService
	Workbooks      handlers.TableWriter
	HealthChecks   map[string]handlers.Check
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(Recoverer)

	// Add CORS middleware
	r.Use(CORS)

	extractHandler := handlers.NewExtractHandler(deps.ExtractService, deps.Workbooks)
	runsHandler := handlers.NewRunsHandler(deps.ExtractService)
	profilesHandler := handlers.NewProfilesHandler(deps.ExtractService)
	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Route("/v1", func(r chi.Router) {
			r.Method(http.MethodPost, "/extract", extractHandler)
			r.Get("/runs", runsHandler.List)
			r.Get("/runs/{id}", runsHandler.Get)
			r.Method(http.MethodGet, "/profiles", profilesHandler)
		})
	})

	return r
}
