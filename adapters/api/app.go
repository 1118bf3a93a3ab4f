package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rick2x/fieldprofiler/app"
	"github.com/rick2x/fieldprofiler/domain/profile"
	"github.com/rick2x/fieldprofiler/internal"
)

// App represents the HTTP API application
type App struct {
	router   *chi.Mux
	profiles *app.ProfileService
	exports  *app.ExportService
	sources  *SourceResolver
	defaults profile.Config
	logger   *internal.Logger
}

// NewApp creates the API application and wires its routes
func NewApp(profiles *app.ProfileService, exports *app.ExportService, sources *SourceResolver, defaults profile.Config, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	a := &App{
		router:   chi.NewRouter(),
		profiles: profiles,
		exports:  exports,
		sources:  sources,
		defaults: defaults,
		logger:   logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/api/health", a.handleHealth)
	a.router.Get("/api/layers/{layer}/fields", a.handleListFields)
	a.router.Post("/api/layers/{layer}/profile", a.handleProfile)
	a.router.Delete("/api/layers/{layer}/cache", a.handleDropLayerCache)
	a.router.Get("/api/runs/{id}", a.handleGetRun)
	a.router.Post("/api/runs/{id}/select", a.handleSelect)
	a.router.Get("/api/runs/{id}/export", a.handleExport)
}

// Router exposes the HTTP handler for serving and tests.
func (a *App) Router() http.Handler {
	return a.router
}
