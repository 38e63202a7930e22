package main

import (
	"MatchOpsApi/internal/data"
	"expvar"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	router := chi.NewRouter()

	// Router
	router.NotFound(app.notFoundResponse)
	router.MethodNotAllowed(app.methodNotAllowedRequest)

	// Middleware
	router.Use(app.metrics)
	router.Use(app.recoverPanic)
	router.Use(app.enableCORS)
	router.Use(app.rateLimit)
	router.Use(app.authenticate)

	// Healthcheck
	router.Get("/v1/healthcheck", app.HealthCheck)
	router.Method(http.MethodGet, "/v1/metrics", expvar.Handler())

	// Public watcher stream
	router.Get("/v1/watch/{pin}", app.WatchMatch)

	// Live match endpoints
	router.Route("/v1/match/{id}", func(router chi.Router) {
		router.Group(func(router chi.Router) {
			router.Use(app.requireAuthenticatedUser)
			router.Get("/session", app.GetSession)
			router.Get("/session/watch", app.WatchSession)
			router.Get("/capture/pool/{team}", app.GetPool)
			router.Get("/lineup/{side}", app.GetLineup)
		})

		router.Group(func(router chi.Router) {
			router.Use(func(next http.Handler) http.Handler {
				return app.requirePermission(data.PermissionMatchesWrite, next)
			})
			router.Post("/session", app.OpenSession)
			router.Delete("/session", app.CloseSession)

			router.Post("/clock", app.ClockAction)

			router.Post("/capture/{step}", app.CaptureStep)

			router.Post("/events/undo", app.RequestUndo)
			router.Patch("/events/{eventID}", app.EditEventMinute)
			router.Delete("/events/{eventID}", app.RequestDeleteEvent)

			router.Post("/status", app.RequestStatus)
			router.Post("/confirmations/{cid}", app.Confirm)
			router.Delete("/confirmations/{cid}", app.Dismiss)

			router.Post("/lineup/{side}/move", app.MoveLineup)
			router.Put("/lineup/{side}", app.SaveLineup)
		})
	})

	return router
}
