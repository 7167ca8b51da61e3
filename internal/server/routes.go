package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/justinas/nosurf"
)

// Routes sets up the HTTP router.
func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))
	r.Use(app.csrf)

	r.Get("/healthz", app.healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/csrf", app.csrfTokenHandler)

		r.Get("/navigation/sidebar", app.sidebarHandler)
		r.Get("/navigation/tabs", app.tabsHandler)
		r.Get("/areas/options", app.areaOptionsHandler)

		r.Get("/momentum", app.momentumHandler)
		r.Post("/momentum/assignments", app.recordAssignmentHandler)
		r.Delete("/momentum", app.resetMomentumHandler)
	})

	return r
}

// csrf requires the nosurf token on every unsafe method. Clients fetch it
// from /api/csrf and send it back in the X-CSRF-Token header.
func (app *Application) csrf(next http.Handler) http.Handler {
	h := nosurf.New(next)
	h.SetBaseCookie(http.Cookie{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   nosurf.MaxAge,
	})
	h.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.Warn("CSRF check failed", "path", r.URL.Path, "reason", nosurf.Reason(r))
		app.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid CSRF token"})
	}))
	return h
}
