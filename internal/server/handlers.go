package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/justinas/nosurf"

	"navd/internal/model"
	"navd/internal/service"
	"navd/internal/source"
)

type errorResponse struct {
	Error string `json:"error"`
}

type sidebarResponse struct {
	Modules []model.SidebarModuleGroup `json:"modules"`
}

type tabsResponse struct {
	Module string                `json:"module"`
	Tabs   []model.ModuleTabItem `json:"tabs"`
}

type areaOptionsResponse struct {
	Options []model.AreaOption `json:"options"`
}

func (app *Application) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.Error("Error writing JSON response", "error", err)
	}
}

// writeError maps err to a status code and logs it.
func (app *Application) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"
	switch {
	case errors.Is(err, source.ErrUpstream):
		status = http.StatusBadGateway
		message = "navigation backend unavailable"
	case errors.Is(err, source.ErrNoSource), errors.Is(err, service.ErrMomentumDisabled):
		status = http.StatusServiceUnavailable
		message = err.Error()
	}
	app.logger.Error("Request failed", "path", r.URL.Path, "status", status, "error", err)
	app.writeJSON(w, status, errorResponse{Error: message})
}

func userFrom(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(UserHeader))
}

func (app *Application) healthHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (app *Application) csrfTokenHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, map[string]string{"token": nosurf.Token(r)})
}

func (app *Application) sidebarHandler(w http.ResponseWriter, r *http.Request) {
	groups, err := app.navigator.Sidebar(r.Context())
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, sidebarResponse{Modules: groups})
}

func (app *Application) tabsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	module, tabs, err := app.navigator.Tabs(r.Context(), query.Get("module"), query.Get("path"))
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, tabsResponse{Module: module, Tabs: tabs})
}

func (app *Application) areaOptionsHandler(w http.ResponseWriter, r *http.Request) {
	options, err := app.navigator.AreaOptions(r.Context())
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, areaOptionsResponse{Options: options})
}

func (app *Application) momentumHandler(w http.ResponseWriter, r *http.Request) {
	state, err := app.navigator.Momentum(r.Context(), userFrom(r))
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, state)
}

func (app *Application) recordAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	state, err := app.navigator.RecordAssignment(r.Context(), userFrom(r))
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, state)
}

func (app *Application) resetMomentumHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.navigator.ResetMomentum(r.Context(), userFrom(r)); err != nil {
		app.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
