package main

import (
	"MatchOpsApi/internal/gamehub"
	"MatchOpsApi/internal/pins"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

func (app *application) newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(app.config.cors.trustedOrigins) == 0 {
				return true
			}
			return slices.Contains(app.config.cors.trustedOrigins, origin)
		},
	}
}

// WatchMatch streams a live session to spectators who know its pin.
func (app *application) WatchMatch(w http.ResponseWriter, r *http.Request) {
	pin := strings.ToLower(chi.URLParam(r, "pin"))
	if !pins.Valid(pin) {
		app.notFoundResponse(w, r)
		return
	}

	hub, err := app.hubs.GetByPin(pin)
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	app.watch(w, r, hub, false)
}

// WatchSession streams a live session to an authenticated user, with edit rights when the
// user holds them.
func (app *application) WatchSession(w http.ResponseWriter, r *http.Request) {
	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	app.watch(w, r, hub, app.canEdit(r))
}

func (app *application) watch(w http.ResponseWriter, r *http.Request, hub *gamehub.Hub,
	canEdit bool) {
	conn, err := app.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		app.logError(r, err)
		return
	}

	err = hub.JoinWatcher(conn, canEdit)
	if err != nil {
		app.logError(r, err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, err.Error()))
		_ = conn.Close()
	}
}
