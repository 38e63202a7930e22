package main

import (
	"MatchOpsApi/internal/gamehub"
	"fmt"
	"net/http"
)

// session resolves the live session named by the {id} URL parameter, writing the error
// response itself when there is none.
func (app *application) session(w http.ResponseWriter, r *http.Request) (*gamehub.Hub, bool) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return nil, false
	}

	hub, err := app.hubs.Get(id)
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return nil, false
	}

	return hub, true
}

func (app *application) OpenSession(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	hub, err := app.hubs.Open(r.Context(), id, app.contextGetUser(r))
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	snapshot, err := hub.Snapshot(true)
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/watch/%s", hub.Pin))
	err = app.writeJSON(w, http.StatusCreated, envelope{"session": snapshot}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetSession(w http.ResponseWriter, r *http.Request) {
	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	snapshot, err := hub.Snapshot(app.canEdit(r))
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"session": snapshot}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) CloseSession(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.hubs.Close(id)
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"message": fmt.Sprintf("live session for match (%d) closed", id)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
