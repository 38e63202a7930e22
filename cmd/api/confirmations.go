package main

import (
	"fmt"
	"net/http"
)

func (app *application) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r, "cid")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	err = hub.Confirm(id)
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusAccepted, envelope{
		"message": fmt.Sprintf("confirmation (%s) accepted", id)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r, "cid")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	err = hub.Dismiss(id)
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"message": fmt.Sprintf("confirmation (%s) dismissed", id)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
