package main

import (
	"MatchOpsApi/internal/data"
	"MatchOpsApi/internal/validator"
	"fmt"
	"net/http"
)

func (app *application) EditEventMinute(w http.ResponseWriter, r *http.Request) {
	eventID, err := app.readInt64Param(r, "eventID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		Minute *int `json:"minute"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(input.Minute != nil, "minute", "must be provided")
	if input.Minute != nil {
		data.ValidateMinute(v, *input.Minute)
	}
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	err = hub.EditMinute(eventID, *input.Minute)
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusAccepted, envelope{
		"message": fmt.Sprintf("event (%d) minute update accepted", eventID)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) RequestDeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := app.readInt64Param(r, "eventID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	confirmation, err := hub.RequestDeleteEvent(eventID)
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusAccepted, envelope{"confirmation": confirmation}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) RequestUndo(w http.ResponseWriter, r *http.Request) {
	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	confirmation, err := hub.RequestUndo()
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusAccepted, envelope{"confirmation": confirmation}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
