package main

import (
	"MatchOpsApi/internal/gamehub"
	"net/http"
)

// RequestStatus queues a match status change for confirmation.
func (app *application) RequestStatus(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Action string `json:"action"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	action, err := gamehub.ParseStatusAction(input.Action)
	if err != nil {
		app.failedValidationResponse(w, r, map[string]string{
			"action": `must be one of "start", "halftime", "resume", "fulltime" or "cancel"`,
		})
		return
	}

	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	confirmation, err := hub.RequestStatus(action)
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusAccepted, envelope{"confirmation": confirmation}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
