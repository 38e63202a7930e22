package main

import (
	"MatchOpsApi/internal/gamehub"
	"MatchOpsApi/internal/validator"
	"net/http"
)

const maxClockMinutes = 200

func (app *application) ClockAction(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Action  string `json:"action"`
		Minutes *int   `json:"minutes"`
		Seconds *int   `json:"seconds"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(validator.PermittedValue(input.Action, "start", "pause", "adjust", "set"), "action",
		`must be one of "start", "pause", "adjust" or "set"`)
	switch input.Action {
	case "adjust":
		v.Check(input.Minutes != nil, "minutes", "must be provided")
		if input.Minutes != nil {
			v.Check(*input.Minutes >= -maxClockMinutes && *input.Minutes <= maxClockMinutes,
				"minutes", "must be between -200 and 200")
		}
	case "set":
		v.Check(input.Seconds != nil, "seconds", "must be provided")
		if input.Seconds != nil {
			v.Check(*input.Seconds >= 0, "seconds", "must be 0 or greater")
			v.Check(*input.Seconds <= maxClockMinutes*60, "seconds", "must be 12000 or less")
		}
	}
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	var view gamehub.ClockView
	switch input.Action {
	case "start":
		view, err = hub.StartClock()
	case "pause":
		view, err = hub.PauseClock()
	case "adjust":
		view, err = hub.AdjustClock(*input.Minutes)
	case "set":
		view, err = hub.SetClock(*input.Seconds)
	}
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"clock": view}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
