package main

import (
	"MatchOpsApi/internal/data"
	"MatchOpsApi/internal/gamehub"
	"MatchOpsApi/internal/validator"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CaptureStep advances the event capture flow. The event is saved in the background once
// the final step is taken; the response carries the machine state after the step.
func (app *application) CaptureStep(w http.ResponseWriter, r *http.Request) {
	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	var (
		view gamehub.CaptureView
		err  error
	)

	switch chi.URLParam(r, "step") {
	case "action":
		var input struct {
			Type *data.EventType `json:"type"`
		}
		if err = app.readJSON(w, r, &input); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		if input.Type == nil {
			app.failedValidationResponse(w, r, map[string]string{"type": "must be provided"})
			return
		}
		view, err = hub.TriggerAction(*input.Type)

	case "team":
		var input struct {
			TeamID   int64  `json:"team_id"`
			TeamName string `json:"team_name"`
		}
		if err = app.readJSON(w, r, &input); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		v := validator.New()
		v.Check(input.TeamID > 0, "team_id", "must be provided")
		v.Check(len(input.TeamName) <= 100, "team_name", "must not be more than 100 bytes long")
		if !v.Valid() {
			app.failedValidationResponse(w, r, v.Errors)
			return
		}
		view, err = hub.SelectTeam(input.TeamID, input.TeamName)

	case "player":
		var input struct {
			PlayerID int64 `json:"player_id"`
		}
		if err = app.readJSON(w, r, &input); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		if input.PlayerID <= 0 {
			app.failedValidationResponse(w, r, map[string]string{"player_id": "must be provided"})
			return
		}
		view, err = hub.SelectPlayer(input.PlayerID)

	case "cancel":
		view, err = hub.CancelAction()

	default:
		app.notFoundResponse(w, r)
		return
	}

	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"capture": view}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetPool(w http.ResponseWriter, r *http.Request) {
	teamID, err := app.readInt64Param(r, "team")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	pool, err := hub.Pool(teamID)
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"pool": pool}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
