package main

import (
	"MatchOpsApi/internal/data"
	"MatchOpsApi/internal/lineup"
	"MatchOpsApi/internal/validator"
	"net/http"
)

func (app *application) GetLineup(w http.ResponseWriter, r *http.Request) {
	side, err := app.readSideParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	view, err := hub.Lineup(side, app.canEdit(r))
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"lineup": view}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// MoveLineup applies a completed drag. The drop lands either on a container (role) or on
// a player; for a player drop the client sends either below or the pointer geometry.
func (app *application) MoveLineup(w http.ResponseWriter, r *http.Request) {
	side, err := app.readSideParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		ActiveID int64 `json:"active_id"`
		Over     struct {
			Role     *data.LineupRole `json:"role"`
			PlayerID *int64           `json:"player_id"`
		} `json:"over"`
		Below   bool `json:"below"`
		Pointer *struct {
			Y      float64 `json:"y"`
			Top    float64 `json:"top"`
			Height float64 `json:"height"`
		} `json:"pointer"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(input.ActiveID > 0, "active_id", "must be provided")
	v.Check((input.Over.Role == nil) != (input.Over.PlayerID == nil), "over",
		"must name exactly one of role or player_id")
	if input.Over.PlayerID != nil {
		v.Check(*input.Over.PlayerID > 0, "over", "player_id must be a positive integer")
	}
	if input.Pointer != nil {
		v.Check(input.Pointer.Height > 0, "pointer", "height must be greater than zero")
	}
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	drop := lineup.Drop{ActiveID: input.ActiveID, Below: input.Below}
	if input.Over.PlayerID != nil {
		drop.Over = lineup.OnPlayer(*input.Over.PlayerID)
		if input.Pointer != nil {
			drop.Below = lineup.BelowMidpoint(input.Pointer.Y, input.Pointer.Top,
				input.Pointer.Height)
		}
	} else {
		drop.Over = lineup.OnContainer(*input.Over.Role)
	}

	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	view, err := hub.MoveLineup(side, drop)
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"lineup": view}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// SaveLineup replaces the saved lineup in the background. The outcome is broadcast to
// watchers as lineup_saved or error.
func (app *application) SaveLineup(w http.ResponseWriter, r *http.Request) {
	side, err := app.readSideParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	hub, ok := app.session(w, r)
	if !ok {
		return
	}

	view, err := hub.SaveLineup(side)
	if err != nil {
		app.sessionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusAccepted, envelope{"lineup": view}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
