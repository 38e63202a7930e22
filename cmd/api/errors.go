package main

import (
	"MatchOpsApi/internal/capture"
	"MatchOpsApi/internal/data"
	"MatchOpsApi/internal/gamehub"
	"MatchOpsApi/internal/lineup"
	"errors"
	"fmt"
	"net/http"
)

func (app *application) logError(r *http.Request, err error) {
	app.logger.PrintError(err, map[string]string{
		"request_method": r.Method,
		"request_url":    r.URL.String(),
	})
}

func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int,
	message any) {
	response := envelope{"error": message}

	err := app.writeJSON(w, status, response, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "the server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *application) methodNotAllowedRequest(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request,
	errors map[string]string) {
	app.errorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func (app *application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	message := "unable to update the record due to an edit conflict, please try again"
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	message := "rate limit exceeded"
	app.errorResponse(w, r, http.StatusTooManyRequests, message)
}

func (app *application) invalidAuthenticationTokenResponse(w http.ResponseWriter,
	r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")

	message := "invalid or missing authentication token"
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (app *application) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	message := "you must be authenticated to access this resource"
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (app *application) notPermittedResponse(w http.ResponseWriter, r *http.Request) {
	message := "your user account doesn't have the necessary permissions to access this resource"
	app.errorResponse(w, r, http.StatusForbidden, message)
}

// sessionErrorResponse maps errors returned by a live session to a response.
func (app *application) sessionErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *data.FieldError
	switch {
	case errors.Is(err, gamehub.ErrSessionNotFound),
		errors.Is(err, gamehub.ErrSessionClosed),
		errors.Is(err, gamehub.ErrConfirmationNotFound),
		errors.Is(err, data.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, gamehub.ErrEventNotFound):
		app.errorResponse(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, data.ErrEditConflict):
		app.editConflictResponse(w, r)
	case errors.As(err, &fieldErr):
		app.failedValidationResponse(w, r, map[string]string{fieldErr.Field: fieldErr.Message})
	case errors.Is(err, capture.ErrUnknownTeam):
		app.failedValidationResponse(w, r, map[string]string{"team_id": err.Error()})
	case errors.Is(err, capture.ErrUnknownPlayer),
		errors.Is(err, capture.ErrSamePlayer),
		errors.Is(err, lineup.ErrUnknownPlayer):
		app.failedValidationResponse(w, r, map[string]string{"player_id": err.Error()})
	case errors.Is(err, lineup.ErrTooManyStarters):
		app.failedValidationResponse(w, r, map[string]string{"starters": err.Error()})
	case errors.Is(err, gamehub.ErrInvalidMinute):
		app.failedValidationResponse(w, r, map[string]string{"minute": err.Error()})
	case errors.Is(err, gamehub.ErrInvalidStatusAction):
		app.failedValidationResponse(w, r, map[string]string{"action": err.Error()})
	case errors.Is(err, data.ErrInvalidEventType):
		app.failedValidationResponse(w, r, map[string]string{"type": err.Error()})
	case errors.Is(err, data.ErrInvalidLineupRole):
		app.failedValidationResponse(w, r, map[string]string{"role": err.Error()})
	case errors.Is(err, capture.ErrInvalidTransition),
		errors.Is(err, gamehub.ErrMatchLocked),
		errors.Is(err, gamehub.ErrStatusTransition),
		errors.Is(err, gamehub.ErrStatusPending),
		errors.Is(err, gamehub.ErrCommitPending),
		errors.Is(err, gamehub.ErrNothingToUndo),
		errors.Is(err, lineup.ErrLocked),
		errors.Is(err, lineup.ErrSaveInProgress):
		app.conflictResponse(w, r, err)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
