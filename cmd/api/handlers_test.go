package main

import (
	"MatchOpsApi/internal/data"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSession(t *testing.T) (*application, *testServer, *memStore) {
	t.Helper()

	store := newMemStore()
	app := newTestApplication(t, store)
	ts := newTestServer(t, app.routes())

	code, _, _ := ts.do(t, http.MethodPost, "/v1/match/1/session", operatorToken, nil)
	require.Equal(t, http.StatusCreated, code)

	return app, ts, store
}

func flush(t *testing.T, app *application) {
	t.Helper()

	hub, err := app.hubs.Get(1)
	require.NoError(t, err)
	hub.Flush()
}

func TestHealthCheck(t *testing.T) {
	app := newTestApplication(t, newMemStore())
	ts := newTestServer(t, app.routes())

	code, _, body := ts.do(t, http.MethodGet, "/v1/healthcheck", "", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "available", body["status"])
	assert.EqualValues(t, 0, body["live_sessions"])
}

func TestOpenSessionAuthorization(t *testing.T) {
	app := newTestApplication(t, newMemStore())
	ts := newTestServer(t, app.routes())

	tests := []struct {
		name     string
		token    string
		wantCode int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"malformed token", "short", http.StatusUnauthorized},
		{"unknown token", "UNKNOWN0TOKEN0000000000000", http.StatusUnauthorized},
		{"without permission", viewerToken, http.StatusForbidden},
		{"operator", operatorToken, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := ts.do(t, http.MethodPost, "/v1/match/1/session", tt.token, nil)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestOpenSession(t *testing.T) {
	app := newTestApplication(t, newMemStore())
	ts := newTestServer(t, app.routes())

	code, headers, body := ts.do(t, http.MethodPost, "/v1/match/1/session", operatorToken, nil)
	require.Equal(t, http.StatusCreated, code)

	session := body["session"].(map[string]any)
	assert.Equal(t, "scheduled", session["status"])
	assert.Equal(t, "/v1/watch/"+session["pin"].(string), headers.Get("Location"))
	assert.Equal(t, 1, app.hubs.Len())

	code, _, _ = ts.do(t, http.MethodPost, "/v1/match/9/session", operatorToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestViewerSeesLockedLineups(t *testing.T) {
	_, ts, _ := openTestSession(t)

	code, _, body := ts.do(t, http.MethodGet, "/v1/match/1/lineup/home", viewerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["lineup"].(map[string]any)["locked"])

	code, _, body = ts.do(t, http.MethodGet, "/v1/match/1/lineup/home", operatorToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["lineup"].(map[string]any)["locked"])

	code, _, _ = ts.do(t, http.MethodGet, "/v1/match/1/lineup/middle", operatorToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCaptureFlow(t *testing.T) {
	app, ts, store := openTestSession(t)

	steps := []struct {
		step      string
		body      any
		wantState string
	}{
		{"action", map[string]any{"type": "TRY"}, "SELECT_TEAM"},
		{"team", map[string]any{"team_id": 10}, "SELECT_PLAYER"},
		{"player", map[string]any{"player_id": 102}, "IDLE"},
	}
	for _, s := range steps {
		code, _, body := ts.do(t, http.MethodPost, "/v1/match/1/capture/"+s.step, operatorToken,
			s.body)
		require.Equal(t, http.StatusOK, code, s.step)
		assert.Equal(t, s.wantState, body["capture"].(map[string]any)["state"], s.step)
	}
	flush(t, app)

	events := store.storedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, data.EventTry, events[0].Type)

	code, _, body := ts.do(t, http.MethodGet, "/v1/match/1/session", viewerToken, nil)
	require.Equal(t, http.StatusOK, code)
	score := body["session"].(map[string]any)["score"].(map[string]any)
	assert.EqualValues(t, 5, score["home"])
	assert.EqualValues(t, 0, score["away"])
}

func TestCaptureErrors(t *testing.T) {
	_, ts, _ := openTestSession(t)

	tests := []struct {
		name     string
		step     string
		body     any
		wantCode int
	}{
		{"player before action", "player", map[string]any{"player_id": 102}, http.StatusConflict},
		{"unknown event type", "action", map[string]any{"type": "HAKA"}, http.StatusBadRequest},
		{"missing event type", "action", map[string]any{}, http.StatusUnprocessableEntity},
		{"unknown step", "rewind", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := ts.do(t, http.MethodPost, "/v1/match/1/capture/"+tt.step,
				operatorToken, tt.body)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestClockAction(t *testing.T) {
	_, ts, _ := openTestSession(t)

	tests := []struct {
		name        string
		body        map[string]any
		wantCode    int
		wantDisplay string
	}{
		{"set", map[string]any{"action": "set", "seconds": 2405}, http.StatusOK, "40:05"},
		{"adjust", map[string]any{"action": "adjust", "minutes": -50}, http.StatusOK, "00:00"},
		{"start", map[string]any{"action": "start"}, http.StatusOK, "00:00"},
		{"unknown action", map[string]any{"action": "rewind"}, http.StatusUnprocessableEntity, ""},
		{"set without seconds", map[string]any{"action": "set"}, http.StatusUnprocessableEntity, ""},
		{"negative seconds", map[string]any{"action": "set", "seconds": -1},
			http.StatusUnprocessableEntity, ""},
		{"seconds past bound", map[string]any{"action": "set", "seconds": 12001},
			http.StatusUnprocessableEntity, ""},
		{"adjust past bound", map[string]any{"action": "adjust", "minutes": 201},
			http.StatusUnprocessableEntity, ""},
		{"adjust min int", map[string]any{"action": "adjust", "minutes": math.MinInt64},
			http.StatusUnprocessableEntity, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, body := ts.do(t, http.MethodPost, "/v1/match/1/clock", operatorToken, tt.body)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantDisplay != "" {
				assert.Equal(t, tt.wantDisplay, body["clock"].(map[string]any)["display"])
			}
		})
	}
}

func TestStatusConfirmation(t *testing.T) {
	app, ts, store := openTestSession(t)

	code, _, body := ts.do(t, http.MethodPost, "/v1/match/1/status", operatorToken,
		map[string]any{"action": "start"})
	require.Equal(t, http.StatusAccepted, code)
	confirmation := body["confirmation"].(map[string]any)
	assert.Equal(t, "start_match", confirmation["action"])

	code, _, _ = ts.do(t, http.MethodPost, "/v1/match/1/confirmations/"+confirmation["id"].(string),
		operatorToken, nil)
	require.Equal(t, http.StatusAccepted, code)
	flush(t, app)
	assert.Equal(t, data.StatusOngoing, store.status())

	code, _, _ = ts.do(t, http.MethodPost, "/v1/match/1/confirmations/"+confirmation["id"].(string),
		operatorToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _, _ = ts.do(t, http.MethodPost, "/v1/match/1/status", operatorToken,
		map[string]any{"action": "resume"})
	assert.Equal(t, http.StatusConflict, code)

	code, _, _ = ts.do(t, http.MethodPost, "/v1/match/1/status", operatorToken,
		map[string]any{"action": "postpone"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestUndoAndEditMinute(t *testing.T) {
	app, ts, store := openTestSession(t)

	code, _, _ := ts.do(t, http.MethodPost, "/v1/match/1/events/undo", operatorToken, nil)
	assert.Equal(t, http.StatusConflict, code)

	for _, s := range []struct {
		step string
		body any
	}{
		{"action", map[string]any{"type": "SCRUM"}},
		{"team", map[string]any{"team_id": 20}},
	} {
		code, _, _ = ts.do(t, http.MethodPost, "/v1/match/1/capture/"+s.step, operatorToken, s.body)
		require.Equal(t, http.StatusOK, code)
	}
	flush(t, app)

	code, _, _ = ts.do(t, http.MethodPatch, "/v1/match/1/events/1", operatorToken,
		map[string]any{"minute": 250})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _, _ = ts.do(t, http.MethodPatch, "/v1/match/1/events/1", operatorToken,
		map[string]any{"minute": 17})
	require.Equal(t, http.StatusAccepted, code)
	flush(t, app)

	events := store.storedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, 17, events[0].Minute)

	code, _, body := ts.do(t, http.MethodPost, "/v1/match/1/events/undo", operatorToken, nil)
	require.Equal(t, http.StatusAccepted, code)
	id := body["confirmation"].(map[string]any)["id"].(string)

	code, _, _ = ts.do(t, http.MethodPost, "/v1/match/1/confirmations/"+id, operatorToken, nil)
	require.Equal(t, http.StatusAccepted, code)
	flush(t, app)

	events = store.storedEvents()
	assert.Empty(t, events)
}

func TestDismissDeleteRequest(t *testing.T) {
	app, ts, store := openTestSession(t)

	for _, s := range []struct {
		step string
		body any
	}{
		{"action", map[string]any{"type": "LINEOUT"}},
		{"team", map[string]any{"team_id": 10}},
	} {
		code, _, _ := ts.do(t, http.MethodPost, "/v1/match/1/capture/"+s.step, operatorToken, s.body)
		require.Equal(t, http.StatusOK, code)
	}
	flush(t, app)

	code, _, body := ts.do(t, http.MethodDelete, "/v1/match/1/events/1", operatorToken, nil)
	require.Equal(t, http.StatusAccepted, code)
	id := body["confirmation"].(map[string]any)["id"].(string)

	code, _, _ = ts.do(t, http.MethodDelete, "/v1/match/1/confirmations/"+id, operatorToken, nil)
	require.Equal(t, http.StatusOK, code)

	events := store.storedEvents()
	assert.Len(t, events, 1)

	code, _, _ = ts.do(t, http.MethodDelete, "/v1/match/1/events/42", operatorToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLineupMoveAndSave(t *testing.T) {
	app, ts, store := openTestSession(t)

	code, _, body := ts.do(t, http.MethodPost, "/v1/match/1/lineup/home/move", operatorToken,
		map[string]any{
			"active_id": 103,
			"over":      map[string]any{"player_id": 101},
			"pointer":   map[string]any{"y": 30, "top": 0, "height": 40},
		})
	require.Equal(t, http.StatusOK, code)
	starters := body["lineup"].(map[string]any)["starters"].([]any)
	require.Len(t, starters, 3)
	assert.EqualValues(t, 103, starters[1].(map[string]any)["player_id"])

	code, _, _ = ts.do(t, http.MethodPost, "/v1/match/1/lineup/home/move", operatorToken,
		map[string]any{
			"active_id": 103,
			"over":      map[string]any{"role": "BENCH", "player_id": 101},
		})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _, _ = ts.do(t, http.MethodPut, "/v1/match/1/lineup/home", operatorToken, nil)
	require.Equal(t, http.StatusAccepted, code)
	flush(t, app)

	saved := store.savedLineup(10)
	require.Len(t, saved, 3)
	assert.Equal(t, int64(101), saved[0].PlayerID)
	assert.Equal(t, int64(103), saved[1].PlayerID)
	assert.Equal(t, 1, saved[1].Order)
}

func TestCloseSession(t *testing.T) {
	app, ts, _ := openTestSession(t)

	code, _, _ := ts.do(t, http.MethodDelete, "/v1/match/1/session", operatorToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, app.hubs.Len())

	code, _, _ = ts.do(t, http.MethodGet, "/v1/match/1/session", operatorToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
