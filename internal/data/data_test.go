package data

import (
	"MatchOpsApi/internal/assert"
	"MatchOpsApi/internal/validator"
	json2 "encoding/json"
	"testing"
)

func TestParseEventType(t *testing.T) {
	for _, want := range EventTypes() {
		got, err := ParseEventType(want.String())
		assert.NilError(t, err)
		assert.Equal(t, got, want)
	}

	_, err := ParseEventType("try")
	assert.ErrorIs(t, err, ErrInvalidEventType)
	assert.Equal(t, EventType(42).Valid(), false)
	assert.Equal(t, EventType(42).String(), "EventType(42)")
}

func TestEventTypeTeamOnly(t *testing.T) {
	tests := []struct {
		eventType EventType
		want      bool
	}{
		{EventScrum, true},
		{EventLineout, true},
		{EventTry, false},
		{EventSubstitution, false},
		{EventYellowCard, false},
	}

	for _, tt := range tests {
		t.Run(tt.eventType.String(), func(t *testing.T) {
			assert.Equal(t, tt.eventType.TeamOnly(), tt.want)
		})
	}
}

func TestEventInputJSON(t *testing.T) {
	var in EventInput
	err := json2.Unmarshal([]byte(`{"team_id": 7, "type": "DROP_GOAL", "minute": 61}`), &in)
	assert.NilError(t, err)
	assert.Equal(t, in.Type, EventDropGoal)
	assert.Equal(t, in.Minute, 61)
	assert.True(t, in.PlayerID == nil)

	err = json2.Unmarshal([]byte(`{"type": "HAKA"}`), &in)
	assert.ErrorIs(t, err, ErrInvalidEventType)

	js, err := json2.Marshal(MatchEvent{ID: 3, TeamID: 7, Type: EventPenaltyTry, Minute: 12})
	assert.NilError(t, err)
	assert.StringContains(t, string(js), `"type":"PENALTY_TRY"`)
}

func TestEventTypeScan(t *testing.T) {
	var et EventType
	assert.NilError(t, et.Scan([]byte("RED_CARD")))
	assert.Equal(t, et, EventRedCard)

	assert.ErrorIs(t, et.Scan(12), ErrInvalidEventType)
}

func TestMatchStatus(t *testing.T) {
	tests := []struct {
		name  string
		want  MatchStatus
		final bool
	}{
		{"scheduled", StatusScheduled, false},
		{"ongoing", StatusOngoing, false},
		{"completed", StatusCompleted, true},
		{"cancelled", StatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMatchStatus(tt.name)
			assert.NilError(t, err)
			assert.Equal(t, got, tt.want)
			assert.Equal(t, got.Final(), tt.final)
		})
	}

	_, err := ParseMatchStatus("HALFTIME")
	assert.ErrorIs(t, err, ErrInvalidMatchStatus)
}

func TestMatchSides(t *testing.T) {
	m := &Match{
		Home: MatchTeam{ID: 10, Name: "Leinster"},
		Away: MatchTeam{ID: 20, Name: "Munster"},
	}

	side, ok := m.SideOf(20)
	assert.True(t, ok)
	assert.Equal(t, side, SideAway)
	assert.Equal(t, m.Team(side).Name, "Munster")

	_, ok = m.SideOf(30)
	assert.Equal(t, ok, false)

	side, ok = ParseTeamSide("home")
	assert.True(t, ok)
	assert.Equal(t, side.String(), "home")

	_, ok = ParseTeamSide("HOME")
	assert.Equal(t, ok, false)
}

func TestLineupRoleJSON(t *testing.T) {
	var entry LineupEntry
	err := json2.Unmarshal([]byte(`{"player_id": 5, "role": "NOT_SELECTED", "order": 9999}`),
		&entry)
	assert.NilError(t, err)
	assert.Equal(t, entry.Role, RoleNotSelected)

	err = json2.Unmarshal([]byte(`{"role": "RESERVE"}`), &entry)
	assert.ErrorIs(t, err, ErrInvalidLineupRole)
}

func TestValidateMinute(t *testing.T) {
	tests := []struct {
		minute int
		valid  bool
	}{
		{0, true},
		{80, true},
		{200, true},
		{-1, false},
		{201, false},
	}

	for _, tt := range tests {
		v := validator.New()
		ValidateMinute(v, tt.minute)
		assert.Equal(t, v.Valid(), tt.valid)
	}
}

func TestValidateTokenPlaintext(t *testing.T) {
	v := validator.New()
	ValidateTokenPlaintext(v, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	assert.True(t, v.Valid())

	v = validator.New()
	ValidateTokenPlaintext(v, "short")
	assert.Equal(t, v.Errors["token"], "must be 26 bytes long")
}

func TestPlayerName(t *testing.T) {
	p := Player{FirstName: "Caelan", LastName: "Doris"}
	assert.Equal(t, p.Name(), "Caelan Doris")
}
