package stats

import (
	"MatchOpsApi/internal/assert"
	"MatchOpsApi/internal/data"
	"testing"
)

const (
	home int64 = 10
	away int64 = 20
)

func event(team int64, t data.EventType, player int64) *data.MatchEvent {
	e := &data.MatchEvent{TeamID: team, Type: t}
	if player != 0 {
		e.PlayerID = &player
	}
	return e
}

func TestPoints(t *testing.T) {
	tests := []struct {
		eventType data.EventType
		want      int
	}{
		{data.EventTry, 5},
		{data.EventPenaltyTry, 7},
		{data.EventConversion, 2},
		{data.EventPenalty, 3},
		{data.EventDropGoal, 3},
		{data.EventYellowCard, 0},
		{data.EventRedCard, 0},
		{data.EventSubstitution, 0},
		{data.EventInjury, 0},
		{data.EventScrum, 0},
		{data.EventLineout, 0},
	}

	for _, tt := range tests {
		t.Run(tt.eventType.String(), func(t *testing.T) {
			assert.Equal(t, Points(tt.eventType), tt.want)
		})
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name   string
		events []*data.MatchEvent
		want   Score
	}{
		{
			name:   "Empty Log",
			events: nil,
			want:   Score{},
		},
		{
			name: "Try And Conversion",
			events: []*data.MatchEvent{
				event(home, data.EventTry, 1),
				event(home, data.EventConversion, 1),
			},
			want: Score{Home: 7},
		},
		{
			name: "Both Teams",
			events: []*data.MatchEvent{
				event(home, data.EventTry, 1),
				event(away, data.EventPenalty, 2),
				event(away, data.EventDropGoal, 2),
				event(home, data.EventPenaltyTry, 0),
				event(away, data.EventYellowCard, 3),
			},
			want: Score{Home: 12, Away: 6},
		},
		{
			name: "Unknown Team Ignored",
			events: []*data.MatchEvent{
				event(99, data.EventTry, 1),
				event(away, data.EventTry, 2),
			},
			want: Score{Away: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Compute(tt.events, home, away), tt.want)
		})
	}
}

func TestComputeAfterRemoval(t *testing.T) {
	events := []*data.MatchEvent{
		event(home, data.EventTry, 1),
		event(home, data.EventConversion, 1),
	}
	assert.Equal(t, Compute(events, home, away).Home, 7)

	events = events[:1]
	assert.Equal(t, Compute(events, home, away).Home, 5)
}

func TestTally(t *testing.T) {
	events := []*data.MatchEvent{
		event(home, data.EventTry, 1),
		event(home, data.EventTry, 2),
		event(home, data.EventConversion, 3),
		event(home, data.EventYellowCard, 4),
		event(home, data.EventSubstitution, 5),
		event(home, data.EventScrum, 0),
		event(away, data.EventRedCard, 6),
		event(away, data.EventInjury, 7),
		event(away, data.EventLineout, 0),
	}

	homeLine := Tally(events, home)
	assert.Equal(t, homeLine, TeamStatline{
		TeamID:        home,
		Points:        12,
		Tries:         2,
		Conversions:   1,
		YellowCards:   1,
		Substitutions: 1,
		Scrums:        1,
	})

	awayLine := Tally(events, away)
	assert.Equal(t, awayLine, TeamStatline{
		TeamID:   away,
		RedCards: 1,
		Injuries: 1,
		Lineouts: 1,
	})
}

func TestScorers(t *testing.T) {
	events := []*data.MatchEvent{
		event(home, data.EventPenalty, 9),
		event(home, data.EventTry, 4),
		event(home, data.EventConversion, 9),
		event(home, data.EventPenaltyTry, 0),
		event(home, data.EventYellowCard, 4),
		event(away, data.EventTry, 11),
		event(home, data.EventDropGoal, 12),
	}

	got := Scorers(events, home)
	want := []PlayerPoints{
		{PlayerID: 9, Points: 5},
		{PlayerID: 4, Points: 5},
		{PlayerID: 12, Points: 3},
	}
	assert.SliceEqual(t, got, want)
}
