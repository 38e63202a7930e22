package stats

import "MatchOpsApi/internal/data"

// pointValues holds the fixed rugby union scoring table. Event types not listed score 0.
var pointValues = map[data.EventType]int{
	data.EventTry:        5,
	data.EventPenaltyTry: 7,
	data.EventConversion: 2,
	data.EventPenalty:    3,
	data.EventDropGoal:   3,
}

// Points returns the points awarded for a single event of type t.
func Points(t data.EventType) int {
	return pointValues[t]
}

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Compute derives the score from the event log. Events for teams other than homeID and
// awayID are ignored.
func Compute(events []*data.MatchEvent, homeID, awayID int64) Score {
	var score Score
	for _, e := range events {
		switch e.TeamID {
		case homeID:
			score.Home += Points(e.Type)
		case awayID:
			score.Away += Points(e.Type)
		}
	}
	return score
}
