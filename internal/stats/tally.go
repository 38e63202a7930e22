package stats

import (
	"MatchOpsApi/internal/data"
	"cmp"
	"slices"
)

// TeamStatline counts what one team did over the match.
type TeamStatline struct {
	TeamID        int64 `json:"team_id"`
	Points        int   `json:"points"`
	Tries         int   `json:"tries"`
	PenaltyTries  int   `json:"penalty_tries"`
	Conversions   int   `json:"conversions"`
	Penalties     int   `json:"penalties"`
	DropGoals     int   `json:"drop_goals"`
	YellowCards   int   `json:"yellow_cards"`
	RedCards      int   `json:"red_cards"`
	Substitutions int   `json:"substitutions"`
	Injuries      int   `json:"injuries"`
	Scrums        int   `json:"scrums"`
	Lineouts      int   `json:"lineouts"`
}

func (s *TeamStatline) add(t data.EventType) {
	s.Points += Points(t)
	switch t {
	case data.EventTry:
		s.Tries++
	case data.EventPenaltyTry:
		s.PenaltyTries++
	case data.EventConversion:
		s.Conversions++
	case data.EventPenalty:
		s.Penalties++
	case data.EventDropGoal:
		s.DropGoals++
	case data.EventYellowCard:
		s.YellowCards++
	case data.EventRedCard:
		s.RedCards++
	case data.EventSubstitution:
		s.Substitutions++
	case data.EventInjury:
		s.Injuries++
	case data.EventScrum:
		s.Scrums++
	case data.EventLineout:
		s.Lineouts++
	}
}

// Tally builds the statline of teamID from the event log.
func Tally(events []*data.MatchEvent, teamID int64) TeamStatline {
	statline := TeamStatline{TeamID: teamID}
	for _, e := range events {
		if e.TeamID == teamID {
			statline.add(e.Type)
		}
	}
	return statline
}

type PlayerPoints struct {
	PlayerID int64 `json:"player_id"`
	Points   int   `json:"points"`
}

// Scorers lists the players of teamID who scored, highest first. Ties keep the order in
// which the players first scored. Penalty tries have no player and are not counted.
func Scorers(events []*data.MatchEvent, teamID int64) []PlayerPoints {
	totals := make(map[int64]int)
	order := make([]int64, 0)
	for _, e := range events {
		if e.TeamID != teamID || e.PlayerID == nil || Points(e.Type) == 0 {
			continue
		}
		if _, seen := totals[*e.PlayerID]; !seen {
			order = append(order, *e.PlayerID)
		}
		totals[*e.PlayerID] += Points(e.Type)
	}

	scorers := make([]PlayerPoints, len(order))
	for i, id := range order {
		scorers[i] = PlayerPoints{PlayerID: id, Points: totals[id]}
	}
	slices.SortStableFunc(scorers, func(a, b PlayerPoints) int {
		return cmp.Compare(b.Points, a.Points)
	})
	return scorers
}
