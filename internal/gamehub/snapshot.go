package gamehub

import (
	"MatchOpsApi/internal/data"
	"MatchOpsApi/internal/stats"
)

type TeamStats struct {
	Home stats.TeamStatline `json:"home"`
	Away stats.TeamStatline `json:"away"`
}

// Scoreboard is the part of a snapshot derived from the event log.
type Scoreboard struct {
	Score    stats.Score        `json:"score"`
	Stats    TeamStats          `json:"stats"`
	Timeline []*data.MatchEvent `json:"timeline"`
	CanUndo  bool               `json:"can_undo"`
}

type Snapshot struct {
	MatchID       int64                 `json:"match_id"`
	Pin           string                `json:"pin"`
	Status        data.MatchStatus      `json:"status"`
	Halftime      bool                  `json:"halftime"`
	Locked        bool                  `json:"locked"`
	Home          data.MatchTeam        `json:"home"`
	Away          data.MatchTeam        `json:"away"`
	Clock         ClockView             `json:"clock"`
	Capture       CaptureView           `json:"capture"`
	Confirmations []ConfirmationRequest `json:"confirmations"`
	Lineups       struct {
		Home LineupView `json:"home"`
		Away LineupView `json:"away"`
	} `json:"lineups"`
	Scoreboard
}

func (h *Hub) scoreboard() Scoreboard {
	events := h.log.Events()
	_, canUndo := h.undoable()
	return Scoreboard{
		Score: stats.Compute(events, h.match.Home.ID, h.match.Away.ID),
		Stats: TeamStats{
			Home: stats.Tally(events, h.match.Home.ID),
			Away: stats.Tally(events, h.match.Away.ID),
		},
		Timeline: h.log.Timeline(),
		CanUndo:  canUndo,
	}
}

func (h *Hub) snapshot(canEdit bool) Snapshot {
	s := Snapshot{
		MatchID:       h.MatchID,
		Pin:           h.Pin,
		Status:        h.match.Status,
		Halftime:      h.halftime,
		Locked:        h.locked() || !canEdit,
		Home:          h.match.Home,
		Away:          h.match.Away,
		Clock:         h.clockView(),
		Capture:       h.captureView(),
		Confirmations: h.pendingConfirmations(),
		Scoreboard:    h.scoreboard(),
	}
	s.Lineups.Home = h.lineupView(data.SideHome, canEdit)
	s.Lineups.Away = h.lineupView(data.SideAway, canEdit)
	return s
}

// Snapshot returns the full session state.
func (h *Hub) Snapshot(canEdit bool) (Snapshot, error) {
	return query(h, func() (Snapshot, error) {
		return h.snapshot(canEdit), nil
	})
}
