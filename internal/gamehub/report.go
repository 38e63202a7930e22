package gamehub

import (
	"MatchOpsApi/internal/data"
	"MatchOpsApi/internal/stats"
	"context"
)

type reportLine struct {
	Minute int
	Type   string
	Team   string
	Detail string
}

// MatchReport is rendered into the full-time mail.
type MatchReport struct {
	MatchID   int64
	Home      data.MatchTeam
	Away      data.MatchTeam
	Score     stats.Score
	HomeStats stats.TeamStatline
	AwayStats stats.TeamStatline
	Timeline  []reportLine
}

func (h *Hub) report() MatchReport {
	events := h.log.Events()
	r := MatchReport{
		MatchID:   h.MatchID,
		Home:      h.match.Home,
		Away:      h.match.Away,
		Score:     stats.Compute(events, h.match.Home.ID, h.match.Away.ID),
		HomeStats: stats.Tally(events, h.match.Home.ID),
		AwayStats: stats.Tally(events, h.match.Away.ID),
	}

	names := make(map[int64]string)
	for _, players := range h.rosters {
		for _, p := range players {
			names[p.ID] = p.Name()
		}
	}
	for _, engine := range h.lineups {
		c := engine.Containers()
		for _, group := range [][]data.LineupEntry{c.Starters, c.Bench, c.NotSelected} {
			for _, e := range group {
				names[e.PlayerID] = e.Name
			}
		}
	}

	for _, e := range h.log.Timeline() {
		line := reportLine{Minute: e.Minute, Type: e.Type.String(), Detail: e.Notes}
		if side, ok := h.match.SideOf(e.TeamID); ok {
			line.Team = h.match.Team(side).Name
		}
		if line.Detail == "" && e.PlayerID != nil {
			line.Detail = names[*e.PlayerID]
		}
		r.Timeline = append(r.Timeline, line)
	}

	return r
}

// sendReport mails the full-time report to the operator who opened the session.
func (h *Hub) sendReport() {
	if h.mailer == nil || h.reportTo == "" {
		return
	}
	report := h.report()
	recipient := h.reportTo

	h.background("match_report", func(context.Context) func() {
		err := h.mailer.Send(recipient, "match_report.tmpl", report)
		if err != nil {
			return func() {
				h.logError(err, "match_report", map[string]string{"recipient": recipient})
			}
		}
		return nil
	})
}
