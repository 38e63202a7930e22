package gamehub

import (
	"MatchOpsApi/internal/data"
	"MatchOpsApi/internal/lineup"
	"context"
)

type LineupView struct {
	Side   string `json:"side"`
	TeamID int64  `json:"team_id"`
	lineup.View
}

func (h *Hub) lineupView(side data.TeamSide, canEdit bool) LineupView {
	view := h.lineups[side].View()
	if !canEdit {
		view.Locked = true
	}
	return LineupView{Side: side.String(), TeamID: h.match.Team(side).ID, View: view}
}

// Lineup returns the current containers of one side. Callers without edit rights always
// see the lineup as locked.
func (h *Hub) Lineup(side data.TeamSide, canEdit bool) (LineupView, error) {
	return query(h, func() (LineupView, error) {
		return h.lineupView(side, canEdit), nil
	})
}

// MoveLineup applies a drag to one side's lineup.
func (h *Hub) MoveLineup(side data.TeamSide, drop lineup.Drop) (LineupView, error) {
	return call(h, func() (LineupView, error) {
		if err := h.lineups[side].Move(drop); err != nil {
			return h.lineupView(side, true), err
		}
		view := h.lineupView(side, true)
		h.broadcast("lineup", view)
		return view, nil
	})
}

// SaveLineup validates one side's lineup and replaces the saved lineup in the background.
// Only one save per side may be in flight; on failure the in-memory lineup is kept.
func (h *Hub) SaveLineup(side data.TeamSide) (LineupView, error) {
	return call(h, func() (LineupView, error) {
		engine := h.lineups[side]
		if engine.Locked() {
			return h.lineupView(side, true), lineup.ErrLocked
		}
		entries, err := engine.BeginSave()
		if err != nil {
			return h.lineupView(side, true), err
		}

		teamID := h.match.Team(side).ID
		h.background("update_lineup", func(ctx context.Context) func() {
			err := h.stores.Lineups.UpdateLineup(ctx, h.MatchID, teamID, entries)
			return func() {
				engine.EndSave()
				if err != nil {
					h.failed("update_lineup", err, map[string]string{"side": side.String()})
					return
				}
				h.broadcast("lineup_saved", h.lineupView(side, true))
			}
		})

		return h.lineupView(side, true), nil
	})
}
