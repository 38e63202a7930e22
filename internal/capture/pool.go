package capture

import (
	"MatchOpsApi/internal/data"
	"cmp"
	"slices"
)

type PoolPlayer struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	JerseyNumber int    `json:"jersey_number"`
}

// Pool lists the players that can be picked for a team. When the team has a saved lineup
// Starters and Bench are filled, ordered by jersey number; otherwise Other holds the
// organisation's roster.
type Pool struct {
	Starters []PoolPlayer `json:"starters"`
	Bench    []PoolPlayer `json:"bench"`
	Other    []PoolPlayer `json:"other"`
}

func (p Pool) find(playerID int64) (PoolPlayer, bool) {
	for _, group := range [][]PoolPlayer{p.Starters, p.Bench, p.Other} {
		for _, player := range group {
			if player.ID == playerID {
				return player, true
			}
		}
	}
	return PoolPlayer{}, false
}

func (p Pool) Len() int {
	return len(p.Starters) + len(p.Bench) + len(p.Other)
}

func buildPool(starters, bench []data.LineupEntry, roster []*data.Player) Pool {
	pool := Pool{
		Starters: make([]PoolPlayer, 0, len(starters)),
		Bench:    make([]PoolPlayer, 0, len(bench)),
		Other:    make([]PoolPlayer, 0),
	}

	if len(starters) == 0 && len(bench) == 0 {
		for _, p := range roster {
			pool.Other = append(pool.Other, PoolPlayer{ID: p.ID, Name: p.Name(),
				JerseyNumber: p.JerseyNumber})
		}
		return pool
	}

	for _, e := range starters {
		pool.Starters = append(pool.Starters, fromEntry(e))
	}
	for _, e := range bench {
		pool.Bench = append(pool.Bench, fromEntry(e))
	}
	byJersey := func(a, b PoolPlayer) int { return cmp.Compare(a.JerseyNumber, b.JerseyNumber) }
	slices.SortStableFunc(pool.Starters, byJersey)
	slices.SortStableFunc(pool.Bench, byJersey)

	return pool
}

func fromEntry(e data.LineupEntry) PoolPlayer {
	return PoolPlayer{ID: e.PlayerID, Name: e.Name, JerseyNumber: e.JerseyNumber}
}
