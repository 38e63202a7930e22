// Package lineup arranges a team's matchday squad into starters, bench and unselected
// players, and prepares the full-replace submission when the lineup is saved.
package lineup

import (
	"MatchOpsApi/internal/data"
	"errors"
	"fmt"
	"slices"
)

// UnplacedOrder is the order given to players who have never been placed, so they sort
// after everyone else.
const UnplacedOrder = 9999

var (
	ErrTooManyStarters = errors.New("too many starters")
	ErrSaveInProgress  = errors.New("lineup save already in progress")
	ErrLocked          = errors.New("lineup is locked")
	ErrUnknownPlayer   = errors.New("player is not in the lineup")
)

type Config struct {
	MaxStarters int
	MaxBench    int
}

func DefaultConfig() Config {
	return Config{MaxStarters: 15, MaxBench: 8}
}

// Target is what a dragged player is dropped on: either a container or another player.
type Target struct {
	Role     data.LineupRole `json:"role"`
	PlayerID int64           `json:"player_id,omitempty"`
}

func OnContainer(role data.LineupRole) Target {
	return Target{Role: role}
}

func OnPlayer(playerID int64) Target {
	return Target{PlayerID: playerID}
}

func (t Target) isPlayer() bool {
	return t.PlayerID != 0
}

// Drop describes a completed drag. Below is true when the pointer was released below the
// vertical midpoint of the hovered player.
type Drop struct {
	ActiveID int64  `json:"active_id"`
	Over     Target `json:"over"`
	Below    bool   `json:"below"`
}

// BelowMidpoint reports whether pointerY lies below the midpoint of an item starting at
// top with the given height.
func BelowMidpoint(pointerY, top, height float64) bool {
	return pointerY > top+height/2
}

type Containers struct {
	Starters    []data.LineupEntry `json:"starters"`
	Bench       []data.LineupEntry `json:"bench"`
	NotSelected []data.LineupEntry `json:"not_selected"`
}

type View struct {
	Containers
	MaxStarters          int  `json:"max_starters"`
	MaxBench             int  `json:"max_bench"`
	StartersOverCapacity bool `json:"starters_over_capacity"`
	BenchOverCapacity    bool `json:"bench_over_capacity"`
	Locked               bool `json:"locked"`
	Saving               bool `json:"saving"`
}

// Engine holds one team's lineup. A player is always in exactly one container; the role
// index is updated in the same step as the containers.
//
// Engine is not safe for concurrent use.
type Engine struct {
	cfg        Config
	containers [3][]data.LineupEntry
	roles      map[int64]data.LineupRole
	locked     bool
	saving     bool
}

func New(cfg Config) *Engine {
	if cfg.MaxStarters <= 0 {
		cfg.MaxStarters = DefaultConfig().MaxStarters
	}
	if cfg.MaxBench <= 0 {
		cfg.MaxBench = DefaultConfig().MaxBench
	}
	e := &Engine{cfg: cfg}
	e.reset()
	return e
}

func (e *Engine) reset() {
	for i := range e.containers {
		e.containers[i] = make([]data.LineupEntry, 0)
	}
	e.roles = make(map[int64]data.LineupRole)
}

// Load replaces the engine state with a saved lineup. Eligible players from hints that are
// not in the saved lineup are added to NOT_SELECTED in hint order.
func (e *Engine) Load(saved []data.LineupEntry, hints []*data.Player) {
	e.reset()

	placed := make([]data.LineupEntry, 0, len(saved))
	for _, entry := range saved {
		if entry.Role != data.RoleStarter && entry.Role != data.RoleBench {
			continue
		}
		if _, dup := e.roles[entry.PlayerID]; dup {
			continue
		}
		e.roles[entry.PlayerID] = entry.Role
		placed = append(placed, entry)
	}
	slices.SortStableFunc(placed, func(a, b data.LineupEntry) int {
		return a.Order - b.Order
	})
	for _, entry := range placed {
		e.containers[entry.Role] = append(e.containers[entry.Role], entry)
	}

	for _, p := range hints {
		if _, ok := e.roles[p.ID]; ok {
			continue
		}
		e.roles[p.ID] = data.RoleNotSelected
		e.containers[data.RoleNotSelected] = append(e.containers[data.RoleNotSelected],
			data.LineupEntry{
				PlayerID:     p.ID,
				Name:         p.Name(),
				Role:         data.RoleNotSelected,
				Order:        UnplacedOrder,
				JerseyNumber: p.JerseyNumber,
				Position:     p.Position,
			})
	}

	e.renumber(data.RoleStarter)
	e.renumber(data.RoleBench)
}

// Move applies a drop. Moving within a container repositions the player; moving between
// containers is the only way a player's role changes. Capacity is not enforced here.
func (e *Engine) Move(d Drop) error {
	if e.locked {
		return ErrLocked
	}

	from, ok := e.roles[d.ActiveID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, d.ActiveID)
	}
	if d.Over.isPlayer() && d.Over.PlayerID == d.ActiveID {
		return nil
	}

	var to data.LineupRole
	if d.Over.isPlayer() {
		to, ok = e.roles[d.Over.PlayerID]
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownPlayer, d.Over.PlayerID)
		}
	} else {
		if !d.Over.Role.Valid() {
			return data.ErrInvalidLineupRole
		}
		to = d.Over.Role
	}

	src := slices.Clone(e.containers[from])
	activeIndex := indexOf(src, d.ActiveID)
	entry := src[activeIndex]

	if from == to {
		target := len(src) - 1
		if d.Over.isPlayer() {
			target = indexOf(src, d.Over.PlayerID)
			if d.Below {
				target++
			}
			if activeIndex < target {
				target--
			}
		}
		src = slices.Delete(src, activeIndex, activeIndex+1)
		src = slices.Insert(src, target, entry)
		e.containers[from] = src
		e.renumber(from)
		return nil
	}

	dst := slices.Clone(e.containers[to])
	target := len(dst)
	if d.Over.isPlayer() {
		target = indexOf(dst, d.Over.PlayerID)
		if d.Below {
			target++
		}
	}
	src = slices.Delete(src, activeIndex, activeIndex+1)
	entry.Role = to
	dst = slices.Insert(dst, target, entry)

	e.containers[from] = src
	e.containers[to] = dst
	e.roles[d.ActiveID] = to
	e.renumber(from)
	e.renumber(to)

	return nil
}

// renumber rewrites the order of a container to match positions. NOT_SELECTED players
// keep the unplaced sentinel.
func (e *Engine) renumber(role data.LineupRole) {
	for i := range e.containers[role] {
		if role == data.RoleNotSelected {
			e.containers[role][i].Order = UnplacedOrder
		} else {
			e.containers[role][i].Order = i
		}
	}
}

func indexOf(entries []data.LineupEntry, playerID int64) int {
	return slices.IndexFunc(entries, func(e data.LineupEntry) bool {
		return e.PlayerID == playerID
	})
}

// Role reports the container currently holding playerID.
func (e *Engine) Role(playerID int64) (data.LineupRole, bool) {
	role, ok := e.roles[playerID]
	return role, ok
}

func (e *Engine) Containers() Containers {
	return Containers{
		Starters:    slices.Clone(e.containers[data.RoleStarter]),
		Bench:       slices.Clone(e.containers[data.RoleBench]),
		NotSelected: slices.Clone(e.containers[data.RoleNotSelected]),
	}
}

func (e *Engine) Starters() []data.LineupEntry {
	return slices.Clone(e.containers[data.RoleStarter])
}

func (e *Engine) Bench() []data.LineupEntry {
	return slices.Clone(e.containers[data.RoleBench])
}

func (e *Engine) View() View {
	return View{
		Containers:           e.Containers(),
		MaxStarters:          e.cfg.MaxStarters,
		MaxBench:             e.cfg.MaxBench,
		StartersOverCapacity: len(e.containers[data.RoleStarter]) > e.cfg.MaxStarters,
		BenchOverCapacity:    len(e.containers[data.RoleBench]) > e.cfg.MaxBench,
		Locked:               e.locked,
		Saving:               e.saving,
	}
}

// Submission returns the STARTER then BENCH entries with 0-based orders, ready for a full
// replace. It fails with ErrTooManyStarters when STARTER is over capacity.
func (e *Engine) Submission() ([]data.LineupEntry, error) {
	starters := e.containers[data.RoleStarter]
	if len(starters) > e.cfg.MaxStarters {
		return nil, fmt.Errorf("%w: %d selected, maximum is %d", ErrTooManyStarters,
			len(starters), e.cfg.MaxStarters)
	}

	bench := e.containers[data.RoleBench]
	entries := make([]data.LineupEntry, 0, len(starters)+len(bench))
	for i, entry := range starters {
		entry.Role = data.RoleStarter
		entry.Order = i
		entries = append(entries, entry)
	}
	for i, entry := range bench {
		entry.Role = data.RoleBench
		entry.Order = i
		entries = append(entries, entry)
	}

	return entries, nil
}

// BeginSave validates the lineup and marks a save as in flight. The caller must call
// EndSave once the save completes, whatever its outcome.
func (e *Engine) BeginSave() ([]data.LineupEntry, error) {
	if e.saving {
		return nil, ErrSaveInProgress
	}
	entries, err := e.Submission()
	if err != nil {
		return nil, err
	}
	e.saving = true
	return entries, nil
}

func (e *Engine) EndSave() {
	e.saving = false
}

func (e *Engine) Saving() bool {
	return e.saving
}

func (e *Engine) SetLocked(locked bool) {
	e.locked = locked
}

func (e *Engine) Locked() bool {
	return e.locked
}
