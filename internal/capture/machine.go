// Package capture guides an operator through recording a match event: pick the action,
// the team, then the player (or the outgoing and incoming players for a substitution).
package capture

import (
	"MatchOpsApi/internal/data"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrInvalidTransition = errors.New("invalid capture transition")
	ErrUnknownTeam       = errors.New("team is not playing in this match")
	ErrUnknownPlayer     = errors.New("player is not in the pool")
	ErrSamePlayer        = errors.New("incoming player must differ from outgoing player")
)

type State int

const (
	Idle State = iota
	SelectTeam
	SelectPlayer
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case SelectTeam:
		return "SELECT_TEAM"
	case SelectPlayer:
		return "SELECT_PLAYER"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

// Phase tracks which half of a substitution is being picked.
type Phase int

const (
	PhaseOut Phase = iota
	PhaseIn
)

func (p Phase) String() string {
	if p == PhaseIn {
		return "IN"
	}
	return "OUT"
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// Clock supplies the minute stamped on committed events.
type Clock interface {
	Minute() int
}

// Pools reads a team's current STARTER and BENCH lineup.
type Pools interface {
	Lineup(teamID int64) (starters, bench []data.LineupEntry)
}

// Roster reads the organisation roster of a team, used when it has no lineup.
type Roster interface {
	Roster(teamID int64) []*data.Player
}

// Committer receives finished actions. It is called after the machine has returned to
// Idle.
type Committer interface {
	Commit(p Payload, minute int)
}

type Teams struct {
	Home TeamRef
	Away TeamRef
}

// Draft is a read-only view of the action being built.
type Draft struct {
	Type  *data.EventType `json:"type,omitempty"`
	Team  *TeamRef        `json:"team,omitempty"`
	Out   *PlayerRef      `json:"out,omitempty"`
	Phase Phase           `json:"phase"`
}

// Machine is not safe for concurrent use.
type Machine struct {
	teams     Teams
	clock     Clock
	pools     Pools
	roster    Roster
	committer Committer

	state  State
	phase  Phase
	action data.EventType
	team   TeamRef
	out    PlayerRef
}

func New(teams Teams, clock Clock, pools Pools, roster Roster, committer Committer) *Machine {
	return &Machine{
		teams:     teams,
		clock:     clock,
		pools:     pools,
		roster:    roster,
		committer: committer,
	}
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Phase() Phase {
	return m.phase
}

func (m *Machine) Draft() Draft {
	d := Draft{Phase: m.phase}
	if m.state == Idle {
		return d
	}
	action := m.action
	d.Type = &action
	if m.state == SelectPlayer {
		team := m.team
		d.Team = &team
		if m.phase == PhaseIn {
			out := m.out
			d.Out = &out
		}
	}
	return d
}

// TriggerAction starts building an event of type t.
func (m *Machine) TriggerAction(t data.EventType) error {
	if m.state != Idle {
		return m.invalid("trigger action")
	}
	if !t.Valid() {
		return data.ErrInvalidEventType
	}

	m.action = t
	m.phase = PhaseOut
	m.state = SelectTeam
	return nil
}

// SelectTeam chooses the team credited with the action. Team-only actions commit here.
func (m *Machine) SelectTeam(teamID int64, teamName string) error {
	if m.state != SelectTeam {
		return m.invalid("select team")
	}

	var team TeamRef
	switch teamID {
	case m.teams.Home.ID:
		team = m.teams.Home
	case m.teams.Away.ID:
		team = m.teams.Away
	default:
		return fmt.Errorf("%w: %d", ErrUnknownTeam, teamID)
	}
	if teamName != "" {
		team.Name = teamName
	}

	if m.action.TeamOnly() {
		m.commit(newPayload(m.action, team, PlayerRef{}, PlayerRef{}))
		return nil
	}

	m.team = team
	m.state = SelectPlayer
	return nil
}

// SelectPlayer picks a player from the selected team's pool. For a substitution the first
// pick is the outgoing player and the second the incoming one.
func (m *Machine) SelectPlayer(playerID int64) error {
	if m.state != SelectPlayer {
		return m.invalid("select player")
	}

	found, ok := m.Pool(m.team.ID).find(playerID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, playerID)
	}
	player := PlayerRef{ID: found.ID, Name: found.Name}

	if m.action == data.EventSubstitution {
		if m.phase == PhaseOut {
			m.out = player
			m.phase = PhaseIn
			return nil
		}
		if player.ID == m.out.ID {
			return ErrSamePlayer
		}
		m.commit(newPayload(m.action, m.team, m.out, player))
		return nil
	}

	m.commit(newPayload(m.action, m.team, player, PlayerRef{}))
	return nil
}

// Cancel discards the draft from any state.
func (m *Machine) Cancel() {
	m.reset()
}

// Pool returns the players selectable for teamID.
func (m *Machine) Pool(teamID int64) Pool {
	var starters, bench []data.LineupEntry
	if m.pools != nil {
		starters, bench = m.pools.Lineup(teamID)
	}
	var roster []*data.Player
	if len(starters) == 0 && len(bench) == 0 && m.roster != nil {
		roster = m.roster.Roster(teamID)
	}
	return buildPool(starters, bench, roster)
}

func (m *Machine) commit(p Payload) {
	minute := 0
	if m.clock != nil {
		minute = m.clock.Minute()
	}
	m.reset()
	if m.committer != nil {
		m.committer.Commit(p, minute)
	}
}

func (m *Machine) reset() {
	m.state = Idle
	m.phase = PhaseOut
	m.action = 0
	m.team = TeamRef{}
	m.out = PlayerRef{}
}

func (m *Machine) invalid(op string) error {
	return fmt.Errorf("%w: cannot %s in state %s", ErrInvalidTransition, op, m.state)
}
