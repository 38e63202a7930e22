package gamehub

import (
	"MatchOpsApi/internal/data"
	"context"
)

// EventStore persists match events.
type EventStore interface {
	AddEvent(ctx context.Context, matchID int64, in data.EventInput) (*data.MatchEvent, error)
	RemoveEvent(ctx context.Context, eventID, matchID int64) error
	UpdateEvent(ctx context.Context, eventID int64, minute int) error
	GetAll(ctx context.Context, matchID int64) ([]*data.MatchEvent, error)
}

// LineupStore persists lineups. UpdateLineup replaces the saved lineup of a team.
type LineupStore interface {
	GetLineup(ctx context.Context, matchID, teamID int64) ([]data.LineupEntry, error)
	UpdateLineup(ctx context.Context, matchID, teamID int64, entries []data.LineupEntry) error
	GetHints(ctx context.Context, matchID int64) (*data.Hints, error)
}

type MatchStore interface {
	Get(ctx context.Context, id int64) (*data.Match, error)
	UpdateStatus(ctx context.Context, match *data.Match) error
	UpdateScore(ctx context.Context, match *data.Match) error
}

type RosterStore interface {
	GetForOrganisation(ctx context.Context, organisationID int64) ([]*data.Player, error)
}

type Mailer interface {
	Send(recipient, templateFile string, data any) error
}

type Stores struct {
	Events  EventStore
	Lineups LineupStore
	Matches MatchStore
	Roster  RosterStore
}

// NewStores wires the PostgreSQL models into the hub.
func NewStores(models *data.Models) Stores {
	return Stores{
		Events:  &models.Events,
		Lineups: &models.Lineups,
		Matches: &models.Matches,
		Roster:  &models.Players,
	}
}
