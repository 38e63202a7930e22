package data

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrInvalidMatchStatus = errors.New("invalid match status")

type MatchStatus int

const (
	StatusScheduled MatchStatus = iota
	StatusOngoing
	StatusCompleted
	StatusCancelled
)

var matchStatusNames = [...]string{
	StatusScheduled: "scheduled",
	StatusOngoing:   "ongoing",
	StatusCompleted: "completed",
	StatusCancelled: "cancelled",
}

func (s MatchStatus) String() string {
	if s < StatusScheduled || int(s) >= len(matchStatusNames) {
		return "MatchStatus(" + strconv.Itoa(int(s)) + ")"
	}
	return matchStatusNames[s]
}

// Final reports whether no further live operations are permitted on the match.
func (s MatchStatus) Final() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func ParseMatchStatus(s string) (MatchStatus, error) {
	for i, name := range matchStatusNames {
		if name == s {
			return MatchStatus(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMatchStatus, s)
}

func (s MatchStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

func (s MatchStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

func (s *MatchStatus) Scan(src any) error {
	var str string
	switch v := src.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidMatchStatus, src)
	}
	parsed, err := ParseMatchStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type TeamSide int

const (
	SideHome TeamSide = iota
	SideAway
)

func (s TeamSide) String() string {
	if s == SideAway {
		return "away"
	}
	return "home"
}

func ParseTeamSide(s string) (TeamSide, bool) {
	switch s {
	case "home":
		return SideHome, true
	case "away":
		return SideAway, true
	default:
		return 0, false
	}
}

type MatchTeam struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	OrganisationID int64  `json:"organisation_id"`
}

type Match struct {
	ID        int64       `json:"id"`
	Home      MatchTeam   `json:"home"`
	Away      MatchTeam   `json:"away"`
	Status    MatchStatus `json:"status"`
	HomeScore int         `json:"home_score"`
	AwayScore int         `json:"away_score"`
	StartTime time.Time   `json:"start_time"`
	Version   int32       `json:"-"`
}

// Team returns the team playing on side.
func (m *Match) Team(side TeamSide) MatchTeam {
	if side == SideAway {
		return m.Away
	}
	return m.Home
}

// SideOf reports which side teamID plays on.
func (m *Match) SideOf(teamID int64) (TeamSide, bool) {
	switch teamID {
	case m.Home.ID:
		return SideHome, true
	case m.Away.ID:
		return SideAway, true
	default:
		return 0, false
	}
}

type MatchModel struct {
	db *sql.DB
}

func (m *MatchModel) Get(ctx context.Context, id int64) (*Match, error) {
	stmt := `
		SELECT m.id, m.status, m.home_score, m.away_score, m.start_time, m.version,
			h.id, h.name, h.organisation_id,
			a.id, a.name, a.organisation_id
		FROM matches m
		INNER JOIN teams h ON h.id = m.home_team_id
		INNER JOIN teams a ON a.id = m.away_team_id
		WHERE m.id = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var match Match
	err := m.db.QueryRowContext(ctx, stmt, id).Scan(
		&match.ID,
		&match.Status,
		&match.HomeScore,
		&match.AwayScore,
		&match.StartTime,
		&match.Version,
		&match.Home.ID,
		&match.Home.Name,
		&match.Home.OrganisationID,
		&match.Away.ID,
		&match.Away.Name,
		&match.Away.OrganisationID,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &match, nil
}

// UpdateStatus persists match.Status. The update is rejected with ErrEditConflict when
// the stored version no longer matches match.Version.
func (m *MatchModel) UpdateStatus(ctx context.Context, match *Match) error {
	stmt := `
		UPDATE matches
		SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version`

	return m.update(ctx, match, stmt, match.Status, match.ID, match.Version)
}

// UpdateScore persists the final home and away scores.
func (m *MatchModel) UpdateScore(ctx context.Context, match *Match) error {
	stmt := `
		UPDATE matches
		SET home_score = $1, away_score = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version`

	return m.update(ctx, match, stmt, match.HomeScore, match.AwayScore, match.ID, match.Version)
}

func (m *MatchModel) update(ctx context.Context, match *Match, stmt string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := m.db.QueryRowContext(ctx, stmt, args...).Scan(&match.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}

	return nil
}
