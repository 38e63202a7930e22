package data

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

var ErrInvalidLineupRole = errors.New("invalid lineup role")

type LineupRole int

const (
	RoleStarter LineupRole = iota
	RoleBench
	RoleNotSelected
)

var lineupRoleNames = [...]string{
	RoleStarter:     "STARTER",
	RoleBench:       "BENCH",
	RoleNotSelected: "NOT_SELECTED",
}

func (r LineupRole) Valid() bool {
	return r >= RoleStarter && int(r) < len(lineupRoleNames)
}

func (r LineupRole) String() string {
	if !r.Valid() {
		return "LineupRole(" + strconv.Itoa(int(r)) + ")"
	}
	return lineupRoleNames[r]
}

func ParseLineupRole(s string) (LineupRole, error) {
	for i, name := range lineupRoleNames {
		if name == s {
			return LineupRole(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLineupRole, s)
}

func (r LineupRole) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(r.String())), nil
}

func (r *LineupRole) UnmarshalJSON(b []byte) error {
	unquoted, err := strconv.Unquote(string(b))
	if err != nil {
		return ErrInvalidLineupRole
	}
	parsed, err := ParseLineupRole(unquoted)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r LineupRole) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, ErrInvalidLineupRole
	}
	return r.String(), nil
}

func (r *LineupRole) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidLineupRole, src)
	}
	parsed, err := ParseLineupRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// LineupEntry places one player in a team's matchday lineup. Order is 0-based within the
// player's role.
type LineupEntry struct {
	PlayerID     int64      `json:"player_id"`
	Name         string     `json:"name"`
	Role         LineupRole `json:"role"`
	Order        int        `json:"order"`
	JerseyNumber int        `json:"jersey_number"`
	IsCaptain    bool       `json:"is_captain"`
	Position     string     `json:"position,omitempty"`
}

// Hints lists the players eligible to be picked for each side of a match.
type Hints struct {
	Home []*Player `json:"home"`
	Away []*Player `json:"away"`
}

type LineupModel struct {
	db *sql.DB
}

// GetLineup returns the saved lineup of a team for a match, starters first and then by
// order.
func (m *LineupModel) GetLineup(ctx context.Context, matchID, teamID int64) ([]LineupEntry,
	error) {
	stmt := `
		SELECT l.player_id, p.first_name, p.last_name, l.role, l.lineup_order, l.jersey_number,
			l.is_captain, l.position
		FROM match_lineups l
		INNER JOIN players p ON p.id = l.player_id
		WHERE l.match_id = $1 AND l.team_id = $2
		ORDER BY l.role DESC, l.lineup_order`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, matchID, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]LineupEntry, 0)
	for rows.Next() {
		var entry LineupEntry
		var firstName, lastName string
		err := rows.Scan(
			&entry.PlayerID,
			&firstName,
			&lastName,
			&entry.Role,
			&entry.Order,
			&entry.JerseyNumber,
			&entry.IsCaptain,
			&entry.Position,
		)
		if err != nil {
			return nil, err
		}
		entry.Name = strings.TrimSpace(firstName + " " + lastName)
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// UpdateLineup replaces the saved lineup of a team with entries in one transaction.
func (m *LineupModel) UpdateLineup(ctx context.Context, matchID, teamID int64,
	entries []LineupEntry) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM match_lineups
		WHERE match_id = $1 AND team_id = $2`, matchID, teamID)
	if err != nil {
		return err
	}

	if len(entries) > 0 {
		var (
			playerIDs = make([]int64, len(entries))
			roles     = make([]string, len(entries))
			orders    = make([]int64, len(entries))
			jerseys   = make([]int64, len(entries))
			captains  = make([]bool, len(entries))
			positions = make([]string, len(entries))
		)
		for i, e := range entries {
			if e.Role == RoleNotSelected || !e.Role.Valid() {
				return newFieldError("role", fmt.Sprintf("player %d has no lineup role", e.PlayerID))
			}
			playerIDs[i] = e.PlayerID
			roles[i] = e.Role.String()
			orders[i] = int64(e.Order)
			jerseys[i] = int64(e.JerseyNumber)
			captains[i] = e.IsCaptain
			positions[i] = e.Position
		}

		stmt := `
			INSERT INTO match_lineups (match_id, team_id, player_id, role, lineup_order,
				jersey_number, is_captain, position)
			SELECT $1, $2, u.player_id, u.role, u.lineup_order, u.jersey_number, u.is_captain,
				u.position
			FROM unnest($3::bigint[], $4::text[], $5::int[], $6::int[], $7::bool[], $8::text[])
				AS u(player_id, role, lineup_order, jersey_number, is_captain, position)`

		args := []any{
			matchID,
			teamID,
			pq.Array(playerIDs),
			pq.Array(roles),
			pq.Array(orders),
			pq.Array(jerseys),
			pq.Array(captains),
			pq.Array(positions),
		}

		_, err = tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			var pqErr *pq.Error
			switch {
			case errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation":
				return newFieldError("player_id", "lineup references an unknown player")
			case errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation":
				return newFieldError("player_id", "player appears more than once")
			default:
				return err
			}
		}
	}

	return tx.Commit()
}

// GetHints returns the active players of both teams of a match ordered by jersey number.
func (m *LineupModel) GetHints(ctx context.Context, matchID int64) (*Hints, error) {
	stmt := `
		SELECT p.id, p.organisation_id, p.team_id, p.first_name, p.last_name, p.jersey_number,
			p.position, p.is_active, p.team_id = m.home_team_id
		FROM matches m
		INNER JOIN players p ON p.team_id IN (m.home_team_id, m.away_team_id)
		WHERE m.id = $1 AND p.is_active
		ORDER BY p.jersey_number, p.id`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hints := &Hints{Home: make([]*Player, 0), Away: make([]*Player, 0)}
	for rows.Next() {
		var p Player
		var home bool
		err := rows.Scan(
			&p.ID,
			&p.OrganisationID,
			&p.TeamID,
			&p.FirstName,
			&p.LastName,
			&p.JerseyNumber,
			&p.Position,
			&p.IsActive,
			&home,
		)
		if err != nil {
			return nil, err
		}
		if home {
			hints.Home = append(hints.Home, &p)
		} else {
			hints.Away = append(hints.Away, &p)
		}
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return hints, nil
}
