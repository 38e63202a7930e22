package data

import (
	"context"
	"database/sql"
	"strings"
)

type Player struct {
	ID             int64  `json:"id"`
	OrganisationID int64  `json:"organisation_id"`
	TeamID         int64  `json:"team_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	JerseyNumber   int    `json:"jersey_number"`
	Position       string `json:"position,omitempty"`
	IsActive       bool   `json:"active"`
}

func (p *Player) Name() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type PlayerModel struct {
	db *sql.DB
}

// GetForOrganisation returns every active player registered with an organisation.
func (m *PlayerModel) GetForOrganisation(ctx context.Context, organisationID int64) ([]*Player,
	error) {
	stmt := `
		SELECT id, organisation_id, team_id, first_name, last_name, jersey_number, position,
			is_active
		FROM players
		WHERE organisation_id = $1 AND is_active
		ORDER BY last_name, first_name`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, organisationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*Player, 0)
	for rows.Next() {
		var p Player
		err := rows.Scan(
			&p.ID,
			&p.OrganisationID,
			&p.TeamID,
			&p.FirstName,
			&p.LastName,
			&p.JerseyNumber,
			&p.Position,
			&p.IsActive,
		)
		if err != nil {
			return nil, err
		}
		players = append(players, &p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return players, nil
}
