package data

import (
	"MatchOpsApi/internal/validator"
	"context"
	"database/sql"
	"database/sql/driver"
	json2 "encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrInvalidEventType = errors.New("invalid event type")

// EventType enumerates everything an operator can record during a match.
type EventType int

const (
	EventTry EventType = iota
	EventPenaltyTry
	EventConversion
	EventPenalty
	EventDropGoal
	EventYellowCard
	EventRedCard
	EventSubstitution
	EventInjury
	EventScrum
	EventLineout
)

var eventTypeNames = [...]string{
	EventTry:          "TRY",
	EventPenaltyTry:   "PENALTY_TRY",
	EventConversion:   "CONVERSION",
	EventPenalty:      "PENALTY",
	EventDropGoal:     "DROP_GOAL",
	EventYellowCard:   "YELLOW_CARD",
	EventRedCard:      "RED_CARD",
	EventSubstitution: "SUBSTITUTION",
	EventInjury:       "INJURY",
	EventScrum:        "SCRUM",
	EventLineout:      "LINEOUT",
}

// EventTypes returns every event type in declaration order.
func EventTypes() []EventType {
	types := make([]EventType, len(eventTypeNames))
	for i := range eventTypeNames {
		types[i] = EventType(i)
	}
	return types
}

func (t EventType) Valid() bool {
	return t >= EventTry && int(t) < len(eventTypeNames)
}

func (t EventType) String() string {
	if !t.Valid() {
		return "EventType(" + strconv.Itoa(int(t)) + ")"
	}
	return eventTypeNames[t]
}

// TeamOnly reports whether events of this type are recorded against a team with no player.
func (t EventType) TeamOnly() bool {
	return t == EventScrum || t == EventLineout
}

func ParseEventType(s string) (EventType, error) {
	for i, name := range eventTypeNames {
		if name == s {
			return EventType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidEventType, s)
}

func (t EventType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrInvalidEventType
	}
	return []byte(strconv.Quote(t.String())), nil
}

func (t *EventType) UnmarshalJSON(b []byte) error {
	unquoted, err := strconv.Unquote(string(b))
	if err != nil {
		return &json2.UnmarshalTypeError{Value: string(b), Field: "type"}
	}
	parsed, err := ParseEventType(unquoted)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t EventType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, ErrInvalidEventType
	}
	return t.String(), nil
}

func (t *EventType) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidEventType, src)
	}
	parsed, err := ParseEventType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MatchEvent is a committed entry of a match's event log. Only Minute may change after
// the event is created.
type MatchEvent struct {
	ID        int64     `json:"id"`
	MatchID   int64     `json:"match_id"`
	TeamID    int64     `json:"team_id"`
	PlayerID  *int64    `json:"player_id,omitempty"`
	Type      EventType `json:"type"`
	Minute    int       `json:"minute"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"-"`
}

// EventInput is the payload submitted when committing a new event.
type EventInput struct {
	TeamID   int64     `json:"team_id"`
	PlayerID *int64    `json:"player_id,omitempty"`
	Type     EventType `json:"type"`
	Minute   int       `json:"minute"`
	Notes    string    `json:"notes,omitempty"`
}

type EventModel struct {
	db *sql.DB
}

func (m *EventModel) AddEvent(ctx context.Context, matchID int64, in EventInput) (*MatchEvent,
	error) {
	stmt := `
		INSERT INTO match_events (match_id, team_id, player_id, type, minute, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	event := &MatchEvent{
		MatchID:  matchID,
		TeamID:   in.TeamID,
		PlayerID: in.PlayerID,
		Type:     in.Type,
		Minute:   in.Minute,
		Notes:    in.Notes,
	}

	args := []any{matchID, in.TeamID, in.PlayerID, in.Type, in.Minute, in.Notes}
	err := m.db.QueryRowContext(ctx, stmt, args...).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		switch {
		case err.Error() == `pq: insert or update on table "match_events" violates foreign key `+
			`constraint "match_events_match_id_fkey"`:
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return event, nil
}

func (m *EventModel) RemoveEvent(ctx context.Context, eventID, matchID int64) error {
	stmt := `
		DELETE FROM match_events
		WHERE id = $1 AND match_id = $2`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.db.ExecContext(ctx, stmt, eventID, matchID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (m *EventModel) UpdateEvent(ctx context.Context, eventID int64, minute int) error {
	stmt := `
		UPDATE match_events
		SET minute = $1
		WHERE id = $2`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.db.ExecContext(ctx, stmt, minute, eventID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// GetAll returns the events of a match in commit order.
func (m *EventModel) GetAll(ctx context.Context, matchID int64) ([]*MatchEvent, error) {
	stmt := `
		SELECT id, match_id, team_id, player_id, type, minute, notes, created_at
		FROM match_events
		WHERE match_id = $1
		ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*MatchEvent, 0)
	for rows.Next() {
		var event MatchEvent
		var playerID sql.NullInt64
		err := rows.Scan(
			&event.ID,
			&event.MatchID,
			&event.TeamID,
			&playerID,
			&event.Type,
			&event.Minute,
			&event.Notes,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if playerID.Valid {
			event.PlayerID = &playerID.Int64
		}
		events = append(events, &event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func ValidateMinute(v *validator.Validator, minute int) {
	v.Check(minute >= 0, "minute", "must be 0 or greater")
	v.Check(minute <= 200, "minute", "must be 200 or less")
}
