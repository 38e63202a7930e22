package capture

import (
	"MatchOpsApi/internal/data"
	"fmt"
)

type TeamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type PlayerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Payload is a finished action ready to be committed as a match event. The set of
// implementations is closed.
type Payload interface {
	Type() data.EventType
	Team() TeamRef
	// Input builds the persisted form of the action, stamped with minute.
	Input(minute int) data.EventInput
	payload()
}

type ScoringAction struct {
	EventType data.EventType
	By        TeamRef
	Player    PlayerRef
}

func (a ScoringAction) Type() data.EventType { return a.EventType }
func (a ScoringAction) Team() TeamRef        { return a.By }
func (ScoringAction) payload()               {}

func (a ScoringAction) Input(minute int) data.EventInput {
	return playerInput(a.By, a.Player, a.EventType, minute)
}

type DisciplineAction struct {
	EventType data.EventType
	By        TeamRef
	Player    PlayerRef
}

func (a DisciplineAction) Type() data.EventType { return a.EventType }
func (a DisciplineAction) Team() TeamRef        { return a.By }
func (DisciplineAction) payload()               {}

func (a DisciplineAction) Input(minute int) data.EventInput {
	return playerInput(a.By, a.Player, a.EventType, minute)
}

type InjuryAction struct {
	By     TeamRef
	Player PlayerRef
}

func (InjuryAction) Type() data.EventType { return data.EventInjury }
func (a InjuryAction) Team() TeamRef      { return a.By }
func (InjuryAction) payload()             {}

func (a InjuryAction) Input(minute int) data.EventInput {
	return playerInput(a.By, a.Player, data.EventInjury, minute)
}

// SubstitutionAction records Out leaving the field for In. Out is the event's player.
type SubstitutionAction struct {
	By  TeamRef
	Out PlayerRef
	In  PlayerRef
}

func (SubstitutionAction) Type() data.EventType { return data.EventSubstitution }
func (a SubstitutionAction) Team() TeamRef      { return a.By }
func (SubstitutionAction) payload()             {}

func (a SubstitutionAction) Input(minute int) data.EventInput {
	in := playerInput(a.By, a.Out, data.EventSubstitution, minute)
	in.Notes = SubstitutionNotes(a.Out.Name, a.In.Name)
	return in
}

// SubstitutionNotes formats the notes stored with a substitution event.
func SubstitutionNotes(out, in string) string {
	return fmt.Sprintf("OUT: %s | IN: %s", out, in)
}

// TeamAction is an event credited to a team with no player, such as a scrum.
type TeamAction struct {
	EventType data.EventType
	By        TeamRef
}

func (a TeamAction) Type() data.EventType { return a.EventType }
func (a TeamAction) Team() TeamRef        { return a.By }
func (TeamAction) payload()               {}

func (a TeamAction) Input(minute int) data.EventInput {
	return data.EventInput{TeamID: a.By.ID, Type: a.EventType, Minute: minute}
}

func playerInput(team TeamRef, player PlayerRef, t data.EventType, minute int) data.EventInput {
	id := player.ID
	return data.EventInput{TeamID: team.ID, PlayerID: &id, Type: t, Minute: minute}
}

func newPayload(t data.EventType, team TeamRef, player, incoming PlayerRef) Payload {
	switch t {
	case data.EventTry, data.EventPenaltyTry, data.EventConversion, data.EventPenalty,
		data.EventDropGoal:
		return ScoringAction{EventType: t, By: team, Player: player}
	case data.EventYellowCard, data.EventRedCard:
		return DisciplineAction{EventType: t, By: team, Player: player}
	case data.EventInjury:
		return InjuryAction{By: team, Player: player}
	case data.EventSubstitution:
		return SubstitutionAction{By: team, Out: player, In: incoming}
	default:
		return TeamAction{EventType: t, By: team}
	}
}
