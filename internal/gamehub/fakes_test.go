package gamehub

import (
	"MatchOpsApi/internal/data"
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory implementation of every store the hub uses.
type fakeStore struct {
	mu        sync.Mutex
	matches   map[int64]*data.Match
	events    []*data.MatchEvent
	nextID    int64
	lineups   map[int64][]data.LineupEntry
	hints     *data.Hints
	roster    map[int64][]*data.Player
	failAdd   bool
	failSave  bool
	saveCalls int
	saveGate  chan struct{}

	// addGates holds AddEvent for an event type after the event is stored.
	addGates   map[data.EventType]chan struct{}
	statusGate chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		matches: map[int64]*data.Match{
			1: {
				ID:     1,
				Home:   data.MatchTeam{ID: 10, Name: "Leinster", OrganisationID: 100},
				Away:   data.MatchTeam{ID: 20, Name: "Munster", OrganisationID: 200},
				Status: data.StatusScheduled,
			},
		},
		nextID: 1,
		lineups: map[int64][]data.LineupEntry{
			10: {
				{PlayerID: 101, Name: "Jamison Gibson-Park", Role: data.RoleStarter, Order: 0, JerseyNumber: 9},
				{PlayerID: 102, Name: "Garry Ringrose", Role: data.RoleStarter, Order: 1, JerseyNumber: 13},
				{PlayerID: 103, Name: "Ciaran Frawley", Role: data.RoleBench, Order: 0, JerseyNumber: 22},
			},
		},
		hints: &data.Hints{
			Home: []*data.Player{
				{ID: 101, FirstName: "Jamison", LastName: "Gibson-Park", JerseyNumber: 9},
				{ID: 104, FirstName: "James", LastName: "Lowe", JerseyNumber: 11},
			},
			Away: []*data.Player{
				{ID: 201, FirstName: "Peter", LastName: "O'Mahony", JerseyNumber: 6},
			},
		},
		roster: map[int64][]*data.Player{
			200: {
				{ID: 201, FirstName: "Peter", LastName: "O'Mahony", JerseyNumber: 6},
				{ID: 202, FirstName: "Tadhg", LastName: "Beirne", JerseyNumber: 5},
			},
		},
	}
}

func (s *fakeStore) stores() Stores {
	return Stores{Events: s, Lineups: s, Matches: s, Roster: s}
}

func (s *fakeStore) AddEvent(_ context.Context, matchID int64, in data.EventInput) (*data.MatchEvent,
	error) {
	s.mu.Lock()
	if s.failAdd {
		s.mu.Unlock()
		return nil, errStoreDown
	}
	e := &data.MatchEvent{
		ID:        s.nextID,
		MatchID:   matchID,
		TeamID:    in.TeamID,
		PlayerID:  in.PlayerID,
		Type:      in.Type,
		Minute:    in.Minute,
		Notes:     in.Notes,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.events = append(s.events, e)
	c := *e
	gate := s.addGates[in.Type]
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return &c, nil
}

func (s *fakeStore) RemoveEvent(_ context.Context, eventID, matchID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.events, func(e *data.MatchEvent) bool {
		return e.ID == eventID && e.MatchID == matchID
	})
	if i < 0 {
		return data.ErrRecordNotFound
	}
	s.events = slices.Delete(s.events, i, i+1)
	return nil
}

func (s *fakeStore) UpdateEvent(_ context.Context, eventID int64, minute int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.events {
		if e.ID == eventID {
			e.Minute = minute
			return nil
		}
	}
	return data.ErrRecordNotFound
}

func (s *fakeStore) GetAll(_ context.Context, matchID int64) ([]*data.MatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*data.MatchEvent, 0)
	for _, e := range s.events {
		if e.MatchID == matchID {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *fakeStore) GetLineup(_ context.Context, _, teamID int64) ([]data.LineupEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lineups[teamID]), nil
}

func (s *fakeStore) UpdateLineup(_ context.Context, _, teamID int64,
	entries []data.LineupEntry) error {
	s.mu.Lock()
	gate := s.saveGate
	s.saveCalls++
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errStoreDown
	}
	s.lineups[teamID] = slices.Clone(entries)
	return nil
}

func (s *fakeStore) GetHints(_ context.Context, _ int64) (*data.Hints, error) {
	return s.hints, nil
}

func (s *fakeStore) Get(_ context.Context, id int64) (*data.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[id]
	if !ok {
		return nil, data.ErrRecordNotFound
	}
	c := *m
	return &c, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, match *data.Match) error {
	s.mu.Lock()
	gate := s.statusGate
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.matches[match.ID]
	if stored.Version != match.Version {
		return data.ErrEditConflict
	}
	stored.Status = match.Status
	stored.Version++
	match.Version = stored.Version
	return nil
}

func (s *fakeStore) UpdateScore(_ context.Context, match *data.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.matches[match.ID]
	if stored.Version != match.Version {
		return data.ErrEditConflict
	}
	stored.HomeScore = match.HomeScore
	stored.AwayScore = match.AwayScore
	stored.Version++
	match.Version = stored.Version
	return nil
}

func (s *fakeStore) GetForOrganisation(_ context.Context, organisationID int64) ([]*data.Player,
	error) {
	return s.roster[organisationID], nil
}

func (s *fakeStore) gateAdd(t data.EventType) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	gate := make(chan struct{})
	if s.addGates == nil {
		s.addGates = make(map[data.EventType]chan struct{})
	}
	s.addGates[t] = gate
	return gate
}

func (s *fakeStore) gateStatus() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statusGate = make(chan struct{})
	return s.statusGate
}

func (s *fakeStore) match(id int64) data.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.matches[id]
}

func (s *fakeStore) storedEvents() []*data.MatchEvent {
	events, _ := s.GetAll(context.Background(), 1)
	return events
}

func (s *fakeStore) storedLineup(teamID int64) []data.LineupEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lineups[teamID])
}

type sentMail struct {
	recipient string
	template  string
	data      any
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(recipient, templateFile string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{recipient, templateFile, data})
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
