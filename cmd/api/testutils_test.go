package main

import (
	"MatchOpsApi/internal/clock"
	"MatchOpsApi/internal/data"
	"MatchOpsApi/internal/gamehub"
	"MatchOpsApi/internal/jsonlog"
	"MatchOpsApi/internal/lineup"
	"bytes"
	"context"
	json2 "encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	operatorToken = "OPERATOR0TOKEN000000000000"
	viewerToken   = "VIEWER0TOKEN00000000000000"
)

type memUsers map[string]*data.User

func (m memUsers) GetForToken(_ context.Context, _, token string) (*data.User, error) {
	user, ok := m[token]
	if !ok {
		return nil, data.ErrRecordNotFound
	}
	return user, nil
}

type memPermissions map[int64]data.Permissions

func (m memPermissions) GetAllForUser(_ context.Context, userID int64) (data.Permissions, error) {
	return m[userID], nil
}

// memStore backs every live session store with one in-memory match.
type memStore struct {
	mu      sync.Mutex
	match   data.Match
	events  []*data.MatchEvent
	nextID  int64
	lineups map[int64][]data.LineupEntry
	hints   data.Hints
}

func newMemStore() *memStore {
	return &memStore{
		match: data.Match{
			ID:     1,
			Home:   data.MatchTeam{ID: 10, Name: "Leinster", OrganisationID: 100},
			Away:   data.MatchTeam{ID: 20, Name: "Munster", OrganisationID: 200},
			Status: data.StatusScheduled,
		},
		nextID: 1,
		lineups: map[int64][]data.LineupEntry{
			10: {
				{PlayerID: 101, Name: "Jamison Gibson-Park", Role: data.RoleStarter, Order: 0, JerseyNumber: 9},
				{PlayerID: 102, Name: "Garry Ringrose", Role: data.RoleStarter, Order: 1, JerseyNumber: 13},
			},
		},
		hints: data.Hints{
			Home: []*data.Player{
				{ID: 103, FirstName: "James", LastName: "Lowe", JerseyNumber: 11},
			},
		},
	}
}

func (s *memStore) AddEvent(_ context.Context, matchID int64, in data.EventInput) (*data.MatchEvent,
	error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &data.MatchEvent{ID: s.nextID, MatchID: matchID, TeamID: in.TeamID,
		PlayerID: in.PlayerID, Type: in.Type, Minute: in.Minute, Notes: in.Notes}
	s.nextID++
	s.events = append(s.events, e)
	c := *e
	return &c, nil
}

func (s *memStore) RemoveEvent(_ context.Context, eventID, _ int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.events, func(e *data.MatchEvent) bool { return e.ID == eventID })
	if i < 0 {
		return data.ErrRecordNotFound
	}
	s.events = slices.Delete(s.events, i, i+1)
	return nil
}

func (s *memStore) UpdateEvent(_ context.Context, eventID int64, minute int) error {
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

func (s *memStore) GetAll(_ context.Context, _ int64) ([]*data.MatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*data.MatchEvent, len(s.events))
	for i, e := range s.events {
		c := *e
		out[i] = &c
	}
	return out, nil
}

func (s *memStore) GetLineup(_ context.Context, _, teamID int64) ([]data.LineupEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lineups[teamID]), nil
}

func (s *memStore) UpdateLineup(_ context.Context, _, teamID int64,
	entries []data.LineupEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineups[teamID] = slices.Clone(entries)
	return nil
}

func (s *memStore) GetHints(_ context.Context, _ int64) (*data.Hints, error) {
	return &s.hints, nil
}

func (s *memStore) Get(_ context.Context, id int64) (*data.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != s.match.ID {
		return nil, data.ErrRecordNotFound
	}
	m := s.match
	return &m, nil
}

func (s *memStore) UpdateStatus(_ context.Context, match *data.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.match.Status = match.Status
	s.match.Version++
	match.Version = s.match.Version
	return nil
}

func (s *memStore) UpdateScore(_ context.Context, match *data.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.match.HomeScore, s.match.AwayScore = match.HomeScore, match.AwayScore
	s.match.Version++
	match.Version = s.match.Version
	return nil
}

func (s *memStore) GetForOrganisation(_ context.Context, _ int64) ([]*data.Player, error) {
	return nil, nil
}

func (s *memStore) status() data.MatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Status
}

func (s *memStore) storedEvents() []*data.MatchEvent {
	events, _ := s.GetAll(context.Background(), 1)
	return events
}

func (s *memStore) savedLineup(teamID int64) []data.LineupEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lineups[teamID])
}

func newTestApplication(t *testing.T, store *memStore) *application {
	t.Helper()

	hubs := gamehub.NewHubModel(
		gamehub.Stores{Events: store, Lineups: store, Matches: store, Roster: store},
		nil,
		jsonlog.New(io.Discard, jsonlog.LevelOff),
		gamehub.Config{Lineup: lineup.DefaultConfig(), Scheduler: &clock.ManualScheduler{}},
	)
	t.Cleanup(hubs.Shutdown)

	app := &application{
		logger: jsonlog.New(io.Discard, jsonlog.LevelOff),
		users: memUsers{
			operatorToken: {ID: 1, Email: "ops@club.ie", Activated: true},
			viewerToken:   {ID: 2, Email: "fan@club.ie", Activated: true},
		},
		permissions: memPermissions{1: {data.PermissionMatchesWrite}},
		hubs:        hubs,
	}
	app.config.env = "testing"
	app.upgrader = app.newUpgrader()

	return app
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return &testServer{ts}
}

// do sends a JSON request and decodes the JSON response body.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, http.Header,
	map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		js, err := json2.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(js)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var decoded map[string]any
	require.NoError(t, json2.NewDecoder(res.Body).Decode(&decoded))

	return res.StatusCode, res.Header, decoded
}
