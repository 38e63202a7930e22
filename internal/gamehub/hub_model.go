package gamehub

import (
	"MatchOpsApi/internal/clock"
	"MatchOpsApi/internal/data"
	"MatchOpsApi/internal/jsonlog"
	"MatchOpsApi/internal/lineup"
	"MatchOpsApi/internal/pins"
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	Lineup lineup.Config
	// IdleTimeout is how long a session with a stopped clock may go without operator
	// activity before the sweeper closes it.
	IdleTimeout time.Duration
	// SweepSchedule is a cron spec with a seconds field.
	SweepSchedule string
	// Scheduler drives match clocks. Defaults to a ticker-backed scheduler.
	Scheduler clock.Scheduler
}

// HubModel keeps the live sessions, keyed by match id and by public watch pin.
type HubModel struct {
	mu      sync.Mutex
	byMatch map[int64]*Hub
	byPin   map[string]*Hub
	opening map[int64]*sync.Mutex

	stores Stores
	mailer Mailer
	logger *jsonlog.Logger
	cfg    Config
	cron   *cron.Cron
}

func NewHubModel(stores Stores, mailer Mailer, logger *jsonlog.Logger, cfg Config) *HubModel {
	if cfg.SweepSchedule == "" {
		cfg.SweepSchedule = "0 * * * * *"
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 2 * time.Hour
	}
	return &HubModel{
		byMatch: make(map[int64]*Hub),
		byPin:   make(map[string]*Hub),
		opening: make(map[int64]*sync.Mutex),
		stores:  stores,
		mailer:  mailer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Open returns the live session of a match, loading it from the stores if needed. The
// full-time report is mailed to opener.
func (m *HubModel) Open(ctx context.Context, matchID int64, opener *data.User) (*Hub, error) {
	lock := m.openLock(matchID)
	lock.Lock()
	defer lock.Unlock()

	if hub, err := m.Get(matchID); err == nil {
		return hub, nil
	}

	cfg, err := m.load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if opener != nil && !opener.IsAnonymous() {
		cfg.reportTo = opener.Email
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cfg.pin, err = pins.GenerateUnique(pins.DefaultLength, func(pin string) bool {
		_, taken := m.byPin[pin]
		return taken
	})
	if err != nil {
		return nil, err
	}

	hub := newHub(cfg)
	m.byMatch[matchID] = hub
	m.byPin[hub.Pin] = hub

	if m.logger != nil {
		m.logger.PrintInfo("live session opened", map[string]string{
			"match_id": strconv.FormatInt(matchID, 10),
			"pin":      hub.Pin,
		})
	}

	return hub, nil
}

func (m *HubModel) openLock(matchID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.opening[matchID]
	if !ok {
		lock = &sync.Mutex{}
		m.opening[matchID] = lock
	}
	return lock
}

func (m *HubModel) load(ctx context.Context, matchID int64) (hubConfig, error) {
	match, err := m.stores.Matches.Get(ctx, matchID)
	if err != nil {
		return hubConfig{}, err
	}

	events, err := m.stores.Events.GetAll(ctx, matchID)
	if err != nil {
		return hubConfig{}, fmt.Errorf("load events: %w", err)
	}

	var saved [2][]data.LineupEntry
	for _, side := range []data.TeamSide{data.SideHome, data.SideAway} {
		saved[side], err = m.stores.Lineups.GetLineup(ctx, matchID, match.Team(side).ID)
		if err != nil {
			return hubConfig{}, fmt.Errorf("load %s lineup: %w", side, err)
		}
	}

	hints, err := m.stores.Lineups.GetHints(ctx, matchID)
	if err != nil {
		return hubConfig{}, fmt.Errorf("load lineup hints: %w", err)
	}

	rosters := make(map[int64][]*data.Player)
	for _, team := range []data.MatchTeam{match.Home, match.Away} {
		rosters[team.ID], err = m.stores.Roster.GetForOrganisation(ctx, team.OrganisationID)
		if err != nil {
			return hubConfig{}, fmt.Errorf("load roster: %w", err)
		}
	}

	return hubConfig{
		match:     match,
		events:    events,
		saved:     saved,
		hints:     hints,
		rosters:   rosters,
		lineup:    m.cfg.Lineup,
		scheduler: m.cfg.Scheduler,
		logger:    m.logger,
		stores:    m.stores,
		mailer:    m.mailer,
	}, nil
}

func (m *HubModel) Get(matchID int64) (*Hub, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hub, ok := m.byMatch[matchID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return hub, nil
}

func (m *HubModel) GetByPin(pin string) (*Hub, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hub, ok := m.byPin[pin]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return hub, nil
}

// Close ends the live session of a match.
func (m *HubModel) Close(matchID int64) error {
	m.mu.Lock()
	hub, ok := m.byMatch[matchID]
	if ok {
		delete(m.byMatch, matchID)
		delete(m.byPin, hub.Pin)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	hub.Close()

	if m.logger != nil {
		m.logger.PrintInfo("live session closed", map[string]string{
			"match_id": strconv.FormatInt(matchID, 10),
		})
	}
	return nil
}

// Len returns the number of live sessions.
func (m *HubModel) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byMatch)
}

// Sweep closes sessions whose clock is stopped and that have been idle longer than the
// configured timeout. It returns the number of sessions closed.
func (m *HubModel) Sweep(now time.Time) int {
	m.mu.Lock()
	idle := make([]int64, 0)
	for id, hub := range m.byMatch {
		if !hub.ClockRunning() && now.Sub(hub.IdleSince()) > m.cfg.IdleTimeout {
			idle = append(idle, id)
		}
	}
	m.mu.Unlock()

	closed := 0
	for _, id := range idle {
		if m.Close(id) == nil {
			closed++
		}
	}
	return closed
}

// StartSweeper schedules Sweep on the configured cron schedule.
func (m *HubModel) StartSweeper() error {
	m.cron = cron.New(cron.WithSeconds())

	_, err := m.cron.AddFunc(m.cfg.SweepSchedule, func() {
		if n := m.Sweep(time.Now()); n > 0 && m.logger != nil {
			m.logger.PrintInfo("idle sessions closed", map[string]string{
				"count": strconv.Itoa(n),
			})
		}
	})
	if err != nil {
		return fmt.Errorf("schedule session sweeper: %w", err)
	}

	m.cron.Start()
	return nil
}

// Shutdown stops the sweeper and closes every session.
func (m *HubModel) Shutdown() {
	if m.cron != nil {
		<-m.cron.Stop().Done()
	}

	m.mu.Lock()
	ids := make([]int64, 0, len(m.byMatch))
	for id := range m.byMatch {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		_ = m.Close(id)
	}
}
