package gamehub

import (
	"MatchOpsApi/internal/capture"
	"MatchOpsApi/internal/clock"
	"MatchOpsApi/internal/data"
	"MatchOpsApi/internal/eventlog"
	"MatchOpsApi/internal/jsonlog"
	"MatchOpsApi/internal/lineup"
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Hub runs the live session of one match. All session state is owned by a single loop
// goroutine; public methods hand closures to the loop and wait for them to run.
// Persistence happens in background goroutines whose results are posted back to the loop.
type Hub struct {
	MatchID int64
	Pin     string

	logger   *jsonlog.Logger
	stores   Stores
	mailer   Mailer
	reportTo string

	// Owned by the loop.
	match         data.Match
	halftime      bool
	statusPending bool
	finalizing    bool
	commits       int
	clock         *clock.Clock
	machine       *capture.Machine
	lineups       [2]*lineup.Engine
	log           *eventlog.Log
	rosters       map[int64][]*data.Player
	confirmations []*ConfirmationRequest
	undoTarget    int64
	watchers      map[*Watcher]bool

	lastActive  atomic.Int64
	ops         chan func()
	clockEvents chan clock.Event
	quit        chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
	ctx         context.Context
	cancel      context.CancelFunc
	inflight    sync.WaitGroup
}

type hubConfig struct {
	match     *data.Match
	pin       string
	events    []*data.MatchEvent
	saved     [2][]data.LineupEntry
	hints     *data.Hints
	rosters   map[int64][]*data.Player
	lineup    lineup.Config
	scheduler clock.Scheduler
	logger    *jsonlog.Logger
	stores    Stores
	mailer    Mailer
	reportTo  string
}

func newHub(cfg hubConfig) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		MatchID:     cfg.match.ID,
		Pin:         cfg.pin,
		logger:      cfg.logger,
		stores:      cfg.stores,
		mailer:      cfg.mailer,
		reportTo:    cfg.reportTo,
		match:       *cfg.match,
		log:         eventlog.New(cfg.events),
		rosters:     cfg.rosters,
		watchers:    make(map[*Watcher]bool),
		ops:         make(chan func()),
		clockEvents: make(chan clock.Event, watcherBuffer),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}
	if h.rosters == nil {
		h.rosters = make(map[int64][]*data.Player)
	}

	hints := cfg.hints
	if hints == nil {
		hints = &data.Hints{}
	}
	for side, players := range [2][]*data.Player{hints.Home, hints.Away} {
		engine := lineup.New(cfg.lineup)
		engine.Load(cfg.saved[side], players)
		h.lineups[side] = engine
	}

	h.clock = clock.New(clock.Config{
		Scheduler: cfg.scheduler,
		Elapsed:   h.seedElapsed(),
		Notify:    h.onClockEvent,
	})

	h.machine = capture.New(
		capture.Teams{
			Home: capture.TeamRef{ID: h.match.Home.ID, Name: h.match.Home.Name},
			Away: capture.TeamRef{ID: h.match.Away.ID, Name: h.match.Away.Name},
		},
		h.clock,
		hubPools{h},
		hubRoster{h},
		hubCommitter{h},
	)

	h.applyLock()
	h.touch()

	go h.run()

	return h
}

// seedElapsed resumes the clock at the minute of the latest recorded event.
func (h *Hub) seedElapsed() int {
	minute := 0
	for _, e := range h.log.Events() {
		minute = max(minute, e.Minute)
	}
	return minute * 60
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case op := <-h.ops:
			op()
		case e := <-h.clockEvents:
			h.broadcastClock(e)
		case <-h.quit:
			h.teardown()
			return
		}
	}
}

// do runs fn on the loop and waits for it to finish.
func (h *Hub) do(fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		defer func() {
			if err := recover(); err != nil {
				h.logError(fmt.Errorf("%s", err), "panic", nil)
			}
		}()
		fn()
	}

	select {
	case h.ops <- wrapped:
	case <-h.done:
		return ErrSessionClosed
	}
	<-finished
	return nil
}

// touch records operator activity for the idle sweeper.
func (h *Hub) touch() {
	h.lastActive.Store(time.Now().UnixNano())
}

// call runs fn on the loop as an operator action and returns its result.
func call[T any](h *Hub, fn func() (T, error)) (T, error) {
	return query(h, func() (T, error) {
		h.touch()
		return fn()
	})
}

// query runs a read on the loop. Reads do not count as activity for the idle sweeper.
func query[T any](h *Hub, fn func() (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	doErr := h.do(func() {
		result, err = fn()
	})
	if doErr != nil {
		return result, doErr
	}
	return result, err
}

// background runs work off the loop. The closure it returns, if any, is then run on the
// loop.
func (h *Hub) background(name string, work func(ctx context.Context) func()) {
	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		defer func() {
			if err := recover(); err != nil {
				h.logError(fmt.Errorf("%s", err), name, nil)
			}
		}()

		ctx, cancel := context.WithTimeout(h.ctx, ioTimeout)
		complete := work(ctx)
		cancel()

		if complete != nil {
			_ = h.do(complete)
		}
	}()
}

// Flush blocks until all background persistence started so far has completed.
func (h *Hub) Flush() {
	h.inflight.Wait()
}

// Close stops the clock, disconnects watchers and ends the loop. Background calls still
// running are cancelled.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.quit)
	})
	<-h.done
	h.cancel()
}

func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) teardown() {
	h.clock.Close()
	for w := range h.watchers {
		delete(h.watchers, w)
		close(w.Receive)
	}
}

// IdleSince returns the time of the last operator action.
func (h *Hub) IdleSince() time.Time {
	return time.Unix(0, h.lastActive.Load())
}

// ClockRunning is safe to call from any goroutine.
func (h *Hub) ClockRunning() bool {
	return h.clock.Running()
}

func (h *Hub) onClockEvent(e clock.Event) {
	select {
	case h.clockEvents <- e:
	default:
	}
}

func (h *Hub) locked() bool {
	return h.match.Status.Final()
}

func (h *Hub) applyLock() {
	for _, engine := range h.lineups {
		engine.SetLocked(h.locked())
	}
}

func (h *Hub) teamSide(teamID int64) (data.TeamSide, bool) {
	return h.match.SideOf(teamID)
}

func (h *Hub) logError(err error, op string, properties map[string]string) {
	if h.logger == nil {
		return
	}
	props := map[string]string{
		"match_id": strconv.FormatInt(h.MatchID, 10),
		"op":       op,
	}
	for k, v := range properties {
		props[k] = v
	}
	h.logger.PrintError(err, props)
}

func (h *Hub) logInfo(message string, properties map[string]string) {
	if h.logger == nil {
		return
	}
	props := map[string]string{"match_id": strconv.FormatInt(h.MatchID, 10)}
	for k, v := range properties {
		props[k] = v
	}
	h.logger.PrintInfo(message, props)
}

// failed reports a background failure to watchers and the log.
func (h *Hub) failed(op string, err error, properties map[string]string) {
	h.logError(err, op, properties)
	h.broadcast("error", map[string]string{"op": op, "message": err.Error()})
}

type hubPools struct{ h *Hub }

func (p hubPools) Lineup(teamID int64) ([]data.LineupEntry, []data.LineupEntry) {
	side, ok := p.h.teamSide(teamID)
	if !ok {
		return nil, nil
	}
	engine := p.h.lineups[side]
	return engine.Starters(), engine.Bench()
}

type hubRoster struct{ h *Hub }

func (r hubRoster) Roster(teamID int64) []*data.Player {
	return r.h.rosters[teamID]
}

type hubCommitter struct{ h *Hub }

func (c hubCommitter) Commit(p capture.Payload, minute int) {
	c.h.commit(p, minute)
}

func newConfirmationID() uuid.UUID {
	return uuid.New()
}
