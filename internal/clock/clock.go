package clock

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	strings2 "strings"
	"sync"
	"time"
)

var ErrInvalidDuration = errors.New("invalid clock duration string")

// MaxSeconds is the largest elapsed time Adjust will move the clock to.
const MaxSeconds = math.MaxInt32

// ParseDisplay converts a string in the format "MM:SS" to elapsed seconds. Minutes may
// exceed 59 but seconds may not.
func ParseDisplay(s string) (int, error) {
	parts := strings2.Split(s, ":")
	if len(parts) != 2 {
		return 0, ErrInvalidDuration
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.Join(ErrInvalidDuration, err)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.Join(ErrInvalidDuration, err)
	}
	if minutes < 0 || seconds < 0 || seconds >= 60 {
		return 0, ErrInvalidDuration
	}

	return minutes*60 + seconds, nil
}

type EventType int

const (
	Tick EventType = iota
	Started
	Paused
	Set
)

func (t EventType) String() string {
	switch t {
	case Tick:
		return "tick"
	case Started:
		return "started"
	case Paused:
		return "paused"
	case Set:
		return "set"
	default:
		return "unknown"
	}
}

type Event struct {
	Type    EventType
	Elapsed int
}

type Config struct {
	// Scheduler drives the tick. Defaults to a ticker-backed scheduler.
	Scheduler Scheduler
	// Interval between ticks. Defaults to one second.
	Interval time.Duration
	// Elapsed is the starting value in seconds.
	Elapsed int
	// Notify, if set, receives every state change. It is called without the clock's lock
	// held and must not block.
	Notify func(Event)
}

// Clock is a count-up match clock measured in whole seconds. While running, elapsed time
// grows by one every tick; paused, it only changes through Adjust and SetSeconds.
type Clock struct {
	mu        sync.Mutex
	elapsed   int
	running   bool
	closed    bool
	gen       int
	task      Task
	scheduler Scheduler
	interval  time.Duration
	notify    func(Event)
}

func New(cfg Config) *Clock {
	if cfg.Scheduler == nil {
		cfg.Scheduler = TickerScheduler{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	return &Clock{
		elapsed:   max(cfg.Elapsed, 0),
		scheduler: cfg.Scheduler,
		interval:  cfg.Interval,
		notify:    cfg.Notify,
	}
}

// Start begins counting. Starting a running clock does nothing.
func (c *Clock) Start() {
	c.mu.Lock()
	if c.running || c.closed {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.gen++
	gen := c.gen
	c.task = c.scheduler.Every(c.interval, func() { c.tick(gen) })
	elapsed := c.elapsed
	c.mu.Unlock()

	c.publish(Event{Type: Started, Elapsed: elapsed})
}

// Pause stops counting. When Pause returns no further tick will be applied.
func (c *Clock) Pause() {
	c.mu.Lock()
	if !c.running || c.closed {
		c.mu.Unlock()
		return
	}
	task := c.stopLocked()
	elapsed := c.elapsed
	c.mu.Unlock()

	task.Stop()
	c.publish(Event{Type: Paused, Elapsed: elapsed})
}

// Adjust moves the clock by deltaMinutes whole minutes, never below zero.
func (c *Clock) Adjust(deltaMinutes int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.elapsed = adjusted(c.elapsed, deltaMinutes)
	elapsed := c.elapsed
	c.mu.Unlock()

	c.publish(Event{Type: Set, Elapsed: elapsed})
}

// adjusted moves elapsed by deltaMinutes, saturating at zero and MaxSeconds.
func adjusted(elapsed, deltaMinutes int) int {
	switch {
	case deltaMinutes <= -(elapsed/60 + 1):
		return 0
	case deltaMinutes > 0 && deltaMinutes > (MaxSeconds-elapsed)/60:
		return max(elapsed, MaxSeconds)
	}
	return elapsed + deltaMinutes*60
}

// SetSeconds replaces the elapsed time. Negative values are clamped to zero.
func (c *Clock) SetSeconds(n int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.elapsed = max(n, 0)
	elapsed := c.elapsed
	c.mu.Unlock()

	c.publish(Event{Type: Set, Elapsed: elapsed})
}

func (c *Clock) Elapsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Minute returns the whole minutes elapsed. Events are stamped with this value.
func (c *Clock) Minute() int {
	return c.Elapsed() / 60
}

func (c *Clock) Second() int {
	return c.Elapsed() % 60
}

// Display returns the elapsed time as "MM:SS".
func (c *Clock) Display() string {
	return Format(c.Elapsed())
}

// Close stops the tick task. Every later call on the clock is a no-op.
func (c *Clock) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	var task Task
	if c.running {
		task = c.stopLocked()
	}
	c.notify = nil
	c.mu.Unlock()

	if task != nil {
		task.Stop()
	}
}

func (c *Clock) stopLocked() Task {
	task := c.task
	c.task = nil
	c.running = false
	c.gen++
	return task
}

func (c *Clock) tick(gen int) {
	c.mu.Lock()
	if !c.running || c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.elapsed++
	elapsed := c.elapsed
	c.mu.Unlock()

	c.publish(Event{Type: Tick, Elapsed: elapsed})
}

func (c *Clock) publish(e Event) {
	c.mu.Lock()
	notify := c.notify
	c.mu.Unlock()

	if notify != nil {
		notify(e)
	}
}

// Format renders elapsed seconds as "MM:SS".
func Format(elapsed int) string {
	elapsed = max(elapsed, 0)
	return fmt.Sprintf("%02d:%02d", elapsed/60, elapsed%60)
}
