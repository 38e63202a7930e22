package clock

import (
	"sync"
	"time"
)

// Scheduler runs fn every d until the returned Task is stopped.
type Scheduler interface {
	Every(d time.Duration, fn func()) Task
}

// Task is a running periodic job. Stop is synchronous: once it returns, fn is never
// called again. Stop is safe to call more than once.
type Task interface {
	Stop()
}

type TickerScheduler struct{}

func (TickerScheduler) Every(d time.Duration, fn func()) Task {
	t := &tickerTask{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(d)
		defer func() {
			ticker.Stop()
			close(t.done)
		}()

		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				select {
				case <-t.stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return t
}

type tickerTask struct {
	once sync.Once
	stop chan struct{}
	done chan struct{}
}

func (t *tickerTask) Stop() {
	t.once.Do(func() { close(t.stop) })
	<-t.done
}

// ManualScheduler fires ticks only when Advance is called. Used to drive clocks
// deterministically.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

func (s *ManualScheduler) Every(_ time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &manualTask{fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance fires n ticks on every task that has not been stopped.
func (s *ManualScheduler) Advance(n int) {
	for i := 0; i < n; i++ {
		s.mu.Lock()
		tasks := make([]*manualTask, 0, len(s.tasks))
		for _, t := range s.tasks {
			if !t.isStopped() {
				tasks = append(tasks, t)
			}
		}
		s.tasks = tasks
		s.mu.Unlock()

		for _, t := range tasks {
			t.fire()
		}
	}
}

// Active returns the number of tasks that have not been stopped.
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.tasks {
		if !t.isStopped() {
			n++
		}
	}
	return n
}

type manualTask struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
}

func (t *manualTask) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *manualTask) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *manualTask) fire() {
	t.mu.Lock()
	stopped := t.stopped
	t.mu.Unlock()

	if !stopped {
		t.fn()
	}
}
