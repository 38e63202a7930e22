// Package eventlog holds the committed events of one match in commit order.
package eventlog

import (
	"MatchOpsApi/internal/data"
	"slices"
)

// Log is not safe for concurrent use; it is owned by a single session loop.
type Log struct {
	events []*data.MatchEvent
}

func New(events []*data.MatchEvent) *Log {
	l := &Log{}
	l.Replace(events)
	return l
}

// Replace discards the current contents and loads events, ordering them by id.
func (l *Log) Replace(events []*data.MatchEvent) {
	l.events = make([]*data.MatchEvent, 0, len(events))
	for _, e := range events {
		if e != nil {
			c := *e
			l.events = append(l.events, &c)
		}
	}
	slices.SortStableFunc(l.events, func(a, b *data.MatchEvent) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
}

// Append adds a newly committed event to the end of the log.
func (l *Log) Append(e *data.MatchEvent) {
	c := *e
	l.events = append(l.events, &c)
}

// Remove deletes the event with id and reports whether it was present.
func (l *Log) Remove(id int64) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.events = slices.Delete(l.events, i, i+1)
	return true
}

// SetMinute changes the minute of the event with id. It is the only mutable field.
func (l *Log) SetMinute(id int64, minute int) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.events[i].Minute = minute
	return true
}

func (l *Log) Get(id int64) (data.MatchEvent, bool) {
	i := l.index(id)
	if i < 0 {
		return data.MatchEvent{}, false
	}
	return *l.events[i], true
}

func (l *Log) Len() int {
	return len(l.events)
}

// Events returns a copy of the log in commit order.
func (l *Log) Events() []*data.MatchEvent {
	out := make([]*data.MatchEvent, len(l.events))
	for i, e := range l.events {
		c := *e
		out[i] = &c
	}
	return out
}

// Timeline returns a copy of the log, newest first.
func (l *Log) Timeline() []*data.MatchEvent {
	out := l.Events()
	slices.Reverse(out)
	return out
}

func (l *Log) index(id int64) int {
	return slices.IndexFunc(l.events, func(e *data.MatchEvent) bool {
		return e.ID == id
	})
}
