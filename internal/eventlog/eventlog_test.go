package eventlog

import (
	"MatchOpsApi/internal/assert"
	"MatchOpsApi/internal/data"
	"testing"
)

func ids(events []*data.MatchEvent) []int64 {
	out := make([]int64, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestReplaceOrdersByID(t *testing.T) {
	l := New([]*data.MatchEvent{{ID: 3}, {ID: 1}, {ID: 2}})

	assert.SliceEqual(t, ids(l.Events()), []int64{1, 2, 3})
	assert.SliceEqual(t, ids(l.Timeline()), []int64{3, 2, 1})
	assert.Equal(t, l.Len(), 3)
}

func TestAppendAndRemove(t *testing.T) {
	l := New(nil)
	l.Append(&data.MatchEvent{ID: 5, Type: data.EventTry})
	l.Append(&data.MatchEvent{ID: 6, Type: data.EventConversion})

	assert.Equal(t, l.Remove(5), true)
	assert.Equal(t, l.Remove(5), false)
	assert.SliceEqual(t, ids(l.Events()), []int64{6})
}

func TestSetMinute(t *testing.T) {
	l := New([]*data.MatchEvent{{ID: 1, Minute: 10}})

	assert.Equal(t, l.SetMinute(1, 12), true)
	assert.Equal(t, l.SetMinute(2, 12), false)

	e, ok := l.Get(1)
	assert.Equal(t, ok, true)
	assert.Equal(t, e.Minute, 12)
}

func TestReadsAreCopies(t *testing.T) {
	source := &data.MatchEvent{ID: 1, Minute: 10}
	l := New([]*data.MatchEvent{source})

	source.Minute = 50
	events := l.Events()
	events[0].Minute = 70

	e, _ := l.Get(1)
	assert.Equal(t, e.Minute, 10)
}
