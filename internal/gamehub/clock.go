package gamehub

import "MatchOpsApi/internal/clock"

type ClockView struct {
	Elapsed int    `json:"elapsed"`
	Display string `json:"display"`
	Minute  int    `json:"minute"`
	Running bool   `json:"running"`
}

func (h *Hub) clockView() ClockView {
	elapsed := h.clock.Elapsed()
	return ClockView{
		Elapsed: elapsed,
		Display: clock.Format(elapsed),
		Minute:  elapsed / 60,
		Running: h.clock.Running(),
	}
}

func (h *Hub) clockOp(op func()) (ClockView, error) {
	return call(h, func() (ClockView, error) {
		if h.locked() {
			return h.clockView(), ErrMatchLocked
		}
		op()
		return h.clockView(), nil
	})
}

func (h *Hub) StartClock() (ClockView, error) {
	return h.clockOp(h.clock.Start)
}

func (h *Hub) PauseClock() (ClockView, error) {
	return h.clockOp(h.clock.Pause)
}

// AdjustClock moves the clock by whole minutes, never below zero.
func (h *Hub) AdjustClock(deltaMinutes int) (ClockView, error) {
	return h.clockOp(func() { h.clock.Adjust(deltaMinutes) })
}

func (h *Hub) SetClock(seconds int) (ClockView, error) {
	return h.clockOp(func() { h.clock.SetSeconds(seconds) })
}

func (h *Hub) broadcastClock(e clock.Event) {
	h.broadcast("clock", struct {
		ClockView
		Event string `json:"event"`
	}{
		ClockView: ClockView{
			Elapsed: e.Elapsed,
			Display: clock.Format(e.Elapsed),
			Minute:  e.Elapsed / 60,
			Running: h.clock.Running(),
		},
		Event: e.Type.String(),
	})
}
