package gamehub

import (
	"MatchOpsApi/internal/capture"
	"MatchOpsApi/internal/data"
)

type CaptureView struct {
	State capture.State `json:"state"`
	Draft capture.Draft `json:"draft"`
}

func (h *Hub) captureView() CaptureView {
	return CaptureView{State: h.machine.State(), Draft: h.machine.Draft()}
}

// captureOp runs a capture machine step and broadcasts the resulting state.
func (h *Hub) captureOp(step func() error) (CaptureView, error) {
	return call(h, func() (CaptureView, error) {
		if h.locked() || h.finalizing {
			return h.captureView(), ErrMatchLocked
		}
		if err := step(); err != nil {
			return h.captureView(), err
		}
		view := h.captureView()
		h.broadcast("capture", view)
		return view, nil
	})
}

func (h *Hub) TriggerAction(t data.EventType) (CaptureView, error) {
	return h.captureOp(func() error {
		return h.machine.TriggerAction(t)
	})
}

func (h *Hub) SelectTeam(teamID int64, teamName string) (CaptureView, error) {
	return h.captureOp(func() error {
		return h.machine.SelectTeam(teamID, teamName)
	})
}

func (h *Hub) SelectPlayer(playerID int64) (CaptureView, error) {
	return h.captureOp(func() error {
		return h.machine.SelectPlayer(playerID)
	})
}

func (h *Hub) CancelAction() (CaptureView, error) {
	return call(h, func() (CaptureView, error) {
		h.machine.Cancel()
		view := h.captureView()
		h.broadcast("capture", view)
		return view, nil
	})
}

// Pool returns the players selectable for teamID.
func (h *Hub) Pool(teamID int64) (capture.Pool, error) {
	return query(h, func() (capture.Pool, error) {
		if _, ok := h.teamSide(teamID); !ok {
			return capture.Pool{}, capture.ErrUnknownTeam
		}
		return h.machine.Pool(teamID), nil
	})
}
