package gamehub

import (
	"MatchOpsApi/internal/capture"
	"MatchOpsApi/internal/data"
	"context"
	"fmt"
	"strconv"
)

// commit persists a finished capture action, then reloads the event log.
func (h *Hub) commit(p capture.Payload, minute int) {
	in := p.Input(minute)
	if h.locked() || h.finalizing {
		h.failed("add_event", ErrMatchLocked, map[string]string{"type": in.Type.String()})
		return
	}

	h.commits++
	h.background("add_event", func(ctx context.Context) func() {
		event, err := h.stores.Events.AddEvent(ctx, h.MatchID, in)
		if err != nil {
			return func() {
				h.commits--
				h.failed("add_event", err, map[string]string{"type": in.Type.String()})
			}
		}

		events, reloadErr := h.stores.Events.GetAll(ctx, h.MatchID)
		return func() {
			h.commits--
			if reloadErr != nil {
				h.logError(reloadErr, "reload_events", nil)
				h.log.Append(event)
			} else {
				h.log.Replace(events)
			}
			h.undoTarget = max(h.undoTarget, event.ID)
			h.broadcast("event_added", event)
			h.broadcastLog()
		}
	})
}

// EditMinute changes the minute of a committed event.
func (h *Hub) EditMinute(eventID int64, minute int) error {
	_, err := call(h, func() (struct{}, error) {
		if minute < 0 {
			return struct{}{}, ErrInvalidMinute
		}
		if _, ok := h.log.Get(eventID); !ok {
			return struct{}{}, fmt.Errorf("%w: %d", ErrEventNotFound, eventID)
		}

		h.background("update_event", func(ctx context.Context) func() {
			err := h.stores.Events.UpdateEvent(ctx, eventID, minute)
			return func() {
				if err != nil {
					h.failed("update_event", err, map[string]string{
						"event_id": strconv.FormatInt(eventID, 10),
					})
					return
				}
				h.log.SetMinute(eventID, minute)
				h.broadcastLog()
			}
		})
		return struct{}{}, nil
	})
	return err
}

// RequestUndo asks the operator to confirm removing the event most recently committed in
// this session.
func (h *Hub) RequestUndo() (ConfirmationRequest, error) {
	return call(h, func() (ConfirmationRequest, error) {
		event, ok := h.undoable()
		if !ok {
			return ConfirmationRequest{}, ErrNothingToUndo
		}
		prompt := fmt.Sprintf("Undo %s at %d'?", event.Type, event.Minute)
		return h.request(ActionUndo, prompt, event.ID), nil
	})
}

// RequestDeleteEvent asks the operator to confirm deleting any event in the log.
func (h *Hub) RequestDeleteEvent(eventID int64) (ConfirmationRequest, error) {
	return call(h, func() (ConfirmationRequest, error) {
		if h.locked() {
			return ConfirmationRequest{}, ErrMatchLocked
		}
		event, ok := h.log.Get(eventID)
		if !ok {
			return ConfirmationRequest{}, fmt.Errorf("%w: %d", ErrEventNotFound, eventID)
		}
		prompt := fmt.Sprintf("Delete %s at %d'?", event.Type, event.Minute)
		return h.request(ActionDeleteEvent, prompt, event.ID), nil
	})
}

func (h *Hub) undoable() (data.MatchEvent, bool) {
	if h.undoTarget == 0 || h.locked() {
		return data.MatchEvent{}, false
	}
	return h.log.Get(h.undoTarget)
}

func (h *Hub) applyUndo(eventID int64) error {
	event, ok := h.undoable()
	if !ok || event.ID != eventID {
		return ErrNothingToUndo
	}
	h.undoTarget = 0
	h.removeEvent(eventID, "undo")
	return nil
}

func (h *Hub) applyDelete(eventID int64) error {
	if h.locked() {
		return ErrMatchLocked
	}
	if _, ok := h.log.Get(eventID); !ok {
		return fmt.Errorf("%w: %d", ErrEventNotFound, eventID)
	}
	h.removeEvent(eventID, "delete_event")
	return nil
}

func (h *Hub) removeEvent(eventID int64, op string) {
	h.background(op, func(ctx context.Context) func() {
		err := h.stores.Events.RemoveEvent(ctx, eventID, h.MatchID)
		return func() {
			if err != nil {
				h.failed(op, err, map[string]string{"event_id": strconv.FormatInt(eventID, 10)})
				return
			}
			h.log.Remove(eventID)
			if h.undoTarget == eventID {
				h.undoTarget = 0
			}
			h.broadcast("event_removed", map[string]int64{"id": eventID})
			h.broadcastLog()
		}
	})
}

func (h *Hub) broadcastLog() {
	h.broadcast("log", h.scoreboard())
}
