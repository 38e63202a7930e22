package gamehub

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionStartMatch  Action = "start_match"
	ActionHalftime    Action = "halftime"
	ActionResume      Action = "resume"
	ActionFulltime    Action = "fulltime"
	ActionCancelMatch Action = "cancel_match"
	ActionUndo        Action = "undo"
	ActionDeleteEvent Action = "delete_event"
)

// ConfirmationRequest is a state-changing action waiting for the operator to confirm it.
type ConfirmationRequest struct {
	ID        uuid.UUID `json:"id"`
	Action    Action    `json:"action"`
	Prompt    string    `json:"prompt"`
	EventID   int64     `json:"event_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// request queues a confirmation, reusing a pending one for the same action and event.
func (h *Hub) request(action Action, prompt string, eventID int64) ConfirmationRequest {
	for _, c := range h.confirmations {
		if c.Action == action && c.EventID == eventID {
			return *c
		}
	}

	c := &ConfirmationRequest{
		ID:        newConfirmationID(),
		Action:    action,
		Prompt:    prompt,
		EventID:   eventID,
		CreatedAt: time.Now(),
	}
	h.confirmations = append(h.confirmations, c)
	h.broadcast("confirmation", c)

	return *c
}

func (h *Hub) takeConfirmation(id uuid.UUID) (*ConfirmationRequest, bool) {
	i := slices.IndexFunc(h.confirmations, func(c *ConfirmationRequest) bool {
		return c.ID == id
	})
	if i < 0 {
		return nil, false
	}
	c := h.confirmations[i]
	h.confirmations = slices.Delete(h.confirmations, i, i+1)
	return c, true
}

func (h *Hub) pendingConfirmations() []ConfirmationRequest {
	out := make([]ConfirmationRequest, len(h.confirmations))
	for i, c := range h.confirmations {
		out[i] = *c
	}
	return out
}

// Confirm executes a pending confirmation. Preconditions are checked again, since the
// session may have changed since the request was made.
func (h *Hub) Confirm(id uuid.UUID) error {
	_, err := call(h, func() (struct{}, error) {
		c, ok := h.takeConfirmation(id)
		if !ok {
			return struct{}{}, ErrConfirmationNotFound
		}
		h.broadcast("confirmation_resolved", map[string]any{"id": c.ID, "confirmed": true})

		var err error
		switch c.Action {
		case ActionStartMatch, ActionHalftime, ActionResume, ActionFulltime, ActionCancelMatch:
			err = h.applyStatus(c.Action)
		case ActionUndo:
			err = h.applyUndo(c.EventID)
		case ActionDeleteEvent:
			err = h.applyDelete(c.EventID)
		default:
			err = fmt.Errorf("unknown confirmation action %q", c.Action)
		}
		return struct{}{}, err
	})
	return err
}

// Dismiss drops a pending confirmation without executing it.
func (h *Hub) Dismiss(id uuid.UUID) error {
	_, err := call(h, func() (struct{}, error) {
		c, ok := h.takeConfirmation(id)
		if !ok {
			return struct{}{}, ErrConfirmationNotFound
		}
		h.broadcast("confirmation_resolved", map[string]any{"id": c.ID, "confirmed": false})
		return struct{}{}, nil
	})
	return err
}
