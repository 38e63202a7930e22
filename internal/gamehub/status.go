package gamehub

import (
	"MatchOpsApi/internal/data"
	"MatchOpsApi/internal/stats"
	"context"
	"fmt"
)

type StatusAction string

const (
	StatusStart    StatusAction = "start"
	StatusHalftime StatusAction = "halftime"
	StatusResume   StatusAction = "resume"
	StatusFulltime StatusAction = "fulltime"
	StatusCancel   StatusAction = "cancel"
)

var statusActions = map[StatusAction]struct {
	action Action
	prompt string
}{
	StatusStart:    {ActionStartMatch, "Start the match?"},
	StatusHalftime: {ActionHalftime, "Call half time?"},
	StatusResume:   {ActionResume, "Resume play for the second half?"},
	StatusFulltime: {ActionFulltime, "Call full time? The match will be locked."},
	StatusCancel:   {ActionCancelMatch, "Cancel the match? The match will be locked."},
}

func ParseStatusAction(s string) (StatusAction, error) {
	a := StatusAction(s)
	if _, ok := statusActions[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatusAction, s)
	}
	return a, nil
}

// RequestStatus asks the operator to confirm a match status change.
func (h *Hub) RequestStatus(a StatusAction) (ConfirmationRequest, error) {
	return call(h, func() (ConfirmationRequest, error) {
		def, ok := statusActions[a]
		if !ok {
			return ConfirmationRequest{}, fmt.Errorf("%w: %q", ErrInvalidStatusAction, a)
		}
		if err := h.checkStatus(def.action); err != nil {
			return ConfirmationRequest{}, err
		}
		return h.request(def.action, def.prompt, 0), nil
	})
}

func (h *Hub) checkStatus(action Action) error {
	if h.statusPending {
		return ErrStatusPending
	}
	if h.commits > 0 && (action == ActionFulltime || action == ActionCancelMatch) {
		return fmt.Errorf("%w: cannot %s", ErrCommitPending, action)
	}

	status := h.match.Status
	var ok bool
	switch action {
	case ActionStartMatch:
		ok = status == data.StatusScheduled
	case ActionHalftime:
		ok = status == data.StatusOngoing && !h.halftime
	case ActionResume:
		ok = status == data.StatusOngoing && h.halftime
	case ActionFulltime:
		ok = status == data.StatusOngoing
	case ActionCancelMatch:
		ok = status == data.StatusScheduled || status == data.StatusOngoing
	}
	if !ok {
		return fmt.Errorf("%w: cannot %s while %s", ErrStatusTransition, action, status)
	}
	return nil
}

func (h *Hub) applyStatus(action Action) error {
	if err := h.checkStatus(action); err != nil {
		return err
	}

	switch action {
	case ActionHalftime:
		h.halftime = true
		h.clock.Pause()
		h.broadcastStatus()
		return nil
	case ActionResume:
		h.halftime = false
		h.clock.Start()
		h.broadcastStatus()
		return nil
	case ActionStartMatch:
		h.persistStatus(data.StatusOngoing, nil)
	case ActionFulltime:
		h.clock.Pause()
		h.halftime = false
		score := stats.Compute(h.log.Events(), h.match.Home.ID, h.match.Away.ID)
		h.persistStatus(data.StatusCompleted, &score)
	case ActionCancelMatch:
		h.clock.Pause()
		h.halftime = false
		h.persistStatus(data.StatusCancelled, nil)
	}
	return nil
}

// persistStatus saves the new status, then the final score when one is given, and applies
// the outcome on the loop.
func (h *Hub) persistStatus(status data.MatchStatus, final *stats.Score) {
	h.statusPending = true
	h.finalizing = status.Final()
	match := h.match
	match.Status = status

	h.background("update_status", func(ctx context.Context) func() {
		statusErr := h.stores.Matches.UpdateStatus(ctx, &match)

		var scoreErr error
		if statusErr == nil && final != nil {
			scored := match
			scored.HomeScore = final.Home
			scored.AwayScore = final.Away
			scoreErr = h.stores.Matches.UpdateScore(ctx, &scored)
			if scoreErr == nil {
				match = scored
			}
		}

		return func() {
			h.statusPending = false
			h.finalizing = false
			if statusErr != nil {
				h.failed("update_status", statusErr, map[string]string{"status": status.String()})
				return
			}

			h.match = match
			h.applyLock()
			if scoreErr != nil {
				h.failed("update_score", scoreErr, nil)
			}

			switch status {
			case data.StatusOngoing:
				h.clock.Start()
			case data.StatusCompleted:
				h.sendReport()
			}
			h.logInfo("match status changed", map[string]string{"status": status.String()})
			h.broadcastStatus()
		}
	})
}

func (h *Hub) broadcastStatus() {
	h.broadcast("status", map[string]any{
		"status":   h.match.Status,
		"halftime": h.halftime,
		"clock":    h.clockView(),
	})
}
