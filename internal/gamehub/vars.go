package gamehub

import (
	"errors"
	"time"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 1 * time.Minute

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Messages queued per watcher before the watcher is dropped.
	watcherBuffer = 64

	// Upper bound on each background persistence call.
	ioTimeout = 5 * time.Second
)

var (
	newline = []byte{'\n'}

	ErrSessionNotFound      = errors.New("no live session for match")
	ErrSessionClosed        = errors.New("live session closed")
	ErrMatchLocked          = errors.New("match is locked")
	ErrInvalidStatusAction  = errors.New("invalid status action")
	ErrStatusTransition     = errors.New("status action not allowed in current match state")
	ErrStatusPending        = errors.New("a status change is already being saved")
	ErrCommitPending        = errors.New("an event is still being saved")
	ErrNothingToUndo        = errors.New("nothing to undo")
	ErrEventNotFound        = errors.New("event not found")
	ErrConfirmationNotFound = errors.New("confirmation not found")
	ErrInvalidMinute        = errors.New("minute must be 0 or greater")
)
