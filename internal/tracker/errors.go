package tracker

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrTerminalStatus    = errors.New("issue closed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrIneligible        = errors.New("ineligible user")
	ErrWatcherConflict   = errors.New("watcher conflict")
	ErrNotAWatcher       = errors.New("not a watcher")
	ErrUnknownAction     = errors.New("unknown action")
	ErrInvalidLogic      = errors.New("invalid logic")
)

// NotFoundf builds the canonical not-found error for an entity lookup.
// Stores use it so that every missing reference is reported the same way.
func NotFoundf(entity string, id int64) error {
	return fmt.Errorf("%w: %s with id %d does not exist", ErrNotFound, entity, id)
}
