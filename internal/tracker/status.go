package tracker

import "fmt"

// statusOrder is the only permitted lifecycle. An issue moves forward one
// step at a time and never leaves "close".
var statusOrder = []Status{
	StatusOpen,
	StatusAssigned,
	StatusInProgress,
	StatusUnderReview,
	StatusDone,
	StatusClose,
}

func IsValidStatus(s Status) bool {
	return statusIndex(s) >= 0
}

func statusIndex(s Status) int {
	for i, v := range statusOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// ValidateTransition checks a requested status change against the linear
// lifecycle. Skipping ahead, moving backward, staying put, and unknown
// statuses are all rejected.
func ValidateTransition(from, to Status) error {
	if from == StatusClose {
		return fmt.Errorf("%w: status %q can no longer be updated", ErrTerminalStatus, from)
	}
	i := statusIndex(from)
	if i >= 0 && i+1 < len(statusOrder) && statusOrder[i+1] == to {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
