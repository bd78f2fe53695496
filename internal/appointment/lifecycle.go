package appointment

import "strings"

// allowedTransitions is the status lifecycle. Terminal states have no entry.
var allowedTransitions = map[Status][]Status{
	StatusScheduled:  {StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether the lifecycle permits moving from one status
// to another. Same-status is always permitted (a no-op).
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition gates a status change. A nil return means the change (or no-op,
// when target equals current) is acceptable; persistence is the caller's job.
// Cancelling requires a non-blank reason.
func Transition(current, target Status, reason string) error {
	if current == target {
		return nil
	}
	if !CanTransition(current, target) {
		return &ValidationError{Kind: KindInvalidTransition}
	}
	if target == StatusCancelled && strings.TrimSpace(reason) == "" {
		return &ValidationError{Kind: KindMissingReason}
	}
	return nil
}
