package booking

import (
	errors "github.com/frahmantamala/futsal-booking/internal"
)

// Transition is one edge of the booking lifecycle graph.
type Transition struct {
	From Status `json:"from"`
	To   Status `json:"to"`
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusRejected: true, StatusCancelled: true},
	StatusConfirmed: {StatusCompleted: true},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusRejected:  {},
}

func CanTransition(from, to Status) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

// NextStatuses lists the statuses reachable from from in one step, in AllStatuses order.
func NextStatuses(from Status) []Status {
	next := make([]Status, 0)
	for _, s := range AllStatuses() {
		if CanTransition(from, s) {
			next = append(next, s)
		}
	}
	return next
}

// AllTransitions returns every edge of the graph in a fixed order.
func AllTransitions() []Transition {
	var out []Transition
	for _, from := range AllStatuses() {
		for _, to := range NextStatuses(from) {
			out = append(out, Transition{From: from, To: to})
		}
	}
	return out
}

// RequiresReason reports whether moving to to needs a non-empty reason.
func RequiresReason(to Status) bool {
	return to == StatusRejected
}

// ValidateTransition checks the graph only; role permissions are checked separately.
func ValidateTransition(from, to Status) error {
	if from.IsTerminal() {
		return errors.ErrTerminalStateViolation
	}
	if !CanTransition(from, to) {
		return errors.ErrInvalidStateTransition
	}
	return nil
}
