package booking

import "condominio-server/models"

// Transition names, used in errors and audit entries.
const (
	TransitionApprove  = "approve"
	TransitionReject   = "reject"
	TransitionCancel   = "cancel"
	TransitionComplete = "complete"
)

// allowedTransitions maps each state to the states it may move to. States
// mapped to an empty set are terminal. Transitions are monotonic: no path
// revisits a state.
var allowedTransitions = map[string][]string{
	models.ReservationPending:   {models.ReservationConfirmed, models.ReservationRejected, models.ReservationCancelled},
	models.ReservationConfirmed: {models.ReservationCancelled, models.ReservationCompleted},
	models.ReservationCancelled: {},
	models.ReservationCompleted: {},
	models.ReservationRejected:  {},
}

// CanTransition reports whether moving from one state to another is legal.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state has no outgoing transitions.
func IsTerminal(state string) bool {
	next, ok := allowedTransitions[state]
	return ok && len(next) == 0
}

// Blocks reports whether a reservation in this state occupies its slot.
// Cancelled and rejected reservations free the slot; completed ones are in
// the past and irrelevant to availability queries for future dates.
func Blocks(state string) bool {
	return state == models.ReservationPending || state == models.ReservationConfirmed
}
