package fsm

// Status constants used by the booking state machine.
const (
	BookingPending         = "pending"
	BookingAccepted        = "accepted"
	BookingInProgress      = "in_progress"
	BookingWorkerCompleted = "worker_completed"
	BookingCompleted       = "completed"
	BookingCancelled       = "cancelled"
	BookingDisputed        = "disputed"
)

var bookingTransitions = map[string]map[string]struct{}{
	BookingPending: {
		BookingAccepted:  {},
		BookingCancelled: {},
		BookingDisputed:  {},
	},
	BookingAccepted: {
		BookingInProgress: {},
		BookingCancelled:  {},
		BookingDisputed:   {},
	},
	BookingInProgress: {
		BookingWorkerCompleted: {},
		BookingDisputed:        {},
	},
	BookingWorkerCompleted: {
		BookingCompleted: {},
		BookingDisputed:  {},
	},
	BookingDisputed: {
		BookingWorkerCompleted: {},
		BookingCancelled:       {},
	},
	BookingCompleted: {},
	BookingCancelled: {},
}

// BookingCanTransition returns whether a booking may move from the current
// status to the target status.
func BookingCanTransition(from, to string) bool {
	allowed, ok := bookingTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// BookingTerminal reports whether the status is terminal.
func BookingTerminal(status string) bool {
	return status == BookingCompleted || status == BookingCancelled
}
