package fsm

// Status constants used by job applications after the client's selection.
const (
	ApplicationApplied  = "applied"
	ApplicationSelected = "selected"
	ApplicationAccepted = "accepted"
	ApplicationDeclined = "declined"
	ApplicationUnpicked = "unpicked"
)

var applicationTransitions = map[string]map[string]struct{}{
	ApplicationApplied: {
		ApplicationSelected: {},
		ApplicationUnpicked: {},
	},
	ApplicationSelected: {
		ApplicationAccepted: {},
		ApplicationDeclined: {},
		ApplicationUnpicked: {},
	},
	ApplicationAccepted: {},
	ApplicationDeclined: {},
	ApplicationUnpicked: {},
}

// ApplicationCanTransition returns whether an application may move from the
// current status to the target status.
func ApplicationCanTransition(from, to string) bool {
	allowed, ok := applicationTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// ApplicationResponded reports whether the application already carries a
// final response.
func ApplicationResponded(status string) bool {
	switch status {
	case ApplicationAccepted, ApplicationDeclined, ApplicationUnpicked:
		return true
	}
	return false
}
