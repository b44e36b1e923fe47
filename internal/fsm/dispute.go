package fsm

// Status constants used by the dispute state machine.
const (
	DisputePending         = "pending"
	DisputeWorkerResponded = "worker_responded"
	DisputeUnderReview     = "under_review"
	DisputeResolved        = "resolved"
)

var disputeTransitions = map[string]map[string]struct{}{
	// An admin may open a dispute for review before the worker responds,
	// and may resolve it from any non-terminal state.
	DisputePending: {
		DisputeWorkerResponded: {},
		DisputeUnderReview:     {},
		DisputeResolved:        {},
	},
	DisputeWorkerResponded: {
		DisputeUnderReview: {},
		DisputeResolved:    {},
	},
	DisputeUnderReview: {
		DisputeResolved: {},
	},
	DisputeResolved: {},
}

// DisputeCanTransition returns whether a dispute may move from the current
// status to the target status.
func DisputeCanTransition(from, to string) bool {
	allowed, ok := disputeTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}
