package fsm

// Status constants used by the escrow payment state machine.
const (
	EscrowPending  = "pending"
	EscrowEscrowed = "escrowed"
	EscrowReleased = "released"
	EscrowRefunded = "refunded"
	EscrowDisputed = "disputed"
)

var escrowTransitions = map[string]map[string]struct{}{
	EscrowPending: {
		EscrowEscrowed: {},
		EscrowRefunded: {},
	},
	EscrowEscrowed: {
		EscrowReleased: {},
		EscrowRefunded: {},
		EscrowDisputed: {},
	},
	// Resolution path only: a disputed hold ends in a release or a refund.
	EscrowDisputed: {
		EscrowReleased: {},
		EscrowRefunded: {},
	},
	EscrowReleased: {},
	EscrowRefunded: {},
}

// EscrowCanTransition returns whether an escrow payment may move from the
// current status to the target status.
func EscrowCanTransition(from, to string) bool {
	allowed, ok := escrowTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// EscrowTerminal reports whether the status is terminal.
func EscrowTerminal(status string) bool {
	return status == EscrowReleased || status == EscrowRefunded
}
