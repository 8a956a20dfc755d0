package chain

// State is a step of the mint state machine
type State string

const (
	StateValidatingConfig      State = "validating_config"
	StateValidatingAccount     State = "validating_account"
	StateValidatingParams      State = "validating_params"
	StateDiscoveringFee        State = "discovering_fee"
	StateCheckingPaused        State = "checking_paused"
	StateCheckingAffordability State = "checking_affordability"
	StateSubmitting            State = "submitting"
	StateAwaitingReceipt       State = "awaiting_receipt"
	StateParsingReceipt        State = "parsing_receipt"
	StateDone                  State = "done"
	StateFailed                State = "failed"
)

// Submitted reports whether a transaction may have been broadcast by the time this state is reached
func (s State) Submitted() bool {
	switch s {
	case StateAwaitingReceipt, StateParsingReceipt, StateDone:
		return true
	}
	return false
}

// StateFunc observes state transitions. txHash is set once the transaction is signed.
type StateFunc func(state State, txHash string)
