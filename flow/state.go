package flow

// State is the position of one checkout/payment run.
type State string

const (
	StateIdle                 State = "idle"
	StateValidating           State = "validating"
	StateCreatingOrder        State = "creating_order"
	StateInitiatingPayment    State = "initiating_payment"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateSucceeded            State = "succeeded"
	StateFailed               State = "failed"
	StateTimedOut             State = "timed_out"
)

// Terminal reports whether the state ends a run. TimedOut is terminal:
// the user is told to check order history, nothing retries automatically.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateTimedOut
}

func (s State) String() string {
	return string(s)
}

var transitions = map[State][]State{
	StateIdle:                 {StateValidating},
	StateValidating:           {StateIdle, StateCreatingOrder, StateFailed},
	StateCreatingOrder:        {StateInitiatingPayment, StateFailed},
	StateInitiatingPayment:    {StateAwaitingConfirmation, StateFailed},
	StateAwaitingConfirmation: {StateSucceeded, StateFailed, StateTimedOut},
}

func canTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
