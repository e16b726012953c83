package domain

type CheckoutState string

const (
	CheckoutStateCollectingInfo   CheckoutState = "collecting_info"
	CheckoutStateSelectingPayment CheckoutState = "selecting_payment"
	CheckoutStateExecutingPayment CheckoutState = "executing_payment"
	CheckoutStateComplete         CheckoutState = "complete"
)

func (s CheckoutState) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateComplete
}

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateCollectingInfo: {CheckoutStateSelectingPayment},
	CheckoutStateSelectingPayment: {
		CheckoutStateCollectingInfo,
		CheckoutStateExecutingPayment,
	},
	CheckoutStateExecutingPayment: {
		CheckoutStateSelectingPayment,
		CheckoutStateComplete,
	},
}

// CanTransitionTo reports whether the wizard may move from one state to another.
// Backward transitions stay open until the session commits.
func CanTransitionTo(from, to CheckoutState) bool {
	for _, next := range checkoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
