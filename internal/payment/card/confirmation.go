package card

import "fmt"

// Outcome classifies a hosted-widget confirmation result.
type Outcome int

const (
	// OutcomeSucceeded means the charge completed; the success callback
	// fires exactly once for this status and for no other.
	OutcomeSucceeded Outcome = iota
	// OutcomePending means the processor is still driving its own
	// redirect/challenge flow; the order stays in the executing step.
	OutcomePending
	// OutcomeFailed means a terminal failure; the user may retry with the
	// same intent.
	OutcomeFailed
)

// ResolveConfirmation maps the processor's confirmation status to an
// outcome and a human-readable message for the failure banner.
func ResolveConfirmation(status string) (Outcome, string) {
	switch status {
	case "succeeded":
		return OutcomeSucceeded, ""
	case "processing", "requires_action":
		return OutcomePending, ""
	case "requires_payment_method":
		return OutcomeFailed, "Your card was declined. Please try another payment method."
	case "canceled":
		return OutcomeFailed, "The payment was canceled. Please try again."
	default:
		return OutcomeFailed, fmt.Sprintf("Payment did not complete (status %q). Please try again.", status)
	}
}
