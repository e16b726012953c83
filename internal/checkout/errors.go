package checkout

import "fmt"

// ValidationError is caught before any network call and surfaced inline
// next to the offending field.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// ProviderError means a payment-processor call failed or returned a
// non-success status. The flow stays on the current step and the user may
// retry.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

// PersistenceError is the severe case: money moved but the order insert
// failed. The message tells the customer to contact support with the
// payment reference instead of silently losing the order.
type PersistenceError struct {
	PaymentRef string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf(
		"your payment succeeded but we could not record the order; please contact support with payment reference %s",
		e.PaymentRef)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
