package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidTransition indicates a checkout step change the wizard forbids.
	ErrInvalidTransition = errors.New("invalid checkout transition")
	// ErrSessionCommitted indicates the session already produced an order.
	ErrSessionCommitted = errors.New("checkout session already committed")
)
