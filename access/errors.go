package access

import "errors"

var (
	// ErrUnauthorized indicates the caller does not hold the principal required
	// for the operation.
	ErrUnauthorized = errors.New("access: unauthorized")

	// ErrPhaseInactive indicates the sale phase gating the operation is closed.
	ErrPhaseInactive = errors.New("access: phase inactive")

	// ErrFrozen indicates the collection URIs are frozen and cannot change.
	ErrFrozen = errors.New("access: collection is frozen")

	// ErrZeroAddress indicates a role transfer to the zero address.
	ErrZeroAddress = errors.New("access: zero address")

	// ErrInvalidAddress indicates an address string could not be parsed.
	ErrInvalidAddress = errors.New("access: invalid address")
)
