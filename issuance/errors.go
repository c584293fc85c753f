package issuance

import "errors"

var (
	// ErrExceedsMaxQuantity indicates a single call asked for more than the
	// per-call cap.
	ErrExceedsMaxQuantity = errors.New("issuance: quantity exceeds max quantity")

	// ErrExceedsSupply indicates the mint would push total supply past the limit.
	ErrExceedsSupply = errors.New("issuance: exceeds supply")

	// ErrExceedsOwnerLimit indicates the reserve mint would exceed the owner limit.
	ErrExceedsOwnerLimit = errors.New("issuance: exceeds owner limit")

	// ErrIncorrectPayment indicates the payment is not exactly price × quantity.
	ErrIncorrectPayment = errors.New("issuance: incorrect payment")

	// ErrReentrant indicates a guarded entry point was re-entered while a
	// guarded call was in flight.
	ErrReentrant = errors.New("issuance: reentrant call")

	// ErrZeroQuantity indicates a mint of zero identifiers.
	ErrZeroQuantity = errors.New("issuance: zero quantity")

	// ErrInvalidLimit indicates a supply limit below the minted count.
	ErrInvalidLimit = errors.New("issuance: invalid limit")

	// ErrNilParam indicates a required collaborator is nil.
	ErrNilParam = errors.New("issuance: required parameter is nil")
)
