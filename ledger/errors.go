package ledger

import "errors"

var (
	// ErrTokenNotFound indicates the identifier was never minted.
	ErrTokenNotFound = errors.New("ledger: token not found")

	// ErrAlreadyMinted indicates an identifier in the batch already has an owner.
	ErrAlreadyMinted = errors.New("ledger: token already minted")

	// ErrZeroRecipient indicates a mint or payment to the zero address.
	ErrZeroRecipient = errors.New("ledger: zero recipient")
)
