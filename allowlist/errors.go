package allowlist

import "errors"

var (
	// ErrInvalidSignature indicates the signature does not recover to the
	// current allowlist signer.
	ErrInvalidSignature = errors.New("allowlist: invalid signature")

	// ErrIndexAlreadyUsed indicates the allowlist index already funded a mint.
	ErrIndexAlreadyUsed = errors.New("allowlist: index already used")

	// ErrIndexBelowMinimum indicates the index is below the revocation floor.
	ErrIndexBelowMinimum = errors.New("allowlist: index below minimum")

	// ErrInvalidCollectionID indicates a collection ID string is malformed.
	ErrInvalidCollectionID = errors.New("allowlist: invalid collection ID")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("allowlist: required parameter is nil")
)
