package collection

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("collection: required parameter is nil")

	// ErrStateExists indicates New was given a store that already holds a collection.
	ErrStateExists = errors.New("collection: store already holds a collection")

	// ErrLedgerMismatch indicates the ledger and the saved counters disagree.
	ErrLedgerMismatch = errors.New("collection: ledger does not match saved state")

	// ErrPersist indicates a mutation succeeded in memory but could not be saved.
	ErrPersist = errors.New("collection: persist state")
)
