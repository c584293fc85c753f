package reveal

import "errors"

var (
	// ErrNonSequentialBatch indicates a reveal for any batch other than the next one.
	ErrNonSequentialBatch = errors.New("reveal: batch is not the next in sequence")

	// ErrBatchNotMinted indicates the batch still has unsold identifiers.
	ErrBatchNotMinted = errors.New("reveal: batch not fully minted")

	// ErrNonexistentToken indicates an identifier outside the minted range.
	ErrNonexistentToken = errors.New("reveal: nonexistent token")

	// ErrInvalidBatchSize indicates a zero batch size or a limit that is not a
	// multiple of it.
	ErrInvalidBatchSize = errors.New("reveal: limit must be a positive multiple of batch size")

	// ErrRevealStarted indicates the limit cannot change once a batch is revealed.
	ErrRevealStarted = errors.New("reveal: reveal already started")

	// ErrIncompleteReveal indicates Verify was called before every batch was revealed.
	ErrIncompleteReveal = errors.New("reveal: not every batch is revealed")

	// ErrNotBijective indicates the resolved mapping repeats or escapes [0, limit).
	ErrNotBijective = errors.New("reveal: mapping is not a bijection")

	// ErrInvalidState indicates a persisted state that contradicts itself.
	ErrInvalidState = errors.New("reveal: invalid state")

	// ErrEntropy indicates the entropy source or the draw derivation failed.
	ErrEntropy = errors.New("reveal: entropy failure")

	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("reveal: nil parameter")
)
