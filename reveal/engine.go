// Package reveal maps mint-order identifiers to display identifiers, one
// fixed-size batch at a time.
//
// With N = limit / batchSize, batch b (1-indexed) covers raw ids
// [(b-1)*batchSize, b*batchSize). Revealing b draws two values and stores only
// them:
//
//	within  uniform in [0, batchSize)     cyclic rotation inside the batch
//	overall drawn without replacement     slot in [0, N)
//
// and every id resolves as
//
//	shuffled = ((id mod batchSize + within[b]) mod batchSize) * N + overall[b]
//
// Rotation is a bijection on [0, batchSize) and overall is a permutation of
// [0, N) across batches, so once every batch is revealed the resolver is a
// bijection on [0, limit).
package reveal

import (
	"context"
	"fmt"
	"maps"
	"strconv"
)

// MetadataSuffix is appended to the decimal display identifier.
const MetadataSuffix = ".json"

// Supply reports the collection's capacity and sales so far.
type Supply interface {
	Limit() uint64
	TotalMinted() uint64
}

// Offset is the pair stored per revealed batch.
type Offset struct {
	Within  uint64
	Overall uint64
}

// Reveal describes a successful SetBatchOffset.
type Reveal struct {
	Batch  uint64
	Offset Offset
}

// State is the persisted form of an Engine.
type State struct {
	BatchSize uint64
	Current   uint64
	Offsets   []Offset          // Offsets[b-1] belongs to batch b
	Pool      map[uint64]uint64 // displaced slots of the Fisher-Yates table
}

// Engine is the batch reveal state machine.
type Engine struct {
	supply    Supply
	entropy   EntropySource
	batchSize uint64

	current uint64
	offsets []Offset

	// pool holds the Fisher-Yates table over slots [0, N) sparsely: position
	// p holds pool[p] if present, else p. The first N-current positions are
	// the slots still unassigned.
	pool map[uint64]uint64
}

// New creates an Engine with nothing revealed. A nil entropy source means
// CryptoEntropy.
func New(supply Supply, entropy EntropySource, batchSize uint64) (*Engine, error) {
	return Restore(supply, entropy, State{BatchSize: batchSize})
}

// Restore rebuilds an Engine from persisted state.
func Restore(supply Supply, entropy EntropySource, s State) (*Engine, error) {
	if supply == nil {
		return nil, fmt.Errorf("%w: supply", ErrNilParam)
	}
	if err := checkBatchSize(supply.Limit(), s.BatchSize); err != nil {
		return nil, err
	}
	if uint64(len(s.Offsets)) != s.Current {
		return nil, fmt.Errorf("%w: %d offsets for %d revealed batches", ErrInvalidState, len(s.Offsets), s.Current)
	}
	if n := supply.Limit() / s.BatchSize; s.Current > n {
		return nil, fmt.Errorf("%w: %d revealed batches of %d", ErrInvalidState, s.Current, n)
	}
	if entropy == nil {
		entropy = CryptoEntropy{}
	}
	e := &Engine{
		supply:    supply,
		entropy:   entropy,
		batchSize: s.BatchSize,
		current:   s.Current,
		offsets:   append([]Offset(nil), s.Offsets...),
		pool:      make(map[uint64]uint64, len(s.Pool)),
	}
	maps.Copy(e.pool, s.Pool)
	return e, nil
}

func checkBatchSize(limit, batchSize uint64) error {
	if batchSize == 0 || limit%batchSize != 0 {
		return fmt.Errorf("%w: limit %d, batch size %d", ErrInvalidBatchSize, limit, batchSize)
	}
	return nil
}

// State returns a copy of the persisted form.
func (e *Engine) State() State {
	s := State{
		BatchSize: e.batchSize,
		Current:   e.current,
		Offsets:   append([]Offset(nil), e.offsets...),
	}
	if len(e.pool) > 0 {
		s.Pool = maps.Clone(e.pool)
	}
	return s
}

// BatchSize returns the number of identifiers per batch.
func (e *Engine) BatchSize() uint64 { return e.batchSize }

// Batches returns N, the number of batches under the current limit.
func (e *Engine) Batches() uint64 { return e.supply.Limit() / e.batchSize }

// CurrentBatch returns the last revealed batch, 0 before any reveal.
func (e *Engine) CurrentBatch() uint64 { return e.current }

// Offset returns the stored pair for batch b, or the zero pair if b is not
// revealed.
func (e *Engine) Offset(b uint64) Offset {
	if b == 0 || b > e.current {
		return Offset{}
	}
	return e.offsets[b-1]
}

// CheckLimit reports whether the supply limit may change to limit.
func (e *Engine) CheckLimit(limit uint64) error {
	if e.current > 0 {
		return fmt.Errorf("%w: %d batches revealed", ErrRevealStarted, e.current)
	}
	return checkBatchSize(limit, e.batchSize)
}

// SetBatchOffset reveals batch b. It must be the next batch and every
// identifier in it must already be minted.
func (e *Engine) SetBatchOffset(ctx context.Context, b uint64) (*Reveal, error) {
	if b != e.current+1 {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrNonSequentialBatch, b, e.current+1)
	}
	n := e.Batches()
	if b > n {
		return nil, fmt.Errorf("%w: batch %d of %d", ErrBatchNotMinted, b, n)
	}
	if minted := e.supply.TotalMinted(); minted/e.batchSize < b {
		return nil, fmt.Errorf("%w: batch %d needs %d minted, have %d",
			ErrBatchNotMinted, b, b*e.batchSize, minted)
	}

	seed, err := e.entropy.Entropy(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntropy, err)
	}
	within, err := newDrawer(seed, b, HKDFWithinInfo).uniform(e.batchSize)
	if err != nil {
		return nil, err
	}
	remaining := n - e.current
	pick, err := newDrawer(seed, b, HKDFOverallInfo).uniform(remaining)
	if err != nil {
		return nil, err
	}

	off := Offset{Within: within, Overall: e.take(pick, remaining-1)}
	e.offsets = append(e.offsets, off)
	e.current = b
	return &Reveal{Batch: b, Offset: off}, nil
}

// take removes the slot at position pick by moving the last live position
// into it, and returns the removed slot.
func (e *Engine) take(pick, last uint64) uint64 {
	slot := e.slotAt(pick)
	if pick != last {
		e.pool[pick] = e.slotAt(last)
	} else {
		delete(e.pool, pick)
	}
	delete(e.pool, last)
	return slot
}

func (e *Engine) slotAt(p uint64) uint64 {
	if v, ok := e.pool[p]; ok {
		return v
	}
	return p
}

// ShuffledID resolves a raw identifier. Identifiers in unrevealed batches
// resolve with the zero offset pair.
func (e *Engine) ShuffledID(id uint64) (uint64, error) {
	limit := e.supply.Limit()
	if id >= limit {
		return 0, fmt.Errorf("%w: %d outside [0, %d)", ErrNonexistentToken, id, limit)
	}
	off := e.Offset(id/e.batchSize + 1)
	rotated := (id%e.batchSize + off.Within) % e.batchSize
	return rotated*e.Batches() + off.Overall, nil
}

// Revealed reports whether id's batch has been revealed.
func (e *Engine) Revealed(id uint64) bool {
	return id/e.batchSize+1 <= e.current
}

// TokenURI resolves the metadata location of a minted identifier.
func (e *Engine) TokenURI(id uint64, baseURI, preRevealURI string) (string, error) {
	if minted := e.supply.TotalMinted(); id >= minted {
		return "", fmt.Errorf("%w: %d not minted", ErrNonexistentToken, id)
	}
	if !e.Revealed(id) {
		return preRevealURI, nil
	}
	shuffled, err := e.ShuffledID(id)
	if err != nil {
		return "", err
	}
	return baseURI + strconv.FormatUint(shuffled, 10) + MetadataSuffix, nil
}

// Verify resolves every identifier and fails unless the mapping is a
// bijection on [0, limit). It requires every batch to be revealed.
func (e *Engine) Verify() error {
	n := e.Batches()
	if e.current != n {
		return fmt.Errorf("%w: %d of %d", ErrIncompleteReveal, e.current, n)
	}
	limit := e.supply.Limit()
	seen := make([]bool, limit)
	for id := range limit {
		s, err := e.ShuffledID(id)
		if err != nil {
			return err
		}
		if s >= limit {
			return fmt.Errorf("%w: %d resolves to %d", ErrNotBijective, id, s)
		}
		if seen[s] {
			return fmt.Errorf("%w: %d resolves to repeated %d", ErrNotBijective, id, s)
		}
		seen[s] = true
	}
	return nil
}
