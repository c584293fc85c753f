package allowlist

import (
	"fmt"
	"slices"
)

// Registry tracks consumed allowlist indices and the revocation floor.
// Consumed indices are never removed except by Release inside the call that
// consumed them.
type Registry struct {
	used    map[uint64]struct{}
	minimum uint64
}

// NewRegistry creates an empty registry with a zero floor.
func NewRegistry() *Registry {
	return &Registry{used: make(map[uint64]struct{})}
}

// RestoreRegistry rebuilds a registry from persisted state.
func RestoreRegistry(used []uint64, minimum uint64) *Registry {
	r := &Registry{used: make(map[uint64]struct{}, len(used)), minimum: minimum}
	for _, idx := range used {
		r.used[idx] = struct{}{}
	}
	return r
}

// MinimumIndex returns the revocation floor.
func (r *Registry) MinimumIndex() uint64 { return r.minimum }

// SetMinimumIndex moves the floor. Lowering it re-enables unused signatures.
func (r *Registry) SetMinimumIndex(m uint64) { r.minimum = m }

// IsUsed reports whether idx already funded a mint.
func (r *Registry) IsUsed(idx uint64) bool {
	_, ok := r.used[idx]
	return ok
}

// Check reports whether idx may still be consumed.
func (r *Registry) Check(idx uint64) error {
	if idx < r.minimum {
		return fmt.Errorf("%w: index %d < minimum %d", ErrIndexBelowMinimum, idx, r.minimum)
	}
	if r.IsUsed(idx) {
		return fmt.Errorf("%w: index %d", ErrIndexAlreadyUsed, idx)
	}
	return nil
}

// Consume marks idx used after re-checking it.
func (r *Registry) Consume(idx uint64) error {
	if err := r.Check(idx); err != nil {
		return err
	}
	r.used[idx] = struct{}{}
	return nil
}

// Release undoes a Consume of the current call when a later step fails.
func (r *Registry) Release(idx uint64) {
	delete(r.used, idx)
}

// UsedIndices returns the consumed indices in ascending order.
func (r *Registry) UsedIndices() []uint64 {
	if len(r.used) == 0 {
		return nil
	}
	out := make([]uint64, 0, len(r.used))
	for idx := range r.used {
		out = append(out, idx)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of consumed indices.
func (r *Registry) Len() int { return len(r.used) }
