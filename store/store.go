// Package store persists the complete state of a collection between runs.
package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/bitfsorg/libmint-go/access"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/issuance"
	"github.com/bitfsorg/libmint-go/reveal"
)

// StateVersion is the current persisted format.
const StateVersion = 1

// State is a full snapshot of a collection.
type State struct {
	Version      uint32
	Name         string
	CollectionID allowlist.CollectionID

	Access   access.Snapshot
	Params   issuance.Params
	Counters issuance.Counters

	BaseURI      string
	BaseImageURI string
	PreRevealURI string

	MinimumIndex uint64
	UsedIndices  []uint64

	Reveal reveal.State
}

// Store loads and saves collection state.
type Store interface {
	// Load returns the saved state or ErrStateNotFound.
	Load() (*State, error)

	// Save replaces the saved state.
	Save(st *State) error
}

// MemStore is an in-memory Store for tests and dry runs.
type MemStore struct {
	mu    sync.RWMutex
	state []byte
}

// Compile-time interface checks.
var (
	_ Store = (*MemStore)(nil)
	_ Store = (*BoltStore)(nil)
)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns a private copy of the saved state.
func (s *MemStore) Load() (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, ErrStateNotFound
	}
	var st State
	if err := decodeGob(s.state, &st); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return &st, nil
}

// Save stores a private copy of st.
func (s *MemStore) Save(st *State) error {
	if st == nil {
		return fmt.Errorf("%w: state", ErrNilParam)
	}
	data, err := encodeGob(st)
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}
	s.mu.Lock()
	s.state = data
	s.mu.Unlock()
	return nil
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
