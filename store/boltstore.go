package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/libmint-go/reveal"
)

var (
	bucketMeta        = []byte("meta")
	bucketUsedIndices = []byte("used_indices")
	bucketBatches     = []byte("batches")
	bucketSlotPool    = []byte("slot_pool")

	keyState = []byte("state")
)

// BoltStore persists collection state in a bbolt database.
//
// Scalar state is one gob record in the meta bucket. The used-index set and
// the reveal registry are append-only, so they live in their own buckets
// keyed by big-endian integers and only grow. The sparse slot table shrinks
// as batches are revealed and is rewritten on every save.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketUsedIndices, bucketBatches, bucketSlotPool} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("store: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// uint64Key encodes n as an 8-byte big-endian key for sorted storage.
func uint64Key(n uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, n)
	return k
}

func encodeOffset(o reveal.Offset) []byte {
	v := make([]byte, 16)
	binary.BigEndian.PutUint64(v[:8], o.Within)
	binary.BigEndian.PutUint64(v[8:], o.Overall)
	return v
}

// Save writes st in one transaction.
func (s *BoltStore) Save(st *State) error {
	if st == nil {
		return fmt.Errorf("%w: state", ErrNilParam)
	}

	meta := *st
	meta.UsedIndices = nil
	meta.Reveal.Offsets = nil
	meta.Reveal.Pool = nil
	data, err := encodeGob(&meta)
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketMeta).Put(keyState, data); err != nil {
			return fmt.Errorf("store: put state: %w", err)
		}

		ub := tx.Bucket(bucketUsedIndices)
		for _, idx := range st.UsedIndices {
			if err := ub.Put(uint64Key(idx), []byte{}); err != nil {
				return fmt.Errorf("store: put used index %d: %w", idx, err)
			}
		}

		bb := tx.Bucket(bucketBatches)
		for i, off := range st.Reveal.Offsets {
			if err := bb.Put(uint64Key(uint64(i)+1), encodeOffset(off)); err != nil {
				return fmt.Errorf("store: put batch %d: %w", i+1, err)
			}
		}

		if err := tx.DeleteBucket(bucketSlotPool); err != nil {
			return fmt.Errorf("store: reset slot pool: %w", err)
		}
		pb, err := tx.CreateBucket(bucketSlotPool)
		if err != nil {
			return fmt.Errorf("store: reset slot pool: %w", err)
		}
		for pos, slot := range st.Reveal.Pool {
			if err := pb.Put(uint64Key(pos), uint64Key(slot)); err != nil {
				return fmt.Errorf("store: put slot %d: %w", pos, err)
			}
		}
		return nil
	})
}

// Load reads the saved state.
func (s *BoltStore) Load() (*State, error) {
	var st State
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyState)
		if data == nil {
			return ErrStateNotFound
		}
		if err := decodeGob(data, &st); err != nil {
			return fmt.Errorf("%w: state: %w", ErrCorrupt, err)
		}
		if st.Version != StateVersion {
			return fmt.Errorf("%w: %d", ErrVersion, st.Version)
		}

		err := tx.Bucket(bucketUsedIndices).ForEach(func(k, _ []byte) error {
			if len(k) != 8 {
				return fmt.Errorf("%w: used index key", ErrCorrupt)
			}
			st.UsedIndices = append(st.UsedIndices, binary.BigEndian.Uint64(k))
			return nil
		})
		if err != nil {
			return err
		}

		// Keys are sorted, so batches come back in reveal order.
		err = tx.Bucket(bucketBatches).ForEach(func(k, v []byte) error {
			if len(k) != 8 || len(v) != 16 {
				return fmt.Errorf("%w: batch record", ErrCorrupt)
			}
			if b := binary.BigEndian.Uint64(k); b != uint64(len(st.Reveal.Offsets))+1 {
				return fmt.Errorf("%w: batch %d out of sequence", ErrCorrupt, b)
			}
			st.Reveal.Offsets = append(st.Reveal.Offsets, reveal.Offset{
				Within:  binary.BigEndian.Uint64(v[:8]),
				Overall: binary.BigEndian.Uint64(v[8:]),
			})
			return nil
		})
		if err != nil {
			return err
		}

		return tx.Bucket(bucketSlotPool).ForEach(func(k, v []byte) error {
			if len(k) != 8 || len(v) != 8 {
				return fmt.Errorf("%w: slot record", ErrCorrupt)
			}
			if st.Reveal.Pool == nil {
				st.Reveal.Pool = make(map[uint64]uint64)
			}
			st.Reveal.Pool[binary.BigEndian.Uint64(k)] = binary.BigEndian.Uint64(v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}
