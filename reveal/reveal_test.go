package reveal

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSupply struct {
	limit  uint64
	minted uint64
}

func (s *fakeSupply) Limit() uint64       { return s.limit }
func (s *fakeSupply) TotalMinted() uint64 { return s.minted }

// counterEntropy yields sha256(i) for the i-th call.
func counterEntropy() EntropySource {
	var i uint64
	return EntropyFunc(func(context.Context) ([SeedLen]byte, error) {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], i)
		i++
		return sha256.Sum256(b[:]), nil
	})
}

func newEngine(t *testing.T, limit, minted, batch uint64) (*Engine, *fakeSupply) {
	t.Helper()
	s := &fakeSupply{limit: limit, minted: minted}
	e, err := New(s, counterEntropy(), batch)
	require.NoError(t, err)
	return e, s
}

func revealAll(t *testing.T, e *Engine) {
	t.Helper()
	for b := e.CurrentBatch() + 1; b <= e.Batches(); b++ {
		_, err := e.SetBatchOffset(context.Background(), b)
		require.NoError(t, err)
	}
}

// --- Construction ---

func TestNew_BatchSize(t *testing.T) {
	tests := []struct {
		name    string
		limit   uint64
		batch   uint64
		wantErr bool
	}{
		{"divisible", 100, 10, false},
		{"batch equals limit", 100, 100, false},
		{"batch of one", 7, 1, false},
		{"zero batch", 100, 0, true},
		{"not divisible", 100, 7, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&fakeSupply{limit: tt.limit}, nil, tt.batch)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBatchSize)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNew_NilSupply(t *testing.T) {
	_, err := New(nil, nil, 10)
	assert.ErrorIs(t, err, ErrNilParam)
}

// --- State machine ---

func TestSetBatchOffset_StrictOrder(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t, 100, 100, 10)

	_, err := e.SetBatchOffset(ctx, 2)
	assert.ErrorIs(t, err, ErrNonSequentialBatch)
	_, err = e.SetBatchOffset(ctx, 0)
	assert.ErrorIs(t, err, ErrNonSequentialBatch)

	r, err := e.SetBatchOffset(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r.Batch)
	assert.Equal(t, uint64(1), e.CurrentBatch())

	_, err = e.SetBatchOffset(ctx, 1)
	assert.ErrorIs(t, err, ErrNonSequentialBatch, "a batch is revealed once")
	_, err = e.SetBatchOffset(ctx, 3)
	assert.ErrorIs(t, err, ErrNonSequentialBatch)
	assert.Equal(t, uint64(1), e.CurrentBatch())
}

func TestSetBatchOffset_RequiresFullBatch(t *testing.T) {
	ctx := context.Background()
	e, s := newEngine(t, 100, 1, 10)

	_, err := e.SetBatchOffset(ctx, 1)
	assert.ErrorIs(t, err, ErrBatchNotMinted)

	s.minted = 9
	_, err = e.SetBatchOffset(ctx, 1)
	assert.ErrorIs(t, err, ErrBatchNotMinted)

	s.minted = 12
	_, err = e.SetBatchOffset(ctx, 1)
	require.NoError(t, err)
	_, err = e.SetBatchOffset(ctx, 2)
	assert.ErrorIs(t, err, ErrBatchNotMinted)
	assert.Equal(t, uint64(1), e.CurrentBatch())
}

func TestSetBatchOffset_PastLastBatch(t *testing.T) {
	e, _ := newEngine(t, 20, 20, 10)
	revealAll(t, e)
	_, err := e.SetBatchOffset(context.Background(), 3)
	assert.ErrorIs(t, err, ErrBatchNotMinted)
}

func TestSetBatchOffset_EntropyFailure(t *testing.T) {
	boom := errors.New("boom")
	s := &fakeSupply{limit: 20, minted: 20}
	e, err := New(s, EntropyFunc(func(context.Context) ([SeedLen]byte, error) {
		return [SeedLen]byte{}, boom
	}), 10)
	require.NoError(t, err)

	_, err = e.SetBatchOffset(context.Background(), 1)
	assert.ErrorIs(t, err, ErrEntropy)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, e.CurrentBatch())
	assert.Empty(t, e.State().Pool)
}

func TestOffset_RangesAndDistinctSlots(t *testing.T) {
	e, _ := newEngine(t, 100, 100, 10)
	revealAll(t, e)

	slots := make(map[uint64]bool)
	for b := uint64(1); b <= 10; b++ {
		off := e.Offset(b)
		assert.Less(t, off.Within, uint64(10))
		assert.Less(t, off.Overall, uint64(10))
		assert.False(t, slots[off.Overall], "slot %d reused by batch %d", off.Overall, b)
		slots[off.Overall] = true
	}
	assert.Equal(t, Offset{}, e.Offset(0))
	assert.Equal(t, Offset{}, e.Offset(11))
	assert.Empty(t, e.State().Pool, "table is empty once every slot is drawn")
}

// --- Resolution ---

func TestShuffledID_FullBijection(t *testing.T) {
	// limit=100, batch=10: N=10.
	e, _ := newEngine(t, 100, 100, 10)
	revealAll(t, e)
	require.NoError(t, e.Verify())

	seen := make(map[uint64]bool)
	for id := range uint64(100) {
		s, err := e.ShuffledID(id)
		require.NoError(t, err)
		assert.Less(t, s, uint64(100))
		assert.False(t, seen[s])
		seen[s] = true
	}
	assert.Len(t, seen, 100)
}

func TestShuffledID_Formula(t *testing.T) {
	const limit, bs = 100, 10
	e, _ := newEngine(t, limit, limit, bs)
	revealAll(t, e)

	for _, id := range []uint64{0, 5, 33, 50, 99} {
		off := e.Offset(id/bs + 1)
		want := ((id%bs+off.Within)%bs)*(limit/bs) + off.Overall
		got, err := e.ShuffledID(id)
		require.NoError(t, err)
		assert.Equal(t, want, got, "id %d", id)
	}
}

func TestShuffledID_UnrevealedUsesZeroPair(t *testing.T) {
	e, _ := newEngine(t, 100, 100, 10)
	for _, id := range []uint64{0, 7, 42, 99} {
		got, err := e.ShuffledID(id)
		require.NoError(t, err)
		assert.Equal(t, (id%10)*10, got)
	}
	_, err := e.ShuffledID(100)
	assert.ErrorIs(t, err, ErrNonexistentToken)
}

func TestVerify_Incomplete(t *testing.T) {
	e, _ := newEngine(t, 100, 100, 10)
	_, err := e.SetBatchOffset(context.Background(), 1)
	require.NoError(t, err)
	assert.ErrorIs(t, e.Verify(), ErrIncompleteReveal)
}

func TestVerify_DetectsCorruptState(t *testing.T) {
	s := &fakeSupply{limit: 20, minted: 20}
	e, err := Restore(s, nil, State{
		BatchSize: 10,
		Current:   2,
		Offsets:   []Offset{{Within: 1, Overall: 0}, {Within: 3, Overall: 0}},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, e.Verify(), ErrNotBijective)
}

func TestVerify_ManyShapes(t *testing.T) {
	tests := []struct{ limit, batch uint64 }{
		{1, 1}, {10, 10}, {10, 1}, {12, 3}, {64, 8}, {1000, 25},
	}
	for _, tt := range tests {
		e, _ := newEngine(t, tt.limit, tt.limit, tt.batch)
		revealAll(t, e)
		assert.NoError(t, e.Verify(), "limit %d batch %d", tt.limit, tt.batch)
	}
}

func TestTokenURI(t *testing.T) {
	const base, pre = "ipfs://base/", "ipfs://pre.json"
	e, s := newEngine(t, 100, 1, 10)

	uri, err := e.TokenURI(0, base, pre)
	require.NoError(t, err)
	assert.Equal(t, pre, uri)
	_, err = e.TokenURI(1, base, pre)
	assert.ErrorIs(t, err, ErrNonexistentToken)

	s.minted = 20
	for id := range uint64(20) {
		uri, err := e.TokenURI(id, base, pre)
		require.NoError(t, err)
		assert.Equal(t, pre, uri, "every unrevealed id shares the placeholder")
	}

	_, err = e.SetBatchOffset(context.Background(), 1)
	require.NoError(t, err)
	shuffled, err := e.ShuffledID(3)
	require.NoError(t, err)
	revealed, err := e.TokenURI(3, base, pre)
	require.NoError(t, err)
	assert.Equal(t, base+strconv.FormatUint(shuffled, 10)+".json", revealed)

	uri, err = e.TokenURI(10, base, pre)
	require.NoError(t, err)
	assert.Equal(t, pre, uri, "batch 2 is still hidden")

	// Revealing later batches never moves earlier ones.
	_, err = e.SetBatchOffset(context.Background(), 2)
	require.NoError(t, err)
	again, err := e.TokenURI(3, base, pre)
	require.NoError(t, err)
	assert.Equal(t, revealed, again)
}

// --- Limit lock ---

func TestCheckLimit(t *testing.T) {
	e, _ := newEngine(t, 100, 100, 10)
	assert.NoError(t, e.CheckLimit(50))
	assert.ErrorIs(t, e.CheckLimit(55), ErrInvalidBatchSize)

	_, err := e.SetBatchOffset(context.Background(), 1)
	require.NoError(t, err)
	assert.ErrorIs(t, e.CheckLimit(200), ErrRevealStarted)
}

// --- Persistence ---

func TestStateRestore(t *testing.T) {
	ctx := context.Background()
	e, s := newEngine(t, 100, 100, 10)
	for b := uint64(1); b <= 4; b++ {
		_, err := e.SetBatchOffset(ctx, b)
		require.NoError(t, err)
	}

	st := e.State()
	back, err := Restore(s, counterEntropy(), st)
	require.NoError(t, err)
	assert.Equal(t, st, back.State())

	// Mutating the snapshot does not reach the engine.
	st.Offsets[0] = Offset{Within: 9, Overall: 9}
	assert.NotEqual(t, st.Offsets[0], back.Offset(1))

	revealAll(t, back)
	assert.NoError(t, back.Verify())
	for b := uint64(1); b <= 4; b++ {
		assert.Equal(t, e.Offset(b), back.Offset(b))
	}
}

func TestRestore_Inconsistent(t *testing.T) {
	s := &fakeSupply{limit: 20, minted: 20}
	_, err := Restore(s, nil, State{BatchSize: 10, Current: 1})
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = Restore(s, nil, State{BatchSize: 10, Current: 3, Offsets: make([]Offset, 3)})
	assert.ErrorIs(t, err, ErrInvalidState)
}

// --- Draws ---

func TestDrawer_Deterministic(t *testing.T) {
	seed := sha256.Sum256([]byte("seed"))
	a, err := newDrawer(seed, 1, HKDFWithinInfo).uniform(1000)
	require.NoError(t, err)
	b, err := newDrawer(seed, 1, HKDFWithinInfo).uniform(1000)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = newDrawer(seed, 1, HKDFWithinInfo).uniform(0)
	assert.ErrorIs(t, err, ErrEntropy)
}

func TestDrawer_CoversRange(t *testing.T) {
	const n = 7
	counts := make([]int, n)
	for i := range 2000 {
		seed := sha256.Sum256([]byte{byte(i), byte(i >> 8)})
		v, err := newDrawer(seed, 1, HKDFOverallInfo).uniform(n)
		require.NoError(t, err)
		require.Less(t, v, uint64(n))
		counts[v]++
	}
	for v, c := range counts {
		// Expectation 2000/7 ≈ 286; a healthy draw stays well inside these bounds.
		assert.Greater(t, c, 180, "value %d", v)
		assert.Less(t, c, 400, "value %d", v)
	}
}

func TestCryptoEntropy(t *testing.T) {
	a, err := CryptoEntropy{}.Entropy(context.Background())
	require.NoError(t, err)
	b, err := CryptoEntropy{}.Entropy(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CryptoEntropy{}.Entropy(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
