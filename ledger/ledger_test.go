package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libmint-go/access"
	"github.com/bitfsorg/libmint-go/issuance"
)

// Compile-time interface checks.
var (
	_ issuance.Ledger   = (*MemLedger)(nil)
	_ issuance.Treasury = (*MemTreasury)(nil)
)

func makeAddr(seed byte) access.Address {
	var a access.Address
	for i := range a {
		a[i] = seed
	}
	return a
}

func TestMemLedger_MintAndQuery(t *testing.T) {
	ctx := context.Background()
	l := NewMemLedger()

	require.NoError(t, l.Mint(ctx, makeAddr(1), 0, 3))
	require.NoError(t, l.Mint(ctx, makeAddr(2), 3, 2))

	for id, want := range map[uint64]access.Address{0: makeAddr(1), 2: makeAddr(1), 3: makeAddr(2), 4: makeAddr(2)} {
		got, err := l.OwnerOf(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got, "id %d", id)
	}
	_, err := l.OwnerOf(ctx, 5)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	total, err := l.TotalIssued(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
	assert.Equal(t, uint64(3), l.BalanceOf(makeAddr(1)))
	assert.Equal(t, uint64(2), l.BalanceOf(makeAddr(2)))
}

func TestMemLedger_RejectsDoubleMint(t *testing.T) {
	ctx := context.Background()
	l := NewMemLedger()
	require.NoError(t, l.Mint(ctx, makeAddr(1), 0, 3))

	err := l.Mint(ctx, makeAddr(2), 2, 2)
	assert.ErrorIs(t, err, ErrAlreadyMinted)
	_, err = l.OwnerOf(ctx, 3)
	assert.ErrorIs(t, err, ErrTokenNotFound, "partial batch must not be assigned")
	assert.Equal(t, uint64(0), l.BalanceOf(makeAddr(2)))
}

func TestMemLedger_ZeroRecipient(t *testing.T) {
	l := NewMemLedger()
	assert.ErrorIs(t, l.Mint(context.Background(), access.ZeroAddress, 0, 1), ErrZeroRecipient)
}

func TestMemLedger_HookRollback(t *testing.T) {
	ctx := context.Background()
	l := NewMemLedger()
	boom := errors.New("boom")

	var seen []uint64
	l.OnMint = func(ctx context.Context, to access.Address, firstID, quantity uint64) error {
		// The batch is visible to the hook.
		owner, err := l.OwnerOf(ctx, firstID)
		require.NoError(t, err)
		assert.Equal(t, to, owner)
		seen = append(seen, firstID)
		if firstID == 10 {
			return boom
		}
		return nil
	}

	require.NoError(t, l.Mint(ctx, makeAddr(1), 0, 2))
	assert.ErrorIs(t, l.Mint(ctx, makeAddr(1), 10, 2), boom)
	assert.Equal(t, []uint64{0, 10}, seen)

	total, err := l.TotalIssued(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	assert.Equal(t, uint64(2), l.BalanceOf(makeAddr(1)))
}

func TestMemTreasury(t *testing.T) {
	ctx := context.Background()
	tr := NewMemTreasury()

	require.NoError(t, tr.Pay(ctx, makeAddr(1), 100))
	require.NoError(t, tr.Pay(ctx, makeAddr(1), 50))
	assert.Equal(t, uint64(150), tr.BalanceOf(makeAddr(1)))
	assert.ErrorIs(t, tr.Pay(ctx, access.ZeroAddress, 1), ErrZeroRecipient)

	boom := errors.New("boom")
	tr.OnPay = func(context.Context, access.Address, uint64) error { return boom }
	assert.ErrorIs(t, tr.Pay(ctx, makeAddr(1), 10), boom)
	assert.Equal(t, uint64(150), tr.BalanceOf(makeAddr(1)))
}
