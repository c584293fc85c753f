// Package ledger provides in-memory reference collaborators for the issuance
// core: an ownership ledger with a mint notification hook and a treasury.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/bitfsorg/libmint-go/access"
)

// MintHook is notified synchronously after a batch is assigned. A non-nil
// error rolls the batch back and is returned from Mint.
type MintHook func(ctx context.Context, to access.Address, firstID, quantity uint64) error

// MemLedger is an in-memory ownership ledger.
type MemLedger struct {
	mu       sync.RWMutex
	owners   map[uint64]access.Address
	balances map[access.Address]uint64

	// OnMint, if set, receives every mint after assignment.
	OnMint MintHook
}

// NewMemLedger creates an empty ledger.
func NewMemLedger() *MemLedger {
	return &MemLedger{
		owners:   make(map[uint64]access.Address),
		balances: make(map[access.Address]uint64),
	}
}

// Mint assigns [firstID, firstID+quantity) to to, then runs OnMint outside the
// lock so the hook may call back into the ledger or its caller.
func (l *MemLedger) Mint(ctx context.Context, to access.Address, firstID, quantity uint64) error {
	if to.IsZero() {
		return ErrZeroRecipient
	}

	l.mu.Lock()
	for id := firstID; id < firstID+quantity; id++ {
		if _, taken := l.owners[id]; taken {
			l.mu.Unlock()
			return fmt.Errorf("%w: %d", ErrAlreadyMinted, id)
		}
	}
	for id := firstID; id < firstID+quantity; id++ {
		l.owners[id] = to
	}
	l.balances[to] += quantity
	hook := l.OnMint
	l.mu.Unlock()

	if hook == nil {
		return nil
	}
	if err := hook(ctx, to, firstID, quantity); err != nil {
		l.unassign(to, firstID, quantity)
		return err
	}
	return nil
}

func (l *MemLedger) unassign(to access.Address, firstID, quantity uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id := firstID; id < firstID+quantity; id++ {
		delete(l.owners, id)
	}
	l.balances[to] -= quantity
	if l.balances[to] == 0 {
		delete(l.balances, to)
	}
}

// OwnerOf returns the owner of id.
func (l *MemLedger) OwnerOf(_ context.Context, id uint64) (access.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	owner, ok := l.owners[id]
	if !ok {
		return access.ZeroAddress, fmt.Errorf("%w: %d", ErrTokenNotFound, id)
	}
	return owner, nil
}

// TotalIssued returns the number of assigned identifiers.
func (l *MemLedger) TotalIssued(context.Context) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.owners)), nil
}

// BalanceOf returns how many identifiers owner holds.
func (l *MemLedger) BalanceOf(owner access.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[owner]
}

// PayHook is notified synchronously after a payment is credited. A non-nil
// error reverses the credit and is returned from Pay.
type PayHook func(ctx context.Context, to access.Address, amount uint64) error

// MemTreasury credits payouts to in-memory balances.
type MemTreasury struct {
	mu       sync.Mutex
	balances map[access.Address]uint64

	// OnPay, if set, receives every payment after crediting.
	OnPay PayHook
}

// NewMemTreasury creates an empty treasury.
func NewMemTreasury() *MemTreasury {
	return &MemTreasury{balances: make(map[access.Address]uint64)}
}

// Pay credits amount to to.
func (t *MemTreasury) Pay(ctx context.Context, to access.Address, amount uint64) error {
	if to.IsZero() {
		return ErrZeroRecipient
	}
	t.mu.Lock()
	t.balances[to] += amount
	hook := t.OnPay
	t.mu.Unlock()

	if hook == nil {
		return nil
	}
	if err := hook(ctx, to, amount); err != nil {
		t.mu.Lock()
		t.balances[to] -= amount
		t.mu.Unlock()
		return err
	}
	return nil
}

// BalanceOf returns the amount paid to addr so far.
func (t *MemTreasury) BalanceOf(addr access.Address) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balances[addr]
}
