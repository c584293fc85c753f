// Package issuance enforces supply caps, payment and reentrancy safety for the
// three mint channels of a collection.
//
// Reserve, allowlist and public mints share one totalMinted counter and one
// hard limit. Every entry point validates first, then applies its effects,
// then calls the ownership ledger (or treasury) while holding the shared
// guard. If that call fails, the effects are undone before returning, so a
// failed call leaves no trace.
package issuance

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/bitfsorg/libmint-go/access"
	"github.com/bitfsorg/libmint-go/allowlist"
)

// Channel names a mint path.
type Channel uint8

const (
	// ChannelReserve is the operator's unpaid reserve mint.
	ChannelReserve Channel = iota + 1
	// ChannelAllowlist is the signature-admitted private mint.
	ChannelAllowlist
	// ChannelPublic is the open sale.
	ChannelPublic
)

// String returns the channel label used in logs and metrics.
func (c Channel) String() string {
	switch c {
	case ChannelReserve:
		return "reserve"
	case ChannelAllowlist:
		return "allowlist"
	case ChannelPublic:
		return "public"
	default:
		return fmt.Sprintf("channel(%d)", uint8(c))
	}
}

// Params are the operator-adjustable sale parameters.
type Params struct {
	Limit       uint64 // hard supply cap
	MaxQuantity uint64 // per-call cap for paid channels
	OwnerLimit  uint64 // reserve cap
	Price       uint64 // base units per identifier
}

// Counters are the monotonically increasing supply counters and the unpaid
// balance.
type Counters struct {
	TotalMinted uint64
	OwnerMinted uint64
	Balance     uint64
}

// Receipt describes a successful mint.
type Receipt struct {
	Channel   Channel
	Recipient access.Address
	FirstID   uint64
	Quantity  uint64
	Paid      uint64
	Index     uint64 // allowlist index; zero for other channels
}

// Withdrawal describes a successful payout.
type Withdrawal struct {
	To     access.Address
	Amount uint64
}

// Issuer runs the mint channels.
type Issuer struct {
	access   *access.Controller
	auth     *allowlist.Authenticator
	ledger   Ledger
	treasury Treasury

	params   Params
	counters Counters
	guard    Guard
}

// New creates an Issuer with zeroed counters.
func New(ac *access.Controller, auth *allowlist.Authenticator, ledger Ledger, treasury Treasury, params Params) (*Issuer, error) {
	return Restore(ac, auth, ledger, treasury, params, Counters{})
}

// Restore creates an Issuer resuming from persisted counters.
func Restore(ac *access.Controller, auth *allowlist.Authenticator, ledger Ledger, treasury Treasury, params Params, counters Counters) (*Issuer, error) {
	switch {
	case ac == nil:
		return nil, fmt.Errorf("%w: access controller", ErrNilParam)
	case auth == nil:
		return nil, fmt.Errorf("%w: authenticator", ErrNilParam)
	case ledger == nil:
		return nil, fmt.Errorf("%w: ledger", ErrNilParam)
	case treasury == nil:
		return nil, fmt.Errorf("%w: treasury", ErrNilParam)
	}
	if counters.TotalMinted > params.Limit {
		return nil, fmt.Errorf("%w: limit %d below minted %d", ErrInvalidLimit, params.Limit, counters.TotalMinted)
	}
	return &Issuer{
		access:   ac,
		auth:     auth,
		ledger:   ledger,
		treasury: treasury,
		params:   params,
		counters: counters,
	}, nil
}

// Params returns the current sale parameters.
func (i *Issuer) Params() Params { return i.params }

// Counters returns the current counters.
func (i *Issuer) Counters() Counters { return i.counters }

// TotalMinted returns the number of identifiers minted across all channels.
func (i *Issuer) TotalMinted() uint64 { return i.counters.TotalMinted }

// OwnerMinted returns the number of identifiers minted through the reserve.
func (i *Issuer) OwnerMinted() uint64 { return i.counters.OwnerMinted }

// Balance returns the proceeds not yet withdrawn.
func (i *Issuer) Balance() uint64 { return i.counters.Balance }

// Limit returns the hard supply cap.
func (i *Issuer) Limit() uint64 { return i.params.Limit }

// Ledger returns the ownership ledger.
func (i *Issuer) Ledger() Ledger { return i.ledger }

// OwnerMint mints quantity identifiers to the operator from the reserve.
func (i *Issuer) OwnerMint(ctx context.Context, caller access.Address, quantity uint64) (*Receipt, error) {
	release, err := i.guard.Enter()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := i.access.RequireOperator(caller); err != nil {
		return nil, err
	}
	if quantity == 0 {
		return nil, ErrZeroQuantity
	}
	if exceeds(i.counters.OwnerMinted, quantity, i.params.OwnerLimit) {
		return nil, fmt.Errorf("%w: %d + %d > %d", ErrExceedsOwnerLimit,
			i.counters.OwnerMinted, quantity, i.params.OwnerLimit)
	}
	if err := i.checkSupply(quantity); err != nil {
		return nil, err
	}
	return i.issue(ctx, &Receipt{Channel: ChannelReserve, Recipient: caller, Quantity: quantity})
}

// MintWithSignature mints quantity identifiers to caller, admitted by an
// allowance signed for (caller, index). The index is consumed on success.
func (i *Issuer) MintWithSignature(ctx context.Context, caller access.Address, quantity, index uint64, sig []byte, payment uint64) (*Receipt, error) {
	release, err := i.guard.Enter()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := i.access.RequirePhase(access.PhaseAllowlist); err != nil {
		return nil, err
	}
	if err := i.auth.Admit(caller, index, sig); err != nil {
		return nil, err
	}
	cost, err := i.checkPaid(quantity, payment)
	if err != nil {
		return nil, err
	}
	return i.issue(ctx, &Receipt{
		Channel:   ChannelAllowlist,
		Recipient: caller,
		Quantity:  quantity,
		Paid:      cost,
		Index:     index,
	})
}

// Mint mints quantity identifiers to caller in the public sale.
func (i *Issuer) Mint(ctx context.Context, caller access.Address, quantity, payment uint64) (*Receipt, error) {
	release, err := i.guard.Enter()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := i.access.RequirePhase(access.PhasePublic); err != nil {
		return nil, err
	}
	cost, err := i.checkPaid(quantity, payment)
	if err != nil {
		return nil, err
	}
	return i.issue(ctx, &Receipt{Channel: ChannelPublic, Recipient: caller, Quantity: quantity, Paid: cost})
}

// WithdrawFunds pays the whole balance to the operator.
func (i *Issuer) WithdrawFunds(ctx context.Context, caller access.Address) (*Withdrawal, error) {
	release, err := i.guard.Enter()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := i.access.RequireOperator(caller); err != nil {
		return nil, err
	}

	w := &Withdrawal{To: i.access.Operator(), Amount: i.counters.Balance}
	i.counters.Balance = 0
	if w.Amount == 0 {
		return w, nil
	}
	if err := i.treasury.Pay(ctx, w.To, w.Amount); err != nil {
		i.counters.Balance = w.Amount
		return nil, fmt.Errorf("issuance: treasury pay: %w", err)
	}
	return w, nil
}

// SetLimit changes the hard supply cap. It cannot drop below the minted count.
func (i *Issuer) SetLimit(caller access.Address, limit uint64) error {
	if err := i.access.RequireOperator(caller); err != nil {
		return err
	}
	if limit < i.counters.TotalMinted {
		return fmt.Errorf("%w: %d below minted %d", ErrInvalidLimit, limit, i.counters.TotalMinted)
	}
	i.params.Limit = limit
	return nil
}

// SetMaxQuantity changes the per-call cap.
func (i *Issuer) SetMaxQuantity(caller access.Address, maxQuantity uint64) error {
	if err := i.access.RequireOperator(caller); err != nil {
		return err
	}
	i.params.MaxQuantity = maxQuantity
	return nil
}

// SetPrice changes the per-identifier price.
func (i *Issuer) SetPrice(caller access.Address, price uint64) error {
	if err := i.access.RequireOperator(caller); err != nil {
		return err
	}
	i.params.Price = price
	return nil
}

// checkPaid runs the quantity, payment and supply checks shared by the paid
// channels and returns the exact cost.
func (i *Issuer) checkPaid(quantity, payment uint64) (uint64, error) {
	if quantity == 0 {
		return 0, ErrZeroQuantity
	}
	if quantity > i.params.MaxQuantity {
		return 0, fmt.Errorf("%w: %d > %d", ErrExceedsMaxQuantity, quantity, i.params.MaxQuantity)
	}
	hi, cost := bits.Mul64(i.params.Price, quantity)
	if hi != 0 {
		return 0, fmt.Errorf("%w: price overflow for quantity %d", ErrIncorrectPayment, quantity)
	}
	if payment != cost {
		return 0, fmt.Errorf("%w: paid %d, want %d", ErrIncorrectPayment, payment, cost)
	}
	if _, carry := bits.Add64(i.counters.Balance, cost, 0); carry != 0 {
		return 0, fmt.Errorf("%w: balance overflow", ErrIncorrectPayment)
	}
	if err := i.checkSupply(quantity); err != nil {
		return 0, err
	}
	return cost, nil
}

func (i *Issuer) checkSupply(quantity uint64) error {
	if exceeds(i.counters.TotalMinted, quantity, i.params.Limit) {
		return fmt.Errorf("%w: %d + %d > %d", ErrExceedsSupply,
			i.counters.TotalMinted, quantity, i.params.Limit)
	}
	return nil
}

// issue applies the effects of a validated mint, calls the ledger, and undoes
// the effects if the ledger call fails.
func (i *Issuer) issue(ctx context.Context, r *Receipt) (*Receipt, error) {
	before := i.counters
	r.FirstID = before.TotalMinted

	if r.Channel == ChannelAllowlist {
		if err := i.auth.Registry().Consume(r.Index); err != nil {
			return nil, err
		}
	}
	i.counters.TotalMinted += r.Quantity
	i.counters.Balance += r.Paid
	if r.Channel == ChannelReserve {
		i.counters.OwnerMinted += r.Quantity
	}

	if err := i.ledger.Mint(ctx, r.Recipient, r.FirstID, r.Quantity); err != nil {
		i.counters = before
		if r.Channel == ChannelAllowlist {
			i.auth.Registry().Release(r.Index)
		}
		return nil, fmt.Errorf("issuance: ledger mint: %w", err)
	}
	return r, nil
}

// exceeds reports whether current+quantity > limit without overflowing.
func exceeds(current, quantity, limit uint64) bool {
	return current > limit || quantity > limit-current
}
