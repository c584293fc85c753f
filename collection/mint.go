package collection

import (
	"context"

	"go.uber.org/zap"

	"github.com/bitfsorg/libmint-go/access"
	"github.com/bitfsorg/libmint-go/issuance"
)

// OwnerMint mints quantity identifiers to the operator from the reserve.
func (c *Collection) OwnerMint(ctx context.Context, caller access.Address, quantity uint64) (*issuance.Receipt, error) {
	return c.mint("owner_mint", caller, func() (*issuance.Receipt, error) {
		return c.issuer.OwnerMint(ctx, caller, quantity)
	})
}

// MintWithSignature mints through the allowlist, admitted by a signature over
// (caller, index).
func (c *Collection) MintWithSignature(ctx context.Context, caller access.Address, quantity, index uint64, sig []byte, payment uint64) (*issuance.Receipt, error) {
	return c.mint("mint_with_signature", caller, func() (*issuance.Receipt, error) {
		return c.issuer.MintWithSignature(ctx, caller, quantity, index, sig, payment)
	})
}

// Mint mints in the public sale.
func (c *Collection) Mint(ctx context.Context, caller access.Address, quantity, payment uint64) (*issuance.Receipt, error) {
	return c.mint("mint", caller, func() (*issuance.Receipt, error) {
		return c.issuer.Mint(ctx, caller, quantity, payment)
	})
}

func (c *Collection) mint(op string, caller access.Address, fn func() (*issuance.Receipt, error)) (*issuance.Receipt, error) {
	var r *issuance.Receipt
	err := c.guarded(func() error {
		var err error
		if r, err = fn(); err != nil {
			return err
		}
		c.metrics.RecordMint(r.Channel.String(), r.Quantity)
		c.log.Info("minted",
			zap.String("channel", r.Channel.String()),
			zap.Stringer("recipient", r.Recipient),
			zap.Uint64("first_id", r.FirstID),
			zap.Uint64("quantity", r.Quantity),
			zap.Uint64("paid", r.Paid))
		c.emit(Event{Kind: EventMinted, Actor: caller, Receipt: r})
		return nil
	})
	if err != nil {
		return nil, c.reject(op, caller, err)
	}
	return r, nil
}

// WithdrawFunds pays the whole balance to the operator.
func (c *Collection) WithdrawFunds(ctx context.Context, caller access.Address) (*issuance.Withdrawal, error) {
	var w *issuance.Withdrawal
	err := c.guarded(func() error {
		var err error
		if w, err = c.issuer.WithdrawFunds(ctx, caller); err != nil {
			return err
		}
		c.metrics.AddWithdrawn(w.Amount)
		c.log.Info("funds withdrawn", zap.Stringer("to", w.To), zap.Uint64("amount", w.Amount))
		c.emit(Event{Kind: EventFundsWithdrawn, Actor: caller, Withdrawal: w})
		return nil
	})
	if err != nil {
		return nil, c.reject("withdraw_funds", caller, err)
	}
	return w, nil
}
