package issuance

import (
	"context"

	"github.com/bitfsorg/libmint-go/access"
)

// Ledger is the ownership ledger identifiers are minted into. Transfers,
// approvals and balances are entirely its business.
type Ledger interface {
	// Mint assigns identifiers [firstID, firstID+quantity) to to. It must be
	// all-or-nothing: on error no identifier of the batch stays assigned.
	Mint(ctx context.Context, to access.Address, firstID, quantity uint64) error

	// OwnerOf returns the owner of id, or an error if id was never minted.
	OwnerOf(ctx context.Context, id uint64) (access.Address, error)

	// TotalIssued returns how many identifiers the ledger holds.
	TotalIssued(ctx context.Context) (uint64, error)
}

// Treasury pays accumulated sale proceeds out.
type Treasury interface {
	// Pay transfers amount to to. On error nothing was paid.
	Pay(ctx context.Context, to access.Address, amount uint64) error
}
