package collection

import (
	"github.com/bitfsorg/libmint-go/access"
	"github.com/bitfsorg/libmint-go/allowlist"
)

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// CollectionID returns the identity every allowance is bound to.
func (c *Collection) CollectionID() allowlist.CollectionID { return c.auth.CollectionID() }

// Limit returns the hard supply cap.
func (c *Collection) Limit() uint64 { return c.issuer.Params().Limit }

// MaxQuantity returns the per-call cap for paid mints.
func (c *Collection) MaxQuantity() uint64 { return c.issuer.Params().MaxQuantity }

// OwnerLimit returns the reserve cap.
func (c *Collection) OwnerLimit() uint64 { return c.issuer.Params().OwnerLimit }

// Price returns the per-identifier price in base units.
func (c *Collection) Price() uint64 { return c.issuer.Params().Price }

// BatchSize returns the number of identifiers per reveal batch.
func (c *Collection) BatchSize() uint64 { return c.engine.BatchSize() }

// BaseURI returns the prefix of revealed metadata.
func (c *Collection) BaseURI() string { return c.baseURI }

// BaseImageURI returns the image prefix.
func (c *Collection) BaseImageURI() string { return c.baseImageURI }

// PreRevealURI returns the placeholder served for unrevealed identifiers.
func (c *Collection) PreRevealURI() string { return c.preRevealURI }

// AllowlistActive reports whether the allowlist phase is open.
func (c *Collection) AllowlistActive() bool { return c.access.AllowlistActive() }

// PublicSaleActive reports whether the public phase is open.
func (c *Collection) PublicSaleActive() bool { return c.access.PublicSaleActive() }

// Frozen reports whether URI changes are blocked.
func (c *Collection) Frozen() bool { return c.access.Frozen() }

// Operator returns the current operator.
func (c *Collection) Operator() access.Address { return c.access.Operator() }

// Guardian returns the current guardian.
func (c *Collection) Guardian() access.Address { return c.access.Guardian() }

// Signer returns the address whose signatures admit allowlist mints.
func (c *Collection) Signer() access.Address { return c.access.Signer() }

// MinimumIndex returns the allowlist index floor.
func (c *Collection) MinimumIndex() uint64 { return c.auth.Registry().MinimumIndex() }

// IndexUsed reports whether an allowlist index has been consumed.
func (c *Collection) IndexUsed(index uint64) bool { return c.auth.Registry().IsUsed(index) }

// TotalMinted returns the identifiers minted across all channels.
func (c *Collection) TotalMinted() uint64 { return c.issuer.TotalMinted() }

// OwnerMinted returns the identifiers minted from the reserve.
func (c *Collection) OwnerMinted() uint64 { return c.issuer.OwnerMinted() }

// Balance returns the proceeds not yet withdrawn.
func (c *Collection) Balance() uint64 { return c.issuer.Balance() }

// CreateMessage returns the message an allowance for (recipient, index) signs.
func (c *Collection) CreateMessage(recipient access.Address, index uint64) []byte {
	return c.auth.CreateMessage(recipient, index)
}

// ValidateSignature checks sig against the current signer and returns the
// signed digest.
func (c *Collection) ValidateSignature(recipient access.Address, index uint64, sig []byte) ([]byte, error) {
	return c.auth.ValidateSignature(recipient, index, sig)
}
