package collection

import (
	"go.uber.org/zap"

	"github.com/bitfsorg/libmint-go/access"
)

// TransferOperator hands the operator role, and with it the allowlist
// signer, to next.
func (c *Collection) TransferOperator(caller, next access.Address) error {
	if err := c.idle("transfer_operator", caller); err != nil {
		return err
	}
	t, err := c.access.TransferOperator(caller, next)
	if err != nil {
		return c.reject("transfer_operator", caller, err)
	}
	c.log.Info("operator transferred", zap.Stringer("from", t.From), zap.Stringer("to", t.To))
	c.emit(Event{Kind: EventOperatorTransferred, Actor: caller, Transfer: &t})
	return c.save()
}

// TransferGuardian hands the guardian role to next.
func (c *Collection) TransferGuardian(caller, next access.Address) error {
	if err := c.idle("transfer_guardian", caller); err != nil {
		return err
	}
	t, err := c.access.TransferGuardian(caller, next)
	if err != nil {
		return c.reject("transfer_guardian", caller, err)
	}
	c.log.Info("guardian transferred", zap.Stringer("from", t.From), zap.Stringer("to", t.To))
	c.emit(Event{Kind: EventGuardianTransferred, Actor: caller, Transfer: &t})
	return c.save()
}

// ToggleAllowlist flips the allowlist phase and returns the new value.
func (c *Collection) ToggleAllowlist(caller access.Address) (bool, error) {
	if err := c.idle("toggle_allowlist", caller); err != nil {
		return false, err
	}
	on, err := c.access.ToggleAllowlist(caller)
	if err != nil {
		return false, c.reject("toggle_allowlist", caller, err)
	}
	c.log.Info("allowlist toggled", zap.Bool("active", on))
	c.emit(Event{Kind: EventAllowlistToggled, Actor: caller, Flag: on})
	return on, c.save()
}

// TogglePublicSale flips the public phase and returns the new value.
func (c *Collection) TogglePublicSale(caller access.Address) (bool, error) {
	if err := c.idle("toggle_public_sale", caller); err != nil {
		return false, err
	}
	on, err := c.access.TogglePublicSale(caller)
	if err != nil {
		return false, c.reject("toggle_public_sale", caller, err)
	}
	c.log.Info("public sale toggled", zap.Bool("active", on))
	c.emit(Event{Kind: EventPublicSaleToggled, Actor: caller, Flag: on})
	return on, c.save()
}

// Freeze permanently blocks URI changes. Freezing an already frozen
// collection succeeds without an event.
func (c *Collection) Freeze(caller access.Address) error {
	if err := c.idle("freeze", caller); err != nil {
		return err
	}
	changed, err := c.access.Freeze(caller)
	if err != nil {
		return c.reject("freeze", caller, err)
	}
	if !changed {
		return nil
	}
	c.log.Info("collection frozen")
	c.emit(Event{Kind: EventFrozen, Actor: caller, Flag: true})
	return c.save()
}

func (c *Collection) setURI(op string, caller access.Address, kind EventKind, dst *string, uri string) error {
	if err := c.idle(op, caller); err != nil {
		return err
	}
	if err := c.access.RequireOperator(caller); err != nil {
		return c.reject(op, caller, err)
	}
	if err := c.access.RequireUnfrozen(); err != nil {
		return c.reject(op, caller, err)
	}
	*dst = uri
	c.log.Info("uri updated", zap.String("event", string(kind)), zap.String("uri", uri))
	c.emit(Event{Kind: kind, Actor: caller, URI: uri})
	return c.save()
}

// SetBaseURI changes the prefix of revealed metadata.
func (c *Collection) SetBaseURI(caller access.Address, uri string) error {
	return c.setURI("set_base_uri", caller, EventBaseURIUpdated, &c.baseURI, uri)
}

// SetBaseImageURI changes the image prefix.
func (c *Collection) SetBaseImageURI(caller access.Address, uri string) error {
	return c.setURI("set_base_image_uri", caller, EventBaseImageURIUpdated, &c.baseImageURI, uri)
}

// SetPreRevealURI changes the placeholder for unrevealed identifiers.
func (c *Collection) SetPreRevealURI(caller access.Address, uri string) error {
	return c.setURI("set_pre_reveal_uri", caller, EventPreRevealURIUpdated, &c.preRevealURI, uri)
}

// SetLimit changes the supply cap. The new limit must cover what is already
// minted, stay a multiple of the batch size, and cannot change once a batch
// is revealed.
func (c *Collection) SetLimit(caller access.Address, limit uint64) error {
	if err := c.idle("set_limit", caller); err != nil {
		return err
	}
	if err := c.access.RequireOperator(caller); err != nil {
		return c.reject("set_limit", caller, err)
	}
	if err := c.engine.CheckLimit(limit); err != nil {
		return c.reject("set_limit", caller, err)
	}
	if err := c.issuer.SetLimit(caller, limit); err != nil {
		return c.reject("set_limit", caller, err)
	}
	c.log.Info("limit updated", zap.Uint64("limit", limit))
	c.emit(Event{Kind: EventLimitUpdated, Actor: caller, Number: limit})
	return c.save()
}

// SetMaxQuantity changes the per-call cap for paid mints.
func (c *Collection) SetMaxQuantity(caller access.Address, maxQuantity uint64) error {
	if err := c.idle("set_max_quantity", caller); err != nil {
		return err
	}
	if err := c.issuer.SetMaxQuantity(caller, maxQuantity); err != nil {
		return c.reject("set_max_quantity", caller, err)
	}
	c.log.Info("max quantity updated", zap.Uint64("max_quantity", maxQuantity))
	c.emit(Event{Kind: EventMaxQuantityUpdated, Actor: caller, Number: maxQuantity})
	return c.save()
}

// SetPrice changes the per-identifier price.
func (c *Collection) SetPrice(caller access.Address, price uint64) error {
	if err := c.idle("set_price", caller); err != nil {
		return err
	}
	if err := c.issuer.SetPrice(caller, price); err != nil {
		return c.reject("set_price", caller, err)
	}
	c.log.Info("price updated", zap.Uint64("price", price))
	c.emit(Event{Kind: EventPriceUpdated, Actor: caller, Number: price})
	return c.save()
}

// SetMinimumIndex moves the allowlist floor. Raising it revokes every
// outstanding allowance below the new value at once.
func (c *Collection) SetMinimumIndex(caller access.Address, minimum uint64) error {
	if err := c.idle("set_minimum_index", caller); err != nil {
		return err
	}
	if err := c.access.RequireOperator(caller); err != nil {
		return c.reject("set_minimum_index", caller, err)
	}
	c.auth.Registry().SetMinimumIndex(minimum)
	c.log.Info("minimum index updated", zap.Uint64("minimum_index", minimum))
	c.emit(Event{Kind: EventMinimumIndexUpdated, Actor: caller, Number: minimum})
	return c.save()
}
