// Package access holds the two privileged principals of a collection and its
// sale phase flags.
//
// The Operator runs day-to-day administration: phases, pricing, URIs and
// withdrawals. The Guardian is a recovery principal whose only power is handing
// its own role to a new address. The allowlist signer is not an independent
// role; it follows the Operator on every Operator transfer.
package access

import "fmt"

// Phase names a sale channel gated by a flag.
type Phase uint8

const (
	// PhaseAllowlist gates signature-admitted minting.
	PhaseAllowlist Phase = iota + 1
	// PhasePublic gates open minting.
	PhasePublic
)

// String returns the phase name used in logs and errors.
func (p Phase) String() string {
	switch p {
	case PhaseAllowlist:
		return "allowlist"
	case PhasePublic:
		return "public"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Transfer records a role handover.
type Transfer struct {
	From Address
	To   Address
}

// Controller tracks principals, phase flags and the frozen flag.
type Controller struct {
	operator Address
	guardian Address
	signer   Address

	allowlistActive  bool
	publicSaleActive bool
	frozen           bool
}

// Snapshot is the persisted form of a Controller.
type Snapshot struct {
	Operator         Address
	Guardian         Address
	Signer           Address
	AllowlistActive  bool
	PublicSaleActive bool
	Frozen           bool
}

// New creates a Controller. The allowlist signer starts as the operator and
// every phase starts closed.
func New(operator, guardian Address) (*Controller, error) {
	if operator.IsZero() {
		return nil, fmt.Errorf("%w: operator", ErrZeroAddress)
	}
	if guardian.IsZero() {
		return nil, fmt.Errorf("%w: guardian", ErrZeroAddress)
	}
	return &Controller{operator: operator, guardian: guardian, signer: operator}, nil
}

// Restore rebuilds a Controller from a snapshot.
func Restore(s Snapshot) *Controller {
	return &Controller{
		operator:         s.Operator,
		guardian:         s.Guardian,
		signer:           s.Signer,
		allowlistActive:  s.AllowlistActive,
		publicSaleActive: s.PublicSaleActive,
		frozen:           s.Frozen,
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Operator:         c.operator,
		Guardian:         c.guardian,
		Signer:           c.signer,
		AllowlistActive:  c.allowlistActive,
		PublicSaleActive: c.publicSaleActive,
		Frozen:           c.frozen,
	}
}

// Operator returns the current operator.
func (c *Controller) Operator() Address { return c.operator }

// Guardian returns the current guardian.
func (c *Controller) Guardian() Address { return c.guardian }

// Signer returns the address whose signatures admit allowlist mints.
func (c *Controller) Signer() Address { return c.signer }

// AllowlistActive reports whether the allowlist phase is open.
func (c *Controller) AllowlistActive() bool { return c.allowlistActive }

// PublicSaleActive reports whether the public phase is open.
func (c *Controller) PublicSaleActive() bool { return c.publicSaleActive }

// Frozen reports whether URI changes are blocked.
func (c *Controller) Frozen() bool { return c.frozen }

// RequireOperator fails with ErrUnauthorized unless caller is the operator.
func (c *Controller) RequireOperator(caller Address) error {
	if caller != c.operator {
		return fmt.Errorf("%w: %s is not the operator", ErrUnauthorized, caller)
	}
	return nil
}

// RequireGuardian fails with ErrUnauthorized unless caller is the guardian.
func (c *Controller) RequireGuardian(caller Address) error {
	if caller != c.guardian {
		return fmt.Errorf("%w: %s is not the guardian", ErrUnauthorized, caller)
	}
	return nil
}

// RequirePhase fails with ErrPhaseInactive unless phase p is open.
func (c *Controller) RequirePhase(p Phase) error {
	var open bool
	switch p {
	case PhaseAllowlist:
		open = c.allowlistActive
	case PhasePublic:
		open = c.publicSaleActive
	}
	if !open {
		return fmt.Errorf("%w: %s", ErrPhaseInactive, p)
	}
	return nil
}

// RequireUnfrozen fails with ErrFrozen once the collection is frozen.
func (c *Controller) RequireUnfrozen() error {
	if c.frozen {
		return ErrFrozen
	}
	return nil
}

// TransferOperator hands the operator role to next and re-binds the allowlist
// signer to it. Signatures issued by the previous operator stop validating.
func (c *Controller) TransferOperator(caller, next Address) (Transfer, error) {
	if err := c.RequireOperator(caller); err != nil {
		return Transfer{}, err
	}
	if next.IsZero() {
		return Transfer{}, fmt.Errorf("%w: new operator", ErrZeroAddress)
	}
	t := Transfer{From: c.operator, To: next}
	c.operator = next
	c.signer = next
	return t, nil
}

// TransferGuardian hands the guardian role to next. Only the current guardian
// may call it; the operator has no say over this role.
func (c *Controller) TransferGuardian(caller, next Address) (Transfer, error) {
	if err := c.RequireGuardian(caller); err != nil {
		return Transfer{}, err
	}
	if next.IsZero() {
		return Transfer{}, fmt.Errorf("%w: new guardian", ErrZeroAddress)
	}
	t := Transfer{From: c.guardian, To: next}
	c.guardian = next
	return t, nil
}

// ToggleAllowlist flips the allowlist phase and returns the new value.
func (c *Controller) ToggleAllowlist(caller Address) (bool, error) {
	if err := c.RequireOperator(caller); err != nil {
		return false, err
	}
	c.allowlistActive = !c.allowlistActive
	return c.allowlistActive, nil
}

// TogglePublicSale flips the public phase and returns the new value.
func (c *Controller) TogglePublicSale(caller Address) (bool, error) {
	if err := c.RequireOperator(caller); err != nil {
		return false, err
	}
	c.publicSaleActive = !c.publicSaleActive
	return c.publicSaleActive, nil
}

// Freeze blocks URI changes permanently. It reports whether this call changed
// the flag; freezing twice is not an error.
func (c *Controller) Freeze(caller Address) (bool, error) {
	if err := c.RequireOperator(caller); err != nil {
		return false, err
	}
	if c.frozen {
		return false, nil
	}
	c.frozen = true
	return true, nil
}
