package allowlist

import (
	"github.com/bitfsorg/libmint-go/access"
)

// SignerSource supplies the address currently allowed to sign allowances.
// *access.Controller satisfies it, so a new operator takes over signing.
type SignerSource interface {
	Signer() access.Address
}

// Authenticator validates allowances for one collection against the current
// signer and the index registry.
type Authenticator struct {
	id       CollectionID
	signer   SignerSource
	registry *Registry
}

// NewAuthenticator creates an Authenticator. A nil registry starts empty.
func NewAuthenticator(id CollectionID, signer SignerSource, registry *Registry) *Authenticator {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Authenticator{id: id, signer: signer, registry: registry}
}

// CollectionID returns the identity signatures are bound to.
func (a *Authenticator) CollectionID() CollectionID { return a.id }

// Registry returns the index registry.
func (a *Authenticator) Registry() *Registry { return a.registry }

// CreateMessage builds the message for (recipient, index) in this collection.
func (a *Authenticator) CreateMessage(recipient access.Address, index uint64) []byte {
	return CreateMessage(a.id, recipient, index)
}

// ValidateSignature checks that sig was produced by the current signer for
// (recipient, index) and returns the signed digest.
func (a *Authenticator) ValidateSignature(recipient access.Address, index uint64, sig []byte) ([]byte, error) {
	return VerifyAllowance(a.id, a.signer.Signer(), recipient, index, sig)
}

// Admit runs every admission check without consuming the index: the floor,
// prior use, then the signature.
func (a *Authenticator) Admit(recipient access.Address, index uint64, sig []byte) error {
	if err := a.registry.Check(index); err != nil {
		return err
	}
	_, err := a.ValidateSignature(recipient, index, sig)
	return err
}
