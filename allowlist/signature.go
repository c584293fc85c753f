package allowlist

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/bitfsorg/libmint-go/access"
)

// Sign produces the compact signature an issuer hands to recipient for index.
func Sign(key *ec.PrivateKey, id CollectionID, recipient access.Address, index uint64) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: private key", ErrNilParam)
	}
	digest := HashMessage(CreateMessage(id, recipient, index))
	sig, err := ec.SignCompact(ec.S256(), key, digest, true)
	if err != nil {
		return nil, fmt.Errorf("allowlist: sign: %w", err)
	}
	return sig, nil
}

// RecoverSigner returns the address that produced sig over digest.
func RecoverSigner(digest, sig []byte) (access.Address, error) {
	if len(sig) != SignatureLen {
		return access.ZeroAddress, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureLen, len(sig))
	}
	pub, _, err := ec.RecoverCompact(sig, digest)
	if err != nil {
		return access.ZeroAddress, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return access.AddressFromPubKey(pub), nil
}

// VerifyAllowance checks sig against an explicit signer address. It is the
// offline counterpart of Authenticator.ValidateSignature and returns the
// signed digest.
func VerifyAllowance(id CollectionID, signer, recipient access.Address, index uint64, sig []byte) ([]byte, error) {
	digest := HashMessage(CreateMessage(id, recipient, index))
	got, err := RecoverSigner(digest, sig)
	if err != nil {
		return nil, err
	}
	if got != signer {
		return nil, fmt.Errorf("%w: recovered %s, want %s", ErrInvalidSignature, got, signer)
	}
	return digest, nil
}
