package access

import (
	"encoding/hex"
	"fmt"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/bsv-blockchain/go-sdk/script"
)

// AddressLen is the length of an address hash in bytes.
const AddressLen = 20

// Address identifies a principal or recipient: HASH160 of its compressed
// secp256k1 public key, the same hash a P2PKH output commits to.
type Address [AddressLen]byte

// ZeroAddress is the unset address.
var ZeroAddress Address

// AddressFromPubKey derives the address of a public key.
func AddressFromPubKey(pub *ec.PublicKey) Address {
	var a Address
	if pub == nil {
		return a
	}
	copy(a[:], bsvhash.Hash160(pub.Compressed()))
	return a
}

// ParseAddress decodes a 40-character hex address, with or without a 0x prefix.
func ParseAddress(s string) (Address, error) {
	var a Address
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(b) != AddressLen {
		return a, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLen, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool { return a == ZeroAddress }

// String returns the lowercase hex encoding of the address.
func (a Address) String() string { return hex.EncodeToString(a[:]) }

// Base58 renders the address as a P2PKH address string for the given network.
func (a Address) Base58(mainnet bool) (string, error) {
	addr, err := script.NewAddressFromPublicKeyHash(a[:], mainnet)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return addr.AddressString, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
