// Package allowlist admits private-phase mints by signature.
//
// An off-chain issuer signs one message per eligible participant:
//
//	message = SHA256(collection_id(32) || recipient(20) || index(8, BE))
//	digest  = SHA256d(varint(len(magic)) || magic || varint(32) || message)
//
// and the signature is a 65-byte compact recoverable ECDSA signature over
// digest. Binding the index lets the issuer precompute signatures without any
// per-address allowlist writes; each index funds at most one mint, and raising
// the minimum index revokes every unused signature below it in O(1).
package allowlist

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"

	"github.com/bitfsorg/libmint-go/access"
)

const (
	// CollectionIDLen is the length of a collection identity in bytes.
	CollectionIDLen = 32

	// MessageLen is the length of an allowlist message.
	MessageLen = 32

	// SignatureLen is the length of a compact recoverable signature.
	SignatureLen = 65

	// SignedMessageMagic is the envelope prefix of the signed-message scheme,
	// shared with wallet message signing so standard tooling can issue
	// allowances.
	SignedMessageMagic = "Bitcoin Signed Message:\n"
)

// CollectionID binds signatures to one collection.
type CollectionID [CollectionIDLen]byte

// DeriveCollectionID computes the identity of a collection deployed under name
// by deployer: SHA256(name || deployer).
func DeriveCollectionID(name string, deployer access.Address) CollectionID {
	buf := make([]byte, 0, len(name)+access.AddressLen)
	buf = append(buf, name...)
	buf = append(buf, deployer[:]...)
	var id CollectionID
	copy(id[:], bsvhash.Sha256(buf))
	return id
}

// ParseCollectionID decodes a 64-character hex collection ID.
func ParseCollectionID(s string) (CollectionID, error) {
	var id CollectionID
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return id, fmt.Errorf("%w: %w", ErrInvalidCollectionID, err)
	}
	if len(b) != CollectionIDLen {
		return id, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidCollectionID, CollectionIDLen, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// String returns the hex encoding of the ID.
func (id CollectionID) String() string { return hex.EncodeToString(id[:]) }

// CreateMessage builds the message an issuer signs for (recipient, index).
func CreateMessage(id CollectionID, recipient access.Address, index uint64) []byte {
	buf := make([]byte, CollectionIDLen+access.AddressLen+8)
	copy(buf[0:32], id[:])
	copy(buf[32:52], recipient[:])
	binary.BigEndian.PutUint64(buf[52:60], index)
	return bsvhash.Sha256(buf)
}

// HashMessage returns the digest actually signed for message.
func HashMessage(message []byte) []byte {
	buf := make([]byte, 0, 2*9+len(SignedMessageMagic)+len(message))
	buf = appendVarInt(buf, uint64(len(SignedMessageMagic)))
	buf = append(buf, SignedMessageMagic...)
	buf = appendVarInt(buf, uint64(len(message)))
	buf = append(buf, message...)
	return bsvhash.Sha256d(buf)
}

// appendVarInt appends n in Bitcoin CompactSize encoding.
func appendVarInt(buf []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(buf, byte(n))
	case n <= 0xffff:
		return binary.LittleEndian.AppendUint16(append(buf, 0xfd), uint16(n))
	case n <= 0xffffffff:
		return binary.LittleEndian.AppendUint32(append(buf, 0xfe), uint32(n))
	default:
		return binary.LittleEndian.AppendUint64(append(buf, 0xff), n)
	}
}
