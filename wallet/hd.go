package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"

	"github.com/bitfsorg/libmint-go/access"
	"github.com/bitfsorg/libmint-go/allowlist"
)

const (
	// BIP44 path constants.
	PurposeBIP44  = 44
	CoinType      = 236
	SignerAccount = 0
	ExternalChain = 0

	// MaxSignerIndex is the largest non-hardened child index.
	MaxSignerIndex = 1<<31 - 1

	// Hardened is the BIP32 hardened offset.
	Hardened = 0x80000000
)

// Keyring derives allowlist signer keys from a BIP39 seed.
type Keyring struct {
	master  *bip32.ExtendedKey
	mainnet bool
}

// Signer is one derived allowlist signing key.
type Signer struct {
	Key     *ec.PrivateKey
	Address access.Address
	Path    string
}

// NewKeyring creates a Keyring from a BIP39 seed.
func NewKeyring(seed []byte, mainnet bool) (*Keyring, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	net := &chaincfg.TestNet
	if mainnet {
		net = &chaincfg.MainNet
	}
	master, err := bip32.NewMaster(seed, net)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &Keyring{master: master, mainnet: mainnet}, nil
}

// Mainnet reports which network the keyring renders addresses for.
func (k *Keyring) Mainnet() bool { return k.mainnet }

// Signer derives m/44'/236'/0'/0/index.
func (k *Keyring) Signer(index uint32) (*Signer, error) {
	if index > MaxSignerIndex {
		return nil, ErrIndexOutOfRange
	}

	key := k.master
	for _, step := range []struct {
		name  string
		child uint32
	}{
		{"purpose", PurposeBIP44 + Hardened},
		{"coin type", CoinType + Hardened},
		{"account", SignerAccount + Hardened},
		{"chain", ExternalChain},
		{"index", index},
	} {
		next, err := key.Child(step.child)
		if err != nil {
			return nil, fmt.Errorf("%w: %s derivation: %w", ErrDerivationFailed, step.name, err)
		}
		key = next
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to extract EC private key: %w", ErrDerivationFailed, err)
	}
	return &Signer{
		Key:     priv,
		Address: access.AddressFromPubKey(priv.PubKey()),
		Path:    fmt.Sprintf("m/44'/%d'/%d'/%d/%d", CoinType, SignerAccount, ExternalChain, index),
	}, nil
}

// SignerFromMnemonic derives the mainnet signer at index straight from a
// mnemonic.
func SignerFromMnemonic(mnemonic, passphrase string, index uint32) (*Signer, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	k, err := NewKeyring(seed, true)
	if err != nil {
		return nil, err
	}
	return k.Signer(index)
}

// SignAllowance signs the allowlist message for (recipient, index).
func (s *Signer) SignAllowance(id allowlist.CollectionID, recipient access.Address, index uint64) (*Allowance, error) {
	sig, err := allowlist.Sign(s.Key, id, recipient, index)
	if err != nil {
		return nil, err
	}
	return &Allowance{Index: index, Signature: sig, Address: recipient}, nil
}
