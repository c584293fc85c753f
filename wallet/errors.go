package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrIndexOutOfRange indicates a signer index exceeds the BIP32 non-hardened max.
	ErrIndexOutOfRange = errors.New("wallet: signer index exceeds maximum (2^31-1)")

	// ErrDecryptionFailed indicates wrong password or corrupted seed data.
	ErrDecryptionFailed = errors.New("wallet: seed decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates seed checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("wallet: seed checksum mismatch")

	// ErrUnknownFormat indicates a sealed seed without the expected header.
	ErrUnknownFormat = errors.New("wallet: unknown sealed seed format")

	// ErrInvalidSeed indicates the seed is empty or invalid.
	ErrInvalidSeed = errors.New("wallet: invalid seed")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("wallet: key derivation failed")

	// ErrInvalidAllowance indicates an allowance file that cannot be decoded.
	ErrInvalidAllowance = errors.New("wallet: invalid allowance")
)
