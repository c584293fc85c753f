package wallet

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libmint-go/access"
	"github.com/bitfsorg/libmint-go/allowlist"
)

// BIP39 test vector mnemonic (all-zero entropy).
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func makeAddr(seed byte) access.Address {
	var a access.Address
	for i := range a {
		a[i] = seed
	}
	return a
}

// --- Mnemonic ---

func TestGenerateMnemonic(t *testing.T) {
	tests := []struct {
		bits  int
		words int
	}{
		{Mnemonic12Words, 12},
		{Mnemonic24Words, 24},
	}
	for _, tt := range tests {
		m, err := GenerateMnemonic(tt.bits)
		require.NoError(t, err)
		assert.Len(t, strings.Fields(m), tt.words)
		assert.True(t, ValidateMnemonic(m))
	}

	_, err := GenerateMnemonic(192)
	assert.ErrorIs(t, err, ErrInvalidEntropy)
}

func TestSeedFromMnemonic(t *testing.T) {
	a, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := SeedFromMnemonic(testMnemonic, "TREZOR")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "passphrase participates in derivation")

	_, err = SeedFromMnemonic("abandon abandon", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

// --- Sealing ---

func TestSealOpenRoundTrip(t *testing.T) {
	seed, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)

	sealed, err := SealSeed(seed, "hunter2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(sealed), "LMS1"))

	got, err := OpenSeed(sealed, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, seed, got)

	again, err := SealSeed(seed, "hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "salt and nonce are fresh per seal")
}

func TestOpenSeed_Failures(t *testing.T) {
	sealed, err := SealSeed([]byte("0123456789abcdef"), "pw")
	require.NoError(t, err)

	_, err = OpenSeed(sealed, "wrong")
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xFF
	_, err = OpenSeed(tampered, "pw")
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	_, err = OpenSeed([]byte("XXXX"+string(sealed[4:])), "pw")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = OpenSeed(sealed[:10], "pw")
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	_, err = SealSeed(nil, "pw")
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "signer.seed")
	seed := []byte("0123456789abcdef0123456789abcdef")

	require.NoError(t, WriteSeedFile(path, seed, "pw"))
	got, err := ReadSeedFile(path, "pw")
	require.NoError(t, err)
	assert.Equal(t, seed, got)

	_, err = ReadSeedFile(filepath.Join(t.TempDir(), "missing"), "pw")
	assert.Error(t, err)
}

// --- Derivation ---

func TestSignerFromMnemonic(t *testing.T) {
	s0, err := SignerFromMnemonic(testMnemonic, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "m/44'/236'/0'/0/0", s0.Path)
	assert.Equal(t, access.AddressFromPubKey(s0.Key.PubKey()), s0.Address)

	again, err := SignerFromMnemonic(testMnemonic, "", 0)
	require.NoError(t, err)
	assert.Equal(t, s0.Address, again.Address, "derivation is deterministic")

	s1, err := SignerFromMnemonic(testMnemonic, "", 1)
	require.NoError(t, err)
	assert.NotEqual(t, s0.Address, s1.Address)

	_, err = SignerFromMnemonic("not a mnemonic", "", 0)
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestKeyring(t *testing.T) {
	_, err := NewKeyring(nil, true)
	assert.ErrorIs(t, err, ErrInvalidSeed)

	seed, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	mainRing, err := NewKeyring(seed, true)
	require.NoError(t, err)
	testRing, err := NewKeyring(seed, false)
	require.NoError(t, err)
	assert.True(t, mainRing.Mainnet())
	assert.False(t, testRing.Mainnet())

	a, err := mainRing.Signer(3)
	require.NoError(t, err)
	b, err := testRing.Signer(3)
	require.NoError(t, err)
	assert.Equal(t, a.Address, b.Address, "network only changes address rendering")

	_, err = mainRing.Signer(MaxSignerIndex + 1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

// --- Allowances ---

func TestAllowance_SignWriteReadVerify(t *testing.T) {
	s, err := SignerFromMnemonic(testMnemonic, "", 0)
	require.NoError(t, err)
	id := allowlist.DeriveCollectionID("mars", s.Address)
	recipient := makeAddr(0x42)

	a, err := s.SignAllowance(id, recipient, 2)
	require.NoError(t, err)
	require.NoError(t, a.Verify(id, s.Address))

	dir := t.TempDir()
	path, err := WriteAllowance(dir, a)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, recipient.String()+".json"), path)

	back, err := ReadAllowance(path)
	require.NoError(t, err)
	assert.Equal(t, a, back)
	assert.NoError(t, back.Verify(id, s.Address))

	other, err := SignerFromMnemonic(testMnemonic, "", 1)
	require.NoError(t, err)
	assert.ErrorIs(t, back.Verify(id, other.Address), allowlist.ErrInvalidSignature)
}

func TestAllowance_BadJSON(t *testing.T) {
	var a Allowance
	assert.ErrorIs(t, a.UnmarshalJSON([]byte(`{"index":1,"signature":"zz","address":"`+makeAddr(1).String()+`"}`)), ErrInvalidAllowance)
	assert.Error(t, a.UnmarshalJSON([]byte(`{"index":1,"signature":"00","address":"nope"}`)))
}
