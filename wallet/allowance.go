package wallet

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitfsorg/libmint-go/access"
	"github.com/bitfsorg/libmint-go/allowlist"
)

// Allowance is the per-recipient file handed to an allowlisted buyer.
type Allowance struct {
	Index     uint64
	Signature []byte
	Address   access.Address
}

type allowanceJSON struct {
	Index     uint64         `json:"index"`
	Signature string         `json:"signature"`
	Address   access.Address `json:"address"`
}

// MarshalJSON encodes the signature as 0x-prefixed hex.
func (a Allowance) MarshalJSON() ([]byte, error) {
	return json.Marshal(allowanceJSON{
		Index:     a.Index,
		Signature: "0x" + hex.EncodeToString(a.Signature),
		Address:   a.Address,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Allowance) UnmarshalJSON(data []byte) error {
	var raw allowanceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAllowance, err)
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(raw.Signature, "0x"))
	if err != nil {
		return fmt.Errorf("%w: signature: %w", ErrInvalidAllowance, err)
	}
	*a = Allowance{Index: raw.Index, Signature: sig, Address: raw.Address}
	return nil
}

// Verify checks the allowance against the collection and expected signer.
func (a *Allowance) Verify(id allowlist.CollectionID, signer access.Address) error {
	_, err := allowlist.VerifyAllowance(id, signer, a.Address, a.Index, a.Signature)
	return err
}

// WriteAllowance writes a to dir/<address>.json and returns the path.
func WriteAllowance(dir string, a *Allowance) (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("wallet: encode allowance: %w", err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("wallet: create directory: %w", err)
	}
	path := filepath.Join(dir, a.Address.String()+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("wallet: write allowance: %w", err)
	}
	return path, nil
}

// ReadAllowance reads an allowance file.
func ReadAllowance(path string) (*Allowance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wallet: read allowance: %w", err)
	}
	var a Allowance
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
