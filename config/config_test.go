// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libmint-go/access"
)

func makeAddr(seed byte) access.Address {
	var a access.Address
	for i := range a {
		a[i] = seed
	}
	return a
}

func validConfig() CollectionConfig {
	cfg := DefaultConfig()
	cfg.Operator = makeAddr(1)
	cfg.Guardian = makeAddr(2)
	return cfg
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collection.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// ---------------------------------------------------------------------------
// DefaultConfig tests
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Limit", cfg.Limit, uint64(100)},
		{"MaxQuantity", cfg.MaxQuantity, uint64(6)},
		{"OwnerLimit", cfg.OwnerLimit, uint64(5)},
		{"BatchSize", cfg.BatchSize, uint64(10)},
		{"Price", cfg.Price, uint64(88_000_000)},
		{"Network", cfg.Network, "mainnet"},
		{"LogLevel", cfg.LogLevel, "info"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
	assert.NotEmpty(t, cfg.DataDir)
	assert.True(t, cfg.Operator.IsZero(), "principals are never defaulted")
}

// ---------------------------------------------------------------------------
// LoadConfig / SaveConfig tests
// ---------------------------------------------------------------------------

func TestLoadConfig_Overlay(t *testing.T) {
	path := writeFile(t, `
name = "mars"
operator = "0x`+strings.Repeat("01", 20)+`"
guardian = "`+strings.Repeat("02", 20)+`"
limit = 200
batch_size = 20
pre_reveal_uri = "  ipfs://hidden.json "
log_level = "DEBUG"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "mars", cfg.Name)
	assert.Equal(t, makeAddr(1), cfg.Operator)
	assert.Equal(t, makeAddr(2), cfg.Guardian)
	assert.Equal(t, uint64(200), cfg.Limit)
	assert.Equal(t, uint64(20), cfg.BatchSize)
	assert.Equal(t, "ipfs://hidden.json", cfg.PreRevealURI)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Undefined keys keep their defaults.
	assert.Equal(t, uint64(6), cfg.MaxQuantity)
	assert.Equal(t, uint64(88_000_000), cfg.Price)
	assert.Equal(t, DefaultConfig().BaseURI, cfg.BaseURI)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfig_ExplicitZeroOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "owner_limit = 0\nprice = 0\n"))
	require.NoError(t, err)
	assert.Zero(t, cfg.OwnerLimit)
	assert.Zero(t, cfg.Price)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)

	_, err = LoadConfig(writeFile(t, `operator = "not-an-address"`))
	assert.ErrorIs(t, err, ErrInvalidConfigValue)
	assert.ErrorIs(t, err, access.ErrInvalidAddress)

	_, err = LoadConfig(writeFile(t, `limit = "many"`))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, `this is not toml`))
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "collection.toml")
	original := validConfig()
	original.Name = "venus"
	original.MinimumIndex = 42
	original.Network = "testnet"
	original.DataDir = "/tmp/libmint-test"

	require.NoError(t, SaveConfig(path, original))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
	assert.False(t, loaded.Mainnet())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

// ---------------------------------------------------------------------------
// ValidateConfig tests
// ---------------------------------------------------------------------------

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *CollectionConfig)
		wantErr error
	}{
		{"valid", func(*CollectionConfig) {}, nil},
		{"empty name", func(c *CollectionConfig) { c.Name = "  " }, ErrEmptyName},
		{"no operator", func(c *CollectionConfig) { c.Operator = access.ZeroAddress }, ErrMissingPrincipal},
		{"no guardian", func(c *CollectionConfig) { c.Guardian = access.ZeroAddress }, ErrMissingPrincipal},
		{"zero limit", func(c *CollectionConfig) { c.Limit = 0 }, ErrInvalidSupply},
		{"owner limit above limit", func(c *CollectionConfig) { c.OwnerLimit = 101 }, ErrInvalidSupply},
		{"max quantity above limit", func(c *CollectionConfig) { c.MaxQuantity = 101 }, ErrInvalidSupply},
		{"zero batch", func(c *CollectionConfig) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"indivisible batch", func(c *CollectionConfig) { c.BatchSize = 7 }, ErrInvalidBatchSize},
		{"bad network", func(c *CollectionConfig) { c.Network = "regtest" }, ErrInvalidNetwork},
		{"bad log level", func(c *CollectionConfig) { c.LogLevel = "trace" }, ErrInvalidLogLevel},
		{"upper-case log level", func(c *CollectionConfig) { c.LogLevel = "WARN" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
