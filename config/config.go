// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and validates collection parameters from TOML files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/bitfsorg/libmint-go/access"
)

// CollectionConfig is the construction-time configuration of a collection.
type CollectionConfig struct {
	Name     string
	Operator access.Address
	Guardian access.Address

	Limit        uint64
	MaxQuantity  uint64
	OwnerLimit   uint64
	Price        uint64
	BatchSize    uint64
	MinimumIndex uint64

	BaseURI      string
	BaseImageURI string
	PreRevealURI string

	Network  string
	LogLevel string
	DataDir  string
}

// fileConfig mirrors the TOML layout. Addresses are hex strings.
type fileConfig struct {
	Name         string `toml:"name"`
	Operator     string `toml:"operator"`
	Guardian     string `toml:"guardian"`
	Limit        uint64 `toml:"limit"`
	MaxQuantity  uint64 `toml:"max_quantity"`
	OwnerLimit   uint64 `toml:"owner_limit"`
	Price        uint64 `toml:"price"`
	BatchSize    uint64 `toml:"batch_size"`
	MinimumIndex uint64 `toml:"minimum_index"`
	BaseURI      string `toml:"base_uri"`
	BaseImageURI string `toml:"base_image_uri"`
	PreRevealURI string `toml:"pre_reveal_uri"`
	Network      string `toml:"network"`
	LogLevel     string `toml:"log_level"`
	DataDir      string `toml:"data_dir"`
}

// DefaultConfig returns the reference deployment parameters. Principals are
// left unset.
func DefaultConfig() CollectionConfig {
	return CollectionConfig{
		Name:         "collection",
		Limit:        100,
		MaxQuantity:  6,
		OwnerLimit:   5,
		Price:        88_000_000,
		BatchSize:    10,
		BaseURI:      "ipfs://QmHash/",
		BaseImageURI: "ipfs://QmSecondHash/",
		PreRevealURI: "ipfs://QmThirdHash/0.json",
		Network:      "mainnet",
		LogLevel:     "info",
		DataDir:      defaultDataDir(),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".libmint"
	}
	return filepath.Join(home, ".libmint")
}

// LoadConfig reads path and overlays every key it defines on DefaultConfig.
func LoadConfig(path string) (CollectionConfig, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return CollectionConfig{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return CollectionConfig{}, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("operator") {
		if cfg.Operator, err = access.ParseAddress(raw.Operator); err != nil {
			return CollectionConfig{}, fmt.Errorf("%w: operator: %w", ErrInvalidConfigValue, err)
		}
	}
	if meta.IsDefined("guardian") {
		if cfg.Guardian, err = access.ParseAddress(raw.Guardian); err != nil {
			return CollectionConfig{}, fmt.Errorf("%w: guardian: %w", ErrInvalidConfigValue, err)
		}
	}
	if meta.IsDefined("limit") {
		cfg.Limit = raw.Limit
	}
	if meta.IsDefined("max_quantity") {
		cfg.MaxQuantity = raw.MaxQuantity
	}
	if meta.IsDefined("owner_limit") {
		cfg.OwnerLimit = raw.OwnerLimit
	}
	if meta.IsDefined("price") {
		cfg.Price = raw.Price
	}
	if meta.IsDefined("batch_size") {
		cfg.BatchSize = raw.BatchSize
	}
	if meta.IsDefined("minimum_index") {
		cfg.MinimumIndex = raw.MinimumIndex
	}
	if meta.IsDefined("base_uri") {
		cfg.BaseURI = strings.TrimSpace(raw.BaseURI)
	}
	if meta.IsDefined("base_image_uri") {
		cfg.BaseImageURI = strings.TrimSpace(raw.BaseImageURI)
	}
	if meta.IsDefined("pre_reveal_uri") {
		cfg.PreRevealURI = strings.TrimSpace(raw.PreRevealURI)
	}
	if meta.IsDefined("network") {
		cfg.Network = strings.ToLower(strings.TrimSpace(raw.Network))
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw.LogLevel))
	}
	if meta.IsDefined("data_dir") {
		cfg.DataDir = strings.TrimSpace(raw.DataDir)
	}

	return cfg, nil
}

// SaveConfig writes cfg to path as TOML, creating parent directories.
func SaveConfig(path string, cfg CollectionConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	raw := fileConfig{
		Name:         cfg.Name,
		Operator:     cfg.Operator.String(),
		Guardian:     cfg.Guardian.String(),
		Limit:        cfg.Limit,
		MaxQuantity:  cfg.MaxQuantity,
		OwnerLimit:   cfg.OwnerLimit,
		Price:        cfg.Price,
		BatchSize:    cfg.BatchSize,
		MinimumIndex: cfg.MinimumIndex,
		BaseURI:      cfg.BaseURI,
		BaseImageURI: cfg.BaseImageURI,
		PreRevealURI: cfg.PreRevealURI,
		Network:      cfg.Network,
		LogLevel:     cfg.LogLevel,
		DataDir:      cfg.DataDir,
	}
	if err := toml.NewEncoder(f).Encode(raw); err != nil {
		_ = f.Close()
		return fmt.Errorf("config: encode: %w", err)
	}
	return f.Close()
}

// Mainnet reports whether addresses render with the mainnet prefix.
func (c CollectionConfig) Mainnet() bool { return c.Network != "testnet" }
