// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg CollectionConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return ErrEmptyName
	}

	if cfg.Operator.IsZero() || cfg.Guardian.IsZero() {
		return ErrMissingPrincipal
	}

	if cfg.Limit == 0 {
		return fmt.Errorf("%w: limit is zero", ErrInvalidSupply)
	}
	if cfg.OwnerLimit > cfg.Limit {
		return fmt.Errorf("%w: owner_limit %d exceeds limit %d", ErrInvalidSupply, cfg.OwnerLimit, cfg.Limit)
	}
	if cfg.MaxQuantity > cfg.Limit {
		return fmt.Errorf("%w: max_quantity %d exceeds limit %d", ErrInvalidSupply, cfg.MaxQuantity, cfg.Limit)
	}

	if cfg.BatchSize == 0 || cfg.Limit%cfg.BatchSize != 0 {
		return fmt.Errorf("%w: limit %d, batch_size %d", ErrInvalidBatchSize, cfg.Limit, cfg.BatchSize)
	}

	if cfg.Network != "mainnet" && cfg.Network != "testnet" {
		return ErrInvalidNetwork
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}
