// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\" or \"testnet\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyName indicates the collection name is empty.
	ErrEmptyName = errors.New("config: collection name must not be empty")

	// ErrMissingPrincipal indicates the operator or guardian address is unset.
	ErrMissingPrincipal = errors.New("config: operator and guardian must be set")

	// ErrInvalidSupply indicates a zero limit or a cap above the limit.
	ErrInvalidSupply = errors.New("config: invalid supply parameters")

	// ErrInvalidBatchSize indicates the limit is not a positive multiple of batch_size.
	ErrInvalidBatchSize = errors.New("config: limit must be a positive multiple of batch_size")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigValue indicates a value in the config file could not be parsed.
	ErrInvalidConfigValue = errors.New("config: invalid configuration value")
)
