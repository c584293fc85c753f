package store

import "errors"

var (
	// ErrStateNotFound indicates the store holds no collection yet.
	ErrStateNotFound = errors.New("store: state not found")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("store: required parameter is nil")

	// ErrCorrupt indicates a stored record could not be decoded.
	ErrCorrupt = errors.New("store: corrupt record")

	// ErrVersion indicates a state written by an unknown format version.
	ErrVersion = errors.New("store: unsupported state version")
)
