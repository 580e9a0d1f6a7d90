package config

import "errors"

var (
	// ErrInvalid indicates a manifest that cannot be parsed, validated,
	// or built.
	ErrInvalid = errors.New("config: invalid manifest")

	// ErrUnsupportedFormat indicates a file extension or format name
	// this package does not parse.
	ErrUnsupportedFormat = errors.New("config: unsupported format")
)
