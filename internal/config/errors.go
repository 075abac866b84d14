// Package config provides configuration types and defaults for vidsift.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidSampling indicates a frame count or stride below 1.
	ErrInvalidSampling = errors.New("invalid sampling parameters")

	// ErrInvalidThreshold indicates a quality threshold outside its valid range.
	ErrInvalidThreshold = errors.New("invalid quality threshold")

	// ErrInvalidMotion indicates motion parameters outside their valid range.
	ErrInvalidMotion = errors.New("invalid motion parameters")

	// ErrInvalidConfig indicates any other invalid configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")
)
