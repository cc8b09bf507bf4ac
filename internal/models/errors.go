package models

import "errors"

// Common validation errors for models.
var (
	// ErrNameRequired indicates a required name field is empty.
	ErrNameRequired = errors.New("name is required")

	// ErrURLRequired indicates a required URL field is empty.
	ErrURLRequired = errors.New("url is required")

	// ErrInvalidURL indicates a malformed URL.
	ErrInvalidURL = errors.New("invalid URL format")

	// ErrInvalidCategory indicates an unknown playlist category hint.
	ErrInvalidCategory = errors.New("invalid category: must be 'sports', 'general', or empty")

	// ErrInvalidEpgRole indicates an invalid EPG source role.
	ErrInvalidEpgRole = errors.New("invalid epg source role: must be 'provider' or 'custom'")
)
