package domain

import "errors"

var (
	// ErrValidation marks a required input that is missing or malformed.
	// Raised before any upstream call is made.
	ErrValidation = errors.New("validation failed")

	// ErrGeneration marks an upstream call that completed without producing
	// a usable artifact.
	ErrGeneration = errors.New("generation failed")

	// ErrTransport marks a network or protocol level failure talking to the
	// upstream capability, including timeouts.
	ErrTransport = errors.New("upstream transport failure")

	// ErrRead marks a local file that could not be read into its binary
	// representation. Unreadable input is never coerced to empty content.
	ErrRead = errors.New("file read failed")

	ErrRequestInFlight = errors.New("request already in flight")
	ErrSessionNotFound = errors.New("session not found")
	ErrNoResult        = errors.New("no result available")
)
