// Package common defines shared constants and sentinel errors used across
// the Tracklight client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Lookup errors.
	ErrorNotFound = errors.New("not found")

	// Transport / API errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("server unavailable")
	ErrValidation   = errors.New("validation error")

	// Timer lifecycle errors.
	ErrTimerAlreadyRunning = errors.New("timer already running")
	ErrNoRunningTimer      = errors.New("no running timer")
)
