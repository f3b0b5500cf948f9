// Package models - shared error taxonomy
package models

import "errors"

// Expected failure classes. NotFound and Timeout are normal outcomes of
// probing an unstable host UI; callers branch on them, they never abort a
// batch. Only ErrStateCorrupt escalates, and only at engine startup.
var (
	ErrNotFound       = errors.New("element not found")
	ErrTimeout        = errors.New("operation timed out")
	ErrTransport      = errors.New("collaborator unreachable")
	ErrStateCorrupt   = errors.New("persisted state unreadable")
	ErrInvalidProfile = errors.New("scraped element did not yield a valid profile")
)
