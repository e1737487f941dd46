package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no session was handed over by the auth collaborator
	ErrSessionNotFound = errors.New("session not found")

	// ErrRecordNotFound indicates that a local record was not found
	ErrRecordNotFound = errors.New("record not found")

	// ErrFailureNotFound indicates that no failure is recorded for the record
	ErrFailureNotFound = errors.New("failure not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
