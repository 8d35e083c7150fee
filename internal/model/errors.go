package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrPersistence is matched by every PersistenceError via errors.Is.
var ErrPersistence = errors.New("store persistence failure")

// ProviderFetchError describes a failed call to one upstream provider. The
// gateway recovers from it locally; it never reaches lookup callers.
type ProviderFetchError struct {
	Provider   ProviderID
	StatusCode int           // zero when no response was received
	RetryAfter time.Duration // from a 429/503 Retry-After header, informational only
	Err        error
}

func (e *ProviderFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s fetch: HTTP %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s fetch: %v", e.Provider, e.Err)
}

func (e *ProviderFetchError) Unwrap() error {
	return e.Err
}

// PersistenceError is returned when a store write or delete fails. The
// operation has been rolled back when this is returned.
type PersistenceError struct {
	Op  string // "insert", "wipe"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrPersistence, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
