// Package common defines the sentinel errors shared by the storage
// adapters and the application layer. Callers should use errors.Is to
// match these values; no driver-native error type crosses the storage
// boundary.
package common

import "errors"

var (
	// ErrNotFound is returned by explicit lookups (GetRecord, LoadDraft,
	// FindRecordByCPF) when no entity matches. Updates and deletes on a
	// missing id are silent no-ops and never return it.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by InsertRecord when the CPF is already
	// registered.
	ErrConflict = errors.New("already exists")

	// ErrBackendUnavailable means the backend handle could not be
	// established (credential resolution or connectivity failure). The
	// application layer may degrade to read-only mode on this error.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrTransientStore marks a failed transaction or round trip in the
	// document backend. The core never retries; callers decide whether to
	// repeat the whole operation.
	ErrTransientStore = errors.New("transient store error")
)
