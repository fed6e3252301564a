// Package storage defines the backend-agnostic persistence contract for
// teacher registration records and drafts. Two implementations exist:
// the embedded SQLite store and the Firestore document store. Exactly one
// is constructed at process start; nothing selects a backend per call.
package storage

import (
	"context"

	"github.com/lfcamara/fundef-registry/internal/models"
)

// Service is the full operation set shared by both storage backends.
//
// Semantics every implementation must honor:
//
//   - Ids are assigned by the backend, strictly increase within one
//     backend instance, and are never reused, even after deletes.
//   - CreatedAt is stamped exactly once at insertion and never mutated.
//   - UpdateRecord, DeleteRecord and DeleteDraft on a missing id are
//     silent no-ops, not errors.
//   - Explicit lookups return common.ErrNotFound when nothing matches.
//   - SaveDraft upserts: an id that does not exist yet is created at that
//     id rather than rejected, so the call is idempotent by id.
//
// Failures are reported through the sentinel errors in internal/common;
// no driver-native error type crosses this boundary.
type Service interface {
	// Init idempotently ensures the backing schema or collections and any
	// required metadata (counter seeds) exist. Safe to call on every
	// process start.
	Init(ctx context.Context) error

	// ListRecords returns all records ordered by id. Descending is the
	// usual direction for "most recent first" display.
	ListRecords(ctx context.Context, orderDesc bool) ([]models.Record, error)

	// FindRecordByCPF returns the single record with the given CPF, or
	// common.ErrNotFound.
	FindRecordByCPF(ctx context.Context, cpf string) (*models.Record, error)

	// GetRecord returns the record with the given id, or common.ErrNotFound.
	GetRecord(ctx context.Context, id int64) (*models.Record, error)

	// InsertRecord assigns an id and CreatedAt and stores the record,
	// returning the new id. A CPF collision yields common.ErrConflict.
	InsertRecord(ctx context.Context, rec *models.Record) (int64, error)

	// UpdateRecord replaces every updatable field of the record with the
	// given id. A missing id is a no-op.
	UpdateRecord(ctx context.Context, id int64, rec *models.Record) error

	// DeleteRecord physically removes the record. A missing id is a no-op.
	DeleteRecord(ctx context.Context, id int64) error

	// SaveDraft creates or updates a draft. id <= 0 assigns a fresh id;
	// an explicit id updates in place, or creates the draft at that id if
	// it does not exist. Returns the effective id.
	SaveDraft(ctx context.Context, payload models.DraftPayload, id int64) (int64, error)

	// LoadDraft returns the full draft including its payload, or
	// common.ErrNotFound.
	LoadDraft(ctx context.Context, id int64) (*models.Draft, error)

	// ListDrafts returns payload-free summaries ordered by UpdatedAt
	// descending, ties broken by id descending.
	ListDrafts(ctx context.Context) ([]models.DraftSummary, error)

	// DeleteDraft removes the draft. A missing id is a no-op.
	DeleteDraft(ctx context.Context, id int64) error

	// ExportRecords returns the field-complete record set ordered by id
	// descending. Projection for presentation is the caller's concern.
	ExportRecords(ctx context.Context) ([]models.Record, error)

	// RecordsForAllocation returns summaries ordered by name ascending for
	// the downstream allocation computation.
	RecordsForAllocation(ctx context.Context) ([]models.RecordSummary, error)

	// Close releases the backend handle.
	Close() error
}
