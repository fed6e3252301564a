// Package firestore implements the storage.Service contract on top of
// Cloud Firestore. The store has no native autoincrement, so identity is
// synthesized through a counter document updated inside a transaction, and
// it guarantees no default ordering, so every read passes an explicit
// OrderBy. Lookups go through the "id" document field rather than the
// document key; this indexed equality query is slower than a key fetch and
// is a known latency asymmetry against the SQLite backend.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lfcamara/fundef-registry/internal/common"
	"github.com/lfcamara/fundef-registry/internal/logging"
	"github.com/lfcamara/fundef-registry/internal/storage"
)

const (
	recordsCollection = "professores"
	draftsCollection  = "rascunhos_professores"
	metaCollection    = "_meta"
	countersDoc       = "counters"

	recordCounterField = "last_professor_id"
	draftCounterField  = "last_rascunho_id"
)

// Config carries the Firestore connection settings. CredentialsFile wins
// over CredentialsJSON; when neither resolves, ambient Application Default
// Credentials are used.
type Config struct {
	ProjectID       string
	CredentialsFile string
	CredentialsJSON string
}

// Backend is the Firestore-backed storage adapter.
type Backend struct {
	client *firestore.Client
	logger logging.Logger
}

var _ storage.Service = (*Backend)(nil)

// Open resolves credentials and connects to Firestore. Every failure on
// this path reports common.ErrBackendUnavailable so the application layer
// can degrade instead of crashing.
func Open(ctx context.Context, cfg Config, logger logging.Logger) (*Backend, error) {
	opts := resolveOptions(ctx, cfg, logger)

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w: %v", common.ErrBackendUnavailable, err)
	}

	logger.Info(ctx, "firestore store opened", "project", cfg.ProjectID)
	return &Backend{client: client, logger: logger}, nil
}

// Init seeds the counters document when missing. Create fails with
// AlreadyExists if another process won the race, which keeps the call
// idempotent.
func (b *Backend) Init(ctx context.Context) error {
	ref := b.client.Collection(metaCollection).Doc(countersDoc)

	_, err := ref.Get(ctx)
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("read counters: %w: %v", common.ErrTransientStore, err)
	}

	_, err = ref.Create(ctx, map[string]any{
		recordCounterField: int64(0),
		draftCounterField:  int64(0),
	})
	if err != nil && status.Code(err) != codes.AlreadyExists {
		return fmt.Errorf("seed counters: %w: %v", common.ErrTransientStore, err)
	}
	return nil
}

// Close closes the Firestore client.
func (b *Backend) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}
