package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lfcamara/fundef-registry/internal/common"
)

// nextID assigns a new identity by incrementing the named counter field
// inside a transaction: read the current value, add one, write it back.
// The transaction is all-or-nothing, so concurrent callers never observe
// or assign the same id. On commit failure the whole operation fails with
// common.ErrTransientStore; the core performs no retry beyond what the
// client's RunTransaction does internally.
func (b *Backend) nextID(ctx context.Context, field string) (int64, error) {
	ref := b.client.Collection(metaCollection).Doc(countersDoc)

	var next int64
	err := b.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		if err != nil {
			// counters doc is missing (Init skipped): seed it atomically
			next = 1
			seed := map[string]any{
				recordCounterField: int64(0),
				draftCounterField:  int64(0),
			}
			seed[field] = next
			return tx.Set(ref, seed)
		}

		last, err := asInt64(snap.Data()[field])
		if err != nil {
			// a silent reset to 0 would re-issue ids that already key
			// existing documents
			return err
		}
		next = last + 1
		return tx.Update(ref, []firestore.Update{{Path: field, Value: next}})
	})
	if err != nil {
		return 0, fmt.Errorf("increment %s: %w: %v", field, common.ErrTransientStore, err)
	}
	b.logger.Debug(ctx, "counter advanced", "field", field, "value", next)
	return next, nil
}

// asInt64 normalizes the numeric types Firestore may hand back for a
// counter value. A missing field reads as zero; any other non-numeric
// value is an error.
func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected counter value of type %T", v)
	}
}
