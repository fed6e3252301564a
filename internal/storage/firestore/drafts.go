package firestore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/lfcamara/fundef-registry/internal/common"
	"github.com/lfcamara/fundef-registry/internal/models"
	"github.com/lfcamara/fundef-registry/internal/timex"
)

// draftDoc is the stored shape of a draft: the payload under one field
// plus the denormalized listing columns, mirroring the relational schema.
type draftDoc struct {
	ID            int64          `firestore:"id"`
	ReferenceName string         `firestore:"nome_referencia"`
	CPF           string         `firestore:"cpf"`
	Payload       map[string]any `firestore:"dados"`
	CreatedAt     string         `firestore:"criado_em"`
	UpdatedAt     string         `firestore:"atualizado_em"`
}

func (b *Backend) draftSnapshotByID(ctx context.Context, id int64) (*firestore.DocumentSnapshot, error) {
	it := b.client.Collection(draftsCollection).Where("id", "==", id).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup draft %d: %w", id, err)
	}
	return snap, nil
}

// SaveDraft upserts a draft. Unlike the relational backend, the existence
// check and the write are two sequential round trips; concurrent saves on
// a brand-new id may both attempt creation and the last write wins.
func (b *Backend) SaveDraft(ctx context.Context, payload models.DraftPayload, id int64) (int64, error) {
	now := timex.Now()

	if id > 0 {
		snap, err := b.draftSnapshotByID(ctx, id)
		if err != nil {
			return 0, err
		}
		if snap != nil {
			// Merge with explicit paths so the stored payload map is
			// overwritten wholesale; MergeAll would descend into it and
			// leave behind keys the new payload dropped.
			_, err := snap.Ref.Set(ctx, map[string]any{
				"nome_referencia": payload.ReferenceName(),
				"cpf":             payload.CPF(),
				"dados":           map[string]any(payload),
				"atualizado_em":   now,
			}, firestore.Merge(
				firestore.FieldPath{"nome_referencia"},
				firestore.FieldPath{"cpf"},
				firestore.FieldPath{"dados"},
				firestore.FieldPath{"atualizado_em"},
			))
			if err != nil {
				return 0, fmt.Errorf("update draft: %w: %v", common.ErrTransientStore, err)
			}
			b.logger.Debug(ctx, "draft updated", "id", id)
			return id, nil
		}
		// re-entrant create: land on the requested id
		return id, b.createDraft(ctx, id, payload, now)
	}

	newID, err := b.nextID(ctx, draftCounterField)
	if err != nil {
		return 0, err
	}
	return newID, b.createDraft(ctx, newID, payload, now)
}

func (b *Backend) createDraft(ctx context.Context, id int64, payload models.DraftPayload, now string) error {
	doc := draftDoc{
		ID:            id,
		ReferenceName: payload.ReferenceName(),
		CPF:           payload.CPF(),
		Payload:       payload,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	ref := b.client.Collection(draftsCollection).Doc(strconv.FormatInt(id, 10))
	if _, err := ref.Set(ctx, doc); err != nil {
		return fmt.Errorf("create draft: %w: %v", common.ErrTransientStore, err)
	}
	return nil
}

// LoadDraft returns the full draft including its payload.
func (b *Backend) LoadDraft(ctx context.Context, id int64) (*models.Draft, error) {
	snap, err := b.draftSnapshotByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, common.ErrNotFound
	}

	var doc draftDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", snap.Ref.ID, err)
	}
	return draftFromDoc(doc), nil
}

// ListDrafts returns payload-free summaries with an explicit order: most
// recently updated first, ties broken by id descending.
func (b *Backend) ListDrafts(ctx context.Context) ([]models.DraftSummary, error) {
	it := b.client.Collection(draftsCollection).
		OrderBy("atualizado_em", firestore.Desc).
		OrderBy("id", firestore.Desc).
		Documents(ctx)
	defer it.Stop()

	var result []models.DraftSummary
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list drafts: %w", err)
		}
		var doc draftDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode draft %s: %w", snap.Ref.ID, err)
		}
		result = append(result, draftSummaryFromDoc(doc))
	}
	return result, nil
}

// DeleteDraft removes the draft. A missing id is a no-op.
func (b *Backend) DeleteDraft(ctx context.Context, id int64) error {
	snap, err := b.draftSnapshotByID(ctx, id)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	if _, err := snap.Ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func draftFromDoc(doc draftDoc) *models.Draft {
	payload := models.DraftPayload(doc.Payload)
	if payload == nil {
		payload = models.DraftPayload{}
	}
	return &models.Draft{
		ID:        doc.ID,
		Payload:   payload,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func draftSummaryFromDoc(doc draftDoc) models.DraftSummary {
	return models.DraftSummary{
		ID:            doc.ID,
		ReferenceName: doc.ReferenceName,
		CPF:           doc.CPF,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}
