package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lfcamara/fundef-registry/internal/common"
	"github.com/lfcamara/fundef-registry/internal/dbx"
	"github.com/lfcamara/fundef-registry/internal/models"
	"github.com/lfcamara/fundef-registry/internal/timex"
)

// SaveDraft upserts a draft. The existence check and the write run in one
// local transaction, so concurrent saves on the same id cannot interleave.
// An explicit id that does not exist yet is created at that id.
func (b *Backend) SaveDraft(ctx context.Context, payload models.DraftPayload, id int64) (int64, error) {
	now := timex.Now()
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encode draft payload: %w", err)
	}
	name := payload.ReferenceName()
	cpf := payload.CPF()

	var effective int64
	err = dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if id > 0 {
			var existing int64
			err := tx.QueryRowContext(ctx,
				`SELECT id FROM rascunhos_professores WHERE id = ?`, id).Scan(&existing)
			switch {
			case err == nil:
				_, err := tx.ExecContext(ctx, `
					UPDATE rascunhos_professores
					SET nome_referencia = ?, cpf = ?, dados_json = ?, atualizado_em = ?
					WHERE id = ?`,
					name, cpf, string(data), now, id)
				effective = id
				return err
			case !errors.Is(err, sql.ErrNoRows):
				return err
			}

			// re-entrant create: land on the requested id
			_, err = tx.ExecContext(ctx, `
				INSERT INTO rascunhos_professores (id, nome_referencia, cpf, dados_json, criado_em, atualizado_em)
				VALUES (?, ?, ?, ?, ?, ?)`,
				id, name, cpf, string(data), now, now)
			effective = id
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO rascunhos_professores (nome_referencia, cpf, dados_json, criado_em, atualizado_em)
			VALUES (?, ?, ?, ?, ?)`,
			name, cpf, string(data), now, now)
		if err != nil {
			return err
		}
		effective, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("save draft: %w", err)
	}
	b.logger.Debug(ctx, "draft saved", "id", effective)
	return effective, nil
}

// LoadDraft returns the full draft. A payload that no longer decodes
// degrades to an empty map rather than failing the load.
func (b *Backend) LoadDraft(ctx context.Context, id int64) (*models.Draft, error) {
	var (
		d    models.Draft
		data string
	)
	err := b.db.QueryRowContext(ctx, `
		SELECT id, dados_json, criado_em, atualizado_em
		FROM rascunhos_professores WHERE id = ?`, id).
		Scan(&d.ID, &data, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &d.Payload); err != nil {
		d.Payload = models.DraftPayload{}
	}
	return &d, nil
}

// ListDrafts returns payload-free summaries, most recently updated first,
// ties broken by id descending.
func (b *Backend) ListDrafts(ctx context.Context) ([]models.DraftSummary, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, nome_referencia, cpf, criado_em, atualizado_em
		FROM rascunhos_professores
		ORDER BY datetime(atualizado_em) DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("select drafts: %w", err)
	}
	defer rows.Close()

	var result []models.DraftSummary
	for rows.Next() {
		var s models.DraftSummary
		if err := rows.Scan(&s.ID, &s.ReferenceName, &s.CPF, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drafts: %w", err)
	}
	return result, nil
}

// DeleteDraft removes the draft. A missing id is a no-op.
func (b *Backend) DeleteDraft(ctx context.Context, id int64) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM rascunhos_professores WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
