package sqlite

import (
	"context"
	"testing"

	"github.com/lfcamara/fundef-registry/internal/common"
	"github.com/lfcamara/fundef-registry/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveDraft_NewAssignsID(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	id, err := b.SaveDraft(ctx, models.DraftPayload{"nome": "Ana"}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	d, err := b.LoadDraft(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, d.CreatedAt, d.UpdatedAt, "both timestamps equal at creation")
}

func TestSaveDraft_UpsertIdempotence(t *testing.T) {
	b, db := newTestBackend(t)
	ctx := context.Background()

	id, err := b.SaveDraft(ctx, models.DraftPayload{"nome": "Ana", "cpf": "111.111.111-11"}, 0)
	require.NoError(t, err)

	// backdate so the refresh of atualizado_em is observable
	_, err = db.Exec(`UPDATE rascunhos_professores SET criado_em = '2020-01-01 00:00:00', atualizado_em = '2020-01-01 00:00:00' WHERE id = ?`, id)
	require.NoError(t, err)

	got, err := b.SaveDraft(ctx, models.DraftPayload{"nome": "Ana B", "cpf": "111.111.111-11"}, id)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM rascunhos_professores`).Scan(&count))
	assert.Equal(t, 1, count, "exactly one draft at that id")

	d, err := b.LoadDraft(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana B", d.Payload.ReferenceName(), "payload reflects the latest call")
	assert.Equal(t, "2020-01-01 00:00:00", d.CreatedAt, "criado_em unchanged")
	assert.NotEqual(t, "2020-01-01 00:00:00", d.UpdatedAt, "atualizado_em refreshed")
}

// The payload is replaced wholesale: a key dropped by the latest save
// must not survive from the previous one.
func TestSaveDraft_PayloadReplacedWholesale(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	id, err := b.SaveDraft(ctx, models.DraftPayload{"nome": "Ana", "cpf": "111.111.111-11"}, 0)
	require.NoError(t, err)

	_, err = b.SaveDraft(ctx, models.DraftPayload{"nome": "Ana B"}, id)
	require.NoError(t, err)

	d, err := b.LoadDraft(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.DraftPayload{"nome": "Ana B"}, d.Payload)

	list, err := b.ListDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].CPF, "denormalized cpf cleared with the payload")
}

// An explicit id that does not exist yet creates the draft at that id.
// This re-entrant create mirrors the existing contract and is deliberate.
func TestSaveDraft_ExplicitMissingIDCreates(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	id, err := b.SaveDraft(ctx, models.DraftPayload{"nome": "Jorge"}, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	d, err := b.LoadDraft(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Jorge", d.Payload.ReferenceName())
	assert.Equal(t, d.CreatedAt, d.UpdatedAt)
}

func TestLoadDraft_RoundTrip(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	payload := models.DraftPayload{
		"nome":          "Ana",
		"cpf":           "111.111.111-11",
		"escola":        "EM Centro",
		"carga_horaria": float64(40),
		"aceitou":       true,
	}
	id, err := b.SaveDraft(ctx, payload, 0)
	require.NoError(t, err)

	d, err := b.LoadDraft(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, payload, d.Payload)
}

func TestLoadDraft_NotFound(t *testing.T) {
	b, _ := newTestBackend(t)

	_, err := b.LoadDraft(context.Background(), 999)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestLoadDraft_CorruptPayloadDegradesToEmpty(t *testing.T) {
	b, db := newTestBackend(t)
	ctx := context.Background()

	_, err := db.Exec(`
		INSERT INTO rascunhos_professores (id, nome_referencia, cpf, dados_json, criado_em, atualizado_em)
		VALUES (7, 'x', '', 'not-json', '2020-01-01 00:00:00', '2020-01-01 00:00:00')`)
	require.NoError(t, err)

	d, err := b.LoadDraft(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, models.DraftPayload{}, d.Payload)
}

func TestListDrafts_OrderingAndTies(t *testing.T) {
	b, db := newTestBackend(t)
	ctx := context.Background()

	for _, nome := range []string{"Primeiro", "Segundo", "Terceiro"} {
		_, err := b.SaveDraft(ctx, models.DraftPayload{"nome": nome}, 0)
		require.NoError(t, err)
	}

	// 1 is newest, 2 and 3 tie on atualizado_em
	_, err := db.Exec(`UPDATE rascunhos_professores SET atualizado_em = '2024-05-02 12:00:00' WHERE id = 1`)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE rascunhos_professores SET atualizado_em = '2024-05-01 08:00:00' WHERE id IN (2, 3)`)
	require.NoError(t, err)

	list, err := b.ListDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(3), list[1].ID, "tie broken by id descending")
	assert.Equal(t, int64(2), list[2].ID)
	assert.Equal(t, "Primeiro", list[0].ReferenceName)
}

func TestListDrafts_ExcludesPayload(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	_, err := b.SaveDraft(ctx, models.DraftPayload{"nome": "Ana", "cpf": "111.111.111-11"}, 0)
	require.NoError(t, err)

	list, err := b.ListDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].ReferenceName)
	assert.Equal(t, "111.111.111-11", list[0].CPF)
	assert.NotEmpty(t, list[0].CreatedAt)
	assert.NotEmpty(t, list[0].UpdatedAt)
}

func TestDeleteDraft_RemovesAndMissingIDIsNoop(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	id, err := b.SaveDraft(ctx, models.DraftPayload{"nome": "Ana"}, 0)
	require.NoError(t, err)

	require.NoError(t, b.DeleteDraft(ctx, id))
	_, err = b.LoadDraft(ctx, id)
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, b.DeleteDraft(ctx, 999))
}

// Matches the application flow: start a draft, rename it, list it.
func TestDraftScenario_SaveRenameList(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	id, err := b.SaveDraft(ctx, models.DraftPayload{"nome": "Ana"}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, err := b.SaveDraft(ctx, models.DraftPayload{"nome": "Ana B"}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	list, err := b.ListDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana B", list[0].ReferenceName)
}
