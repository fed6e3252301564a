package firestore

// The tests in this file exercise the real client against the Firestore
// emulator and are skipped when FIRESTORE_EMULATOR_HOST is unset. Each
// test runs under its own project id, which the emulator treats as an
// isolated namespace.

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfcamara/fundef-registry/internal/common"
	"github.com/lfcamara/fundef-registry/internal/logging"
	"github.com/lfcamara/fundef-registry/internal/models"
)

var projSeq atomic.Int64

func newEmulatorBackend(t *testing.T) *Backend {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	project := fmt.Sprintf("registry-test-%d", projSeq.Add(1))
	client, err := firestore.NewClient(ctx, project)
	require.NoError(t, err)

	b := &Backend{client: client, logger: logging.NewDefault("error")}
	t.Cleanup(func() { b.Close() })
	require.NoError(t, b.Init(ctx))
	return b
}

func TestSaveDraft_ReplacesPayloadWholesale(t *testing.T) {
	b := newEmulatorBackend(t)
	ctx := context.Background()

	id, err := b.SaveDraft(ctx, models.DraftPayload{
		"nome": "Ana",
		"cpf":  "111.111.111-11",
	}, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	got, err := b.SaveDraft(ctx, models.DraftPayload{"nome": "Ana B"}, id)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	// the cpf key dropped by the second save must not linger
	d, err := b.LoadDraft(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.DraftPayload{"nome": "Ana B"}, d.Payload)

	summaries, err := b.ListDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Ana B", summaries[0].ReferenceName)
	assert.Empty(t, summaries[0].CPF)
}

func TestSaveDraft_UpsertKeepsCreatedAt(t *testing.T) {
	b := newEmulatorBackend(t)
	ctx := context.Background()

	id, err := b.SaveDraft(ctx, models.DraftPayload{"nome": "Ana"}, 0)
	require.NoError(t, err)

	before, err := b.LoadDraft(ctx, id)
	require.NoError(t, err)

	_, err = b.SaveDraft(ctx, models.DraftPayload{"nome": "Ana B"}, id)
	require.NoError(t, err)

	after, err := b.LoadDraft(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)

	summaries, err := b.ListDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
}

func TestSaveDraft_ExplicitMissingIDCreatesAtThatID(t *testing.T) {
	b := newEmulatorBackend(t)
	ctx := context.Background()

	id, err := b.SaveDraft(ctx, models.DraftPayload{"nome": "Ana"}, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	d, err := b.LoadDraft(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.DraftPayload{"nome": "Ana"}, d.Payload)
}

func TestNextID_SequentialPerCounter(t *testing.T) {
	b := newEmulatorBackend(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		id, err := b.nextID(ctx, draftCounterField)
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}

	// the record counter advances independently
	id, err := b.nextID(ctx, recordCounterField)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestNextID_SeedsMissingCountersDoc(t *testing.T) {
	b := newEmulatorBackend(t)
	ctx := context.Background()

	_, err := b.client.Collection(metaCollection).Doc(countersDoc).Delete(ctx)
	require.NoError(t, err)

	id, err := b.nextID(ctx, recordCounterField)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = b.nextID(ctx, recordCounterField)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestNextID_RejectsCorruptCounter(t *testing.T) {
	b := newEmulatorBackend(t)
	ctx := context.Background()

	_, err := b.client.Collection(metaCollection).Doc(countersDoc).
		Set(ctx, map[string]any{draftCounterField: "banana"})
	require.NoError(t, err)

	_, err = b.nextID(ctx, draftCounterField)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTransientStore)

	// the corrupt value must not have been reset
	snap, err := b.client.Collection(metaCollection).Doc(countersDoc).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "banana", snap.Data()[draftCounterField])
}

func TestListDrafts_OrderedByUpdatedAtThenID(t *testing.T) {
	b := newEmulatorBackend(t)
	ctx := context.Background()

	write := func(id int64, updated string) {
		doc := draftDoc{
			ID:            id,
			ReferenceName: fmt.Sprintf("rascunho %d", id),
			Payload:       map[string]any{},
			CreatedAt:     updated,
			UpdatedAt:     updated,
		}
		_, err := b.client.Collection(draftsCollection).
			Doc(strconv.FormatInt(id, 10)).Set(ctx, doc)
		require.NoError(t, err)
	}
	write(1, "2024-05-01 08:00:00")
	write(2, "2024-05-02 08:00:00")
	write(3, "2024-05-02 08:00:00") // tie with 2, higher id wins

	summaries, err := b.ListDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	var ids []int64
	for _, s := range summaries {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int64{3, 2, 1}, ids)
}

func TestInsertRecord_CounterIdentityAndCPFConflict(t *testing.T) {
	b := newEmulatorBackend(t)
	ctx := context.Background()

	id, err := b.InsertRecord(ctx, &models.Record{
		Name: "Maria da Silva",
		CPF:  "111.111.111-11",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = b.InsertRecord(ctx, &models.Record{
		Name: "Outra Pessoa",
		CPF:  "111.111.111-11",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)

	id, err = b.InsertRecord(ctx, &models.Record{
		Name: "Joana Souza",
		CPF:  "222.222.222-22",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	rec, err := b.GetRecord(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Maria da Silva", rec.Name)
	assert.NotEmpty(t, rec.CreatedAt)
}
