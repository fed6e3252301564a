package app

import (
	"context"
	"testing"

	"github.com/lfcamara/fundef-registry/internal/config"
	"github.com/lfcamara/fundef-registry/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = t.TempDir()

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew_SQLiteBackendReady(t *testing.T) {
	a := newSQLiteApp(t)
	require.NotNil(t, a.Storage())
	require.NotNil(t, a.Logger())
}

// Exercises the full contract end to end through the Service interface,
// the way the application layer consumes it.
func TestApp_RecordAndDraftFlow(t *testing.T) {
	a := newSQLiteApp(t)
	ctx := context.Background()
	store := a.Storage()

	id, err := store.InsertRecord(ctx, &models.Record{
		Name: "Ana", CPF: "111.111.111-11", RG: "1", Registration: "m", School: "s",
		Role: "r", EmploymentStatus: "e", AdmissionDate: "2000-01-01",
		Phone: "p", Email: "a@b", Address: "x", Bank: "b", Branch: "br",
		Account: "c", AccountType: "t", FundefStart: "1997-01-01",
		FundefEnd: "2006-12-31", WeeklyHours: 20, MonthsWorked: 12,
		AcceptedDeclaration: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	draftID, err := store.SaveDraft(ctx, models.DraftPayload{"nome": "Rascunho"}, 0)
	require.NoError(t, err)

	records, err := store.ListRecords(ctx, true)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	drafts, err := store.ListDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, draftID, drafts[0].ID)

	// promotion is two independent calls; the core guarantees each one,
	// not atomicity across the pair
	require.NoError(t, store.DeleteDraft(ctx, draftID))
}

func TestBackendName(t *testing.T) {
	cfg := &config.Config{}
	assert.Equal(t, "sqlite", backendName(cfg))
	cfg.UseFirebase = true
	assert.Equal(t, "firestore", backendName(cfg))
}
