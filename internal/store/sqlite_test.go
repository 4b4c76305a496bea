package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intake/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testLead(rowIndex int, phone, email string) model.Lead {
	return model.Lead{
		FirstName:       "Ann",
		LastName:        "Lee",
		PrimaryPhone:    phone,
		Email:           email,
		VehicleInterest: "2024 Honda Civic",
		Status:          model.StatusNew,
		RowIndex:        rowIndex,
	}
}

func TestSQLite_UpsertAndList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	batchID := uuid.New().String()

	written, err := st.UpsertLeads(ctx, batchID, []model.Lead{
		testLead(1, "2135551212", "ann@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), written)

	leads, err := st.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Ann", leads[0].FirstName)
	assert.Equal(t, "2135551212", leads[0].PrimaryPhone)
	assert.Equal(t, model.StatusNew, leads[0].Status)
}

func TestSQLite_UpsertSameIdentityUpdatesInPlace(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.UpsertLeads(ctx, uuid.New().String(), []model.Lead{
		testLead(1, "2135551212", "old@example.com"),
	})
	require.NoError(t, err)

	updated := testLead(1, "2135551212", "new@example.com")
	updated.Status = model.StatusSold
	_, err = st.UpsertLeads(ctx, uuid.New().String(), []model.Lead{updated})
	require.NoError(t, err)

	leads, err := st.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "new@example.com", leads[0].Email)
	assert.Equal(t, model.StatusSold, leads[0].Status)
}

func TestSQLite_EmailFallbackIdentity(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	// Two email-only leads with different addresses both persist.
	_, err := st.UpsertLeads(ctx, uuid.New().String(), []model.Lead{
		testLead(1, "", "ann@example.com"),
	})
	require.NoError(t, err)
	bo := testLead(2, "", "bo@example.com")
	bo.FirstName = "Bo"
	_, err = st.UpsertLeads(ctx, uuid.New().String(), []model.Lead{bo})
	require.NoError(t, err)

	leads, err := st.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, leads, 2)
}

func TestSQLite_ListLeadsFilterByStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	sold := testLead(1, "2135551111", "")
	sold.Status = model.StatusSold
	fresh := testLead(2, "2135552222", "")
	_, err := st.UpsertLeads(ctx, uuid.New().String(), []model.Lead{sold, fresh})
	require.NoError(t, err)

	leads, err := st.ListLeads(ctx, LeadFilter{Status: model.StatusSold})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "2135551111", leads[0].PrimaryPhone)
}

func TestSQLite_UpsertEmptyBatch(t *testing.T) {
	st := newTestSQLiteStore(t)

	written, err := st.UpsertLeads(context.Background(), uuid.New().String(), nil)
	require.NoError(t, err)
	assert.Zero(t, written)
}

func TestSQLite_RecordBatch(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	result := &model.Result{
		BatchID:            uuid.New().String(),
		Leads:              []model.Lead{testLead(1, "2135551212", "")},
		Errors:             []model.RowError{{RowIndex: 2, Message: "ingest: missing customer name"}},
		SoldCustomersCount: 0,
	}
	require.NoError(t, st.RecordBatch(ctx, result))

	// Recording the same batch twice violates the primary key.
	assert.Error(t, st.RecordBatch(ctx, result))
}

func TestSQLite_PhonesRoundTrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	lead := testLead(1, "2135551212", "")
	lead.Phones = []model.PhoneNumber{
		{Number: "2135551212", Source: model.PhoneSourceCell, Rank: 1, Primary: true},
		{Number: "2135559999", Source: model.PhoneSourceEvening, Rank: 3},
	}
	_, err := st.UpsertLeads(ctx, uuid.New().String(), []model.Lead{lead})
	require.NoError(t, err)

	leads, err := st.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	require.Len(t, leads[0].Phones, 2)
	assert.True(t, leads[0].Phones[0].Primary)
	assert.Equal(t, model.PhoneSourceEvening, leads[0].Phones[1].Source)
}
