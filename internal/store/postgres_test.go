package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intake/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgres(mock), mock
}

// anyLeadArgs matches the full argument list of upsertLeadSQL without
// constraining values; pgxmock requires the argument count to be declared.
func anyLeadArgs() []any {
	args := make([]any, 24)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestPostgres_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS leads`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpsertLeads(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO leads`).
		WithArgs(anyLeadArgs()...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO leads`).
		WithArgs(anyLeadArgs()...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	written, err := s.UpsertLeads(context.Background(), "batch-1", []model.Lead{
		testLead(1, "2135551212", "ann@example.com"),
		testLead(2, "2135551213", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), written)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpsertLeads_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	written, err := s.UpsertLeads(context.Background(), "batch-1", nil)
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpsertLeads_RollbackOnError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO leads`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := s.UpsertLeads(context.Background(), "batch-1", []model.Lead{
		testLead(1, "2135551212", ""),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert leads")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_RecordBatch(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	result := &model.Result{
		BatchID:            "b7c9e6aa-0000-0000-0000-000000000000",
		Leads:              []model.Lead{testLead(1, "2135551212", "")},
		SoldCustomersCount: 0,
	}

	mock.ExpectExec(`INSERT INTO ingest_batches`).
		WithArgs(result.BatchID, 1, 0, 0, 0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.RecordBatch(context.Background(), result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListLeads_Filtered(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{
		"first_name", "middle_name", "last_name", "primary_phone", "phones",
		"email", "email_alt", "address", "city", "state", "zip",
		"vehicle_interest", "vehicle_vin", "source", "sales_person",
		"do_not_call", "do_not_email", "do_not_mail", "status", "raw_status", "row_index",
	}).AddRow(
		"Ann", "", "Lee", "2135551212", `[{"number":"2135551212","source":"cell","rank":1,"primary":true}]`,
		"", "", "", "", "", "",
		"2024 Honda Civic", "", "", "",
		false, false, false, "sold", "Sold", 1,
	)

	mock.ExpectQuery(`SELECT first_name, middle_name, last_name`).
		WithArgs("sold").
		WillReturnRows(rows)

	leads, err := s.ListLeads(context.Background(), LeadFilter{Status: model.StatusSold})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Ann", leads[0].FirstName)
	assert.Equal(t, model.StatusSold, leads[0].Status)
	require.Len(t, leads[0].Phones, 1)
	assert.True(t, leads[0].Phones[0].Primary)
	assert.NoError(t, mock.ExpectationsWereMet())
}
