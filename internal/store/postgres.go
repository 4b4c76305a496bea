package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intake/internal/model"
)

// PgxPool is the minimal pool surface used by PostgresStore. Both
// *pgxpool.Pool and pgxmock satisfy it.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	db PgxPool
}

// NewPostgres wraps an established pgx pool.
func NewPostgres(pool PgxPool) *PostgresStore {
	return &PostgresStore{db: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id               UUID PRIMARY KEY,
	batch_id         UUID NOT NULL,
	identity_key     TEXT NOT NULL UNIQUE,
	first_name       TEXT NOT NULL,
	middle_name      TEXT NOT NULL DEFAULT '',
	last_name        TEXT NOT NULL,
	primary_phone    TEXT NOT NULL DEFAULT '',
	phones           JSONB NOT NULL DEFAULT '[]',
	email            TEXT NOT NULL DEFAULT '',
	email_alt        TEXT NOT NULL DEFAULT '',
	address          TEXT NOT NULL DEFAULT '',
	city             TEXT NOT NULL DEFAULT '',
	state            TEXT NOT NULL DEFAULT '',
	zip              TEXT NOT NULL DEFAULT '',
	vehicle_interest TEXT NOT NULL,
	vehicle_vin      TEXT NOT NULL DEFAULT '',
	source           TEXT NOT NULL DEFAULT '',
	sales_person     TEXT NOT NULL DEFAULT '',
	do_not_call      BOOLEAN NOT NULL DEFAULT FALSE,
	do_not_email     BOOLEAN NOT NULL DEFAULT FALSE,
	do_not_mail      BOOLEAN NOT NULL DEFAULT FALSE,
	status           TEXT NOT NULL,
	raw_status       TEXT NOT NULL DEFAULT '',
	row_index        INTEGER NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ingest_batches (
	id              UUID PRIMARY KEY,
	leads           INTEGER NOT NULL,
	duplicates      INTEGER NOT NULL,
	errors          INTEGER NOT NULL,
	sold_customers  INTEGER NOT NULL,
	detail          JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_batch_id ON leads(batch_id);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

const upsertLeadSQL = `
INSERT INTO leads (
	id, batch_id, identity_key,
	first_name, middle_name, last_name,
	primary_phone, phones, email, email_alt,
	address, city, state, zip,
	vehicle_interest, vehicle_vin, source, sales_person,
	do_not_call, do_not_email, do_not_mail,
	status, raw_status, row_index
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
ON CONFLICT (identity_key) DO UPDATE SET
	batch_id = EXCLUDED.batch_id,
	first_name = EXCLUDED.first_name,
	middle_name = EXCLUDED.middle_name,
	last_name = EXCLUDED.last_name,
	primary_phone = EXCLUDED.primary_phone,
	phones = EXCLUDED.phones,
	email = EXCLUDED.email,
	email_alt = EXCLUDED.email_alt,
	address = EXCLUDED.address,
	city = EXCLUDED.city,
	state = EXCLUDED.state,
	zip = EXCLUDED.zip,
	vehicle_interest = EXCLUDED.vehicle_interest,
	vehicle_vin = EXCLUDED.vehicle_vin,
	source = EXCLUDED.source,
	sales_person = EXCLUDED.sales_person,
	do_not_call = EXCLUDED.do_not_call,
	do_not_email = EXCLUDED.do_not_email,
	do_not_mail = EXCLUDED.do_not_mail,
	status = EXCLUDED.status,
	raw_status = EXCLUDED.raw_status,
	row_index = EXCLUDED.row_index,
	updated_at = now()
`

// UpsertLeads writes accepted leads inside one transaction, keyed by the
// primary contact identity so re-ingesting a file updates in place.
func (s *PostgresStore) UpsertLeads(ctx context.Context, batchID string, leads []model.Lead) (int64, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert leads: begin tx")
	}
	defer tx.Rollback(ctx)

	var written int64
	for _, lead := range leads {
		phonesJSON, err := json.Marshal(lead.Phones)
		if err != nil {
			return written, eris.Wrapf(err, "postgres: upsert leads: marshal phones for row %d", lead.RowIndex)
		}

		tag, err := tx.Exec(ctx, upsertLeadSQL,
			uuid.New().String(), batchID, identityKey(lead),
			lead.FirstName, lead.MiddleName, lead.LastName,
			lead.PrimaryPhone, string(phonesJSON), lead.Email, lead.EmailAlt,
			lead.Address, lead.City, lead.State, lead.Zip,
			lead.VehicleInterest, lead.VehicleVIN, lead.Source, lead.SalesPerson,
			lead.DoNotCall, lead.DoNotEmail, lead.DoNotMail,
			string(lead.Status), lead.StatusResolution.Raw, lead.RowIndex,
		)
		if err != nil {
			return written, eris.Wrapf(err, "postgres: upsert leads: row %d", lead.RowIndex)
		}
		written += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return written, eris.Wrap(err, "postgres: upsert leads: commit tx")
	}
	return written, nil
}

// RecordBatch persists the aggregate outcome of one ingestion run for
// operator review.
func (s *PostgresStore) RecordBatch(ctx context.Context, result *model.Result) error {
	detail, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: record batch: marshal result")
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO ingest_batches (id, leads, duplicates, errors, sold_customers, detail)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		result.BatchID, len(result.Leads), len(result.Duplicates), len(result.Errors),
		result.SoldCustomersCount, string(detail),
	)
	return eris.Wrap(err, "postgres: record batch")
}

// ListLeads returns persisted leads matching the filter, newest first.
func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT first_name, middle_name, last_name, primary_phone, phones,
		email, email_alt, address, city, state, zip,
		vehicle_interest, vehicle_vin, source, sales_person,
		do_not_call, do_not_email, do_not_mail, status, raw_status, row_index
		FROM leads WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.BatchID != "" {
		args = append(args, filter.BatchID)
		query += ` AND batch_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY updated_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		var phonesJSON, status string
		if err := rows.Scan(
			&l.FirstName, &l.MiddleName, &l.LastName, &l.PrimaryPhone, &phonesJSON,
			&l.Email, &l.EmailAlt, &l.Address, &l.City, &l.State, &l.Zip,
			&l.VehicleInterest, &l.VehicleVIN, &l.Source, &l.SalesPerson,
			&l.DoNotCall, &l.DoNotEmail, &l.DoNotMail, &status, &l.StatusResolution.Raw, &l.RowIndex,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: list leads: scan")
		}
		l.Status = model.Status(status)
		if err := json.Unmarshal([]byte(phonesJSON), &l.Phones); err != nil {
			return nil, eris.Wrap(err, "postgres: list leads: unmarshal phones")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads: rows")
}

