package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/lead-intake/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id               TEXT PRIMARY KEY,
	batch_id         TEXT NOT NULL,
	identity_key     TEXT NOT NULL UNIQUE,
	first_name       TEXT NOT NULL,
	middle_name      TEXT NOT NULL DEFAULT '',
	last_name        TEXT NOT NULL,
	primary_phone    TEXT NOT NULL DEFAULT '',
	phones           TEXT NOT NULL DEFAULT '[]',
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
	do_not_call      INTEGER NOT NULL DEFAULT 0,
	do_not_email     INTEGER NOT NULL DEFAULT 0,
	do_not_mail      INTEGER NOT NULL DEFAULT 0,
	status           TEXT NOT NULL,
	raw_status       TEXT NOT NULL DEFAULT '',
	row_index        INTEGER NOT NULL,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS ingest_batches (
	id              TEXT PRIMARY KEY,
	leads           INTEGER NOT NULL,
	duplicates      INTEGER NOT NULL,
	errors          INTEGER NOT NULL,
	sold_customers  INTEGER NOT NULL,
	detail          TEXT NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_batch_id ON leads(batch_id);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteUpsertLeadSQL = `
INSERT INTO leads (
	id, batch_id, identity_key,
	first_name, middle_name, last_name,
	primary_phone, phones, email, email_alt,
	address, city, state, zip,
	vehicle_interest, vehicle_vin, source, sales_person,
	do_not_call, do_not_email, do_not_mail,
	status, raw_status, row_index
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (identity_key) DO UPDATE SET
	batch_id = excluded.batch_id,
	first_name = excluded.first_name,
	middle_name = excluded.middle_name,
	last_name = excluded.last_name,
	primary_phone = excluded.primary_phone,
	phones = excluded.phones,
	email = excluded.email,
	email_alt = excluded.email_alt,
	address = excluded.address,
	city = excluded.city,
	state = excluded.state,
	zip = excluded.zip,
	vehicle_interest = excluded.vehicle_interest,
	vehicle_vin = excluded.vehicle_vin,
	source = excluded.source,
	sales_person = excluded.sales_person,
	do_not_call = excluded.do_not_call,
	do_not_email = excluded.do_not_email,
	do_not_mail = excluded.do_not_mail,
	status = excluded.status,
	raw_status = excluded.raw_status,
	row_index = excluded.row_index,
	updated_at = datetime('now')
`

func (s *SQLiteStore) UpsertLeads(ctx context.Context, batchID string, leads []model.Lead) (int64, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert leads: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsertLeadSQL)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert leads: prepare")
	}
	defer stmt.Close()

	var written int64
	for _, lead := range leads {
		phonesJSON, err := json.Marshal(lead.Phones)
		if err != nil {
			return written, eris.Wrapf(err, "sqlite: upsert leads: marshal phones for row %d", lead.RowIndex)
		}

		res, err := stmt.ExecContext(ctx,
			uuid.New().String(), batchID, identityKey(lead),
			lead.FirstName, lead.MiddleName, lead.LastName,
			lead.PrimaryPhone, string(phonesJSON), lead.Email, lead.EmailAlt,
			lead.Address, lead.City, lead.State, lead.Zip,
			lead.VehicleInterest, lead.VehicleVIN, lead.Source, lead.SalesPerson,
			lead.DoNotCall, lead.DoNotEmail, lead.DoNotMail,
			string(lead.Status), lead.StatusResolution.Raw, lead.RowIndex,
		)
		if err != nil {
			return written, eris.Wrapf(err, "sqlite: upsert leads: row %d", lead.RowIndex)
		}
		if n, err := res.RowsAffected(); err == nil {
			written += n
		}
	}

	if err := tx.Commit(); err != nil {
		return written, eris.Wrap(err, "sqlite: upsert leads: commit tx")
	}
	return written, nil
}

func (s *SQLiteStore) RecordBatch(ctx context.Context, result *model.Result) error {
	detail, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: record batch: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ingest_batches (id, leads, duplicates, errors, sold_customers, detail)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		result.BatchID, len(result.Leads), len(result.Duplicates), len(result.Errors),
		result.SoldCustomersCount, string(detail),
	)
	return eris.Wrap(err, "sqlite: record batch")
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT first_name, middle_name, last_name, primary_phone, phones,
		email, email_alt, address, city, state, zip,
		vehicle_interest, vehicle_vin, source, sales_person,
		do_not_call, do_not_email, do_not_mail, status, raw_status, row_index
		FROM leads WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.BatchID != "" {
		query += ` AND batch_id = ?`
		args = append(args, filter.BatchID)
	}
	query += ` ORDER BY updated_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
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
			return nil, eris.Wrap(err, "sqlite: list leads: scan")
		}
		l.Status = model.Status(status)
		if err := json.Unmarshal([]byte(phonesJSON), &l.Phones); err != nil {
			return nil, eris.Wrap(err, "sqlite: list leads: unmarshal phones")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads: rows")
}
