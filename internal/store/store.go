package store

import (
	"context"

	"github.com/sells-group/lead-intake/internal/model"
)

// LeadFilter specifies criteria for listing persisted leads.
type LeadFilter struct {
	Status  model.Status `json:"status,omitempty"`
	BatchID string       `json:"batch_id,omitempty"`
	Limit   int          `json:"limit,omitempty"`
	Offset  int          `json:"offset,omitempty"`
}

// Store defines the persistence interface the ingest core's output feeds
// into. Accepted leads are upserted keyed by their primary contact
// identity (primary phone, falling back to email); batch outcomes are
// recorded for operator review. Cross-batch duplicate checking is a
// separate concern and deliberately not part of this interface.
type Store interface {
	// UpsertLeads writes accepted leads, updating on identity conflict.
	// Returns the number of rows written.
	UpsertLeads(ctx context.Context, batchID string, leads []model.Lead) (int64, error)

	// RecordBatch persists the aggregate outcome of one ingestion run.
	RecordBatch(ctx context.Context, result *model.Result) error

	// ListLeads returns persisted leads matching the filter.
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// identityKey is the upsert conflict key: primary phone when present,
// otherwise the lowercased email. A lead always has one of the two.
func identityKey(l model.Lead) string {
	if l.PrimaryPhone != "" {
		return l.PrimaryPhone
	}
	return l.Email
}
