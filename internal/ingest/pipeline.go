package ingest

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intake/internal/model"
)

// EventKind identifies a per-row pipeline event.
type EventKind string

const (
	EventAccepted        EventKind = "accepted"
	EventDuplicate       EventKind = "duplicate"
	EventError           EventKind = "error"
	EventStatusDefaulted EventKind = "status_defaulted"
)

// Event is a diagnostic emitted once per outcome as the pipeline walks the
// batch. The pipeline itself stays pure; logging lives in the observer.
type Event struct {
	Kind     EventKind
	RowIndex int
	Lead     *model.Lead
	Match    *Match
	Err      error
}

// Observer receives pipeline events. Nil observers are allowed.
type Observer func(Event)

// Pipeline orchestrates one ingestion batch: normalize each row, check it
// against the accepted set, and classify the outcome. A pathological row
// never prevents processing of the remainder of the file.
type Pipeline struct {
	opts     Options
	maxRows  int
	observer Observer
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithOptions sets the row normalization options.
func WithOptions(opts Options) PipelineOption {
	return func(p *Pipeline) { p.opts = opts }
}

// WithMaxRows caps the number of rows processed in one batch. Zero means
// unbounded. Exceeding the cap stops the run with an error while keeping
// everything processed so far.
func WithMaxRows(n int) PipelineOption {
	return func(p *Pipeline) { p.maxRows = n }
}

// WithObserver attaches a diagnostic event callback.
func WithObserver(obs Observer) PipelineOption {
	return func(p *Pipeline) { p.observer = obs }
}

// NewPipeline builds a Pipeline.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ErrRowLimit is returned when a batch exceeds the configured row cap.
var ErrRowLimit = eris.New("ingest: row limit exceeded")

// Run processes a batch of rows against a field mapping and returns the
// classified result. Caller-contract violations (an unusable mapping) fail
// synchronously before any row is processed; bad data never does — every
// malformed row becomes an entry in Errors with its 1-based index.
//
// Cancellation is checked between rows. On cancellation or row-limit stop,
// the partial result is returned alongside the error.
func (p *Pipeline) Run(ctx context.Context, mapping model.FieldMapping, rows []map[string]string) (*model.Result, error) {
	if err := mapping.Validate(); err != nil {
		return nil, eris.Wrap(err, "ingest: invalid mapping")
	}

	result := &model.Result{BatchID: uuid.New().String()}
	resolver := NewResolver()

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			result.SoldCustomersCount = len(result.SoldCustomers)
			return result, eris.Wrap(err, "ingest: batch cancelled")
		}
		if p.maxRows > 0 && i >= p.maxRows {
			result.SoldCustomersCount = len(result.SoldCustomers)
			return result, ErrRowLimit
		}

		rowIndex := i + 1

		lead, err := NormalizeRow(mapping, row, rowIndex, p.opts)
		if err != nil {
			result.Errors = append(result.Errors, model.RowError{
				RowIndex: rowIndex,
				Message:  err.Error(),
			})
			p.emit(Event{Kind: EventError, RowIndex: rowIndex, Err: err})
			continue
		}

		if match := resolver.Check(lead); match.IsDuplicate {
			result.Duplicates = append(result.Duplicates, model.Duplicate{
				Lead:          lead,
				Type:          match.Type,
				ConflictsWith: match.Conflict,
			})
			p.emit(Event{Kind: EventDuplicate, RowIndex: rowIndex, Lead: &lead, Match: &match})
			continue
		}

		result.Leads = append(result.Leads, lead)
		resolver.Accept(&lead)
		p.emit(Event{Kind: EventAccepted, RowIndex: rowIndex, Lead: &lead})

		if lead.StatusResolution.Reason == model.StatusReasonDefault && lead.StatusResolution.Normalized != "" {
			p.emit(Event{Kind: EventStatusDefaulted, RowIndex: rowIndex, Lead: &lead})
		}
		if lead.Status == model.StatusSold {
			result.SoldCustomers = append(result.SoldCustomers, lead)
		}
	}

	result.SoldCustomersCount = len(result.SoldCustomers)
	return result, nil
}

func (p *Pipeline) emit(ev Event) {
	if p.observer != nil {
		p.observer(ev)
	}
}
