package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intake/internal/fetcher"
	"github.com/sells-group/lead-intake/internal/ingest"
	"github.com/sells-group/lead-intake/internal/model"
)

var (
	ingestFilePath  string
	ingestSheetName string
	ingestDryRun    bool
	ingestOverrides []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a lead spreadsheet and upsert accepted leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := zap.L().With(zap.String("file", ingestFilePath))

		sheet, err := readSheet(ctx, ingestFilePath)
		if err != nil {
			return err
		}

		mapping := ingest.ClassifyHeaders(sheet.Headers)
		if err := applyOverrides(mapping, ingestOverrides); err != nil {
			return err
		}
		logMapping(log, mapping)

		pipeline := ingest.NewPipeline(
			ingest.WithOptions(ingest.Options{MinPhoneDigits: cfg.Ingest.MinPhoneDigits}),
			ingest.WithMaxRows(cfg.Ingest.MaxRows),
			ingest.WithObserver(logObserver(log)),
		)

		result, err := pipeline.Run(ctx, mapping, sheet.Rows)
		if err != nil {
			return eris.Wrap(err, "run ingestion")
		}

		log.Info("ingestion complete",
			zap.String("batch_id", result.BatchID),
			zap.Int("rows", result.RowsProcessed()),
			zap.Int("leads", len(result.Leads)),
			zap.Int("duplicates", len(result.Duplicates)),
			zap.Int("errors", len(result.Errors)),
			zap.Int("sold_customers", result.SoldCustomersCount),
		)

		if ingestDryRun {
			return nil
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}
		written, err := st.UpsertLeads(ctx, result.BatchID, result.Leads)
		if err != nil {
			return eris.Wrap(err, "upsert leads")
		}
		if err := st.RecordBatch(ctx, result); err != nil {
			return eris.Wrap(err, "record batch")
		}

		log.Info("leads persisted",
			zap.String("batch_id", result.BatchID),
			zap.Int64("written", written),
		)
		return nil
	},
}

// readSheet parses the input file by extension: .csv or .xlsx.
func readSheet(ctx context.Context, path string) (*fetcher.Sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "open csv")
		}
		defer f.Close()
		return fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{})
	case ".xlsx":
		return fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: ingestSheetName})
	default:
		return nil, eris.Errorf("unsupported file type: %s", path)
	}
}

// applyOverrides applies --map field=header flags on top of the detected
// mapping, for the operator review step.
func applyOverrides(mapping model.FieldMapping, overrides []string) error {
	for _, o := range overrides {
		field, header, ok := strings.Cut(o, "=")
		if !ok {
			return eris.Errorf("invalid --map value %q (expected field=header)", o)
		}
		mapping[model.Field(strings.TrimSpace(field))] = strings.TrimSpace(header)
	}
	return nil
}

func logMapping(log *zap.Logger, mapping model.FieldMapping) {
	fields := make([]zap.Field, 0, len(mapping))
	for field, header := range mapping {
		fields = append(fields, zap.String(string(field), header))
	}
	log.Info("header mapping resolved", fields...)
}

// logObserver bridges pipeline events into structured logs, keeping the
// pipeline itself pure.
func logObserver(log *zap.Logger) ingest.Observer {
	return func(ev ingest.Event) {
		switch ev.Kind {
		case ingest.EventError:
			log.Warn("row rejected", zap.Int("row", ev.RowIndex), zap.Error(ev.Err))
		case ingest.EventDuplicate:
			log.Info("duplicate row",
				zap.Int("row", ev.RowIndex),
				zap.String("type", string(ev.Match.Type)),
				zap.Int("conflicts_with_row", ev.Match.Conflict.RowIndex),
			)
		case ingest.EventStatusDefaulted:
			log.Debug("status defaulted",
				zap.Int("row", ev.RowIndex),
				zap.String("raw", ev.Lead.StatusResolution.Raw),
			)
		case ingest.EventAccepted:
			log.Debug("row accepted",
				zap.Int("row", ev.RowIndex),
				zap.String("status", string(ev.Lead.Status)),
			)
		}
	}
}

func init() {
	ingestCmd.Flags().StringVar(&ingestFilePath, "file", "", "path to CSV or XLSX file (required)")
	ingestCmd.Flags().StringVar(&ingestSheetName, "sheet", "", "XLSX sheet name (default: first sheet)")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "classify and report without persisting")
	ingestCmd.Flags().StringArrayVar(&ingestOverrides, "map", nil, "override a field mapping (field=header, repeatable)")
	_ = ingestCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(ingestCmd)
}
