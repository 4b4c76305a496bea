package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sells-group/lead-intake/internal/ingest"
	"github.com/sells-group/lead-intake/internal/model"
)

var mapFilePath string

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Preview the header-to-field mapping for a spreadsheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sheet, err := readSheet(cmd.Context(), mapFilePath)
		if err != nil {
			return err
		}

		mapping := ingest.ClassifyHeaders(sheet.Headers)

		fields := make([]string, 0, len(mapping))
		for f := range mapping {
			fields = append(fields, string(f))
		}
		sort.Strings(fields)

		for _, f := range fields {
			fmt.Printf("%-16s <- %q\n", f, mapping[model.Field(f)])
		}
		fmt.Printf("\n%d of %d headers mapped, %d rows\n", len(mapping), len(sheet.Headers), len(sheet.Rows))
		return nil
	},
}

func init() {
	mapCmd.Flags().StringVar(&mapFilePath, "file", "", "path to CSV or XLSX file (required)")
	_ = mapCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(mapCmd)
}
