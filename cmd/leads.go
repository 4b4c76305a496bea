package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/store"
)

var (
	leadsStatus string
	leadsBatch  string
	leadsLimit  int
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List persisted leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		leads, err := st.ListLeads(ctx, store.LeadFilter{
			Status:  model.Status(leadsStatus),
			BatchID: leadsBatch,
			Limit:   leadsLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list leads")
		}

		for _, l := range leads {
			contact := l.PrimaryPhone
			if contact == "" {
				contact = l.Email
			}
			fmt.Printf("%-24s %-14s %-12s %s\n", l.FullName(), contact, l.Status, l.VehicleInterest)
		}
		fmt.Printf("\n%d leads\n", len(leads))
		return nil
	},
}

func init() {
	leadsCmd.Flags().StringVar(&leadsStatus, "status", "", "filter by canonical status")
	leadsCmd.Flags().StringVar(&leadsBatch, "batch", "", "filter by batch ID")
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 50, "maximum rows to return")
	rootCmd.AddCommand(leadsCmd)
}
