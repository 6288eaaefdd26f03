package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/j-veylop/partner-console-tui/internal/models"
	"github.com/j-veylop/partner-console-tui/internal/services"
	"github.com/j-veylop/partner-console-tui/internal/usage"
)

func newSummaryCommand(flags *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print totals and the daily series for the configured region and window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *flags)
			if err != nil {
				return err
			}
			cfg.WatchEnv = false

			mgr, err := services.NewManager(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize services: %w", err)
			}
			defer mgr.Close()

			view := models.NewViewState(cfg.Region, models.Window(cfg.DaysBack))
			agg := mgr.Aggregate(view)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Seed %d · %s · last %s · %d customers\n\n",
				mgr.Seed(), models.RegionLabel(view.Region), view.Window, len(mgr.Customers(view)))

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Avg stored\t%s\n", usage.FormatTB(agg.Totals.AvgStorageTB))
			fmt.Fprintf(w, "Total egress\t%s\n", usage.FormatTB(agg.Totals.EgressTB))
			fmt.Fprintf(w, "Requests\t%s\n", usage.FormatCount(agg.Totals.Requests))
			fmt.Fprintf(w, "Buckets\t%s\n", usage.FormatCount(agg.Totals.Buckets))
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(out)

			w = tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "DATE\tSTORAGE TB\tEGRESS TB\tREQUESTS\t")
			for _, d := range agg.Series {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
					d.Date,
					usage.FormatFixed2(d.StorageTB),
					usage.FormatFixed2(d.EgressTB),
					usage.FormatCount(d.Requests),
				)
			}
			return w.Flush()
		},
	}
}
