package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/j-veylop/partner-console-tui/internal/export"
	"github.com/j-veylop/partner-console-tui/internal/services"
)

func newExportCommand(flags *overrides) *cobra.Command {
	var (
		outDir     string
		toStdout   bool
		sqlitePath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the bucket-level CSV report without starting the UI",
		Long: fmt.Sprintf(`Write the full roster as %s: one row per date, customer
and bucket. Use --sqlite to also write a SQLite snapshot for ad-hoc queries.`, export.DefaultFilename),
		Args: cobra.NoArgs,
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

			out := cmd.OutOrStdout()
			if toStdout {
				if err := export.WriteCSV(out, mgr.Roster()); err != nil {
					return fmt.Errorf("failed to write CSV: %w", err)
				}
			} else {
				path, err := mgr.ExportCSV(outDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Exported %s\n", path)
			}

			if sqlitePath != "" {
				if err := mgr.SnapshotSQLite(context.Background(), sqlitePath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Snapshot written to %s\n", sqlitePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default EXPORT_DIR)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write the CSV to standard output instead of a file")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "also write a SQLite snapshot to this path")
	cmd.MarkFlagsMutuallyExclusive("out", "stdout")

	return cmd
}
